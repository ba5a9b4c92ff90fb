package executor

import (
	"context"
	"errors"
)

// OutcomeKind tells which variant of an Outcome is populated
type OutcomeKind int

const (
	OutcomeSuccess OutcomeKind = iota
	OutcomeStructuredFailure
	OutcomeTransportFailure
	OutcomeConfigurationFailure
)

func (k OutcomeKind) String() string {
	switch k {
	case OutcomeSuccess:
		return "success"
	case OutcomeStructuredFailure:
		return "structured_failure"
	case OutcomeTransportFailure:
		return "transport_failure"
	case OutcomeConfigurationFailure:
		return "configuration_failure"
	default:
		return "unknown"
	}
}

// Outcome is the result of a call as a tagged value. Value is set for
// OutcomeSuccess, Failure for OutcomeStructuredFailure; Err is set for
// every failure kind.
type Outcome[T, F any] struct {
	Kind       OutcomeKind
	Value      T
	Failure    F
	StatusCode int
	Err        error
}

// OK reports whether the call succeeded
func (o Outcome[T, F]) OK() bool {
	return o.Kind == OutcomeSuccess
}

// Run executes req, decoding a 200 body into T and any other JSON error body into F
func Run[T, F any](ctx context.Context, e *Executor, req *Request) Outcome[T, F] {
	var out Outcome[T, F]
	err := e.Execute(ctx, req, &out.Value, &out.Failure)
	if err == nil {
		out.Kind = OutcomeSuccess
		out.StatusCode = 200
		return out
	}

	out.Err = err
	var structured *StructuredError
	var transport *TransportError
	switch {
	case errors.As(err, &structured):
		out.Kind = OutcomeStructuredFailure
		out.StatusCode = structured.StatusCode
	case errors.As(err, &transport):
		out.Kind = OutcomeTransportFailure
		out.StatusCode = transport.StatusCode
	default:
		out.Kind = OutcomeConfigurationFailure
	}
	return out
}

// Call executes req and decodes a 200 body into T. Any other status yields
// a *TransportError carrying the status and raw body.
func Call[T any](ctx context.Context, e *Executor, req *Request) (T, error) {
	var value T
	err := e.Execute(ctx, req, &value, nil)
	return value, err
}

// CallWithFailure is Call with non-200 bodies decoded into F and returned as
// a *StructuredError.
func CallWithFailure[T, F any](ctx context.Context, e *Executor, req *Request) (T, error) {
	var value T
	var failure F
	err := e.Execute(ctx, req, &value, &failure)
	return value, err
}
