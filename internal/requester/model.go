package requester

import (
	"context"
	"encoding/json"
)

// BodyParam is the parameter holding a JSON request body
const BodyParam = "body"

// RouteExecutor is a function that can execute a route with params
type RouteExecutor func(ctx context.Context, params map[string]interface{}) (*Response, error)

// Response is the outcome of a route call that reached the server and
// returned JSON. Error is set when the status was not 200.
type Response struct {
	StatusCode int
	Body       json.RawMessage
	Error      error
}

// OK reports whether the server answered 200
func (r *Response) OK() bool {
	return r.Error == nil
}
