package requester

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/brizzai/restexec/internal/config"
	"github.com/brizzai/restexec/internal/executor"
	"github.com/brizzai/restexec/internal/logger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// HTTPRequester binds routes to an executor
type HTTPRequester struct {
	executor   *executor.Executor
	serviceCfg *config.EndpointConfig
	authMgr    AuthManager
}

type HTTPRequesterParams struct {
	fx.In

	Executor      *executor.Executor
	ServiceConfig *config.EndpointConfig
	AuthManager   AuthManager
}

// NewHTTPRequester creates a new HTTPRequester
func NewHTTPRequester(params HTTPRequesterParams) *HTTPRequester {
	return &HTTPRequester{
		executor:   params.Executor,
		serviceCfg: params.ServiceConfig,
		authMgr:    params.AuthManager,
	}
}

// BuildRouteExecutor creates a function that can execute requests for a specific route
func (r *HTTPRequester) BuildRouteExecutor(route *RouteConfig) (RouteExecutor, error) {
	if route == nil {
		return nil, fmt.Errorf("route config is nil")
	}
	if _, err := executor.ParseMethod(route.Method); err != nil {
		return nil, fmt.Errorf("invalid route %s: %w", route.Path, err)
	}

	builder := NewHTTPRequestBuilder(r.serviceCfg, r.authMgr, route)

	return func(ctx context.Context, params map[string]interface{}) (*Response, error) {
		req, err := builder.BuildRequest(params)
		if err != nil {
			return nil, err
		}
		logger.Info("request route",
			zap.String("method", req.Method.String()),
			zap.String("url", req.URL),
		)

		out := executor.Run[json.RawMessage, json.RawMessage](ctx, r.executor, req)
		switch out.Kind {
		case executor.OutcomeSuccess:
			return &Response{StatusCode: out.StatusCode, Body: out.Value}, nil
		case executor.OutcomeStructuredFailure:
			return &Response{StatusCode: out.StatusCode, Body: out.Failure, Error: out.Err}, nil
		default:
			logger.Error("failed to execute request", zap.Error(out.Err))
			return nil, out.Err
		}
	}, nil
}
