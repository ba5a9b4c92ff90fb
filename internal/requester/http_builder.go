package requester

import (
	"encoding/json"
	"fmt"
	"net/url"
	"regexp"
	"sort"
	"strings"

	"github.com/brizzai/restexec/internal/config"
	"github.com/brizzai/restexec/internal/executor"
)

var pathParamPattern = regexp.MustCompile(`\{([^{}/]+)\}`)

// HTTPRequestBuilder turns a route and its parameters into an executor request
type HTTPRequestBuilder struct {
	serviceCfg  *config.EndpointConfig
	authMgr     AuthManager
	routeConfig *RouteConfig
}

// NewHTTPRequestBuilder creates a new HTTPRequestBuilder
func NewHTTPRequestBuilder(serviceCfg *config.EndpointConfig, authMgr AuthManager, routeConfig *RouteConfig) *HTTPRequestBuilder {
	return &HTTPRequestBuilder{
		serviceCfg:  serviceCfg,
		authMgr:     authMgr,
		routeConfig: routeConfig,
	}
}

// BuildRequest builds a request from the route and parameters
func (b *HTTPRequestBuilder) BuildRequest(params map[string]interface{}) (*executor.Request, error) {
	if b.routeConfig == nil {
		return nil, fmt.Errorf("route config is nil")
	}
	method, err := executor.ParseMethod(b.routeConfig.Method)
	if err != nil {
		return nil, err
	}

	path, used, err := expandPath(b.routeConfig.Path, params)
	if err != nil {
		return nil, err
	}

	headers := make(executor.Headers)
	if b.serviceCfg != nil {
		for k, v := range b.serviceCfg.Headers {
			headers[k] = v
		}
	}
	for k, v := range b.routeConfig.Headers {
		headers[k] = v
	}
	for _, name := range b.routeConfig.MethodConfig.HeaderParams {
		if value, ok := params[name]; ok {
			headers[name] = fmt.Sprintf("%v", value)
			used[name] = true
		}
	}

	body, contentType, err := b.createRequestBody(method, params, used)
	if err != nil {
		return nil, fmt.Errorf("failed to create request body: %w", err)
	}

	rawURL, err := b.buildURL(path, b.queryParams(method, params, used))
	if err != nil {
		return nil, err
	}

	if b.authMgr != nil {
		if err := b.authMgr.ApplyAuth(headers); err != nil {
			return nil, fmt.Errorf("failed to apply authentication: %w", err)
		}
	}

	return &executor.Request{
		Method:      method,
		URL:         rawURL,
		Body:        body,
		Headers:     headers,
		ContentType: contentType,
	}, nil
}

// expandPath substitutes {name} segments and reports which params it consumed
func expandPath(path string, params map[string]interface{}) (string, map[string]bool, error) {
	used := make(map[string]bool)
	var missing []string
	expanded := pathParamPattern.ReplaceAllStringFunc(path, func(segment string) string {
		name := segment[1 : len(segment)-1]
		value, ok := params[name]
		if !ok {
			missing = append(missing, name)
			return segment
		}
		used[name] = true
		return url.PathEscape(fmt.Sprintf("%v", value))
	})
	if len(missing) > 0 {
		return "", nil, fmt.Errorf("missing path parameters: %s", strings.Join(missing, ", "))
	}
	return expanded, used, nil
}

func (b *HTTPRequestBuilder) buildURL(path string, query url.Values) (string, error) {
	base := ""
	if b.serviceCfg != nil {
		base = strings.TrimSuffix(b.serviceCfg.BaseURL, "/")
	}
	if base != "" && !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	u, err := url.Parse(base + path)
	if err != nil {
		return "", fmt.Errorf("invalid route URL %q: %w", base+path, err)
	}
	if len(query) > 0 {
		q := u.Query()
		for key, values := range query {
			for _, v := range values {
				q.Add(key, v)
			}
		}
		u.RawQuery = q.Encode()
	}
	return u.String(), nil
}

// queryParams picks the declared query parameters. Routes without
// declarations send every leftover parameter for methods without a body.
func (b *HTTPRequestBuilder) queryParams(method executor.Method, params map[string]interface{}, used map[string]bool) url.Values {
	q := url.Values{}
	declared := b.routeConfig.MethodConfig.QueryParams
	if len(declared) > 0 {
		for _, name := range declared {
			if value, ok := params[name]; ok {
				q.Set(name, fmt.Sprintf("%v", value))
			}
		}
		return q
	}

	switch method {
	case executor.MethodGet, executor.MethodHead, executor.MethodDelete:
	default:
		return q
	}
	for name, value := range params {
		if used[name] || name == BodyParam {
			continue
		}
		q.Set(name, fmt.Sprintf("%v", value))
	}
	return q
}

func (b *HTTPRequestBuilder) createRequestBody(method executor.Method, params map[string]interface{}, used map[string]bool) (string, string, error) {
	if method == executor.MethodGet || method == executor.MethodHead {
		return "", "", nil
	}

	if fields := b.routeConfig.MethodConfig.FormFields; len(fields) > 0 {
		form := url.Values{}
		names := append([]string(nil), fields...)
		sort.Strings(names)
		for _, name := range names {
			if value, ok := params[name]; ok {
				form.Set(name, fmt.Sprintf("%v", value))
				used[name] = true
			}
		}
		if len(form) == 0 {
			return "", "", nil
		}
		return form.Encode(), executor.MIMEForm, nil
	}

	body, ok := params[BodyParam]
	if !ok || body == nil {
		return "", "", nil
	}
	used[BodyParam] = true
	switch v := body.(type) {
	case string:
		return v, executor.MIMEJSON, nil
	case json.RawMessage:
		return string(v), executor.MIMEJSON, nil
	default:
		jsonData, err := json.Marshal(v)
		if err != nil {
			return "", "", fmt.Errorf("failed to marshal request body: %w", err)
		}
		return string(jsonData), executor.MIMEJSON, nil
	}
}
