package requester

// RouteConfig holds the configuration for a specific route
type RouteConfig struct {
	// Path is appended to the endpoint base URL. Segments like {id} are
	// replaced with the matching parameter.
	Path        string            `json:"path" yaml:"path"`
	Method      string            `json:"method" yaml:"method"`
	Description string            `json:"description,omitempty" yaml:"description,omitempty"`
	Headers     map[string]string `json:"headers,omitempty" yaml:"headers,omitempty"`
	// Method specific configurations
	MethodConfig MethodConfig `json:"method_config" yaml:"method_config"`
}

// MethodConfig says where each named parameter goes
type MethodConfig struct {
	QueryParams  []string `json:"query_params,omitempty" yaml:"query_params,omitempty"`
	HeaderParams []string `json:"header_params,omitempty" yaml:"header_params,omitempty"`

	// For application/x-www-form-urlencoded bodies
	FormFields []string `json:"form_fields,omitempty" yaml:"form_fields,omitempty"`
}
