// Package parser turns OpenAPI/Swagger documents into routes that the
// requester can execute.
package parser

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/brizzai/restexec/internal/logger"
	"github.com/brizzai/restexec/internal/requester"
	"github.com/getkin/kin-openapi/openapi2"
	"github.com/getkin/kin-openapi/openapi2conv"
	"github.com/getkin/kin-openapi/openapi3"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// NewSwaggerParser creates a new SwaggerParser instance
func NewSwaggerParser(adjuster *Adjuster) *SwaggerParser {
	if adjuster == nil {
		adjuster = NewAdjuster()
	}
	return &SwaggerParser{
		routes:   make([]*Route, 0),
		adjuster: adjuster,
	}
}

// GetRoutes returns the parsed routes
func (p *SwaggerParser) GetRoutes() []*Route {
	return p.routes
}

// FindRoute looks a route up by name
func (p *SwaggerParser) FindRoute(name string) (*Route, bool) {
	for _, route := range p.routes {
		if route.Name == name {
			return route, true
		}
	}
	return nil, false
}

// routeName uses the operationId when present, otherwise method and path
func routeName(method, path string, operation *openapi3.Operation) string {
	if operation.OperationID != "" {
		return operation.OperationID
	}
	name := strings.TrimPrefix(path, "/")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "{", "")
	name = strings.ReplaceAll(name, "}", "")
	return strings.ToLower(fmt.Sprintf("%s_%s", method, name))
}

// extractPathParams extracts path parameters from a URL path
func extractPathParams(path string) []string {
	var params []string
	for _, part := range strings.Split(path, "/") {
		if strings.HasPrefix(part, "{") && strings.HasSuffix(part, "}") {
			params = append(params, strings.TrimSuffix(strings.TrimPrefix(part, "{"), "}"))
		}
	}
	return params
}

// toJSON accepts JSON or YAML input and returns JSON
func toJSON(data []byte) (map[string]interface{}, []byte, error) {
	var doc map[string]interface{}
	if err := json.Unmarshal(data, &doc); err == nil {
		return doc, data, nil
	}
	var raw interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, nil, fmt.Errorf("spec is neither valid JSON nor YAML: %w", err)
	}
	doc, ok := normalizeYAML(raw).(map[string]interface{})
	if !ok {
		return nil, nil, fmt.Errorf("spec document is not an object")
	}
	converted, err := json.Marshal(doc)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to convert YAML spec to JSON: %w", err)
	}
	return doc, converted, nil
}

// normalizeYAML rewrites non-string mapping keys, such as unquoted
// response codes, so the document can be encoded as JSON
func normalizeYAML(v interface{}) interface{} {
	switch t := v.(type) {
	case map[string]interface{}:
		for k, item := range t {
			t[k] = normalizeYAML(item)
		}
		return t
	case map[interface{}]interface{}:
		out := make(map[string]interface{}, len(t))
		for k, item := range t {
			out[fmt.Sprintf("%v", k)] = normalizeYAML(item)
		}
		return out
	case []interface{}:
		for i, item := range t {
			t[i] = normalizeYAML(item)
		}
		return t
	default:
		return v
	}
}

// detectAndParseOpenAPI attempts to parse data as either OpenAPI 2.0 or 3.0
func (p *SwaggerParser) detectAndParseOpenAPI(data []byte) error {
	jsonObj, jsonData, err := toJSON(data)
	if err != nil {
		return fmt.Errorf("invalid OpenAPI spec: %w", err)
	}

	swaggerVersion, hasSwagger := jsonObj["swagger"]
	openapiVersion, hasOpenAPI := jsonObj["openapi"]

	if !hasSwagger && !hasOpenAPI {
		return fmt.Errorf("document is missing 'swagger' or 'openapi' version field")
	}

	if hasSwagger {
		convertedDoc, err := p.convertOpenAPI2to3(jsonData, swaggerVersion)
		if err != nil {
			return err
		}
		p.doc = convertedDoc
		return nil
	}

	if ver, ok := openapiVersion.(string); !ok || !strings.HasPrefix(ver, "3.") {
		return fmt.Errorf("unsupported OpenAPI version: %v", openapiVersion)
	}

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(jsonData)
	if err != nil {
		logger.Error("Failed to parse OpenAPI 3.0 spec", zap.Error(err))
		return fmt.Errorf("failed to parse OpenAPI spec: %w", err)
	}
	if doc == nil {
		return fmt.Errorf("failed to parse OpenAPI spec: document is empty")
	}

	logger.Debug("Parsed OpenAPI 3.0 spec")
	p.doc = doc
	return nil
}

// convertOpenAPI2to3 converts an OpenAPI 2.0 specification to OpenAPI 3.0
func (p *SwaggerParser) convertOpenAPI2to3(data []byte, swaggerVersion interface{}) (*openapi3.T, error) {
	var swagger2Doc openapi2.T
	if err := json.Unmarshal(data, &swagger2Doc); err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI 2.0 spec: %w", err)
	}

	if swagger2Doc.Swagger != "2.0" {
		return nil, fmt.Errorf("unsupported Swagger version: %v", swaggerVersion)
	}

	logger.Debug("Detected OpenAPI 2.0 spec, converting to OpenAPI 3.0")
	convertedDoc, err := openapi2conv.ToV3(&swagger2Doc)
	if err != nil {
		logger.Error("Failed to convert OpenAPI 2.0 to 3.0", zap.Error(err))
		return nil, fmt.Errorf("failed to convert OpenAPI 2.0 to 3.0: %w", err)
	}
	return convertedDoc, nil
}

// Init parses a Swagger/OpenAPI specification from a file
func (p *SwaggerParser) Init(openAPISpec string, adjustmentsFile string) error {
	data, err := os.ReadFile(openAPISpec)
	if err != nil {
		return fmt.Errorf("failed to read spec file: %w", err)
	}
	if err := p.adjuster.Load(adjustmentsFile); err != nil {
		return fmt.Errorf("failed to load adjustments file: %w", err)
	}

	if err := p.detectAndParseOpenAPI(data); err != nil {
		return err
	}
	return p.processOperations()
}

// ParseReader parses a Swagger/OpenAPI specification from a reader
func (p *SwaggerParser) ParseReader(reader io.Reader) error {
	data, err := io.ReadAll(reader)
	if err != nil {
		return fmt.Errorf("failed to read swagger spec: %w", err)
	}

	if err := p.detectAndParseOpenAPI(data); err != nil {
		return err
	}
	return p.processOperations()
}

// processOperations iterates through paths and operations in the spec
func (p *SwaggerParser) processOperations() error {
	p.routes = p.routes[:0]
	if p.doc.Paths == nil {
		return nil
	}

	for path, pathItem := range p.doc.Paths.Map() {
		httpMethods := []struct {
			Method    string
			Operation *openapi3.Operation
		}{
			{"GET", pathItem.Get},
			{"POST", pathItem.Post},
			{"PUT", pathItem.Put},
			{"DELETE", pathItem.Delete},
			{"PATCH", pathItem.Patch},
		}

		for _, httpMethod := range httpMethods {
			if httpMethod.Operation == nil || !p.adjuster.Selected(path, httpMethod.Method) {
				continue
			}
			p.routes = append(p.routes, p.createRoute(path, httpMethod.Method, pathItem, httpMethod.Operation))
		}
	}

	sort.Slice(p.routes, func(i, j int) bool {
		return p.routes[i].Name < p.routes[j].Name
	})
	logger.Debug("Processed OpenAPI operations", zap.Int("routes", len(p.routes)))
	return nil
}

// createRoute creates a route from a path and operation
func (p *SwaggerParser) createRoute(path, method string, pathItem *openapi3.PathItem, operation *openapi3.Operation) *Route {
	routeConfig := &requester.RouteConfig{
		Path:    path,
		Method:  method,
		Headers: p.adjuster.GetHeaders(path, method),
	}

	desc := operation.Description
	if desc == "" {
		desc = operation.Summary
	}
	routeConfig.Description = p.adjuster.GetDescription(path, method, desc)

	var params []Parameter
	declaredPath := make(map[string]bool)
	for _, param := range operationParameters(pathItem, operation) {
		params = append(params, Parameter{
			Name:        param.Name,
			In:          param.In,
			Type:        schemaType(param.Schema),
			Required:    param.Required,
			Description: param.Description,
		})
		switch param.In {
		case InQuery:
			routeConfig.MethodConfig.QueryParams = append(routeConfig.MethodConfig.QueryParams, param.Name)
		case InHeader:
			routeConfig.MethodConfig.HeaderParams = append(routeConfig.MethodConfig.HeaderParams, param.Name)
		case InPath:
			declaredPath[param.Name] = true
		}
	}
	// Some documents use path templates without declaring the parameter
	for _, name := range extractPathParams(path) {
		if !declaredPath[name] {
			params = append(params, Parameter{Name: name, In: InPath, Type: openapi3.TypeString, Required: true})
		}
	}

	if form := formFields(formBodySchema(operation)); len(form) > 0 {
		for _, field := range form {
			routeConfig.MethodConfig.FormFields = append(routeConfig.MethodConfig.FormFields, field.Name)
		}
		params = append(params, form...)
	} else if schema, required := getFirstBodySchema(operation); schema != nil {
		description := ""
		if schema.Value != nil {
			description = schema.Value.Description
		}
		params = append(params, Parameter{
			Name:        requester.BodyParam,
			In:          InBody,
			Type:        schemaType(schema),
			Required:    required,
			Description: description,
		})
	}

	return &Route{
		Name:        routeName(method, path, operation),
		RouteConfig: routeConfig,
		Parameters:  params,
	}
}
