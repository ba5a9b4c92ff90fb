package parser

import (
	"io"

	"github.com/brizzai/restexec/internal/requester"
	"github.com/getkin/kin-openapi/openapi3"
)

// Parameter locations
const (
	InPath   = "path"
	InQuery  = "query"
	InHeader = "header"
	InBody   = "body"
	InForm   = "formData"
)

// Parameter documents one input of a route
type Parameter struct {
	Name        string
	In          string
	Type        string
	Required    bool
	Description string
}

// Route is a named operation of the remote API
type Route struct {
	Name        string
	RouteConfig *requester.RouteConfig
	Parameters  []Parameter
}

// Parser handles parsing of Swagger/OpenAPI specifications
type Parser interface {
	// Init parses a Swagger/OpenAPI specification from a file
	Init(openAPISpec string, adjustmentsFile string) error
	// ParseReader parses a Swagger/OpenAPI specification from a reader
	ParseReader(reader io.Reader) error
	// GetRoutes returns the parsed routes sorted by name
	GetRoutes() []*Route
	// FindRoute looks a route up by name
	FindRoute(name string) (*Route, bool)
}

// SwaggerParser parses Swagger specifications and generates route configurations
type SwaggerParser struct {
	doc      *openapi3.T
	routes   []*Route
	adjuster *Adjuster
}
