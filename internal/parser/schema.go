package parser

import (
	"sort"

	"github.com/getkin/kin-openapi/openapi3"
)

// schemaType names the JSON type of a schema, "object" when unknown
func schemaType(schema *openapi3.SchemaRef) string {
	if schema == nil || schema.Value == nil || schema.Value.Type == nil || len(schema.Value.Type.Slice()) == 0 {
		return openapi3.TypeObject
	}
	return schema.Value.Type.Slice()[0]
}

// operationParameters merges path-level and operation-level parameters.
// Operation parameters override path ones with the same name and location.
func operationParameters(pathItem *openapi3.PathItem, operation *openapi3.Operation) []*openapi3.Parameter {
	type key struct{ name, in string }
	seen := make(map[key]int)
	var params []*openapi3.Parameter

	add := func(refs openapi3.Parameters) {
		for _, ref := range refs {
			if ref == nil || ref.Value == nil {
				continue
			}
			k := key{ref.Value.Name, ref.Value.In}
			if i, ok := seen[k]; ok {
				params[i] = ref.Value
				continue
			}
			seen[k] = len(params)
			params = append(params, ref.Value)
		}
	}
	if pathItem != nil {
		add(pathItem.Parameters)
	}
	add(operation.Parameters)
	return params
}

// getFirstBodySchema returns the JSON request body schema, merging the
// properties of all media types when several are declared
func getFirstBodySchema(operation *openapi3.Operation) (*openapi3.SchemaRef, bool) {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil, false
	}
	content := operation.RequestBody.Value.Content
	required := operation.RequestBody.Value.Required

	if len(content) == 0 {
		return nil, false
	}
	if mediaType := content.Get("application/json"); mediaType != nil {
		return mediaType.Schema, required
	}
	if len(content) == 1 {
		for _, mediaType := range content {
			return mediaType.Schema, required
		}
	}

	mergedSchema := &openapi3.SchemaRef{
		Value: &openapi3.Schema{
			Type:       &openapi3.Types{openapi3.TypeObject},
			Properties: make(openapi3.Schemas),
		},
	}
	for _, mediaType := range content {
		if mediaType.Schema != nil && mediaType.Schema.Value != nil {
			for propName, propSchema := range mediaType.Schema.Value.Properties {
				mergedSchema.Value.Properties[propName] = propSchema
			}
		}
	}
	return mergedSchema, required
}

// formBodySchema returns the url-encoded form schema of an operation, if any
func formBodySchema(operation *openapi3.Operation) *openapi3.Schema {
	if operation.RequestBody == nil || operation.RequestBody.Value == nil {
		return nil
	}
	mediaType := operation.RequestBody.Value.Content.Get("application/x-www-form-urlencoded")
	if mediaType == nil || mediaType.Schema == nil {
		return nil
	}
	return mediaType.Schema.Value
}

// formFields lists the form properties in a stable order
func formFields(schema *openapi3.Schema) []Parameter {
	if schema == nil {
		return nil
	}
	required := make(map[string]bool, len(schema.Required))
	for _, name := range schema.Required {
		required[name] = true
	}

	names := make([]string, 0, len(schema.Properties))
	for name := range schema.Properties {
		names = append(names, name)
	}
	sort.Strings(names)

	fields := make([]Parameter, 0, len(names))
	for _, name := range names {
		prop := schema.Properties[name]
		description := ""
		if prop != nil && prop.Value != nil {
			description = prop.Value.Description
		}
		fields = append(fields, Parameter{
			Name:        name,
			In:          InForm,
			Type:        schemaType(prop),
			Required:    required[name],
			Description: description,
		})
	}
	return fields
}
