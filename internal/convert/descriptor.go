package convert

import (
	"encoding/json"
	"fmt"

	"mcphub/internal/openapi"
)

// FieldOrigin says where an input field ends up in the upstream request
type FieldOrigin string

const (
	OriginPath  FieldOrigin = "path"
	OriginQuery FieldOrigin = "query"
	OriginBody  FieldOrigin = "body"
)

// Field describes one input field of a generated tool
type Field struct {
	Name        string
	Type        string // JSON Schema type; empty means untyped
	Required    bool
	Nullable    bool
	Description string
	Origin      FieldOrigin
}

// Descriptor is one generated callable operation: the tool name, the
// input shape, and the request-building rule. Descriptors are built
// fresh on every enable and discarded on disable.
type Descriptor struct {
	ToolName     string
	Method       string
	PathTemplate string
	Description  string
	BaseURL      string
	Fields       []Field
}

// openapiTypeMap maps OpenAPI schema types to JSON Schema types for the
// generated input shape. Unknown types fall back to untyped.
var openapiTypeMap = map[string]string{
	"string":  "string",
	"integer": "integer",
	"number":  "number",
	"boolean": "boolean",
	"array":   "array",
	"object":  "object",
}

func schemaType(schema *openapi.Schema) string {
	if schema == nil {
		return "string"
	}
	if schema.Type == "" {
		return "string"
	}
	return openapiTypeMap[schema.Type]
}

// buildFields collects the input fields for one operation: path-level
// parameters first, then operation-level ones, then the JSON body.
// Path parameters are forced required regardless of what the document
// declares. Header and cookie parameters are dropped.
func buildFields(op *openapi.Operation, pathParams []openapi.Parameter) []Field {
	merged := make([]openapi.Parameter, 0, len(pathParams)+len(op.Parameters))
	merged = append(merged, pathParams...)
	merged = append(merged, op.Parameters...)

	var fields []Field
	for _, param := range merged {
		if param.Name == "" {
			continue
		}
		if param.In != "path" && param.In != "query" {
			continue
		}
		required := param.In == "path" || param.Required
		fields = append(fields, Field{
			Name:        param.Name,
			Type:        schemaType(param.Schema),
			Required:    required,
			Nullable:    !required,
			Description: param.Description,
			Origin:      FieldOrigin(param.In),
		})
	}

	if op.RequestBody != nil {
		if _, ok := op.RequestBody.Content["application/json"]; ok {
			description := op.RequestBody.Description
			if description == "" {
				description = "JSON request body"
			}
			fields = append(fields, Field{
				Name:        "body",
				Type:        "object",
				Required:    op.RequestBody.Required,
				Nullable:    !op.RequestBody.Required,
				Description: description,
				Origin:      OriginBody,
			})
		}
	}

	return fields
}

// InputSchema renders the descriptor's field list as a JSON Schema
// object suitable for tool registration
func (d *Descriptor) InputSchema() (json.RawMessage, error) {
	properties := make(map[string]any, len(d.Fields))
	var required []string

	for _, f := range d.Fields {
		prop := make(map[string]any, 2)
		if f.Type != "" {
			if f.Nullable {
				prop["type"] = []string{f.Type, "null"}
			} else {
				prop["type"] = f.Type
			}
		}
		if f.Description != "" {
			prop["description"] = f.Description
		}
		properties[f.Name] = prop
		if f.Required {
			required = append(required, f.Name)
		}
	}

	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return json.Marshal(schema)
}

// ValidateArgs checks a flat argument map against the descriptor's
// input shape: required fields must be present and non-null, and
// present values must match their declared type
func (d *Descriptor) ValidateArgs(args map[string]any) error {
	for _, f := range d.Fields {
		value, ok := args[f.Name]
		if !ok || value == nil {
			if f.Required {
				return fmt.Errorf("missing required field %q", f.Name)
			}
			continue
		}
		if err := checkFieldType(f, value); err != nil {
			return err
		}
	}
	return nil
}

func checkFieldType(f Field, value any) error {
	ok := true
	switch f.Type {
	case "string":
		_, ok = value.(string)
	case "integer", "number":
		switch value.(type) {
		case float64, float32, int, int32, int64, json.Number:
		default:
			ok = false
		}
	case "boolean":
		_, ok = value.(bool)
	case "array":
		_, ok = value.([]any)
	case "object":
		_, ok = value.(map[string]any)
	}
	if !ok {
		return fmt.Errorf("field %q must be of type %s", f.Name, f.Type)
	}
	return nil
}
