package openapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// ErrLoad is returned when spec content cannot be parsed at all.
// Validation findings are not load errors; they come back from Validate
// as plain strings so the caller can register the spec as invalid.
var ErrLoad = errors.New("failed to load spec")

// Parse detects whether content is JSON or YAML and decodes it into a
// Document. YAML is a superset of JSON, so a single decoder handles
// both; the JSON fast-path only exists to report precise JSON syntax
// errors for content that is unambiguously JSON.
func Parse(content []byte) (*Document, error) {
	text := strings.TrimSpace(string(content))
	if text == "" {
		return nil, fmt.Errorf("%w: empty document", ErrLoad)
	}

	if strings.HasPrefix(text, "{") {
		if err := json.Unmarshal([]byte(text), &struct{}{}); err != nil {
			return nil, fmt.Errorf("%w: invalid JSON: %v", ErrLoad, err)
		}
	}

	var root yaml.Node
	if err := yaml.Unmarshal([]byte(text), &root); err != nil {
		return nil, fmt.Errorf("%w: invalid YAML: %v", ErrLoad, err)
	}
	if len(root.Content) == 0 {
		return nil, fmt.Errorf("%w: empty document", ErrLoad)
	}
	if root.Content[0].Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: spec must be an object, got %s", ErrLoad, nodeKind(root.Content[0]))
	}

	var doc Document
	if err := root.Content[0].Decode(&doc); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrLoad, err)
	}
	return &doc, nil
}

// Validate runs minimal OpenAPI 3.x validation and returns the list of
// findings. An empty list means the document is usable. An empty paths
// object is deliberately not an error: valid but useless.
func Validate(doc *Document) []string {
	var errs []string

	switch {
	case doc.OpenAPI == "":
		errs = append(errs, "Missing required field 'openapi'")
	case !strings.HasPrefix(doc.OpenAPI, "3."):
		errs = append(errs, fmt.Sprintf("Only OpenAPI 3.x is supported, got '%s'", doc.OpenAPI))
	}

	if doc.Paths.items == nil {
		errs = append(errs, "Missing required field 'paths'")
	}

	return errs
}

// Load parses and validates spec content in one step, returning the
// parsed document together with any validation findings.
func Load(content []byte) (*Document, []string, error) {
	doc, err := Parse(content)
	if err != nil {
		return nil, nil, err
	}
	return doc, Validate(doc), nil
}
