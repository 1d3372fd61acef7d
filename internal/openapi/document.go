package openapi

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// HTTPMethods lists the seven standard HTTP methods in tool discovery order.
var HTTPMethods = []string{"get", "post", "put", "patch", "delete", "head", "options"}

// Document is the parsed OpenAPI tree. It is treated as read-only once
// loaded; only the conversion engine walks it.
type Document struct {
	OpenAPI string   `yaml:"openapi"`
	Info    Info     `yaml:"info"`
	Servers []Server `yaml:"servers"`
	Paths   Paths    `yaml:"paths"`
}

// Info contains API metadata
type Info struct {
	Title       string `yaml:"title"`
	Description string `yaml:"description"`
	Version     string `yaml:"version"`
}

// Server represents one declared API server
type Server struct {
	URL         string `yaml:"url"`
	Description string `yaml:"description"`
}

// PathItem represents the operations declared under one path, plus the
// path-level parameters shared by all of them
type PathItem struct {
	Parameters []Parameter `yaml:"parameters"`
	Get        *Operation  `yaml:"get"`
	Post       *Operation  `yaml:"post"`
	Put        *Operation  `yaml:"put"`
	Patch      *Operation  `yaml:"patch"`
	Delete     *Operation  `yaml:"delete"`
	Head       *Operation  `yaml:"head"`
	Options    *Operation  `yaml:"options"`
}

// Operation returns the operation declared for the given lowercase HTTP
// method, or nil if the path does not declare it
func (p *PathItem) Operation(method string) *Operation {
	switch method {
	case "get":
		return p.Get
	case "post":
		return p.Post
	case "put":
		return p.Put
	case "patch":
		return p.Patch
	case "delete":
		return p.Delete
	case "head":
		return p.Head
	case "options":
		return p.Options
	default:
		return nil
	}
}

// Operation represents one API operation
type Operation struct {
	OperationID string       `yaml:"operationId"`
	Summary     string       `yaml:"summary"`
	Description string       `yaml:"description"`
	Parameters  []Parameter  `yaml:"parameters"`
	RequestBody *RequestBody `yaml:"requestBody"`
}

// Parameter represents one operation or path-level parameter
type Parameter struct {
	Name        string  `yaml:"name"`
	In          string  `yaml:"in"` // path, query, header, cookie
	Description string  `yaml:"description"`
	Required    bool    `yaml:"required"`
	Schema      *Schema `yaml:"schema"`
}

// Schema is the subset of JSON Schema the converter consumes
type Schema struct {
	Type        string `yaml:"type"`
	Description string `yaml:"description"`
}

// RequestBody represents a declared request body
type RequestBody struct {
	Description string               `yaml:"description"`
	Required    bool                 `yaml:"required"`
	Content     map[string]MediaType `yaml:"content"`
}

// MediaType represents one content entry of a request body
type MediaType struct {
	Schema *Schema `yaml:"schema"`
}

// Paths is an order-preserving map of path template to PathItem. Tool
// discovery order follows declaration order, so the plain map decoding
// of yaml.v3 is not enough here.
type Paths struct {
	keys  []string
	items map[string]*PathItem
}

// UnmarshalYAML decodes a paths mapping while recording key order.
// Entries that are not mappings are skipped, matching the loader's
// degrade-gracefully contract.
func (p *Paths) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return fmt.Errorf("paths must be an object, got %s", nodeKind(value))
	}
	p.items = make(map[string]*PathItem, len(value.Content)/2)
	for i := 0; i+1 < len(value.Content); i += 2 {
		keyNode, valNode := value.Content[i], value.Content[i+1]
		if valNode.Kind != yaml.MappingNode {
			continue
		}
		var item PathItem
		if err := valNode.Decode(&item); err != nil {
			return fmt.Errorf("path %q: %w", keyNode.Value, err)
		}
		if _, dup := p.items[keyNode.Value]; !dup {
			p.keys = append(p.keys, keyNode.Value)
		}
		p.items[keyNode.Value] = &item
	}
	return nil
}

// Keys returns the path templates in declaration order
func (p *Paths) Keys() []string {
	return p.keys
}

// Get returns the PathItem for a path template, or nil
func (p *Paths) Get(path string) *PathItem {
	return p.items[path]
}

// Len returns the number of declared paths
func (p *Paths) Len() int {
	return len(p.keys)
}

// DocumentInfo is a display summary of a parsed document
type DocumentInfo struct {
	Title          string   `json:"title"`
	Version        string   `json:"version"`
	Description    string   `json:"description,omitempty"`
	ServerURLs     []string `json:"server_urls"`
	PathCount      int      `json:"path_count"`
	OperationCount int      `json:"operation_count"`
}

// Summary extracts basic display info from the document
func (d *Document) Summary() DocumentInfo {
	title := d.Info.Title
	if title == "" {
		title = "Untitled"
	}
	version := d.Info.Version
	if version == "" {
		version = "unknown"
	}

	urls := make([]string, 0, len(d.Servers))
	for _, s := range d.Servers {
		if s.URL != "" {
			urls = append(urls, s.URL)
		}
	}

	operations := 0
	for _, path := range d.Paths.Keys() {
		item := d.Paths.Get(path)
		for _, method := range HTTPMethods {
			if item.Operation(method) != nil {
				operations++
			}
		}
	}

	return DocumentInfo{
		Title:          title,
		Version:        version,
		Description:    d.Info.Description,
		ServerURLs:     urls,
		PathCount:      d.Paths.Len(),
		OperationCount: operations,
	}
}

func nodeKind(n *yaml.Node) string {
	switch n.Kind {
	case yaml.ScalarNode:
		return "scalar"
	case yaml.SequenceNode:
		return "sequence"
	case yaml.MappingNode:
		return "mapping"
	default:
		return "document"
	}
}
