package convert

import (
	"errors"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mcphub/internal/logger"
	"mcphub/internal/models"
	"mcphub/internal/openapi"
)

// ErrConversion marks failures that keep a document from being
// converted into a target. The only hard failure is an unresolvable
// base URL; everything else degrades gracefully.
var ErrConversion = errors.New("conversion failed")

// Result is the output of one conversion pass
type Result struct {
	Target      models.Target
	ToolNames   []string
	Descriptors []*Descriptor
}

// Converter turns parsed OpenAPI documents into callable targets
type Converter struct {
	upstreamTimeout time.Duration
}

// NewConverter creates a converter whose generated handlers call the
// upstream API with the given per-request timeout
func NewConverter(upstreamTimeout time.Duration) *Converter {
	if upstreamTimeout <= 0 {
		upstreamTimeout = 30 * time.Second
	}
	return &Converter{upstreamTimeout: upstreamTimeout}
}

// Convert builds one tool per operation in the document and registers
// them on a fresh MCP server wrapped as a dispatchable target. Tool
// names are collected in discovery order: declaration order of paths,
// then the fixed method order.
func (c *Converter) Convert(name string, doc *openapi.Document, baseURLOverride string) (*Result, error) {
	baseURL, err := ResolveBaseURL(doc, baseURLOverride)
	if err != nil {
		return nil, err
	}

	version := doc.Info.Version
	if version == "" {
		version = "0.0.0"
	}
	mcpServer := server.NewMCPServer(name, version, server.WithToolCapabilities(true))
	client := &http.Client{Timeout: c.upstreamTimeout}

	result := &Result{}
	seen := make(map[string]int)

	for _, path := range doc.Paths.Keys() {
		item := doc.Paths.Get(path)
		for _, method := range openapi.HTTPMethods {
			op := item.Operation(method)
			if op == nil {
				continue
			}

			description := op.Summary
			if description == "" {
				description = op.Description
			}

			d := &Descriptor{
				ToolName:     GenerateToolName(method, path, op.OperationID),
				Method:       strings.ToUpper(method),
				PathTemplate: path,
				Description:  description,
				BaseURL:      baseURL,
				Fields:       buildFields(op, item.Parameters),
			}

			// Two operations can sanitize to the same name; append a
			// numeric suffix instead of letting the later one win.
			seen[d.ToolName]++
			if n := seen[d.ToolName]; n > 1 {
				candidate := fmt.Sprintf("%s_%d", d.ToolName, n)
				for seen[candidate] > 0 {
					n++
					candidate = fmt.Sprintf("%s_%d", d.ToolName, n)
				}
				d.ToolName = candidate
				seen[candidate]++
			}

			schema, err := d.InputSchema()
			if err != nil {
				return nil, fmt.Errorf("%w: building input schema for %s: %v", ErrConversion, d.ToolName, err)
			}

			tool := mcp.NewToolWithRawSchema(d.ToolName, d.Description, schema)
			mcpServer.AddTool(tool, newToolHandler(d, client))

			result.Descriptors = append(result.Descriptors, d)
			result.ToolNames = append(result.ToolNames, d.ToolName)
		}
	}

	logger.WithFields(map[string]interface{}{
		"spec":       name,
		"base_url":   baseURL,
		"tool_count": len(result.ToolNames),
	}).Info("Converted OpenAPI document to target")

	result.Target = newTarget(name, mcpServer, client)
	return result, nil
}

// ResolveBaseURL resolves the upstream base URL for a document. The
// override always wins; otherwise the first declared server URL is
// used. Trailing slashes are trimmed either way.
func ResolveBaseURL(doc *openapi.Document, baseURLOverride string) (string, error) {
	if baseURLOverride != "" {
		return strings.TrimRight(baseURLOverride, "/"), nil
	}
	for _, srv := range doc.Servers {
		if srv.URL != "" {
			return strings.TrimRight(srv.URL, "/"), nil
		}
	}
	return "", fmt.Errorf("%w: no server URL found in spec and no base_url_override provided", ErrConversion)
}

var (
	placeholderPattern = regexp.MustCompile(`\{(\w+)\}`)
	invalidRunPattern  = regexp.MustCompile(`[^a-zA-Z0-9_]+`)
)

// SanitizeToolName turns an arbitrary string into a valid tool name:
// {param} placeholders become bare param, every other run of invalid
// characters collapses to a single underscore
func SanitizeToolName(name string) string {
	name = placeholderPattern.ReplaceAllString(name, "$1")
	name = invalidRunPattern.ReplaceAllString(name, "_")
	return strings.Trim(name, "_")
}

// GenerateToolName derives the tool name for an operation: the
// sanitized operationId when declared, otherwise METHOD__sanitized_path
func GenerateToolName(method, path, operationID string) string {
	if operationID != "" {
		return SanitizeToolName(operationID)
	}
	return strings.ToUpper(method) + "__" + SanitizeToolName(path)
}
