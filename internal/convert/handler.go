package convert

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"mcphub/internal/logger"
)

// newToolHandler builds the invocation handler for one descriptor. The
// handler validates the flat argument map, performs the upstream call,
// and returns the response as JSON text content. Argument problems and
// transport failures become tool errors; upstream non-2xx statuses do
// not, they pass through inside the result.
func newToolHandler(d *Descriptor, client *http.Client) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if args == nil {
			args = map[string]any{}
		}
		if err := d.ValidateArgs(args); err != nil {
			return mcp.NewToolResultError(err.Error()), nil
		}

		payload, err := d.Invoke(ctx, client, args)
		if err != nil {
			logger.WithFields(map[string]interface{}{
				"tool":  d.ToolName,
				"error": err.Error(),
			}).Error("Upstream call failed")
			return mcp.NewToolResultError(err.Error()), nil
		}
		return mcp.NewToolResultText(string(payload)), nil
	}
}

// Invoke performs the upstream HTTP call for one tool invocation.
// Fields are partitioned by origin: path fields substitute into the
// template, non-null query fields become query parameters, the body
// field becomes the JSON payload. The returned bytes are always valid
// JSON: either the upstream's own JSON or the structured fallback
// {text, status_code, content_type}.
func (d *Descriptor) Invoke(ctx context.Context, client *http.Client, args map[string]any) ([]byte, error) {
	pathArgs := make(map[string]any)
	query := url.Values{}
	var body any
	hasBody := false

	for _, f := range d.Fields {
		value, ok := args[f.Name]
		if !ok || value == nil {
			continue
		}
		switch f.Origin {
		case OriginPath:
			pathArgs[f.Name] = value
		case OriginQuery:
			// Array values become repeated parameters, not one "[a b]" blob
			if items, ok := value.([]any); ok {
				for _, item := range items {
					query.Add(f.Name, fmt.Sprintf("%v", item))
				}
			} else {
				query.Set(f.Name, fmt.Sprintf("%v", value))
			}
		case OriginBody:
			body = value
			hasBody = true
		}
	}

	fullURL := BuildURLWithPathParams(d.BaseURL, d.PathTemplate, pathArgs)
	if len(query) > 0 {
		fullURL += "?" + query.Encode()
	}

	var reqBody io.Reader
	if hasBody {
		encoded, err := json.Marshal(body)
		if err != nil {
			return nil, fmt.Errorf("encoding request body: %w", err)
		}
		reqBody = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, d.Method, fullURL, reqBody)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}
	if hasBody {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling upstream: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading upstream response: %w", err)
	}

	contentType := resp.Header.Get("Content-Type")
	if strings.Contains(contentType, "application/json") && json.Valid(data) {
		return data, nil
	}

	return json.Marshal(map[string]any{
		"text":         string(data),
		"status_code":  resp.StatusCode,
		"content_type": contentType,
	})
}

// BuildURLWithPathParams substitutes {param} placeholders in the path
// template and joins the result onto the base URL with exactly one
// separator.
//
// Example: ("https://api.x.com", "/pets/{petId}", {"petId": 123})
// -> "https://api.x.com/pets/123"
func BuildURLWithPathParams(baseURL, path string, params map[string]any) string {
	resolved := path
	for key, value := range params {
		resolved = strings.ReplaceAll(resolved, "{"+key+"}", fmt.Sprintf("%v", value))
	}
	return strings.TrimRight(baseURL, "/") + "/" + strings.TrimLeft(resolved, "/")
}
