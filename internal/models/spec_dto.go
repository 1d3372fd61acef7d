package models

import "mcphub/internal/openapi"

// RegisterURLRequest represents the request body for registering a spec from a URL
type RegisterURLRequest struct {
	Name            string `json:"name" binding:"required"`
	URL             string `json:"url" binding:"required"`
	BaseURLOverride string `json:"base_url_override"`
}

// SpecListItem represents the summary info for one spec in a listing
type SpecListItem struct {
	Name             string           `json:"name"`
	Enabled          bool             `json:"enabled"`
	SourceType       SourceType       `json:"source_type"`
	ValidationStatus ValidationStatus `json:"validation_status"`
	ValidationErrors []string         `json:"validation_errors"`
	BaseURLOverride  string           `json:"base_url_override,omitempty"`
}

// SpecListResponse represents the response structure for listing specs
type SpecListResponse struct {
	Specs []SpecListItem `json:"specs"`
	Total int            `json:"total"`
}

// SpecDetail represents the detailed view of one spec, including the
// generated tool names and a summary of the parsed document
type SpecDetail struct {
	SpecListItem
	ToolNames []string              `json:"tool_names"`
	Info      *openapi.DocumentInfo `json:"info,omitempty"`
}

// UploadResponse represents the response after registering a spec
type UploadResponse struct {
	Name             string           `json:"name"`
	ValidationStatus ValidationStatus `json:"validation_status"`
	ValidationErrors []string         `json:"validation_errors"`
	Message          string           `json:"message"`
}

// EnableResponse represents the response after enabling a spec
type EnableResponse struct {
	Name      string   `json:"name"`
	Enabled   bool     `json:"enabled"`
	ToolCount int      `json:"tool_count"`
	ToolNames []string `json:"tool_names"`
	Message   string   `json:"message"`
}

// DisableResponse represents the response after disabling a spec
type DisableResponse struct {
	Name    string `json:"name"`
	Enabled bool   `json:"enabled"`
	Message string `json:"message"`
}

// DeleteResponse represents the response after deleting a spec
type DeleteResponse struct {
	Name    string `json:"name"`
	Message string `json:"message"`
}

// ErrorResponse is the JSON body of every error reply
type ErrorResponse struct {
	Detail string `json:"detail"`
}

// ToListItem converts a domain SpecEntry to a SpecListItem DTO
func (e *SpecEntry) ToListItem() SpecListItem {
	errs := e.ValidationErrors
	if errs == nil {
		errs = []string{}
	}
	return SpecListItem{
		Name:             e.Name,
		Enabled:          e.Enabled,
		SourceType:       e.SourceType,
		ValidationStatus: e.ValidationStatus,
		ValidationErrors: errs,
		BaseURLOverride:  e.BaseURLOverride,
	}
}

// ToDetail converts a domain SpecEntry to a SpecDetail DTO
func (e *SpecEntry) ToDetail() SpecDetail {
	tools := e.ToolNames
	if tools == nil {
		tools = []string{}
	}
	detail := SpecDetail{
		SpecListItem: e.ToListItem(),
		ToolNames:    tools,
	}
	if e.Document != nil {
		info := e.Document.Summary()
		detail.Info = &info
	}
	return detail
}
