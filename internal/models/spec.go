package models

import (
	"context"
	"net/http"
	"time"

	"mcphub/internal/openapi"
)

// SourceType describes how a spec was provided to the hub
type SourceType string

const (
	SourceTypeUpload SourceType = "upload"
	SourceTypeURL    SourceType = "url"
	SourceTypePath   SourceType = "path"
)

// ValidationStatus is the validation state of a registered OpenAPI spec
type ValidationStatus string

const (
	ValidationValid   ValidationStatus = "valid"
	ValidationInvalid ValidationStatus = "invalid"
	ValidationPending ValidationStatus = "pending"
)

// Target is the contract every generated sub-application satisfies.
// The dispatcher and lifecycle manager depend only on this interface,
// never on how the conversion engine implements it.
type Target interface {
	http.Handler

	// Start runs the target's startup phase. Called once per activation.
	Start(ctx context.Context) error

	// Shutdown runs the target's teardown phase. Called once per deactivation.
	Shutdown(ctx context.Context) error
}

// SpecEntry represents the domain model for a registered OpenAPI spec.
// The name is chosen at registration time and is immutable.
type SpecEntry struct {
	Name             string
	SourceType       SourceType
	RawText          string
	Document         *openapi.Document // read-only parsed tree
	ValidationStatus ValidationStatus
	ValidationErrors []string
	BaseURLOverride  string
	Enabled          bool
	ToolNames        []string // populated only while enabled
	CreatedAt        time.Time
	UpdatedAt        time.Time
}
