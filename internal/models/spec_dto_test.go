package models

import (
	"testing"

	"mcphub/internal/openapi"
)

// TestToListItem tests the summary DTO conversion
func TestToListItem(t *testing.T) {
	entry := &SpecEntry{
		Name:             "petstore",
		SourceType:       SourceTypeUpload,
		ValidationStatus: ValidationValid,
		BaseURLOverride:  "https://internal.example.com",
		Enabled:          true,
	}

	item := entry.ToListItem()
	if item.Name != "petstore" || !item.Enabled {
		t.Errorf("Unexpected list item: %+v", item)
	}
	if item.SourceType != SourceTypeUpload || item.ValidationStatus != ValidationValid {
		t.Errorf("Unexpected source/status: %+v", item)
	}
	if item.ValidationErrors == nil {
		t.Error("Expected empty slice, not nil, for validation errors")
	}
	if item.BaseURLOverride != "https://internal.example.com" {
		t.Errorf("Unexpected override: %s", item.BaseURLOverride)
	}
}

// TestToDetail tests the detail DTO conversion including document info
func TestToDetail(t *testing.T) {
	doc, err := openapi.Parse([]byte(`
openapi: 3.0.0
info:
  title: Petstore
  version: 1.0.0
paths:
  /pets:
    get:
      operationId: listPets
`))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}

	entry := &SpecEntry{
		Name:             "petstore",
		SourceType:       SourceTypeUpload,
		ValidationStatus: ValidationValid,
		Document:         doc,
		Enabled:          true,
		ToolNames:        []string{"listPets"},
	}

	detail := entry.ToDetail()
	if len(detail.ToolNames) != 1 || detail.ToolNames[0] != "listPets" {
		t.Errorf("Unexpected tool names: %v", detail.ToolNames)
	}
	if detail.Info == nil {
		t.Fatal("Expected document info")
	}
	if detail.Info.Title != "Petstore" || detail.Info.PathCount != 1 {
		t.Errorf("Unexpected document info: %+v", detail.Info)
	}
}

// TestToDetailWithoutDocument tests the nil-document and nil-slice cases
func TestToDetailWithoutDocument(t *testing.T) {
	entry := &SpecEntry{
		Name:             "pending",
		SourceType:       SourceTypeURL,
		ValidationStatus: ValidationInvalid,
	}

	detail := entry.ToDetail()
	if detail.Info != nil {
		t.Errorf("Expected no document info, got %+v", detail.Info)
	}
	if detail.ToolNames == nil {
		t.Error("Expected empty slice, not nil, for tool names")
	}
}
