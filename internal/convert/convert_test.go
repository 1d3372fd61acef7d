package convert

import (
	"errors"
	"reflect"
	"testing"

	"mcphub/internal/openapi"
)

func mustParse(t *testing.T, content string) *openapi.Document {
	t.Helper()
	doc, err := openapi.Parse([]byte(content))
	if err != nil {
		t.Fatalf("Parse failed: %v", err)
	}
	return doc
}

const petstoreSpec = `
openapi: 3.0.3
info:
  title: Petstore
  version: 1.0.0
servers:
  - url: https://api.example.com/
paths:
  /pets:
    get:
      operationId: listPets
      summary: List all pets
      parameters:
        - name: limit
          in: query
          schema:
            type: integer
        - name: X-Trace
          in: header
          schema:
            type: string
    post:
      operationId: createPet
      description: Create a pet
      requestBody:
        required: true
        content:
          application/json:
            schema:
              type: object
  /pets/{petId}:
    parameters:
      - name: petId
        in: path
        schema:
          type: integer
    get:
      operationId: getPet
    delete: {}
`

// TestGenerateToolName tests tool name derivation
func TestGenerateToolName(t *testing.T) {
	tests := []struct {
		name        string
		method      string
		path        string
		operationID string
		want        string
	}{
		{
			name:        "Uses operationId when declared",
			method:      "get",
			path:        "/pets/{petId}",
			operationID: "getPet",
			want:        "getPet",
		},
		{
			name:        "Sanitizes operationId",
			method:      "get",
			path:        "/pets",
			operationID: "list pets v1.2",
			want:        "list_pets_v1_2",
		},
		{
			name:   "Falls back to method and path",
			method: "get",
			path:   "/pets/{petId}",
			want:   "GET__pets_petId",
		},
		{
			name:   "Plain path fallback",
			method: "post",
			path:   "/pets",
			want:   "POST__pets",
		},
		{
			name:   "Nested placeholders",
			method: "delete",
			path:   "/users/{userId}/pets/{petId}",
			want:   "DELETE__users_userId_pets_petId",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := GenerateToolName(tt.method, tt.path, tt.operationID)
			if got != tt.want {
				t.Errorf("Expected %s, got %s", tt.want, got)
			}
		})
	}
}

// TestSanitizeToolName tests the character rules
func TestSanitizeToolName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"getPet", "getPet"},
		{"/pets/{petId}", "pets_petId"},
		{"a--b..c", "a_b_c"},
		{"__trimmed__", "trimmed"},
		{"already_fine_123", "already_fine_123"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := SanitizeToolName(tt.in); got != tt.want {
				t.Errorf("SanitizeToolName(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

// TestResolveBaseURL tests override precedence and trailing slash handling
func TestResolveBaseURL(t *testing.T) {
	doc := mustParse(t, petstoreSpec)

	t.Run("Override wins over servers", func(t *testing.T) {
		got, err := ResolveBaseURL(doc, "https://override.example.com/base/")
		if err != nil {
			t.Fatalf("ResolveBaseURL failed: %v", err)
		}
		if got != "https://override.example.com/base" {
			t.Errorf("Expected override URL, got %s", got)
		}
	})

	t.Run("First server URL used", func(t *testing.T) {
		got, err := ResolveBaseURL(doc, "")
		if err != nil {
			t.Fatalf("ResolveBaseURL failed: %v", err)
		}
		if got != "https://api.example.com" {
			t.Errorf("Expected server URL without trailing slash, got %s", got)
		}
	})

	t.Run("No servers and no override fails", func(t *testing.T) {
		bare := mustParse(t, "openapi: 3.0.0\npaths: {}\n")
		_, err := ResolveBaseURL(bare, "")
		if err == nil {
			t.Fatal("Expected an error")
		}
		if !errors.Is(err, ErrConversion) {
			t.Errorf("Expected ErrConversion, got %v", err)
		}
	})
}

// TestConvert tests a full conversion pass over the sample spec
func TestConvert(t *testing.T) {
	doc := mustParse(t, petstoreSpec)
	converter := NewConverter(0)

	result, err := converter.Convert("petstore", doc, "")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	wantNames := []string{"listPets", "createPet", "getPet", "DELETE__pets_petId"}
	if !reflect.DeepEqual(result.ToolNames, wantNames) {
		t.Errorf("Expected tool names %v, got %v", wantNames, result.ToolNames)
	}
	if result.Target == nil {
		t.Fatal("Expected a target")
	}
	if len(result.Descriptors) != 4 {
		t.Fatalf("Expected 4 descriptors, got %d", len(result.Descriptors))
	}

	byName := make(map[string]*Descriptor)
	for _, d := range result.Descriptors {
		byName[d.ToolName] = d
	}

	listPets := byName["listPets"]
	if listPets.Method != "GET" || listPets.PathTemplate != "/pets" {
		t.Errorf("Unexpected listPets descriptor: %+v", listPets)
	}
	if listPets.Description != "List all pets" {
		t.Errorf("Expected summary as description, got %q", listPets.Description)
	}
	if len(listPets.Fields) != 1 || listPets.Fields[0].Name != "limit" {
		t.Errorf("Expected only the query field, header dropped: %+v", listPets.Fields)
	}
	if listPets.Fields[0].Origin != OriginQuery || listPets.Fields[0].Required {
		t.Errorf("Unexpected limit field: %+v", listPets.Fields[0])
	}

	createPet := byName["createPet"]
	if createPet.Description != "Create a pet" {
		t.Errorf("Expected description fallback, got %q", createPet.Description)
	}
	if len(createPet.Fields) != 1 || createPet.Fields[0].Origin != OriginBody {
		t.Fatalf("Expected a single body field: %+v", createPet.Fields)
	}
	if !createPet.Fields[0].Required || createPet.Fields[0].Type != "object" {
		t.Errorf("Unexpected body field: %+v", createPet.Fields[0])
	}

	getPet := byName["getPet"]
	if len(getPet.Fields) != 1 {
		t.Fatalf("Expected path-level parameter inherited: %+v", getPet.Fields)
	}
	// Path parameters are forced required even when the document omits it
	if !getPet.Fields[0].Required || getPet.Fields[0].Origin != OriginPath {
		t.Errorf("Expected required path field, got %+v", getPet.Fields[0])
	}
	if getPet.BaseURL != "https://api.example.com" {
		t.Errorf("Expected resolved base URL on descriptor, got %s", getPet.BaseURL)
	}
}

// TestConvertDuplicateToolNames tests the numeric suffix rule
func TestConvertDuplicateToolNames(t *testing.T) {
	spec := `
openapi: 3.0.0
info:
  version: 1.0.0
servers:
  - url: https://api.example.com
paths:
  /a:
    get:
      operationId: doThing
    post:
      operationId: doThing
  /b:
    get:
      operationId: doThing
`
	doc := mustParse(t, spec)
	result, err := NewConverter(0).Convert("dupes", doc, "")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	want := []string{"doThing", "doThing_2", "doThing_3"}
	if !reflect.DeepEqual(result.ToolNames, want) {
		t.Errorf("Expected suffixed names %v, got %v", want, result.ToolNames)
	}
}

// TestConvertDiscoveryOrder tests declaration order of paths crossed
// with the fixed method order
func TestConvertDiscoveryOrder(t *testing.T) {
	spec := `
openapi: 3.0.0
info:
  version: 1.0.0
servers:
  - url: https://api.example.com
paths:
  /zebra:
    post:
      operationId: zPost
    get:
      operationId: zGet
  /apple:
    delete:
      operationId: aDelete
`
	doc := mustParse(t, spec)
	result, err := NewConverter(0).Convert("ordered", doc, "")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}

	want := []string{"zGet", "zPost", "aDelete"}
	if !reflect.DeepEqual(result.ToolNames, want) {
		t.Errorf("Expected order %v, got %v", want, result.ToolNames)
	}
}

// TestConvertNoBaseURL tests the hard conversion failure
func TestConvertNoBaseURL(t *testing.T) {
	doc := mustParse(t, "openapi: 3.0.0\npaths: {}\n")
	_, err := NewConverter(0).Convert("bare", doc, "")
	if err == nil {
		t.Fatal("Expected an error")
	}
	if !errors.Is(err, ErrConversion) {
		t.Errorf("Expected ErrConversion, got %v", err)
	}
}

// TestConvertWithOverride tests that the override rescues a spec with
// no declared servers and ends up on every descriptor
func TestConvertWithOverride(t *testing.T) {
	spec := `
openapi: 3.0.0
paths:
  /pets:
    get:
      operationId: listPets
`
	doc := mustParse(t, spec)
	result, err := NewConverter(0).Convert("overridden", doc, "https://internal.example.com/api/")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	for _, d := range result.Descriptors {
		if d.BaseURL != "https://internal.example.com/api" {
			t.Errorf("Expected override base URL on %s, got %s", d.ToolName, d.BaseURL)
		}
	}
}

// TestConvertEmptyPaths tests that a spec with no operations still
// converts to a target with zero tools
func TestConvertEmptyPaths(t *testing.T) {
	doc := mustParse(t, "openapi: 3.0.0\nservers:\n  - url: https://api.example.com\npaths: {}\n")
	result, err := NewConverter(0).Convert("empty", doc, "")
	if err != nil {
		t.Fatalf("Convert failed: %v", err)
	}
	if len(result.ToolNames) != 0 {
		t.Errorf("Expected no tools, got %v", result.ToolNames)
	}
	if result.Target == nil {
		t.Error("Expected a target even with zero tools")
	}
}
