package handlers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"mcphub/internal/convert"
	"mcphub/internal/models"
	"mcphub/internal/openapi"
	"mcphub/internal/registry"
)

// maxSpecBytes bounds uploaded and fetched spec documents (10 MB)
const maxSpecBytes = 10 << 20

// SpecStore defines the registry operations the control plane uses
type SpecStore interface {
	Register(entry *models.SpecEntry) error
	Get(name string) (models.SpecEntry, error)
	List() []models.SpecEntry
	Enable(name string, target models.Target, toolNames []string) error
	Disable(name string) error
	Delete(name string) error
}

// LifecycleStopper stops a target's background sequence by name
type LifecycleStopper interface {
	Stop(name string)
}

// Converter builds a target and its tool set from a parsed document
type Converter interface {
	Convert(name string, doc *openapi.Document, baseURLOverride string) (*convert.Result, error)
}

// SpecHandler handles control-plane spec requests
type SpecHandler struct {
	store     SpecStore
	lifecycle LifecycleStopper
	converter Converter
	fetcher   *http.Client
}

// NewSpecHandler creates a new spec handler
func NewSpecHandler(store SpecStore, lifecycle LifecycleStopper, converter Converter, fetcher *http.Client) *SpecHandler {
	return &SpecHandler{
		store:     store,
		lifecycle: lifecycle,
		converter: converter,
		fetcher:   fetcher,
	}
}

// Upload handles registering a spec from an uploaded file.
// The spec is validated but stays disabled until explicitly enabled.
func (h *SpecHandler) Upload(c *gin.Context) {
	name := strings.TrimSpace(c.PostForm("name"))
	if name == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Form field 'name' is required",
		})
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Form field 'file' is required",
		})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Failed to read uploaded file",
		})
		return
	}
	defer file.Close()

	content, err := io.ReadAll(io.LimitReader(file, maxSpecBytes))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Failed to read uploaded file",
		})
		return
	}

	h.register(c, name, content, models.SourceTypeUpload, c.PostForm("base_url_override"))
}

// RegisterURL handles registering a spec fetched from a URL
func (h *SpecHandler) RegisterURL(c *gin.Context) {
	var req models.RegisterURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
		return
	}

	if !strings.HasPrefix(req.URL, "http://") && !strings.HasPrefix(req.URL, "https://") {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": "Spec URL must use http or https",
		})
		return
	}

	content, err := h.fetchSpec(c, req.URL)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": fmt.Sprintf("Failed to fetch spec from URL: %v", err),
		})
		return
	}

	h.register(c, req.Name, content, models.SourceTypeURL, req.BaseURLOverride)
}

func (h *SpecHandler) fetchSpec(c *gin.Context, specURL string) ([]byte, error) {
	req, err := http.NewRequestWithContext(c.Request.Context(), http.MethodGet, specURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := h.fetcher.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("HTTP %d", resp.StatusCode)
	}
	return io.ReadAll(io.LimitReader(resp.Body, maxSpecBytes))
}

// register parses, validates, and stores a spec under the given name
func (h *SpecHandler) register(c *gin.Context, name string, content []byte, sourceType models.SourceType, baseURLOverride string) {
	doc, validationErrors, err := openapi.Load(content)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": err.Error(),
		})
		return
	}

	status := models.ValidationValid
	if len(validationErrors) > 0 {
		status = models.ValidationInvalid
	}

	entry := &models.SpecEntry{
		Name:             name,
		SourceType:       sourceType,
		RawText:          string(content),
		Document:         doc,
		ValidationStatus: status,
		ValidationErrors: validationErrors,
		BaseURLOverride:  baseURLOverride,
	}

	if err := h.store.Register(entry); err != nil {
		if errors.Is(err, registry.ErrDuplicateName) {
			c.JSON(http.StatusConflict, gin.H{
				"detail": fmt.Sprintf("Spec '%s' already exists", name),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": "Failed to register spec",
		})
		return
	}

	message := fmt.Sprintf("Spec '%s' registered successfully", name)
	if len(validationErrors) > 0 {
		message = fmt.Sprintf("Spec '%s' registered with validation errors", name)
	}
	if validationErrors == nil {
		validationErrors = []string{}
	}

	c.JSON(http.StatusCreated, models.UploadResponse{
		Name:             name,
		ValidationStatus: status,
		ValidationErrors: validationErrors,
		Message:          message,
	})
}

// List handles listing all registered specs with summary information
func (h *SpecHandler) List(c *gin.Context) {
	entries := h.store.List()

	items := make([]models.SpecListItem, 0, len(entries))
	for _, entry := range entries {
		items = append(items, entry.ToListItem())
	}

	c.JSON(http.StatusOK, models.SpecListResponse{
		Specs: items,
		Total: len(items),
	})
}

// Get handles retrieving detailed information about one spec
func (h *SpecHandler) Get(c *gin.Context) {
	name := c.Param("name")

	entry, err := h.store.Get(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"detail": fmt.Sprintf("Spec '%s' not found", name),
		})
		return
	}

	c.JSON(http.StatusOK, entry.ToDetail())
}

// Enable handles enabling a spec for exposure. This runs the conversion
// engine and stores the generated target in the registry.
func (h *SpecHandler) Enable(c *gin.Context) {
	name := c.Param("name")

	entry, err := h.store.Get(name)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"detail": fmt.Sprintf("Spec '%s' not found", name),
		})
		return
	}

	// The registry trusts its callers; the validation gate lives here.
	if entry.ValidationStatus == models.ValidationInvalid {
		c.JSON(http.StatusBadRequest, gin.H{
			"detail": fmt.Sprintf("Cannot enable spec '%s': validation errors: %v", name, entry.ValidationErrors),
		})
		return
	}

	result, err := h.converter.Convert(name, entry.Document, entry.BaseURLOverride)
	if err != nil {
		if errors.Is(err, convert.ErrConversion) {
			c.JSON(http.StatusBadRequest, gin.H{
				"detail": err.Error(),
			})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{
			"detail": "Failed to convert spec",
		})
		return
	}

	if err := h.store.Enable(name, result.Target, result.ToolNames); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"detail": fmt.Sprintf("Spec '%s' not found", name),
		})
		return
	}

	toolNames := result.ToolNames
	if toolNames == nil {
		toolNames = []string{}
	}

	c.JSON(http.StatusOK, models.EnableResponse{
		Name:      name,
		Enabled:   true,
		ToolCount: len(toolNames),
		ToolNames: toolNames,
		Message:   fmt.Sprintf("Spec '%s' enabled with %d tools", name, len(toolNames)),
	})
}

// Disable handles disabling exposure for a spec. The spec stays
// registered but its target is stopped and removed.
func (h *SpecHandler) Disable(c *gin.Context) {
	name := c.Param("name")

	// Stop the target's background sequence if one is running
	h.lifecycle.Stop(name)

	if err := h.store.Disable(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"detail": fmt.Sprintf("Spec '%s' not found", name),
		})
		return
	}

	c.JSON(http.StatusOK, models.DisableResponse{
		Name:    name,
		Enabled: false,
		Message: fmt.Sprintf("Spec '%s' disabled", name),
	})
}

// Delete handles removing a spec from the registry entirely
func (h *SpecHandler) Delete(c *gin.Context) {
	name := c.Param("name")

	h.lifecycle.Stop(name)

	if err := h.store.Delete(name); err != nil {
		c.JSON(http.StatusNotFound, gin.H{
			"detail": fmt.Sprintf("Spec '%s' not found", name),
		})
		return
	}

	c.JSON(http.StatusOK, models.DeleteResponse{
		Name:    name,
		Message: fmt.Sprintf("Spec '%s' deleted", name),
	})
}
