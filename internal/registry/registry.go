package registry

import (
	"fmt"
	"sync"
	"time"

	"mcphub/internal/logger"
	"mcphub/internal/models"
)

// Registry is the in-memory source of truth for registered specs and
// their generated targets. Entries live in the main map; the generated
// targets live in a side table keyed by the same name, populated only
// while the entry is enabled. It is safe for concurrent use: the
// dispatcher reads on every request while control-plane calls mutate.
//
// Instances are constructed explicitly and passed by reference; there
// is no package-level registry.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*models.SpecEntry
	targets map[string]models.Target
}

// New creates an empty registry
func New() *Registry {
	return &Registry{
		entries: make(map[string]*models.SpecEntry),
		targets: make(map[string]models.Target),
	}
}

// Exists reports whether a spec with the given name is registered
func (r *Registry) Exists(name string) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.entries[name]
	return ok
}

// Register inserts a new entry. The entry starts disabled regardless of
// what the caller set; validation status and errors are stored as
// supplied, the caller runs validation beforehand.
func (r *Registry) Register(entry *models.SpecEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.entries[entry.Name]; ok {
		return fmt.Errorf("%w: %q", ErrDuplicateName, entry.Name)
	}

	stored := *entry
	stored.Enabled = false
	stored.ToolNames = nil
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now
	r.entries[entry.Name] = &stored

	logger.WithFields(map[string]interface{}{
		"name":              entry.Name,
		"source_type":       entry.SourceType,
		"validation_status": entry.ValidationStatus,
	}).Info("Spec registered")
	return nil
}

// Get returns a snapshot of the entry for a name
func (r *Registry) Get(name string) (models.SpecEntry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok {
		return models.SpecEntry{}, fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	return snapshot(entry), nil
}

// List returns snapshots of every entry regardless of enabled state
func (r *Registry) List() []models.SpecEntry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]models.SpecEntry, 0, len(r.entries))
	for _, entry := range r.entries {
		out = append(out, snapshot(entry))
	}
	return out
}

// Enable marks an entry enabled, stores its tool names, and stores the
// generated target in the side table. The caller must have confirmed
// the validation status beforehand; the registry does not re-check.
func (r *Registry) Enable(name string, target models.Target, toolNames []string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	entry.Enabled = true
	entry.ToolNames = append([]string(nil), toolNames...)
	entry.UpdatedAt = time.Now()
	r.targets[name] = target

	logger.WithFields(map[string]interface{}{
		"name":       name,
		"tool_count": len(toolNames),
	}).Info("Spec enabled")
	return nil
}

// Disable marks an entry disabled, clears its tool names, and removes
// the side-table target. Disabling an already-disabled entry is a no-op
// beyond the state assignment.
func (r *Registry) Disable(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.disableLocked(name)
}

func (r *Registry) disableLocked(name string) error {
	entry, ok := r.entries[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}

	entry.Enabled = false
	entry.ToolNames = nil
	entry.UpdatedAt = time.Now()
	delete(r.targets, name)

	logger.WithField("name", name).Info("Spec disabled")
	return nil
}

// Delete disables an entry and then removes it entirely
func (r *Registry) Delete(name string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err := r.disableLocked(name); err != nil {
		return err
	}
	delete(r.entries, name)

	logger.WithField("name", name).Info("Spec deleted")
	return nil
}

// Target returns the generated target for a name only if the entry
// exists and is enabled. A missing target is not an error; callers
// distinguish unknown from disabled via Exists.
func (r *Registry) Target(name string) (models.Target, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.entries[name]
	if !ok || !entry.Enabled {
		return nil, false
	}
	target, ok := r.targets[name]
	return target, ok
}

// snapshot copies an entry so readers never observe later mutations.
// The document pointer is shared: the parsed tree is read-only.
func snapshot(entry *models.SpecEntry) models.SpecEntry {
	copied := *entry
	copied.ValidationErrors = append([]string(nil), entry.ValidationErrors...)
	copied.ToolNames = append([]string(nil), entry.ToolNames...)
	return copied
}
