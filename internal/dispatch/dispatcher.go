package dispatch

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"mcphub/internal/logger"
	"mcphub/internal/models"
)

// TargetSource is the registry view the dispatcher reads through
type TargetSource interface {
	Exists(name string) bool
	Target(name string) (models.Target, bool)
}

// Starter drives target lifecycles by name
type Starter interface {
	EnsureStarted(ctx context.Context, name string, target models.Target) error
}

// Dispatcher is the front door for target traffic. It parses the first
// path segment after the mount prefix as a target name, resolves the
// target through the registry, makes sure its lifecycle is running,
// rewrites the path, and hands the exchange to the target. It holds no
// state of its own.
type Dispatcher struct {
	mount     string
	specs     TargetSource
	lifecycle Starter
}

// New creates a dispatcher serving targets under the given mount prefix
func New(mount string, specs TargetSource, lifecycle Starter) *Dispatcher {
	mount = "/" + strings.Trim(mount, "/")
	return &Dispatcher{
		mount:     mount,
		specs:     specs,
		lifecycle: lifecycle,
	}
}

func (d *Dispatcher) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// Work on the escaped form so percent-encoded separators inside the
	// remainder survive the relay untouched.
	path := r.URL.EscapedPath()
	if d.mount != "/" && strings.HasPrefix(path, d.mount) {
		path = path[len(d.mount):]
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	rawName, remainder, _ := strings.Cut(strings.TrimPrefix(path, "/"), "/")
	name, err := url.PathUnescape(rawName)
	if err != nil {
		name = rawName
	}
	if name == "" {
		writeError(w, http.StatusNotFound,
			fmt.Sprintf("Target name required in path: %s/{name}/...", d.mount))
		return
	}

	target, ok := d.specs.Target(name)
	if !ok {
		if !d.specs.Exists(name) {
			writeError(w, http.StatusNotFound, fmt.Sprintf("Spec '%s' not found", name))
		} else {
			writeError(w, http.StatusNotFound,
				fmt.Sprintf("Spec '%s' is not enabled for exposure", name))
		}
		return
	}

	if err := d.lifecycle.EnsureStarted(r.Context(), name, target); err != nil {
		logger.WithFields(map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		}).Error("Target failed to start")
		writeError(w, http.StatusBadGateway, fmt.Sprintf("Target '%s' failed to start", name))
		return
	}

	// Hand the target a request scoped to its own path space. The
	// consumed prefix travels along so the target can generate
	// self-referential URLs. The body is passed through untouched.
	proxied := r.Clone(r.Context())
	proxied.URL.RawPath = "/" + remainder
	if decoded, err := url.PathUnescape(remainder); err == nil {
		proxied.URL.Path = "/" + decoded
	} else {
		proxied.URL.Path = "/" + remainder
	}
	if proxied.URL.Path == proxied.URL.RawPath {
		proxied.URL.RawPath = ""
	}
	proxied.Header.Set("X-Forwarded-Prefix", d.mount+"/"+name)

	target.ServeHTTP(w, proxied)
}

func writeError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(models.ErrorResponse{Detail: message})
}
