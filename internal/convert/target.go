package convert

import (
	"context"
	"net/http"

	"github.com/mark3labs/mcp-go/server"
	"github.com/sirupsen/logrus"

	"mcphub/internal/logger"
)

// target wraps a generated MCP server as a dispatchable sub-application.
// It satisfies models.Target: a startup/shutdown lifecycle pair plus an
// http.Handler entry point.
type target struct {
	name       string
	mcpServer  *server.MCPServer
	httpServer *server.StreamableHTTPServer
	client     *http.Client
	log        *logrus.Entry
}

func newTarget(name string, mcpServer *server.MCPServer, client *http.Client) *target {
	return &target{
		name:       name,
		mcpServer:  mcpServer,
		httpServer: server.NewStreamableHTTPServer(mcpServer),
		client:     client,
		log:        logger.WithField("target", name),
	}
}

// Start runs the target's startup phase. Generated targets have no
// heavyweight setup; the work happened at conversion time.
func (t *target) Start(ctx context.Context) error {
	t.log.Info("Target started")
	return nil
}

// Shutdown tears the target down, releasing pooled upstream connections
func (t *target) Shutdown(ctx context.Context) error {
	t.client.CloseIdleConnections()
	t.log.Info("Target stopped")
	return nil
}

// ServeHTTP forwards the exchange to the MCP transport; the target owns
// the rest of the interaction, including streaming responses
func (t *target) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	t.httpServer.ServeHTTP(w, r)
}
