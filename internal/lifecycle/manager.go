package lifecycle

import (
	"context"
	"sync"
	"time"

	"mcphub/internal/logger"
	"mcphub/internal/models"
)

// Manager runs one background startup/shutdown sequence per target
// name. The first EnsureStarted for a name spawns the sequence; every
// caller blocks only until the sequence signals ready, never until
// shutdown. Stop signals the sequence, waits a bounded time for it to
// exit, and force-cancels past the deadline so Stop always returns.
type Manager struct {
	mu          sync.Mutex
	records     map[string]*record
	stopTimeout time.Duration
}

// record tracks one supervised sequence. ready is closed once startup
// finished (successfully or not), stopCh asks the sequence to shut
// down, done is closed when the goroutine exits.
type record struct {
	ready  chan struct{}
	stopCh chan struct{}
	done   chan struct{}
	cancel context.CancelFunc

	mu       sync.Mutex
	startErr error
}

func (rec *record) setStartErr(err error) {
	rec.mu.Lock()
	rec.startErr = err
	rec.mu.Unlock()
}

func (rec *record) startError() error {
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.startErr
}

// NewManager creates a lifecycle manager with the given bounded stop
// timeout
func NewManager(stopTimeout time.Duration) *Manager {
	if stopTimeout <= 0 {
		stopTimeout = 5 * time.Second
	}
	return &Manager{
		records:     make(map[string]*record),
		stopTimeout: stopTimeout,
	}
}

// EnsureStarted guarantees the named target's sequence is running and
// blocks until it has signaled ready. Concurrent calls for the same
// uninitialized name share one sequence and resume together. A startup
// failure is recorded and returned to every waiter; the sequence still
// signals ready so nobody blocks forever.
func (m *Manager) EnsureStarted(ctx context.Context, name string, target models.Target) error {
	m.mu.Lock()
	rec, ok := m.records[name]
	if !ok {
		runCtx, cancel := context.WithCancel(context.Background())
		rec = &record{
			ready:  make(chan struct{}),
			stopCh: make(chan struct{}),
			done:   make(chan struct{}),
			cancel: cancel,
		}
		m.records[name] = rec
		go m.run(runCtx, name, target, rec)
	}
	m.mu.Unlock()

	select {
	case <-rec.ready:
	case <-ctx.Done():
		return ctx.Err()
	}
	return rec.startError()
}

// run is the background sequence: startup, signal ready, park until a
// stop signal or forced cancellation, then shutdown.
func (m *Manager) run(ctx context.Context, name string, target models.Target, rec *record) {
	defer close(rec.done)

	if err := target.Start(ctx); err != nil {
		logger.WithFields(map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		}).Error("Target startup failed")
		rec.setStartErr(err)
		close(rec.ready)
		return
	}
	close(rec.ready)

	select {
	case <-rec.stopCh:
	case <-ctx.Done():
		logger.WithField("name", name).Warn("Target sequence cancelled before stop signal")
		return
	}

	if err := target.Shutdown(ctx); err != nil {
		logger.WithFields(map[string]interface{}{
			"name":  name,
			"error": err.Error(),
		}).Warn("Target shutdown failed")
	}
}

// Stop shuts the named sequence down. Untracked names are a no-op. The
// name is removed from tracking immediately, so a later EnsureStarted
// always creates a brand-new sequence. Waits up to the stop timeout for
// the sequence to exit, then force-cancels it.
func (m *Manager) Stop(name string) {
	m.mu.Lock()
	rec, ok := m.records[name]
	if ok {
		delete(m.records, name)
	}
	m.mu.Unlock()
	if !ok {
		return
	}

	close(rec.stopCh)
	select {
	case <-rec.done:
	case <-time.After(m.stopTimeout):
		logger.WithField("name", name).Warn("Target did not stop in time, cancelling")
	}
	rec.cancel()
}

// StopAll sequentially stops every tracked sequence; used at process
// shutdown
func (m *Manager) StopAll() {
	m.mu.Lock()
	names := make([]string, 0, len(m.records))
	for name := range m.records {
		names = append(names, name)
	}
	m.mu.Unlock()

	for _, name := range names {
		m.Stop(name)
	}
}

// Tracked reports whether a sequence is currently tracked for the name
func (m *Manager) Tracked(name string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.records[name]
	return ok
}
