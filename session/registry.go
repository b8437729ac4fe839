package session

import (
	"context"
	"log/slog"
	"sort"
	"sync"

	"github.com/google/uuid"

	"github.com/wormhq/worm/adapter"
	"github.com/wormhq/worm/adapter/cpp"
	"github.com/wormhq/worm/adapter/golang"
	"github.com/wormhq/worm/adapter/native"
	"github.com/wormhq/worm/adapter/python"
	"github.com/wormhq/worm/config"
	"github.com/wormhq/worm/container"
)

// Registry manages named sessions and the process-shared collaborators:
// one container store and one facade per language. It is an explicit,
// constructible object with no package-level instance; tests build
// isolated registries instead of sharing global state.
type Registry struct {
	cfg     config.Config
	logger  *slog.Logger
	store   *container.Store
	facades map[string]adapter.Facade

	mu       sync.RWMutex
	sessions map[string]*Session
}

// Option configures a Registry at creation time.
type Option func(*Registry)

// WithLogger sets the registry logger, propagated to default-built
// collaborators.
func WithLogger(l *slog.Logger) Option {
	return func(r *Registry) { r.logger = l }
}

// WithStore overrides the shared container store.
func WithStore(s *container.Store) Option {
	return func(r *Registry) { r.store = s }
}

// WithFacade overrides or adds one language facade, keyed by its Name.
func WithFacade(f adapter.Facade) Option {
	return func(r *Registry) { r.facades[f.Name()] = f }
}

// NewRegistry creates a registry from cfg, building the container store
// and the four language facades unless overridden by options.
func NewRegistry(cfg config.Config, opts ...Option) *Registry {
	r := &Registry{
		cfg:      cfg,
		logger:   cfg.Logger(),
		facades:  make(map[string]adapter.Facade),
		sessions: make(map[string]*Session),
	}
	for _, opt := range opts {
		opt(r)
	}

	if r.store == nil {
		r.store = container.New(cfg.ContainerPath,
			container.WithEmbedded(cfg.Embedded),
			container.WithLogger(r.logger))
	}

	defaults := []adapter.Facade{
		native.New(),
		python.New(python.WithBinary(cfg.PythonBin), python.WithLogger(r.logger)),
		cpp.New(cpp.WithCompiler(cfg.CppBin), cpp.WithLogger(r.logger)),
		golang.New(golang.WithBinary(cfg.GoBin), golang.WithLogger(r.logger)),
	}
	for _, f := range defaults {
		if _, ok := r.facades[f.Name()]; !ok {
			r.facades[f.Name()] = f
		}
	}
	return r
}

// Config returns the registry's configuration record.
func (r *Registry) Config() config.Config { return r.cfg }

// Container returns the shared container store. It is process-wide, not
// session-owned: closing sessions never touches it.
func (r *Registry) Container() *container.Store { return r.store }

// Facade returns the language facade registered under name.
func (r *Registry) Facade(name string) (adapter.Facade, bool) {
	f, ok := r.facades[name]
	return f, ok
}

// CreateSession registers a new session under name, generating a unique
// name when empty. An existing same-named session is closed before being
// replaced, so its context and history never leak.
func (r *Registry) CreateSession(name string) *Session {
	if name == "" {
		name = "session-" + uuid.NewString()
	}

	s := &Session{
		name:         name,
		reg:          r,
		values:       make(map[string]any),
		historyLimit: r.cfg.HistoryLimit,
	}

	r.mu.Lock()
	old := r.sessions[name]
	r.sessions[name] = s
	r.mu.Unlock()

	if old != nil {
		r.logger.Debug("replacing existing session", "name", name)
		old.close()
	}
	return s
}

// GetSession returns the session registered under name. It never creates
// implicitly; closed or unknown names return ok false.
func (r *Registry) GetSession(name string) (*Session, bool) {
	r.mu.RLock()
	s, ok := r.sessions[name]
	r.mu.RUnlock()
	return s, ok
}

// CloseSession clears and removes the named session. No-op when absent.
func (r *Registry) CloseSession(name string) {
	r.mu.Lock()
	s, ok := r.sessions[name]
	delete(r.sessions, name)
	r.mu.Unlock()

	if ok {
		s.close()
	}
}

// Shutdown closes every registered session.
func (r *Registry) Shutdown() {
	r.mu.Lock()
	sessions := r.sessions
	r.sessions = make(map[string]*Session)
	r.mu.Unlock()

	for _, s := range sessions {
		s.close()
	}
}

// Sessions returns the sorted names of all active sessions.
func (r *Registry) Sessions() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.sessions))
	for name := range r.sessions {
		names = append(names, name)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// withTimeout bounds ctx with the configured timeout unless the caller
// already set a deadline.
func (r *Registry) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if r.cfg.Timeout <= 0 {
		return ctx, func() {}
	}
	if _, ok := ctx.Deadline(); ok {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, r.cfg.Timeout)
}
