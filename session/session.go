// Package session provides named sessions (scoped key-value context plus
// an ordered operation history) managed by an explicit Registry.
package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/wormhq/worm/adapter"
)

// ErrSessionClosed is returned by operations on a closed session.
var ErrSessionClosed = errors.New("session closed")

// HistoryRecord is one logged operation: when it ran, a label encoding
// the language namespace, function, and arguments, and the result.
type HistoryRecord struct {
	Time   time.Time
	Label  string
	Result adapter.Result
}

// Session is a named unit of user context. It owns a mutable key-value
// map and an append-only history log; both are cleared on close. Safe for
// concurrent use.
type Session struct {
	name string
	reg  *Registry

	mu           sync.Mutex
	values       map[string]any
	history      []HistoryRecord
	historyLimit int
	closed       bool
}

// Name returns the session's registry key.
func (s *Session) Name() string { return s.name }

// Set upserts a context value and returns the session for chaining.
func (s *Session) Set(key string, value any) *Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return s
	}
	s.values[key] = value
	return s
}

// Get returns the stored value for key, with ok false when absent.
func (s *Session) Get(key string) (any, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	v, ok := s.values[key]
	return v, ok
}

// AddToHistory appends one timestamped record. When a history limit is
// configured the oldest records are dropped to stay within it.
func (s *Session) AddToHistory(label string, res adapter.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.history = append(s.history, HistoryRecord{
		Time:   time.Now(),
		Label:  label,
		Result: res,
	})
	if s.historyLimit > 0 && len(s.history) > s.historyLimit {
		s.history = s.history[len(s.history)-s.historyLimit:]
	}
}

// History returns a defensive copy of the history log in call order.
func (s *Session) History() []HistoryRecord {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]HistoryRecord, len(s.history))
	copy(out, s.history)
	return out
}

// Closed reports whether the session has been closed.
func (s *Session) Closed() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.closed
}

// close clears context and history and marks the session terminal.
func (s *Session) close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.values = make(map[string]any)
	s.history = nil
}

// Per-language fluent accessors. Each returns a facade bound to this
// session: results of its operations are appended to the history.

// Native returns the in-process facade bound to this session.
func (s *Session) Native() *Bound { return s.bound("native") }

// Python returns the Python facade bound to this session.
func (s *Session) Python() *Bound { return s.bound("python") }

// Cpp returns the C++ facade bound to this session.
func (s *Session) Cpp() *Bound { return s.bound("cpp") }

// Go returns the Go facade bound to this session.
func (s *Session) Go() *Bound { return s.bound("go") }

func (s *Session) bound(lang string) *Bound {
	facade, _ := s.reg.Facade(lang)
	return &Bound{session: s, facade: facade}
}

// Bound is a language facade scoped to one session. Every call appends
// exactly one history record unless it fails outright.
type Bound struct {
	session *Session
	facade  adapter.Facade
}

// Execute runs a snippet through the bound facade.
func (b *Bound) Execute(ctx context.Context, code string) adapter.Result {
	if b.session.Closed() {
		return adapter.Result{Error: ErrSessionClosed}
	}
	ctx, cancel := b.session.reg.withTimeout(ctx)
	defer cancel()

	res := b.facade.Execute(ctx, code)
	if res.Error == nil {
		b.session.AddToHistory(b.facade.Name()+".execute", res)
	}
	return res
}

// Call invokes a named function through the bound facade.
func (b *Bound) Call(ctx context.Context, fn string, args ...any) adapter.Result {
	if b.session.Closed() {
		return adapter.Result{Error: ErrSessionClosed}
	}
	ctx, cancel := b.session.reg.withTimeout(ctx)
	defer cancel()

	res := b.facade.Call(ctx, fn, args...)
	if res.Error == nil {
		b.session.AddToHistory(callLabel(b.facade.Name(), fn, args), res)
	}
	return res
}

// Library binds an external module through the bound facade. The second
// return is false when the facade has no library support.
func (b *Bound) Library(ctx context.Context, path string, sigs map[string]adapter.Signature) (*adapter.Library, bool) {
	loader, ok := b.facade.(adapter.LibraryLoader)
	if !ok || b.session.Closed() {
		return nil, false
	}
	lib := loader.Library(ctx, path, sigs)
	b.session.AddToHistory(
		fmt.Sprintf("%s.library(%s)", b.facade.Name(), path),
		adapter.Result{Value: path, Degraded: lib.Placeholder()},
	)
	return lib, true
}

func callLabel(lang, fn string, args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return fmt.Sprintf("%s.%s(%s)", lang, fn, strings.Join(parts, ", "))
}
