package session_test

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"

	"github.com/wormhq/worm/adapter"
	"github.com/wormhq/worm/config"
	"github.com/wormhq/worm/session"
)

func TestSetGetChaining(t *testing.T) {
	reg := newTestRegistry(t)
	s := reg.CreateSession("s")

	s.Set("a", 1).Set("b", "two")

	if v, ok := s.Get("a"); !ok || v != 1 {
		t.Errorf("expected 1, got %v", v)
	}
	if v, ok := s.Get("b"); !ok || v != "two" {
		t.Errorf("expected two, got %v", v)
	}
	if _, ok := s.Get("missing"); ok {
		t.Error("expected missing key to report not found")
	}
}

func TestHistoryOrdering(t *testing.T) {
	reg := newTestRegistry(t)
	s := reg.CreateSession("s")
	ctx := context.Background()

	const n = 5
	for i := 0; i < n; i++ {
		res := s.Native().Execute(ctx, fmt.Sprintf("sum %d %d", i, i))
		if res.Error != nil {
			t.Fatalf("op %d: %v", i, res.Error)
		}
	}

	history := s.History()
	if len(history) != n {
		t.Fatalf("expected %d records, got %d", n, len(history))
	}
	for i := 1; i < n; i++ {
		if history[i].Time.Before(history[i-1].Time) {
			t.Error("expected non-decreasing timestamps")
		}
	}
	for i, rec := range history {
		want := float64(2 * i)
		if rec.Result.Value != want {
			t.Errorf("record %d: expected %v, got %v", i, want, rec.Result.Value)
		}
	}
}

func TestHistoryLimit(t *testing.T) {
	cfg := config.Default()
	cfg.ContainerPath = filepath.Join(t.TempDir(), "t.pack")
	cfg.HistoryLimit = 3
	reg := session.NewRegistry(cfg)
	defer reg.Shutdown()

	s := reg.CreateSession("s")
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		s.Native().Execute(ctx, fmt.Sprintf("sum %d", i))
	}

	history := s.History()
	if len(history) != 3 {
		t.Fatalf("expected capped history of 3, got %d", len(history))
	}
	// Oldest records are dropped.
	if history[0].Result.Value != 2.0 {
		t.Errorf("expected oldest surviving record to be 2, got %v", history[0].Result.Value)
	}
}

func TestCallLabel(t *testing.T) {
	reg := newTestRegistry(t)
	s := reg.CreateSession("s")

	res := s.Native().Call(context.Background(), "sqrt", 16)
	if res.Error != nil {
		t.Fatalf("unexpected error: %v", res.Error)
	}

	history := s.History()
	if len(history) != 1 {
		t.Fatalf("expected 1 record, got %d", len(history))
	}
	if history[0].Label != "native.sqrt(16)" {
		t.Errorf("unexpected label %q", history[0].Label)
	}
}

func TestDegradedCallAppendsExactlyOneRecord(t *testing.T) {
	reg := newTestRegistry(t)
	s := reg.CreateSession("s")
	ctx := context.Background()

	for _, b := range []*session.Bound{s.Python(), s.Cpp(), s.Go()} {
		before := len(s.History())

		res := b.Call(ctx, "sqrt", 16)
		if res.Error != nil {
			t.Fatalf("degraded call must not fail: %v", res.Error)
		}
		if !res.Degraded {
			t.Error("expected degraded result")
		}
		if res.Value != 4.0 {
			t.Errorf("expected 4, got %v", res.Value)
		}
		if len(s.History()) != before+1 {
			t.Errorf("expected exactly one new record, got %d", len(s.History())-before)
		}
	}
}

func TestFailedCallAppendsNothing(t *testing.T) {
	reg := newTestRegistry(t)
	s := reg.CreateSession("s")

	res := s.Native().Call(context.Background(), "no_such_fn")
	if res.Error == nil {
		t.Fatal("expected error")
	}
	if len(s.History()) != 0 {
		t.Error("failed calls must not be recorded")
	}
}

func TestClosedSessionRejectsOperations(t *testing.T) {
	reg := newTestRegistry(t)
	s := reg.CreateSession("s")
	s.Set("k", "v")
	s.Native().Execute(context.Background(), "sum 1")

	reg.CloseSession("s")

	res := s.Native().Execute(context.Background(), "sum 1")
	if !errors.Is(res.Error, session.ErrSessionClosed) {
		t.Errorf("expected ErrSessionClosed, got %v", res.Error)
	}
	if _, ok := s.Get("k"); ok {
		t.Error("expected context cleared on close")
	}
	if len(s.History()) != 0 {
		t.Error("expected history cleared on close")
	}
}

func TestLibraryThroughSession(t *testing.T) {
	reg := newTestRegistry(t)
	s := reg.CreateSession("s")
	ctx := context.Background()

	// Python has no library support.
	if _, ok := s.Python().Library(ctx, "m.wasm", nil); ok {
		t.Error("expected python to lack library support")
	}

	// C++ binds via WASM; a missing module degrades to a placeholder and
	// still records the load.
	sigs := map[string]adapter.Signature{"add": {Params: 2, Results: 1}}
	lib, ok := s.Cpp().Library(ctx, "testdata/absent.wasm", sigs)
	if !ok {
		t.Fatal("expected cpp library support")
	}
	defer lib.Close(ctx)

	if !lib.Placeholder() {
		t.Error("expected placeholder library")
	}
	if len(s.History()) != 1 {
		t.Errorf("expected library load recorded, got %d records", len(s.History()))
	}

	res := lib.Call(ctx, "add", 1, 2)
	if res.Error != nil || !res.Degraded {
		t.Errorf("expected degraded sentinel, got %+v", res)
	}
}
