//go:build sqlite

package storage

import (
	"context"
	"errors"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSQLiteStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	st, err := NewStore("sqlite", filepath.Join(t.TempDir(), "matrices.db"))
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	if err := st.Init(ctx); err != nil {
		t.Fatalf("init: %v", err)
	}
	t.Cleanup(func() {
		_ = CloseIfSupported(st)
	})
	cat := st.(Catalog)

	tm, reps := generated(t, "sql-run")
	if err := tm.Save(ctx, st); err != nil {
		t.Fatalf("save: %v", err)
	}
	// saving twice replaces rather than duplicating rows
	if err := tm.Save(ctx, st); err != nil {
		t.Fatalf("save again: %v", err)
	}

	runs, err := cat.List(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(runs) != 1 || runs[0].ID != "sql-run" {
		t.Fatalf("unexpected listing: %+v", runs)
	}

	meta, err := cat.Load(ctx, "sql-run")
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if meta.NumConditions != 6 || meta.Diluent != "N2" {
		t.Errorf("unexpected metadata: %+v", meta)
	}

	for i, want := range reps {
		got, err := cat.LoadReplicate(ctx, "sql-run", i+1)
		if err != nil {
			t.Fatalf("load replicate %d: %v", i+1, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("replicate %d did not round trip", i+1)
		}
	}

	if _, err := cat.LoadReplicate(ctx, "sql-run", 4); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := cat.Load(ctx, "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

func TestSQLiteStoreRequiresInit(t *testing.T) {
	st := NewSQLiteStore(filepath.Join(t.TempDir(), "x.db"))
	if _, err := st.List(context.Background()); err == nil {
		t.Error("expected error before init")
	}
}
