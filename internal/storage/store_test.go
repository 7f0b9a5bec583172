package storage

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"io"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/san-kum/combustlab/internal/testmatrix"
)

func generated(t *testing.T, id string) (*testmatrix.TestMatrix, [][]testmatrix.Condition) {
	t.Helper()
	tm, err := testmatrix.New(testmatrix.Params{
		NumReplicates:       3,
		Equivalence:         []float64{0.7, 1.0, 1.3},
		DiluentMoleFraction: []float64{0, 0.15},
		Fuel:                "CH4",
		Oxidizer:            "O2",
		Diluent:             "N2",
		Seed:                11,
	}, testmatrix.WithID(id))
	if err != nil {
		t.Fatalf("new matrix: %v", err)
	}
	reps, err := tm.GenerateTestMatrices()
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	return tm, reps
}

func TestCSVStoreSaveLoad(t *testing.T) {
	ctx := context.Background()
	st := NewCSVStore(t.TempDir())
	if err := st.Init(ctx); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	tm, reps := generated(t, "ch4-sweep")
	if err := tm.Save(ctx, st); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	meta, err := st.Load(ctx, "ch4-sweep")
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Fuel != "CH4" {
		t.Errorf("expected fuel CH4, got %s", meta.Fuel)
	}
	if meta.NumReplicates != 3 || meta.NumConditions != 6 {
		t.Errorf("unexpected counts: %d replicates, %d conditions", meta.NumReplicates, meta.NumConditions)
	}
	if meta.Seed != 11 {
		t.Errorf("expected seed 11, got %d", meta.Seed)
	}
	if meta.CreatedAt.IsZero() {
		t.Error("expected creation time")
	}

	for i, want := range reps {
		got, err := st.LoadReplicate(ctx, "ch4-sweep", i+1)
		if err != nil {
			t.Fatalf("load replicate %d: %v", i+1, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("replicate %d did not round trip", i+1)
		}
	}
}

func TestCSVStoreLayout(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st := NewCSVStore(dir)

	tm, _ := generated(t, "layout")
	if err := tm.Save(ctx, st); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "replicate_1.csv", "replicate_2.csv", "replicate_3.csv"} {
		if _, err := os.Stat(filepath.Join(dir, "layout", name)); err != nil {
			t.Errorf("expected %s: %v", name, err)
		}
	}
	if _, err := os.Stat(filepath.Join(dir, "layout", "replicate_4.csv")); !os.IsNotExist(err) {
		t.Error("unexpected fourth replicate")
	}
}

func TestCSVStoreList(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st := NewCSVStore(dir)

	runs, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 matrices, got %d", len(runs))
	}

	base := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	for i, id := range []string{"b", "a"} {
		snap := testmatrix.Snapshot{
			ID:         id,
			CreatedAt:  base.Add(time.Duration(i) * time.Minute),
			Summary:    testmatrix.Summary{ID: id, Fuel: "H2", Oxidizer: "O2"},
			Replicates: [][]testmatrix.Condition{{}},
		}
		if err := st.WriteMatrix(ctx, snap); err != nil {
			t.Fatalf("write %s: %v", id, err)
		}
	}
	if err := os.MkdirAll(filepath.Join(dir, "junk"), 0755); err != nil {
		t.Fatal(err)
	}

	runs, err = st.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 matrices, got %d", len(runs))
	}
	if runs[0].ID != "b" || runs[1].ID != "a" {
		t.Errorf("expected oldest first, got %s then %s", runs[0].ID, runs[1].ID)
	}
}

func TestCSVStoreMissing(t *testing.T) {
	ctx := context.Background()
	st := NewCSVStore(t.TempDir())

	if _, err := st.Load(ctx, "nope"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}

	tm, _ := generated(t, "present")
	if err := tm.Save(ctx, st); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if _, err := st.LoadReplicate(ctx, "present", 9); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
}

// failOn makes createFile fail for one file name. With onClose the file is
// created and written but reports an error when closed.
func failOn(t *testing.T, name string, onClose bool) {
	t.Helper()
	orig := createFile
	createFile = func(path string) (io.WriteCloser, error) {
		if filepath.Base(path) != name {
			return orig(path)
		}
		if !onClose {
			return nil, errors.New("disk full")
		}
		f, err := os.Create(path)
		if err != nil {
			return nil, err
		}
		return closeErr{f}, nil
	}
	t.Cleanup(func() { createFile = orig })
}

type closeErr struct{ *os.File }

func (c closeErr) Close() error {
	c.File.Close()
	return errors.New("flush failed")
}

func TestCSVStoreFailedSaveLeavesNothing(t *testing.T) {
	tests := []struct {
		name    string
		file    string
		onClose bool
	}{
		{"replicate create", "replicate_2.csv", false},
		{"replicate close", "replicate_2.csv", true},
		{"metadata close", "metadata.json", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			dir := t.TempDir()
			st := NewCSVStore(dir)
			failOn(t, tt.file, tt.onClose)

			tm, _ := generated(t, "partial")
			if err := tm.Save(ctx, st); err == nil {
				t.Fatal("expected save to fail")
			}

			list, err := st.List(ctx)
			if err != nil {
				t.Fatalf("list failed: %v", err)
			}
			if len(list) != 0 {
				t.Errorf("expected no matrices after failed save, got %d", len(list))
			}
			entries, _ := os.ReadDir(dir)
			if len(entries) != 0 {
				t.Errorf("expected empty store dir, found %d entries", len(entries))
			}
		})
	}
}

func TestCSVStoreFailedOverwriteKeepsPrevious(t *testing.T) {
	ctx := context.Background()
	st := NewCSVStore(t.TempDir())

	tm, reps := generated(t, "kept")
	if err := tm.Save(ctx, st); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	failOn(t, "replicate_3.csv", false)
	if err := tm.Save(ctx, st); err == nil {
		t.Fatal("expected second save to fail")
	}

	for i, want := range reps {
		got, err := st.LoadReplicate(ctx, "kept", i+1)
		if err != nil {
			t.Fatalf("load replicate %d: %v", i+1, err)
		}
		if !reflect.DeepEqual(got, want) {
			t.Errorf("replicate %d changed after failed overwrite", i+1)
		}
	}
}

func TestCSVStoreOverwrite(t *testing.T) {
	ctx := context.Background()
	st := NewCSVStore(t.TempDir())

	first, _ := generated(t, "again")
	if err := first.Save(ctx, st); err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if err := first.Save(ctx, st); err != nil {
		t.Fatalf("resave failed: %v", err)
	}
	list, err := st.List(ctx)
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(list) != 1 || list[0].ID != "again" {
		t.Errorf("expected one matrix, got %+v", list)
	}
}

func TestCSVStoreDuplicatePosition(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	st := NewCSVStore(dir)

	tm, _ := generated(t, "dup")
	if err := tm.Save(ctx, st); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	path := filepath.Join(dir, "dup", "replicate_1.csv")
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	records, err := csv.NewReader(bytes.NewReader(data)).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	records[2][0] = records[1][0]
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	if err := w.WriteAll(records); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil {
		t.Fatal(err)
	}

	if _, err := st.LoadReplicate(ctx, "dup", 1); err == nil {
		t.Error("expected duplicate position error")
	}
}

func TestCSVStoreCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	st := NewCSVStore(t.TempDir())
	err := st.WriteMatrix(ctx, testmatrix.Snapshot{ID: "x"})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestJSONWriter(t *testing.T) {
	var buf bytes.Buffer
	tm, reps := generated(t, "json-run")
	if err := tm.Save(context.Background(), NewJSONWriter(&buf)); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	var snap testmatrix.Snapshot
	if err := json.Unmarshal(buf.Bytes(), &snap); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if snap.ID != "json-run" {
		t.Errorf("expected id json-run, got %s", snap.ID)
	}
	if !reflect.DeepEqual(snap.Replicates, reps) {
		t.Error("replicates did not round trip")
	}
}

func TestJSONStoreFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.json")
	st, err := NewStore("json", path)
	if err != nil {
		t.Fatalf("new store: %v", err)
	}
	tm, _ := generated(t, "file-run")
	if err := tm.Save(context.Background(), st); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Contains(data, []byte(`"id": "file-run"`)) {
		t.Errorf("unexpected document:\n%s", data)
	}
}

func TestJSONStoreCloseError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "matrix.json")
	failOn(t, "matrix.json", true)

	tm, _ := generated(t, "lost")
	if err := tm.Save(context.Background(), NewJSONStore(path)); err == nil {
		t.Fatal("expected close error to surface")
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Errorf("expected no file after failed export, got %v", err)
	}
}

func TestNewStore(t *testing.T) {
	tests := []struct {
		kind    string
		want    string
		wantErr bool
	}{
		{"", "*storage.CSVStore", false},
		{"csv", "*storage.CSVStore", false},
		{"json", "*storage.JSONStore", false},
		{"parquet", "", true},
	}

	for _, tt := range tests {
		st, err := NewStore(tt.kind, t.TempDir())
		if tt.wantErr {
			if err == nil {
				t.Errorf("%q: expected error", tt.kind)
			}
			continue
		}
		if err != nil {
			t.Errorf("%q: %v", tt.kind, err)
			continue
		}
		if got := reflect.TypeOf(st).String(); got != tt.want {
			t.Errorf("%q: expected %s, got %s", tt.kind, tt.want, got)
		}
		if err := CloseIfSupported(st); err != nil {
			t.Errorf("%q: close: %v", tt.kind, err)
		}
	}
}
