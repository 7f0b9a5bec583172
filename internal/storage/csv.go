package storage

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/san-kum/combustlab/internal/logging"
	"github.com/san-kum/combustlab/internal/testmatrix"
)

// CSVStore keeps each matrix in its own directory under baseDir.
type CSVStore struct {
	baseDir string
	logger  logging.Logger
}

func NewCSVStore(baseDir string, opts ...Option) *CSVStore {
	o := buildOptions(opts)
	return &CSVStore{baseDir: baseDir, logger: o.logger}
}

func (s *CSVStore) Init(_ context.Context) error {
	return os.MkdirAll(s.baseDir, 0755)
}

func replicateFile(n int) string {
	return fmt.Sprintf("replicate_%d.csv", n)
}

// WriteMatrix writes the matrix into a hidden staging directory and moves
// it into place once every file is written, so a failed save leaves no
// matrix behind and an existing matrix with the same ID untouched.
func (s *CSVStore) WriteMatrix(ctx context.Context, snap testmatrix.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if snap.ID == "" {
		return errors.New("matrix id is required")
	}
	if err := os.MkdirAll(s.baseDir, 0755); err != nil {
		return err
	}
	stage, err := os.MkdirTemp(s.baseDir, "."+snap.ID+".tmp-*")
	if err != nil {
		return err
	}
	defer os.RemoveAll(stage)
	if err := os.Chmod(stage, 0755); err != nil {
		return err
	}

	for i, rep := range snap.Replicates {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(stage, replicateFile(i+1))
		if err := writeReplicate(path, rep); err != nil {
			return fmt.Errorf("write replicate %d: %w", i+1, err)
		}
	}
	// metadata.json marks the directory as a complete matrix.
	if err := writeJSON(filepath.Join(stage, "metadata.json"), metadataOf(snap)); err != nil {
		return fmt.Errorf("write metadata: %w", err)
	}

	dir := filepath.Join(s.baseDir, snap.ID)
	if err := replaceDir(stage, dir); err != nil {
		return fmt.Errorf("commit matrix %s: %w", snap.ID, err)
	}

	s.logger.Debug("wrote matrix",
		logging.String("matrix_id", snap.ID),
		logging.String("dir", dir),
		logging.Int("replicates", len(snap.Replicates)),
	)
	return nil
}

// replaceDir moves stage to dir, swapping out any previous dir.
func replaceDir(stage, dir string) error {
	if _, err := os.Lstat(dir); os.IsNotExist(err) {
		return os.Rename(stage, dir)
	}
	old := filepath.Join(filepath.Dir(dir), "."+filepath.Base(dir)+".old")
	if err := os.RemoveAll(old); err != nil {
		return err
	}
	if err := os.Rename(dir, old); err != nil {
		return err
	}
	if err := os.Rename(stage, dir); err != nil {
		_ = os.Rename(old, dir)
		return err
	}
	return os.RemoveAll(old)
}

// createFile is swapped in tests to simulate failing writes.
var createFile = func(path string) (io.WriteCloser, error) {
	return os.Create(path)
}

func writeJSON(path string, v any) (err error) {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func writeReplicate(path string, rep []testmatrix.Condition) (err error) {
	f, err := createFile(path)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	w := csv.NewWriter(f)
	if err := w.Write(columns); err != nil {
		return err
	}
	for pos, c := range rep {
		if err := w.Write(conditionRow(pos, c)); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable matrix, oldest first. Hidden staging
// directories and directories without a valid metadata.json are skipped.
func (s *CSVStore) List(_ context.Context) ([]Metadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []Metadata{}, nil
		}
		return nil, err
	}

	out := make([]Metadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		meta, err := s.readMetadata(entry.Name())
		if err != nil {
			continue
		}
		out = append(out, *meta)
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.Before(out[j].CreatedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (s *CSVStore) Load(_ context.Context, id string) (*Metadata, error) {
	meta, err := s.readMetadata(id)
	if errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("matrix %s: %w", id, ErrNotFound)
	}
	return meta, err
}

func (s *CSVStore) readMetadata(id string) (*Metadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, id, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta Metadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode metadata %s: %w", id, err)
	}
	return &meta, nil
}

func (s *CSVStore) LoadReplicate(_ context.Context, id string, n int) ([]testmatrix.Condition, error) {
	file, err := os.Open(filepath.Join(s.baseDir, id, replicateFile(n)))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("matrix %s replicate %d: %w", id, n, ErrNotFound)
		}
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = len(columns)
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read replicate %d: %w", n, err)
	}
	if len(records) < 2 {
		return []testmatrix.Condition{}, nil
	}

	out := make([]testmatrix.Condition, len(records)-1)
	seen := make([]bool, len(out))
	for i, record := range records[1:] {
		pos, c, err := parseCondition(record)
		if err != nil {
			return nil, fmt.Errorf("replicate %d row %d: %w", n, i+1, err)
		}
		if pos < 0 || pos >= len(out) {
			return nil, fmt.Errorf("replicate %d row %d: position %d out of range", n, i+1, pos)
		}
		if seen[pos] {
			return nil, fmt.Errorf("replicate %d row %d: duplicate position %d", n, i+1, pos)
		}
		seen[pos] = true
		out[pos] = c
	}
	return out, nil
}
