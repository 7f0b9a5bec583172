package storage

import (
	"context"
	"encoding/json"
	"io"
	"os"

	"github.com/san-kum/combustlab/internal/logging"
	"github.com/san-kum/combustlab/internal/testmatrix"
)

// JSONStore writes each snapshot as one indented JSON document.
type JSONStore struct {
	path   string
	out    io.Writer
	logger logging.Logger
}

// NewJSONStore writes to path, or to stdout when path is "" or "-".
func NewJSONStore(path string, opts ...Option) *JSONStore {
	o := buildOptions(opts)
	s := &JSONStore{path: path, logger: o.logger}
	if path == "" || path == "-" {
		s.path = ""
		s.out = os.Stdout
	}
	return s
}

// NewJSONWriter writes to w.
func NewJSONWriter(w io.Writer, opts ...Option) *JSONStore {
	o := buildOptions(opts)
	return &JSONStore{out: w, logger: o.logger}
}

func (s *JSONStore) Init(_ context.Context) error { return nil }

func (s *JSONStore) WriteMatrix(ctx context.Context, snap testmatrix.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.out != nil {
		return encodeSnapshot(s.out, snap)
	}

	file, err := createFile(s.path)
	if err != nil {
		return err
	}
	err = encodeSnapshot(file, snap)
	if cerr := file.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(s.path)
		return err
	}
	s.logger.Debug("exported matrix", logging.String("matrix_id", snap.ID), logging.String("path", s.path))
	return nil
}

func encodeSnapshot(w io.Writer, snap testmatrix.Snapshot) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(snap)
}
