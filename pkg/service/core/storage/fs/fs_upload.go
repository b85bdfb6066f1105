// Package fs stores uploaded file bytes in a flat directory keyed by
// filename. Collisions silently overwrite; there is no locking, last write
// wins.
package fs

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/sheetflow/sheetflow-backend/pkg/errs"
	"github.com/sheetflow/sheetflow-backend/pkg/service"
)

var _ service.UploadStorage = &uploadStorage{}

type uploadStorage struct {
	dir string
}

func NewUploadStorage(dir string) (*uploadStorage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("creating upload directory: %w", err)
	}
	return &uploadStorage{dir: dir}, nil
}

func (s *uploadStorage) Save(_ context.Context, filename string, data []byte) error {
	const op errs.Op = "fs.Save"

	path, err := s.resolve(filename)
	if err != nil {
		return errs.E(op, errs.InvalidRequest, err)
	}

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return errs.E(op, errs.IO, err)
	}

	return nil
}

func (s *uploadStorage) Read(_ context.Context, filename string) ([]byte, error) {
	const op errs.Op = "fs.Read"

	path, err := s.resolve(filename)
	if err != nil {
		return nil, errs.E(op, errs.InvalidRequest, err)
	}

	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, errs.E(op, errs.NotExist, "File not found")
	}
	if err != nil {
		return nil, errs.E(op, errs.IO, err)
	}

	return data, nil
}

// resolve flattens the filename to its base and keeps it inside the upload
// directory, so a crafted path cannot escape it.
func (s *uploadStorage) resolve(filename string) (string, error) {
	name := filepath.Base(filepath.ToSlash(filename))
	if name == "." || name == ".." || name == string(filepath.Separator) || name == "" {
		return "", fmt.Errorf("invalid filename %q", filename)
	}
	return filepath.Join(s.dir, name), nil
}
