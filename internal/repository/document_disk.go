package repository

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"

	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/pkg/validator"
)

// DocumentRepository stores uploaded documents
type DocumentRepository interface {
	List(ctx context.Context) ([]string, error)
	Save(ctx context.Context, name string, content io.Reader) error
	Delete(ctx context.Context, name string) error
}

var _ DocumentRepository = &DocumentDisk{}

// DocumentDisk keeps documents as plain files in one directory
type DocumentDisk struct {
	dir string
}

func NewDocumentDisk(dir string) (*DocumentDisk, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create documents dir: %w", err)
	}
	return &DocumentDisk{dir: dir}, nil
}

// List returns the supported documents in the directory, sorted by name
func (r *DocumentDisk) List(ctx context.Context) ([]string, error) {
	entries, err := os.ReadDir(r.dir)
	if err != nil {
		return nil, fmt.Errorf("read documents dir: %w", err)
	}

	documents := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.Type().IsRegular() || !validator.IsSupported(e.Name()) {
			continue
		}
		documents = append(documents, e.Name())
	}

	sort.Strings(documents)
	return documents, nil
}

// Save writes content under name, replacing an existing document.
// The file is written to a temp name first so a failed upload leaves no partial document.
func (r *DocumentDisk) Save(ctx context.Context, name string, content io.Reader) error {
	tmp, err := os.CreateTemp(r.dir, ".upload-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := io.Copy(tmp, content); err != nil {
		tmp.Close()
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}

	if err := os.Rename(tmp.Name(), r.path(name)); err != nil {
		return fmt.Errorf("store %s: %w", name, err)
	}
	return nil
}

// Delete removes a document; a missing one yields entity.ErrDocumentNotFound
func (r *DocumentDisk) Delete(ctx context.Context, name string) error {
	err := os.Remove(r.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return entity.ErrDocumentNotFound
	}
	if err != nil {
		return fmt.Errorf("delete %s: %w", name, err)
	}
	return nil
}

func (r *DocumentDisk) path(name string) string {
	return filepath.Join(r.dir, filepath.Base(name))
}
