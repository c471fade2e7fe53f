package collection

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/raushankrgupta/stylis/models"
)

// FileBackend keeps the collection in a local JSON file.
type FileBackend struct {
	path string
}

// NewFileBackend stores the collection at path.
func NewFileBackend(path string) *FileBackend {
	return &FileBackend{path: path}
}

func (b *FileBackend) Name() string { return "file" }

func (b *FileBackend) Load(ctx context.Context) ([]models.SavedOutfit, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return []models.SavedOutfit{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read collection file: %w", err)
	}
	return Decode(data)
}

// Replace writes a sibling temp file and renames it over the record, so a
// reader sees either the old list or the new one.
func (b *FileBackend) Replace(ctx context.Context, outfits []models.SavedOutfit) error {
	data, err := Encode(outfits)
	if err != nil {
		return fmt.Errorf("failed to encode collection: %w", err)
	}

	dir := filepath.Dir(b.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create collection dir: %w", err)
	}

	tmp, err := os.CreateTemp(dir, filepath.Base(b.path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write collection: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to sync collection: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close collection: %w", err)
	}

	if err := os.Rename(tmpName, b.path); err != nil {
		return fmt.Errorf("failed to replace collection file: %w", err)
	}
	return nil
}
