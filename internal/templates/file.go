package templates

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"fakepost/internal/domain"
)

// FileStore keeps each slot as a JSON file under a base directory.
type FileStore struct {
	basePath string
}

// NewFileStore initializes a FileStore rooted at basePath.
func NewFileStore(basePath string) (*FileStore, error) {
	basePath = strings.TrimSpace(basePath)
	if basePath == "" {
		return nil, errors.New("templates: base path is required")
	}
	if err := os.MkdirAll(basePath, 0o755); err != nil {
		return nil, fmt.Errorf("templates: ensure base path: %w", err)
	}
	return &FileStore{basePath: basePath}, nil
}

func (s *FileStore) Save(ctx context.Context, slot string, t domain.Template) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	path, err := s.path(slot)
	if err != nil {
		return err
	}
	raw, err := Encode(t)
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0o644); err != nil {
		return fmt.Errorf("templates: write file: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("templates: replace file: %w", err)
	}
	return nil
}

func (s *FileStore) Load(ctx context.Context, slot string) (domain.Template, error) {
	if err := ctx.Err(); err != nil {
		return domain.Template{}, err
	}
	path, err := s.path(slot)
	if err != nil {
		return domain.Template{}, err
	}
	raw, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return domain.Template{}, domain.ErrNotFound
	}
	if err != nil {
		return domain.Template{}, fmt.Errorf("templates: read file: %w", err)
	}
	return Decode(raw)
}

func (s *FileStore) path(slot string) (string, error) {
	key, err := sanitizeSlot(slot)
	if err != nil {
		return "", err
	}
	return filepath.Join(s.basePath, key+".json"), nil
}

// sanitizeSlot keeps slot names to a single safe path segment.
func sanitizeSlot(slot string) (string, error) {
	slot = strings.TrimSpace(slot)
	if slot == "" {
		return "", domain.Validation("The template slot cannot be empty.")
	}
	var b strings.Builder
	for _, r := range slot {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_', r == '.':
			b.WriteRune(r)
		default:
			b.WriteRune('_')
		}
	}
	cleaned := b.String()
	if strings.Trim(cleaned, ".") == "" {
		return "", domain.Validation("The template slot is invalid.")
	}
	return cleaned, nil
}

var _ Store = (*FileStore)(nil)
