package storage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"hardwarebot/internal/models"
)

// Store keeps raw copies of uploaded files in a single flat directory.
// Files with the same name overwrite each other; writes are not locked.
type Store struct {
	dir string
}

// Open prepares a store rooted at dir. The directory is created lazily on
// the first Save.
func Open(dir string) (*Store, error) {
	if dir == "" {
		return nil, errors.New("upload directory must be provided")
	}
	absDir, err := filepath.Abs(dir)
	if err != nil {
		return nil, fmt.Errorf("resolve upload directory: %w", err)
	}
	return &Store{dir: absDir}, nil
}

// Dir returns the absolute upload directory.
func (s *Store) Dir() string {
	return s.dir
}

// Save copies src into the store under the base name of name.
func (s *Store) Save(name string, src io.Reader) (*models.StoredFile, error) {
	base := filepath.Base(name)
	if base == "." || base == string(filepath.Separator) {
		return nil, fmt.Errorf("invalid file name %q", name)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload directory: %w", err)
	}
	path := filepath.Join(s.dir, base)
	out, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", base, err)
	}
	n, copyErr := io.Copy(out, src)
	closeErr := out.Close()
	if copyErr != nil {
		return nil, fmt.Errorf("write %s: %w", base, copyErr)
	}
	if closeErr != nil {
		return nil, fmt.Errorf("close %s: %w", base, closeErr)
	}
	return &models.StoredFile{
		Name:       base,
		StoredPath: path,
		Size:       n,
	}, nil
}

// RemoveOlderThan deletes regular files last modified before cutoff and
// returns how many were removed. A missing directory is not an error.
func (s *Store) RemoveOlderThan(cutoff time.Time) (int, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil
		}
		return 0, fmt.Errorf("list upload directory: %w", err)
	}
	removed := 0
	var errs []error
	for _, entry := range entries {
		if !entry.Type().IsRegular() {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(filepath.Join(s.dir, entry.Name())); err != nil && !errors.Is(err, fs.ErrNotExist) {
			errs = append(errs, fmt.Errorf("remove %s: %w", entry.Name(), err))
			continue
		}
		removed++
	}
	return removed, errors.Join(errs...)
}
