// Package filestore keeps downloaded report files on local disk.
package filestore

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"SpimexTradingResults/internal/domain"
	"SpimexTradingResults/internal/ports"
)

// Local stores report files in a single flat directory.
type Local struct {
	dir string
}

var _ ports.FileStore = (*Local)(nil)

// NewLocal creates dir when missing.
func NewLocal(dir string) (*Local, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create tables dir %s: %w", dir, err)
	}
	return &Local{dir: dir}, nil
}

// Write stores data under name; readers never observe a partial file.
func (l *Local) Write(name string, data []byte) error {
	tmp, err := os.CreateTemp(l.dir, "."+name+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmpName)
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err := os.Rename(tmpName, l.Path(name)); err != nil {
		_ = os.Remove(tmpName)
		return fmt.Errorf("rename %s: %w", name, err)
	}
	return nil
}

// List returns report file names sorted by name, which is chronological.
func (l *Local) List() ([]string, error) {
	entries, err := os.ReadDir(l.dir)
	if err != nil {
		return nil, fmt.Errorf("read tables dir: %w", err)
	}
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !domain.IsReportFileName(e.Name()) {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)
	return names, nil
}

func (l *Local) Path(name string) string {
	return filepath.Join(l.dir, name)
}
