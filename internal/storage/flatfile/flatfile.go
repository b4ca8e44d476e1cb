// Package flatfile stores ledger records as delimiter-separated lines of text.
package flatfile

import (
	"bufio"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/mmynk/splitledger/internal/models"
	"github.com/mmynk/splitledger/internal/storage"
)

// Ensure Store implements storage.Store
var _ storage.Store = (*Store)(nil)

// maxLineSize bounds one encoded record.
const maxLineSize = 1 << 20

// Store keeps one record per line in a single file.
type Store struct {
	path  string
	delim byte
}

// New returns a Store for path using delim between fields.
// The parent directory is created if needed; the file itself is created on first Save.
func New(path string, delim byte) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, storage.IOError("create data directory", err)
	}
	return &Store{path: path, delim: delim}, nil
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads the file line by line. A missing file is an empty ledger.
func (s *Store) Load(ctx context.Context) (*storage.LoadResult, error) {
	result := &storage.LoadResult{}

	f, err := os.Open(s.path)
	if errors.Is(err, os.ErrNotExist) {
		return result, nil
	}
	if err != nil {
		return nil, storage.IOError("open "+s.path, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)

	line := 0
	for scanner.Scan() {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		line++
		text := scanner.Text()
		if strings.TrimSpace(text) == "" {
			continue
		}
		a, err := models.DecodeActivity(text, s.delim)
		if err != nil {
			result.Errors = append(result.Errors, storage.LineError{Line: line, Err: err})
			continue
		}
		result.Add(a, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, storage.IOError("read "+s.path, err)
	}

	return result, nil
}

// Save writes every record to a temporary file next to the target and renames
// it into place, so a failed save leaves the previous file intact.
func (s *Store) Save(ctx context.Context, activities []*models.Activity) error {
	var b strings.Builder
	for _, a := range activities {
		if err := ctx.Err(); err != nil {
			return err
		}
		line, err := a.Encode(s.delim)
		if err != nil {
			return err
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}

	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return storage.IOError("create temp file", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(b.String()); err != nil {
		tmp.Close()
		return storage.IOError("write "+tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return storage.IOError("close "+tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return storage.IOError("replace "+s.path, err)
	}
	return nil
}

// Close is a no-op; the file is only open during Load and Save.
func (s *Store) Close() error {
	return nil
}
