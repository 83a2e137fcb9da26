// Package slot provides DurableSlot backends that need no external service.
package slot

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/thynkpro/portal/internal/core/ports"
)

// File keeps the slot in a single file named after the key. Writes go to
// a temporary file that is renamed into place, so a crash mid-write leaves
// either the old or the new contents.
type File struct {
	path string
	mu   sync.Mutex
}

var _ ports.DurableSlot = (*File)(nil)

// NewFile returns a slot stored at dir/key. The directory is created on
// first write.
func NewFile(dir, key string) *File {
	return &File{path: filepath.Join(dir, key)}
}

// Path is the backing file.
func (f *File) Path() string {
	return f.path
}

func (f *File) Get(context.Context) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	data, err := os.ReadFile(f.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("read slot: %w", err)
	}
	return data, true, nil
}

func (f *File) Set(_ context.Context, data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		return fmt.Errorf("create slot dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), filepath.Base(f.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create slot temp: %w", err)
	}
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("write slot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("close slot: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		_ = os.Remove(tmp.Name())
		return fmt.Errorf("replace slot: %w", err)
	}
	return nil
}

func (f *File) Clear(context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := os.Remove(f.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("clear slot: %w", err)
	}
	return nil
}
