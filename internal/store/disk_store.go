package store

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/2beens/mapty/internal/workout"
	"github.com/2beens/mapty/pkg"
)

var _ Store = (*DiskStore)(nil)

// DiskStore writes the collection to <root>/<key>.json.
type DiskStore struct {
	mu   sync.Mutex
	path string
}

func NewDiskStore(rootPath, key string) (*DiskStore, error) {
	if key == "" {
		key = DefaultKey
	}

	exists, err := pkg.PathExists(rootPath, true)
	if err != nil {
		return nil, fmt.Errorf("check root path: %w", err)
	}
	if !exists {
		if err := os.MkdirAll(rootPath, 0o755); err != nil {
			return nil, fmt.Errorf("create root path: %w", err)
		}
	}

	return &DiskStore{
		path: filepath.Join(rootPath, key+".json"),
	}, nil
}

func (s *DiskStore) Save(_ context.Context, records []workout.Record) error {
	data, err := encode(records)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// write to a temp file first, so a crash never leaves a half written collection
	tmp, err := os.CreateTemp(filepath.Dir(s.path), filepath.Base(s.path)+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		_ = os.Remove(tmp.Name())
	}()

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("rename temp file: %w", err)
	}
	return nil
}

func (s *DiskStore) Load(_ context.Context) ([]workout.Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []workout.Record{}, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	return decode(data)
}

func (s *DiskStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.path); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("remove %s: %w", s.path, err)
	}
	return nil
}
