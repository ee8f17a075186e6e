package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"

	"github.com/m-mizutani/goerr/v2"
	"gopkg.in/yaml.v3"
)

// File keeps values in a yaml map on disk, written with 0600 permissions
// like the config file.
type File struct {
	path string
	mu   sync.Mutex
}

// NewFile returns a store backed by path. The file is created on first Set.
func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) Get(_ context.Context, key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := values[key]
	return v, ok, nil
}

func (f *File) Set(_ context.Context, key, value string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	values, err := f.read()
	if err != nil {
		return err
	}
	values[key] = value

	if err := os.MkdirAll(filepath.Dir(f.path), 0700); err != nil {
		return goerr.Wrap(err, "create state dir", goerr.V("path", f.path))
	}
	data, err := yaml.Marshal(values)
	if err != nil {
		return goerr.Wrap(err, "marshal state")
	}
	if err := os.WriteFile(f.path, data, 0600); err != nil {
		return goerr.Wrap(err, "write state", goerr.V("path", f.path))
	}
	return nil
}

func (f *File) Close() error { return nil }

func (f *File) read() (map[string]string, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, goerr.Wrap(err, "read state", goerr.V("path", f.path))
	}
	values := map[string]string{}
	if err := yaml.Unmarshal(data, &values); err != nil {
		return nil, goerr.Wrap(err, "parse state", goerr.V("path", f.path))
	}
	if values == nil {
		values = map[string]string{}
	}
	return values, nil
}
