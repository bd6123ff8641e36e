package storage

import (
	"bytes"
	"encoding/gob"
	"errors"
	"fmt"
	"io/fs"
	"path/filepath"

	"simpleio/internal/core/domain"

	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// ObjectStore serializes values with encoding/gob into files of a private directory.
// Concrete types stored behind interfaces must be registered with gob.Register.
type ObjectStore struct {
	fs  afero.Fs
	dir string
}

func NewObjectStore(fsys afero.Fs, dir string) *ObjectStore {
	return &ObjectStore{fs: fsys, dir: dir}
}

func (s *ObjectStore) path(name string) (string, error) {
	if name == "" || filepath.Base(name) != name || name == "." || name == ".." {
		return "", fmt.Errorf("%w: invalid private file name %q", domain.ErrMissingInput, name)
	}
	return filepath.Join(s.dir, name), nil
}

func (s *ObjectStore) Save(name string, v any) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := gob.NewEncoder(&buf).Encode(v); err != nil {
		return fmt.Errorf("error encoding %q: %w", name, err)
	}

	if err := s.fs.MkdirAll(s.dir, 0o700); err != nil {
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	if err := afero.WriteFile(s.fs, path, buf.Bytes(), 0o600); err != nil {
		return fmt.Errorf("%w: error writing %q: %w", domain.ErrIO, name, err)
	}

	log.Debug().Str("name", name).Int("bytes", buf.Len()).Msg("saved object")
	return nil
}

func (s *ObjectStore) Load(name string, v any) error {
	path, err := s.path(name)
	if err != nil {
		return err
	}

	data, err := afero.ReadFile(s.fs, path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("%w: private file %q", domain.ErrNotFound, name)
		}
		return fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	if err := gob.NewDecoder(bytes.NewReader(data)).Decode(v); err != nil {
		return fmt.Errorf("error decoding %q: %w", name, err)
	}

	return nil
}
