package file

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"simpleio/internal/core/domain"

	"github.com/gofrs/uuid/v5"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
)

// FS is a filesystem rooted at a directory. Relative paths are resolved against the root,
// absolute paths are used as they are.
type FS struct {
	fs   afero.Fs
	root string
}

func New(fsys afero.Fs, root string) *FS {
	return &FS{fs: fsys, root: root}
}

func (f *FS) Root() string {
	return f.root
}

func (f *FS) resolve(path string) string {
	if filepath.IsAbs(path) || f.root == "" {
		return path
	}
	return filepath.Join(f.root, path)
}

func (f *FS) Exists(path string) bool {
	ok, err := afero.Exists(f.fs, f.resolve(path))
	if err != nil {
		log.Warn().Err(err).Str("path", path).Msg("could not stat file")
		return false
	}
	return ok
}

func (f *FS) Open(path string) (io.ReadCloser, error) {
	file, err := f.fs.Open(f.resolve(path))
	if err != nil {
		return nil, wrap(err, "error opening file")
	}
	return file, nil
}

// WriteFile writes data to a temporary file next to path and renames it into place.
func (f *FS) WriteFile(path string, data []byte) error {
	target := f.resolve(path)

	if err := f.fs.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		err = wrap(err, "error creating directory")
		log.Error().Err(err).Str("path", path).Send()
		return err
	}

	id, err := uuid.NewV4()
	if err != nil {
		return err
	}

	tmp := filepath.Join(filepath.Dir(target), fmt.Sprintf(".%s.tmp", id.String()))

	log.Debug().Int("bytes", len(data)).Str("path", target).Msg("writing file")

	if err := afero.WriteFile(f.fs, tmp, data, 0o644); err != nil {
		err = wrap(err, "error writing file")
		log.Error().Err(err).Str("path", path).Send()
		return err
	}

	if err := f.fs.Rename(tmp, target); err != nil {
		f.Remove(tmp)
		err = wrap(err, "error moving file into place")
		log.Error().Err(err).Str("path", path).Send()
		return err
	}

	log.Debug().Str("path", target).Msg("wrote file")

	return nil
}

func (f *FS) Rename(oldPath, newPath string) error {
	if err := f.fs.Rename(f.resolve(oldPath), f.resolve(newPath)); err != nil {
		return wrap(err, "error renaming file")
	}
	return nil
}

// Remove deletes the file at path and logs success or failure.
func (f *FS) Remove(path string) {
	err := f.fs.Remove(f.resolve(path))
	if err != nil {
		log.Warn().Str("path", path).Err(err).Msg("could not remove file")
		return
	}
	log.Debug().Str("path", path).Msg("removed file")
}

func wrap(err error, msg string) error {
	if errors.Is(err, fs.ErrNotExist) || errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("%s: %w: %w", msg, domain.ErrNotFound, err)
	}
	return fmt.Errorf("%s: %w: %w", msg, domain.ErrIO, err)
}
