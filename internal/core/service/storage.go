package service

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"simpleio/internal/core/domain"
	"simpleio/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Storage bundles the plain file and serialization helpers.
type Storage struct {
	files   port.FileSystem
	objects port.ObjectStore
}

func NewStorage(files port.FileSystem, objects port.ObjectStore) *Storage {
	return &Storage{files: files, objects: objects}
}

// ExternalDir returns the root directory of shared storage.
func (s *Storage) ExternalDir() string {
	return s.files.Root()
}

func (s *Storage) SaveString(path, text string) error {
	if path == "" {
		return fmt.Errorf("%w: empty file path", domain.ErrMissingInput)
	}

	if err := s.files.WriteFile(path, []byte(text)); err != nil {
		log.Error().Err(err).Str("path", path).Msg("could not save string")
		return err
	}
	return nil
}

// SaveSerializable stores v in the private file name.
func (s *Storage) SaveSerializable(name string, v any) error {
	if err := s.objects.Save(name, v); err != nil {
		log.Error().Err(err).Str("name", name).Msg("could not save object")
		return err
	}
	return nil
}

// LoadSerializable reads the private file name into v, which must be a pointer.
func (s *Storage) LoadSerializable(name string, v any) error {
	if err := s.objects.Load(name, v); err != nil {
		log.Error().Err(err).Str("name", name).Msg("could not load object")
		return err
	}
	return nil
}

// Rename gives the file at oldPath the name newName, keeping it in the same directory.
func (s *Storage) Rename(oldPath, newName string) error {
	if oldPath == "" || newName == "" {
		return fmt.Errorf("%w: empty path or name", domain.ErrMissingInput)
	}

	if strings.ContainsAny(newName, `/\`) {
		return fmt.Errorf("%w: new name %q is not a plain file name", domain.ErrUnsupported, newName)
	}

	if !s.files.Exists(oldPath) {
		return fmt.Errorf("%w: %s", domain.ErrNotFound, oldPath)
	}

	dest := filepath.Join(filepath.Dir(oldPath), newName)
	if err := s.files.Rename(oldPath, dest); err != nil {
		log.Error().Err(err).Str("path", oldPath).Str("dest", dest).Msg("could not rename file")
		return err
	}
	return nil
}

// StreamToString reads r line by line, terminating every line with "\n", and closes r if it is a Closer.
func StreamToString(r io.Reader) (string, error) {
	if r == nil {
		return "", fmt.Errorf("%w: nil stream", domain.ErrMissingInput)
	}
	if c, ok := r.(io.Closer); ok {
		defer c.Close()
	}

	var sb strings.Builder
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if len(line) > 0 {
			sb.WriteString(strings.TrimRight(line, "\r\n"))
			sb.WriteByte('\n')
		}
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return "", fmt.Errorf("%w: %w", domain.ErrIO, err)
		}
	}

	return sb.String(), nil
}

// AssetURI returns the URI of a file in the asset bundle, e.g. "folderX/fileY.txt".
func AssetURI(relativePath string) string {
	if !strings.HasPrefix(relativePath, "/") {
		relativePath = "/" + relativePath
	}
	return domain.AndroidAssetPrefix + relativePath
}
