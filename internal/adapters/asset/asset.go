package asset

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"strings"

	"simpleio/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// Bundle is a read-only file tree shipped with the application, such as the
// assets folder or a classpath directory.
type Bundle struct {
	name string
	fsys fs.FS
}

func NewBundle(name string, fsys fs.FS) *Bundle {
	return &Bundle{name: name, fsys: fsys}
}

// Open accepts paths with or without a leading slash.
func (b *Bundle) Open(path string) (io.ReadCloser, error) {
	p := strings.TrimPrefix(path, "/")
	if !fs.ValidPath(p) || p == "." {
		return nil, fmt.Errorf("%w: invalid %s path %q", domain.ErrUnsupported, b.name, path)
	}

	f, err := b.fsys.Open(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s %q: %w", domain.ErrNotFound, b.name, path, err)
		}
		return nil, fmt.Errorf("%w: %s %q: %w", domain.ErrIO, b.name, path, err)
	}

	log.Debug().Str("bundle", b.name).Str("path", p).Msg("opened bundled file")
	return f, nil
}

// ReadString returns the content of a bundled text file.
func (b *Bundle) ReadString(path string) (string, error) {
	rc, err := b.Open(path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	buf, err := io.ReadAll(rc)
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrIO, err)
	}
	return string(buf), nil
}
