package port

import (
	"context"
	"io"

	"simpleio/internal/core/domain"
)

type ResourceProvider interface {
	// OpenResource returns the raw stream of an embedded resource, or domain.ErrNotFound.
	OpenResource(id int) (io.ReadCloser, error)
}

type AssetProvider interface {
	// Open returns a read stream for a path relative to the bundle root.
	Open(path string) (io.ReadCloser, error)
}

type FileSystem interface {
	Open(path string) (io.ReadCloser, error)
	Exists(path string) bool
	// WriteFile replaces the content at path, creating parent directories as needed.
	WriteFile(path string, data []byte) error
	Rename(oldPath, newPath string) error
	// Root is the directory relative paths are resolved against.
	Root() string
}

type Fetcher interface {
	// Open connects to url and returns the response with its declared content length.
	// The caller closes the body.
	Open(ctx context.Context, url string) (*domain.Response, error)
	// Download returns the whole body of url.
	Download(ctx context.Context, url string) ([]byte, error)
}

type CachingLoader interface {
	// Load returns the decoded image at url, possibly from a cache.
	Load(ctx context.Context, url string) (*domain.Bitmap, error)
}
