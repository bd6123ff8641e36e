package resource

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"sync"

	"simpleio/internal/core/domain"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cast"
)

// Registry maps integer resource identifiers to files in an embedded tree.
type Registry struct {
	fsys fs.FS

	mu  sync.RWMutex
	ids map[int]string
}

func NewRegistry(fsys fs.FS) *Registry {
	return &Registry{fsys: fsys, ids: make(map[int]string)}
}

func (r *Registry) Register(id int, path string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	log.Debug().Int("resourceId", id).Str("path", path).Msg("registering resource")
	r.ids[id] = path
}

// RegisterAll adds entries from a configuration map whose keys are numeric ids,
// as read from a config file. Keys that are not numbers are rejected.
func (r *Registry) RegisterAll(entries map[string]string) error {
	for k, path := range entries {
		id, err := cast.ToIntE(k)
		if err != nil {
			return fmt.Errorf("invalid resource id %q: %w", k, err)
		}
		r.Register(id, path)
	}
	return nil
}

func (r *Registry) OpenResource(id int) (io.ReadCloser, error) {
	r.mu.RLock()
	path, ok := r.ids[id]
	r.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: resource id %d", domain.ErrNotFound, id)
	}

	f, err := r.fsys.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("%w: resource %d at %q", domain.ErrNotFound, id, path)
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrIO, err)
	}

	return f, nil
}
