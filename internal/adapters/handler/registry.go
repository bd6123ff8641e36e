package handler

import (
	"context"
	"fmt"
	"sort"

	"simpleio/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// Source resolves a reference of one kind, e.g. a file path or a URL.
type Source func(ctx context.Context, ref string) (*domain.Bitmap, error)

// Registry maps reference kinds to the source that resolves them.
type Registry struct {
	sources map[string]Source
}

func (r *Registry) Register(kind string, source Source) {
	if r.sources == nil {
		r.sources = make(map[string]Source)
	}

	log.Debug().Str("kind", kind).Msg("adding image source to registry")
	r.sources[kind] = source
}

func (r *Registry) Get(kind string) (Source, error) {
	if r.sources == nil {
		return nil, fmt.Errorf("%w: registry not initialized", domain.ErrUnsupported)
	}

	source, ok := r.sources[kind]
	if !ok {
		return nil, fmt.Errorf("%w: kind %q", domain.ErrUnsupported, kind)
	}

	return source, nil
}

// ListKinds returns the registered kinds in alphabetical order.
func (r *Registry) ListKinds() []string {
	keys := make([]string, 0, len(r.sources))
	for k := range r.sources {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
