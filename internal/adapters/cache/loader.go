package cache

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"simpleio/internal/core/domain"
	"simpleio/internal/core/port"

	"github.com/maypok86/otter"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/singleflight"
)

const (
	DefaultCapacity = 256
	DefaultTTL      = time.Hour
)

// Loader downloads and decodes remote images and keeps the decoded bitmaps in memory.
// Concurrent loads of the same URL share a single download.
type Loader struct {
	fetcher   port.Fetcher
	codec     port.ImageCodec
	cache     otter.Cache[string, *domain.Bitmap]
	loadGroup singleflight.Group
}

// NewLoader builds a Loader holding up to capacity bitmaps for ttl each.
func NewLoader(fetcher port.Fetcher, codec port.ImageCodec, capacity int, ttl time.Duration) (*Loader, error) {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}

	c, err := otter.MustBuilder[string, *domain.Bitmap](capacity).
		WithTTL(ttl).
		Build()
	if err != nil {
		return nil, fmt.Errorf("error building image cache: %w", err)
	}

	return &Loader{fetcher: fetcher, codec: codec, cache: c}, nil
}

// Load returns a copy of the bitmap at url, downloading it on a cache miss.
// Bitmaps are decoded as domain.FormatRGB565, like an uncached network fetch.
// A shared download is detached from any one caller, so a caller whose ctx ends
// stops waiting without failing the others.
func (l *Loader) Load(ctx context.Context, url string) (*domain.Bitmap, error) {
	if bm, ok := l.cache.Get(url); ok {
		log.Debug().Str("url", url).Msg("image cache hit")
		return bm.Clone(), nil
	}

	download := context.WithoutCancel(ctx)
	ch := l.loadGroup.DoChan(url, func() (interface{}, error) {
		data, err := l.fetcher.Download(download, url)
		if err != nil {
			return nil, err
		}

		bm, err := l.codec.Decode(bytes.NewReader(data), domain.FormatRGB565)
		if err != nil {
			return nil, err
		}

		l.cache.Set(url, bm)
		return bm, nil
	})

	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("%w: %w", domain.ErrIO, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		log.Debug().Str("url", url).Bool("shared", res.Shared).Msg("image cache miss")
		return res.Val.(*domain.Bitmap).Clone(), nil
	}
}

// Close stops the cache's background maintenance.
func (l *Loader) Close() {
	l.cache.Close()
}
