package network

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"simpleio/internal/core/domain"

	"github.com/rs/zerolog/log"
)

// Fetcher issues plain GET requests without any caching.
type Fetcher struct {
	client *http.Client
}

// NewFetcher returns a Fetcher whose requests give up after timeout; zero means no timeout.
func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{client: &http.Client{Timeout: timeout}}
}

// Open returns the response of a GET request to url. The caller closes the body.
func (f *Fetcher) Open(ctx context.Context, url string) (*domain.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		err = fmt.Errorf("%w: error creating request %w", domain.ErrIO, err)
		log.Error().Err(err).Str("url", url).Send()
		return nil, err
	}

	res, err := f.client.Do(req)
	if err != nil {
		err = fmt.Errorf("%w: error executing request %w", domain.ErrIO, err)
		log.Error().Err(err).Str("url", url).Send()
		return nil, err
	}

	if res.StatusCode < 200 || res.StatusCode > 299 {
		res.Body.Close()
		err = fmt.Errorf("%w: unexpected status code on download: %d", domain.ErrIO, res.StatusCode)
		log.Error().Err(err).Str("url", url).Send()
		return nil, err
	}

	log.Debug().Str("url", url).Int64("contentLength", res.ContentLength).Msg("connection opened")

	return &domain.Response{
		ContentLength: res.ContentLength,
		ContentType:   res.Header.Get("Content-Type"),
		Body:          res.Body,
	}, nil
}

// Download returns the byte content of a file on a provided URL.
func (f *Fetcher) Download(ctx context.Context, url string) ([]byte, error) {
	res, err := f.Open(ctx, url)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	buf, err := io.ReadAll(res.Body)
	if err != nil {
		err = fmt.Errorf("%w: error reading response %w", domain.ErrIO, err)
		log.Error().Err(err).Str("url", url).Send()
		return nil, err
	}

	return buf, nil
}
