package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"io"
	"net/url"
	"path/filepath"
	"strings"

	"simpleio/internal/core/domain"
	"simpleio/internal/core/port"

	"github.com/rs/zerolog/log"
)

// Resolver loads bitmaps from the different places an image reference can point to.
// Every method either returns a usable bitmap or an error; failures are logged.
type Resolver struct {
	codec     port.ImageCodec
	files     port.FileSystem
	fetcher   port.Fetcher
	resources port.ResourceProvider
	assets    port.AssetProvider
	classpath port.AssetProvider
	loader    port.CachingLoader
}

type ResolverOption func(r *Resolver)

func WithResources(p port.ResourceProvider) ResolverOption {
	return func(r *Resolver) { r.resources = p }
}

func WithAssets(p port.AssetProvider) ResolverOption {
	return func(r *Resolver) { r.assets = p }
}

func WithClasspath(p port.AssetProvider) ResolverOption {
	return func(r *Resolver) { r.classpath = p }
}

// WithCachingLoader enables the cached path for remote images.
func WithCachingLoader(l port.CachingLoader) ResolverOption {
	return func(r *Resolver) { r.loader = l }
}

func NewResolver(codec port.ImageCodec, files port.FileSystem, fetcher port.Fetcher, opts ...ResolverOption) *Resolver {
	r := &Resolver{codec: codec, files: files, fetcher: fetcher}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// FromResource decodes an embedded resource in the reduced colour format.
func (r *Resolver) FromResource(id int) (*domain.Bitmap, error) {
	l := log.With().Int("resourceId", id).Logger()

	if r.resources == nil {
		err := fmt.Errorf("%w: no resource provider", domain.ErrMissingInput)
		l.Error().Err(err).Send()
		return nil, err
	}

	rc, err := r.resources.OpenResource(id)
	if err != nil {
		l.Error().Err(err).Msg("could not open resource")
		return nil, err
	}
	defer rc.Close()

	bm, err := r.decode(rc, domain.FormatRGB565)
	if err != nil {
		l.Error().Err(err).Msg("bitmap loading failed")
		return nil, err
	}

	l.Info().Int("width", bm.Width()).Int("height", bm.Height()).Msg("image loaded")
	return bm, nil
}

// FromResourceOrPlaceholder returns a placeholder while the view is being edited
// or when no resource is set, and the decoded resource otherwise.
func (r *Resolver) FromResourceOrPlaceholder(v port.View, id int) (*domain.Bitmap, error) {
	if v == nil {
		err := fmt.Errorf("%w: view was nil", domain.ErrMissingInput)
		log.Error().Err(err).Int("resourceId", id).Send()
		return nil, err
	}

	if v.InEditMode() || id == 0 {
		return domain.Placeholder(), nil
	}

	return r.FromResource(id)
}

// FromFile decodes any supported image at path, e.g. "/sdcard/abc.png".
func (r *Resolver) FromFile(path string) (*domain.Bitmap, error) {
	l := log.With().Str("path", path).Logger()

	if path == "" {
		err := fmt.Errorf("%w: empty file path", domain.ErrMissingInput)
		l.Error().Err(err).Send()
		return nil, err
	}

	if !r.files.Exists(path) {
		err := fmt.Errorf("%w: %s", domain.ErrNotFound, path)
		l.Error().Err(err).Send()
		return nil, err
	}

	f, err := r.files.Open(path)
	if err != nil {
		l.Error().Err(err).Msg("could not open image file")
		return nil, err
	}
	defer f.Close()

	bm, err := r.decode(f, domain.FormatRGB565)
	if err != nil {
		l.Error().Err(err).Msg("could not decode image file")
		return nil, err
	}

	return bm, nil
}

// FromURI resolves file URIs and bundled asset URIs as returned by AssetURI.
func (r *Resolver) FromURI(uri string) (*domain.Bitmap, error) {
	if uri == "" {
		err := fmt.Errorf("%w: empty uri", domain.ErrMissingInput)
		log.Error().Err(err).Send()
		return nil, err
	}

	if rel, ok := strings.CutPrefix(uri, domain.AndroidAssetPrefix+"/"); ok {
		return r.FromAsset(rel)
	}

	u, err := url.Parse(uri)
	if err != nil {
		err = fmt.Errorf("%w: %w", domain.ErrUnsupported, err)
		log.Error().Err(err).Str("uri", uri).Send()
		return nil, err
	}

	if u.Scheme != "" && u.Scheme != "file" {
		err = fmt.Errorf("%w: scheme %q", domain.ErrUnsupported, u.Scheme)
		log.Error().Err(err).Str("uri", uri).Send()
		return nil, err
	}

	path := u.Path
	if path == "" {
		// file:pics/a.png
		path = u.Opaque
	}
	return r.FromFile(path)
}

// FromAsset decodes a file bundled with the application, e.g. "icons/star.png".
func (r *Resolver) FromAsset(path string) (*domain.Bitmap, error) {
	l := log.With().Str("path", path).Logger()

	if path == "" || r.assets == nil {
		err := fmt.Errorf("%w: no asset path or asset bundle", domain.ErrMissingInput)
		l.Error().Err(err).Send()
		return nil, err
	}

	l.Debug().Msg("trying to load from assets folder")

	rc, err := r.assets.Open(path)
	if err != nil {
		l.Error().Err(err).Msg("could not load from assets folder")
		return nil, err
	}
	defer rc.Close()

	bm, err := r.decode(rc, domain.FormatRGB565)
	if err != nil {
		l.Error().Err(err).Msg("could not load from assets folder")
		return nil, err
	}

	return bm, nil
}

// FromClasspath decodes a file from the classpath bundle and falls back to the
// asset bundle when that fails.
func (r *Resolver) FromClasspath(path string) (*domain.Bitmap, error) {
	bm, err := r.fromClasspath(path)
	if err == nil {
		return bm, nil
	}

	log.Error().Err(err).Str("path", path).Msg("can't load bitmap from classpath, trying assets")
	return r.FromAsset(path)
}

func (r *Resolver) fromClasspath(path string) (*domain.Bitmap, error) {
	if path == "" || r.classpath == nil {
		return nil, fmt.Errorf("%w: no classpath path or bundle", domain.ErrMissingInput)
	}

	rc, err := r.classpath.Open(path)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	return r.decode(rc, domain.FormatARGB8888)
}

// FromURL loads a remote image through the caching loader if one is set and
// through a plain network fetch otherwise or when the cached path fails.
// Network fetches decode as domain.FormatRGB565.
// It blocks until the transfer completes or ctx is done.
func (r *Resolver) FromURL(ctx context.Context, rawURL string) (*domain.Bitmap, error) {
	l := log.With().Str("url", rawURL).Logger()

	if rawURL == "" {
		err := fmt.Errorf("%w: empty url", domain.ErrMissingInput)
		l.Error().Err(err).Send()
		return nil, err
	}

	if r.loader != nil {
		bm, err := r.loader.Load(ctx, rawURL)
		if err == nil && !bm.Empty() {
			return bm, nil
		}
		l.Warn().Err(err).Msg("caching loader failed, fetching directly")
	} else {
		l.Warn().Msg("no caching loader configured, fetching directly")
	}

	bm, err := r.fetch(ctx, rawURL)
	if err != nil {
		l.Error().Err(err).Msg("error while loading an image from an url")
		return nil, err
	}

	return bm, nil
}

func (r *Resolver) fetch(ctx context.Context, rawURL string) (*domain.Bitmap, error) {
	res, err := r.fetcher.Open(ctx, rawURL)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.ContentLength <= 0 {
		return nil, fmt.Errorf("%w: content length %d", domain.ErrEmptyResponse, res.ContentLength)
	}

	return r.decode(res.Body, domain.FormatRGB565)
}

// FromView renders v into a full colour bitmap. A view that was never measured
// is measured to its content size and laid out first.
func (r *Resolver) FromView(v port.View) (*domain.Bitmap, error) {
	if v == nil {
		err := fmt.Errorf("%w: view was nil", domain.ErrMissingInput)
		log.Error().Err(err).Send()
		return nil, err
	}

	v.ClearFocus()
	v.SetPressed(false)

	if v.MeasuredHeight() <= 0 {
		v.Measure(domain.WrapContent, domain.WrapContent)
		v.Layout(0, 0, v.MeasuredWidth(), v.MeasuredHeight())
	}

	w, h := v.Width(), v.Height()
	if w <= 0 || h <= 0 {
		err := fmt.Errorf("%w: %dx%d", domain.ErrEmptyView, w, h)
		log.Error().Err(err).Send()
		return nil, err
	}

	bm := domain.NewBitmap(w, h, domain.FormatARGB8888)
	v.Draw(bm.Image)

	return bm, nil
}

// SaveImage encodes bm by the extension of path and writes it. quality applies to JPEG only.
func (r *Resolver) SaveImage(path string, bm *domain.Bitmap, quality int) error {
	l := log.With().Str("path", path).Logger()

	if bm.Empty() {
		err := fmt.Errorf("%w: bitmap was nil", domain.ErrMissingInput)
		l.Error().Err(err).Send()
		return err
	}

	if path == "" {
		err := fmt.Errorf("%w: empty file path", domain.ErrMissingInput)
		l.Error().Err(err).Send()
		return err
	}

	var buf bytes.Buffer
	if err := r.codec.Encode(&buf, bm.Image, filepath.Ext(path), quality); err != nil {
		l.Error().Err(err).Msg("could not encode image")
		return err
	}

	if err := r.files.WriteFile(path, buf.Bytes()); err != nil {
		l.Error().Err(err).Msg("could not save image")
		return err
	}

	l.Debug().Int("bytes", buf.Len()).Msg("image saved")
	return nil
}

func (r *Resolver) decode(rd io.Reader, format domain.PixelFormat) (*domain.Bitmap, error) {
	bm, err := r.codec.Decode(rd, format)
	if err != nil {
		if errors.Is(err, domain.ErrDecode) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}

	if bm.Empty() {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, image.ErrFormat)
	}

	return bm, nil
}
