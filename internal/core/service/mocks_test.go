package service

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"io"
	"testing"

	"simpleio/internal/core/domain"
	"simpleio/internal/core/port"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{R: 0xff, G: 0x80, A: 0xff})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

type fakeFS struct {
	files    map[string][]byte
	writeErr error
}

func newFakeFS() *fakeFS {
	return &fakeFS{files: make(map[string][]byte)}
}

func (f *fakeFS) Open(path string) (io.ReadCloser, error) {
	data, ok := f.files[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

func (f *fakeFS) Exists(path string) bool {
	_, ok := f.files[path]
	return ok
}

func (f *fakeFS) WriteFile(path string, data []byte) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.files[path] = data
	return nil
}

func (f *fakeFS) Rename(oldPath, newPath string) error {
	data, ok := f.files[oldPath]
	if !ok {
		return domain.ErrNotFound
	}
	delete(f.files, oldPath)
	f.files[newPath] = data
	return nil
}

func (f *fakeFS) Root() string { return "/sdcard" }

type fakeBundle map[string][]byte

func (b fakeBundle) Open(path string) (io.ReadCloser, error) {
	data, ok := b[path]
	if !ok {
		return nil, fmt.Errorf("%w: %s", domain.ErrNotFound, path)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type fakeResources map[int][]byte

func (r fakeResources) OpenResource(id int) (io.ReadCloser, error) {
	data, ok := r[id]
	if !ok {
		return nil, fmt.Errorf("%w: resource %d", domain.ErrNotFound, id)
	}
	return io.NopCloser(bytes.NewReader(data)), nil
}

type MockFetcher struct{ mock.Mock }

func (m *MockFetcher) Open(ctx context.Context, url string) (*domain.Response, error) {
	args := m.Called(ctx, url)
	res, _ := args.Get(0).(*domain.Response)
	return res, args.Error(1)
}

func (m *MockFetcher) Download(ctx context.Context, url string) ([]byte, error) {
	args := m.Called(ctx, url)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

type MockLoader struct{ mock.Mock }

func (m *MockLoader) Load(ctx context.Context, url string) (*domain.Bitmap, error) {
	args := m.Called(ctx, url)
	bm, _ := args.Get(0).(*domain.Bitmap)
	return bm, args.Error(1)
}

// trackingBody records whether it was read from or closed.
type trackingBody struct {
	r      io.Reader
	read   bool
	closed bool
}

func (b *trackingBody) Read(p []byte) (int, error) {
	b.read = true
	return b.r.Read(p)
}

func (b *trackingBody) Close() error {
	b.closed = true
	return nil
}

// fakeView grows to contentW x contentH when measured with WrapContent.
type fakeView struct {
	contentW, contentH   int
	measuredW, measuredH int
	width, height        int
	editMode             bool

	focusCleared bool
	pressed      bool
	measureCalls int
	layoutCalls  int
	drawnOn      image.Rectangle
}

var _ port.View = (*fakeView)(nil)

func (v *fakeView) ClearFocus() { v.focusCleared = true }
func (v *fakeView) SetPressed(p bool) { v.pressed = p }
func (v *fakeView) InEditMode() bool { return v.editMode }
func (v *fakeView) MeasuredWidth() int { return v.measuredW }
func (v *fakeView) MeasuredHeight() int {
	return v.measuredH
}
func (v *fakeView) Width() int { return v.width }
func (v *fakeView) Height() int { return v.height }

func (v *fakeView) Measure(wSpec, hSpec int) {
	v.measureCalls++
	if wSpec == domain.WrapContent {
		v.measuredW = v.contentW
	}
	if hSpec == domain.WrapContent {
		v.measuredH = v.contentH
	}
}

func (v *fakeView) Layout(l, t, r, b int) {
	v.layoutCalls++
	v.width, v.height = r-l, b-t
}

func (v *fakeView) Draw(dst draw.Image) {
	v.drawnOn = dst.Bounds()
	draw.Draw(dst, dst.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)
}

type fakePrefs struct {
	values map[string]any
	err    error
}

func (p *fakePrefs) GetString(key, def string) string {
	if v, ok := p.values[key].(string); ok {
		return v
	}
	return def
}

func (p *fakePrefs) GetBool(key string, def bool) bool {
	if v, ok := p.values[key].(bool); ok {
		return v
	}
	return def
}

func (p *fakePrefs) GetInt(key string, def int) int {
	if v, ok := p.values[key].(int); ok {
		return v
	}
	return def
}

func (p *fakePrefs) put(key string, v any) error {
	if p.err != nil {
		return p.err
	}
	p.values[key] = v
	return nil
}

func (p *fakePrefs) PutString(key, value string) error { return p.put(key, value) }
func (p *fakePrefs) PutBool(key string, value bool) error { return p.put(key, value) }
func (p *fakePrefs) PutInt(key string, value int) error { return p.put(key, value) }

type fakePrefStore struct {
	sets    map[string]*fakePrefs
	opens   []domain.AccessMode
	openErr error
	putErr  error
}

func newFakePrefStore() *fakePrefStore {
	return &fakePrefStore{sets: make(map[string]*fakePrefs)}
}

func (s *fakePrefStore) Open(name string, mode domain.AccessMode) (port.Preferences, error) {
	s.opens = append(s.opens, mode)
	if s.openErr != nil {
		return nil, s.openErr
	}
	p, ok := s.sets[name]
	if !ok {
		p = &fakePrefs{values: make(map[string]any), err: s.putErr}
		s.sets[name] = p
	}
	return p, nil
}

type fakeObjects map[string][]byte

func (o fakeObjects) Save(name string, v any) error {
	s, ok := v.(string)
	if !ok {
		return fmt.Errorf("unsupported %T", v)
	}
	o[name] = []byte(s)
	return nil
}

func (o fakeObjects) Load(name string, v any) error {
	data, ok := o[name]
	if !ok {
		return domain.ErrNotFound
	}
	*(v.(*string)) = string(data)
	return nil
}
