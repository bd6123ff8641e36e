package domain

import (
	"image"
	"image/color"
	"image/draw"
	"io"
	"os"
)

type PixelFormat int

const (
	// FormatRGB565 is the reduced colour format: 16 bits per pixel, no alpha.
	FormatRGB565 PixelFormat = iota + 1
	// FormatARGB8888 is full colour with an alpha channel.
	FormatARGB8888
)

func (f PixelFormat) String() string {
	switch f {
	case FormatRGB565:
		return "RGB_565"
	case FormatARGB8888:
		return "ARGB_8888"
	default:
		return "unknown"
	}
}

// Bitmap is a decoded in-memory raster image. Once returned it belongs to the caller.
type Bitmap struct {
	Image  draw.Image
	Format PixelFormat
}

// NewBitmap allocates an empty bitmap of the given size and format.
func NewBitmap(width, height int, format PixelFormat) *Bitmap {
	rect := image.Rect(0, 0, width, height)
	if format == FormatRGB565 {
		return &Bitmap{Image: NewRGB565(rect), Format: FormatRGB565}
	}
	return &Bitmap{Image: image.NewRGBA(rect), Format: FormatARGB8888}
}

// BitmapFrom copies src into a new bitmap of the requested format.
func BitmapFrom(src image.Image, format PixelFormat) *Bitmap {
	b := src.Bounds()
	bm := NewBitmap(b.Dx(), b.Dy(), format)
	draw.Draw(bm.Image, bm.Image.Bounds(), src, b.Min, draw.Src)
	return bm
}

func (b *Bitmap) Width() int {
	return b.Image.Bounds().Dx()
}

func (b *Bitmap) Height() int {
	return b.Image.Bounds().Dy()
}

// Empty reports whether the bitmap holds no pixels.
func (b *Bitmap) Empty() bool {
	return b == nil || b.Image == nil || b.Image.Bounds().Empty()
}

func (b *Bitmap) Clone() *Bitmap {
	return BitmapFrom(b.Image, b.Format)
}

// Placeholder returns the bitmap shown in place of resources that can't be loaded in edit mode.
func Placeholder() *Bitmap {
	const size, cell = 32, 8
	bm := NewBitmap(size, size, FormatARGB8888)
	magenta := color.RGBA{R: 0xff, B: 0xff, A: 0xff}
	black := color.RGBA{A: 0xff}
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			if (x/cell+y/cell)%2 == 0 {
				bm.Image.Set(x, y, magenta)
			} else {
				bm.Image.Set(x, y, black)
			}
		}
	}
	return bm
}

type AccessMode int

const (
	ModePrivate AccessMode = iota
	ModeWorldReadable
	ModeWorldWritable
)

// Perm returns the file permissions used for stores opened with this mode.
func (m AccessMode) Perm() os.FileMode {
	switch m {
	case ModeWorldReadable:
		return 0o644
	case ModeWorldWritable:
		return 0o666
	default:
		return 0o600
	}
}

// Response is an open network connection as seen by the raw fetch path.
type Response struct {
	// ContentLength is the declared length, -1 when unknown.
	ContentLength int64
	ContentType   string
	Body          io.ReadCloser
}
