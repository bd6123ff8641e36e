package domain

import (
	"image"
	"image/color"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBitmapFrom(t *testing.T) {
	src := image.NewRGBA(image.Rect(10, 10, 14, 13))
	src.Set(10, 10, color.RGBA{R: 0xff, A: 0xff})

	tests := []struct {
		name   string
		format PixelFormat
	}{
		{name: "reduced colour", format: FormatRGB565},
		{name: "full colour", format: FormatARGB8888},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			bm := BitmapFrom(src, tc.format)
			require.False(t, bm.Empty())
			assert.Equal(t, tc.format, bm.Format)
			assert.Equal(t, 4, bm.Width())
			assert.Equal(t, 3, bm.Height())
			assert.Equal(t, image.Point{}, bm.Image.Bounds().Min)

			r, _, _, _ := bm.Image.At(0, 0).RGBA()
			assert.Equal(t, uint32(0xffff), r)
		})
	}
}

func TestBitmap_CloneIsIndependent(t *testing.T) {
	bm := NewBitmap(2, 2, FormatARGB8888)
	clone := bm.Clone()
	clone.Image.Set(0, 0, color.White)

	assert.Equal(t, color.RGBA{}, bm.Image.At(0, 0))
	assert.Equal(t, 2, clone.Width())
}

func TestBitmap_Empty(t *testing.T) {
	var nilBitmap *Bitmap
	assert.True(t, nilBitmap.Empty())
	assert.True(t, (&Bitmap{}).Empty())
	assert.True(t, NewBitmap(0, 5, FormatRGB565).Empty())
	assert.False(t, NewBitmap(1, 1, FormatRGB565).Empty())
}

func TestPlaceholder(t *testing.T) {
	bm := Placeholder()
	assert.Equal(t, 32, bm.Width())
	assert.Equal(t, 32, bm.Height())
	assert.Equal(t, FormatARGB8888, bm.Format)
	assert.NotEqual(t, bm.Image.At(0, 0), bm.Image.At(8, 0))
}

func TestAccessMode_Perm(t *testing.T) {
	assert.Equal(t, os.FileMode(0o600), ModePrivate.Perm())
	assert.Equal(t, os.FileMode(0o644), ModeWorldReadable.Perm())
	assert.Equal(t, os.FileMode(0o666), ModeWorldWritable.Perm())
}

func TestPixelFormat_String(t *testing.T) {
	assert.Equal(t, "RGB_565", FormatRGB565.String())
	assert.Equal(t, "ARGB_8888", FormatARGB8888.String())
	assert.Equal(t, "unknown", PixelFormat(0).String())
}
