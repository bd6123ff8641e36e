package codec

import (
	"fmt"
	"image"
	"image/gif"
	"image/jpeg"
	"image/png"
	"io"
	"strings"

	"simpleio/internal/core/domain"

	"github.com/rs/zerolog/log"
	"golang.org/x/image/bmp"
	"golang.org/x/image/tiff"

	// Register WebP decoding via x/image/webp.
	_ "golang.org/x/image/webp"
)

// DefaultQuality is used for lossy encodings when the caller passes a quality outside 1..100.
const DefaultQuality = 90

// Codec decodes the image formats registered with the image package and
// encodes PNG, JPEG, GIF, BMP and TIFF.
type Codec struct{}

func New() *Codec {
	return &Codec{}
}

func (c *Codec) Decode(r io.Reader, format domain.PixelFormat) (*domain.Bitmap, error) {
	img, name, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrDecode, err)
	}

	if img.Bounds().Empty() {
		return nil, fmt.Errorf("%w: %s image has no pixels", domain.ErrDecode, name)
	}

	log.Debug().
		Str("encoding", name).
		Stringer("format", format).
		Int("width", img.Bounds().Dx()).
		Int("height", img.Bounds().Dy()).
		Msg("decoded image")

	return domain.BitmapFrom(img, format), nil
}

func (c *Codec) Encode(w io.Writer, img image.Image, ext string, quality int) error {
	if quality < 1 || quality > 100 {
		quality = DefaultQuality
	}

	var err error
	switch strings.ToLower(ext) {
	case ".jpg", ".jpeg":
		err = jpeg.Encode(w, img, &jpeg.Options{Quality: quality})
	case ".gif":
		err = gif.Encode(w, img, nil)
	case ".bmp":
		err = bmp.Encode(w, img)
	case ".tif", ".tiff":
		err = tiff.Encode(w, img, &tiff.Options{Compression: tiff.Deflate})
	default:
		err = png.Encode(w, img)
	}
	if err != nil {
		return fmt.Errorf("error encoding image as %q: %w", ext, err)
	}

	return nil
}
