package port

import (
	"image"
	"io"

	"simpleio/internal/core/domain"
)

type ImageCodec interface {
	// Decode reads an encoded image and returns it as a bitmap in the requested pixel format.
	Decode(r io.Reader, format domain.PixelFormat) (*domain.Bitmap, error)
	// Encode writes img to w in the encoding implied by the file extension ext, e.g. ".png" or ".jpg".
	// quality is only used by lossy encodings.
	Encode(w io.Writer, img image.Image, ext string, quality int) error
}
