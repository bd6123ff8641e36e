package domain

import (
	"image"
	"image/color"
)

// RGB565Color is a 16 bit colour: 5 bits red, 6 bits green, 5 bits blue.
type RGB565Color uint16

func (c RGB565Color) RGBA() (r, g, b, a uint32) {
	r5 := uint32(c>>11) & 0x1f
	g6 := uint32(c>>5) & 0x3f
	b5 := uint32(c) & 0x1f
	r = (r5<<3 | r5>>2) * 0x101
	g = (g6<<2 | g6>>4) * 0x101
	b = (b5<<3 | b5>>2) * 0x101
	return r, g, b, 0xffff
}

var RGB565Model = color.ModelFunc(rgb565Model)

func rgb565Model(c color.Color) color.Color {
	if c, ok := c.(RGB565Color); ok {
		return c
	}
	r, g, b, _ := c.RGBA()
	return RGB565Color((r>>11)<<11 | (g>>10)<<5 | b>>11)
}

// RGB565 is an in-memory image of RGB565Color values, two bytes per pixel, little endian.
type RGB565 struct {
	Pix    []uint8
	Stride int
	Rect   image.Rectangle
}

func NewRGB565(r image.Rectangle) *RGB565 {
	return &RGB565{
		Pix:    make([]uint8, 2*r.Dx()*r.Dy()),
		Stride: 2 * r.Dx(),
		Rect:   r,
	}
}

func (p *RGB565) ColorModel() color.Model { return RGB565Model }

func (p *RGB565) Bounds() image.Rectangle { return p.Rect }

func (p *RGB565) At(x, y int) color.Color {
	return p.RGB565At(x, y)
}

func (p *RGB565) RGB565At(x, y int) RGB565Color {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return 0
	}
	i := p.PixOffset(x, y)
	return RGB565Color(uint16(p.Pix[i]) | uint16(p.Pix[i+1])<<8)
}

func (p *RGB565) Set(x, y int, c color.Color) {
	if !(image.Point{X: x, Y: y}.In(p.Rect)) {
		return
	}
	v := rgb565Model(c).(RGB565Color)
	i := p.PixOffset(x, y)
	p.Pix[i] = uint8(v)
	p.Pix[i+1] = uint8(v >> 8)
}

func (p *RGB565) PixOffset(x, y int) int {
	return (y-p.Rect.Min.Y)*p.Stride + (x-p.Rect.Min.X)*2
}

// Opaque is always true: the format carries no alpha.
func (p *RGB565) Opaque() bool { return true }
