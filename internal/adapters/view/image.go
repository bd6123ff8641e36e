package view

import (
	"image"
	"image/color"
	"image/draw"

	"simpleio/internal/core/domain"
)

// ImageView is a view that shows a single image on an optional background,
// surrounded by padding.
type ImageView struct {
	Content    image.Image
	Background color.Color
	Padding    int
	EditMode   bool

	measuredW, measuredH int
	bounds               image.Rectangle
	focused, pressed     bool
}

func NewImageView(content image.Image) *ImageView {
	return &ImageView{Content: content, focused: true}
}

func (v *ImageView) ClearFocus() { v.focused = false }
func (v *ImageView) Focused() bool { return v.focused }
func (v *ImageView) SetPressed(pressed bool) { v.pressed = pressed }
func (v *ImageView) Pressed() bool { return v.pressed }
func (v *ImageView) InEditMode() bool { return v.EditMode }

func (v *ImageView) contentSize() (int, int) {
	w, h := 2*v.Padding, 2*v.Padding
	if v.Content != nil {
		w += v.Content.Bounds().Dx()
		h += v.Content.Bounds().Dy()
	}
	return w, h
}

// Measure takes exact sizes as they are and resolves domain.WrapContent to the padded content size.
func (v *ImageView) Measure(widthSpec, heightSpec int) {
	cw, ch := v.contentSize()
	v.measuredW = resolve(widthSpec, cw)
	v.measuredH = resolve(heightSpec, ch)
}

func resolve(want, content int) int {
	if want == domain.WrapContent || want < 0 {
		return content
	}
	return want
}

func (v *ImageView) MeasuredWidth() int { return v.measuredW }
func (v *ImageView) MeasuredHeight() int { return v.measuredH }

func (v *ImageView) Layout(left, top, right, bottom int) {
	v.bounds = image.Rect(left, top, right, bottom)
}

func (v *ImageView) Width() int { return v.bounds.Dx() }
func (v *ImageView) Height() int { return v.bounds.Dy() }

// Draw paints the view in its own coordinates, with the top left corner at dst's origin.
func (v *ImageView) Draw(dst draw.Image) {
	origin := dst.Bounds().Min
	area := image.Rectangle{Min: origin, Max: origin.Add(v.bounds.Size())}

	if v.Background != nil {
		draw.Draw(dst, area, image.NewUniform(v.Background), image.Point{}, draw.Src)
	}

	if v.Content == nil {
		return
	}

	inner := area.Inset(v.Padding)
	draw.Draw(dst, inner, v.Content, v.Content.Bounds().Min, draw.Over)
}
