package port

import "image/draw"

// View is a UI component that can measure, lay out and draw itself.
type View interface {
	ClearFocus()
	SetPressed(pressed bool)
	InEditMode() bool

	// Measure computes the measured size; each argument is either an exact size or domain.WrapContent.
	Measure(widthSpec, heightSpec int)
	MeasuredWidth() int
	MeasuredHeight() int

	Layout(left, top, right, bottom int)
	Width() int
	Height() int

	Draw(dst draw.Image)
}
