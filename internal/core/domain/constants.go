package domain

import "errors"

var (
	ErrMissingInput  = errors.New("missing input")
	ErrNotFound      = errors.New("not found")
	ErrDecode        = errors.New("could not decode image")
	ErrIO            = errors.New("i/o failure")
	ErrEmptyResponse = errors.New("empty response body")
	ErrEmptyView     = errors.New("view has no size")
	ErrUnsupported   = errors.New("unsupported reference")
)

// AndroidAssetPrefix is the URI prefix under which bundled assets are addressed.
const AndroidAssetPrefix = "file:///android_asset"

// WrapContent asks a view to measure itself to the size of its content.
const WrapContent = -2
