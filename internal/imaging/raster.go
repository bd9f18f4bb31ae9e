package imaging

import (
	"errors"
	"image"
)

// ErrReleased is returned when a Raster is used after it has been released
// or consumed by a transform.
var ErrReleased = errors.New("raster has been released")

// Raster is a decoded image owned by exactly one holder.
//
// Transforms in this package take ownership of the Raster they are given:
// when a transform produces a new image, the input is released and must not
// be used again. A transform that leaves the image untouched (for example a
// rotation by 0 degrees) hands the same Raster back to the caller.
//
// A Raster is not safe for concurrent use.
type Raster struct {
	img image.Image
}

// NewRaster wraps img. A nil img yields an already released Raster.
func NewRaster(img image.Image) *Raster {
	return &Raster{img: img}
}

// Image returns the underlying image, or nil if the Raster was released.
func (r *Raster) Image() image.Image {
	if r == nil {
		return nil
	}
	return r.img
}

// Bounds returns the image bounds, or the zero rectangle once released.
func (r *Raster) Bounds() image.Rectangle {
	if r.Released() {
		return image.Rectangle{}
	}
	return r.img.Bounds()
}

// Width returns the raster width in pixels.
func (r *Raster) Width() int { return r.Bounds().Dx() }

// Height returns the raster height in pixels.
func (r *Raster) Height() int { return r.Bounds().Dy() }

// Released reports whether the Raster no longer holds an image.
func (r *Raster) Released() bool {
	return r == nil || r.img == nil
}

// Release drops the image so it can be garbage collected. Calling Release
// more than once is harmless.
func (r *Raster) Release() {
	if r != nil {
		r.img = nil
	}
}

// take transfers the image out of r, leaving r released.
func (r *Raster) take() (image.Image, error) {
	if r.Released() {
		return nil, ErrReleased
	}
	img := r.img
	r.img = nil
	return img, nil
}

// peek returns the image without transferring ownership.
func (r *Raster) peek() (image.Image, error) {
	if r.Released() {
		return nil, ErrReleased
	}
	return r.img, nil
}
