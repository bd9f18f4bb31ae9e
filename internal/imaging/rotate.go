package imaging

import (
	"image"

	"github.com/anthonynsimon/bild/transform"
	"github.com/disintegration/imaging"
)

// NormalizeDegrees folds any angle into [0, 360).
func NormalizeDegrees(degrees int) int {
	d := degrees % 360
	if d < 0 {
		d += 360
	}
	return d
}

// Rotate turns r clockwise by degrees.
//
// Right angles are exact pixel permutations. Any other angle is resampled and
// the canvas grows to hold the whole rotated image; uncovered corners are
// transparent. A rotation that normalizes to 0 returns r untouched, every
// other rotation consumes r.
func Rotate(r *Raster, degrees int) (RotateResult, error) {
	d := NormalizeDegrees(degrees)
	if d == 0 {
		if r.Released() {
			return RotateResult{}, ErrReleased
		}
		return RotateResult{Raster: r, Degrees: 0}, nil
	}

	img, err := r.take()
	if err != nil {
		return RotateResult{}, err
	}
	return RotateResult{Raster: NewRaster(rotateImage(img, d)), Degrees: d}, nil
}

// rotateImage rotates img clockwise by d degrees, d in (0, 360).
// imaging rotates counter-clockwise, bild clockwise.
func rotateImage(img image.Image, d int) image.Image {
	switch d {
	case 90:
		return imaging.Rotate270(img)
	case 180:
		return imaging.Rotate180(img)
	case 270:
		return imaging.Rotate90(img)
	}
	return transform.Rotate(img, float64(d), &transform.RotationOptions{ResizeBounds: true})
}
