package imaging

import (
	"io"

	"github.com/rwcarlsen/goexif/exif"
)

// EXIF orientation tag values that describe a pure rotation.
const (
	exifRotate180 = 3
	exifRotate90  = 6
	exifRotate270 = 8
)

// Orientation is the rotation recorded in an image's metadata.
//
// Known is false when the metadata is missing or could not be read; Degrees
// is then 0, meaning no rotation is needed.
type Orientation struct {
	Tag     int  `json:"tag,omitempty"`
	Degrees int  `json:"degrees"`
	Known   bool `json:"known"`
}

// OrientationFromTag maps an EXIF orientation value to clockwise degrees.
// Only the three pure rotations are honoured; mirrored and unknown values map
// to 0.
func OrientationFromTag(tag int) Orientation {
	o := Orientation{Tag: tag, Known: true}
	switch tag {
	case exifRotate90:
		o.Degrees = 90
	case exifRotate180:
		o.Degrees = 180
	case exifRotate270:
		o.Degrees = 270
	}
	return o
}

// ReadOrientation reads the EXIF orientation tag from an encoded image.
// Any failure yields the zero Orientation.
func ReadOrientation(r io.Reader) Orientation {
	x, err := exif.Decode(r)
	if err != nil || x == nil {
		return Orientation{}
	}
	tag, err := x.Get(exif.Orientation)
	if err != nil || tag == nil || tag.Count == 0 {
		return Orientation{}
	}
	v, err := tag.Int(0)
	if err != nil {
		return Orientation{}
	}
	return OrientationFromTag(v)
}

// RotateResult is a raster together with the clockwise rotation that was
// applied to produce it.
type RotateResult struct {
	Raster  *Raster
	Degrees int
}

// CorrectOrientation rotates r so that it displays upright according to o.
// When no rotation is needed r is returned as is; otherwise r is consumed.
func CorrectOrientation(r *Raster, o Orientation) (RotateResult, error) {
	return Rotate(r, o.Degrees)
}
