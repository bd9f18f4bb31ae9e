package imaging

import (
	"errors"
	"fmt"
	"image"
	"math"

	"github.com/disintegration/imaging"
)

// ErrEmptyCrop is returned when a crop request selects no pixels.
var ErrEmptyCrop = errors.New("crop selects an empty region")

// Vertex is a point in source image coordinates. Fractional values are
// allowed; they come straight from the crop window overlay.
type Vertex struct {
	X, Y float64
}

// Quad holds the four corners of a possibly rotated crop rectangle.
type Quad [4]Vertex

// QuadFromRect returns the corners of r clockwise from the top-left.
func QuadFromRect(r image.Rectangle) Quad {
	return Quad{
		{X: float64(r.Min.X), Y: float64(r.Min.Y)},
		{X: float64(r.Max.X), Y: float64(r.Min.Y)},
		{X: float64(r.Max.X), Y: float64(r.Max.Y)},
		{X: float64(r.Min.X), Y: float64(r.Max.Y)},
	}
}

// QuadFromPoints builds a Quad from a flat x0,y0,...,x3,y3 slice.
func QuadFromPoints(points []float64) (Quad, error) {
	var q Quad
	if len(points) != 8 {
		return q, fmt.Errorf("quad needs 8 coordinates, got %d", len(points))
	}
	for i := range q {
		q[i] = Vertex{X: points[2*i], Y: points[2*i+1]}
	}
	return q, nil
}

// Bounds returns the axis-aligned bounding box of q clamped to
// [0,width] x [0,height]. Coordinates are truncated toward zero.
func (q Quad) Bounds(width, height int) image.Rectangle {
	minX, minY := math.Inf(1), math.Inf(1)
	maxX, maxY := math.Inf(-1), math.Inf(-1)
	for _, v := range q {
		minX = math.Min(minX, v.X)
		minY = math.Min(minY, v.Y)
		maxX = math.Max(maxX, v.X)
		maxY = math.Max(maxY, v.Y)
	}
	return image.Rectangle{
		Min: image.Pt(int(math.Max(0, minX)), int(math.Max(0, minY))),
		Max: image.Pt(int(math.Min(float64(width), maxX)), int(math.Min(float64(height), maxY))),
	}
}

// CropRotated cuts the quad out of r and rotates it clockwise by degrees.
//
// The bounding box of the quad is cropped and rotated first. For angles that
// are not a multiple of 90 the rotated box still carries the triangles
// outside the quad, so a second crop is taken from the vertex lying on the
// edge the rotation pivots around: the left edge for angles in (0,90) and
// (180,270), the right edge otherwise.
//
// r is consumed on success and on any failure after the geometry checks.
func CropRotated(r *Raster, q Quad, degrees int) (*Raster, error) {
	img, err := r.peek()
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	box := q.Bounds(b.Dx(), b.Dy())
	if box.Empty() {
		return nil, fmt.Errorf("%w: quad bounds %v", ErrEmptyCrop, box)
	}

	d := NormalizeDegrees(degrees)
	var trim image.Rectangle
	if d%90 != 0 {
		trim, err = rotatedTrim(q, box, d)
		if err != nil {
			return nil, err
		}
	}

	img, err = r.take()
	if err != nil {
		return nil, err
	}
	cropped := imaging.Crop(img, box.Add(b.Min))
	if d == 0 {
		return NewRaster(cropped), nil
	}

	rotated := rotateImage(cropped, d)
	if d%90 == 0 {
		return NewRaster(rotated), nil
	}

	rb := rotated.Bounds()
	trim = trim.Add(rb.Min).Intersect(rb)
	if trim.Empty() {
		return nil, fmt.Errorf("%w: trim outside rotated bounds %v", ErrEmptyCrop, rb)
	}
	return NewRaster(imaging.Crop(rotated, trim)), nil
}

// rotatedTrim computes the secondary crop inside the rotated bounding box,
// relative to the rotated image origin.
func rotatedTrim(q Quad, box image.Rectangle, degrees int) (image.Rectangle, error) {
	rads := float64(degrees) * math.Pi / 180
	sin, cos := math.Sin(rads), math.Cos(rads)

	compareTo := box.Max.X
	if degrees < 90 || (degrees > 180 && degrees < 270) {
		compareTo = box.Min.X
	}
	top, bottom := float64(box.Min.Y), float64(box.Max.Y)

	for _, v := range q {
		if int(v.X) != compareTo {
			continue
		}
		adjLeft := int(math.Abs(sin * (bottom - v.Y)))
		adjTop := int(math.Abs(cos * (v.Y - top)))
		width := int(math.Abs((v.Y - top) / sin))
		height := int(math.Abs((bottom - v.Y) / cos))
		if width <= 0 || height <= 0 {
			return image.Rectangle{}, fmt.Errorf("%w: trim %dx%d", ErrEmptyCrop, width, height)
		}
		return image.Rect(adjLeft, adjTop, adjLeft+width, adjTop+height), nil
	}
	return image.Rectangle{}, fmt.Errorf("%w: no quad vertex on edge x=%d", ErrEmptyCrop, compareTo)
}
