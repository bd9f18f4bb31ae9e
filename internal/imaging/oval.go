package imaging

import (
	"image"
	"image/draw"

	"golang.org/x/image/vector"
)

// kappa places cubic Bézier control points so four curves approximate a
// quarter ellipse each.
const kappa = 0.5522847498

// MaskOval returns a copy of r in which every pixel outside the oval
// inscribed in its bounds is fully transparent. The oval edge is
// anti-aliased. The result has the same dimensions as r; r is consumed.
func MaskOval(r *Raster) (*Raster, error) {
	img, err := r.take()
	if err != nil {
		return nil, err
	}
	b := img.Bounds()
	w, h := b.Dx(), b.Dy()

	mask := image.NewAlpha(image.Rect(0, 0, w, h))
	if w > 0 && h > 0 {
		z := vector.NewRasterizer(w, h)
		ovalPath(z, float32(w), float32(h))
		z.Draw(mask, mask.Bounds(), image.Opaque, image.Point{})
	}

	out := image.NewNRGBA(image.Rect(0, 0, w, h))
	draw.DrawMask(out, out.Bounds(), img, b.Min, mask, image.Point{}, draw.Src)
	return NewRaster(out), nil
}

// ovalPath traces an ellipse filling a w x h box.
func ovalPath(z *vector.Rasterizer, w, h float32) {
	cx, cy := w/2, h/2
	rx, ry := w/2, h/2
	kx, ky := rx*kappa, ry*kappa

	z.MoveTo(cx+rx, cy)
	z.CubeTo(cx+rx, cy+ky, cx+kx, cy+ry, cx, cy+ry)
	z.CubeTo(cx-kx, cy+ry, cx-rx, cy+ky, cx-rx, cy)
	z.CubeTo(cx-rx, cy-ky, cx-kx, cy-ry, cx, cy-ry)
	z.CubeTo(cx+kx, cy-ry, cx+rx, cy-ky, cx+rx, cy)
	z.ClosePath()
}
