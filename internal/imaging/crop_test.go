package imaging

import (
	"errors"
	"image"
	"image/color"
	"math"
	"testing"
)

func TestQuadFromPoints(t *testing.T) {
	q, err := QuadFromPoints([]float64{1, 2, 3, 4, 5, 6, 7, 8})
	if err != nil {
		t.Fatalf("QuadFromPoints failed: %v", err)
	}
	want := Quad{{1, 2}, {3, 4}, {5, 6}, {7, 8}}
	if q != want {
		t.Errorf("got %v, want %v", q, want)
	}

	for _, n := range []int{0, 4, 7, 9} {
		if _, err := QuadFromPoints(make([]float64, n)); err == nil {
			t.Errorf("QuadFromPoints with %d values should fail", n)
		}
	}
}

func TestQuad_Bounds(t *testing.T) {
	tests := []struct {
		name string
		quad Quad
		want image.Rectangle
	}{
		{
			"inside",
			QuadFromRect(image.Rect(10, 20, 30, 40)),
			image.Rect(10, 20, 30, 40),
		},
		{
			"clamped",
			Quad{{-5, -5}, {150, -5}, {150, 120}, {-5, 120}},
			image.Rect(0, 0, 100, 80),
		},
		{
			"fractional truncates",
			Quad{{10.9, 5.2}, {20.7, 5.2}, {20.7, 15.9}, {10.9, 15.9}},
			image.Rect(10, 5, 20, 15),
		},
		{
			"rotated",
			Quad{{50, 10}, {90, 50}, {50, 70}, {10, 50}},
			image.Rect(10, 10, 90, 70),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.quad.Bounds(100, 80)
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
			if got.Min.X < 0 || got.Min.Y < 0 || got.Max.X > 100 || got.Max.Y > 80 {
				t.Errorf("bounds %v escape the image", got)
			}
		})
	}
}

func TestCropRotated_NoRotation(t *testing.T) {
	r := NewRaster(createPatternImage(100, 100))

	out, err := CropRotated(r, QuadFromRect(image.Rect(50, 0, 100, 50)), 0)
	if err != nil {
		t.Fatalf("CropRotated failed: %v", err)
	}
	if out.Width() != 50 || out.Height() != 50 {
		t.Errorf("dimensions: got %dx%d, want 50x50", out.Width(), out.Height())
	}
	if cr, cg, cb, _ := rgbaAt(out.Image(), 25, 25); cr != 0 || cg != 255 || cb != 0 {
		t.Errorf("color: got (%d,%d,%d), want green", cr, cg, cb)
	}
	if !r.Released() {
		t.Error("input raster should be released")
	}
}

func TestCropRotated_RightAngles(t *testing.T) {
	for _, deg := range []int{90, 180, 270} {
		r := NewRaster(createPatternImage(100, 100))
		out, err := CropRotated(r, QuadFromRect(image.Rect(0, 0, 60, 40)), deg)
		if err != nil {
			t.Fatalf("CropRotated(%d) failed: %v", deg, err)
		}

		wantW, wantH := 40, 60
		if deg == 180 {
			wantW, wantH = 60, 40
		}
		// Right angles need no secondary trim: the whole box is kept.
		if out.Width() != wantW || out.Height() != wantH {
			t.Errorf("CropRotated(%d): got %dx%d, want %dx%d", deg, out.Width(), out.Height(), wantW, wantH)
		}
	}
}

func TestCropRotated_ClampsToImage(t *testing.T) {
	r := NewRaster(createInMemoryImage(100, 80, color.White))
	q := Quad{{0, 0}, {500, 0}, {500, 500}, {0, 500}}

	out, err := CropRotated(r, q, 0)
	if err != nil {
		t.Fatalf("CropRotated failed: %v", err)
	}
	if out.Width() != 100 || out.Height() != 80 {
		t.Errorf("dimensions: got %dx%d, want 100x80", out.Width(), out.Height())
	}
}

func TestCropRotated_SecondaryTrim(t *testing.T) {
	r := NewRaster(createInMemoryImage(200, 200, color.RGBA{255, 0, 0, 255}))
	// A square standing on its corner: rotating by 45 degrees makes it
	// axis aligned again.
	diamond := Quad{{100, 50}, {150, 100}, {100, 150}, {50, 100}}

	out, err := CropRotated(r, diamond, 45)
	if err != nil {
		t.Fatalf("CropRotated failed: %v", err)
	}
	// Pivot vertex (50,100): width = 50/sin(45) and height = 50/cos(45), truncated.
	if out.Width() != 70 || out.Height() != 70 {
		t.Errorf("dimensions: got %dx%d, want 70x70", out.Width(), out.Height())
	}
	if cr, _, _, a := rgbaAt(out.Image(), 35, 35); cr != 255 || a != 255 {
		t.Errorf("center: got r=%d a=%d, want opaque red", cr, a)
	}
}

// tiltedRect paints a w x h rectangle centred at (cx, cy) and turned
// counter-clockwise by degrees onto a transparent canvas, and returns its
// corners. Rotating the crop clockwise by degrees makes it axis aligned.
func tiltedRect(size, w, h int, cx, cy float64, degrees int) (*image.NRGBA, Quad) {
	rads := float64(degrees) * math.Pi / 180
	sin, cos := math.Sin(rads), math.Cos(rads)

	img := image.NewNRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			dx, dy := float64(x)+0.5-cx, float64(y)+0.5-cy
			lx, ly := dx*cos-dy*sin, dx*sin+dy*cos
			if math.Abs(lx) <= float64(w)/2 && math.Abs(ly) <= float64(h)/2 {
				img.Set(x, y, color.NRGBA{255, 0, 0, 255})
			}
		}
	}

	var q Quad
	hw, hh := float64(w)/2, float64(h)/2
	for i, c := range [4][2]float64{{-hw, -hh}, {hw, -hh}, {hw, hh}, {-hw, hh}} {
		q[i] = Vertex{
			X: cx + c[0]*cos + c[1]*sin,
			Y: cy - c[0]*sin + c[1]*cos,
		}
	}
	return img, q
}

func TestCropRotated_TrimPerQuadrant(t *testing.T) {
	const w, h = 80, 40

	// 30 and 210 pivot on the left edge, 120 and 300 on the right edge.
	for _, deg := range []int{30, 120, 210, 300} {
		img, q := tiltedRect(200, w, h, 100, 100, deg)
		r := NewRaster(img)

		out, err := CropRotated(r, q, deg)
		if err != nil {
			t.Fatalf("CropRotated(%d) failed: %v", deg, err)
		}
		if !r.Released() {
			t.Errorf("CropRotated(%d) should consume its input", deg)
		}

		if dw, dh := out.Width()-w, out.Height()-h; dw < -2 || dw > 2 || dh < -2 || dh > 2 {
			t.Errorf("CropRotated(%d): got %dx%d, want %dx%d within 2px", deg, out.Width(), out.Height(), w, h)
		}

		const inset = 4
		points := [][2]int{
			{out.Width() / 2, out.Height() / 2},
			{inset, inset},
			{out.Width() - 1 - inset, inset},
			{inset, out.Height() - 1 - inset},
			{out.Width() - 1 - inset, out.Height() - 1 - inset},
		}
		for _, p := range points {
			if cr, _, _, a := rgbaAt(out.Image(), p[0], p[1]); cr != 255 || a != 255 {
				t.Errorf("CropRotated(%d) at (%d,%d): got r=%d a=%d, want opaque red", deg, p[0], p[1], cr, a)
			}
		}
	}
}

func TestCropRotated_EmptyBox(t *testing.T) {
	r := NewRaster(createInMemoryImage(50, 50, color.White))
	q := Quad{{60, 60}, {70, 60}, {70, 70}, {60, 70}}

	_, err := CropRotated(r, q, 0)
	if !errors.Is(err, ErrEmptyCrop) {
		t.Fatalf("expected ErrEmptyCrop, got %v", err)
	}
	if r.Released() {
		t.Error("input raster should stay live when the crop is rejected")
	}
}

func TestCropRotated_NoPivotVertex(t *testing.T) {
	r := NewRaster(createInMemoryImage(100, 100, color.White))
	// The left edge is clamped to 0, so no vertex lies on it.
	q := Quad{{-10, 50}, {50, -10}, {110, 50}, {50, 110}}

	_, err := CropRotated(r, q, 30)
	if !errors.Is(err, ErrEmptyCrop) {
		t.Fatalf("expected ErrEmptyCrop, got %v", err)
	}
	if r.Released() {
		t.Error("input raster should stay live when the crop is rejected")
	}
}

func TestCropRotated_Released(t *testing.T) {
	r := NewRaster(createInMemoryImage(10, 10, color.White))
	r.Release()

	_, err := CropRotated(r, QuadFromRect(image.Rect(0, 0, 5, 5)), 0)
	if !errors.Is(err, ErrReleased) {
		t.Errorf("expected ErrReleased, got %v", err)
	}
}
