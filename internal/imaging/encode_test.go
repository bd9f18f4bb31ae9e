package imaging

import (
	"bytes"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
)

func TestEncode_PNG(t *testing.T) {
	r := NewRaster(createPatternImage(40, 30))

	result, err := Encode(r, EncodeOptions{})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if result.MimeType != "image/png" {
		t.Errorf("MimeType: got %s, want image/png", result.MimeType)
	}
	if result.Width != 40 || result.Height != 30 {
		t.Errorf("dimensions: got %dx%d, want 40x30", result.Width, result.Height)
	}
	if r.Released() {
		t.Error("Encode should not consume the raster")
	}

	data, err := base64.StdEncoding.DecodeString(result.ImageBase64)
	if err != nil {
		t.Fatalf("failed to decode base64: %v", err)
	}
	decoded, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode PNG: %v", err)
	}
	if cr, cg, cb, _ := rgbaAt(decoded, 5, 5); cr != 255 || cg != 0 || cb != 0 {
		t.Errorf("top-left color: got (%d,%d,%d), want red", cr, cg, cb)
	}
}

func TestEncode_JPEGFlattensTransparency(t *testing.T) {
	r := NewRaster(image.NewNRGBA(image.Rect(0, 0, 16, 16))) // fully transparent
	bg, err := ParseBackground("#000000")
	if err != nil {
		t.Fatalf("ParseBackground failed: %v", err)
	}

	result, err := Encode(r, EncodeOptions{Format: "jpg", Quality: 90, Background: bg})
	if err != nil {
		t.Fatalf("Encode failed: %v", err)
	}
	if result.MimeType != "image/jpeg" {
		t.Errorf("MimeType: got %s, want image/jpeg", result.MimeType)
	}

	data, _ := base64.StdEncoding.DecodeString(result.ImageBase64)
	decoded, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("failed to decode JPEG: %v", err)
	}
	if cr, cg, cb, _ := rgbaAt(decoded, 8, 8); cr > 8 || cg > 8 || cb > 8 {
		t.Errorf("background: got (%d,%d,%d), want black", cr, cg, cb)
	}
}

func TestEncode_UnsupportedFormat(t *testing.T) {
	r := NewRaster(createInMemoryImage(4, 4, color.White))
	if _, err := Encode(r, EncodeOptions{Format: "xyz"}); err == nil {
		t.Error("Encode should fail for an unknown format")
	}
}

func TestEncode_Released(t *testing.T) {
	r := NewRaster(createInMemoryImage(4, 4, color.White))
	r.Release()
	if _, err := Encode(r, EncodeOptions{}); !errors.Is(err, ErrReleased) {
		t.Errorf("expected ErrReleased, got %v", err)
	}
}

func TestParseBackground(t *testing.T) {
	c, err := ParseBackground("#ff8000")
	if err != nil {
		t.Fatalf("ParseBackground failed: %v", err)
	}
	r, g, b, _ := c.RGBA()
	if r>>8 != 0xff || g>>8 != 0x80 || b>>8 != 0x00 {
		t.Errorf("got (%d,%d,%d), want (255,128,0)", r>>8, g>>8, b>>8)
	}

	for _, bad := range []string{"", "red", "#GGGGGG"} {
		if _, err := ParseBackground(bad); err == nil {
			t.Errorf("ParseBackground(%q) should fail", bad)
		}
	}
}
