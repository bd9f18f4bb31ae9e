package imaging

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"image"
	"image/color"

	"github.com/disintegration/imaging"
	"github.com/lucasb-eyer/go-colorful"
)

// ImageResult contains an encoded raster ready to hand back to a client.
type ImageResult struct {
	Width       int    `json:"width"`
	Height      int    `json:"height"`
	ImageBase64 string `json:"image_base64"`
	MimeType    string `json:"mime_type"`
}

// EncodeOptions controls how a raster is serialized.
type EncodeOptions struct {
	// Format is an extension style name: "png", "jpg"/"jpeg", "gif", "bmp"
	// or "tiff". Empty means "png".
	Format string

	// Quality is the JPEG quality (1-100). Zero uses the imaging default.
	Quality int

	// Background fills transparent areas for formats without alpha.
	// Nil means white.
	Background color.Color
}

var mimeTypes = map[imaging.Format]string{
	imaging.PNG:  "image/png",
	imaging.JPEG: "image/jpeg",
	imaging.GIF:  "image/gif",
	imaging.BMP:  "image/bmp",
	imaging.TIFF: "image/tiff",
}

// ParseBackground parses a "#RRGGBB" hex colour.
func ParseBackground(hex string) (color.Color, error) {
	c, err := colorful.Hex(hex)
	if err != nil {
		return nil, fmt.Errorf("invalid background color %q: %w", hex, err)
	}
	return c, nil
}

// Encode serializes r without consuming it.
func Encode(r *Raster, opts EncodeOptions) (*ImageResult, error) {
	img, err := r.peek()
	if err != nil {
		return nil, err
	}

	name := opts.Format
	if name == "" {
		name = "png"
	}
	format, err := imaging.FormatFromExtension(name)
	if err != nil {
		return nil, fmt.Errorf("unsupported output format %q: %w", name, err)
	}

	if format == imaging.JPEG || format == imaging.BMP {
		bg := opts.Background
		if bg == nil {
			bg = color.White
		}
		b := img.Bounds()
		flat := imaging.New(b.Dx(), b.Dy(), bg)
		img = imaging.Overlay(flat, img, image.Point{}, 1.0)
	}

	var encOpts []imaging.EncodeOption
	if opts.Quality > 0 {
		encOpts = append(encOpts, imaging.JPEGQuality(opts.Quality))
	}

	var buf bytes.Buffer
	if err := imaging.Encode(&buf, img, format, encOpts...); err != nil {
		return nil, fmt.Errorf("failed to encode image: %w", err)
	}

	b := img.Bounds()
	return &ImageResult{
		Width:       b.Dx(),
		Height:      b.Dy(),
		ImageBase64: base64.StdEncoding.EncodeToString(buf.Bytes()),
		MimeType:    mimeTypes[format],
	}, nil
}
