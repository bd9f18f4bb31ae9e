package imaging

import (
	"bytes"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"sync"
	"testing"
)

// createInMemoryImage creates a solid image of the given colour.
func createInMemoryImage(width, height int, c color.Color) image.Image {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

// createPatternImage creates an image with different colors in each quadrant
func createPatternImage(width, height int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			var c color.Color
			if x < width/2 && y < height/2 {
				c = color.RGBA{255, 0, 0, 255} // Red top-left
			} else if x >= width/2 && y < height/2 {
				c = color.RGBA{0, 255, 0, 255} // Green top-right
			} else if x < width/2 && y >= height/2 {
				c = color.RGBA{0, 0, 255, 255} // Blue bottom-left
			} else {
				c = color.RGBA{255, 255, 255, 255} // White bottom-right
			}
			img.Set(x, y, c)
		}
	}
	return img
}

// writePNG encodes img into a file under t.TempDir and returns its path.
func writePNG(t *testing.T, img image.Image) string {
	t.Helper()
	return writeFile(t, "image.png", encodePNGBytes(t, img))
}

func encodePNGBytes(t *testing.T, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("failed to encode image: %v", err)
	}
	return buf.Bytes()
}

func writeFile(t *testing.T, name string, data []byte) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", name, err)
	}
	return path
}

// jpegWithOrientation encodes img as JPEG and inserts an APP1 EXIF block
// holding a single orientation tag.
func jpegWithOrientation(t *testing.T, img image.Image, tag uint16) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, img, &jpeg.Options{Quality: 95}); err != nil {
		t.Fatalf("failed to encode jpeg: %v", err)
	}
	raw := buf.Bytes()

	tiff := []byte{
		'M', 'M', 0x00, 0x2A, // big endian TIFF header
		0x00, 0x00, 0x00, 0x08, // IFD0 offset
		0x00, 0x01, // one entry
		0x01, 0x12, // Orientation
		0x00, 0x03, // SHORT
		0x00, 0x00, 0x00, 0x01, // count
		byte(tag >> 8), byte(tag), 0x00, 0x00,
		0x00, 0x00, 0x00, 0x00, // no next IFD
	}
	payload := append([]byte("Exif\x00\x00"), tiff...)
	segLen := len(payload) + 2

	out := []byte{0xFF, 0xD8, 0xFF, 0xE1, byte(segLen >> 8), byte(segLen)}
	out = append(out, payload...)
	return append(out, raw[2:]...)
}

// memorySource serves byte slices and counts open and closed streams.
type memorySource struct {
	mu     sync.Mutex
	files  map[string][]byte
	opened int
	closed int
}

func newMemorySource(files map[string][]byte) *memorySource {
	return &memorySource{files: files}
}

func (s *memorySource) Open(uri string) (io.ReadCloser, error) {
	data, ok := s.files[uri]
	if !ok {
		return nil, os.ErrNotExist
	}
	s.mu.Lock()
	s.opened++
	s.mu.Unlock()
	return &trackedReader{Reader: bytes.NewReader(data), src: s}, nil
}

func (s *memorySource) counts() (opened, closed int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.opened, s.closed
}

type trackedReader struct {
	io.Reader
	src  *memorySource
	done bool
}

func (r *trackedReader) Close() error {
	if !r.done {
		r.done = true
		r.src.mu.Lock()
		r.src.closed++
		r.src.mu.Unlock()
	}
	return nil
}

// rgbaAt returns the 8-bit components at (x, y).
func rgbaAt(img image.Image, x, y int) (r, g, b, a uint8) {
	r32, g32, b32, a32 := img.At(x, y).RGBA()
	return uint8(r32 >> 8), uint8(g32 >> 8), uint8(b32 >> 8), uint8(a32 >> 8)
}
