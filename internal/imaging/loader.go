package imaging

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"  // Register GIF format decoder
	_ "image/jpeg" // Register JPEG format decoder
	_ "image/png"  // Register PNG format decoder
	"sync"

	_ "golang.org/x/image/bmp"  // Register BMP format decoder
	_ "golang.org/x/image/tiff" // Register TIFF format decoder
	_ "golang.org/x/image/webp" // Register WebP format decoder
)

// InfoCache provides thread-safe caching of image metadata to avoid
// re-reading image headers.
//
// Only the header is decoded: dimensions, format and colour model come from
// image.DecodeConfig, the orientation from the EXIF block. Pixel data is never
// held by the cache, so entries are cheap.
//
// # Example Usage
//
//	cache := imaging.NewInfoCache(imaging.FileSource{})
//	info, err := cache.Load("/path/to/photo.jpg")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	cache.Evict("/path/to/photo.jpg") // Optional: force a re-read
type InfoCache struct {
	source Source
	mu     sync.RWMutex
	infos  map[string]*ImageInfo
}

// NewInfoCache creates an empty cache reading from src.
func NewInfoCache(src Source) *InfoCache {
	return &InfoCache{
		source: src,
		infos:  make(map[string]*ImageInfo),
	}
}

// ImageInfo contains metadata about an image resource.
type ImageInfo struct {
	// Width is the image width in pixels as stored, before orientation.
	Width int `json:"width"`

	// Height is the image height in pixels as stored, before orientation.
	Height int `json:"height"`

	// Format is the decoder name: "png", "jpeg", "gif", "bmp", "tiff" or "webp".
	Format string `json:"format"`

	// ColorDepth indicates the bit depth per channel: "8-bit" or "16-bit".
	ColorDepth string `json:"color_depth"`

	// HasAlpha indicates whether the colour model carries an alpha channel.
	HasAlpha bool `json:"has_alpha"`

	// FileSizeBytes is the resource size in bytes, 0 when the source
	// cannot tell.
	FileSizeBytes int64 `json:"file_size_bytes"`

	// Orientation is the EXIF rotation needed to display the image upright.
	Orientation Orientation `json:"orientation"`
}

// Load returns the cached metadata for uri, reading the image header on the
// first request.
//
// The cache key is the exact uri string. Errors are not cached.
func (c *InfoCache) Load(uri string) (*ImageInfo, error) {
	c.mu.RLock()
	if info, ok := c.infos[uri]; ok {
		c.mu.RUnlock()
		return info, nil
	}
	c.mu.RUnlock()

	info, err := c.read(uri)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.infos[uri] = info
	c.mu.Unlock()

	return info, nil
}

func (c *InfoCache) read(uri string) (*ImageInfo, error) {
	rc, err := c.source.Open(uri)
	if err != nil {
		return nil, err
	}
	cfg, format, err := image.DecodeConfig(rc)
	rc.Close()
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}

	info := &ImageInfo{
		Width:      cfg.Width,
		Height:     cfg.Height,
		Format:     format,
		ColorDepth: "8-bit",
	}

	switch cfg.ColorModel {
	case color.RGBAModel, color.NRGBAModel:
		info.HasAlpha = true
	case color.RGBA64Model, color.NRGBA64Model:
		info.HasAlpha = true
		info.ColorDepth = "16-bit"
	case color.Gray16Model:
		info.ColorDepth = "16-bit"
	}
	if p, ok := cfg.ColorModel.(color.Palette); ok {
		info.HasAlpha = paletteHasAlpha(p)
	}

	if s, ok := c.source.(sizer); ok {
		if size, err := s.Size(uri); err == nil {
			info.FileSizeBytes = size
		}
	}

	// Orientation failures are not fatal; the image simply needs no rotation.
	if rc, err := c.source.Open(uri); err == nil {
		info.Orientation = ReadOrientation(rc)
		rc.Close()
	}

	return info, nil
}

func paletteHasAlpha(p color.Palette) bool {
	for _, c := range p {
		if _, _, _, a := c.RGBA(); a != 0xffff {
			return true
		}
	}
	return false
}

// Clear removes all entries from the cache.
func (c *InfoCache) Clear() {
	c.mu.Lock()
	c.infos = make(map[string]*ImageInfo)
	c.mu.Unlock()
}

// Evict removes the entry for uri. Unknown keys are ignored.
func (c *InfoCache) Evict(uri string) {
	c.mu.Lock()
	delete(c.infos, uri)
	c.mu.Unlock()
}

// DimensionsResult contains the display size of an image.
type DimensionsResult struct {
	// Width is the width in pixels after EXIF orientation is applied.
	Width int `json:"width"`

	// Height is the height in pixels after EXIF orientation is applied.
	Height int `json:"height"`
}

// GetDimensions returns the upright dimensions of uri: a 90 or 270 degree
// orientation swaps width and height.
func GetDimensions(cache *InfoCache, uri string) (*DimensionsResult, error) {
	info, err := cache.Load(uri)
	if err != nil {
		return nil, err
	}
	w, h := info.Width, info.Height
	if info.Orientation.Degrees == 90 || info.Orientation.Degrees == 270 {
		w, h = h, w
	}
	return &DimensionsResult{Width: w, Height: h}, nil
}

// LoadImageInfo returns the cached metadata for uri, reading the header on
// first use.
func LoadImageInfo(cache *InfoCache, uri string) (*ImageInfo, error) {
	return cache.Load(uri)
}
