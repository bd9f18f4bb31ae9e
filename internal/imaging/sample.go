package imaging

import (
	"errors"
	"fmt"
	"image"
	"io"

	"github.com/disintegration/imaging"
)

// ErrLoadSampled marks every read or decode failure from a Loader. The
// underlying cause stays reachable through errors.Is and errors.As.
var ErrLoadSampled = errors.New("failed to load sampled bitmap")

// CalculateSampleSize returns the largest power of two that, applied to the
// halved dimensions, still leaves both strictly larger than the requested
// size. Images already within the requested size get 1.
//
// For example a 4000x3000 image requested at 1000x750 gets 2: halving once
// leaves 2000x1500, which is still larger, while a factor of 4 would reach
// exactly 1000x750.
//
// Negative requests are treated as 0, which reduces as far as possible.
func CalculateSampleSize(width, height, reqWidth, reqHeight int) int {
	reqWidth, reqHeight = max(0, reqWidth), max(0, reqHeight)
	sampleSize := 1
	if height > reqHeight || width > reqWidth {
		halfHeight := height / 2
		halfWidth := width / 2
		for halfHeight/sampleSize > reqHeight && halfWidth/sampleSize > reqWidth {
			sampleSize *= 2
		}
	}
	return sampleSize
}

// DecodeResult is a decoded raster together with the sample size that was
// used to reduce it.
type DecodeResult struct {
	Raster     *Raster
	SampleSize int
}

// Loader decodes images from a Source at reduced resolution.
//
// A Loader has no mutable state; all methods are safe for concurrent use as
// long as the Source is.
type Loader struct {
	source Source
	filter imaging.ResampleFilter
}

// LoaderOption configures a Loader.
type LoaderOption func(*Loader)

// WithResampleFilter sets the filter used to reduce decoded images.
// The default is imaging.Box, which averages each sample block.
func WithResampleFilter(f imaging.ResampleFilter) LoaderOption {
	return func(l *Loader) { l.filter = f }
}

// NewLoader creates a Loader reading from src.
func NewLoader(src Source, opts ...LoaderOption) *Loader {
	l := &Loader{source: src, filter: imaging.Box}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// DecodeSampled decodes uri reduced so that it is no smaller than
// reqWidth x reqHeight.
//
// The image bounds are read first from one stream, the pixels from a second.
func (l *Loader) DecodeSampled(uri string, reqWidth, reqHeight int) (DecodeResult, error) {
	if err := checkRequest(reqWidth, reqHeight); err != nil {
		return DecodeResult{}, err
	}
	cfg, err := l.decodeConfig(uri)
	if err != nil {
		return DecodeResult{}, fmt.Errorf("%w: %w", ErrLoadSampled, err)
	}
	sampleSize := CalculateSampleSize(cfg.Width, cfg.Height, reqWidth, reqHeight)

	img, err := l.decode(uri)
	if err != nil {
		return DecodeResult{}, fmt.Errorf("%w: %w", ErrLoadSampled, err)
	}
	return DecodeResult{
		Raster:     NewRaster(l.downsample(img, sampleSize)),
		SampleSize: sampleSize,
	}, nil
}

// DecodeSampledRegion decodes the rect portion of uri reduced so that it is
// no smaller than reqWidth x reqHeight. The sample size is computed from the
// rect dimensions; rect is clipped to the image bounds.
func (l *Loader) DecodeSampledRegion(uri string, rect image.Rectangle, reqWidth, reqHeight int) (DecodeResult, error) {
	if err := checkRequest(reqWidth, reqHeight); err != nil {
		return DecodeResult{}, err
	}
	sampleSize := CalculateSampleSize(rect.Dx(), rect.Dy(), reqWidth, reqHeight)

	img, err := l.decode(uri)
	if err != nil {
		return DecodeResult{}, fmt.Errorf("%w: %w", ErrLoadSampled, err)
	}

	b := img.Bounds()
	region := rect.Add(b.Min).Intersect(b)
	if region.Empty() {
		return DecodeResult{}, fmt.Errorf("%w: region %v outside image bounds %v", ErrLoadSampled, rect, b)
	}

	cropped := imaging.Crop(img, region)
	return DecodeResult{
		Raster:     NewRaster(l.downsample(cropped, sampleSize)),
		SampleSize: sampleSize,
	}, nil
}

// CropRegion decodes the rect portion of uri, reduced toward reqWidth x
// reqHeight, and rotates it clockwise by degrees. A non-positive request
// dimension defaults to the matching rect dimension.
func (l *Loader) CropRegion(uri string, rect image.Rectangle, degrees, reqWidth, reqHeight int) (*Raster, error) {
	if reqWidth <= 0 {
		reqWidth = rect.Dx()
	}
	if reqHeight <= 0 {
		reqHeight = rect.Dy()
	}
	res, err := l.DecodeSampledRegion(uri, rect, reqWidth, reqHeight)
	if err != nil {
		return nil, err
	}
	rotated, err := Rotate(res.Raster, degrees)
	if err != nil {
		res.Raster.Release()
		return nil, err
	}
	return rotated.Raster, nil
}

// Orientation reads the EXIF orientation of uri. Unreadable sources and
// missing metadata both report no rotation.
func (l *Loader) Orientation(uri string) Orientation {
	rc, err := l.source.Open(uri)
	if err != nil {
		return Orientation{}
	}
	defer rc.Close()
	return ReadOrientation(rc)
}

// RotateByExif rotates r upright according to the EXIF orientation of uri.
func (l *Loader) RotateByExif(r *Raster, uri string) (RotateResult, error) {
	return CorrectOrientation(r, l.Orientation(uri))
}

func checkRequest(reqWidth, reqHeight int) error {
	if reqWidth < 0 || reqHeight < 0 {
		return fmt.Errorf("%w: invalid request size %dx%d", ErrLoadSampled, reqWidth, reqHeight)
	}
	return nil
}

func (l *Loader) decodeConfig(uri string) (image.Config, error) {
	rc, err := l.source.Open(uri)
	if err != nil {
		return image.Config{}, err
	}
	defer rc.Close()

	cfg, _, err := image.DecodeConfig(rc)
	if err != nil {
		return image.Config{}, fmt.Errorf("failed to read image bounds: %w", err)
	}
	return cfg, nil
}

func (l *Loader) decode(uri string) (image.Image, error) {
	rc, err := l.source.Open(uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()
	return decodeStream(rc)
}

func decodeStream(r io.Reader) (image.Image, error) {
	img, _, err := image.Decode(r)
	if err != nil {
		return nil, fmt.Errorf("failed to decode image: %w", err)
	}
	return img, nil
}

// downsample shrinks img by sampleSize in each dimension, never below 1px.
func (l *Loader) downsample(img image.Image, sampleSize int) image.Image {
	if sampleSize <= 1 {
		return img
	}
	b := img.Bounds()
	w := max(1, b.Dx()/sampleSize)
	h := max(1, b.Dy()/sampleSize)
	return imaging.Resize(img, w, h, l.filter)
}
