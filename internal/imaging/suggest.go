package imaging

import (
	"fmt"
	"image"

	"github.com/disintegration/imaging"
	"github.com/muesli/smartcrop"
)

// CropSuggestion is a content-aware starting window for the crop overlay.
type CropSuggestion struct {
	X1     int       `json:"x1"`
	Y1     int       `json:"y1"`
	X2     int       `json:"x2"`
	Y2     int       `json:"y2"`
	Width  int       `json:"width"`
	Height int       `json:"height"`
	Points []float64 `json:"points"`
}

// resizer adapts imaging to the smartcrop resizer interface.
type resizer struct {
	filter imaging.ResampleFilter
}

func (r resizer) Resize(img image.Image, width, height uint) image.Image {
	return imaging.Resize(img, int(width), int(height), r.filter)
}

// SuggestCrop finds the most interesting region of r with the aspect ratio
// aspectWidth:aspectHeight. r is only read, never consumed.
func SuggestCrop(r *Raster, aspectWidth, aspectHeight int) (*CropSuggestion, error) {
	if aspectWidth <= 0 || aspectHeight <= 0 {
		return nil, fmt.Errorf("invalid aspect ratio %d:%d", aspectWidth, aspectHeight)
	}
	img, err := r.peek()
	if err != nil {
		return nil, err
	}

	analyzer := smartcrop.NewAnalyzer(resizer{filter: imaging.Linear})
	best, err := analyzer.FindBestCrop(img, aspectWidth, aspectHeight)
	if err != nil {
		return nil, fmt.Errorf("finding best crop: %w", err)
	}
	best = best.Sub(img.Bounds().Min)

	q := QuadFromRect(best)
	points := make([]float64, 0, 8)
	for _, v := range q {
		points = append(points, v.X, v.Y)
	}

	return &CropSuggestion{
		X1:     best.Min.X,
		Y1:     best.Min.Y,
		X2:     best.Max.X,
		Y2:     best.Max.Y,
		Width:  best.Dx(),
		Height: best.Dy(),
		Points: points,
	}, nil
}
