package server

import (
	"encoding/json"
	"fmt"
	"image"
	"math"

	"github.com/ironsheep/image-cropper-mcp/internal/imaging"
	"github.com/ironsheep/image-cropper-mcp/internal/logging"
)

// ToolCallParams represents the parameters for a tools/call MCP request.
type ToolCallParams struct {
	// Name is the tool to invoke (e.g., "image_load", "image_crop_rotated").
	Name string `json:"name"`

	// Arguments contains the tool-specific parameters as JSON.
	Arguments json.RawMessage `json:"arguments"`
}

// handleToolsCall processes a tools/call request and executes the specified tool.
//
// The response wraps the tool result in MCP's content format:
//
//	{
//	  "content": [{"type": "text", "text": "<JSON result>"}]
//	}
//
// Tool execution errors return a JSON-RPC error response with code -32000.
func (s *Server) handleToolsCall(req *MCPRequest) *MCPResponse {
	var params ToolCallParams
	if err := json.Unmarshal(req.Params, &params); err != nil {
		return s.errorResponse(req.ID, -32602, "Invalid params", err.Error())
	}

	result, err := s.executeTool(params.Name, params.Arguments)
	if err != nil {
		logging.Warnf("tool %s failed: %v", params.Name, err)
		return s.errorResponse(req.ID, -32000, "Tool execution failed", err.Error())
	}

	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"content": []map[string]interface{}{
				{
					"type": "text",
					"text": mustMarshalJSON(result),
				},
			},
		},
	}
}

// executeTool dispatches tool execution to the appropriate handler function.
//
// Each tool handler:
//  1. Unmarshals arguments from JSON
//  2. Applies default values for optional parameters
//  3. Decodes the image through the loader, reduced where requested
//  4. Calls the appropriate imaging function, handing the raster along
//  5. Encodes the final raster and releases it
func (s *Server) executeTool(name string, args json.RawMessage) (interface{}, error) {
	if len(args) == 0 {
		args = json.RawMessage("{}")
	}

	switch name {
	// Basic Image Information
	case "image_load":
		return s.handleImageLoad(args)
	case "image_dimensions":
		return s.handleImageDimensions(args)

	// Sampled Decoding
	case "image_decode_sampled":
		return s.handleImageDecodeSampled(args)
	case "image_decode_sampled_region":
		return s.handleImageDecodeSampledRegion(args)

	// Cropping
	case "image_crop_region":
		return s.handleImageCropRegion(args)
	case "image_crop_rotated":
		return s.handleImageCropRotated(args)

	// Orientation
	case "image_rotate":
		return s.handleImageRotate(args)
	case "image_correct_orientation":
		return s.handleImageCorrectOrientation(args)

	// Masking
	case "image_mask_oval":
		return s.handleImageMaskOval(args)

	// Analysis Helpers
	case "image_suggest_crop":
		return s.handleImageSuggestCrop(args)

	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

// errorResponse creates a JSON-RPC error response with the given details.
func (s *Server) errorResponse(id interface{}, code int, message, data string) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      id,
		Error: &MCPError{
			Code:    code,
			Message: message,
			Data:    data,
		},
	}
}

// mustMarshalJSON converts a value to pretty-printed JSON string.
// Panics are suppressed; on marshal failure, returns an empty string.
func mustMarshalJSON(v interface{}) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}

// decodeFull decodes path without reduction.
func (s *Server) decodeFull(path string) (*imaging.Raster, error) {
	res, err := s.loader.DecodeSampled(path, math.MaxInt32, math.MaxInt32)
	if err != nil {
		return nil, err
	}
	return res.Raster, nil
}

// finish optionally masks r to an oval, encodes it and releases it.
// r is consumed in every case.
func (s *Server) finish(r *imaging.Raster, format string, oval bool) (*imaging.ImageResult, error) {
	if oval {
		masked, err := imaging.MaskOval(r)
		if err != nil {
			r.Release()
			return nil, err
		}
		r = masked
	}
	defer r.Release()

	opts := s.encode
	if format != "" {
		opts.Format = format
	}
	return imaging.Encode(r, opts)
}

// SampledImageResult is an encoded image decoded at reduced resolution.
type SampledImageResult struct {
	imaging.ImageResult

	// SampleSize is the power-of-two reduction applied while decoding.
	SampleSize int `json:"sample_size"`

	// Degrees is the clockwise rotation applied to correct orientation.
	Degrees int `json:"degrees"`
}

// RotatedImageResult is an encoded image together with the clockwise
// rotation that produced it.
type RotatedImageResult struct {
	imaging.ImageResult
	Degrees int `json:"degrees"`
}

// === Basic Image Information Handlers ===

type imageLoadArgs struct {
	Path string `json:"path"`
}

func (s *Server) handleImageLoad(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.LoadImageInfo(s.cache, a.Path)
}

func (s *Server) handleImageDimensions(args json.RawMessage) (interface{}, error) {
	var a imageLoadArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	return imaging.GetDimensions(s.cache, a.Path)
}

// === Sampled Decoding Handlers ===

type imageDecodeSampledArgs struct {
	Path               string `json:"path"`
	ReqWidth           int    `json:"req_width"`
	ReqHeight          int    `json:"req_height"`
	CorrectOrientation bool   `json:"correct_orientation"`
	Oval               bool   `json:"oval"`
	Format             string `json:"format"`
}

func (s *Server) handleImageDecodeSampled(args json.RawMessage) (interface{}, error) {
	var a imageDecodeSampledArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.ReqWidth <= 0 {
		a.ReqWidth = math.MaxInt32
	}
	if a.ReqHeight <= 0 {
		a.ReqHeight = math.MaxInt32
	}

	res, err := s.loader.DecodeSampled(a.Path, a.ReqWidth, a.ReqHeight)
	if err != nil {
		return nil, err
	}
	logging.Debugf("decoded %s at sample size %d", a.Path, res.SampleSize)

	raster, degrees := res.Raster, 0
	if a.CorrectOrientation {
		rotated, err := s.loader.RotateByExif(raster, a.Path)
		if err != nil {
			raster.Release()
			return nil, err
		}
		raster, degrees = rotated.Raster, rotated.Degrees
	}

	img, err := s.finish(raster, a.Format, a.Oval)
	if err != nil {
		return nil, err
	}
	return &SampledImageResult{ImageResult: *img, SampleSize: res.SampleSize, Degrees: degrees}, nil
}

type imageRegionArgs struct {
	Path      string `json:"path"`
	X1        int    `json:"x1"`
	Y1        int    `json:"y1"`
	X2        int    `json:"x2"`
	Y2        int    `json:"y2"`
	Degrees   int    `json:"degrees"`
	ReqWidth  int    `json:"req_width"`
	ReqHeight int    `json:"req_height"`
	Oval      bool   `json:"oval"`
	Format    string `json:"format"`
}

func (a imageRegionArgs) rect() (image.Rectangle, error) {
	r := image.Rect(a.X1, a.Y1, a.X2, a.Y2)
	if r.Empty() {
		return r, fmt.Errorf("%w: region (%d,%d)-(%d,%d)", imaging.ErrEmptyCrop, a.X1, a.Y1, a.X2, a.Y2)
	}
	return r, nil
}

func (s *Server) handleImageDecodeSampledRegion(args json.RawMessage) (interface{}, error) {
	var a imageRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	rect, err := a.rect()
	if err != nil {
		return nil, err
	}
	if a.ReqWidth <= 0 {
		a.ReqWidth = rect.Dx()
	}
	if a.ReqHeight <= 0 {
		a.ReqHeight = rect.Dy()
	}

	res, err := s.loader.DecodeSampledRegion(a.Path, rect, a.ReqWidth, a.ReqHeight)
	if err != nil {
		return nil, err
	}
	img, err := s.finish(res.Raster, a.Format, false)
	if err != nil {
		return nil, err
	}
	return &SampledImageResult{ImageResult: *img, SampleSize: res.SampleSize}, nil
}

// === Cropping Handlers ===

func (s *Server) handleImageCropRegion(args json.RawMessage) (interface{}, error) {
	var a imageRegionArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	rect, err := a.rect()
	if err != nil {
		return nil, err
	}

	raster, err := s.loader.CropRegion(a.Path, rect, a.Degrees, a.ReqWidth, a.ReqHeight)
	if err != nil {
		return nil, err
	}
	img, err := s.finish(raster, a.Format, a.Oval)
	if err != nil {
		return nil, err
	}
	return &RotatedImageResult{ImageResult: *img, Degrees: imaging.NormalizeDegrees(a.Degrees)}, nil
}

type imageCropRotatedArgs struct {
	Path    string    `json:"path"`
	Points  []float64 `json:"points"`
	Degrees int       `json:"degrees"`
	Oval    bool      `json:"oval"`
	Format  string    `json:"format"`
}

func (s *Server) handleImageCropRotated(args json.RawMessage) (interface{}, error) {
	var a imageCropRotatedArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	quad, err := imaging.QuadFromPoints(a.Points)
	if err != nil {
		return nil, err
	}

	src, err := s.decodeFull(a.Path)
	if err != nil {
		return nil, err
	}
	cropped, err := imaging.CropRotated(src, quad, a.Degrees)
	if err != nil {
		src.Release()
		return nil, err
	}
	img, err := s.finish(cropped, a.Format, a.Oval)
	if err != nil {
		return nil, err
	}
	return &RotatedImageResult{ImageResult: *img, Degrees: imaging.NormalizeDegrees(a.Degrees)}, nil
}

// === Orientation Handlers ===

type imageRotateArgs struct {
	Path    string `json:"path"`
	Degrees int    `json:"degrees"`
	Format  string `json:"format"`
}

func (s *Server) handleImageRotate(args json.RawMessage) (interface{}, error) {
	var a imageRotateArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := s.decodeFull(a.Path)
	if err != nil {
		return nil, err
	}
	rotated, err := imaging.Rotate(src, a.Degrees)
	if err != nil {
		src.Release()
		return nil, err
	}
	img, err := s.finish(rotated.Raster, a.Format, false)
	if err != nil {
		return nil, err
	}
	return &RotatedImageResult{ImageResult: *img, Degrees: rotated.Degrees}, nil
}

type imageFormatArgs struct {
	Path   string `json:"path"`
	Format string `json:"format"`
}

func (s *Server) handleImageCorrectOrientation(args json.RawMessage) (interface{}, error) {
	var a imageFormatArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := s.decodeFull(a.Path)
	if err != nil {
		return nil, err
	}
	rotated, err := s.loader.RotateByExif(src, a.Path)
	if err != nil {
		src.Release()
		return nil, err
	}
	img, err := s.finish(rotated.Raster, a.Format, false)
	if err != nil {
		return nil, err
	}
	return &RotatedImageResult{ImageResult: *img, Degrees: rotated.Degrees}, nil
}

// === Masking Handlers ===

func (s *Server) handleImageMaskOval(args json.RawMessage) (interface{}, error) {
	var a imageFormatArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	src, err := s.decodeFull(a.Path)
	if err != nil {
		return nil, err
	}
	return s.finish(src, a.Format, true)
}

// === Analysis Helper Handlers ===

type imageSuggestCropArgs struct {
	Path         string `json:"path"`
	AspectWidth  int    `json:"aspect_width"`
	AspectHeight int    `json:"aspect_height"`
}

func (s *Server) handleImageSuggestCrop(args json.RawMessage) (interface{}, error) {
	var a imageSuggestCropArgs
	if err := json.Unmarshal(args, &a); err != nil {
		return nil, err
	}
	if a.AspectWidth == 0 {
		a.AspectWidth = 1
	}
	if a.AspectHeight == 0 {
		a.AspectHeight = 1
	}

	src, err := s.decodeFull(a.Path)
	if err != nil {
		return nil, err
	}
	defer src.Release()
	return imaging.SuggestCrop(src, a.AspectWidth, a.AspectHeight)
}
