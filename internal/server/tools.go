package server

// Tool represents an MCP tool definition
type Tool struct {
	Name        string                 `json:"name"`
	Description string                 `json:"description"`
	InputSchema map[string]interface{} `json:"inputSchema"`
}

func pathProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": "Path or file:// URI of the image",
	}
}

func formatProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"enum":        []string{"png", "jpeg", "jpg", "gif", "bmp", "tiff"},
		"description": "Output encoding. Defaults to the server's configured format",
	}
}

func ovalProperty() map[string]interface{} {
	return map[string]interface{}{
		"type":        "boolean",
		"description": "Mask the result to the oval inscribed in its bounds, leaving the corners transparent",
		"default":     false,
	}
}

func intProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "integer",
		"description": description,
	}
}

// GetToolDefinitions returns all available tools
func GetToolDefinitions() []Tool {
	return []Tool{
		// Basic Image Information
		{
			Name:        "image_load",
			Description: "Read an image header and return its dimensions, format, color depth, file size and EXIF orientation without decoding pixels.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_dimensions",
			Description: "Get the upright width and height of an image, with width and height swapped when EXIF orientation rotates it by 90 or 270 degrees.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Sampled Decoding
		{
			Name:        "image_decode_sampled",
			Description: "Decode an image reduced by the largest power-of-two sample size that keeps it larger than the requested size. Returns the image as base64 together with the sample size used.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty(),
					"req_width":  intProperty("Requested width in pixels. 0 keeps full resolution"),
					"req_height": intProperty("Requested height in pixels. 0 keeps full resolution"),
					"correct_orientation": map[string]interface{}{
						"type":        "boolean",
						"description": "Rotate the result upright according to its EXIF orientation",
						"default":     false,
					},
					"oval":   ovalProperty(),
					"format": formatProperty(),
				},
				"required": []string{"path"},
			},
		},
		{
			Name:        "image_decode_sampled_region",
			Description: "Decode a rectangular region of an image reduced toward the requested size. The sample size is computed from the region dimensions; the region is clipped to the image.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty(),
					"x1":         intProperty("Left edge X coordinate (0-based)"),
					"y1":         intProperty("Top edge Y coordinate (0-based)"),
					"x2":         intProperty("Right edge X coordinate (exclusive)"),
					"y2":         intProperty("Bottom edge Y coordinate (exclusive)"),
					"req_width":  intProperty("Requested width in pixels. 0 uses the region width"),
					"req_height": intProperty("Requested height in pixels. 0 uses the region height"),
					"format":     formatProperty(),
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},

		// Cropping
		{
			Name:        "image_crop_region",
			Description: "Decode a rectangular region reduced toward the requested size, then rotate it clockwise by the given degrees.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":       pathProperty(),
					"x1":         intProperty("Left edge X coordinate (0-based)"),
					"y1":         intProperty("Top edge Y coordinate (0-based)"),
					"x2":         intProperty("Right edge X coordinate (exclusive)"),
					"y2":         intProperty("Bottom edge Y coordinate (exclusive)"),
					"degrees":    intProperty("Clockwise rotation applied after cropping. Default 0"),
					"req_width":  intProperty("Requested width in pixels. 0 uses the region width"),
					"req_height": intProperty("Requested height in pixels. 0 uses the region height"),
					"oval":       ovalProperty(),
					"format":     formatProperty(),
				},
				"required": []string{"path", "x1", "y1", "x2", "y2"},
			},
		},
		{
			Name:        "image_crop_rotated",
			Description: "Cut a possibly rotated quadrilateral out of an image. The points are the four corners as x,y pairs in image coordinates and degrees is the rotation that makes the quad upright.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path": pathProperty(),
					"points": map[string]interface{}{
						"type":        "array",
						"items":       map[string]interface{}{"type": "number"},
						"minItems":    8,
						"maxItems":    8,
						"description": "Corner coordinates x0,y0,x1,y1,x2,y2,x3,y3",
					},
					"degrees": intProperty("Clockwise rotation of the crop window. Default 0"),
					"oval":    ovalProperty(),
					"format":  formatProperty(),
				},
				"required": []string{"path", "points"},
			},
		},

		// Orientation
		{
			Name:        "image_rotate",
			Description: "Rotate an image clockwise by any number of degrees. Right angles are lossless; other angles grow the canvas to fit.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":    pathProperty(),
					"degrees": intProperty("Clockwise rotation in degrees"),
					"format":  formatProperty(),
				},
				"required": []string{"path", "degrees"},
			},
		},
		{
			Name:        "image_correct_orientation",
			Description: "Rotate an image upright according to its EXIF orientation tag and report the rotation applied.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"format": formatProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Masking
		{
			Name:        "image_mask_oval",
			Description: "Keep only the oval inscribed in the image bounds, with an anti-aliased edge and transparent corners.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":   pathProperty(),
					"format": formatProperty(),
				},
				"required": []string{"path"},
			},
		},

		// Analysis Helpers
		{
			Name:        "image_suggest_crop",
			Description: "Suggest an initial crop window with the given aspect ratio, placed on the most interesting part of the image. Returns the rectangle and its corner points.",
			InputSchema: map[string]interface{}{
				"type": "object",
				"properties": map[string]interface{}{
					"path":          pathProperty(),
					"aspect_width":  intProperty("Aspect ratio width. Default 1"),
					"aspect_height": intProperty("Aspect ratio height. Default 1"),
				},
				"required": []string{"path"},
			},
		},
	}
}

// handleToolsList returns the list of available tools
func (s *Server) handleToolsList(req *MCPRequest) *MCPResponse {
	return &MCPResponse{
		JSONRPC: "2.0",
		ID:      req.ID,
		Result: map[string]interface{}{
			"tools": GetToolDefinitions(),
		},
	}
}
