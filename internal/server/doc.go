// Package server implements the MCP (Model Context Protocol) server for the
// image cropping tools.
//
// This package provides a JSON-RPC 2.0 server that exposes sampled decoding,
// cropping, rotation and masking through the MCP protocol, so that a client
// can prepare cropped images without holding full-resolution pixels itself.
//
// # Protocol
//
// The server communicates over stdio using JSON-RPC 2.0:
//   - Input: JSON-RPC requests on stdin (one per line)
//   - Output: JSON-RPC responses on stdout
//
// Supported MCP methods:
//   - initialize: Protocol handshake
//   - tools/list: Enumerate available tools
//   - tools/call: Execute a tool with arguments
//   - ping: Health check
//
// # Available Tools
//
// Basic Image Information:
//   - image_load: Read header metadata and EXIF orientation
//   - image_dimensions: Get upright width and height
//
// Sampled Decoding:
//   - image_decode_sampled: Decode reduced by a power-of-two sample size
//   - image_decode_sampled_region: Decode a region at reduced size
//
// Cropping:
//   - image_crop_region: Decode a region, then rotate it
//   - image_crop_rotated: Cut a rotated quadrilateral out of an image
//
// Orientation:
//   - image_rotate: Rotate clockwise by any angle
//   - image_correct_orientation: Rotate upright per EXIF
//
// Masking:
//   - image_mask_oval: Keep only the inscribed oval
//
// Analysis Helpers:
//   - image_suggest_crop: Content-aware initial crop window
//
// Image tools return the result as base64 in the configured output format
// (PNG unless configured otherwise); every tool that returns an image takes
// an optional "format" argument to override it.
//
// # Image Caching
//
// Header metadata read by image_load and image_dimensions is cached by path
// for the lifetime of the server process. Pixel data is never cached: each
// tool call decodes, transforms and releases its own rasters.
//
// # Error Handling
//
// Tool execution errors are returned as JSON-RPC error responses with:
//   - code: -32000 (tool execution failure) or standard JSON-RPC codes
//   - message: Human-readable error description
//   - data: Additional error details (typically the Go error string)
//
// # Usage
//
//	srv, err := server.New(cfg)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	if err := srv.Run(); err != nil {
//	    log.Fatal(err)
//	}
package server
