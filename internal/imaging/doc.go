// Package imaging provides the bitmap helpers behind the crop tools.
//
// The package decodes images at reduced resolution, corrects EXIF
// orientation, cuts rotated quads out of an image and masks images to an oval.
// All operations work with standard Go image.Image values wrapped in a Raster
// and use a coordinate system where (0,0) is at the top-left corner, X
// increases rightward, and Y increases downward.
//
// # Ownership
//
// A Raster has a single owner. Transforms consume the Raster they are given
// and return a new one; the consumed Raster reports Released and any further
// use fails with ErrReleased. This keeps at most one live image per chain of
// transforms:
//
//	res, err := loader.DecodeSampled(uri, 1080, 1080)
//	if err != nil {
//	    return err
//	}
//	rot, err := loader.RotateByExif(res.Raster, uri)
//	if err != nil {
//	    return err
//	}
//	oval, err := imaging.MaskOval(rot.Raster) // rot.Raster is released here
//
// # Sampling
//
// Decodes are reduced by a power-of-two sample size chosen by
// CalculateSampleSize so the result stays larger than the requested size.
//
// # Rotation
//
// Angles are in degrees, clockwise, normalized to [0, 360).
//
// # Error Handling
//
// Read and decode failures from a Loader wrap ErrLoadSampled together with the
// original cause. Missing or unreadable EXIF data is not an error: it yields
// an Orientation with Known set to false and zero degrees.
package imaging
