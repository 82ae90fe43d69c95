// Package imaging holds the pixel-level half of the cropper: loading and caching
// source images, scaling them to a display-safe size, extracting the final crop
// region, and serializing images for the rendering surface.
//
// Box arithmetic lives in the geometry package; functions here take boxes that
// are already expressed in the coordinate space of the image they are given.
//
// # Coordinate System
//
// Boxes are relative to the image's bounds origin, so an image whose Bounds()
// does not start at (0,0) is handled the same as one that does. Regions are
// half-open: a box covers columns Left through Left+Width-1.
//
// # Thread Safety
//
// The ImageCache type is safe for concurrent use. All other functions are
// stateless and never mutate their input image.
//
// # Pixel Format
//
// Images handed to the rendering surface are normalized to 8-bit straight-alpha
// RGBA (*image.NRGBA) regardless of the source color model, then flattened
// row-major as R,G,B,A bytes.
//
// # Error Handling
//
// Failures wrap the sentinel errors of the geometry package:
//   - geometry.ErrImageDecode for files that cannot be opened or decoded
//   - geometry.ErrInvalidArgument for unknown modes, formats, colors, or boxes
//     outside the image
//   - geometry.ErrDegenerateBox for boxes with no area
package imaging
