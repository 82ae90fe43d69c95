// Package cropper runs one crop request end to end.
//
// A request scales the source image to display size, picks an initial box
// (the default heuristic, a caller-supplied algorithm, or a box remembered for
// the session), hands both to a rendering Surface, maps whatever box comes
// back to original coordinates and extracts the result.
//
//	c := cropper.New(cropper.StaticSurface{})
//	opts := cropper.DefaultOptions()
//	opts.AspectRatio = &geometry.Square
//	res, err := c.Crop(img, opts)
//
// The pipeline holds no state between calls apart from the optional session
// store, which is keyed by Options.SessionKey and stores boxes by value.
package cropper
