// Package geometry implements the box arithmetic behind the cropper.
//
// Every function in this package is a pure function of its arguments. Boxes are
// integer rectangles described by their top-left corner plus width and height,
// expressed either in display space (the possibly downscaled image shown to the
// user) or in original space (the unmodified source image).
//
// # Coordinate System
//
// (0,0) is the top-left pixel. A Box covers the half-open pixel range
// [Left, Left+Width) x [Top, Top+Height), so the last included column is
// Left+Width-1.
//
// # Aspect Ratios
//
// Aspect-locked default boxes are computed in two phases: the heuristic
// rectangle is first shrunk symmetrically to the requested ratio, then its width
// is re-derived by accumulating whole ratio tiles. The second phase keeps the
// result an exact integer multiple of the ratio so later exact-ratio checks
// never see rounding drift.
package geometry
