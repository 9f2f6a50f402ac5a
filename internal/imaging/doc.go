// Package imaging provides the pixel buffer of the editor and the
// operations that create buffers: geometry transforms, the file codec and
// export overlays.
//
// # Coordinate System
//
// All pixel coordinates in this package are 0-based:
//   - X: horizontal position (0 = leftmost pixel)
//   - Y: vertical position (0 = topmost pixel)
//
// # Buffers
//
// A Buffer is a dense RGB grid with 8 bits per channel. Reads and writes
// outside the grid fail with ErrOutOfRange instead of returning a default.
// Clone produces an independent copy; the editor relies on this for its
// undo snapshots.
//
// # Geometry
//
// Enlarge, Shrink and Crop never modify their input; they return a fresh
// buffer of the new size. Requests that would produce an empty or oversized
// buffer fail with ErrInvalidGeometry before anything is allocated.
//
// # Codec
//
// Load and Save move buffers to and from files. PNG, JPEG, GIF, BMP, TIFF
// and WebP decode; PNG, JPEG, GIF, BMP and TIFF encode. Undecodable input
// fails with ErrInvalidFormat. ImageCache is safe for concurrent use and
// hands out clones.
//
// # Color Sampling and Grids
//
// SampleColor reports a pixel as hex, RGB and HSL. Overlay draws a labeled
// coordinate grid over a copy of a buffer for export.
package imaging
