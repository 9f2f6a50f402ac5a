// Package filter implements the fixed catalog of in-place pixel filters.
//
// Filters are addressed by Kind or by display name:
//
//	Darker, Lighter, Threshold, Invert, Solarize, Smooth, Pixelize,
//	Mirror, Grayscale, Edge Detection, Fish Eye
//
// Every filter is deterministic, keeps the buffer dimensions, and clamps
// channel values to 0-255. Neighborhood filters (Smooth, Pixelize, Edge
// Detection, Fish Eye) clamp their read coordinates to the buffer edge.
package filter
