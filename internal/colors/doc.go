// Package colors picks representative colors from bitmaps for UI theming.
//
// DominantColor bins sampled pixels by hue into 36 buckets of 10 degrees and
// returns the average HSV of the fullest bucket. It never fails: a nil or
// empty bitmap, or one where every pixel is filtered out as gray or black,
// yields opaque white.
//
// Palette clusters the image with k-means and is used where several colors
// are wanted rather than one.
package colors
