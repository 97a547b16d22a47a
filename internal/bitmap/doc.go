// Package bitmap decodes encoded images into bitmaps no larger than needed
// for a target size.
//
// A bounded decode works in three steps:
//
//  1. The whole stream is read into a buffer that doubles when full.
//  2. A bounds-only pass reads width, height and format from the header.
//  3. The image is decoded reduced by the coarsest power-of-two sample size
//     that still covers the target in both dimensions.
//
// The result is always an *image.NRGBA. Errors are *DecodeError values whose
// Kind is Malformed or IOFailure; no bitmap is returned with an error.
//
// Two codecs are provided. StdCodec uses the Go image registry and reduces
// after decoding. VipsCodec uses libvips and shrinks JPEGs while decoding,
// which keeps peak memory proportional to the output rather than the source.
package bitmap
