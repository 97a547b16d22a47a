// Package mediatypes provides shared type definitions for attachment
// handling across notethumbs.
//
// This package exists as a dependency-free foundation that can be imported by
// other packages without creating import cycles. It contains primitive types,
// constants, and pure utility functions with no external dependencies beyond
// the standard library.
//
// # Categories
//
// Every attachment falls into one thumbnail strategy:
//
//	mediatypes.CategoryImage  // Decoded, cropped and rotated
//	mediatypes.CategorySketch // Same as image, stored as PNG
//	mediatypes.CategoryVideo  // First frame with a play glyph
//	mediatypes.CategoryAudio  // Bundled play icon
//	mediatypes.CategoryFiles  // Bundled vCard or generic file icon
//
// Use CategoryOf to dispatch on a stored or detected MIME type:
//
//	switch mediatypes.CategoryOf(a.MimeType) {
//	case mediatypes.CategoryVideo:
//	    // Extract a frame
//	}
//
// # MIME Types
//
// Use GetMimeType to map an extension to a MIME type:
//
//	mimeType := mediatypes.GetMimeType(filepath.Ext(name)) // e.g., "image/jpeg"
package mediatypes
