// Package media builds thumbnails for note attachments.
//
// The Generator dispatches on the attachment's MIME type:
//   - Images and sketches: bounded decode, center crop to the requested aspect
//     ratio, EXIF rotation
//   - Videos: a frame extracted with FFmpeg, filled to size, with a play glyph
//   - Audio: the bundled play icon
//   - Files: the bundled vCard icon for .vcf files, a generic file icon
//     otherwise
//
// ResolveSource answers the cheaper question of where a thumbnail's pixels
// would come from without decoding anything.
package media
