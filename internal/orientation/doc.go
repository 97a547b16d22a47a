// Package orientation turns EXIF orientation into a rotation.
//
// Only the three pure rotations (tags 3, 6 and 8) are honored; every other tag
// maps to 0 degrees. The EXIF parser sits behind the Reader interface so
// callers can substitute their own metadata source.
package orientation
