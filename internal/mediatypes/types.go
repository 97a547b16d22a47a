package mediatypes

import (
	"path/filepath"
	"strings"
)

// Category is the thumbnail strategy an attachment falls into.
type Category string

const (
	// CategoryImage is a photo or other picture attachment.
	CategoryImage Category = "image"
	// CategorySketch is a drawing made in the app, stored as PNG.
	CategorySketch Category = "sketch"
	// CategoryVideo is a video clip.
	CategoryVideo Category = "video"
	// CategoryAudio is a voice recording or other audio clip.
	CategoryAudio Category = "audio"
	// CategoryFiles is any other file, including contact cards.
	CategoryFiles Category = "files"
)

// MIME types stored on attachments.
const (
	MimeTypeImage  = "image/jpeg"
	MimeTypeSketch = "image/png"
	MimeTypeVideo  = "video/mp4"
	MimeTypeAudio  = "audio/amr"
	MimeTypeFiles  = "file/*"
)

// ContactExtension marks a vCard among generic file attachments.
const ContactExtension = ".vcf"

// DefaultMimeType is returned for unknown extensions.
const DefaultMimeType = "application/octet-stream"

// MimeTypes maps lowercase file extensions to their MIME types.
var MimeTypes = map[string]string{
	// Images
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
	".gif":  "image/gif",
	".bmp":  "image/bmp",
	".webp": "image/webp",
	".tiff": "image/tiff",
	".tif":  "image/tiff",
	".heic": "image/heic",
	".heif": "image/heif",

	// Videos
	".mp4":  "video/mp4",
	".3gp":  "video/3gpp",
	".mkv":  "video/x-matroska",
	".mov":  "video/quicktime",
	".webm": "video/webm",

	// Audio
	".amr": "audio/amr",
	".mp3": "audio/mpeg",
	".m4a": "audio/mp4",
	".ogg": "audio/ogg",
	".wav": "audio/x-wav",

	// Files
	".vcf": "text/x-vcard",
	".pdf": "application/pdf",
	".txt": "text/plain",
	".zip": "application/zip",
}

// GetMimeType returns the MIME type for a given file extension.
// The extension is matched case-insensitively and must include the leading
// dot (e.g., ".jpg"). Returns DefaultMimeType if it is not recognized.
func GetMimeType(ext string) string {
	if mime, ok := MimeTypes[strings.ToLower(ext)]; ok {
		return mime
	}
	return DefaultMimeType
}

// CategoryOf maps a MIME type to a Category. The attachment constants map
// to their own category; other types go by their top-level type, and
// anything unrecognized is a generic file.
func CategoryOf(mimeType string) Category {
	switch mimeType {
	case MimeTypeSketch:
		return CategorySketch
	case MimeTypeImage:
		return CategoryImage
	case MimeTypeVideo:
		return CategoryVideo
	case MimeTypeAudio:
		return CategoryAudio
	case MimeTypeFiles:
		return CategoryFiles
	}

	topLevel, _ := SplitMimeType(mimeType)
	switch topLevel {
	case "image":
		return CategoryImage
	case "video":
		return CategoryVideo
	case "audio":
		return CategoryAudio
	default:
		return CategoryFiles
	}
}

// SplitMimeType splits "type/subtype" and drops any parameters.
// Both parts are lowercased; a missing subtype is returned empty.
func SplitMimeType(mimeType string) (string, string) {
	mimeType = strings.ToLower(strings.TrimSpace(mimeType))
	if i := strings.IndexByte(mimeType, ';'); i >= 0 {
		mimeType = strings.TrimSpace(mimeType[:i])
	}
	topLevel, subtype, _ := strings.Cut(mimeType, "/")
	return topLevel, subtype
}

// IsContact reports whether a file name has the vCard extension.
func IsContact(name string) bool {
	return strings.EqualFold(filepath.Ext(name), ContactExtension)
}

// IsContactMime reports whether a MIME type denotes a vCard.
func IsContactMime(mimeType string) bool {
	_, subtype := SplitMimeType(mimeType)
	return subtype == "x-vcard" || subtype == "vcard"
}
