package media

import (
	"path/filepath"

	"notethumbs/internal/logging"
	"notethumbs/internal/mediatypes"

	"github.com/gabriel-vasile/mimetype"
)

// Attachment is a file attached to a note.
type Attachment struct {
	// Path is the local file path.
	Path string
	// Name is the display name; the base of Path is used when empty.
	Name string
	// MimeType is one of the mediatypes attachment types, or empty to detect
	// it from the file.
	MimeType string
}

// DisplayName returns Name, falling back to the base of Path.
func (a Attachment) DisplayName() string {
	if a.Name != "" {
		return a.Name
	}
	return filepath.Base(a.Path)
}

// Source is where a thumbnail's pixels come from: either the attachment file
// itself or a bundled placeholder.
type Source struct {
	Path     string
	Resource Resource
}

// IsResource reports whether the source is a bundled placeholder.
func (s Source) IsResource() bool {
	return s.Resource != ""
}

func (s Source) String() string {
	if s.IsResource() {
		return "resource:" + string(s.Resource)
	}
	return s.Path
}

// DetectMimeType resolves the MIME type of a file from its extension, then
// from its content. It returns "" when neither gives a specific type.
func DetectMimeType(path string) string {
	if mime := mediatypes.GetMimeType(filepath.Ext(path)); mime != mediatypes.DefaultMimeType {
		return mime
	}

	mt, err := mimetype.DetectFile(path)
	if err != nil {
		logging.Debug("MIME sniffing failed for %s: %v", path, err)
		return ""
	}
	if mt.Is(mediatypes.DefaultMimeType) {
		return ""
	}
	return mt.String()
}

// ResolveSource picks the thumbnail source for an attachment from the MIME
// type of its file. Images and videos are their own source; audio uses the
// play icon; vCards and everything else use their file icons.
func ResolveSource(a Attachment) Source {
	mimeType := DetectMimeType(a.Path)
	if mimeType == "" {
		return Source{Resource: ResourceFiles}
	}

	topLevel, _ := mediatypes.SplitMimeType(mimeType)
	switch topLevel {
	case "image", "video":
		return Source{Path: a.Path}
	case "audio":
		return Source{Resource: ResourcePlay}
	}

	if mediatypes.IsContactMime(mimeType) {
		return Source{Resource: ResourceVCard}
	}
	return Source{Resource: ResourceFiles}
}
