package media

import (
	"embed"
	"fmt"
	"io"
)

//go:embed assets/*.png
var assets embed.FS

// Resource names a bundled placeholder bitmap.
type Resource string

const (
	// ResourcePlay stands in for audio attachments and marks video frames.
	ResourcePlay Resource = "play"
	// ResourceVCard stands in for contact cards.
	ResourceVCard Resource = "vcard"
	// ResourceFiles stands in for every other file.
	ResourceFiles Resource = "files"
)

// Resources lists every bundled placeholder.
var Resources = []Resource{ResourcePlay, ResourceVCard, ResourceFiles}

// OpenResource opens the encoded PNG of a bundled placeholder.
func OpenResource(name Resource) (io.ReadCloser, error) {
	f, err := assets.Open("assets/" + string(name) + ".png")
	if err != nil {
		return nil, fmt.Errorf("unknown resource %q: %w", name, err)
	}
	return f, nil
}
