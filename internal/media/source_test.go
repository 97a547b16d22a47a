package media

import (
	"image/color"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/disintegration/imaging"
)

func writeFile(t *testing.T, path string, data []byte) {
	t.Helper()
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("failed to write %s: %v", path, err)
	}
}

// writePNG writes a PNG to path regardless of its extension.
func writePNG(t *testing.T, path string) {
	t.Helper()
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("failed to create %s: %v", path, err)
	}
	defer f.Close()
	if err := imaging.Encode(f, imaging.New(4, 4, color.NRGBA{A: 255}), imaging.PNG); err != nil {
		t.Fatalf("failed to encode png: %v", err)
	}
}

func TestAttachmentDisplayName(t *testing.T) {
	if got := (Attachment{Path: "/a/b/photo.jpg"}).DisplayName(); got != "photo.jpg" {
		t.Errorf("DisplayName() = %q, want photo.jpg", got)
	}
	if got := (Attachment{Path: "/a/b/1234", Name: "card.vcf"}).DisplayName(); got != "card.vcf" {
		t.Errorf("DisplayName() = %q, want card.vcf", got)
	}
}

func TestDetectMimeType(t *testing.T) {
	dir := t.TempDir()

	pngNoExt := filepath.Join(dir, "sketch")
	writePNG(t, pngNoExt)

	unknown := filepath.Join(dir, "blob.bin")
	writeFile(t, unknown, []byte{0x00, 0x01, 0x02, 0x03, 0xfe, 0xff})

	tests := []struct {
		name string
		path string
		want string
	}{
		{"extension jpeg", "/x/photo.JPG", "image/jpeg"},
		{"extension amr", "/x/voice.amr", "audio/amr"},
		{"extension vcard", "/x/card.vcf", "text/x-vcard"},
		{"sniffed png", pngNoExt, "image/png"},
		{"unknown content", unknown, ""},
		{"missing file", filepath.Join(dir, "missing"), ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetectMimeType(tt.path); got != tt.want {
				t.Errorf("DetectMimeType(%q) = %q, want %q", tt.path, got, tt.want)
			}
		})
	}
}

func TestResolveSource(t *testing.T) {
	tests := []struct {
		name string
		path string
		want Source
	}{
		{"image", "/n/photo.jpg", Source{Path: "/n/photo.jpg"}},
		{"sketch", "/n/sketch.png", Source{Path: "/n/sketch.png"}},
		{"video", "/n/clip.mp4", Source{Path: "/n/clip.mp4"}},
		{"audio", "/n/voice.amr", Source{Resource: ResourcePlay}},
		{"vcard", "/n/card.vcf", Source{Resource: ResourceVCard}},
		{"other file", "/n/doc.pdf", Source{Resource: ResourceFiles}},
		{"unknown", "/n/missing.xyz", Source{Resource: ResourceFiles}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ResolveSource(Attachment{Path: tt.path})
			if got != tt.want {
				t.Errorf("ResolveSource(%q) = %+v, want %+v", tt.path, got, tt.want)
			}
		})
	}
}

func TestSourceString(t *testing.T) {
	if got := (Source{Resource: ResourceVCard}).String(); got != "resource:vcard" {
		t.Errorf("String() = %q", got)
	}
	if got := (Source{Path: "/n/a.jpg"}).String(); got != "/n/a.jpg" {
		t.Errorf("String() = %q", got)
	}
}

func TestOpenResource(t *testing.T) {
	for _, name := range Resources {
		t.Run(string(name), func(t *testing.T) {
			rc, err := OpenResource(name)
			if err != nil {
				t.Fatalf("OpenResource() error = %v", err)
			}
			defer rc.Close()

			data, err := io.ReadAll(rc)
			if err != nil {
				t.Fatalf("read failed: %v", err)
			}
			if len(data) < 8 || string(data[1:4]) != "PNG" {
				t.Errorf("resource %s is not a PNG", name)
			}
		})
	}

	if _, err := OpenResource("missing"); err == nil {
		t.Error("expected error for unknown resource")
	}
}
