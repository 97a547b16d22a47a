package main

import (
	"bytes"
	"context"
	"image/color"
	"image/jpeg"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"notethumbs/internal/workers"

	"github.com/disintegration/imaging"
)

// runCLI runs the command line with a clean configuration environment.
func runCLI(t *testing.T, args ...string) (code int, stdout, stderr string) {
	t.Helper()
	for _, key := range []string{"THUMB_WIDTH", "THUMB_HEIGHT", "DECODER", "FFMPEG_PATH", "METRICS_FILE", "MEMORY_LIMIT"} {
		t.Setenv(key, "")
	}

	var out, errOut bytes.Buffer
	code = run(context.Background(), args, &out, &errOut)
	return code, out.String(), errOut.String()
}

func writeImage(t *testing.T, dir, name string, w, h int, c color.NRGBA) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := imaging.Save(imaging.New(w, h, c), path); err != nil {
		t.Fatalf("failed to write test image: %v", err)
	}
	return path
}

func TestSanitizeCommand(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"thumb", "thumb"},
		{"batch-2_x", "batch-2_x"},
		{"rm -rf /", "rm_-rf__"},
		{"\x1b[31m", "__31m"},
	}

	for _, tt := range tests {
		if got := sanitizeCommand(tt.in); got != tt.want {
			t.Errorf("sanitizeCommand(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRunUsage(t *testing.T) {
	code, _, stderr := runCLI(t)
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr, "Usage:") {
		t.Errorf("stderr missing usage: %q", stderr)
	}

	code, stdout, _ := runCLI(t, "help")
	if code != 0 || !strings.Contains(stdout, "Commands:") {
		t.Errorf("help: code %d, stdout %q", code, stdout)
	}
}

func TestRunUnknownCommand(t *testing.T) {
	code, _, stderr := runCLI(t, "frobnicate")
	if code != 2 {
		t.Errorf("exit code = %d, want 2", code)
	}
	if !strings.Contains(stderr, "Unknown command: frobnicate") {
		t.Errorf("stderr = %q", stderr)
	}
}

func TestRunVersion(t *testing.T) {
	code, stdout, _ := runCLI(t, "version")
	if code != 0 {
		t.Fatalf("exit code = %d", code)
	}
	if !strings.HasPrefix(stdout, "notethumbs ") {
		t.Errorf("stdout = %q", stdout)
	}
}

func TestRunBadConfig(t *testing.T) {
	t.Setenv("DECODER", "magick")
	var out, errOut bytes.Buffer
	if code := run(context.Background(), []string{"decode", "x", "1", "1"}, &out, &errOut); code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(errOut.String(), "DECODER") {
		t.Errorf("stderr = %q", errOut.String())
	}
}

func TestRunDecode(t *testing.T) {
	path := writeImage(t, t.TempDir(), "photo.png", 400, 200, color.NRGBA{R: 255, A: 255})

	code, stdout, stderr := runCLI(t, "decode", path, "100", "50")
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	for _, want := range []string{"format:      png", "intrinsic:   400x200", "sample size: 4", "output:      100x50"} {
		if !strings.Contains(stdout, want) {
			t.Errorf("stdout missing %q:\n%s", want, stdout)
		}
	}
}

func TestRunDecodeErrors(t *testing.T) {
	dir := t.TempDir()
	garbage := filepath.Join(dir, "garbage.jpg")
	if err := os.WriteFile(garbage, []byte("nope"), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		name string
		args []string
		code int
	}{
		{"missing args", []string{"decode", garbage}, 2},
		{"bad width", []string{"decode", garbage, "wide", "10"}, 2},
		{"malformed file", []string{"decode", garbage, "10", "10"}, 1},
		{"missing file", []string{"decode", filepath.Join(dir, "missing.png"), "10", "10"}, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if code, _, _ := runCLI(t, tt.args...); code != tt.code {
				t.Errorf("exit code = %d, want %d", code, tt.code)
			}
		})
	}
}

func TestRunColor(t *testing.T) {
	dir := t.TempDir()
	red := writeImage(t, dir, "red.png", 64, 64, color.NRGBA{R: 255, A: 255})
	gray := writeImage(t, dir, "gray.png", 64, 64, color.NRGBA{R: 128, G: 128, B: 128, A: 255})

	code, stdout, _ := runCLI(t, "color", red)
	if code != 0 || strings.TrimSpace(stdout) != "#ff0000" {
		t.Errorf("color red: code %d, stdout %q", code, stdout)
	}

	code, stdout, _ = runCLI(t, "color", gray)
	if code != 0 || strings.TrimSpace(stdout) != "#ffffff" {
		t.Errorf("color gray: code %d, stdout %q, want white fallback", code, stdout)
	}

	code, stdout, _ = runCLI(t, "color", "-no-threshold", gray)
	if code != 0 || strings.TrimSpace(stdout) != "#808080" {
		t.Errorf("color -no-threshold gray: code %d, stdout %q", code, stdout)
	}
}

func TestRunPalette(t *testing.T) {
	path := writeImage(t, t.TempDir(), "blue.png", 64, 64, color.NRGBA{B: 255, A: 255})

	code, stdout, stderr := runCLI(t, "palette", "-k", "1", path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	if !strings.Contains(stdout, "#0000ff") {
		t.Errorf("palette missing blue:\n%s", stdout)
	}
}

func TestRunSource(t *testing.T) {
	code, stdout, _ := runCLI(t, "source", "/notes/voice.amr")
	if code != 0 || strings.TrimSpace(stdout) != "resource:play" {
		t.Errorf("source: code %d, stdout %q", code, stdout)
	}
}

func TestRunThumb(t *testing.T) {
	dir := t.TempDir()
	path := writeImage(t, dir, "photo.png", 300, 150, color.NRGBA{G: 200, A: 255})
	out := filepath.Join(dir, "out.jpg")

	code, stdout, stderr := runCLI(t, "thumb", "-w", "64", "-h", "64", "-o", out, path)
	if code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, stderr)
	}
	if strings.TrimSpace(stdout) != out {
		t.Errorf("stdout = %q, want %q", stdout, out)
	}

	f, err := os.Open(out)
	if err != nil {
		t.Fatalf("thumbnail not written: %v", err)
	}
	defer f.Close()

	cfg, err := jpeg.DecodeConfig(f)
	if err != nil {
		t.Fatalf("thumbnail is not a JPEG: %v", err)
	}
	if cfg.Width != 64 || cfg.Height != 64 {
		t.Errorf("thumbnail = %dx%d, want 64x64", cfg.Width, cfg.Height)
	}
}

func TestRunBatch(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "thumbs")
	metricsFile := filepath.Join(dir, "notethumbs.prom")

	files := []string{
		writeImage(t, dir, "a.png", 120, 80, color.NRGBA{R: 255, A: 255}),
		writeImage(t, dir, "b.jpg", 80, 120, color.NRGBA{B: 255, A: 255}),
	}
	voice := filepath.Join(dir, "c.amr")
	if err := os.WriteFile(voice, []byte("#!AMR\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	files = append(files, voice)

	for _, key := range []string{"THUMB_WIDTH", "THUMB_HEIGHT", "DECODER", "FFMPEG_PATH", "MEMORY_LIMIT"} {
		t.Setenv(key, "")
	}
	t.Setenv("METRICS_FILE", metricsFile)

	var out, errOut bytes.Buffer
	args := append([]string{"batch", "-w", "32", "-h", "32", "-o", outDir}, files...)
	if code := run(context.Background(), args, &out, &errOut); code != 0 {
		t.Fatalf("exit code = %d, stderr %q", code, errOut.String())
	}

	for _, name := range []string{"a.thumb.jpg", "b.thumb.jpg", "c.thumb.jpg"} {
		if _, err := os.Stat(filepath.Join(outDir, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
	if lines := strings.Count(out.String(), "\n"); lines != 3 {
		t.Errorf("stdout has %d lines, want 3:\n%s", lines, out.String())
	}

	data, err := os.ReadFile(metricsFile)
	if err != nil {
		t.Fatalf("metrics file not written: %v", err)
	}
	if !strings.Contains(string(data), "notethumbs_thumbnail_generations_total") {
		t.Error("metrics file missing thumbnail generation counter")
	}
}

func TestRunBatchFailures(t *testing.T) {
	dir := t.TempDir()
	good := writeImage(t, dir, "good.png", 40, 40, color.NRGBA{A: 255})
	bad := filepath.Join(dir, "bad.jpg")
	if err := os.WriteFile(bad, []byte("not a jpeg"), 0o644); err != nil {
		t.Fatal(err)
	}

	code, stdout, stderr := runCLI(t, "batch", "-o", filepath.Join(dir, "out"), good, bad)
	if code != 1 {
		t.Errorf("exit code = %d, want 1", code)
	}
	if !strings.Contains(stdout, "good.thumb.jpg") {
		t.Errorf("stdout = %q, want the good thumbnail", stdout)
	}
	if !strings.Contains(stderr, "1 of 2 thumbnails failed") {
		t.Errorf("stderr = %q", stderr)
	}

	if code, _, _ := runCLI(t, "batch", good); code != 2 {
		t.Errorf("batch without -o: exit code = %d, want 2", code)
	}
}

func TestThumbName(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/notes/photo.jpg", "photo.thumb.jpg"},
		{"sketch.png", "sketch.thumb.jpg"},
		{"/notes/noext", "noext.thumb.jpg"},
		{"/notes/archive.tar.gz", "archive.tar.thumb.jpg"},
	}

	for _, tt := range tests {
		if got := thumbName(tt.in); got != tt.want {
			t.Errorf("thumbName(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestBatchKind(t *testing.T) {
	tests := []struct {
		name  string
		files []string
		want  workers.Kind
	}{
		{"images only", []string{"a.jpg", "b.png"}, workers.CPU},
		{"videos only", []string{"a.mp4", "b.mov"}, workers.IO},
		{"images and videos", []string{"a.jpg", "b.mp4"}, workers.Mixed},
		{"empty", nil, workers.CPU},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := batchKind(tt.files); got != tt.want {
				t.Errorf("batchKind(%v) = %v, want %v", tt.files, got, tt.want)
			}
		})
	}
}
