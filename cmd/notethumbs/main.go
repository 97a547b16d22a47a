package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"image/color"
	"io"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"notethumbs/internal/bitmap"
	"notethumbs/internal/colors"
	"notethumbs/internal/logging"
	"notethumbs/internal/media"
	"notethumbs/internal/mediatypes"
	"notethumbs/internal/memory"
	"notethumbs/internal/metrics"
	"notethumbs/internal/startup"
	"notethumbs/internal/workers"

	"golang.org/x/term"
)

const (
	// Upper bound on batch workers regardless of CPU count
	maxBatchWorkers = 8
	// Default number of palette swatches
	defaultPaletteSize = 5
)

// errUsage marks bad command lines; usage has already been printed.
var errUsage = errors.New("invalid usage")

// app carries what every command needs.
type app struct {
	config  *startup.Config
	decoder *bitmap.Decoder
	stdout  io.Writer
	stderr  io.Writer
}

func main() {
	// Create a context that cancels on interrupt signals
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	code := run(ctx, os.Args[1:], os.Stdout, os.Stderr)
	cancel()
	os.Exit(code)
}

func run(ctx context.Context, args []string, stdout, stderr io.Writer) int {
	if len(args) < 1 {
		printUsage(stderr)
		return 2
	}
	command, args := args[0], args[1:]

	switch command {
	case "help", "-h", "--help":
		printUsage(stdout)
		return 0
	case "version":
		fmt.Fprintln(stdout, startup.GetBuildInfo())
		return 0
	}

	config, err := startup.LoadConfig()
	if err != nil {
		fmt.Fprintf(stderr, "Error: configuration: %v\n", err)
		return 1
	}
	startup.LogConfig(config)
	metrics.InitializeMetrics()
	startup.RecordBuildInfo()
	startup.LogMemoryConfig(memory.ConfigureFromEnv())

	a := &app{config: config, stdout: stdout, stderr: stderr}
	if config.Decoder == startup.DecoderVips {
		if err := bitmap.InitVips(); err != nil {
			fmt.Fprintf(stderr, "Error: libvips: %v\n", err)
			return 1
		}
		defer bitmap.ShutdownVips()
		a.decoder = bitmap.NewDecoder(bitmap.VipsCodec{})
	} else {
		a.decoder = bitmap.NewDecoder(bitmap.StdCodec{})
	}

	if config.MetricsFile != "" {
		defer func() {
			if err := metrics.WriteTextfile(config.MetricsFile); err != nil {
				logging.Warn("%v", err)
			}
		}()
	}

	var cmdErr error
	switch command {
	case "decode":
		cmdErr = a.decode(args)
	case "color":
		cmdErr = a.color(args)
	case "palette":
		cmdErr = a.palette(args)
	case "source":
		cmdErr = a.source(args)
	case "thumb":
		cmdErr = a.thumb(ctx, args)
	case "batch":
		cmdErr = a.batch(ctx, args)
	default:
		fmt.Fprintf(stderr, "Unknown command: %s\n", sanitizeCommand(command))
		printUsage(stderr)
		return 2
	}

	switch {
	case cmdErr == nil:
		return 0
	case errors.Is(cmdErr, errUsage):
		return 2
	default:
		fmt.Fprintf(stderr, "Error: %v\n", cmdErr)
		return 1
	}
}

// sanitizeCommand returns a safe representation of a command string for display.
// Any character that is not alphanumeric, a hyphen, or an underscore becomes '_'.
func sanitizeCommand(cmd string) string {
	var b strings.Builder
	b.Grow(len(cmd))
	for _, r := range cmd {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') || r == '-' || r == '_' {
			b.WriteRune(r)
		} else {
			b.WriteRune('_')
		}
	}
	return b.String()
}

func printUsage(w io.Writer) {
	fmt.Fprintln(w, "Note attachment thumbnails and colors")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Usage: notethumbs <command> [flags] <args>")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  decode <file> <w> <h>                  - Bounded decode, print sizes")
	fmt.Fprintln(w, "  color [-no-threshold] <file>           - Dominant color")
	fmt.Fprintln(w, "  palette [-k N] <file>                  - Prominent colors")
	fmt.Fprintln(w, "  source <file>                          - Where a thumbnail would come from")
	fmt.Fprintln(w, "  thumb [-w W] [-h H] [-o out.jpg] <file> - Write one thumbnail")
	fmt.Fprintln(w, "  batch [-w W] [-h H] -o <dir> <files...> - Write thumbnails concurrently")
	fmt.Fprintln(w, "  version                                - Build information")
	fmt.Fprintln(w, "")
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintf(w, "  THUMB_WIDTH, THUMB_HEIGHT - Default thumbnail size (default: %d)\n", startup.DefaultThumbSize)
	fmt.Fprintln(w, "  DECODER                   - std or vips (default: std)")
	fmt.Fprintln(w, "  FFMPEG_PATH               - ffmpeg binary for video frames (default: ffmpeg)")
	fmt.Fprintln(w, "  METRICS_FILE              - Write Prometheus metrics here on exit")
	fmt.Fprintln(w, "  NOTETHUMBS_WORKERS        - Batch worker count")
	fmt.Fprintln(w, "  LOG_LEVEL                 - debug, info, warn, error (default: info)")
}

// newFlagSet returns a flag set that reports errors instead of exiting.
func (a *app) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(a.stderr)
	return fs
}

// parse runs fs over args and requires at least minArgs positional arguments.
func parse(fs *flag.FlagSet, args []string, minArgs int) error {
	if err := fs.Parse(args); err != nil {
		return errUsage
	}
	if fs.NArg() < minArgs {
		fmt.Fprintf(fs.Output(), "%s: expected at least %d argument(s), got %d\n", fs.Name(), minArgs, fs.NArg())
		fs.Usage()
		return errUsage
	}
	return nil
}

func (a *app) sizeFlags(fs *flag.FlagSet) (w, h *int) {
	w = fs.Int("w", a.config.ThumbWidth, "thumbnail width in pixels")
	h = fs.Int("h", a.config.ThumbHeight, "thumbnail height in pixels")
	return w, h
}

func (a *app) decodeFile(path string, w, h int) (*bitmap.Result, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return a.decoder.Decode(f, w, h)
}

func (a *app) decode(args []string) error {
	fs := a.newFlagSet("decode")
	if err := parse(fs, args, 3); err != nil {
		return err
	}

	w, errW := strconv.Atoi(fs.Arg(1))
	h, errH := strconv.Atoi(fs.Arg(2))
	if errW != nil || errH != nil {
		fmt.Fprintf(a.stderr, "decode: width and height must be integers, got %q %q\n", fs.Arg(1), fs.Arg(2))
		return errUsage
	}

	res, err := a.decodeFile(fs.Arg(0), w, h)
	if err != nil {
		return err
	}

	b := res.Bitmap.Bounds()
	fmt.Fprintf(a.stdout, "format:      %s\n", res.Intrinsic.Format)
	fmt.Fprintf(a.stdout, "intrinsic:   %dx%d\n", res.Intrinsic.Width, res.Intrinsic.Height)
	fmt.Fprintf(a.stdout, "sample size: %d\n", res.SampleSize)
	fmt.Fprintf(a.stdout, "output:      %dx%d\n", b.Dx(), b.Dy())
	fmt.Fprintf(a.stdout, "input bytes: %d\n", res.InputBytes)
	return nil
}

func (a *app) color(args []string) error {
	fs := a.newFlagSet("color")
	noThreshold := fs.Bool("no-threshold", false, "count dull and dark pixels too")
	if err := parse(fs, args, 1); err != nil {
		return err
	}

	res, err := a.decodeFile(fs.Arg(0), a.config.ThumbWidth, a.config.ThumbHeight)
	if err != nil {
		return err
	}

	c := colors.DominantColor(res.Bitmap, !*noThreshold)
	fmt.Fprintf(a.stdout, "%s%s\n", colors.Hex(c), a.swatch(c))
	return nil
}

func (a *app) palette(args []string) error {
	fs := a.newFlagSet("palette")
	k := fs.Int("k", defaultPaletteSize, "number of colors")
	if err := parse(fs, args, 1); err != nil {
		return err
	}

	res, err := a.decodeFile(fs.Arg(0), a.config.ThumbWidth, a.config.ThumbHeight)
	if err != nil {
		return err
	}

	swatches, err := colors.Palette(res.Bitmap, *k)
	if err != nil {
		return err
	}
	for _, s := range swatches {
		fmt.Fprintf(a.stdout, "%s %8d%s\n", colors.Hex(s.Color), s.Count, a.swatch(s.Color))
	}
	return nil
}

func (a *app) source(args []string) error {
	fs := a.newFlagSet("source")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, media.ResolveSource(media.Attachment{Path: fs.Arg(0)}))
	return nil
}

func (a *app) generator() *media.Generator {
	return media.NewGenerator(a.decoder, nil, media.NewFFmpegExtractor(a.config.FFmpegPath))
}

func (a *app) thumb(ctx context.Context, args []string) error {
	fs := a.newFlagSet("thumb")
	w, h := a.sizeFlags(fs)
	out := fs.String("o", "", "output file (default: <name>.thumb.jpg)")
	if err := parse(fs, args, 1); err != nil {
		return err
	}

	path := fs.Arg(0)
	if *out == "" {
		*out = thumbName(path)
	}
	if err := writeThumbnail(ctx, a.generator(), path, *out, *w, *h); err != nil {
		return err
	}
	fmt.Fprintln(a.stdout, *out)
	return nil
}

func (a *app) batch(ctx context.Context, args []string) error {
	fs := a.newFlagSet("batch")
	w, h := a.sizeFlags(fs)
	outDir := fs.String("o", "", "output directory")
	if err := parse(fs, args, 1); err != nil {
		return err
	}
	if *outDir == "" {
		fmt.Fprintln(a.stderr, "batch: -o is required")
		return errUsage
	}
	if err := startup.EnsureDirectory(*outDir); err != nil {
		return fmt.Errorf("output directory %s: %w", *outDir, err)
	}

	startup.LogSystemInfo()
	if version, err := startup.CheckFFmpeg(ctx, a.config.FFmpegPath); err != nil {
		logging.Warn("FFmpeg check failed, video thumbnails will fail: %v", err)
	} else {
		logging.Debug("FFmpeg: %s", version)
	}

	gen := a.generator()
	files := fs.Args()
	kind := batchKind(files)
	count := workers.ForBatch(kind, len(files), maxBatchWorkers)
	logging.Info("Generating %d thumbnails with %d %s workers", len(files), count, kind)

	start := time.Now()
	results := workers.Run(ctx, count, files, func(ctx context.Context, path string) (string, error) {
		out := filepath.Join(*outDir, thumbName(path))
		if err := writeThumbnail(ctx, gen, path, out, *w, *h); err != nil {
			return "", err
		}
		if a.config.BatchProgress {
			logging.Info("  [OK] %s", out)
		}
		return out, nil
	})

	failed := 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			logging.Error("  %s: %v", files[r.Index], r.Err)
			continue
		}
		fmt.Fprintln(a.stdout, r.Value)
	}

	logging.Info("Batch finished in %v: %d written, %d failed", time.Since(start), len(files)-failed, failed)
	if failed > 0 {
		return fmt.Errorf("%d of %d thumbnails failed", failed, len(files))
	}
	return nil
}

// batchKind classifies a batch by what its jobs spend their time on.
// Video frames come from an FFmpeg subprocess; everything else is decoded
// in-process or served from bundled icons.
func batchKind(files []string) workers.Kind {
	videos := 0
	for _, path := range files {
		if mediatypes.CategoryOf(media.DetectMimeType(path)) == mediatypes.CategoryVideo {
			videos++
		}
	}
	switch {
	case videos == 0:
		return workers.CPU
	case videos == len(files):
		return workers.IO
	default:
		return workers.Mixed
	}
}

// thumbName maps an attachment path to its thumbnail file name.
func thumbName(path string) string {
	base := filepath.Base(path)
	return strings.TrimSuffix(base, filepath.Ext(base)) + ".thumb.jpg"
}

func writeThumbnail(ctx context.Context, gen *media.Generator, path, out string, w, h int) (err error) {
	img, err := gen.FromAttachment(ctx, media.Attachment{Path: path}, w, h)
	if err != nil {
		return err
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create thumbnail file: %w", err)
	}
	defer func() {
		if closeErr := f.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("failed to close thumbnail file: %w", closeErr)
		}
	}()

	return media.Encode(f, img)
}

// swatch renders c as a truecolor block when stdout is a terminal.
func (a *app) swatch(c color.NRGBA) string {
	f, ok := a.stdout.(*os.File)
	if !ok || !term.IsTerminal(int(f.Fd())) {
		return ""
	}
	return fmt.Sprintf("  \x1b[48;2;%d;%d;%dm      \x1b[0m", c.R, c.G, c.B)
}
