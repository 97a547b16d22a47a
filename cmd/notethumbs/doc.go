// Command notethumbs decodes note attachments into bounded bitmaps, extracts
// their dominant colors and writes thumbnails.
//
// Usage:
//
//	notethumbs <command> [flags] <args>
//
// Commands:
//
//	decode <file> <w> <h>
//	        Decode file with the smallest power-of-two sample size that still
//	        covers w x h and print the intrinsic size, the sample size and
//	        the output size.
//
//	color [-no-threshold] <file>
//	        Print the dominant color as #rrggbb. Dull and dark pixels are
//	        skipped unless -no-threshold is given; when nothing is left the
//	        result is white. A swatch is drawn when stdout is a terminal.
//
//	palette [-k N] <file>
//	        Print the N most prominent colors with their pixel counts.
//
//	source <file>
//	        Print where the thumbnail of file would come from: the file
//	        itself or a bundled placeholder.
//
//	thumb [-w W] [-h H] [-o out.jpg] <file>
//	        Write one JPEG thumbnail. Videos need ffmpeg.
//
//	batch [-w W] [-h H] -o <dir> <files...>
//	        Write thumbnails for many files on a worker pool. Ctrl-C stops
//	        dispatching new files.
//
//	version
//	        Print build information.
//
// Exit status is 0 on success, 1 when a command fails and 2 on bad usage.
// See package startup for the environment variables.
package main
