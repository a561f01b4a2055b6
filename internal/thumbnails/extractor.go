package thumbnails

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"image"
	"image/jpeg"
	_ "image/png"
	"os/exec"
	"strings"
	"time"

	"github.com/nfnt/resize"
)

// ErrExtract indicates the target frame could not be decoded, typically
// because the video is shorter than the frame offset or the file is corrupt.
var ErrExtract = errors.New("thumbnail extraction failed")

// CommandRunner executes external commands and returns stdout bytes.
type CommandRunner func(ctx context.Context, binary string, args ...string) ([]byte, error)

// Extractor decodes a single representative frame from a video file by
// shelling out to ffmpeg and re-encodes it as a bounded JPEG.
type Extractor struct {
	Binary  string
	Run     CommandRunner
	Timeout time.Duration
	Quality int
	MaxEdge int
}

// NewExtractor constructs an Extractor that shells out to ffmpeg.
func NewExtractor(binary string, timeout time.Duration, quality, maxEdge int) *Extractor {
	if strings.TrimSpace(binary) == "" {
		binary = "ffmpeg"
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	if quality <= 0 || quality > 100 {
		quality = 80
	}
	if maxEdge <= 0 {
		maxEdge = 640
	}
	return &Extractor{
		Binary:  binary,
		Run:     defaultCommandRunner,
		Timeout: timeout,
		Quality: quality,
		MaxEdge: maxEdge,
	}
}

// Extract decodes the frame at the given 0-based index and returns JPEG bytes.
// Failures wrap ErrExtract; callers treat them as non-fatal and leave the
// video without a thumbnail.
func (e *Extractor) Extract(ctx context.Context, videoPath string, frameIndex int) ([]byte, error) {
	if e == nil {
		return nil, ErrExtract
	}
	if e.Run == nil {
		e.Run = defaultCommandRunner
	}

	execCtx, cancel := context.WithTimeout(ctx, e.Timeout)
	defer cancel()

	args := []string{
		"-hide_banner", "-loglevel", "error",
		"-i", videoPath,
		"-vf", fmt.Sprintf("select=eq(n\\,%d)", frameIndex),
		"-frames:v", "1",
		"-f", "image2pipe",
		"-vcodec", "png",
		"-",
	}

	out, err := e.Run(execCtx, e.Binary, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: ffmpeg: %v", ErrExtract, err)
	}
	if len(out) == 0 {
		// ffmpeg exits zero with empty output when the select filter
		// never matches, i.e. the video has fewer frames than asked.
		return nil, fmt.Errorf("%w: no frame at index %d", ErrExtract, frameIndex)
	}

	frame, _, err := image.Decode(bytes.NewReader(out))
	if err != nil {
		return nil, fmt.Errorf("%w: decode frame: %v", ErrExtract, err)
	}

	bounded := resize.Thumbnail(uint(e.MaxEdge), uint(e.MaxEdge), frame, resize.Lanczos3)

	var buf bytes.Buffer
	if err := jpeg.Encode(&buf, bounded, &jpeg.Options{Quality: e.Quality}); err != nil {
		return nil, fmt.Errorf("encode thumbnail: %w", err)
	}

	return buf.Bytes(), nil
}

func defaultCommandRunner(ctx context.Context, binary string, args ...string) ([]byte, error) {
	cmd := exec.CommandContext(ctx, binary, args...)
	return cmd.Output()
}
