package thumbnails

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"testing"
	"time"
)

func pngFrame(t *testing.T, width, height int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := 0; x < width; x++ {
		for y := 0; y < height; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x % 256), G: uint8(y % 256), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatalf("encode png: %v", err)
	}
	return buf.Bytes()
}

func TestExtractorExtract(t *testing.T) {
	extractor := NewExtractor("ffmpeg", time.Second, 80, 640)

	var gotArgs []string
	extractor.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		gotArgs = args
		return pngFrame(t, 320, 240), nil
	}

	data, err := extractor.Extract(context.Background(), "video_uploads/clip.mp4", 90)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("output is not a decodable JPEG: %v", err)
	}
	if img.Bounds().Dx() != 320 || img.Bounds().Dy() != 240 {
		t.Fatalf("unexpected thumbnail bounds: %v", img.Bounds())
	}

	wantFilter := `select=eq(n\,90)`
	found := false
	for i, arg := range gotArgs {
		if arg == "-vf" && i+1 < len(gotArgs) && gotArgs[i+1] == wantFilter {
			found = true
		}
	}
	if !found {
		t.Fatalf("frame select filter missing from args: %v", gotArgs)
	}
}

func TestExtractorBoundsLargeFrames(t *testing.T) {
	extractor := NewExtractor("ffmpeg", time.Second, 80, 100)
	extractor.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		return pngFrame(t, 400, 200), nil
	}

	data, err := extractor.Extract(context.Background(), "clip.mp4", 90)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}

	img, err := jpeg.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode jpeg: %v", err)
	}
	if img.Bounds().Dx() > 100 || img.Bounds().Dy() > 100 {
		t.Fatalf("thumbnail exceeds max edge: %v", img.Bounds())
	}
}

func TestExtractorShortVideo(t *testing.T) {
	extractor := NewExtractor("ffmpeg", time.Second, 80, 640)
	extractor.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		return nil, nil
	}

	if _, err := extractor.Extract(context.Background(), "short.mp4", 90); !errors.Is(err, ErrExtract) {
		t.Fatalf("expected ErrExtract for short video, got %v", err)
	}
}

func TestExtractorDecoderFailure(t *testing.T) {
	extractor := NewExtractor("ffmpeg", time.Second, 80, 640)
	extractor.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		return nil, errors.New("exit status 1")
	}

	if _, err := extractor.Extract(context.Background(), "corrupt.mp4", 90); !errors.Is(err, ErrExtract) {
		t.Fatalf("expected ErrExtract for ffmpeg failure, got %v", err)
	}
}

func TestExtractorGarbageOutput(t *testing.T) {
	extractor := NewExtractor("ffmpeg", time.Second, 80, 640)
	extractor.Run = func(ctx context.Context, binary string, args ...string) ([]byte, error) {
		return []byte("not an image"), nil
	}

	if _, err := extractor.Extract(context.Background(), "corrupt.mp4", 90); !errors.Is(err, ErrExtract) {
		t.Fatalf("expected ErrExtract for undecodable output, got %v", err)
	}
}
