package mediastore

import (
	"context"
	"errors"
	"io"
)

// ErrNotFound indicates the requested media artifact does not exist.
var ErrNotFound = errors.New("media not found")

// Store holds the two artifact kinds ClipShelf derives from an upload: the
// raw video and its sibling thumbnail, linked by the logical filename
// ("<name>" and "<name>.jpg").
type Store interface {
	// SaveVideo writes the raw upload under its logical filename,
	// overwriting any previous file of the same name.
	SaveVideo(ctx context.Context, name string, r io.Reader) error
	// SaveThumbnail writes the derived JPEG beside the video.
	SaveThumbnail(ctx context.Context, name string, data []byte) error
	// OpenVideo streams the raw video bytes; ErrNotFound when absent.
	OpenVideo(ctx context.Context, name string) (io.ReadCloser, error)
	// OpenThumbnail streams a thumbnail by its full name ("<video>.jpg").
	OpenThumbnail(ctx context.Context, name string) (io.ReadCloser, error)
	// ListThumbnails returns all thumbnail names, sorted.
	ListThumbnails(ctx context.Context) ([]string, error)
	// Delete removes the video and its thumbnail. Missing files are
	// treated as success so deletes stay idempotent.
	Delete(ctx context.Context, name string) error
	// StageVideo makes the video available at a local filesystem path for
	// the frame decoder. The cleanup func releases any staging copy.
	StageVideo(ctx context.Context, name string) (path string, cleanup func(), err error)
}

// ThumbnailName maps a logical video filename to its thumbnail name.
func ThumbnailName(video string) string {
	return video + ".jpg"
}
