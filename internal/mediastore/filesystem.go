package mediastore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
)

// FilesystemStore keeps videos and thumbnails in two local directories,
// mirroring how they are exposed over HTTP.
type FilesystemStore struct {
	videoDir     string
	thumbnailDir string
}

// NewFilesystemStore creates the backing directories if needed.
func NewFilesystemStore(videoDir, thumbnailDir string) (*FilesystemStore, error) {
	for _, dir := range []string{videoDir, thumbnailDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("create media dir %s: %w", dir, err)
		}
	}
	return &FilesystemStore{videoDir: videoDir, thumbnailDir: thumbnailDir}, nil
}

// SaveVideo writes the upload under its logical filename, last writer wins.
func (s *FilesystemStore) SaveVideo(_ context.Context, name string, r io.Reader) error {
	path, err := s.videoPath(name)
	if err != nil {
		return err
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create video file: %w", err)
	}
	defer out.Close()

	if _, err := io.Copy(out, r); err != nil {
		return fmt.Errorf("write video file: %w", err)
	}
	return nil
}

// SaveThumbnail writes the derived JPEG bytes.
func (s *FilesystemStore) SaveThumbnail(_ context.Context, name string, data []byte) error {
	path, err := s.thumbnailPath(name)
	if err != nil {
		return err
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("write thumbnail: %w", err)
	}
	return nil
}

// OpenVideo streams the stored video bytes.
func (s *FilesystemStore) OpenVideo(_ context.Context, name string) (io.ReadCloser, error) {
	path, err := s.videoPath(name)
	if err != nil {
		return nil, err
	}
	return openFile(path)
}

// OpenThumbnail streams the stored thumbnail bytes.
func (s *FilesystemStore) OpenThumbnail(_ context.Context, name string) (io.ReadCloser, error) {
	path, err := s.thumbnailPath(name)
	if err != nil {
		return nil, err
	}
	return openFile(path)
}

// ListThumbnails returns the thumbnail directory contents, sorted by name.
func (s *FilesystemStore) ListThumbnails(_ context.Context) ([]string, error) {
	entries, err := os.ReadDir(s.thumbnailDir)
	if err != nil {
		return nil, fmt.Errorf("read thumbnail dir: %w", err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)
	return names, nil
}

// Delete removes the video and its thumbnail, treating missing files as done.
func (s *FilesystemStore) Delete(_ context.Context, name string) error {
	videoPath, err := s.videoPath(name)
	if err != nil {
		return err
	}
	thumbPath, err := s.thumbnailPath(ThumbnailName(name))
	if err != nil {
		return err
	}

	for _, path := range []string{videoPath, thumbPath} {
		if err := os.Remove(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("remove %s: %w", path, err)
		}
	}
	return nil
}

// StageVideo returns the on-disk path directly; no staging copy is needed.
func (s *FilesystemStore) StageVideo(_ context.Context, name string) (string, func(), error) {
	path, err := s.videoPath(name)
	if err != nil {
		return "", nil, err
	}
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil, ErrNotFound
		}
		return "", nil, fmt.Errorf("stat video file: %w", err)
	}
	return path, func() {}, nil
}

func (s *FilesystemStore) videoPath(name string) (string, error) {
	return joinSafe(s.videoDir, name)
}

func (s *FilesystemStore) thumbnailPath(name string) (string, error) {
	return joinSafe(s.thumbnailDir, name)
}

// joinSafe confines names to the base directory; uploads carry user-chosen
// filenames, so anything with path separators is reduced to its base.
func joinSafe(dir, name string) (string, error) {
	base := filepath.Base(filepath.Clean(name))
	if base == "." || base == ".." || base == string(filepath.Separator) {
		return "", fmt.Errorf("invalid media name %q", name)
	}
	return filepath.Join(dir, base), nil
}

func openFile(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("open media file: %w", err)
	}
	return f, nil
}
