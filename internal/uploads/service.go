package uploads

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/clipshelf/backend/internal/logging"
	"github.com/clipshelf/backend/internal/mediastore"
	"github.com/clipshelf/backend/internal/models"
)

// MediaStore captures the media operations the upload service performs.
type MediaStore interface {
	SaveVideo(ctx context.Context, name string, r io.Reader) error
	SaveThumbnail(ctx context.Context, name string, data []byte) error
	Delete(ctx context.Context, name string) error
	StageVideo(ctx context.Context, name string) (string, func(), error)
}

// FrameExtractor derives a JPEG thumbnail from a local video file.
type FrameExtractor interface {
	Extract(ctx context.Context, videoPath string, frameIndex int) ([]byte, error)
}

// VideoRecords captures the persistence the upload service needs.
type VideoRecords interface {
	Create(ctx context.Context, video models.PostVideo) error
	DeleteByVideoName(ctx context.Context, name string) error
}

// Service is the single upload path shared by the public upload routes and
// the admin console: media write, thumbnail derivation, and record creation
// happen together so files and rows stay consistent.
type Service struct {
	Media      MediaStore
	Extractor  FrameExtractor
	Videos     VideoRecords
	FrameIndex int
	NowFunc    func() time.Time
}

// NewService wires the upload pipeline.
func NewService(media MediaStore, extractor FrameExtractor, videos VideoRecords, frameIndex int) *Service {
	if frameIndex <= 0 {
		frameIndex = 90
	}
	return &Service{
		Media:      media,
		Extractor:  extractor,
		Videos:     videos,
		FrameIndex: frameIndex,
	}
}

// CreateVideoRecord stores the upload, derives its thumbnail, and persists
// the metadata row. An empty title falls back to the filename. Thumbnail
// extraction failure is logged and leaves the video without a thumbnail; it
// never fails the upload.
func (s *Service) CreateVideoRecord(ctx context.Context, title, filename string, r io.Reader) (models.PostVideo, error) {
	if filename == "" {
		return models.PostVideo{}, fmt.Errorf("filename must be provided")
	}
	if title == "" {
		title = filename
	}

	if err := s.Media.SaveVideo(ctx, filename, r); err != nil {
		return models.PostVideo{}, fmt.Errorf("store video: %w", err)
	}

	s.deriveThumbnail(ctx, filename)

	now := s.now()
	video := models.PostVideo{
		ID:        uuid.NewString(),
		Title:     title,
		Video:     filename,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.Videos.Create(ctx, video); err != nil {
		return models.PostVideo{}, fmt.Errorf("create video record: %w", err)
	}

	return video, nil
}

// DeleteVideo removes the media artifacts and any matching metadata rows.
// Already-missing files count as success so repeated deletes stay harmless.
func (s *Service) DeleteVideo(ctx context.Context, logicalName string) error {
	if err := s.Media.Delete(ctx, logicalName); err != nil {
		return fmt.Errorf("delete media: %w", err)
	}
	if err := s.Videos.DeleteByVideoName(ctx, logicalName); err != nil {
		return fmt.Errorf("delete records: %w", err)
	}
	return nil
}

func (s *Service) deriveThumbnail(ctx context.Context, filename string) {
	ctx, span := logging.StartSpan(ctx, "derive_thumbnail")
	defer span.End()

	logger := logging.FromContext(ctx)

	path, cleanup, err := s.Media.StageVideo(ctx, filename)
	if err != nil {
		logger.Warn("stage video for thumbnail", "video", filename, "error", err)
		return
	}
	defer cleanup()

	data, err := s.Extractor.Extract(ctx, path, s.FrameIndex)
	if err != nil {
		logger.Warn("thumbnail extraction failed", "video", filename, "frame", s.FrameIndex, "error", err)
		return
	}

	if err := s.Media.SaveThumbnail(ctx, mediastore.ThumbnailName(filename), data); err != nil {
		logger.Error("store thumbnail", "video", filename, "error", err)
	}
}

func (s *Service) now() time.Time {
	if s.NowFunc != nil {
		return s.NowFunc()
	}
	return time.Now().UTC()
}
