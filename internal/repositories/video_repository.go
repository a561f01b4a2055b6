package repositories

import (
	"context"

	"github.com/clipshelf/backend/internal/models"
)

// VideoRepository exposes data access for uploaded video records.
type VideoRepository interface {
	Create(ctx context.Context, video models.PostVideo) error
	FindByID(ctx context.Context, id string) (models.PostVideo, error)
	FindByVideoName(ctx context.Context, name string) (models.PostVideo, error)
	List(ctx context.Context) ([]models.PostVideo, error)
	Update(ctx context.Context, video models.PostVideo) error
	Delete(ctx context.Context, id string) error
	DeleteByVideoName(ctx context.Context, name string) error
}
