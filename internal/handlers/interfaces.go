package handlers

import (
	"context"
	"io"

	"github.com/clipshelf/backend/internal/auth"
	"github.com/clipshelf/backend/internal/models"
)

// UserStore captures the persistence operations required by the handlers.
type UserStore interface {
	Create(ctx context.Context, user models.User) error
	FindByID(ctx context.Context, id string) (models.User, error)
	FindByUsername(ctx context.Context, username string) (models.User, error)
	List(ctx context.Context) ([]models.User, error)
	Update(ctx context.Context, user models.User) error
	Delete(ctx context.Context, id string) error
}

// VideoStore captures persistence for video metadata records.
type VideoStore interface {
	Create(ctx context.Context, video models.PostVideo) error
	FindByID(ctx context.Context, id string) (models.PostVideo, error)
	FindByVideoName(ctx context.Context, name string) (models.PostVideo, error)
	List(ctx context.Context) ([]models.PostVideo, error)
	Update(ctx context.Context, video models.PostVideo) error
	Delete(ctx context.Context, id string) error
}

// SessionManager issues and resolves browser sessions.
type SessionManager interface {
	Issue(ctx context.Context, userID string) (auth.Session, error)
	Resolve(ctx context.Context, token string) (string, error)
	Revoke(ctx context.Context, token string)
}

// Authenticator resolves login form submissions to accounts.
type Authenticator interface {
	LoginOrRegister(ctx context.Context, name, username, password string) (models.User, error)
}

// MediaStore captures the read side of stored media for the serving routes.
type MediaStore interface {
	OpenVideo(ctx context.Context, name string) (io.ReadCloser, error)
	OpenThumbnail(ctx context.Context, name string) (io.ReadCloser, error)
	ListThumbnails(ctx context.Context) ([]string, error)
}

// UploadService is the unified upload path shared by the public routes and
// the admin console.
type UploadService interface {
	CreateVideoRecord(ctx context.Context, title, filename string, r io.Reader) (models.PostVideo, error)
	DeleteVideo(ctx context.Context, logicalName string) error
}

// PasswordHasher converts admin-supplied passwords into stored hashes.
type PasswordHasher func(password string) (string, error)
