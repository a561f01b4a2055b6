package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/clipshelf/backend/internal/auth"
	"github.com/clipshelf/backend/internal/config"
	"github.com/clipshelf/backend/internal/db"
	"github.com/clipshelf/backend/internal/handlers"
	"github.com/clipshelf/backend/internal/mediastore"
	"github.com/clipshelf/backend/internal/middleware"
	"github.com/clipshelf/backend/internal/repositories"
	"github.com/clipshelf/backend/internal/thumbnails"
	"github.com/clipshelf/backend/internal/uploads"
)

// buildDependencies wires together concrete implementations used by the HTTP handlers.
func buildDependencies(ctx context.Context, pool db.Pool, cfg config.Config) (handlers.Dependencies, error) {
	media, err := buildMediaStore(ctx, cfg)
	if err != nil {
		return handlers.Dependencies{}, err
	}

	users := repositories.NewPostgresUserRepository(pool)
	videos := repositories.NewPostgresVideoRepository(pool)
	sessionStore := repositories.NewPostgresSessionStore(pool)

	extractor := thumbnails.NewExtractor(cfg.FFmpegPath, cfg.FFmpegTimeout, cfg.ThumbnailQuality, cfg.ThumbnailMaxEdge)
	uploadService := uploads.NewService(media, extractor, videos, cfg.ThumbnailFrame)

	return handlers.Dependencies{
		Users:    users,
		Videos:   videos,
		Sessions: auth.NewManager(cfg.SessionTTL, sessionStore),
		Auth:     auth.NewService(users),
		Media:    media,
		Uploads:  uploadService,
		Hasher:   hashPassword,

		LoginLimiter:  middleware.NewIPRateLimiter(cfg.LoginRatePerMinute, time.Minute, cfg.LoginBurst, 10*time.Minute),
		SessionCookie: cfg.SessionCookie,
		SessionTTL:    cfg.SessionTTL,
	}, nil
}

func buildMediaStore(ctx context.Context, cfg config.Config) (mediastore.Store, error) {
	switch cfg.MediaBackend {
	case config.MediaBackendS3:
		return mediastore.NewS3Store(ctx, cfg.ObjectStore)
	case config.MediaBackendFS, "":
		return mediastore.NewFilesystemStore(cfg.VideoDir, cfg.ThumbnailDir)
	default:
		return nil, fmt.Errorf("unknown media backend %q", cfg.MediaBackend)
	}
}

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hashed), nil
}
