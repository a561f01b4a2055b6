package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/clipshelf/backend/internal/models"
	"github.com/clipshelf/backend/internal/repositories"
)

// NewUserResource exposes the users table through the admin console.
func NewUserResource(users UserStore, hash PasswordHasher) AdminResource {
	return &userResource{users: users, hash: hash}
}

type userResource struct {
	users UserStore
	hash  PasswordHasher
}

func (res *userResource) Slug() string      { return "users" }
func (res *userResource) Title() string     { return "Users" }
func (res *userResource) Columns() []string { return []string{"ID", "Name", "Username", "Created"} }

func (res *userResource) List(ctx context.Context) ([]AdminItem, error) {
	users, err := res.users.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]AdminItem, 0, len(users))
	for _, user := range users {
		items = append(items, AdminItem{
			ID:    user.ID,
			Cells: []string{user.ID, user.Name, user.Username, user.CreatedAt.Format(time.RFC3339)},
		})
	}
	return items, nil
}

func (res *userResource) Form(ctx context.Context, id string) ([]FormField, error) {
	fields := []FormField{
		{Name: "name", Label: "Name", Kind: "text"},
		{Name: "username", Label: "Username", Kind: "text"},
		{Name: "password", Label: "Password", Kind: "password"},
	}

	if id == "" {
		return fields, nil
	}

	user, err := res.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fields[0].Value = user.Name
	fields[1].Value = user.Username
	return fields, nil
}

func (res *userResource) Save(ctx context.Context, id string, sub FormSubmission) error {
	name := sub.Values.Get("name")
	username := sub.Values.Get("username")
	password := sub.Values.Get("password")

	if name == "" || username == "" {
		return errors.New("name and username are required")
	}

	if id == "" {
		if password == "" {
			return errors.New("password is required")
		}
		hashed, err := res.hash(password)
		if err != nil {
			return err
		}
		now := time.Now().UTC()
		return res.users.Create(ctx, models.User{
			ID:           uuid.NewString(),
			Name:         name,
			Username:     username,
			PasswordHash: hashed,
			CreatedAt:    now,
			UpdatedAt:    now,
		})
	}

	user, err := res.users.FindByID(ctx, id)
	if err != nil {
		return err
	}

	user.Name = name
	user.Username = username
	if password != "" {
		hashed, err := res.hash(password)
		if err != nil {
			return err
		}
		user.PasswordHash = hashed
	}
	user.UpdatedAt = time.Now().UTC()

	return res.users.Update(ctx, user)
}

func (res *userResource) Delete(ctx context.Context, id string) error {
	if err := res.users.Delete(ctx, id); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}
	return nil
}

// NewVideoResource exposes the post_videos table through the admin console.
// Creation runs through the shared upload service so the stored file, its
// thumbnail, and the metadata row stay consistent; deletion cleans up both
// media artifacts afterwards.
func NewVideoResource(videos VideoStore, uploads UploadService) AdminResource {
	return &videoResource{videos: videos, uploads: uploads}
}

type videoResource struct {
	videos  VideoStore
	uploads UploadService
}

func (res *videoResource) Slug() string      { return "videos" }
func (res *videoResource) Title() string     { return "Videos" }
func (res *videoResource) Columns() []string { return []string{"ID", "Title", "Video", "Created"} }

func (res *videoResource) List(ctx context.Context) ([]AdminItem, error) {
	videos, err := res.videos.List(ctx)
	if err != nil {
		return nil, err
	}

	items := make([]AdminItem, 0, len(videos))
	for _, video := range videos {
		items = append(items, AdminItem{
			ID:    video.ID,
			Cells: []string{video.ID, video.Title, video.Video, video.CreatedAt.Format(time.RFC3339)},
		})
	}
	return items, nil
}

func (res *videoResource) Form(ctx context.Context, id string) ([]FormField, error) {
	fields := []FormField{
		{Name: "title", Label: "Title", Kind: "text"},
		{Name: "video", Label: "Video", Kind: "file"},
	}

	if id == "" {
		return fields, nil
	}

	video, err := res.videos.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	fields[0].Value = video.Title
	// The stored file is not replaceable through the edit form.
	fields[1] = FormField{Name: "video_name", Label: "Video", Kind: "text", Value: video.Video}
	return fields, nil
}

// BeforePersist validates that a creation carries a file before anything is
// written.
func (res *videoResource) BeforePersist(_ context.Context, id string, sub *FormSubmission) error {
	if id == "" && sub.File == nil {
		return errors.New("a video file is required")
	}
	return nil
}

func (res *videoResource) Save(ctx context.Context, id string, sub FormSubmission) error {
	title := sub.Values.Get("title")

	if id == "" {
		if sub.File == nil {
			return errors.New("a video file is required")
		}
		_, err := res.uploads.CreateVideoRecord(ctx, title, sub.Filename, sub.File)
		return err
	}

	video, err := res.videos.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if title != "" {
		video.Title = title
	}
	video.UpdatedAt = time.Now().UTC()

	return res.videos.Update(ctx, video)
}

func (res *videoResource) Delete(ctx context.Context, id string) error {
	video, err := res.videos.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil
		}
		return err
	}

	if err := res.videos.Delete(ctx, id); err != nil && !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	return res.AfterDelete(ctx, video.Video)
}

// AfterDelete removes the stored video and thumbnail once the row is gone.
func (res *videoResource) AfterDelete(ctx context.Context, logicalName string) error {
	return res.uploads.DeleteVideo(ctx, logicalName)
}
