package handlers

import (
	"bytes"
	"context"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/clipshelf/backend/internal/auth"
	"github.com/clipshelf/backend/internal/mediastore"
	"github.com/clipshelf/backend/internal/models"
	"github.com/clipshelf/backend/internal/repositories"
	"github.com/clipshelf/backend/internal/uploads"
)

type memUserStore struct {
	mu    sync.Mutex
	users map[string]models.User
}

func newMemUserStore() *memUserStore {
	return &memUserStore{users: make(map[string]models.User)}
}

func (s *memUserStore) Create(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, existing := range s.users {
		if existing.Username == user.Username {
			return repositories.ErrConflict
		}
	}
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) FindByID(_ context.Context, id string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	user, ok := s.users[id]
	if !ok {
		return models.User{}, repositories.ErrNotFound
	}
	return user, nil
}

func (s *memUserStore) FindByUsername(_ context.Context, username string) (models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, user := range s.users {
		if user.Username == username {
			return user, nil
		}
	}
	return models.User{}, repositories.ErrNotFound
}

func (s *memUserStore) List(_ context.Context) ([]models.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	users := make([]models.User, 0, len(s.users))
	for _, user := range s.users {
		users = append(users, user)
	}
	sort.Slice(users, func(i, j int) bool { return users[i].Username < users[j].Username })
	return users, nil
}

func (s *memUserStore) Update(_ context.Context, user models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[user.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.users[user.ID] = user
	return nil
}

func (s *memUserStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.users, id)
	return nil
}

type memVideoStore struct {
	mu     sync.Mutex
	videos map[string]models.PostVideo
}

func newMemVideoStore() *memVideoStore {
	return &memVideoStore{videos: make(map[string]models.PostVideo)}
}

func (s *memVideoStore) Create(_ context.Context, video models.PostVideo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[video.ID]; ok {
		return repositories.ErrConflict
	}
	s.videos[video.ID] = video
	return nil
}

func (s *memVideoStore) FindByID(_ context.Context, id string) (models.PostVideo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	video, ok := s.videos[id]
	if !ok {
		return models.PostVideo{}, repositories.ErrNotFound
	}
	return video, nil
}

func (s *memVideoStore) FindByVideoName(_ context.Context, name string) (models.PostVideo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, video := range s.videos {
		if video.Video == name {
			return video, nil
		}
	}
	return models.PostVideo{}, repositories.ErrNotFound
}

func (s *memVideoStore) List(_ context.Context) ([]models.PostVideo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	videos := make([]models.PostVideo, 0, len(s.videos))
	for _, video := range s.videos {
		videos = append(videos, video)
	}
	sort.Slice(videos, func(i, j int) bool { return videos[i].Video < videos[j].Video })
	return videos, nil
}

func (s *memVideoStore) Update(_ context.Context, video models.PostVideo) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[video.ID]; !ok {
		return repositories.ErrNotFound
	}
	s.videos[video.ID] = video
	return nil
}

func (s *memVideoStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.videos[id]; !ok {
		return repositories.ErrNotFound
	}
	delete(s.videos, id)
	return nil
}

func (s *memVideoStore) DeleteByVideoName(_ context.Context, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, video := range s.videos {
		if video.Video == name {
			delete(s.videos, id)
		}
	}
	return nil
}

type stubExtractor struct {
	data []byte
	err  error
}

func (e stubExtractor) Extract(context.Context, string, int) ([]byte, error) {
	return e.data, e.err
}

type stubLimiter struct{ allow bool }

func (l stubLimiter) Allow(string) bool { return l.allow }

// testEnv wires the full route table against in-memory stores and a
// temp-directory media store.
type testEnv struct {
	mux    *http.ServeMux
	users  *memUserStore
	videos *memVideoStore
	media  *mediastore.FilesystemStore
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	media, err := mediastore.NewFilesystemStore(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatalf("create media store: %v", err)
	}

	users := newMemUserStore()
	videos := newMemVideoStore()
	uploadService := uploads.NewService(media, stubExtractor{data: []byte("jpeg-bytes")}, videos, 90)

	mux := http.NewServeMux()
	RegisterRoutes(mux, Dependencies{
		Users:         users,
		Videos:        videos,
		Sessions:      auth.NewManager(time.Hour, auth.NewInMemorySessionStore()),
		Auth:          auth.NewService(users),
		Media:         media,
		Uploads:       uploadService,
		Hasher:        func(password string) (string, error) { return "hashed:" + password, nil },
		LoginLimiter:  stubLimiter{allow: true},
		SessionCookie: "clipshelf_session",
		SessionTTL:    time.Hour,
	})

	return &testEnv{mux: mux, users: users, videos: videos, media: media}
}

// signIn registers (or authenticates) a user through the login form and
// returns the session cookie.
func (env *testEnv) signIn(t *testing.T, name, username, password string) *http.Cookie {
	t.Helper()

	form := "name=" + name + "&username=" + username + "&password=" + password
	req := httptest.NewRequest(http.MethodPost, "/login", bytes.NewBufferString(form))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound {
		t.Fatalf("expected login redirect, got status %d: %s", rec.Code, rec.Body.String())
	}
	for _, cookie := range rec.Result().Cookies() {
		if cookie.Name == "clipshelf_session" && cookie.Value != "" {
			return cookie
		}
	}
	t.Fatal("expected session cookie after login")
	return nil
}

// multipartUpload builds a multipart body with the given form fields and a
// single file part named "video".
func multipartUpload(t *testing.T, fields map[string]string, filename string, contents []byte) (*bytes.Buffer, string) {
	t.Helper()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	for key, value := range fields {
		if err := writer.WriteField(key, value); err != nil {
			t.Fatalf("write field %s: %v", key, err)
		}
	}
	if filename != "" {
		part, err := writer.CreateFormFile("video", filename)
		if err != nil {
			t.Fatalf("create file part: %v", err)
		}
		if _, err := part.Write(contents); err != nil {
			t.Fatalf("write file part: %v", err)
		}
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("close multipart writer: %v", err)
	}
	return body, writer.FormDataContentType()
}

func (env *testEnv) hasVideo(t *testing.T, name string) bool {
	t.Helper()
	reader, err := env.media.OpenVideo(context.Background(), name)
	if err != nil {
		return false
	}
	defer reader.Close()
	_, _ = io.Copy(io.Discard, reader)
	return true
}

func (env *testEnv) hasThumbnail(t *testing.T, name string) bool {
	t.Helper()
	reader, err := env.media.OpenThumbnail(context.Background(), name)
	if err != nil {
		return false
	}
	defer reader.Close()
	_, _ = io.Copy(io.Discard, reader)
	return true
}
