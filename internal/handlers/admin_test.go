package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
)

func adminGet(env *testEnv, cookie *http.Cookie, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if cookie != nil {
		req.AddCookie(cookie)
	}
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	return rec
}

func adminPostForm(env *testEnv, cookie *http.Cookie, path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.AddCookie(cookie)
	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)
	return rec
}

func TestAdminRequiresLogin(t *testing.T) {
	env := newTestEnv(t)

	rec := adminGet(env, nil, "/admin/")
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/login" {
		t.Fatalf("expected redirect to /login, got %d %q", rec.Code, rec.Header().Get("Location"))
	}
}

func TestAdminIndexListsResources(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, "Alice", "alice", "hunter2")

	rec := adminGet(env, cookie, "/admin/")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "/admin/users") || !strings.Contains(body, "/admin/videos") {
		t.Fatalf("expected links to both resources, got: %s", body)
	}
}

func TestAdminUnknownResource(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, "Alice", "alice", "hunter2")

	rec := adminGet(env, cookie, "/admin/widgets")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAdminCreateUserHashesPassword(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, "Alice", "alice", "hunter2")

	rec := adminPostForm(env, cookie, "/admin/users/new", url.Values{
		"name":     {"Bob"},
		"username": {"bob"},
		"password": {"secret"},
	})
	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/admin/users" {
		t.Fatalf("expected redirect to list, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	user, err := env.users.FindByUsername(context.Background(), "bob")
	if err != nil {
		t.Fatalf("expected created user: %v", err)
	}
	if user.PasswordHash != "hashed:secret" {
		t.Fatalf("expected hashed password, got %q", user.PasswordHash)
	}
}

func TestAdminCreateUserRequiresPassword(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, "Alice", "alice", "hunter2")

	rec := adminPostForm(env, cookie, "/admin/users/new", url.Values{
		"name":     {"Bob"},
		"username": {"bob"},
	})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected form re-render, got %d", rec.Code)
	}
	if _, err := env.users.FindByUsername(context.Background(), "bob"); err == nil {
		t.Fatal("expected user not to be created")
	}
}

func TestAdminEditUserKeepsPassword(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, "Alice", "alice", "hunter2")

	adminPostForm(env, cookie, "/admin/users/new", url.Values{
		"name":     {"Bob"},
		"username": {"bob"},
		"password": {"secret"},
	})
	user, err := env.users.FindByUsername(context.Background(), "bob")
	if err != nil {
		t.Fatalf("find user: %v", err)
	}

	rec := adminPostForm(env, cookie, "/admin/users/"+user.ID+"/edit", url.Values{
		"name":     {"Robert"},
		"username": {"bob"},
	})
	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}

	updated, err := env.users.FindByID(context.Background(), user.ID)
	if err != nil {
		t.Fatalf("find updated user: %v", err)
	}
	if updated.Name != "Robert" {
		t.Fatalf("expected updated name, got %q", updated.Name)
	}
	if updated.PasswordHash != user.PasswordHash {
		t.Fatal("expected password hash unchanged when field left empty")
	}
}

func TestAdminDeleteUserIdempotent(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, "Alice", "alice", "hunter2")

	rec := adminPostForm(env, cookie, "/admin/users/does-not-exist/delete", url.Values{})
	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect for missing user, got %d", rec.Code)
	}
}

func TestAdminCreateVideoRunsUploadPipeline(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, "Alice", "alice", "hunter2")

	body, contentType := multipartUpload(t, map[string]string{"title": "Console Clip"}, "console.mp4", []byte("video-bytes"))
	req := httptest.NewRequest(http.MethodPost, "/admin/videos/new", body)
	req.Header.Set("Content-Type", contentType)
	req.AddCookie(cookie)

	rec := httptest.NewRecorder()
	env.mux.ServeHTTP(rec, req)

	if rec.Code != http.StatusFound || rec.Header().Get("Location") != "/admin/videos" {
		t.Fatalf("expected redirect to list, got %d %q", rec.Code, rec.Header().Get("Location"))
	}

	video, err := env.videos.FindByVideoName(context.Background(), "console.mp4")
	if err != nil {
		t.Fatalf("expected metadata row: %v", err)
	}
	if video.Title != "Console Clip" {
		t.Fatalf("expected submitted title, got %q", video.Title)
	}
	if !env.hasVideo(t, "console.mp4") || !env.hasThumbnail(t, "console.mp4.jpg") {
		t.Fatal("expected stored video and thumbnail")
	}
}

func TestAdminCreateVideoRequiresFile(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, "Alice", "alice", "hunter2")

	rec := adminPostForm(env, cookie, "/admin/videos/new", url.Values{"title": {"No File"}})
	if rec.Code != http.StatusOK {
		t.Fatalf("expected form re-render, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "a video file is required") {
		t.Fatalf("expected validation message, got: %s", rec.Body.String())
	}
}

func TestAdminDeleteVideoCleansUpMedia(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, "Alice", "alice", "hunter2")

	body, contentType := multipartUpload(t, nil, "console.mp4", []byte("video-bytes"))
	upload := httptest.NewRequest(http.MethodPost, "/admin/videos/new", body)
	upload.Header.Set("Content-Type", contentType)
	upload.AddCookie(cookie)
	env.mux.ServeHTTP(httptest.NewRecorder(), upload)

	video, err := env.videos.FindByVideoName(context.Background(), "console.mp4")
	if err != nil {
		t.Fatalf("expected metadata row: %v", err)
	}

	rec := adminPostForm(env, cookie, "/admin/videos/"+video.ID+"/delete", url.Values{})
	if rec.Code != http.StatusFound {
		t.Fatalf("expected redirect, got %d", rec.Code)
	}

	if env.hasVideo(t, "console.mp4") || env.hasThumbnail(t, "console.mp4.jpg") {
		t.Fatal("expected media files removed")
	}
	if _, err := env.videos.FindByID(context.Background(), video.ID); err == nil {
		t.Fatal("expected metadata row removed")
	}
}

func TestAdminVideoListShowsRows(t *testing.T) {
	env := newTestEnv(t)
	cookie := env.signIn(t, "Alice", "alice", "hunter2")

	body, contentType := multipartUpload(t, map[string]string{"title": "Console Clip"}, "console.mp4", []byte("video-bytes"))
	upload := httptest.NewRequest(http.MethodPost, "/admin/videos/new", body)
	upload.Header.Set("Content-Type", contentType)
	upload.AddCookie(cookie)
	env.mux.ServeHTTP(httptest.NewRecorder(), upload)

	rec := adminGet(env, cookie, "/admin/videos")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Console Clip") {
		t.Fatalf("expected video row, got: %s", rec.Body.String())
	}
}
