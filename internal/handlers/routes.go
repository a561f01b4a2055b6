package handlers

import (
	"net/http"
	"time"
)

// Dependencies aggregates collaborators required by HTTP handlers.
type Dependencies struct {
	Users    UserStore
	Videos   VideoStore
	Sessions SessionManager
	Auth     Authenticator
	Media    MediaStore
	Uploads  UploadService
	Hasher   PasswordHasher

	LoginLimiter  RateLimiter
	SessionCookie string
	SessionTTL    time.Duration
}

// RegisterRoutes wires HTTP handlers into the provided ServeMux.
func RegisterRoutes(mux *http.ServeMux, deps Dependencies) {
	sessions := Sessions{
		Manager: deps.Sessions,
		Users:   deps.Users,
		Cookie:  deps.SessionCookie,
		TTL:     deps.SessionTTL,
	}

	health := HealthHandler{}
	home := HomeHandler{Media: deps.Media, Uploads: deps.Uploads, Sessions: sessions}
	media := MediaHandler{Media: deps.Media, Uploads: deps.Uploads}
	watch := WatchHandler{Videos: deps.Videos}
	upload := UploadHandler{Uploads: deps.Uploads}
	authh := AuthHandler{Auth: deps.Auth, Sessions: sessions, Limiter: deps.LoginLimiter}
	admin := AdminHandler{Resources: []AdminResource{
		NewUserResource(deps.Users, deps.Hasher),
		NewVideoResource(deps.Videos, deps.Uploads),
	}}

	mux.HandleFunc("/healthz", health.Handle)
	mux.HandleFunc("/{$}", home.Handle)
	mux.HandleFunc("/videos_uploads/{filename}", media.ServeVideo)
	mux.HandleFunc("/thumbnail_uploads/{imagename}/{$}", media.ServeThumbnail)
	mux.HandleFunc("/video/{videoname}/delete", media.Delete)
	mux.HandleFunc("/watch/{videoname}", sessions.Require(watch.Handle))
	mux.HandleFunc("/upload", sessions.Require(upload.Handle))
	mux.HandleFunc("/login", authh.Login)
	mux.HandleFunc("/logout", authh.Logout)
	mux.HandleFunc("/admin/", sessions.Require(admin.Handle))
}
