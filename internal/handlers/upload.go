package handlers

import (
	"net/http"

	"github.com/clipshelf/backend/internal/logging"
	"github.com/clipshelf/backend/internal/models"
)

// UploadHandler renders the titled-upload form and accepts submissions.
type UploadHandler struct {
	Uploads UploadService
}

type uploadPage struct {
	User  *models.User
	Error string
}

// Handle implements GET and POST /upload.
func (h UploadHandler) Handle(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	page := uploadPage{}
	if user, ok := PrincipalFromContext(ctx); ok {
		page.User = &user
	}

	switch r.Method {
	case http.MethodGet:
		renderPage(ctx, w, "upload.html", page)
	case http.MethodPost:
		file, header, err := r.FormFile("video")
		if err != nil {
			page.Error = "a video file is required"
			renderPage(ctx, w, "upload.html", page)
			return
		}
		defer file.Close()

		title := r.FormValue("title")
		if _, err := h.Uploads.CreateVideoRecord(ctx, title, header.Filename, file); err != nil {
			logging.FromContext(ctx).Error("create video record", "filename", header.Filename, "error", err)
			page.Error = "upload failed, try again"
			renderPage(ctx, w, "upload.html", page)
			return
		}

		http.Redirect(w, r, "/", http.StatusFound)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}
