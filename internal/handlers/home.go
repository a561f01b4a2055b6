package handlers

import (
	"net/http"

	"github.com/clipshelf/backend/internal/logging"
	"github.com/clipshelf/backend/internal/models"
)

// HomeHandler renders the thumbnail gallery and accepts direct uploads.
type HomeHandler struct {
	Media    MediaStore
	Uploads  UploadService
	Sessions Sessions
}

type homePage struct {
	User       *models.User
	Thumbnails []string
	Flash      string
}

// Handle implements GET and POST /.
func (h HomeHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.renderHome(w, r)
	case http.MethodPost:
		h.acceptUpload(w, r)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (h HomeHandler) renderHome(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	thumbnails, err := h.Media.ListThumbnails(ctx)
	if err != nil {
		logger.Error("list thumbnails", "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	page := homePage{Thumbnails: thumbnails, Flash: takeFlash(w, r)}
	if user, ok := h.Sessions.CurrentUser(r); ok {
		page.User = &user
	}

	renderPage(ctx, w, "home.html", page)
}

func (h HomeHandler) acceptUpload(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	file, header, err := r.FormFile("video")
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte("No video uploaded"))
		return
	}
	defer file.Close()

	if _, err := h.Uploads.CreateVideoRecord(ctx, "", header.Filename, file); err != nil {
		logger.Error("store upload", "filename", header.Filename, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	logger.Info("video uploaded", "filename", header.Filename)
	h.renderHome(w, r)
}
