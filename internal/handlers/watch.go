package handlers

import (
	"errors"
	"net/http"

	"github.com/clipshelf/backend/internal/logging"
	"github.com/clipshelf/backend/internal/models"
	"github.com/clipshelf/backend/internal/repositories"
)

// WatchHandler renders the playback page for a stored video.
type WatchHandler struct {
	Videos VideoStore
}

type watchPage struct {
	User      *models.User
	VideoName string
	Video     *models.PostVideo
}

// Handle implements GET /watch/{videoname}. The gallery links carry thumbnail
// names, so the trailing extension is stripped before the record lookup. A
// missing record still renders; the page then falls back to the filename.
func (h WatchHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	name := stripExtension(r.PathValue("videoname"))

	page := watchPage{VideoName: name}
	if user, ok := PrincipalFromContext(ctx); ok {
		page.User = &user
	}

	video, err := h.Videos.FindByVideoName(ctx, name)
	switch {
	case err == nil:
		page.Video = &video
	case errors.Is(err, repositories.ErrNotFound):
		// No metadata row; play the raw file anyway.
	default:
		logging.FromContext(ctx).Error("look up video record", "video", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	renderPage(ctx, w, "watch.html", page)
}
