package handlers

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/clipshelf/backend/internal/logging"
	"github.com/clipshelf/backend/internal/mediastore"
)

// MediaHandler streams stored videos and thumbnails and serves the public
// delete route.
type MediaHandler struct {
	Media   MediaStore
	Uploads UploadService
}

// ServeVideo implements GET /videos_uploads/{filename}.
func (h MediaHandler) ServeVideo(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	name := r.PathValue("filename")
	reader, err := h.Media.OpenVideo(r.Context(), name)
	if err != nil {
		h.respondMediaError(w, r, name, err)
		return
	}
	defer reader.Close()

	streamMedia(w, name, reader)
}

// ServeThumbnail implements GET /thumbnail_uploads/{imagename}/.
func (h MediaHandler) ServeThumbnail(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	name := r.PathValue("imagename")
	reader, err := h.Media.OpenThumbnail(r.Context(), name)
	if err != nil {
		h.respondMediaError(w, r, name, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "image/jpeg")
	_, _ = io.Copy(w, reader)
}

// Delete implements GET /video/{videoname}/delete. The link carries the
// thumbnail name, so the trailing extension is stripped to recover the
// logical video filename. Deletes are idempotent: a video already gone still
// redirects home.
func (h MediaHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	ctx := r.Context()
	name := stripExtension(r.PathValue("videoname"))

	if err := h.Uploads.DeleteVideo(ctx, name); err != nil {
		logging.FromContext(ctx).Error("delete video", "video", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	http.Redirect(w, r, "/", http.StatusFound)
}

func (h MediaHandler) respondMediaError(w http.ResponseWriter, r *http.Request, name string, err error) {
	if errors.Is(err, mediastore.ErrNotFound) {
		http.NotFound(w, r)
		return
	}
	logging.FromContext(r.Context()).Error("open media", "name", name, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}

func streamMedia(w http.ResponseWriter, name string, reader io.Reader) {
	if contentType := mime.TypeByExtension(filepath.Ext(name)); contentType != "" {
		w.Header().Set("Content-Type", contentType)
	} else {
		w.Header().Set("Content-Type", "application/octet-stream")
	}
	_, _ = io.Copy(w, reader)
}

// stripExtension drops the final extension segment: "clip.mp4.jpg" -> "clip.mp4".
func stripExtension(name string) string {
	if idx := strings.LastIndex(name, "."); idx > 0 {
		return name[:idx]
	}
	return name
}
