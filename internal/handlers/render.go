package handlers

import (
	"bytes"
	"context"
	"net/http"

	"github.com/clipshelf/backend/internal/logging"
	"github.com/clipshelf/backend/internal/web"
)

// renderPage buffers the template output so a rendering fault becomes a clean
// 500 instead of a half-written page.
func renderPage(ctx context.Context, w http.ResponseWriter, name string, data any) {
	var buf bytes.Buffer
	if err := web.Render(&buf, name, data); err != nil {
		logging.FromContext(ctx).Error("render page", "template", name, "error", err)
		http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}
