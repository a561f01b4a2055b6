package handlers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/clipshelf/backend/internal/auth"
	"github.com/clipshelf/backend/internal/logging"
)

// AuthHandler implements the login and logout pages.
type AuthHandler struct {
	Auth     Authenticator
	Sessions Sessions
	Limiter  RateLimiter
}

type loginPage struct {
	Error string
	Flash string
}

// Login handles GET and POST /login.
func (h AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	logger := logging.FromContext(ctx)

	switch r.Method {
	case http.MethodGet:
		renderPage(ctx, w, "login.html", loginPage{Flash: takeFlash(w, r)})
	case http.MethodPost:
		if !allowRequest(h.Limiter, r, "login") {
			logger.Warn("login rate limited", "remote", r.RemoteAddr)
			http.Error(w, "too many login attempts, slow down", http.StatusTooManyRequests)
			return
		}

		name := strings.TrimSpace(r.FormValue("name"))
		username := strings.TrimSpace(r.FormValue("username"))
		password := r.FormValue("password")
		if name == "" || username == "" || password == "" {
			renderPage(ctx, w, "login.html", loginPage{Error: "name, username and password are required"})
			return
		}

		user, err := h.Auth.LoginOrRegister(ctx, name, username, password)
		if err != nil {
			if errors.Is(err, auth.ErrInvalidCredentials) {
				logger.Warn("login rejected", "username", username)
				renderPage(ctx, w, "login.html", loginPage{Error: "invalid credentials"})
				return
			}
			logger.Error("login failed", "username", username, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		if err := h.Sessions.Establish(w, r, user.ID); err != nil {
			logger.Error("establish session", "userId", user.ID, "error", err)
			http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
			return
		}

		logger.Info("user signed in", "userId", user.ID)
		http.Redirect(w, r, "/", http.StatusFound)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

// Logout handles GET /logout.
func (h AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	h.Sessions.Clear(w, r)
	http.Redirect(w, r, "/", http.StatusFound)
}
