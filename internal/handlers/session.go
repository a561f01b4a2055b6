package handlers

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/clipshelf/backend/internal/logging"
	"github.com/clipshelf/backend/internal/models"
)

const flashCookie = "clipshelf_flash"

type ctxKey string

const principalKey ctxKey = "principal"

// WithPrincipal stores the signed-in user on the context.
func WithPrincipal(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, principalKey, user)
}

// PrincipalFromContext returns the signed-in user, if any.
func PrincipalFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(principalKey).(models.User)
	return user, ok
}

// Sessions bridges browser cookies and the session manager.
type Sessions struct {
	Manager SessionManager
	Users   UserStore
	Cookie  string
	TTL     time.Duration
}

// CurrentUser resolves the session cookie to a user, if present and valid.
func (s Sessions) CurrentUser(r *http.Request) (models.User, bool) {
	if s.Manager == nil || s.Users == nil {
		return models.User{}, false
	}

	cookie, err := r.Cookie(s.Cookie)
	if err != nil || cookie.Value == "" {
		return models.User{}, false
	}

	userID, err := s.Manager.Resolve(r.Context(), cookie.Value)
	if err != nil {
		return models.User{}, false
	}

	user, err := s.Users.FindByID(r.Context(), userID)
	if err != nil {
		logging.FromContext(r.Context()).Warn("session user lookup failed", "userId", userID, "error", err)
		return models.User{}, false
	}

	return user, true
}

// Establish issues a session for the user and sets the browser cookie.
func (s Sessions) Establish(w http.ResponseWriter, r *http.Request, userID string) error {
	session, err := s.Manager.Issue(r.Context(), userID)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.Cookie,
		Value:    session.Token,
		Path:     "/",
		Expires:  session.ExpiresAt,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
	return nil
}

// Clear revokes the current session and expires the browser cookie.
func (s Sessions) Clear(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(s.Cookie); err == nil && cookie.Value != "" {
		s.Manager.Revoke(r.Context(), cookie.Value)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     s.Cookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// Require gates a route behind an active session. Anonymous requests are
// redirected to /login with a warning flash.
func (s Sessions) Require(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		user, ok := s.CurrentUser(r)
		if !ok {
			setFlash(w, "you need to log in first")
			http.Redirect(w, r, "/login", http.StatusFound)
			return
		}
		next(w, r.WithContext(WithPrincipal(r.Context(), user)))
	}
}

func setFlash(w http.ResponseWriter, message string) {
	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    url.QueryEscape(message),
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

// takeFlash reads and clears the flash cookie.
func takeFlash(w http.ResponseWriter, r *http.Request) string {
	cookie, err := r.Cookie(flashCookie)
	if err != nil || cookie.Value == "" {
		return ""
	}

	http.SetCookie(w, &http.Cookie{
		Name:     flashCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})

	message, err := url.QueryUnescape(cookie.Value)
	if err != nil {
		return ""
	}
	return message
}
