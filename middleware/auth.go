package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/tshwanesporting/clubsite/repositories"
	"github.com/tshwanesporting/clubsite/sessions"
)

// SessionLoader resolves the session cookie into a user and attaches it to
// the request context. It never rejects a request on its own: anonymous
// requests pass through without a user, and the gates below decide access.
func SessionLoader(store sessions.Store, users repositories.UserRepository, secret string, logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			cookie, err := r.Cookie(sessions.CookieName)
			if err != nil {
				next.ServeHTTP(w, r)
				return
			}

			sessionID, ok := sessions.VerifyCookieValue(cookie.Value, []byte(secret))
			if !ok {
				// Подпись не сошлась — cookie подделана или секрет сменился.
				clearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			session, err := store.Get(r.Context(), sessionID)
			if err != nil {
				if !errors.Is(err, sessions.ErrSessionNotFound) {
					logger.Error("failed to load session", slog.String("error", err.Error()))
				}
				clearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			user, err := users.GetByID(r.Context(), session.UserID)
			if err != nil {
				if errors.Is(err, repositories.ErrUserNotFound) {
					// Пользователь удалён, сессия осиротела.
					_ = store.Destroy(r.Context(), sessionID)
				} else {
					logger.Error("failed to load session user", slog.String("error", err.Error()))
				}
				clearSessionCookie(w)
				next.ServeHTTP(w, r)
				return
			}

			sanitized := user.Sanitized()
			next.ServeHTTP(w, r.WithContext(withUser(r.Context(), &sanitized)))
		})
	}
}

// RequireAdmin rejects requests whose context has no admin user. Both the
// anonymous and the authenticated-but-not-admin cases answer 403, matching
// the write-path contract of the API.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := UserFromContext(r.Context())
		if !ok || !user.IsAdmin {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte(`{"error":"admin access required"}`))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessions.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
