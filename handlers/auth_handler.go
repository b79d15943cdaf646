package handlers

import (
	"net/http"
	"time"

	"github.com/tshwanesporting/clubsite/middleware"
	"github.com/tshwanesporting/clubsite/models"
	"github.com/tshwanesporting/clubsite/services"
	"github.com/tshwanesporting/clubsite/sessions"
)

type AuthHandler struct {
	authService   services.AuthService
	sessionSecret string
}

func NewAuthHandler(authService services.AuthService, sessionSecret string) *AuthHandler {
	return &AuthHandler{
		authService:   authService,
		sessionSecret: sessionSecret,
	}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var input models.Credentials

	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if validateStruct(w, r, input) {
		return
	}

	user, session, err := h.authService.Login(r.Context(), input.Username, input.Password)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.setSessionCookie(w, session)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var input models.InsertUser

	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	if validateStruct(w, r, input) {
		return
	}

	user, session, err := h.authService.Register(r.Context(), input)
	if err != nil {
		mapServiceErrorToHTTP(w, r, err)
		return
	}

	h.setSessionCookie(w, session)

	if err := writeJSON(w, http.StatusCreated, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// Logout destroys the session behind the cookie, if any. Always answers 200:
// logging out while anonymous is not an error.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(sessions.CookieName); err == nil {
		if sessionID, ok := sessions.VerifyCookieValue(cookie.Value, []byte(h.sessionSecret)); ok {
			if err := h.authService.Logout(r.Context(), sessionID); err != nil {
				mapServiceErrorToHTTP(w, r, err)
				return
			}
		}
	}

	h.clearSessionCookie(w)

	if err := writeJSON(w, http.StatusOK, jsonResponse{"message": "logged out"}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) CurrentUser(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		unauthorizedResponse(w, r, "not authenticated")
		return
	}

	if err := writeJSON(w, http.StatusOK, jsonResponse{"user": user}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *AuthHandler) setSessionCookie(w http.ResponseWriter, session *sessions.Session) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessions.CookieName,
		Value:    sessions.SignCookieValue(session.ID, []byte(h.sessionSecret)),
		Path:     "/",
		Expires:  session.ExpiresAt,
		MaxAge:   int(time.Until(session.ExpiresAt).Seconds()),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}

func (h *AuthHandler) clearSessionCookie(w http.ResponseWriter) {
	http.SetCookie(w, &http.Cookie{
		Name:     sessions.CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
	})
}
