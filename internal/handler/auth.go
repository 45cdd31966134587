package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/msomdec/sentiment-board/internal/domain"
	"github.com/msomdec/sentiment-board/internal/service"
	"github.com/msomdec/sentiment-board/internal/view"
)

// AuthHandler serves the register, login and logout pages.
type AuthHandler struct {
	auth         *service.AuthService
	cookieSecure bool
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(auth *service.AuthService, cookieSecure bool) *AuthHandler {
	return &AuthHandler{auth: auth, cookieSecure: cookieSecure}
}

// HandleRegisterPage renders the registration form.
// GET /register
func (h *AuthHandler) HandleRegisterPage(w http.ResponseWriter, r *http.Request) {
	flash := popFlash(w, r, h.cookieSecure)
	renderPage(w, r, view.RegisterPage(flash))
}

// HandleRegister creates an account from the submitted form.
// POST /register
func (h *AuthHandler) HandleRegister(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	_, err := h.auth.Register(r.Context(), username, password)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrDuplicateUsername):
			redirectWithFlash(w, r, "/register", flashUsernameTaken, h.cookieSecure)
		case errors.Is(err, domain.ErrInvalidInput):
			redirectWithFlash(w, r, "/register", flashMissingCredential, h.cookieSecure)
		default:
			slog.Error("register user", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		}
		return
	}

	redirectWithFlash(w, r, "/login", flashRegistered, h.cookieSecure)
}

// HandleLoginPage renders the login form.
// GET /login
func (h *AuthHandler) HandleLoginPage(w http.ResponseWriter, r *http.Request) {
	flash := popFlash(w, r, h.cookieSecure)
	renderPage(w, r, view.LoginPage(flash))
}

// HandleLogin checks the submitted credentials and starts a session.
// POST /login
func (h *AuthHandler) HandleLogin(w http.ResponseWriter, r *http.Request) {
	username := r.PostFormValue("username")
	password := r.PostFormValue("password")

	token, err := h.auth.Login(r.Context(), username, password)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthorized) {
			redirectWithFlash(w, r, "/login", flashBadCredentials, h.cookieSecure)
			return
		}
		slog.Error("login user", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	setAuthCookie(w, token, h.auth.SessionTTL(), h.cookieSecure)
	redirectWithFlash(w, r, "/", flashLoggedIn, h.cookieSecure)
}

// HandleLogout ends the session server-side and clears the cookie.
// GET /logout
func (h *AuthHandler) HandleLogout(w http.ResponseWriter, r *http.Request) {
	if cookie, err := r.Cookie(authCookieName); err == nil {
		if err := h.auth.Logout(r.Context(), cookie.Value); err != nil {
			slog.Error("logout user", "error", err)
			http.Error(w, "Internal Server Error", http.StatusInternalServerError)
			return
		}
	}

	clearAuthCookie(w, h.cookieSecure)
	redirectWithFlash(w, r, "/login", flashLoggedOut, h.cookieSecure)
}
