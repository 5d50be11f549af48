package adaptor

import (
	"errors"
	"net/http"

	"movie-watchlist/internal/data/entity"
	"movie-watchlist/internal/dto/request"
	"movie-watchlist/internal/dto/response"
	"movie-watchlist/internal/usecase"
	"movie-watchlist/pkg/utils"

	"go.uber.org/zap"
)

const (
	msgRegistered      = "User registered successfully"
	msgLoginFailed     = "Login credentials not correct!"
	msgEmailRegistered = "An account with this email already exists."
)

type AuthHandler struct {
	service  usecase.AuthService
	sessions usecase.SessionService
	render   *Renderer
	log      *zap.Logger
}

func NewAuthHandler(service usecase.AuthService, sessions usecase.SessionService, render *Renderer, log *zap.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		sessions: sessions,
		render:   render,
		log:      log.With(zap.String("handler", "auth")),
	}
}

// Register handles GET and POST /register.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	session, _ := utils.SessionFromContext(r.Context())
	if session != nil && session.IsAuthenticated() {
		h.render.Redirect(w, r, "/")
		return
	}

	var form request.RegisterForm
	if r.Method != http.MethodPost {
		// Show empty form
		h.renderRegister(w, r, http.StatusOK, form, nil)
		return
	}

	// Parse and validate form
	if err := request.DecodeForm(r, &form); err != nil {
		h.log.Warn("Invalid register form", zap.Error(err))
		h.render.StatusPage(w, r, http.StatusBadRequest)
		return
	}

	if errs := utils.ValidateForm(form); !errs.Valid() {
		h.renderRegister(w, r, http.StatusUnprocessableEntity, form, errs)
		return
	}

	// Call service
	if _, err := h.service.Register(r.Context(), form); err != nil {
		if errors.Is(err, usecase.ErrEmailTaken) {
			errs := utils.FormErrors{}
			errs.Add("email", msgEmailRegistered)
			h.renderRegister(w, r, http.StatusUnprocessableEntity, form, errs)
			return
		}
		h.handleServiceError(w, r, err, "register")
		return
	}

	session.AddFlash(entity.FlashSuccess, msgRegistered)
	h.render.Redirect(w, r, "/")
}

// Login handles GET and POST /login.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	session, _ := utils.SessionFromContext(r.Context())
	if session != nil && session.IsAuthenticated() {
		h.render.Redirect(w, r, "/")
		return
	}

	var form request.LoginForm
	if r.Method != http.MethodPost {
		h.renderLogin(w, r, http.StatusOK, form, nil)
		return
	}

	if err := request.DecodeForm(r, &form); err != nil {
		h.log.Warn("Invalid login form", zap.Error(err))
		h.render.StatusPage(w, r, http.StatusBadRequest)
		return
	}

	if errs := utils.ValidateForm(form); !errs.Valid() {
		h.renderLogin(w, r, http.StatusUnprocessableEntity, form, errs)
		return
	}

	// Check credentials
	user, err := h.service.Login(r.Context(), form)
	if err != nil {
		if errors.Is(err, usecase.ErrInvalidCredentials) {
			session.AddFlash(entity.FlashDanger, msgLoginFailed)
			h.render.Redirect(w, r, "/login")
			return
		}
		h.handleServiceError(w, r, err, "login")
		return
	}

	// New token before storing identity
	if err := h.sessions.Renew(r.Context(), session); err != nil {
		h.handleServiceError(w, r, err, "renew session")
		return
	}
	session.SetIdentity(user.ID, user.Email)

	h.render.Redirect(w, r, "/")
}

// Logout handles GET /logout. The theme survives logging out.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if session, ok := utils.SessionFromContext(r.Context()); ok {
		if session.IsAuthenticated() {
			h.log.Info("User logged out", zap.Stringp("user_id", session.UserID))
		}
		session.ClearIdentity()
	}

	h.render.Redirect(w, r, "/login")
}

func (h *AuthHandler) renderRegister(w http.ResponseWriter, r *http.Request, status int, form request.RegisterForm, errs utils.FormErrors) {
	// passwords are never echoed back
	form.Password, form.ConfirmPassword = "", ""
	h.render.HTML(w, r, status, pageRegister, response.FormPage{
		Page:   h.render.Page(r, "Register"),
		Form:   form,
		Errors: errs,
		Action: "/register",
	})
}

func (h *AuthHandler) renderLogin(w http.ResponseWriter, r *http.Request, status int, form request.LoginForm, errs utils.FormErrors) {
	form.Password = ""
	h.render.HTML(w, r, status, pageLogin, response.FormPage{
		Page:   h.render.Page(r, "Login"),
		Form:   form,
		Errors: errs,
		Action: "/login",
	})
}

func (h *AuthHandler) handleServiceError(w http.ResponseWriter, r *http.Request, err error, operation string) {
	h.log.Error("Failed to "+operation, zap.Error(err), zap.String("operation", operation))
	h.render.StatusPage(w, r, http.StatusInternalServerError)
}
