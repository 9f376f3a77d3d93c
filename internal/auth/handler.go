// AngelaMos | 2026
// handler.go

package auth

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
	"github.com/carterperez-dev/templates/catalog-backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
) {
	r.Post("/register", h.Register)
	r.Post("/login", h.Login)

	r.Group(func(r chi.Router) {
		r.Use(authenticator)
		r.Post("/refreshtoken", h.Refresh)
		r.Post("/logout", h.Logout)
	})
}

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req RegisterRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	req.normalize()
	if err := core.Validate(h.validator, req); err != nil {
		core.JSONError(w, err)
		return
	}

	user, err := h.service.Register(r.Context(), req)
	if err != nil {
		if errors.Is(err, ErrEmailExists) {
			core.JSONError(w, core.DuplicateError("email"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, RegisterResponse{
		Status:  true,
		Message: "User registered successfully",
		User:    ToUserResponse(user),
	})
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	req.normalize()
	if err := core.Validate(h.validator, req); err != nil {
		core.JSONError(w, err)
		return
	}

	session, err := h.service.Login(r.Context(), req, r.UserAgent())
	if err != nil {
		if errors.Is(err, ErrInvalidCredentials) {
			core.JSONError(w, core.UnauthorizedError("Login failed"))
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, SessionResponse{
		Status:  true,
		Message: "Login successfully",
		User:    ToUserResponse(session.User),
		Token:   session.Token,
	})
}

func (h *Handler) Refresh(w http.ResponseWriter, r *http.Request) {
	session, err := h.service.Refresh(
		r.Context(),
		middleware.GetIdentity(r.Context()),
		r.UserAgent(),
	)
	if err != nil {
		if errors.Is(err, core.ErrUnauthorized) {
			core.Unauthorized(w, "")
			return
		}
		core.InternalServerError(w, err)
		return
	}

	core.Created(w, SessionResponse{
		Status:  true,
		Message: "Token refreshed",
		User:    ToUserResponse(session.User),
		Token:   session.Token,
	})
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	err := h.service.Logout(r.Context(), middleware.GetIdentity(r.Context()))
	if err != nil {
		if errors.Is(err, core.ErrUnauthorized) {
			core.Unauthorized(w, "")
			return
		}
		core.JSONError(w, core.InternalError(err, "An error occurred while logging out."))
		return
	}

	core.Message(w, http.StatusOK, "Logged out")
}
