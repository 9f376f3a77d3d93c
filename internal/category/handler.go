// AngelaMos | 2026
// handler.go

package category

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
	"github.com/carterperez-dev/templates/catalog-backend/internal/middleware"
)

type Handler struct {
	service   *Service
	validator *validator.Validate
	products  http.HandlerFunc
}

func NewHandler(service *Service) *Handler {
	return &Handler{
		service:   service,
		validator: core.NewValidator(),
	}
}

// WithProducts serves GET /categories/{id}/products through fn.
func (h *Handler) WithProducts(fn http.HandlerFunc) *Handler {
	h.products = fn
	return h
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	canWrite func(http.Handler) http.Handler,
) {
	r.Route("/categories", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/{id}", h.Get)
		if h.products != nil {
			r.Get("/{id}/products", h.products)
		}

		r.Group(func(r chi.Router) {
			r.Use(canWrite)
			r.Post("/", h.Create)
			r.Put("/{id}", h.Update)
			r.Patch("/{id}", h.Update)
			r.Delete("/{id}", h.Delete)
		})
	})
}

func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.List(r.Context())
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ListResponse{
		Status:     true,
		Categories: ToResponseList(categories),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		core.NotFound(w, "category")
		return
	}

	c, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	core.OK(w, ItemResponse{Status: true, Category: ToResponse(c)})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CategoryRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	req.normalize()
	if err := core.Validate(h.validator, req); err != nil {
		core.JSONError(w, err)
		return
	}

	c, err := h.service.Create(r.Context(), middleware.GetIdentity(r.Context()), req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	core.Created(w, ItemResponse{
		Status:   true,
		Message:  "Category created successfully",
		Category: ToResponse(c),
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		core.NotFound(w, "category")
		return
	}

	var req CategoryRequest
	if err := core.DecodeJSON(w, r, &req); err != nil {
		core.JSONError(w, err)
		return
	}

	req.normalize()
	if err := core.Validate(h.validator, req); err != nil {
		core.JSONError(w, err)
		return
	}

	c, err := h.service.Update(r.Context(), middleware.GetIdentity(r.Context()), id, req)
	if err != nil {
		h.handleError(w, r, err)
		return
	}

	core.OK(w, ItemResponse{
		Status:   true,
		Message:  "Category updated successfully",
		Category: ToResponse(c),
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		core.Message(w, http.StatusOK, "Category deleted successfully")
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetIdentity(r.Context()), id); err != nil {
		h.handleError(w, r, err)
		return
	}

	core.Message(w, http.StatusOK, "Category deleted successfully")
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, core.ErrForbidden):
		core.Forbidden(w, middleware.PermissionDenied(r.Method))
	case errors.Is(err, ErrInUse):
		core.JSONError(w, core.NewAppError(
			err,
			"Category still has products",
			http.StatusConflict,
			"CATEGORY_IN_USE",
		))
	default:
		core.HandleError(w, err, "category")
	}
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
