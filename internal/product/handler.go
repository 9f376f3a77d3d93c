// AngelaMos | 2026
// handler.go

package product

import (
	"errors"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/carterperez-dev/templates/catalog-backend/internal/asset"
	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
	"github.com/carterperez-dev/templates/catalog-backend/internal/middleware"
)

const (
	formMemory   = 1 << 20
	formOverhead = 1 << 20
)

type Handler struct {
	service   *Service
	policy    asset.Policy
	validator *validator.Validate
}

func NewHandler(service *Service, policy asset.Policy) *Handler {
	return &Handler{
		service:   service,
		policy:    policy,
		validator: core.NewValidator(),
	}
}

func (h *Handler) RegisterRoutes(
	r chi.Router,
	authenticator func(http.Handler) http.Handler,
	canWrite func(http.Handler) http.Handler,
) {
	r.Route("/products", func(r chi.Router) {
		r.Use(authenticator)

		r.Get("/", h.List)
		r.Get("/{id}", h.Get)

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
	q := r.URL.Query()

	categoryID := q.Get("categoryId")
	if categoryID == "" {
		categoryID = q.Get("selectedCategory")
	}

	filter := ListFilter{
		Page:       queryInt(q.Get("page"), DefaultPage),
		Limit:      queryInt(q.Get("limit"), DefaultLimit),
		Search:     q.Get("searchQuery"),
		CategoryID: int64(queryInt(categoryID, 0)),
	}

	products, total, err := h.service.List(r.Context(), filter)
	if err != nil {
		core.InternalServerError(w, err)
		return
	}

	core.OK(w, ListResponse{
		Status:   true,
		Total:    total,
		Products: ToListItems(products),
	})
}

// ListByCategory serves GET /categories/{id}/products.
func (h *Handler) ListByCategory(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		core.NotFound(w, "category")
		return
	}

	products, err := h.service.ListByCategory(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err, "category")
		return
	}

	core.OK(w, ListResponse{
		Status:   true,
		Total:    int64(len(products)),
		Products: ToListItems(products),
	})
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		core.NotFound(w, "product")
		return
	}

	p, err := h.service.Get(r.Context(), id)
	if err != nil {
		h.handleError(w, r, err, "product")
		return
	}

	core.OK(w, ItemResponse{Status: true, Product: ToResponse(p)})
}

func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	in, err := h.readInput(w, r)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	defer in.Image.Close() //nolint:errcheck

	p, err := h.service.Create(r.Context(), middleware.GetIdentity(r.Context()), in)
	if err != nil {
		h.handleError(w, r, err, "product")
		return
	}

	core.Created(w, ItemResponse{
		Status:  true,
		Message: "Product created successfully",
		Product: ToResponse(p),
	})
}

func (h *Handler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		core.NotFound(w, "product")
		return
	}

	in, err := h.readInput(w, r)
	if err != nil {
		core.JSONError(w, err)
		return
	}
	defer in.Image.Close() //nolint:errcheck

	p, err := h.service.Update(r.Context(), middleware.GetIdentity(r.Context()), id, in)
	if err != nil {
		h.handleError(w, r, err, "product")
		return
	}

	core.OK(w, ItemResponse{
		Status:  true,
		Message: "Product updated successfully",
		Product: ToResponse(p),
	})
}

func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := parseID(r)
	if !ok {
		core.NotFound(w, "product")
		return
	}

	if err := h.service.Delete(r.Context(), middleware.GetIdentity(r.Context()), id); err != nil {
		h.handleError(w, r, err, "product")
		return
	}

	core.Message(w, http.StatusOK, "Product deleted successfully")
}

// readInput accepts multipart/form-data (with an optional image part) or
// a JSON body. Field and image problems are reported together.
func (h *Handler) readInput(w http.ResponseWriter, r *http.Request) (Input, error) {
	var (
		req   ProductRequest
		image *multipart.FileHeader
	)

	if isMultipart(r) {
		var err error
		req, image, err = h.readForm(w, r)
		if err != nil {
			return Input{}, err
		}
	} else if err := core.DecodeJSON(w, r, &req); err != nil {
		return Input{}, err
	}

	req.normalize()
	fields := map[string][]string{}

	var in Input
	err := core.Validate(h.validator, req)
	if err == nil {
		in, err = req.toInput()
	}
	if err := collect(fields, err); err != nil {
		return Input{}, err
	}

	if image != nil {
		up, err := h.policy.Open(image)
		if err := collect(fields, err); err != nil {
			return Input{}, err
		}
		in.Image = up
	}

	if len(fields) > 0 {
		_ = in.Image.Close()
		return Input{}, core.ValidationError(fields)
	}

	return in, nil
}

func (h *Handler) readForm(
	w http.ResponseWriter,
	r *http.Request,
) (ProductRequest, *multipart.FileHeader, error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.policy.MaxBytes+formOverhead)

	if err := r.ParseMultipartForm(formMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return ProductRequest{}, nil, core.FieldError(h.policy.Field, "The image is too large.")
		}
		return ProductRequest{}, nil, core.FieldError("body", "The request body is invalid.")
	}

	form := r.MultipartForm
	req := ProductRequest{
		Name:       first(form.Value, "name"),
		Slug:       first(form.Value, "slug"),
		Price:      FormValue(first(form.Value, "price")),
		CategoryID: FormValue(first(form.Value, "category_id")),
	}
	if v, ok := form.Value["description"]; ok && len(v) > 0 {
		d := v[0]
		req.Description = &d
	}

	var image *multipart.FileHeader
	if files := form.File[h.policy.Field]; len(files) > 0 {
		image = files[0]
	}

	return req, image, nil
}

func (h *Handler) handleError(w http.ResponseWriter, r *http.Request, err error, resource string) {
	if errors.Is(err, core.ErrForbidden) {
		core.Forbidden(w, middleware.PermissionDenied(r.Method))
		return
	}
	if _, ok := core.AsAppError(err); ok {
		core.JSONError(w, err)
		return
	}
	core.HandleError(w, err, resource)
}

// collect merges validation fields into dst and returns any other error.
func collect(dst map[string][]string, err error) error {
	if err == nil {
		return nil
	}
	appErr, ok := core.AsAppError(err)
	if !ok || appErr.StatusCode != http.StatusUnprocessableEntity {
		return err
	}
	for field, msgs := range appErr.Fields {
		dst[field] = append(dst[field], msgs...)
	}
	return nil
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}

func first(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func queryInt(raw string, fallback int) int {
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n < 0 {
		return fallback
	}
	return n
}

func parseID(r *http.Request) (int64, bool) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}
