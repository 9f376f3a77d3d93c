// AngelaMos | 2026
// handler.go

package asset

import (
	"net/http"
	"path"

	"github.com/go-chi/chi/v5"

	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
)

type Handler struct {
	store Store
}

func NewHandler(store Store) *Handler {
	return &Handler{store: store}
}

func (h *Handler) RegisterRoutes(r chi.Router, publicPath string) {
	r.Get(path.Join("/", publicPath, "{name}"), h.Serve)
}

func (h *Handler) Serve(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if !ValidName(name) {
		core.NotFound(w, "image")
		return
	}

	f, err := h.store.Open(r.Context(), name)
	if err != nil {
		core.NotFound(w, "image")
		return
	}
	defer f.Close() //nolint:errcheck

	w.Header().Set("Cache-Control", "public, max-age=86400")
	http.ServeContent(w, r, name, f.ModTime(), f)
}
