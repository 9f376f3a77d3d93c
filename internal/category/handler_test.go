// AngelaMos | 2026
// handler_test.go

package category

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carterperez-dev/templates/catalog-backend/internal/auth"
	"github.com/carterperez-dev/templates/catalog-backend/internal/middleware"
)

func newTestRouter() (*chi.Mux, *memoryRepo) {
	repo := newMemoryRepo()
	r := chi.NewRouter()
	verifier := stubVerifier{"writer": writer, "reader": reader}
	NewHandler(NewService(repo)).RegisterRoutes(
		r,
		middleware.Authenticator(verifier),
		middleware.RequireAbility(auth.AbilityCatalogWrite),
	)
	return r, repo
}

func do(r http.Handler, method, path, body, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestCategoryLifecycle(t *testing.T) {
	r, repo := newTestRouter()

	rec := do(r, http.MethodPost, "/categories", `{"name":"Mobile","status":1}`, "writer")
	require.Equal(t, http.StatusCreated, rec.Code)

	var created ItemResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&created))
	assert.Equal(t, "Category created successfully", created.Message)
	assert.NotZero(t, created.Category.ID)

	rec = do(r, http.MethodGet, "/categories", "", "reader")
	require.Equal(t, http.StatusOK, rec.Code)
	var list ListResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&list))
	require.Len(t, list.Categories, 1)
	assert.Equal(t, "Mobile", list.Categories[0].Name)

	path := "/categories/" + jsonID(created.Category.ID)

	rec = do(r, http.MethodPut, path, `{"name":"Phones"}`, "reader")
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Contains(t, rec.Body.String(), "Permission denied to update")
	assert.Equal(t, "Mobile", repo.rows[created.Category.ID].Name)

	rec = do(r, http.MethodPut, path, `{"name":"Phones"}`, "writer")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "Phones", repo.rows[created.Category.ID].Name)

	rec = do(r, http.MethodGet, path, "", "reader")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"name":"Phones"`)

	rec = do(r, http.MethodDelete, path, "", "writer")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "Category deleted successfully")

	rec = do(r, http.MethodDelete, path, "", "writer")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = do(r, http.MethodGet, path, "", "reader")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Category not found")
}

func TestCategoryGuards(t *testing.T) {
	r, repo := newTestRouter()

	tests := []struct {
		name   string
		method string
		path   string
		body   string
		token  string
		want   int
	}{
		{"list needs auth", http.MethodGet, "/categories", "", "", http.StatusUnauthorized},
		{"create needs auth", http.MethodPost, "/categories", `{"name":"x"}`, "", http.StatusUnauthorized},
		{"create needs ability", http.MethodPost, "/categories", `{"name":"x"}`, "reader", http.StatusForbidden},
		{"forbidden before validation", http.MethodPost, "/categories", `{}`, "reader", http.StatusForbidden},
		{"missing name", http.MethodPost, "/categories", `{}`, "writer", http.StatusUnprocessableEntity},
		{"blank name", http.MethodPost, "/categories", `{"name":"   "}`, "writer", http.StatusUnprocessableEntity},
		{"blank name on update", http.MethodPut, "/categories/77", `{"name":" \t "}`, "writer", http.StatusUnprocessableEntity},
		{"name not string", http.MethodPost, "/categories", `{"name":12}`, "writer", http.StatusUnprocessableEntity},
		{"name too long", http.MethodPost, "/categories", `{"name":"` + strings.Repeat("a", 256) + `"}`, "writer", http.StatusUnprocessableEntity},
		{"bad status", http.MethodPost, "/categories", `{"name":"ok","status":"maybe"}`, "writer", http.StatusUnprocessableEntity},
		{"update missing", http.MethodPut, "/categories/77", `{"name":"x"}`, "writer", http.StatusNotFound},
		{"update missing forbidden first", http.MethodPut, "/categories/77", `{"name":"x"}`, "reader", http.StatusForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(r, tt.method, tt.path, tt.body, tt.token)
			assert.Equal(t, tt.want, rec.Code)
		})
	}

	assert.Equal(t, 0, repo.writes)
}

func TestCategoryValidationBody(t *testing.T) {
	r, _ := newTestRouter()

	rec := do(r, http.MethodPost, "/categories", `{"status":true}`, "writer")
	require.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body struct {
		Status  bool                `json:"status"`
		Message string              `json:"message"`
		Errors  map[string][]string `json:"errors"`
	}
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Status)
	assert.Equal(t, "The given data was invalid.", body.Message)
	assert.Equal(t, []string{"The name field is required."}, body.Errors["name"])
}

func TestDeleteInUseConflicts(t *testing.T) {
	r, repo := newTestRouter()
	repo.inUse[5] = true

	rec := do(r, http.MethodDelete, "/categories/5", "", "writer")
	assert.Equal(t, http.StatusConflict, rec.Code)
}

func jsonID(id int64) string {
	b, _ := json.Marshal(id)
	return string(b)
}
