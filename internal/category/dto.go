// AngelaMos | 2026
// dto.go

package category

import (
	"strings"
	"time"
)

type CategoryRequest struct {
	Name   string `json:"name"   validate:"required,max=255"`
	Status Status `json:"status"`
}

func (r *CategoryRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
}

type CategoryResponse struct {
	ID        int64     `json:"id"`
	Name      string    `json:"name"`
	Status    *bool     `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type ListResponse struct {
	Status     bool               `json:"status"`
	Categories []CategoryResponse `json:"categories"`
}

type ItemResponse struct {
	Status   bool             `json:"status"`
	Message  string           `json:"message,omitempty"`
	Category CategoryResponse `json:"category"`
}

func ToResponse(c *Category) CategoryResponse {
	return CategoryResponse{
		ID:        c.ID,
		Name:      c.Name,
		Status:    c.Status,
		CreatedAt: c.CreatedAt,
		UpdatedAt: c.UpdatedAt,
	}
}

func ToResponseList(categories []Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(categories))
	for i := range categories {
		out = append(out, ToResponse(&categories[i]))
	}
	return out
}
