// AngelaMos | 2026
// dto.go

package product

import (
	"bytes"
	"encoding/json"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/carterperez-dev/templates/catalog-backend/internal/core"
)

// FormValue holds a scalar that may arrive as a JSON string, a JSON number
// or a multipart form field.
type FormValue string

func (v *FormValue) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	switch {
	case bytes.Equal(b, []byte("null")):
		*v = ""
		return nil
	case len(b) > 0 && b[0] == '"':
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*v = FormValue(strings.TrimSpace(s))
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return &json.UnmarshalTypeError{
			Value: "non-number",
			Type:  reflect.TypeFor[float64](),
		}
	}
	*v = FormValue(n.String())
	return nil
}

type ProductRequest struct {
	Name        string    `json:"name"        validate:"required,min=3,max=255"`
	Slug        string    `json:"slug"        validate:"required,max=255"`
	Description *string   `json:"description"`
	Price       FormValue `json:"price"       validate:"required,numeric"`
	CategoryID  FormValue `json:"category_id" validate:"required,numeric"`
}

// normalize trims text fields before validation. A blank description
// becomes nil.
func (r *ProductRequest) normalize() {
	r.Name = strings.TrimSpace(r.Name)
	r.Slug = strings.TrimSpace(r.Slug)
	r.Price = FormValue(strings.TrimSpace(string(r.Price)))
	r.CategoryID = FormValue(strings.TrimSpace(string(r.CategoryID)))
	if r.Description != nil {
		d := strings.TrimSpace(*r.Description)
		if d == "" {
			r.Description = nil
		} else {
			r.Description = &d
		}
	}
}

// toInput converts a normalized, structurally valid request. It runs
// after the validator so only range problems remain.
func (r ProductRequest) toInput() (Input, error) {
	fields := map[string][]string{}

	price, err := strconv.ParseFloat(string(r.Price), 64)
	if err != nil || price < 0 {
		fields["price"] = []string{"The price field must be at least 0."}
	}

	categoryID, err := strconv.ParseInt(string(r.CategoryID), 10, 64)
	if err != nil || categoryID <= 0 {
		fields["category_id"] = []string{"The selected category id is invalid."}
	}

	if len(fields) > 0 {
		return Input{}, core.ValidationError(fields)
	}

	return Input{
		Name:        r.Name,
		Slug:        r.Slug,
		Description: r.Description,
		Price:       price,
		CategoryID:  categoryID,
	}, nil
}

type ProductResponse struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	Price       float64   `json:"price"`
	Image       string    `json:"image"`
	CategoryID  int64     `json:"category_id"`
	UserID      int64     `json:"user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

type ListItem struct {
	ProductResponse
	CategoryName string `json:"category_name"`
	UserFullname string `json:"user_fullname"`
}

type ListResponse struct {
	Status   bool       `json:"status"`
	Total    int64      `json:"total"`
	Products []ListItem `json:"products"`
}

type ItemResponse struct {
	Status  bool            `json:"status"`
	Message string          `json:"message,omitempty"`
	Product ProductResponse `json:"product"`
}

func ToResponse(p *Product) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		Name:        p.Name,
		Slug:        p.Slug,
		Description: p.Description,
		Price:       p.Price,
		Image:       p.Image,
		CategoryID:  p.CategoryID,
		UserID:      p.UserID,
		CreatedAt:   p.CreatedAt,
		UpdatedAt:   p.UpdatedAt,
	}
}

func ToListItems(rows []ProductWithJoins) []ListItem {
	out := make([]ListItem, 0, len(rows))
	for i := range rows {
		out = append(out, ListItem{
			ProductResponse: ToResponse(&rows[i].Product),
			CategoryName:    rows[i].CategoryName,
			UserFullname:    rows[i].UserFullname,
		})
	}
	return out
}
