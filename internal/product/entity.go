// AngelaMos | 2026
// entity.go

package product

import (
	"math"
	"time"
)

type Product struct {
	ID          int64     `db:"id"`
	Name        string    `db:"name"`
	Slug        string    `db:"slug"`
	Description *string   `db:"description"`
	Price       float64   `db:"price"`
	Image       string    `db:"image"`
	CategoryID  int64     `db:"category_id"`
	UserID      int64     `db:"user_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

// ProductWithJoins is a list row carrying its category name and the
// owner's full name.
type ProductWithJoins struct {
	Product
	CategoryName string `db:"category_name"`
	UserFullname string `db:"user_fullname"`
}

const (
	DefaultPage  = 1
	DefaultLimit = 100
	MaxLimit     = 1000
)

type ListFilter struct {
	Page       int
	Limit      int
	Search     string
	CategoryID int64
}

func (f ListFilter) normalized() ListFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}
	// keeps (Page-1)*Limit inside a bigint OFFSET
	if maxPage := math.MaxInt / f.Limit; f.Page > maxPage {
		f.Page = maxPage
	}
	return f
}

func (f ListFilter) offset() uint64 {
	return uint64(f.Page-1) * uint64(f.Limit)
}
