// AngelaMos | 2026
// entity.go

package category

import (
	"time"
)

type Category struct {
	ID        int64     `db:"id"`
	Name      string    `db:"name"`
	Status    *bool     `db:"status"`
	CreatedAt time.Time `db:"created_at"`
	UpdatedAt time.Time `db:"updated_at"`
}
