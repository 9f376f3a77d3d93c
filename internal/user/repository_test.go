// AngelaMos | 2026
// repository_test.go

package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertSQL(t *testing.T) {
	r := NewRepository(nil).(*repository)

	query, args, err := r.insertSQL(&User{
		Fullname: "Ann Lee",
		Username: "ann",
		Email:    "ann@example.com",
		Tel:      "555",
		Role:     1,
	})
	require.NoError(t, err)
	assert.Equal(t,
		"INSERT INTO users (fullname,username,email,password_hash,tel,avatar,role) "+
			"VALUES ($1,$2,$3,$4,$5,$6,$7) RETURNING id, created_at, updated_at",
		query,
	)
	assert.Len(t, args, 7)
	assert.Equal(t, "ann@example.com", args[2])
}
