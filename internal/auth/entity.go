// AngelaMos | 2026
// entity.go

package auth

import (
	"encoding/json"
	"time"
)

// PersonalAccessToken is the stored half of a bearer token. Only the
// sha256 of the plaintext is kept.
type PersonalAccessToken struct {
	ID         string     `db:"id"`
	UserID     int64      `db:"user_id"`
	Name       string     `db:"name"`
	TokenHash  string     `db:"token_hash"`
	Abilities  string     `db:"abilities"`
	LastUsedAt *time.Time `db:"last_used_at"`
	ExpiresAt  *time.Time `db:"expires_at"`
	CreatedAt  time.Time  `db:"created_at"`
}

func (t *PersonalAccessToken) IsExpired(now time.Time) bool {
	return t.ExpiresAt != nil && !now.Before(*t.ExpiresAt)
}

// AbilityList decodes the JSON array stored in Abilities. A malformed
// column grants nothing.
func (t *PersonalAccessToken) AbilityList() []string {
	var abilities []string
	if err := json.Unmarshal([]byte(t.Abilities), &abilities); err != nil {
		return nil
	}
	return abilities
}

func (t *PersonalAccessToken) SetAbilities(abilities []string) {
	if abilities == nil {
		abilities = []string{}
	}
	//nolint:errcheck // []string always marshals
	raw, _ := json.Marshal(abilities)
	t.Abilities = string(raw)
}

// UserInfo is the credential record as the auth flows see it.
type UserInfo struct {
	ID           int64
	Fullname     string
	Username     string
	Email        string
	PasswordHash string
	Tel          string
	Avatar       *string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

type NewUser struct {
	Fullname     string
	Username     string
	Email        string
	PasswordHash string
	Tel          string
	Role         Role
}
