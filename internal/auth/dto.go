// AngelaMos | 2026
// dto.go

package auth

import (
	"strings"
	"time"
)

type RegisterRequest struct {
	Fullname             string `json:"fullname"              validate:"required,max=255"`
	Username             string `json:"username"              validate:"required,max=255"`
	Email                string `json:"email"                 validate:"required,email,max=255"`
	Password             string `json:"password"              validate:"required,max=128"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	Tel                  string `json:"tel"                   validate:"required,max=255"`
	Role                 *int   `json:"role"                  validate:"required"`
}

// normalize trims everything except the passwords, which are taken as sent.
func (r *RegisterRequest) normalize() {
	r.Fullname = strings.TrimSpace(r.Fullname)
	r.Username = strings.TrimSpace(r.Username)
	r.Email = strings.TrimSpace(r.Email)
	r.Tel = strings.TrimSpace(r.Tel)
}

type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email,max=255"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) normalize() {
	r.Email = strings.TrimSpace(r.Email)
}

type UserResponse struct {
	ID        int64     `json:"id"`
	Fullname  string    `json:"fullname"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Tel       string    `json:"tel"`
	Avatar    *string   `json:"avatar"`
	Role      int       `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type RegisterResponse struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
}

type SessionResponse struct {
	Status  bool         `json:"status"`
	Message string       `json:"message"`
	User    UserResponse `json:"user"`
	Token   string       `json:"token"`
}

func ToUserResponse(u *UserInfo) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Fullname:  u.Fullname,
		Username:  u.Username,
		Email:     u.Email,
		Tel:       u.Tel,
		Avatar:    u.Avatar,
		Role:      int(u.Role),
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
