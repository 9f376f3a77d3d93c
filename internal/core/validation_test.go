// AngelaMos | 2026
// validation_test.go

package core

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signupInput struct {
	Email                string `json:"email"                 validate:"required,email"`
	Password             string `json:"password"              validate:"required"`
	PasswordConfirmation string `json:"password_confirmation" validate:"required,eqfield=Password"`
	Name                 string `json:"name"                  validate:"required,min=3,max=10"`
}

func TestValidateUsesJSONFieldNames(t *testing.T) {
	v := NewValidator()

	err := Validate(v, signupInput{
		Email:                "nope",
		Password:             "a",
		PasswordConfirmation: "b",
		Name:                 "ab",
	})
	require.Error(t, err)

	appErr, ok := AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusUnprocessableEntity, appErr.StatusCode)
	assert.Equal(t, "The given data was invalid.", appErr.Message)

	assert.Contains(t, appErr.Fields, "email")
	assert.Equal(t,
		[]string{"The password field confirmation does not match."},
		appErr.Fields["password_confirmation"])
	assert.Equal(t, []string{"The name field must be at least 3 characters."}, appErr.Fields["name"])
	assert.NotContains(t, appErr.Fields, "password")
}

func TestValidatePasses(t *testing.T) {
	err := Validate(NewValidator(), signupInput{
		Email:                "a@b.co",
		Password:             "pw",
		PasswordConfirmation: "pw",
		Name:                 "alice",
	})
	assert.NoError(t, err)
}

type decodeTarget struct {
	Name  string `json:"name"`
	Price int    `json:"price"`
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantField string
	}{
		{"type mismatch", `{"name": 5}`, "name"},
		{"nested mismatch", `{"name":"ok","price":"x"}`, "price"},
		{"syntax", `{"name":`, "body"},
		{"empty", ``, "body"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body))
			var dst decodeTarget

			err := DecodeJSON(httptest.NewRecorder(), req, &dst)
			require.Error(t, err)

			appErr, ok := AsAppError(err)
			require.True(t, ok)
			assert.Equal(t, http.StatusUnprocessableEntity, appErr.StatusCode)
			assert.Contains(t, appErr.Fields, tt.wantField)
		})
	}
}

func TestJSONErrorBody(t *testing.T) {
	rec := httptest.NewRecorder()
	JSONError(rec, FieldError("name", "The name field is required."))

	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
	assert.False(t, body.Status)
	assert.Equal(t, "The given data was invalid.", body.Message)
	assert.Equal(t, []string{"The name field is required."}, body.Errors["name"])
}

func TestHandleErrorMapsSentinels(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", ErrNotFound, http.StatusNotFound},
		{"forbidden", ErrForbidden, http.StatusForbidden},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized},
		{"duplicate", ErrDuplicateKey, http.StatusConflict},
		{"unknown", assert.AnError, http.StatusInternalServerError},
		{"app error", DuplicateError("email"), http.StatusConflict},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			HandleError(rec, tt.err, "category")
			assert.Equal(t, tt.want, rec.Code)
		})
	}
}
