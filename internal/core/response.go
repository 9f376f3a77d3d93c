// AngelaMos | 2026
// response.go

package core

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
)

type ErrorResponse struct {
	Status  bool                `json:"status"`
	Message string              `json:"message"`
	Code    string              `json:"code,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

type MessageResponse struct {
	Status  bool   `json:"status"`
	Message string `json:"message"`
}

func JSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if data == nil {
		return
	}

	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("encode response", "error", err)
	}
}

func OK(w http.ResponseWriter, data any) {
	JSON(w, http.StatusOK, data)
}

func Created(w http.ResponseWriter, data any) {
	JSON(w, http.StatusCreated, data)
}

func NoContent(w http.ResponseWriter) {
	w.WriteHeader(http.StatusNoContent)
}

func Message(w http.ResponseWriter, status int, message string) {
	JSON(w, status, MessageResponse{Status: true, Message: message})
}

// JSONError renders err using the AppError it wraps. Anything else is a 500.
func JSONError(w http.ResponseWriter, err error) {
	appErr, ok := AsAppError(err)
	if !ok {
		InternalServerError(w, err)
		return
	}

	if appErr.StatusCode >= http.StatusInternalServerError {
		slog.Error("request failed", "error", appErr.Error())
	}

	JSON(w, appErr.StatusCode, ErrorResponse{
		Status:  false,
		Message: appErr.Message,
		Code:    appErr.Code,
		Errors:  appErr.Fields,
	})
}

func BadRequest(w http.ResponseWriter, message string) {
	JSON(w, http.StatusBadRequest, ErrorResponse{
		Status:  false,
		Message: message,
		Code:    "BAD_REQUEST",
	})
}

func Unauthorized(w http.ResponseWriter, message string) {
	JSONError(w, UnauthorizedError(message))
}

func Forbidden(w http.ResponseWriter, message string) {
	JSONError(w, ForbiddenError(message))
}

func NotFound(w http.ResponseWriter, resource string) {
	JSONError(w, NotFoundError(resource))
}

func UnprocessableEntity(w http.ResponseWriter, fields map[string][]string) {
	JSONError(w, ValidationError(fields))
}

func InternalServerError(w http.ResponseWriter, err error) {
	if err == nil {
		err = ErrInternal
	}
	slog.Error("internal server error", "error", err)

	JSON(w, http.StatusInternalServerError, ErrorResponse{
		Status:  false,
		Message: "Internal server error",
		Code:    "INTERNAL_ERROR",
	})
}

// HandleError maps the sentinel errors to their HTTP form. resource names
// the entity used in 404 messages.
func HandleError(w http.ResponseWriter, err error, resource string) {
	if IsAppError(err) {
		JSONError(w, err)
		return
	}

	switch {
	case errors.Is(err, ErrNotFound):
		NotFound(w, resource)
	case errors.Is(err, ErrUnauthorized):
		Unauthorized(w, "")
	case errors.Is(err, ErrForbidden):
		Forbidden(w, "")
	case errors.Is(err, ErrDuplicateKey):
		JSONError(w, NewAppError(err, "Conflict", http.StatusConflict, "DUPLICATE"))
	default:
		InternalServerError(w, err)
	}
}
