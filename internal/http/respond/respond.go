// Package respond writes the JSON envelope shared by every endpoint:
// {"status": bool, "message": string, "data": any, "errors": {field: [msg]}}.
package respond

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/MrJamesThe3rd/pennywise/internal/apperr"
)

type envelope struct {
	Status  bool                `json:"status"`
	Message string              `json:"message,omitempty"`
	Data    any                 `json:"data,omitempty"`
	Errors  map[string][]string `json:"errors,omitempty"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Error("failed to encode response", "error", err)
	}
}

// OK writes a 200 with data.
func OK(w http.ResponseWriter, data any) {
	write(w, http.StatusOK, envelope{Status: true, Data: data})
}

// Created writes a 201 with a message and data.
func Created(w http.ResponseWriter, message string, data any) {
	write(w, http.StatusCreated, envelope{Status: true, Message: message, Data: data})
}

// Message writes a 200 with a message and optional data.
func Message(w http.ResponseWriter, message string, data any) {
	write(w, http.StatusOK, envelope{Status: true, Message: message, Data: data})
}

// Status writes an arbitrary status with status=false, used for non-error
// outcomes the client must act on, such as import conflicts.
func Status(w http.ResponseWriter, status int, message string, data any) {
	write(w, status, envelope{Status: false, Message: message, Data: data})
}

// Error maps err to a status code. Errors that are not domain errors are
// logged and hidden behind a generic message.
func Error(w http.ResponseWriter, r *http.Request, err error) {
	var ve *apperr.ValidationError
	if errors.As(err, &ve) {
		write(w, http.StatusUnprocessableEntity, envelope{Message: "Validation Error", Errors: ve.Fields})
		return
	}

	message, ok := apperr.Message(err)
	if !ok {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		write(w, http.StatusInternalServerError, envelope{Message: "Server Error"})

		return
	}

	write(w, statusOf(err), envelope{Message: message})
}

func statusOf(err error) int {
	switch {
	case errors.Is(err, apperr.ErrRule):
		return http.StatusUnprocessableEntity
	case errors.Is(err, apperr.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, apperr.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, apperr.ErrNotFound):
		return http.StatusNotFound
	}

	return http.StatusInternalServerError
}
