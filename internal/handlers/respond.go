// Package handlers contains HTTP request handlers for the complaint API.
// Handlers parse requests, call services, and return JSON responses; all
// business rules live in the service layer.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/hamroaawaz/complaint-server/internal/services"
)

// Helper: respond with JSON
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Helper: respond with error
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondServiceError maps a service-layer error onto a transport status.
func respondServiceError(w http.ResponseWriter, err error) {
	respondError(w, statusForError(err), err.Error())
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, services.ErrDuplicatePhone),
		errors.Is(err, services.ErrIDTaken),
		errors.Is(err, services.ErrAlreadyVoted),
		errors.Is(err, services.ErrNotVoted):
		return http.StatusConflict
	case errors.Is(err, services.ErrUserNotFound),
		errors.Is(err, services.ErrComplaintNotFound),
		errors.Is(err, services.ErrMunicipalityNotFound),
		errors.Is(err, services.ErrPhoneNotRegistered):
		return http.StatusNotFound
	case errors.Is(err, services.ErrBadPassword):
		return http.StatusUnauthorized
	case errors.Is(err, services.ErrInvalidRole),
		errors.Is(err, services.ErrInvalidStatus):
		return http.StatusBadRequest
	default:
		return http.StatusInternalServerError
	}
}
