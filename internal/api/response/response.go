package response

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/edvin/agencysites/internal/content"
	"github.com/edvin/agencysites/internal/core"
)

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// ErrorResponse is the body of every non-validation error.
type ErrorResponse struct {
	Error string `json:"error"`
}

func WriteError(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, ErrorResponse{Error: message})
}

// ValidationErrorBody lists every problem found in a rejected content model.
type ValidationErrorBody struct {
	Error    string   `json:"error"`
	Problems []string `json:"problems"`
}

// WriteServiceError maps service errors onto HTTP statuses.
func WriteServiceError(w http.ResponseWriter, err error) {
	var verr *content.ValidationError
	switch {
	case errors.As(err, &verr):
		WriteJSON(w, http.StatusUnprocessableEntity, ValidationErrorBody{Error: "invalid content", Problems: verr.Problems})
	case errors.Is(err, core.ErrNotFound):
		WriteError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, core.ErrSlugTaken):
		WriteError(w, http.StatusConflict, err.Error())
	case errors.Is(err, core.ErrInvalidSlug):
		WriteError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, core.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "unauthorized")
	default:
		WriteError(w, http.StatusInternalServerError, "internal error")
	}
}

// WriteHTML writes a rendered document.
func WriteHTML(w http.ResponseWriter, status int, html string) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	w.Write([]byte(html))
}
