package response

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edvin/agencysites/internal/content"
	"github.com/edvin/agencysites/internal/core"
)

func TestWriteJSON(t *testing.T) {
	w := httptest.NewRecorder()
	payload := map[string]string{"hello": "world"}

	WriteJSON(w, http.StatusOK, payload)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "world", body["hello"])
}

func TestWriteError(t *testing.T) {
	w := httptest.NewRecorder()

	WriteError(w, http.StatusBadRequest, "something went wrong")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))

	var body map[string]string
	err := json.Unmarshal(w.Body.Bytes(), &body)
	require.NoError(t, err)
	assert.Equal(t, "something went wrong", body["error"])
}

func TestWriteJSON_NilValue(t *testing.T) {
	w := httptest.NewRecorder()

	WriteJSON(w, http.StatusOK, nil)

	assert.Equal(t, http.StatusOK, w.Code)
	// json.Encode(nil) produces "null\n"
	assert.Equal(t, "null\n", w.Body.String())
}

func TestWriteServiceError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"not found", fmt.Errorf("get tenant x: %w", core.ErrNotFound), http.StatusNotFound},
		{"slug taken", fmt.Errorf("create tenant: %w", core.ErrSlugTaken), http.StatusConflict},
		{"invalid slug", core.ErrInvalidSlug, http.StatusBadRequest},
		{"unauthorized", core.ErrUnauthorized, http.StatusUnauthorized},
		{"validation", &content.ValidationError{Problems: []string{"duplicate page slug \"about\""}}, http.StatusUnprocessableEntity},
		{"other", errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			WriteServiceError(w, tt.err)
			assert.Equal(t, tt.want, w.Code)
		})
	}
}

func TestWriteServiceError_ValidationProblems(t *testing.T) {
	w := httptest.NewRecorder()

	WriteServiceError(w, &content.ValidationError{Problems: []string{"a", "b"}})

	var body ValidationErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, []string{"a", "b"}, body.Problems)
}

func TestWriteServiceError_HidesInternalDetails(t *testing.T) {
	w := httptest.NewRecorder()

	WriteServiceError(w, errors.New("pq: password authentication failed"))

	assert.NotContains(t, w.Body.String(), "password")
}

func TestWriteHTML(t *testing.T) {
	w := httptest.NewRecorder()

	WriteHTML(w, http.StatusOK, "<p>hi</p>")

	assert.Equal(t, "text/html; charset=utf-8", w.Header().Get("Content-Type"))
	assert.Equal(t, "<p>hi</p>", w.Body.String())
}
