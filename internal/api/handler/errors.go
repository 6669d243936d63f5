package handler

import (
	"encoding/json"
	"net/http"

	"github.com/mcoot/leaderboard-go/internal/api/apierr"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// StatusOf returns the HTTP status used for err
func StatusOf(err error) int {
	return apierr.StatusOf(err)
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return apierr.NewInvalidRequestError(message)
}

// decodeBody decodes the JSON request body into dst.
// Only undecodable bodies are rejected; field contents are not validated.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return NewInvalidRequestError("invalid request body")
	}
	return nil
}
