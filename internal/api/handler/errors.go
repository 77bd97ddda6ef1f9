package handler

import (
	"net/http"

	"github.com/mcoot/kickoff/internal/api/apierr"
)

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	apierr.WriteError(w, err)
}

// invalidBody is returned for bodies that are not the expected JSON
func invalidBody() error {
	return apierr.NewInvalidRequestError("invalid request body")
}
