package http

import (
	"errors"
	"net/http"

	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/launchboard/pkg/domain/model"
	"github.com/secmon-lab/launchboard/pkg/utils/apperr"
)

// errTagBadRequest marks request parsing failures
var errTagBadRequest = goerr.NewTag("bad_request")

// statusOf maps an error to its HTTP status code
func statusOf(err error) int {
	switch {
	case goerr.HasTag(err, errTagBadRequest), errors.Is(err, model.ErrInvalidSelection):
		return http.StatusBadRequest
	case errors.Is(err, model.ErrSessionNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// writeError logs err and writes it as a JSON error response
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	apperr.Handle(r.Context(), err)

	status := statusOf(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = http.StatusText(status)
	}

	writeJSON(w, r, status, map[string]string{
		"error": message,
	})
}
