package api

import (
	"net/http"

	"github.com/vytor/ankibridge/internal/bridge"
	"github.com/vytor/ankibridge/internal/errors"
	"github.com/vytor/ankibridge/internal/logger"
)

type errorResponse struct {
	Error bridge.Failure `json:"error"`
}

// handleError centralizes error handling for HTTP responses
func handleError(w http.ResponseWriter, r *http.Request, err error) {
	log := logger.FromContext(r.Context())

	appErr := errors.From(err)
	status := appErr.Status
	if status == 0 {
		status = http.StatusInternalServerError
	}

	// Log based on status code
	if status >= 500 {
		log.Error("server error: %v", appErr)
	} else if status >= 400 {
		log.Warn("client error: %v", appErr)
	} else {
		log.Debug("error: %v", appErr)
	}

	writeJSON(w, status, errorResponse{Error: bridge.FailureOf(appErr)})
}
