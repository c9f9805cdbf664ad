package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/persistorai/kinnet/internal/httputil"
	"github.com/persistorai/kinnet/internal/metrics"
	"github.com/persistorai/kinnet/internal/models"
)

// Error codes for API error responses.
const (
	ErrCodeInvalidRequest    = "invalid_request"
	ErrCodeNotFound          = "not_found"
	ErrCodeUnsupportedFormat = "unsupported_format"
	ErrCodeStoreUnavailable  = "store_unavailable"
	ErrCodeTimeout           = "timeout"
	ErrCodeInternalError     = "internal_error"
)

// respondError writes the standard error body and counts it.
func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}

// validationErrors are caller mistakes reported verbatim with 400.
var validationErrors = []error{
	models.ErrNoSeeds,
	models.ErrInvalidPersonID,
	models.ErrInvalidDepth,
	models.ErrInvalidPolicy,
	models.ErrInvalidRelationKind,
	models.ErrInvalidDocument,
}

// handleServiceError maps a service error onto an HTTP response. Store and
// unexpected failures are logged and reported without internal detail.
func handleServiceError(c *gin.Context, log *logrus.Logger, op string, err error) {
	switch {
	case errors.Is(err, models.ErrPersonNotFound):
		respondError(c, http.StatusNotFound, ErrCodeNotFound, err.Error())
	case errors.Is(err, models.ErrUnsupportedFormat):
		respondError(c, http.StatusBadRequest, ErrCodeUnsupportedFormat, err.Error())
	case isValidationError(err):
		respondError(c, http.StatusBadRequest, ErrCodeInvalidRequest, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		log.WithError(err).WithField("op", op).Warn("api.timeout")
		respondError(c, http.StatusGatewayTimeout, ErrCodeTimeout, "request timed out")
	case errors.Is(err, models.ErrAdapter):
		log.WithError(err).WithField("op", op).Error("api.store_failure")
		respondError(c, http.StatusBadGateway, ErrCodeStoreUnavailable, "edge store unavailable")
	default:
		log.WithError(err).WithField("op", op).Error("api.internal_error")
		respondError(c, http.StatusInternalServerError, ErrCodeInternalError, "internal error")
	}
}

func isValidationError(err error) bool {
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}
