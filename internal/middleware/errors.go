package middleware

import (
	"github.com/gin-gonic/gin"

	"github.com/persistorai/kinnet/internal/httputil"
	"github.com/persistorai/kinnet/internal/metrics"
)

func respondError(c *gin.Context, status int, code, message string) {
	metrics.ErrorsTotal.WithLabelValues(code).Inc()
	httputil.RespondError(c, status, code, message)
}
