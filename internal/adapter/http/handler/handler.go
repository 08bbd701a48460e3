package handler

import (
	"todolist/internal/adapter/http/helper"

	"github.com/gin-gonic/gin"
	"github.com/uptrace/opentelemetry-go-extra/otelzap"
	"go.uber.org/zap"
)

// fail sends the mapped answer for domain errors and logs anything else as a
// fault before hiding it behind a generic 500.
func fail(c *gin.Context, logger *otelzap.Logger, message string, err error, fields ...zap.Field) {
	if helper.SendDomainError(c, err) {
		return
	}

	fields = append(fields, zap.Error(err))
	logger.Ctx(c.Request.Context()).Error(message, fields...)

	_ = c.Error(err)
	helper.SendInternalError(c)
}
