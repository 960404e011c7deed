package api

import (
	"errors"
	"net/http"

	"DailyHaiku/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// writeError 把 service 错误映射为状态码与简短错误信息，细节只写日志
func writeError(c *gin.Context, logger *logrus.Logger, op string, err error) {
	entry := logger.WithError(err).WithField("path", c.FullPath())
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request"})
	case errors.Is(err, service.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "haiku not found"})
	case errors.Is(err, service.ErrUnauthorized):
		entry.Warn(op + " unauthorized")
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
	case errors.Is(err, service.ErrInvariant):
		entry.Error(op + " failed: invariant violation")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	default:
		entry.Error(op + " failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
	}
}
