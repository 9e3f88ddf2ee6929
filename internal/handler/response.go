package handler

import (
	"errors"
	"net/http"

	"Yatube/internal/pkg"
	"Yatube/internal/pkg/logger"

	"github.com/gin-gonic/gin"
)

// respondError maps the error taxonomy onto status codes.
func respondError(c *gin.Context, err error) {
	if ve, ok := pkg.AsValidation(err); ok {
		c.JSON(http.StatusBadRequest, gin.H{"msg": "invalid params", "errors": ve.Fields})
		return
	}
	switch {
	case errors.Is(err, pkg.ErrUnauthorized):
		c.JSON(http.StatusUnauthorized, gin.H{"msg": err.Error()})
	case errors.Is(err, pkg.ErrForbidden):
		c.JSON(http.StatusForbidden, gin.H{"msg": err.Error()})
	case errors.Is(err, pkg.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"msg": err.Error()})
	case errors.Is(err, pkg.ErrConstraintViolation):
		c.JSON(http.StatusConflict, gin.H{"msg": err.Error()})
	default:
		logger.Error("request_failed", err, map[string]any{"path": c.FullPath(), "method": c.Request.Method})
		c.JSON(http.StatusInternalServerError, gin.H{"msg": "internal error"})
	}
}
