package api

import (
	"errors"
	"net/http"
	"strconv"

	"GameCatalog/internal/repository"
	"GameCatalog/internal/service"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// respondError 按错误类别映射 HTTP 状态码：校验 400，不存在 404，约束冲突 409，其余 500
func respondError(c *gin.Context, logger *logrus.Logger, op string, err error) {
	detail := err.Error()
	var svcErr *service.Error
	if errors.As(err, &svcErr) {
		detail = svcErr.Detail
	}

	switch {
	case errors.Is(err, service.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": detail})
	case errors.Is(err, repository.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": detail})
	case errors.Is(err, repository.ErrConflict):
		logger.WithError(err).Warn(op + " conflict")
		c.JSON(http.StatusConflict, gin.H{"error": detail})
	default:
		logger.WithError(err).WithField("request_id", c.GetString(requestIDKey)).Error(op + " failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error interno del servidor"})
	}
}

// parseID 解析路径参数 :id，非法时直接写 400
func parseID(c *gin.Context) (uint64, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil || id == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID inválido"})
		return 0, false
	}
	return id, true
}

// bindJSON 解析请求体，失败时直接写 400
func bindJSON(c *gin.Context, obj any) bool {
	if err := c.ShouldBindJSON(obj); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Solicitud inválida: " + err.Error()})
		return false
	}
	return true
}
