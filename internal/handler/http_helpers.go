package handler

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/folio/internal/apperr"
	"github.com/folio/internal/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const maxListLimit = 100

func respondError(c *gin.Context, status int, message string) {
	c.JSON(status, gin.H{"error": message})
}

// respondServiceError 将 service 层错误映射为 HTTP 状态码；存储错误只返回通用提示并记录日志。
func respondServiceError(c *gin.Context, err error, fallback string) {
	requestID := zap.String("request_id", c.GetString(logger.RequestIDKey))
	status := apperr.HTTPStatus(err)

	switch {
	case apperr.IsPersistence(err):
		logger.Get().Error(fallback, requestID, zap.Error(err))
		respondError(c, status, fallback)
	case status >= http.StatusInternalServerError:
		// 未分类的错误同样不向客户端暴露细节
		logger.Get().Error(fallback, requestID, zap.Error(err), zap.Bool("unclassified", true))
		respondError(c, status, fallback)
	case apperr.IsValidation(err):
		logger.Get().Debug("rejected input", requestID, zap.String("reason", err.Error()))
		respondError(c, status, err.Error())
	default:
		respondError(c, status, err.Error())
	}
}

func bindJSON(c *gin.Context, dst interface{}, message string) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		respondError(c, http.StatusBadRequest, message)
		return false
	}
	return true
}

func parseUintParam(c *gin.Context, key string) (uint, error) {
	raw := c.Param(key)
	id, err := strconv.ParseUint(raw, 10, 32)
	if err != nil || id == 0 {
		return 0, fmt.Errorf("invalid %s", key)
	}
	return uint(id), nil
}

func parseUintQuery(c *gin.Context, key string) uint {
	parsed, err := strconv.ParseUint(strings.TrimSpace(c.Query(key)), 10, 32)
	if err != nil {
		return 0
	}
	return uint(parsed)
}

// parseLimit 读取 limit 查询参数，非法值回退为 fallback，并限制最大值。
func parseLimit(c *gin.Context, fallback int) int {
	raw := strings.TrimSpace(c.Query("limit"))
	if raw == "" {
		return fallback
	}
	limit, err := strconv.Atoi(raw)
	if err != nil || limit <= 0 {
		return fallback
	}
	if limit > maxListLimit {
		return maxListLimit
	}
	return limit
}
