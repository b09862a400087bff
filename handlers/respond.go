package handlers

import (
	"github.com/gin-gonic/gin"
)

// 錯誤代碼，對應HTTP狀態碼一併回傳
const (
	CodeValidation      = "validation_error"
	CodeUnauthenticated = "unauthenticated"
	CodePermission      = "permission_denied"
	CodeNotFound        = "not_found"
	CodeConflict        = "conflict"
	CodeEmptyCart       = "empty_cart"
	CodeInternal        = "internal_error"
)

// 統一的錯誤回應格式
func respondError(c *gin.Context, status int, code string, message string) {
	c.JSON(status, gin.H{
		"error":   true,
		"code":    code,
		"message": message,
	})
}
