package middleware

import (
	"LittleLemon/models"
	"github.com/gin-gonic/gin"
	"net/http"
)

type AccessLevel int

const (
	AccessPublic AccessLevel = iota
	AccessAuth
	AccessAdminOrManager
	AccessAdmin
)

// 靜態權限表：每個路由在進入Handler前先查表檢查一次，
// 沒有列在表內的路由一律拒絕
var policyTable = map[string]AccessLevel{
	"POST /api/v1/register":   AccessPublic,
	"POST /api/v1/token-auth": AccessPublic,
	"POST /api/v1/logout":     AccessAuth,

	//菜單與分類的讀取開放給未登入的訪客瀏覽
	"GET /api/v1/categories":                AccessPublic,
	"POST /api/v1/categories":               AccessAdmin,
	"GET /api/v1/categories/:categoryID":    AccessPublic,
	"PUT /api/v1/categories/:categoryID":    AccessAdmin,
	"PATCH /api/v1/categories/:categoryID":  AccessAdmin,
	"DELETE /api/v1/categories/:categoryID": AccessAdmin,

	"GET /api/v1/menu-items":                AccessPublic,
	"POST /api/v1/menu-items":               AccessAdmin,
	"GET /api/v1/menu-items/:menuItemID":    AccessPublic,
	"PUT /api/v1/menu-items/:menuItemID":    AccessAdmin,
	"PATCH /api/v1/menu-items/:menuItemID":  AccessAdminOrManager,
	"DELETE /api/v1/menu-items/:menuItemID": AccessAdmin,

	"GET /api/v1/cart":    AccessAuth,
	"POST /api/v1/cart":   AccessAuth,
	"DELETE /api/v1/cart": AccessAuth,

	"GET /api/v1/orders":            AccessAuth,
	"POST /api/v1/orders":           AccessAuth,
	"GET /api/v1/orders/:orderID":   AccessAuth,
	"PUT /api/v1/orders/:orderID":   AccessAuth,
	"PATCH /api/v1/orders/:orderID": AccessAuth,

	"POST /api/v1/groups/manager/users":         AccessAdmin,
	"DELETE /api/v1/groups/manager/users":       AccessAdmin,
	"POST /api/v1/groups/delivery-crew/users":   AccessAdminOrManager,
	"DELETE /api/v1/groups/delivery-crew/users": AccessAdminOrManager,
}

// 檢查請求權限，未通過則中止請求，Handler不會執行
func PolicyMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.Request.Method == http.MethodOptions {
			c.Next()
			return
		}

		//沒有對應路由的請求交給Gin回404，不在這裡擋下
		if c.FullPath() == "" {
			c.Next()
			return
		}

		level, ok := policyTable[c.Request.Method+" "+c.FullPath()]
		if !ok {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   true,
				"code":    "permission_denied",
				"message": "沒有權限",
			})
			c.Abort()
			return
		}

		if level == AccessPublic {
			c.Next()
			return
		}

		_, loggedIn := c.Get("UserID")
		if !loggedIn {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error":   true,
				"code":    "unauthenticated",
				"message": "尚未登入",
			})
			c.Abort()
			return
		}

		role := c.GetString("Role")
		allowed := true
		switch level {
		case AccessAdminOrManager:
			allowed = role == models.RoleAdmin || role == models.RoleManager
		case AccessAdmin:
			allowed = role == models.RoleAdmin
		}
		if !allowed {
			c.JSON(http.StatusForbidden, gin.H{
				"error":   true,
				"code":    "permission_denied",
				"message": "沒有權限",
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
