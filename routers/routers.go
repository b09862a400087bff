package routers

import (
	"LittleLemon/handlers"
	"LittleLemon/middleware"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"net/http"
)

func SetupRouters(db *gorm.DB, rdb *redis.Client) *gin.Engine {
	//建立Gin路由器
	router := gin.Default()
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, PATCH, DELETE, OPTIONS")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Expose-Headers", "Authorization")
		c.Next()
	})
	err := router.SetTrustedProxies(nil)
	if err != nil {
		return nil
	}

	router.OPTIONS("/*path", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	//先解析Token取得身分，再以靜態權限表檢查每個請求
	router.Use(middleware.AuthMiddleware(db), middleware.PolicyMiddleware())

	api := router.Group("/api/v1")
	{
		//註冊帳號
		api.POST("/register", func(context *gin.Context) {
			handlers.RegisterHandler(context, db)
		})
		//帳號密碼換取Token
		api.POST("/token-auth", func(context *gin.Context) {
			handlers.TokenAuthHandler(context, db)
		})
		//登出
		api.POST("/logout", func(context *gin.Context) {
			handlers.LogOutHandler(context, db)
		})

		//查詢分類列表
		api.GET("/categories", func(context *gin.Context) {
			handlers.GetCategoryListHandler(context, db)
		})
		//新增分類
		api.POST("/categories", func(context *gin.Context) {
			handlers.CreateCategoryHandler(context, db)
		})
		//查詢單一分類
		api.GET("/categories/:categoryID", func(context *gin.Context) {
			handlers.GetCategoryHandler(context, db)
		})
		//修改分類
		api.PUT("/categories/:categoryID", func(context *gin.Context) {
			handlers.UpdateCategoryHandler(context, db, rdb)
		})
		//部分修改分類
		api.PATCH("/categories/:categoryID", func(context *gin.Context) {
			handlers.PatchCategoryHandler(context, db, rdb)
		})
		//刪除分類
		api.DELETE("/categories/:categoryID", func(context *gin.Context) {
			handlers.DeleteCategoryHandler(context, db, rdb)
		})

		//查詢菜單列表
		api.GET("/menu-items", func(context *gin.Context) {
			handlers.GetMenuItemListHandler(context, db, rdb)
		})
		//新增餐點
		api.POST("/menu-items", func(context *gin.Context) {
			handlers.CreateMenuItemHandler(context, db, rdb)
		})
		//查詢單一餐點
		api.GET("/menu-items/:menuItemID", func(context *gin.Context) {
			handlers.GetMenuItemHandler(context, db)
		})
		//修改餐點
		api.PUT("/menu-items/:menuItemID", func(context *gin.Context) {
			handlers.UpdateMenuItemHandler(context, db, rdb)
		})
		//部分修改餐點
		api.PATCH("/menu-items/:menuItemID", func(context *gin.Context) {
			handlers.PatchMenuItemHandler(context, db, rdb)
		})
		//刪除餐點
		api.DELETE("/menu-items/:menuItemID", func(context *gin.Context) {
			handlers.DeleteMenuItemHandler(context, db, rdb)
		})

		//查詢購物車
		api.GET("/cart", func(context *gin.Context) {
			handlers.GetCartHandler(context, db)
		})
		//新增餐點至購物車
		api.POST("/cart", func(context *gin.Context) {
			handlers.AddToCartHandler(context, db)
		})
		//清空購物車
		api.DELETE("/cart", func(context *gin.Context) {
			handlers.ClearCartHandler(context, db)
		})

		//查詢訂單列表
		api.GET("/orders", func(context *gin.Context) {
			handlers.GetOrderListHandler(context, db)
		})
		//送出訂單並清空購物車
		api.POST("/orders", func(context *gin.Context) {
			handlers.PlaceOrderHandler(context, db)
		})
		//查詢單一訂單
		api.GET("/orders/:orderID", func(context *gin.Context) {
			handlers.GetOrderHandler(context, db)
		})
		//修改訂單狀態或指派外送員
		api.PUT("/orders/:orderID", func(context *gin.Context) {
			handlers.UpdateOrderHandler(context, db)
		})
		api.PATCH("/orders/:orderID", func(context *gin.Context) {
			handlers.UpdateOrderHandler(context, db)
		})

		//經理群組管理
		api.POST("/groups/manager/users", func(context *gin.Context) {
			handlers.AddManagerHandler(context, db)
		})
		api.DELETE("/groups/manager/users", func(context *gin.Context) {
			handlers.RemoveManagerHandler(context, db)
		})
		//外送員群組管理
		api.POST("/groups/delivery-crew/users", func(context *gin.Context) {
			handlers.AddDeliveryCrewHandler(context, db)
		})
		api.DELETE("/groups/delivery-crew/users", func(context *gin.Context) {
			handlers.RemoveDeliveryCrewHandler(context, db)
		})
	}

	return router
}
