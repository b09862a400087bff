package handlers

import (
	"LittleLemon/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
	"net/http"
)

// 從Context取得登入者ID
func currentUserID(c *gin.Context) (uint, bool) {
	userID, ok := c.Get("UserID")
	if !ok {
		return 0, false
	}
	return userID.(uint), true
}

// MySQL下對查詢加上FOR UPDATE鎖，同一位使用者的購物車操作
// 會在資料庫層互斥（SQLite本身對寫入序列化，不支援此語法）
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// 查詢自己的購物車
func GetCartHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, CodeUnauthenticated, "尚未登入")
		return
	}

	var cartLines []models.CartLine
	err := db.Preload("MenuItem").Where("user_id = ?", userID).Order("id").Find(&cartLines).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢購物車失敗")
		return
	}

	total := decimal.Zero
	cartLinesData := make([]gin.H, 0, len(cartLines))
	for _, cartLine := range cartLines {
		total = total.Add(cartLine.Price)
		cartLinesData = append(cartLinesData, gin.H{
			"menuitem":   cartLine.MenuItemID,
			"name":       cartLine.MenuItem.Title,
			"quantity":   cartLine.Quantity,
			"unit_price": cartLine.UnitPrice,
			"price":      cartLine.Price,
		})
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "成功查詢購物車",
		"cartLines": cartLinesData,
		"total":     total,
	})
}

// 新增餐點至購物車，同一餐點已在購物車時更新數量而不是新增一筆，
// 單價在寫入當下從餐點重新讀取，金額一律等於數量乘以單價
func AddToCartHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, CodeUnauthenticated, "尚未登入")
		return
	}

	var cartLineReq struct {
		MenuItemID uint `json:"menuitem" binding:"required"`
		Quantity   int  `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&cartLineReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "綁定請求資料錯誤")
		return
	}

	if cartLineReq.Quantity < 1 {
		respondError(c, http.StatusBadRequest, CodeValidation, "數量必須是大於0的整數")
		return
	}

	tx := db.Begin()
	if tx.Error != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "開啟資料庫事務失敗")
		return
	}
	defer func() {
		if r := recover(); r != nil {
			tx.Rollback()
		}
	}()

	var menuItem models.MenuItem
	err := tx.First(&menuItem, "id = ?", cartLineReq.MenuItemID).Error
	if err != nil {
		tx.Rollback()
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, CodeNotFound, "查無此餐點")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢餐點資料失敗")
		return
	}

	quantity := uint(cartLineReq.Quantity)
	price := menuItem.Price.Mul(decimal.NewFromInt(int64(quantity)))

	var cartLine models.CartLine
	err = lockForUpdate(tx).
		Where("user_id = ? AND menu_item_id = ?", userID, menuItem.ID).
		First(&cartLine).
		Error
	if err != nil {
		if err != gorm.ErrRecordNotFound {
			tx.Rollback()
			respondError(c, http.StatusInternalServerError, CodeInternal, "查詢購物車失敗")
			return
		}

		cartLine = models.CartLine{
			UserID:     userID,
			MenuItemID: menuItem.ID,
			Quantity:   quantity,
			UnitPrice:  menuItem.Price,
			Price:      price,
		}
		if err := tx.Create(&cartLine).Error; err != nil {
			tx.Rollback()
			respondError(c, http.StatusInternalServerError, CodeInternal, "新增餐點至購物車失敗")
			return
		}
	} else {
		cartLine.Quantity = quantity
		cartLine.UnitPrice = menuItem.Price
		cartLine.Price = price
		if err := tx.Save(&cartLine).Error; err != nil {
			tx.Rollback()
			respondError(c, http.StatusInternalServerError, CodeInternal, "更新購物車項目失敗")
			return
		}
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternal, "提交事務失敗")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "成功新增餐點至購物車",
		"menuitem":   cartLine.MenuItemID,
		"quantity":   cartLine.Quantity,
		"unit_price": cartLine.UnitPrice,
		"price":      cartLine.Price,
	})
}

// 清空自己的購物車，購物車本來就是空的也回傳成功
func ClearCartHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, CodeUnauthenticated, "尚未登入")
		return
	}

	//購物車項目是暫時性資料，直接實刪，否則留下的軟刪除列
	//會卡住(user_id, menu_item_id)唯一索引，同一餐點無法再加入
	result := db.Unscoped().Where("user_id = ?", userID).Delete(&models.CartLine{})
	if result.Error != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "清空購物車失敗")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功清空購物車",
		"removed": result.RowsAffected,
	})
}
