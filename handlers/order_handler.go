package handlers

import (
	"LittleLemon/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"log"
	"net/http"
	"time"
)

func orderData(order *models.Order) gin.H {
	orderItemsData := make([]gin.H, 0, len(order.OrderItems))
	for _, orderItem := range order.OrderItems {
		orderItemsData = append(orderItemsData, gin.H{
			"menuitem": orderItem.MenuItemID,
			"quantity": orderItem.Quantity,
			"price":    orderItem.Price,
		})
	}

	return gin.H{
		"id":            order.ID,
		"user":          order.UserID,
		"delivery_crew": order.DeliveryCrewID,
		"status":        order.Status,
		"date":          order.Date,
		"total":         order.Total,
		"orderItems":    orderItemsData,
	}
}

// 依照角色限定可見的訂單範圍：經理看全部、外送員看指派給自己的、
// 一般使用者只看自己的
func scopeOrdersByRole(db *gorm.DB, userID uint, role string) *gorm.DB {
	switch role {
	case models.RoleAdmin, models.RoleManager:
		return db
	case models.RoleDeliveryCrew:
		return db.Where("delivery_crew_id = ?", userID)
	default:
		return db.Where("user_id = ?", userID)
	}
}

// 送出訂單：在同一個事務內建立訂單、複製購物車項目為訂單項目快照、
// 清空購物車，三個動作要嘛全部成功要嘛全部取消
func PlaceOrderHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, CodeUnauthenticated, "尚未登入")
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

	//鎖住自己的購物車項目，避免同時下單或同時修改購物車
	var cartLines []models.CartLine
	err := lockForUpdate(tx).Where("user_id = ?", userID).Order("id").Find(&cartLines).Error
	if err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢購物車失敗")
		return
	}

	if len(cartLines) == 0 {
		tx.Rollback()
		respondError(c, http.StatusBadRequest, CodeEmptyCart, "購物車是空的，無法送出訂單")
		return
	}

	total := decimal.Zero
	for _, cartLine := range cartLines {
		total = total.Add(cartLine.Price)
	}

	order := models.Order{
		UserID: userID,
		Status: models.StatusPending,
		Date:   time.Now(),
		Total:  total,
	}
	if err := tx.Create(&order).Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternal, "建立訂單失敗")
		log.Printf("建立訂單失敗 Error: %s", err.Error())
		return
	}

	orderItems := make([]models.OrderItem, len(cartLines))
	for i, cartLine := range cartLines {
		orderItems[i] = models.OrderItem{
			OrderID:    order.ID,
			MenuItemID: cartLine.MenuItemID,
			Quantity:   cartLine.Quantity,
			Price:      cartLine.Price,
		}
	}
	if err := tx.Create(&orderItems).Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternal, "建立訂單項目失敗")
		return
	}

	//實刪購物車項目，軟刪除列會卡住(user_id, menu_item_id)唯一索引
	if err := tx.Unscoped().Where("user_id = ?", userID).Delete(&models.CartLine{}).Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternal, "清空購物車失敗")
		return
	}

	if err := tx.Commit().Error; err != nil {
		tx.Rollback()
		respondError(c, http.StatusInternalServerError, CodeInternal, "提交事務失敗")
		return
	}

	order.OrderItems = orderItems
	c.JSON(http.StatusCreated, gin.H{
		"message": "成功送出訂單",
		"order":   orderData(&order),
	})
}

// 查詢訂單列表
func GetOrderListHandler(c *gin.Context, db *gorm.DB) {
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, CodeUnauthenticated, "尚未登入")
		return
	}
	role := c.GetString("Role")

	var orders []models.Order
	err := scopeOrdersByRole(db, userID, role).Preload("OrderItems").Order("id").Find(&orders).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢訂單列表失敗")
		return
	}

	orderList := make([]gin.H, 0, len(orders))
	for i := range orders {
		orderList = append(orderList, orderData(&orders[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":   "成功查詢訂單列表",
		"orderList": orderList,
	})
}

// 查詢單一訂單，看不到範圍外的訂單（回傳404，不透露訂單是否存在）
func GetOrderHandler(c *gin.Context, db *gorm.DB) {
	orderID := c.Param("orderID")
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, CodeUnauthenticated, "尚未登入")
		return
	}
	role := c.GetString("Role")

	var order models.Order
	err := scopeOrdersByRole(db, userID, role).
		Preload("OrderItems").
		First(&order, "id = ?", orderID).
		Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, CodeNotFound, "查無此訂單")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢訂單失敗")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功查詢訂單",
		"order":   orderData(&order),
	})
}

// 修改訂單：經理可指派外送員並任意設定狀態，
// 被指派的外送員只能把狀態往前推進，其他人一律拒絕
func UpdateOrderHandler(c *gin.Context, db *gorm.DB) {
	orderID := c.Param("orderID")
	userID, ok := currentUserID(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, CodeUnauthenticated, "尚未登入")
		return
	}
	role := c.GetString("Role")

	var order models.Order
	err := db.Preload("OrderItems").First(&order, "id = ?", orderID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, CodeNotFound, "查無此訂單")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢訂單失敗")
		return
	}

	var orderReq struct {
		Status         *string `json:"status"`
		DeliveryCrewID *uint   `json:"delivery_crew"`
	}
	if err := c.ShouldBindJSON(&orderReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "綁定請求資料錯誤")
		return
	}

	isManager := role == models.RoleAdmin || role == models.RoleManager
	isAssignedCrew := role == models.RoleDeliveryCrew &&
		order.DeliveryCrewID != nil && *order.DeliveryCrewID == userID

	if !isManager && !isAssignedCrew {
		respondError(c, http.StatusForbidden, CodePermission, "沒有權限修改此訂單")
		return
	}

	if orderReq.DeliveryCrewID != nil {
		if !isManager {
			respondError(c, http.StatusForbidden, CodePermission, "只有經理可以指派外送員")
			return
		}

		var crewUser models.User
		err := db.First(&crewUser, "id = ?", *orderReq.DeliveryCrewID).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				respondError(c, http.StatusNotFound, CodeNotFound, "查無此使用者")
				return
			}
			respondError(c, http.StatusInternalServerError, CodeInternal, "查詢使用者失敗")
			return
		}
		if crewUser.Role != models.RoleDeliveryCrew {
			respondError(c, http.StatusBadRequest, CodeValidation, "此使用者不是外送員")
			return
		}

		order.DeliveryCrewID = orderReq.DeliveryCrewID
	}

	if orderReq.Status != nil {
		if !models.IsValidStatus(*orderReq.Status) {
			respondError(c, http.StatusBadRequest, CodeValidation, "不合法的訂單狀態")
			return
		}
		//外送員只能把狀態往前推進，不能倒退或原地更新
		if !isManager && !models.IsForwardStatus(order.Status, *orderReq.Status) {
			respondError(c, http.StatusForbidden, CodePermission, "外送員只能將訂單狀態往前推進")
			return
		}
		order.Status = *orderReq.Status
	}

	if err := db.Save(&order).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "修改訂單失敗")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "成功修改訂單",
		"order":   orderData(&order),
	})
}
