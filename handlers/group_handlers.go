package handlers

import (
	"LittleLemon/models"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
	"net/http"
)

// 依username查詢使用者，供群組管理使用
func findUserByUsername(c *gin.Context, db *gorm.DB) (*models.User, bool) {
	var userReq struct {
		Username string `json:"username" binding:"required"`
	}
	if err := c.ShouldBindJSON(&userReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "綁定請求資料錯誤")
		return nil, false
	}

	var user models.User
	err := db.First(&user, "username = ?", userReq.Username).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, CodeNotFound, "查無此使用者")
			return nil, false
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢使用者失敗")
		return nil, false
	}

	return &user, true
}

// 將使用者加入指定群組（改寫角色標籤）
func addUserToGroup(c *gin.Context, db *gorm.DB, role string) {
	user, ok := findUserByUsername(c, db)
	if !ok {
		return
	}

	//管理員的角色不可被改寫
	if user.Role == models.RoleAdmin {
		respondError(c, http.StatusBadRequest, CodeValidation, "無法變更管理員的角色")
		return
	}

	user.Role = role
	if err := db.Save(user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "更新使用者角色失敗")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "成功將使用者加入群組",
		"username": user.Username,
		"role":     user.Role,
	})
}

// 將使用者移出指定群組，移出後回到一般使用者
func removeUserFromGroup(c *gin.Context, db *gorm.DB, role string) {
	user, ok := findUserByUsername(c, db)
	if !ok {
		return
	}

	if user.Role != role {
		respondError(c, http.StatusNotFound, CodeNotFound, "使用者不在此群組")
		return
	}

	user.Role = models.RoleCustomer
	if err := db.Save(user).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "更新使用者角色失敗")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "成功將使用者移出群組",
		"username": user.Username,
		"role":     user.Role,
	})
}

// 加入經理群組
func AddManagerHandler(c *gin.Context, db *gorm.DB) {
	addUserToGroup(c, db, models.RoleManager)
}

// 移出經理群組
func RemoveManagerHandler(c *gin.Context, db *gorm.DB) {
	removeUserFromGroup(c, db, models.RoleManager)
}

// 加入外送員群組
func AddDeliveryCrewHandler(c *gin.Context, db *gorm.DB) {
	addUserToGroup(c, db, models.RoleDeliveryCrew)
}

// 移出外送員群組
func RemoveDeliveryCrewHandler(c *gin.Context, db *gorm.DB) {
	removeUserFromGroup(c, db, models.RoleDeliveryCrew)
}
