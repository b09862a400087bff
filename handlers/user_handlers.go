package handlers

import (
	"LittleLemon/jwt"
	"LittleLemon/models"
	"github.com/gin-gonic/gin"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"net/http"
	"regexp"
	"time"
	"unicode"
)

// 檢查使用者名稱是否合法
func ValidateUsername(username string) bool {
	if len(username) < 4 || len(username) > 20 {
		return false
	}
	pattern := "^[a-zA-Z0-9_-]+$"
	matched, _ := regexp.MatchString(pattern, username)
	return matched
}

// 檢查信箱是否合法
func ValidateEmail(email string) bool {
	pattern := "^[a-zA-Z0-9_.+-]+@[a-zA-Z0-9-]+\\.[a-zA-Z0-9-.]+$"
	matched, _ := regexp.MatchString(pattern, email)
	return matched
}

// 檢查密碼是否合法
func ValidatePassword(password string) bool {
	if len(password) < 8 || len(password) > 50 {
		return false
	}

	var (
		isUpper  = false
		isLower  = false
		isNumber = false
		isSpace  = false
	)

	for _, s := range password {
		switch {
		case unicode.IsSpace(s):
			isSpace = true
		case unicode.IsUpper(s):
			isUpper = true
		case unicode.IsLower(s):
			isLower = true
		case unicode.IsDigit(s):
			isNumber = true
		default:
		}
	}

	return isUpper && isLower && isNumber && !isSpace
}

// 檢查使用者名稱是否重複
func IsUserNameExists(db *gorm.DB, username string) (bool, error) {
	var user models.User
	err := db.First(&user, "Username = ?", username).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// 檢查Email是否重複
func IsUserEmailExists(db *gorm.DB, email string) (bool, error) {
	var user models.User
	err := db.First(&user, "Email = ?", email).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// 註冊使用者帳戶，新帳戶一律是一般使用者角色
func RegisterHandler(c *gin.Context, db *gorm.DB) {
	var registerReq struct {
		Username string `json:"username" binding:"required"`
		Email    string `json:"email" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&registerReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "綁定請求資料錯誤")
		return
	}

	if !ValidateUsername(registerReq.Username) {
		respondError(c, http.StatusBadRequest, CodeValidation, "註冊失敗:不合法的使用者名稱")
		return
	}

	if !ValidateEmail(registerReq.Email) {
		respondError(c, http.StatusBadRequest, CodeValidation, "註冊失敗:不合法的信箱")
		return
	}

	if !ValidatePassword(registerReq.Password) {
		respondError(c, http.StatusBadRequest, CodeValidation, "註冊失敗:不合法的密碼")
		return
	}

	result, err := IsUserNameExists(db, registerReq.Username)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "註冊失敗:檢查使用者名稱失敗")
		return
	}
	if result {
		respondError(c, http.StatusConflict, CodeConflict, "註冊失敗:使用者名稱已被使用")
		return
	}

	result, err = IsUserEmailExists(db, registerReq.Email)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "註冊失敗:檢查信箱失敗")
		return
	}
	if result {
		respondError(c, http.StatusConflict, CodeConflict, "註冊失敗:信箱已被使用")
		return
	}

	//將密碼Hash
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(registerReq.Password), bcrypt.DefaultCost)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "無法生成Hashed密碼")
		return
	}

	newUser := models.User{
		Username: registerReq.Username,
		Email:    registerReq.Email,
		Password: string(hashedPassword),
		Role:     models.RoleCustomer,
	}

	if err := db.Create(&newUser).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "無法儲存使用者資料至資料庫")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "使用者已成功註冊",
		"username": newUser.Username,
	})
}

// 帳號密碼換取Token
func TokenAuthHandler(c *gin.Context, db *gorm.DB) {
	//檢查是否已經登入
	if _, ok := c.Get("UserID"); ok {
		c.JSON(http.StatusOK, gin.H{
			"message": "已經登入",
		})
		return
	}

	var loginReq struct {
		Username string `json:"username" binding:"required"`
		Password string `json:"password" binding:"required"`
	}
	if err := c.ShouldBindJSON(&loginReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "綁定請求資料錯誤")
		return
	}

	//檢查是否有此帳號
	var user models.User
	err := db.First(&user, "Username = ?", loginReq.Username).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusBadRequest, CodeValidation, "找不到此帳號")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "資料庫錯誤")
		return
	}

	//檢查密碼是否正確
	err = bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(loginReq.Password))
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "密碼錯誤")
		return
	}

	//生成JWT Token
	tokenExpiredTime := time.Now().Add(time.Hour * 24)
	token, err := jwt.GenerateToken(user.ID, user.Role, tokenExpiredTime.Unix())
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "生成JWT Token錯誤")
		return
	}

	//儲存LoginToken，登出時刪除此紀錄讓Token失效
	loginToken := models.LoginToken{
		Token:          token,
		ExpirationTime: tokenExpiredTime,
		UserID:         user.ID,
		Role:           user.Role,
	}
	err = db.Create(&loginToken).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "儲存Login Token失敗")
		return
	}

	c.Header("Authorization", "Bearer "+token)
	c.JSON(http.StatusOK, gin.H{
		"message": "成功登入",
		"token":   token,
	})
}

func LogOutHandler(c *gin.Context, db *gorm.DB) {
	token, exists := c.Get("Token")
	if !exists {
		respondError(c, http.StatusBadRequest, CodeValidation, "無法取得Token")
		return
	}

	//刪除此LoginToken
	var loginToken models.LoginToken
	result := db.Delete(&loginToken, "Token = ?", token)
	if result.Error != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "資料庫錯誤")
		return
	}
	if result.RowsAffected == 0 {
		respondError(c, http.StatusBadRequest, CodeValidation, "找不到此token或已登出")
		return
	}

	c.Header("Authorization", "")
	c.JSON(http.StatusOK, gin.H{
		"message": "成功登出",
	})
}
