package handlers

import (
	"LittleLemon/models"
	"encoding/json"
	"fmt"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"net/http"
	"strconv"
	"strings"
)

const menuItemCacheKey = "menu_items"

// 從Redis讀取完整菜單，如快取是空的則從資料庫讀取並回填
func loadMenuItems(c *gin.Context, db *gorm.DB, rdb *redis.Client) ([]models.MenuItem, error) {
	redisItems, err := rdb.ZRange(c, menuItemCacheKey, 0, -1).Result()
	if err != nil || len(redisItems) == 0 {
		var menuItems []models.MenuItem
		err = db.Preload("Category").Order("id").Find(&menuItems).Error
		if err != nil {
			return nil, err
		}

		rdb.Del(c, menuItemCacheKey)

		for _, menuItem := range menuItems {
			itemJSON, err := json.Marshal(menuItem)
			if err != nil {
				fmt.Printf("無法序列化餐點資料: %v\n", err)
				continue
			}

			err = rdb.ZAdd(c, menuItemCacheKey, redis.Z{
				Score:  float64(menuItem.ID),
				Member: itemJSON,
			}).Err()
			if err != nil {
				fmt.Printf("無法將餐點資料加入Redis: %v\n", err)
				continue
			}
		}

		return menuItems, nil
	}

	menuItems := make([]models.MenuItem, 0, len(redisItems))
	for _, redisItem := range redisItems {
		var menuItem models.MenuItem
		err = json.Unmarshal([]byte(redisItem), &menuItem)
		if err != nil {
			fmt.Printf("無法反序列化餐點資料: %v\n", err)
			continue
		}
		menuItems = append(menuItems, menuItem)
	}

	return menuItems, nil
}

// 菜單有任何異動時清掉快取，下次讀取時重新回填
func invalidateMenuItemCache(c *gin.Context, rdb *redis.Client) {
	rdb.Del(c, menuItemCacheKey)
}

func menuItemData(menuItem *models.MenuItem) gin.H {
	return gin.H{
		"id":       menuItem.ID,
		"title":    menuItem.Title,
		"price":    menuItem.Price,
		"featured": menuItem.Featured,
		"category": gin.H{
			"id":    menuItem.Category.ID,
			"slug":  menuItem.Category.Slug,
			"title": menuItem.Category.Title,
		},
	}
}

// 從query string解析菜單查詢參數
func parseMenuItemQuery(c *gin.Context) (MenuItemQuery, error) {
	query := MenuItemQuery{
		Category: c.Query("category"),
		Search:   c.Query("search"),
	}

	if toPrice := c.Query("to_price"); toPrice != "" {
		price, err := decimal.NewFromString(toPrice)
		if err != nil {
			return query, fmt.Errorf("to_price不是合法的價格")
		}
		query.ToPrice = &price
	}

	if ordering := c.Query("ordering"); ordering != "" {
		query.Ordering = strings.Split(ordering, ",")
	}

	perPage := c.DefaultQuery("perpage", "10")
	perPageInt, err := strconv.Atoi(perPage)
	if err != nil || perPageInt < 1 {
		return query, fmt.Errorf("perpage必須是大於0的整數")
	}
	query.PerPage = perPageInt

	page := c.DefaultQuery("page", "1")
	pageInt, err := strconv.Atoi(page)
	if err != nil || pageInt < 1 {
		return query, fmt.Errorf("page必須是大於0的整數")
	}
	query.Page = pageInt

	return query, nil
}

// 查詢菜單列表
func GetMenuItemListHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	query, err := parseMenuItemQuery(c)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	menuItems, err := loadMenuItems(c, db, rdb)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "無法讀取菜單列表")
		return
	}

	pageItems, totalCount, err := ApplyMenuItemQuery(menuItems, query)
	if err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, err.Error())
		return
	}

	menuItemsData := make([]gin.H, 0, len(pageItems))
	for i := range pageItems {
		menuItemsData = append(menuItemsData, menuItemData(&pageItems[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "成功讀取菜單列表",
		"menuItems":  menuItemsData,
		"totalCount": totalCount,
	})
}

// 查詢單一餐點
func GetMenuItemHandler(c *gin.Context, db *gorm.DB) {
	menuItemID := c.Param("menuItemID")

	var menuItem models.MenuItem
	err := db.Preload("Category").First(&menuItem, "id = ?", menuItemID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, CodeNotFound, "查無此餐點")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢餐點資料失敗")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "成功查詢餐點資料",
		"menuItem": menuItemData(&menuItem),
	})
}

// 新增餐點
func CreateMenuItemHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	var menuItemReq struct {
		Title      string          `json:"title" binding:"required"`
		Price      decimal.Decimal `json:"price" binding:"required"`
		Featured   bool            `json:"featured"`
		CategoryID uint            `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&menuItemReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "綁定請求資料錯誤")
		return
	}

	if !menuItemReq.Price.IsPositive() {
		respondError(c, http.StatusBadRequest, CodeValidation, "價格必須大於0")
		return
	}

	var category models.Category
	err := db.First(&category, "id = ?", menuItemReq.CategoryID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusBadRequest, CodeValidation, "查無此分類")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢分類失敗")
		return
	}

	menuItem := models.MenuItem{
		Title:      menuItemReq.Title,
		Price:      menuItemReq.Price,
		Featured:   menuItemReq.Featured,
		CategoryID: menuItemReq.CategoryID,
		Category:   category,
	}
	if err := db.Create(&menuItem).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "新增餐點失敗")
		return
	}

	invalidateMenuItemCache(c, rdb)

	c.JSON(http.StatusCreated, gin.H{
		"message":  "成功新增餐點",
		"menuItem": menuItemData(&menuItem),
	})
}

// 修改餐點，PUT整筆覆蓋
func UpdateMenuItemHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	menuItemID := c.Param("menuItemID")

	var menuItem models.MenuItem
	err := db.First(&menuItem, "id = ?", menuItemID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, CodeNotFound, "查無此餐點")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢餐點資料失敗")
		return
	}

	var menuItemReq struct {
		Title      string          `json:"title" binding:"required"`
		Price      decimal.Decimal `json:"price" binding:"required"`
		Featured   bool            `json:"featured"`
		CategoryID uint            `json:"category" binding:"required"`
	}
	if err := c.ShouldBindJSON(&menuItemReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "綁定請求資料錯誤")
		return
	}

	if !menuItemReq.Price.IsPositive() {
		respondError(c, http.StatusBadRequest, CodeValidation, "價格必須大於0")
		return
	}

	var category models.Category
	err = db.First(&category, "id = ?", menuItemReq.CategoryID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusBadRequest, CodeValidation, "查無此分類")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢分類失敗")
		return
	}

	menuItem.Title = menuItemReq.Title
	menuItem.Price = menuItemReq.Price
	menuItem.Featured = menuItemReq.Featured
	menuItem.CategoryID = menuItemReq.CategoryID
	menuItem.Category = category

	if err := db.Save(&menuItem).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "修改餐點失敗")
		return
	}

	invalidateMenuItemCache(c, rdb)

	c.JSON(http.StatusOK, gin.H{
		"message":  "成功修改餐點",
		"menuItem": menuItemData(&menuItem),
	})
}

// 部分修改餐點，只覆蓋有提供的欄位
func PatchMenuItemHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	menuItemID := c.Param("menuItemID")

	var menuItem models.MenuItem
	err := db.Preload("Category").First(&menuItem, "id = ?", menuItemID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, CodeNotFound, "查無此餐點")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢餐點資料失敗")
		return
	}

	var menuItemReq struct {
		Title      *string          `json:"title"`
		Price      *decimal.Decimal `json:"price"`
		Featured   *bool            `json:"featured"`
		CategoryID *uint            `json:"category"`
	}
	if err := c.ShouldBindJSON(&menuItemReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "綁定請求資料錯誤")
		return
	}

	if menuItemReq.Title != nil {
		menuItem.Title = *menuItemReq.Title
	}
	if menuItemReq.Price != nil {
		if !menuItemReq.Price.IsPositive() {
			respondError(c, http.StatusBadRequest, CodeValidation, "價格必須大於0")
			return
		}
		menuItem.Price = *menuItemReq.Price
	}
	if menuItemReq.Featured != nil {
		menuItem.Featured = *menuItemReq.Featured
	}
	if menuItemReq.CategoryID != nil {
		var category models.Category
		err = db.First(&category, "id = ?", *menuItemReq.CategoryID).Error
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				respondError(c, http.StatusBadRequest, CodeValidation, "查無此分類")
				return
			}
			respondError(c, http.StatusInternalServerError, CodeInternal, "查詢分類失敗")
			return
		}
		menuItem.CategoryID = *menuItemReq.CategoryID
		menuItem.Category = category
	}

	if err := db.Save(&menuItem).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "修改餐點失敗")
		return
	}

	invalidateMenuItemCache(c, rdb)

	c.JSON(http.StatusOK, gin.H{
		"message":  "成功修改餐點",
		"menuItem": menuItemData(&menuItem),
	})
}

// 刪除餐點，已被訂單項目引用的餐點不可刪除
func DeleteMenuItemHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	menuItemID := c.Param("menuItemID")

	var menuItem models.MenuItem
	err := db.First(&menuItem, "id = ?", menuItemID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, CodeNotFound, "查無此餐點")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢餐點資料失敗")
		return
	}

	var referenced int64
	err = db.Model(&models.OrderItem{}).Where("menu_item_id = ?", menuItem.ID).Count(&referenced).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢訂單項目失敗")
		return
	}
	if referenced > 0 {
		respondError(c, http.StatusConflict, CodeConflict, "餐點已被訂單引用，無法刪除")
		return
	}

	//一併實刪各購物車內引用此餐點的項目
	err = db.Unscoped().Where("menu_item_id = ?", menuItem.ID).Delete(&models.CartLine{}).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "刪除購物車項目失敗")
		return
	}

	if err := db.Delete(&menuItem).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "刪除餐點失敗")
		return
	}

	invalidateMenuItemCache(c, rdb)

	c.JSON(http.StatusOK, gin.H{
		"message": "成功刪除餐點",
	})
}
