package handlers

import (
	"LittleLemon/models"
	"errors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	"net/http"
)

func categoryData(category *models.Category) gin.H {
	return gin.H{
		"id":    category.ID,
		"slug":  category.Slug,
		"title": category.Title,
	}
}

// 檢查分類slug是否重複，excludeID排除自己
func isCategorySlugExists(db *gorm.DB, slug string, excludeID uint) (bool, error) {
	var category models.Category
	err := db.Where("slug = ? AND id <> ?", slug, excludeID).First(&category).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

// 查詢分類列表，依照id排序
func GetCategoryListHandler(c *gin.Context, db *gorm.DB) {
	var categories []models.Category
	err := db.Order("id").Find(&categories).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "無法讀取分類列表")
		return
	}

	categoriesData := make([]gin.H, 0, len(categories))
	for i := range categories {
		categoriesData = append(categoriesData, categoryData(&categories[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"message":    "成功讀取分類列表",
		"categories": categoriesData,
	})
}

// 查詢單一分類
func GetCategoryHandler(c *gin.Context, db *gorm.DB) {
	categoryID := c.Param("categoryID")

	var category models.Category
	err := db.First(&category, "id = ?", categoryID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, CodeNotFound, "查無此分類")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢分類失敗")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "成功查詢分類",
		"category": categoryData(&category),
	})
}

// 新增分類
func CreateCategoryHandler(c *gin.Context, db *gorm.DB) {
	var categoryReq struct {
		Slug  string `json:"slug" binding:"required"`
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&categoryReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "綁定請求資料錯誤")
		return
	}

	exists, err := isCategorySlugExists(db, categoryReq.Slug, 0)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢分類失敗")
		return
	}
	if exists {
		respondError(c, http.StatusConflict, CodeConflict, "分類slug已經存在")
		return
	}

	category := models.Category{
		Slug:  categoryReq.Slug,
		Title: categoryReq.Title,
	}
	if err := db.Create(&category).Error; err != nil {
		//與先檢查後寫入之間仍可能撞上唯一索引
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, http.StatusConflict, CodeConflict, "分類slug已經存在")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "新增分類失敗")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "成功新增分類",
		"category": categoryData(&category),
	})
}

// 修改分類，PUT整筆覆蓋
func UpdateCategoryHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	categoryID := c.Param("categoryID")

	var category models.Category
	err := db.First(&category, "id = ?", categoryID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, CodeNotFound, "查無此分類")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢分類失敗")
		return
	}

	var categoryReq struct {
		Slug  string `json:"slug" binding:"required"`
		Title string `json:"title" binding:"required"`
	}
	if err := c.ShouldBindJSON(&categoryReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "綁定請求資料錯誤")
		return
	}

	exists, err := isCategorySlugExists(db, categoryReq.Slug, category.ID)
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢分類失敗")
		return
	}
	if exists {
		respondError(c, http.StatusConflict, CodeConflict, "分類slug已經存在")
		return
	}

	category.Slug = categoryReq.Slug
	category.Title = categoryReq.Title
	if err := db.Save(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, http.StatusConflict, CodeConflict, "分類slug已經存在")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "修改分類失敗")
		return
	}

	//快取內的餐點帶有分類資料，分類異動後一併作廢
	invalidateMenuItemCache(c, rdb)

	c.JSON(http.StatusOK, gin.H{
		"message":  "成功修改分類",
		"category": categoryData(&category),
	})
}

// 部分修改分類
func PatchCategoryHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	categoryID := c.Param("categoryID")

	var category models.Category
	err := db.First(&category, "id = ?", categoryID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, CodeNotFound, "查無此分類")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢分類失敗")
		return
	}

	var categoryReq struct {
		Slug  *string `json:"slug"`
		Title *string `json:"title"`
	}
	if err := c.ShouldBindJSON(&categoryReq); err != nil {
		respondError(c, http.StatusBadRequest, CodeValidation, "綁定請求資料錯誤")
		return
	}

	if categoryReq.Slug != nil {
		exists, err := isCategorySlugExists(db, *categoryReq.Slug, category.ID)
		if err != nil {
			respondError(c, http.StatusInternalServerError, CodeInternal, "查詢分類失敗")
			return
		}
		if exists {
			respondError(c, http.StatusConflict, CodeConflict, "分類slug已經存在")
			return
		}
		category.Slug = *categoryReq.Slug
	}
	if categoryReq.Title != nil {
		category.Title = *categoryReq.Title
	}

	if err := db.Save(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			respondError(c, http.StatusConflict, CodeConflict, "分類slug已經存在")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "修改分類失敗")
		return
	}

	invalidateMenuItemCache(c, rdb)

	c.JSON(http.StatusOK, gin.H{
		"message":  "成功修改分類",
		"category": categoryData(&category),
	})
}

// 刪除分類，仍有餐點屬於此分類時不可刪除
func DeleteCategoryHandler(c *gin.Context, db *gorm.DB, rdb *redis.Client) {
	categoryID := c.Param("categoryID")

	var category models.Category
	err := db.First(&category, "id = ?", categoryID).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			respondError(c, http.StatusNotFound, CodeNotFound, "查無此分類")
			return
		}
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢分類失敗")
		return
	}

	var referenced int64
	err = db.Model(&models.MenuItem{}).Where("category_id = ?", category.ID).Count(&referenced).Error
	if err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "查詢餐點失敗")
		return
	}
	if referenced > 0 {
		respondError(c, http.StatusConflict, CodeConflict, "分類下仍有餐點，無法刪除")
		return
	}

	//slug有唯一索引，實刪才能讓slug重新使用
	if err := db.Unscoped().Delete(&category).Error; err != nil {
		respondError(c, http.StatusInternalServerError, CodeInternal, "刪除分類失敗")
		return
	}

	invalidateMenuItemCache(c, rdb)

	c.JSON(http.StatusOK, gin.H{
		"message": "成功刪除分類",
	})
}
