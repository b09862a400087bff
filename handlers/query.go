package handlers

import (
	"LittleLemon/models"
	"fmt"
	"github.com/shopspring/decimal"
	"sort"
	"strings"
)

// 菜單查詢參數，處理順序固定為：分類 → 價格 → 標題前綴 → 排序 → 分頁
type MenuItemQuery struct {
	Category string
	ToPrice  *decimal.Decimal
	Search   string
	Ordering []string
	Page     int
	PerPage  int
}

var orderableFields = map[string]bool{
	"id":       true,
	"title":    true,
	"price":    true,
	"featured": true,
	"category": true,
}

// 套用查詢參數，回傳該分頁的餐點與過濾後的總筆數。
// 超過最後一頁回傳空列表而不是錯誤。
func ApplyMenuItemQuery(items []models.MenuItem, query MenuItemQuery) ([]models.MenuItem, int, error) {
	filtered := make([]models.MenuItem, 0, len(items))
	for _, item := range items {
		if query.Category != "" && item.Category.Title != query.Category {
			continue
		}
		//to_price沿用舊版行為：比對價格相等而不是小於等於
		if query.ToPrice != nil && !item.Price.Equal(*query.ToPrice) {
			continue
		}
		if query.Search != "" && !strings.HasPrefix(item.Title, query.Search) {
			continue
		}
		filtered = append(filtered, item)
	}

	if err := sortMenuItems(filtered, query.Ordering); err != nil {
		return nil, 0, err
	}

	total := len(filtered)
	start := (query.Page - 1) * query.PerPage
	if start >= total {
		return []models.MenuItem{}, total, nil
	}
	end := min(start+query.PerPage, total)

	return filtered[start:end], total, nil
}

// 依照ordering參數排序，欄位可加上"-"前綴表示遞減，
// 比不出先後的維持原本順序
func sortMenuItems(items []models.MenuItem, ordering []string) error {
	type orderKey struct {
		field string
		desc  bool
	}

	keys := make([]orderKey, 0, len(ordering))
	for _, raw := range ordering {
		field := strings.TrimSpace(raw)
		if field == "" {
			continue
		}
		desc := strings.HasPrefix(field, "-")
		field = strings.TrimPrefix(field, "-")
		if !orderableFields[field] {
			return fmt.Errorf("無法依照欄位%q排序", field)
		}
		keys = append(keys, orderKey{field: field, desc: desc})
	}
	if len(keys) == 0 {
		return nil
	}

	sort.SliceStable(items, func(i, j int) bool {
		for _, key := range keys {
			result := compareMenuItems(&items[i], &items[j], key.field)
			if result == 0 {
				continue
			}
			if key.desc {
				return result > 0
			}
			return result < 0
		}
		return false
	})

	return nil
}

func compareMenuItems(a *models.MenuItem, b *models.MenuItem, field string) int {
	switch field {
	case "id":
		switch {
		case a.ID < b.ID:
			return -1
		case a.ID > b.ID:
			return 1
		}
	case "title":
		return strings.Compare(a.Title, b.Title)
	case "price":
		return a.Price.Cmp(b.Price)
	case "featured":
		switch {
		case !a.Featured && b.Featured:
			return -1
		case a.Featured && !b.Featured:
			return 1
		}
	case "category":
		return strings.Compare(a.Category.Title, b.Category.Title)
	}
	return 0
}
