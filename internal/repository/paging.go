package repository

import "gorm.io/gorm"

// pageScope 页码分页，pageSize <= 0 时返回全部
func pageScope(page, pageSize int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if pageSize <= 0 {
			return db
		}
		if page < 1 {
			page = 1
		}
		return db.Limit(pageSize).Offset((page - 1) * pageSize)
	}
}

// findPage 先统计总数，再按 ID 倒序取出一页
func findPage[T any](query *gorm.DB, page, pageSize int) ([]T, int64, error) {
	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}
	items := make([]T, 0)
	if total == 0 {
		return items, 0, nil
	}
	if err := query.Scopes(pageScope(page, pageSize)).Order("id desc").Find(&items).Error; err != nil {
		return nil, 0, err
	}
	return items, total, nil
}
