package models

import (
	"github.com/sellflow-next/internal/logger"
)

// defaultCategories 首次启动时写入的基础分类
var defaultCategories = []Category{
	{Slug: "general", Name: "General", SortOrder: 0},
	{Slug: "fashion", Name: "Fashion", SortOrder: 10},
	{Slug: "electronics", Name: "Electronics", SortOrder: 20},
	{Slug: "food-beverage", Name: "Food & Beverage", SortOrder: 30},
}

// InitDefaultCategories 确保基础分类存在（幂等）
func InitDefaultCategories() error {
	var count int64
	if err := DB.Model(&Category{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, category := range defaultCategories {
		if err := DB.Create(&category).Error; err != nil {
			return err
		}
	}
	logger.Infow("default_categories_created", "count", len(defaultCategories))
	return nil
}
