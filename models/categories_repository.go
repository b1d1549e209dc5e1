package models

import (
	"errors"

	"gorm.io/gorm"
)

type CategoriesRepository struct {
	db *gorm.DB
}

func NewCategoriesRepository(db *gorm.DB) *CategoriesRepository {
	return &CategoriesRepository{db: db}
}

func (r *CategoriesRepository) GetAllCategories() ([]Category, error) {
	var categories []Category
	if err := r.db.Order("id").Find(&categories).Error; err != nil {
		return nil, err
	}
	return categories, nil
}

func (r *CategoriesRepository) GetBySlug(slug string) (*Category, error) {
	var category Category
	if err := r.db.Where("slug = ?", slug).First(&category).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}
		return nil, err
	}
	return &category, nil
}

func (r *CategoriesRepository) CreateCategory(category *Category) error {
	if category.Name == "" {
		return &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	if category.Slug == "" {
		return &ValidationError{Field: "slug", Reason: "must not be empty"}
	}
	if err := r.db.Create(category).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return &ValidationError{Field: "slug", Reason: "already in use"}
		}
		return err
	}
	return nil
}

// GetSidebarCategories returns every category with the number of products it
// holds across all variant tables. The variants live in physically separate
// tables, so a single joined count is not expressible; instead one grouped
// count query runs per variant and the results are merged onto the category
// list by category id. Empty categories stay in the result with count 0.
func (r *CategoriesRepository) GetSidebarCategories() ([]SidebarCategory, error) {
	categories, err := r.GetAllCategories()
	if err != nil {
		return nil, err
	}

	notebookCounts, err := r.countByCategory(&Notebook{})
	if err != nil {
		return nil, err
	}
	smartphoneCounts, err := r.countByCategory(&Smartphone{})
	if err != nil {
		return nil, err
	}

	return mergeSidebarCounts(categories, notebookCounts, smartphoneCounts), nil
}

func (r *CategoriesRepository) countByCategory(model any) (map[uint]int64, error) {
	var rows []struct {
		CategoryID uint
		Count      int64
	}
	if err := r.db.Model(model).
		Select("category_id, count(*) as count").
		Group("category_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	counts := make(map[uint]int64, len(rows))
	for _, row := range rows {
		counts[row.CategoryID] = row.Count
	}
	return counts, nil
}
