package models

import (
	"errors"

	"gorm.io/gorm"
)

// latestPerKind caps how many rows per variant the latest-products widget
// pulls.
const latestPerKind = 5

type ProductsRepository struct {
	db *gorm.DB
}

func NewProductsRepository(db *gorm.DB) *ProductsRepository {
	return &ProductsRepository{db: db}
}

// Resolve turns a generic (kind, id) reference into the concrete product row.
// An unknown kind fails before any query; a missing row maps to
// ErrProductNotFound.
func (r *ProductsRepository) Resolve(kind ProductKind, id uint) (Product, error) {
	switch kind {
	case KindNotebook:
		var notebook Notebook
		if err := r.first(&notebook, "id = ?", id); err != nil {
			return nil, err
		}
		return &notebook, nil
	case KindSmartphone:
		var smartphone Smartphone
		if err := r.first(&smartphone, "id = ?", id); err != nil {
			return nil, err
		}
		return &smartphone, nil
	}
	return nil, ErrUnsupportedKind
}

// GetBySlug dispatches a product-detail lookup to the variant table named by
// kind. Same error contract as Resolve.
func (r *ProductsRepository) GetBySlug(kind ProductKind, slug string) (Product, error) {
	switch kind {
	case KindNotebook:
		var notebook Notebook
		if err := r.first(&notebook, "slug = ?", slug); err != nil {
			return nil, err
		}
		return &notebook, nil
	case KindSmartphone:
		var smartphone Smartphone
		if err := r.first(&smartphone, "slug = ?", slug); err != nil {
			return nil, err
		}
		return &smartphone, nil
	}
	return nil, ErrUnsupportedKind
}

func (r *ProductsRepository) first(dest any, query string, arg any) error {
	err := r.db.Preload("Category").Where(query, arg).First(dest).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrProductNotFound
	}
	return err
}

// Latest returns the newest rows of each requested kind, up to latestPerKind
// per kind, newest first within a kind and kinds in request order. When
// preferred names a member of kinds, its products are moved to the front with
// both groups keeping their relative order. A preferred kind that is not in
// kinds is silently ignored and the plain concatenation returned, a quirk the
// home page has always relied on.
func (r *ProductsRepository) Latest(kinds []ProductKind, preferred ProductKind) ([]Product, error) {
	var products []Product
	for _, kind := range kinds {
		batch, err := r.latestOfKind(kind)
		if err != nil {
			return nil, err
		}
		products = append(products, batch...)
	}
	return reorderPreferred(products, kinds, preferred), nil
}

func (r *ProductsRepository) latestOfKind(kind ProductKind) ([]Product, error) {
	switch kind {
	case KindNotebook:
		var notebooks []Notebook
		if err := r.db.Order("id desc").Limit(latestPerKind).Find(&notebooks).Error; err != nil {
			return nil, err
		}
		products := make([]Product, len(notebooks))
		for i := range notebooks {
			products[i] = &notebooks[i]
		}
		return products, nil
	case KindSmartphone:
		var smartphones []Smartphone
		if err := r.db.Order("id desc").Limit(latestPerKind).Find(&smartphones).Error; err != nil {
			return nil, err
		}
		products := make([]Product, len(smartphones))
		for i := range smartphones {
			products[i] = &smartphones[i]
		}
		return products, nil
	}
	return nil, ErrUnsupportedKind
}

// reorderPreferred stable-partitions products so the preferred kind comes
// first. No-op when preferred is empty or not among the requested kinds.
func reorderPreferred(products []Product, kinds []ProductKind, preferred ProductKind) []Product {
	if preferred == "" {
		return products
	}
	requested := false
	for _, kind := range kinds {
		if kind == preferred {
			requested = true
			break
		}
	}
	if !requested {
		return products
	}

	front := make([]Product, 0, len(products))
	rest := make([]Product, 0, len(products))
	for _, p := range products {
		if p.Kind() == preferred {
			front = append(front, p)
		} else {
			rest = append(rest, p)
		}
	}
	return append(front, rest...)
}

// ByCategory collects the products of every kind belonging to one category,
// for the category detail page.
func (r *ProductsRepository) ByCategory(categoryID uint) ([]Product, error) {
	var notebooks []Notebook
	if err := r.db.Where("category_id = ?", categoryID).Order("id desc").Find(&notebooks).Error; err != nil {
		return nil, err
	}
	var smartphones []Smartphone
	if err := r.db.Where("category_id = ?", categoryID).Order("id desc").Find(&smartphones).Error; err != nil {
		return nil, err
	}

	products := make([]Product, 0, len(notebooks)+len(smartphones))
	for i := range notebooks {
		products = append(products, &notebooks[i])
	}
	for i := range smartphones {
		products = append(products, &smartphones[i])
	}
	return products, nil
}

// SaveNotebook validates and writes a notebook row. The category must be the
// one reserved for notebooks.
func (r *ProductsRepository) SaveNotebook(notebook *Notebook) error {
	if err := validateBase(&notebook.ProductBase); err != nil {
		return err
	}
	var category Category
	if err := r.db.First(&category, notebook.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	if err := validateCategoryForKind(KindNotebook, &category); err != nil {
		return err
	}
	return r.db.Save(notebook).Error
}

// SaveSmartphone validates, normalizes the SD fields and writes a smartphone
// row. Runs on every write path, not only the admin forms.
func (r *ProductsRepository) SaveSmartphone(smartphone *Smartphone) error {
	if err := validateBase(&smartphone.ProductBase); err != nil {
		return err
	}
	var category Category
	if err := r.db.First(&category, smartphone.CategoryID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCategoryNotFound
		}
		return err
	}
	if err := validateCategoryForKind(KindSmartphone, &category); err != nil {
		return err
	}
	smartphone.Normalize()
	return r.db.Save(smartphone).Error
}
