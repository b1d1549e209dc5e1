package models

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// ProductKind discriminates the product variant tables. It is the tag half of
// a generic product reference and the {kind} segment of product URLs.
type ProductKind string

const (
	KindNotebook   ProductKind = "notebook"
	KindSmartphone ProductKind = "smartphone"
)

// ProductKinds lists every known kind in display order.
var ProductKinds = []ProductKind{KindNotebook, KindSmartphone}

// ParseKind validates a kind coming from a URL segment or a request body.
func ParseKind(s string) (ProductKind, error) {
	switch ProductKind(s) {
	case KindNotebook:
		return KindNotebook, nil
	case KindSmartphone:
		return KindSmartphone, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedKind, s)
}

// ProductBase carries the attributes shared by every product variant.
// It is embedded into each variant table; there is no shared product table.
type ProductBase struct {
	ID          uint            `gorm:"primaryKey"`
	CategoryID  uint            `gorm:"not null;index"`
	Category    Category        `gorm:"foreignKey:CategoryID"`
	Title       string          `gorm:"not null"`
	Slug        string          `gorm:"uniqueIndex;not null"`
	Image       string          `gorm:"not null"`
	Description *string
	Price       decimal.Decimal `gorm:"type:decimal(9,2);not null"`
	CreatedAt   time.Time
}

// Product is the tagged union over the concrete variants. Anything that needs
// to treat notebooks and smartphones uniformly (cart line items, the latest
// products widget) works against this interface.
type Product interface {
	Kind() ProductKind
	Base() *ProductBase
}

type Notebook struct {
	ProductBase   `gorm:"embedded"`
	Diagonal      string `gorm:"not null"`
	DisplayType   string `gorm:"not null"`
	ProcessorFreq string `gorm:"not null"`
	RAM           string `gorm:"not null"`
	Video         string `gorm:"not null"`
	BatteryLife   string `gorm:"not null"`
}

func (n *Notebook) TableName() string { return "notebooks" }

func (n *Notebook) Kind() ProductKind  { return KindNotebook }
func (n *Notebook) Base() *ProductBase { return &n.ProductBase }

type Smartphone struct {
	ProductBase  `gorm:"embedded"`
	Diagonal     string `gorm:"not null"`
	DisplayType  string `gorm:"not null"`
	Resolution   string `gorm:"not null"`
	AccumVolume  string `gorm:"not null"`
	RAM          string `gorm:"not null"`
	SD           bool   `gorm:"default:true"`
	SDVolumeMax  *string
	MainCamMP    string `gorm:"not null"`
	FrontalCamMP string `gorm:"not null"`
}

func (s *Smartphone) TableName() string { return "smartphones" }

func (s *Smartphone) Kind() ProductKind  { return KindSmartphone }
func (s *Smartphone) Base() *ProductBase { return &s.ProductBase }

// Normalize enforces the SD card rule: a phone without an SD slot cannot
// advertise a maximum card volume, whatever the caller supplied.
func (s *Smartphone) Normalize() {
	if !s.SD {
		s.SDVolumeMax = nil
	}
}

// ProductURL builds the stable external identifier of a product from its
// concrete kind and slug. The kind comes from the Go type, not from a stored
// column, so two variants may share a numeric id without colliding.
func ProductURL(p Product) string {
	return fmt.Sprintf("/products/%s/%s/", p.Kind(), p.Base().Slug)
}

// variantCategorySlug pins each product kind to its own category. Product
// writes are rejected when the category does not match the variant, the same
// restriction the catalog admins work under.
var variantCategorySlug = map[ProductKind]string{
	KindNotebook:   "notebooks",
	KindSmartphone: "smartphones",
}

func validateBase(b *ProductBase) error {
	if b.Title == "" {
		return &ValidationError{Field: "title", Reason: "must not be empty"}
	}
	if b.Slug == "" {
		return &ValidationError{Field: "slug", Reason: "must not be empty"}
	}
	if b.Price.IsNegative() {
		return &ValidationError{Field: "price", Reason: "must not be negative"}
	}
	return nil
}

func validateCategoryForKind(kind ProductKind, category *Category) error {
	if category.Slug != variantCategorySlug[kind] {
		return &ValidationError{
			Field:  "category",
			Reason: fmt.Sprintf("category %q cannot hold %s products", category.Slug, kind),
		}
	}
	return nil
}
