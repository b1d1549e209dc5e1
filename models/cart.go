package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductRef points at a row in one of the product variant tables. The kind
// disambiguates the numeric id, so there is no foreign key to a single table.
type ProductRef struct {
	Kind      ProductKind `gorm:"column:product_kind;not null"`
	ProductID uint        `gorm:"column:product_id;not null"`
}

// CartProduct is one line item of a cart. Title and LineTotal are snapshots
// taken when the item was last written; editing the product afterwards must
// not change them.
type CartProduct struct {
	ID         uint  `gorm:"primaryKey"`
	CartID     uint  `gorm:"index;not null"`
	CustomerID *uint
	ProductRef `gorm:"embedded"`
	Title      string
	Qty        int             `gorm:"not null"`
	LineTotal  decimal.Decimal `gorm:"type:decimal(9,2);not null"`
	AddedAt    time.Time
}

func (cp *CartProduct) TableName() string { return "cart_products" }

// Cart aggregates line items for one customer or one anonymous session.
// TotalItems and TotalPrice are denormalized; every mutation recomputes them
// from the full item set. SessionKey is NULL on customer carts, and a session
// key recurs across finalized carts, so the index must not be unique; the
// one-active-cart rule is enforced by the get-or-create path instead.
type Cart struct {
	ID         uint            `gorm:"primaryKey"`
	CustomerID *uint           `gorm:"index"`
	SessionKey *string         `gorm:"index"`
	Items      []CartProduct   `gorm:"foreignKey:CartID"`
	TotalItems int
	TotalPrice decimal.Decimal `gorm:"type:decimal(9,2)"`
	Finalized  bool            `gorm:"default:false"`
	Anonymous  bool            `gorm:"default:false"`
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

func (c *Cart) TableName() string { return "carts" }

// RecalculateTotals recomputes the denormalized totals from the item set.
// Always a full pass, never incremental, so the totals cannot drift from the
// items.
func (c *Cart) RecalculateTotals() {
	count := 0
	total := decimal.Zero
	for _, item := range c.Items {
		count += item.Qty
		total = total.Add(item.LineTotal)
	}
	c.TotalItems = count
	c.TotalPrice = total
}

// lineTotal prices qty units at the product's current price.
func lineTotal(price decimal.Decimal, qty int) decimal.Decimal {
	return price.Mul(decimal.NewFromInt(int64(qty)))
}
