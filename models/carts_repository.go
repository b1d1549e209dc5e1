package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type CartsRepository struct {
	db *gorm.DB
}

func NewCartsRepository(db *gorm.DB) *CartsRepository {
	return &CartsRepository{db: db}
}

// GetOrCreateForCustomer returns the customer's active cart, creating an
// empty one on first use. A customer has at most one non-finalized cart.
func (r *CartsRepository) GetOrCreateForCustomer(customerID uint) (*Cart, error) {
	var cart Cart
	err := r.db.Preload("Items").
		Where("customer_id = ? AND finalized = ?", customerID, false).
		First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = Cart{CustomerID: &customerID}
	if err := r.db.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

// GetOrCreateForSession returns the active anonymous cart behind a session
// key, creating it lazily on the first add-to-cart of a session.
func (r *CartsRepository) GetOrCreateForSession(sessionKey string) (*Cart, error) {
	var cart Cart
	err := r.db.Preload("Items").
		Where("session_key = ? AND finalized = ?", sessionKey, false).
		First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	cart = Cart{SessionKey: &sessionKey, Anonymous: true}
	if err := r.db.Create(&cart).Error; err != nil {
		return nil, err
	}
	return &cart, nil
}

func (r *CartsRepository) Get(cartID uint) (*Cart, error) {
	var cart Cart
	if err := r.db.Preload("Items").First(&cart, cartID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCartNotFound
		}
		return nil, err
	}
	return &cart, nil
}

// AddItem puts qty units of the referenced product into the cart. An existing
// line item for the same reference gains quantity and has its line total
// repriced at the product's current price; line totals of other items keep
// their snapshots. Runs in one transaction with the cart row locked so two
// concurrent mutations cannot lose a total recomputation.
func (r *CartsRepository) AddItem(cartID uint, kind ProductKind, productID uint, qty int) (*Cart, error) {
	if qty < 1 {
		return nil, &ValidationError{Field: "qty", Reason: "must be at least 1"}
	}

	var cart *Cart
	err := r.db.Transaction(func(tx *gorm.DB) error {
		locked, err := lockCart(tx, cartID)
		if err != nil {
			return err
		}

		product, err := NewProductsRepository(tx).Resolve(kind, productID)
		if err != nil {
			return err
		}
		base := product.Base()

		var item CartProduct
		err = tx.Where("cart_id = ? AND product_kind = ? AND product_id = ?",
			cartID, kind, productID).First(&item).Error
		switch {
		case errors.Is(err, gorm.ErrRecordNotFound):
			item = CartProduct{
				CartID:     cartID,
				CustomerID: locked.CustomerID,
				ProductRef: ProductRef{Kind: kind, ProductID: productID},
				Title:      base.Title,
				Qty:        qty,
				LineTotal:  lineTotal(base.Price, qty),
				AddedAt:    time.Now(),
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}
		case err != nil:
			return err
		default:
			item.Qty += qty
			item.LineTotal = lineTotal(base.Price, item.Qty)
			if err := tx.Save(&item).Error; err != nil {
				return err
			}
		}

		cart, err = recalcCart(tx, locked)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// SetQuantity replaces a line item's quantity, repricing its line total at
// the product's current price, then recomputes the cart totals.
func (r *CartsRepository) SetQuantity(cartID uint, kind ProductKind, productID uint, qty int) (*Cart, error) {
	if qty < 1 {
		return nil, &ValidationError{Field: "qty", Reason: "must be at least 1"}
	}

	var cart *Cart
	err := r.db.Transaction(func(tx *gorm.DB) error {
		locked, err := lockCart(tx, cartID)
		if err != nil {
			return err
		}

		product, err := NewProductsRepository(tx).Resolve(kind, productID)
		if err != nil {
			return err
		}

		var item CartProduct
		err = tx.Where("cart_id = ? AND product_kind = ? AND product_id = ?",
			cartID, kind, productID).First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCartItemNotFound
		}
		if err != nil {
			return err
		}

		item.Qty = qty
		item.LineTotal = lineTotal(product.Base().Price, qty)
		if err := tx.Save(&item).Error; err != nil {
			return err
		}

		cart, err = recalcCart(tx, locked)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

// RemoveItem deletes a line item and recomputes the cart totals.
func (r *CartsRepository) RemoveItem(cartID uint, kind ProductKind, productID uint) (*Cart, error) {
	var cart *Cart
	err := r.db.Transaction(func(tx *gorm.DB) error {
		locked, err := lockCart(tx, cartID)
		if err != nil {
			return err
		}

		res := tx.Where("cart_id = ? AND product_kind = ? AND product_id = ?",
			cartID, kind, productID).Delete(&CartProduct{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return ErrCartItemNotFound
		}

		cart, err = recalcCart(tx, locked)
		return err
	})
	if err != nil {
		return nil, err
	}
	return cart, nil
}

func lockCart(tx *gorm.DB, cartID uint) (*Cart, error) {
	q := tx
	// SQLite rejects FOR UPDATE; its writers are serialized anyway.
	if tx.Dialector.Name() != "sqlite" {
		q = tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var cart Cart
	err := q.First(&cart, cartID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCartNotFound
	}
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// recalcCart reloads the full item set and rewrites the denormalized totals.
func recalcCart(tx *gorm.DB, cart *Cart) (*Cart, error) {
	if err := tx.Where("cart_id = ?", cart.ID).Find(&cart.Items).Error; err != nil {
		return nil, err
	}
	cart.RecalculateTotals()
	if err := tx.Model(cart).
		Updates(map[string]any{
			"total_items": cart.TotalItems,
			"total_price": cart.TotalPrice,
		}).Error; err != nil {
		return nil, err
	}
	return cart, nil
}
