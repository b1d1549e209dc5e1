package models

import (
	"errors"

	"gorm.io/gorm"
)

type CustomersRepository struct {
	db *gorm.DB
}

func NewCustomersRepository(db *gorm.DB) *CustomersRepository {
	return &CustomersRepository{db: db}
}

// GetOrCreateByIdentity links an external identity to a customer profile,
// creating the profile on first contact.
func (r *CustomersRepository) GetOrCreateByIdentity(identityRef string) (*Customer, error) {
	if identityRef == "" {
		return nil, &ValidationError{Field: "identity_ref", Reason: "must not be empty"}
	}

	var customer Customer
	err := r.db.Where("identity_ref = ?", identityRef).First(&customer).Error
	if err == nil {
		return &customer, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	customer = Customer{IdentityRef: identityRef}
	if err := r.db.Create(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}

// UpdateProfile rewrites the customer's contact details.
func (r *CustomersRepository) UpdateProfile(customerID uint, phone, address string) (*Customer, error) {
	var customer Customer
	if err := r.db.First(&customer, customerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrCustomerNotFound
		}
		return nil, err
	}

	customer.Phone = phone
	customer.Address = address
	if err := r.db.Save(&customer).Error; err != nil {
		return nil, err
	}
	return &customer, nil
}
