package store

import (
	"context"
	"errors"

	"github.com/Denis-Pavliha-s-p/strapi-google-auth/auth_fields"
	"gorm.io/gorm"
)

type PaymentMethodStore struct {
	db *gorm.DB
}

func NewPaymentMethodStore(db *gorm.DB) *PaymentMethodStore {
	return &PaymentMethodStore{db: db}
}

// FindByOwner returns the owner's payment method with type and label loaded,
// or nil, nil when the owner has none. If several exist the oldest wins.
func (s *PaymentMethodStore) FindByOwner(ctx context.Context, ownerID uint) (*auth_fields.PaymentMethod, error) {
	var pm auth_fields.PaymentMethod
	err := s.db.WithContext(ctx).
		Preload("Type").
		Preload("Label").
		Where("owner_id = ?", ownerID).
		Order("id asc").
		First(&pm).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDB(err)
	}
	return &pm, nil
}
