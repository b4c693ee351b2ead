package store

import (
	"context"
	"errors"

	"github.com/Denis-Pavliha-s-p/strapi-google-auth/apperr"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/auth_fields"
	"gorm.io/gorm"
)

type UserStore struct {
	db *gorm.DB
}

func NewUserStore(db *gorm.DB) *UserStore {
	return &UserStore{db: db}
}

// FindByEmail returns nil, nil when no user has that email.
func (s *UserStore) FindByEmail(ctx context.Context, email string) (*auth_fields.User, error) {
	var user auth_fields.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDB(err)
	}
	return &user, nil
}

// Create inserts user. A second user with the same email fails with apperr.ErrUserConflict.
func (s *UserStore) Create(ctx context.Context, user *auth_fields.User) error {
	err := s.db.WithContext(ctx).Create(user).Error
	if isUniqueViolation(err) {
		return apperr.Wrap(err, apperr.ErrUserConflict, "")
	}
	return wrapDB(err)
}

// FindByID loads the user with its plan. Returns nil, nil when the id is unknown.
func (s *UserStore) FindByID(ctx context.Context, id uint) (*auth_fields.User, error) {
	var user auth_fields.User
	err := s.db.WithContext(ctx).Preload("Plan").First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDB(err)
	}
	return &user, nil
}
