package store

import (
	"context"
	"fmt"

	"github.com/Denis-Pavliha-s-p/strapi-google-auth/auth_fields"
)

// Migrate creates the tables and makes sure the default role exists.
func Migrate(ctx context.Context, db *DB, defaultRoleID uint) error {
	if db == nil || db.DB == nil {
		return fmt.Errorf("db is nil")
	}
	tx := db.WithContext(ctx)
	if err := tx.AutoMigrate(
		&auth_fields.GoogleCredential{},
		&auth_fields.Role{},
		&auth_fields.Plan{},
		&auth_fields.User{},
		&auth_fields.PaymentMethodType{},
		&auth_fields.PaymentMethodLabel{},
		&auth_fields.PaymentMethod{},
	); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}
	if defaultRoleID == 0 {
		return nil
	}
	role := auth_fields.Role{Name: "Authenticated", Type: "authenticated", Description: "Default role given to authenticated user."}
	role.ID = defaultRoleID
	return tx.Where("id = ?", defaultRoleID).FirstOrCreate(&role).Error
}
