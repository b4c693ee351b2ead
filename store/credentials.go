package store

import (
	"context"
	"errors"

	"github.com/Denis-Pavliha-s-p/strapi-google-auth/auth_fields"
	"gorm.io/gorm"
)

// CredentialStore keeps the single Google credentials row.
type CredentialStore struct {
	db *gorm.DB
}

func NewCredentialStore(db *gorm.DB) *CredentialStore {
	return &CredentialStore{db: db}
}

// Find returns the stored credentials, or nil when none were saved yet.
func (s *CredentialStore) Find(ctx context.Context) (*auth_fields.GoogleCredential, error) {
	var cred auth_fields.GoogleCredential
	err := s.db.WithContext(ctx).Order("id asc").First(&cred).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, wrapDB(err)
	}
	return &cred, nil
}

// Save creates the row on first use and overwrites all four fields afterwards.
// The read and the write share one transaction so the row is replaced as a whole.
func (s *CredentialStore) Save(ctx context.Context, data auth_fields.GoogleCredential) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var existing auth_fields.GoogleCredential
		err := tx.Order("id asc").First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			row := auth_fields.GoogleCredential{
				ClientID:     data.ClientID,
				ClientSecret: data.ClientSecret,
				RedirectURL:  data.RedirectURL,
				Scopes:       data.Scopes,
			}
			return tx.Create(&row).Error
		}
		if err != nil {
			return err
		}
		return tx.Model(&existing).
			Select("client_id", "client_secret", "redirect_url", "scopes").
			Updates(auth_fields.GoogleCredential{
				ClientID:     data.ClientID,
				ClientSecret: data.ClientSecret,
				RedirectURL:  data.RedirectURL,
				Scopes:       data.Scopes,
			}).Error
	})
	return wrapDB(err)
}
