package consumer

import (
	"bytes"
	"context"
	"strings"

	"github.com/Denis-Pavliha-s-p/strapi-google-auth/apperr"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/auth_fields"
	"github.com/goccy/go-json"
	"github.com/sirupsen/logrus"
)

// ScopeList decodes either ["a","b"], {"scopes":["a","b"]} or a string holding one of those.
type ScopeList []string

func (s *ScopeList) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*s = nil
		return nil
	}
	raw := string(data)
	if strings.HasPrefix(raw, `"`) {
		if err := json.Unmarshal(data, &raw); err != nil {
			return err
		}
		if strings.TrimSpace(raw) == "" {
			*s = nil
			return nil
		}
	}
	list, err := auth_fields.NormalizeScopes(raw)
	if err != nil {
		return apperr.Wrap(err, apperr.ErrInvalidScopes, "")
	}
	*s = list
	return nil
}

// CredentialsRequest is what the admin submits. Empty fields are stored as empty and
// keep the login feature disabled until filled in.
type CredentialsRequest struct {
	ClientID     string    `json:"google_client_id" binding:"omitempty,nospace"`
	ClientSecret string    `json:"google_client_secret" binding:"omitempty,nospace"`
	RedirectURL  string    `json:"google_redirect_url" binding:"omitempty,url"`
	Scopes       ScopeList `json:"google_scopes"`
}

// GetCredentials returns the stored configuration or nil when none exists.
func (s *Service) GetCredentials(ctx context.Context) (*auth_fields.GoogleCredential, error) {
	return s.Credentials.Find(ctx)
}

// SaveCredentials creates the configuration row or overwrites it in place.
// Saving the same request twice leaves the same single row.
func (s *Service) SaveCredentials(ctx context.Context, req CredentialsRequest) (*auth_fields.GoogleCredential, error) {
	req.ClientID = strings.TrimSpace(req.ClientID)
	req.ClientSecret = strings.TrimSpace(req.ClientSecret)
	req.RedirectURL = strings.TrimSpace(req.RedirectURL)
	if err := auth_fields.ValidateStruct(req); err != nil {
		return nil, apperr.WithFields(apperr.Wrap(err, apperr.ErrValidation, "invalid credentials"), auth_fields.ValidationFields(err))
	}

	data := auth_fields.GoogleCredential{
		ClientID:     req.ClientID,
		ClientSecret: req.ClientSecret,
		RedirectURL:  req.RedirectURL,
	}
	if len(req.Scopes) > 0 {
		scopes, err := auth_fields.CleanScopes(req.Scopes)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.ErrInvalidScopes, "")
		}
		encoded, err := auth_fields.EncodeScopes(scopes)
		if err != nil {
			return nil, apperr.Wrap(err, apperr.ErrMarshal, "")
		}
		data.Scopes = encoded
	}

	if err := s.Credentials.Save(ctx, data); err != nil {
		return nil, err
	}
	s.logger().WithFields(logrus.Fields{
		"code":      "credentials_saved",
		"complete":  data.Complete(),
		"client_id": data.ClientID,
	}).Info("google credentials saved")
	return &data, nil
}

// CreateAuthURL builds the Google consent URL from the stored configuration.
func (s *Service) CreateAuthURL(ctx context.Context) (string, error) {
	url, err := s.createAuthURL(ctx)
	auth_fields.ObserveAuthURL(resultCode(err))
	return url, err
}

func (s *Service) createAuthURL(ctx context.Context) (string, error) {
	creds, err := s.Credentials.Find(ctx)
	if err != nil {
		return "", err
	}
	if creds == nil {
		return "", apperr.ErrMissingCredentials
	}
	scopes, err := auth_fields.ParseScopes(creds.Scopes)
	if err != nil {
		return "", apperr.Wrap(err, apperr.ErrInvalidScopes, "")
	}
	if !creds.Complete() {
		return "", apperr.ErrIncompleteCredentials
	}
	return s.Provider.AuthCodeURL(*creds, scopes), nil
}

// loadCredentials applies the presence and completeness checks the exchange needs.
func (s *Service) loadCredentials(ctx context.Context) (*auth_fields.GoogleCredential, error) {
	creds, err := s.Credentials.Find(ctx)
	if err != nil {
		return nil, err
	}
	if creds == nil {
		return nil, apperr.ErrMissingCredentials
	}
	if !creds.Complete() {
		return nil, apperr.ErrIncompleteCredentials
	}
	return creds, nil
}

func resultCode(err error) string {
	if err == nil {
		return "ok"
	}
	return apperr.Code(err)
}
