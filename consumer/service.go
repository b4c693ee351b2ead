// Package consumer implements Google sign-in on top of the local user store:
// credentials, the consent URL, code login and session introspection.
package consumer

import (
	"context"
	"time"

	gateway "github.com/Denis-Pavliha-s-p/strapi-google-auth/apigateway"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/auth_fields"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/utils"
	"github.com/sirupsen/logrus"
)

type CredentialStore interface {
	Find(ctx context.Context) (*auth_fields.GoogleCredential, error)
	Save(ctx context.Context, data auth_fields.GoogleCredential) error
}

type UserStore interface {
	FindByEmail(ctx context.Context, email string) (*auth_fields.User, error)
	Create(ctx context.Context, user *auth_fields.User) error
	FindByID(ctx context.Context, id uint) (*auth_fields.User, error)
}

type PaymentMethodStore interface {
	FindByOwner(ctx context.Context, ownerID uint) (*auth_fields.PaymentMethod, error)
}

type Hasher interface {
	Hash(plain string) (string, error)
}

type SessionIssuer interface {
	Issue(userID uint) (string, error)
	Verify(token string) (*gateway.TokenClaims, error)
}

// IdentityProvider is the Google side of the flow.
type IdentityProvider interface {
	AuthCodeURL(creds auth_fields.GoogleCredential, scopes []string) string
	Exchange(ctx context.Context, creds auth_fields.GoogleCredential, code string) (string, error)
	VerifyIDToken(ctx context.Context, raw, audience string) (*auth_fields.Identity, error)
}

// Service holds the collaborators for the sign-in flow. All fields except Now and
// RandomSecret are required.
type Service struct {
	Credentials    CredentialStore
	Users          UserStore
	PaymentMethods PaymentMethodStore
	Hasher         Hasher
	Sessions       SessionIssuer
	Provider       IdentityProvider
	Logger         *logrus.Logger
	DefaultRoleID  uint

	Now          func() time.Time
	RandomSecret func(n int) (string, error)
}

const provisionedSecretLength = 10

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

func (s *Service) randomSecret(n int) (string, error) {
	if s.RandomSecret != nil {
		return s.RandomSecret(n)
	}
	return utils.RandomPassword(n)
}

func (s *Service) logger() *logrus.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return logrus.StandardLogger()
}
