package consumer

import (
	"context"
	"errors"
	"strings"

	"github.com/Denis-Pavliha-s-p/strapi-google-auth/apperr"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/auth_fields"
	"github.com/sirupsen/logrus"
)

// Provider value written on provisioned accounts. The account is a local user whose
// password nobody knows; Google is only how it was created.
const provisionedProvider = "local"

var errMissingCode = errors.New("missing authorization code")

// LoginResult is the body of a successful login.
type LoginResult struct {
	Token string                 `json:"token"`
	User  auth_fields.PublicUser `json:"user"`
}

// ExchangeCodeForUser trades an authorization code for a verified Google identity.
// The identity token audience must be the stored client id.
func (s *Service) ExchangeCodeForUser(ctx context.Context, code string) (*auth_fields.Identity, error) {
	code = strings.TrimSpace(code)
	if code == "" {
		return nil, apperr.Wrap(errMissingCode, apperr.ErrBadRequest, "Missing authorization code")
	}
	creds, err := s.loadCredentials(ctx)
	if err != nil {
		return nil, err
	}
	raw, err := s.Provider.Exchange(ctx, *creds, code)
	if err != nil {
		if _, ok := apperr.As(err); !ok {
			err = apperr.Wrap(err, apperr.ErrTokenExchange, "")
		}
		return nil, err
	}
	identity, err := s.Provider.VerifyIDToken(ctx, raw, creds.ClientID)
	if err != nil {
		if _, ok := apperr.As(err); !ok {
			err = apperr.Wrap(err, apperr.ErrIdentityVerification, "")
		}
		return nil, err
	}
	return identity, nil
}

// ResolveUser finds the local user for identity or provisions one. The bool reports
// whether the user was created. Two concurrent first logins for one email leave a
// single user; the loser gets apperr.ErrUserConflict.
func (s *Service) ResolveUser(ctx context.Context, identity auth_fields.Identity) (*auth_fields.User, bool, error) {
	email := strings.TrimSpace(identity.Email)
	if email == "" {
		return nil, false, apperr.Wrap(errors.New("identity without email"), apperr.ErrIdentityVerification, "Identity token has no email")
	}
	existing, err := s.Users.FindByEmail(ctx, email)
	if err != nil {
		return nil, false, err
	}
	if existing != nil {
		return existing, false, nil
	}

	secret, err := s.randomSecret(provisionedSecretLength)
	if err != nil {
		return nil, false, apperr.Wrap(err, apperr.ErrInternal, "")
	}
	hashed, err := s.Hasher.Hash(secret)
	if err != nil {
		return nil, false, apperr.Wrap(err, apperr.ErrInternal, "")
	}
	user := &auth_fields.User{
		Username:  email,
		Email:     email,
		Password:  hashed,
		Confirmed: identity.EmailVerified,
		Blocked:   false,
		RoleID:    s.DefaultRoleID,
		Provider:  provisionedProvider,
		Firstname: identity.GivenName,
		Lastname:  identity.FamilyName,
		AvatarSso: identity.Picture,
	}
	if err := s.Users.Create(ctx, user); err != nil {
		return nil, false, err
	}
	auth_fields.ObserveProvisioned()
	s.logger().WithFields(logrus.Fields{
		"code":      "user_provisioned",
		"user_id":   user.ID,
		"confirmed": user.Confirmed,
	}).Info("created user from google identity")
	return user, true, nil
}

// LoginWithCode runs the whole flow: exchange, verify, resolve, enrich and issue a session.
// The session is signed last, once everything before it succeeded.
func (s *Service) LoginWithCode(ctx context.Context, code string) (*LoginResult, error) {
	res, err := s.loginWithCode(ctx, code)
	auth_fields.ObserveLogin(resultCode(err))
	if err != nil {
		s.logger().WithFields(logrus.Fields{
			"code":  apperr.Code(err),
			"error": err.Error(),
		}).Warn("google login failed")
	}
	return res, err
}

func (s *Service) loginWithCode(ctx context.Context, code string) (*LoginResult, error) {
	identity, err := s.ExchangeCodeForUser(ctx, code)
	if err != nil {
		return nil, err
	}
	user, isNew, err := s.ResolveUser(ctx, *identity)
	if err != nil {
		return nil, err
	}
	if user.Blocked {
		return nil, apperr.ErrBlocked
	}
	pub, err := s.Enrich(ctx, user)
	if err != nil {
		return nil, err
	}
	token, err := s.Sessions.Issue(user.ID)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInternal, "")
	}
	s.logger().WithFields(logrus.Fields{
		"code":     "google_login",
		"user_id":  user.ID,
		"new_user": isNew,
	}).Info("google login succeeded")
	return &LoginResult{Token: token, User: pub}, nil
}

// GetUserFromToken resolves a session token to the enriched public user.
func (s *Service) GetUserFromToken(ctx context.Context, token string) (*auth_fields.PublicUser, error) {
	pub, err := s.getUserFromToken(ctx, token)
	auth_fields.ObserveIntrospection(resultCode(err))
	return pub, err
}

func (s *Service) getUserFromToken(ctx context.Context, token string) (*auth_fields.PublicUser, error) {
	claims, err := s.Sessions.Verify(token)
	if err != nil {
		if !errors.Is(err, apperr.ErrInvalidToken) {
			err = apperr.Wrap(err, apperr.ErrInvalidToken, "")
		}
		return nil, err
	}
	user, err := s.Users.FindByID(ctx, claims.ID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, apperr.ErrUserNotFound
	}
	if user.Blocked {
		return nil, apperr.ErrBlocked
	}
	pub, err := s.Enrich(ctx, user)
	if err != nil {
		return nil, err
	}
	return &pub, nil
}
