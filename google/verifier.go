package google

import (
	"context"
	"crypto"
	"errors"
	"time"

	"github.com/Denis-Pavliha-s-p/strapi-google-auth/apperr"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/auth_fields"
	"github.com/coreos/go-oidc/v3/oidc"
)

const (
	Issuer  = "https://accounts.google.com"
	CertURL = "https://www.googleapis.com/oauth2/v3/certs"
)

// Verifier checks Google identity tokens against a key set.
type Verifier struct {
	keys oidc.KeySet
	now  func() time.Time
}

// NewRemoteVerifier fetches and caches Google's signing keys on demand.
func NewRemoteVerifier(ctx context.Context) *Verifier {
	return &Verifier{keys: oidc.NewRemoteKeySet(ctx, CertURL)}
}

// NewStaticVerifier trusts only the given public keys. now may be nil.
func NewStaticVerifier(now func() time.Time, keys ...crypto.PublicKey) *Verifier {
	return &Verifier{keys: &oidc.StaticKeySet{PublicKeys: keys}, now: now}
}

type idClaims struct {
	Email         string `json:"email"`
	EmailVerified any    `json:"email_verified"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
}

// Verify returns the identity carried by raw. The audience must equal audience exactly.
// go-oidc accepts both spellings of Google's issuer.
func (v *Verifier) Verify(ctx context.Context, raw, audience string) (*auth_fields.Identity, error) {
	if audience == "" {
		return nil, apperr.Wrap(errors.New("empty audience"), apperr.ErrIdentityVerification, "Invalid identity token")
	}
	verifier := oidc.NewVerifier(Issuer, v.keys, &oidc.Config{
		ClientID: audience,
		Now:      v.now,
	})
	tok, err := verifier.Verify(ctx, raw)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrIdentityVerification, "Invalid identity token")
	}
	var c idClaims
	if err := tok.Claims(&c); err != nil {
		return nil, apperr.Wrap(err, apperr.ErrIdentityVerification, "Invalid identity token")
	}
	if c.Email == "" {
		return nil, apperr.Wrap(errors.New("no email claim"), apperr.ErrIdentityVerification, "Identity token has no email")
	}
	return &auth_fields.Identity{
		Email:         c.Email,
		GivenName:     c.GivenName,
		FamilyName:    c.FamilyName,
		Picture:       c.Picture,
		EmailVerified: truthy(c.EmailVerified),
	}, nil
}

// email_verified shows up as a bool or as the string "true".
func truthy(v any) bool {
	switch t := v.(type) {
	case bool:
		return t
	case string:
		return t == "true"
	}
	return false
}
