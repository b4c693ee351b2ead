package consumer

import (
	"context"
	"math"
	"time"

	"github.com/Denis-Pavliha-s-p/strapi-google-auth/auth_fields"
)

// approachingDays is the window in which a payment method counts as expiring soon.
const approachingDays = 60

// Sanitize returns the public view of user. The password hash never leaves this package.
func Sanitize(user auth_fields.User) auth_fields.PublicUser {
	pub := auth_fields.PublicUser{
		ID:        user.ID,
		Username:  user.Username,
		Email:     user.Email,
		Confirmed: user.Confirmed,
		Blocked:   user.Blocked,
		Role:      user.RoleID,
		Provider:  user.Provider,
		Firstname: user.Firstname,
		Lastname:  user.Lastname,
		AvatarSso: user.AvatarSso,
		CreatedAt: user.CreatedAt,
		UpdatedAt: user.UpdatedAt,
	}
	if user.Plan != nil {
		pub.Plan = user.Plan.Key
	}
	return pub
}

// Enrich attaches the plan key and payment-method summary. Login and introspection
// both go through here, so one user always renders the same way.
func (s *Service) Enrich(ctx context.Context, user *auth_fields.User) (auth_fields.PublicUser, error) {
	if user.PlanID != nil && user.Plan == nil {
		loaded, err := s.Users.FindByID(ctx, user.ID)
		if err != nil {
			return auth_fields.PublicUser{}, err
		}
		if loaded != nil {
			user.Plan = loaded.Plan
		}
	}
	pub := Sanitize(*user)

	pm, err := s.PaymentMethods.FindByOwner(ctx, user.ID)
	if err != nil {
		return auth_fields.PublicUser{}, err
	}
	if pm != nil {
		pub.PaymentMethod = summarizePaymentMethod(*pm, s.now())
	}
	return pub, nil
}

func summarizePaymentMethod(pm auth_fields.PaymentMethod, now time.Time) *auth_fields.PaymentMethodSummary {
	soon := approachingSoon(pm.Expiry, now)
	expiry := auth_fields.PaymentExpiry{Date: pm.Expiry, ApproachingSoon: soon}
	if soon {
		sub := pm.SubscriptionID
		expiry.SubscriptionID = &sub
	}
	return &auth_fields.PaymentMethodSummary{
		Method:     pm.Method,
		Type:       pm.Type,
		Identifier: pm.Identifier,
		Expiry:     expiry,
	}
}

// approachingSoon rounds the distance to whole days. A missing expiry date reads as
// long past, so it is soon.
func approachingSoon(expiry, now time.Time) bool {
	days := math.Round(expiry.Sub(now).Hours() / 24)
	return days < approachingDays
}
