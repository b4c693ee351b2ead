package auth_fields

import (
	"strings"
	"time"

	"gorm.io/gorm"
)

// GoogleCredential is the single stored Google OAuth client configuration.
// Scopes keeps the raw document as submitted, e.g. {"scopes":["profile","email"]}.
type GoogleCredential struct {
	gorm.Model
	ClientID     string `json:"google_client_id"`
	ClientSecret string `json:"google_client_secret"`
	RedirectURL  string `json:"google_redirect_url"`
	Scopes       string `json:"google_scopes"`
}

// Complete reports whether every field needed to talk to Google is set.
func (g GoogleCredential) Complete() bool {
	return strings.TrimSpace(g.ClientID) != "" &&
		strings.TrimSpace(g.ClientSecret) != "" &&
		strings.TrimSpace(g.RedirectURL) != "" &&
		strings.TrimSpace(g.Scopes) != ""
}

// Masked returns a copy safe to hand to admin screens.
func (g GoogleCredential) Masked() GoogleCredential {
	if n := len(g.ClientSecret); n > 4 {
		g.ClientSecret = strings.Repeat("*", n-4) + g.ClientSecret[n-4:]
	} else if n > 0 {
		g.ClientSecret = strings.Repeat("*", n)
	}
	return g
}

type Role struct {
	gorm.Model
	Name        string `json:"name" gorm:"uniqueIndex;size:64"`
	Type        string `json:"type" gorm:"size:64"`
	Description string `json:"description"`
}

// Plan is a subscription plan. Users reference it by id, responses expose Key.
type Plan struct {
	gorm.Model
	Key  string `json:"key" gorm:"uniqueIndex;size:64;not null"`
	Name string `json:"name"`
}

// User is the local account record. Email is unique: two concurrent first logins
// for one address end with one row and a conflict error, never two rows.
type User struct {
	gorm.Model
	Username  string `json:"username"`
	Email     string `json:"email" gorm:"uniqueIndex:idx_users_email;size:191;not null"`
	Password  string `json:"password"`
	Confirmed bool   `json:"confirmed"`
	Blocked   bool   `json:"blocked"`
	RoleID    uint   `json:"role"`
	Provider  string `json:"provider" gorm:"size:32"`
	Firstname string `json:"firstname"`
	Lastname  string `json:"lastname"`
	AvatarSso string `json:"avatarSso"`
	PlanID    *uint  `json:"-"`
	Plan      *Plan  `json:"-"`
}

type PaymentMethodType struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name"`
}

type PaymentMethodLabel struct {
	ID   uint   `json:"id" gorm:"primaryKey"`
	Name string `json:"name"`
}

// PaymentMethod is a card or account on file for a user. A user is expected to own at most one.
type PaymentMethod struct {
	gorm.Model
	OwnerID        uint                `json:"owner" gorm:"index;not null"`
	Method         string              `json:"method"`
	Identifier     string              `json:"identifier"`
	Expiry         time.Time           `json:"expiry"`
	SubscriptionID string              `json:"subscriptionId"`
	TypeID         *uint               `json:"-"`
	Type           *PaymentMethodType  `json:"type"`
	LabelID        *uint               `json:"-"`
	Label          *PaymentMethodLabel `json:"label"`
}

// Identity is what a verified Google identity token says about the end user.
type Identity struct {
	Email         string `json:"email"`
	GivenName     string `json:"given_name"`
	FamilyName    string `json:"family_name"`
	Picture       string `json:"picture"`
	EmailVerified bool   `json:"email_verified"`
}

// PaymentExpiry carries SubscriptionID only while the method is close to expiring.
type PaymentExpiry struct {
	Date            time.Time `json:"date"`
	ApproachingSoon bool      `json:"approachingSoon"`
	SubscriptionID  *string   `json:"subscriptionId,omitempty"`
}

type PaymentMethodSummary struct {
	Method     string             `json:"method"`
	Type       *PaymentMethodType `json:"type"`
	Identifier string             `json:"identifier"`
	Expiry     PaymentExpiry      `json:"expiry"`
}

// PublicUser is the outward view of a user. It never carries the password hash.
type PublicUser struct {
	ID            uint                  `json:"id"`
	Username      string                `json:"username"`
	Email         string                `json:"email"`
	Confirmed     bool                  `json:"confirmed"`
	Blocked       bool                  `json:"blocked"`
	Role          uint                  `json:"role"`
	Provider      string                `json:"provider"`
	Firstname     string                `json:"firstname"`
	Lastname      string                `json:"lastname"`
	AvatarSso     string                `json:"avatarSso"`
	Plan          string                `json:"plan,omitempty"`
	PaymentMethod *PaymentMethodSummary `json:"paymentMethod"`
	CreatedAt     time.Time             `json:"createdAt"`
	UpdatedAt     time.Time             `json:"updatedAt"`
}
