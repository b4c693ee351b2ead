package consumer

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"sync"
	"testing"
	"time"

	gateway "github.com/Denis-Pavliha-s-p/strapi-google-auth/apigateway"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/auth_fields"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/google"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/store"
	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/golang-jwt/jwt"
	"github.com/sirupsen/logrus"
	"golang.org/x/oauth2"
)

const (
	testClientID = "client-123.apps.googleusercontent.com"
	testAdminKey = "admin-key"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// fakeGoogle is a token endpoint that answers every code with an identity token
// signed over the current claims.
type fakeGoogle struct {
	mu     sync.Mutex
	key    *rsa.PrivateKey
	claims jwt.MapClaims
	codes  []string
}

func (f *fakeGoogle) setClaims(overrides jwt.MapClaims) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.claims = jwt.MapClaims{
		"iss":            google.Issuer,
		"aud":            testClientID,
		"sub":            "1076915035000615071",
		"iat":            testNow.Add(-time.Minute).Unix(),
		"exp":            testNow.Add(time.Hour).Unix(),
		"email":          "jane@example.com",
		"email_verified": true,
		"given_name":     "Jane",
		"family_name":    "Doe",
		"picture":        "https://lh3.googleusercontent.com/a/jane",
	}
	for k, v := range overrides {
		f.claims[k] = v
	}
}

func (f *fakeGoogle) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.codes)
}

func (f *fakeGoogle) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	_ = r.ParseForm()
	code := r.PostForm.Get("code")
	w.Header().Set("Content-Type", "application/json")

	f.mu.Lock()
	f.codes = append(f.codes, code)
	claims := f.claims
	f.mu.Unlock()

	if code == "bad-code" {
		w.WriteHeader(http.StatusBadRequest)
		_, _ = w.Write([]byte(`{"error":"invalid_grant","error_description":"Bad Request"}`))
		return
	}
	idToken, err := jwt.NewWithClaims(jwt.SigningMethodRS256, claims).SignedString(f.key)
	if err != nil {
		w.WriteHeader(http.StatusInternalServerError)
		return
	}
	_ = json.NewEncoder(w).Encode(map[string]any{
		"access_token": "ya29.test",
		"token_type":   "Bearer",
		"expires_in":   3599,
		"id_token":     idToken,
	})
}

type testEnv struct {
	Router  *gin.Engine
	Service *Service
	Auth    *gateway.JWTAuth
	DB      *store.DB
	Google  *fakeGoogle
}

func newTestDB(t *testing.T) *store.DB {
	t.Helper()
	db, err := store.Open(filepath.Join(t.TempDir(), "test.db"), false)
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	if err := store.Migrate(context.Background(), db, 1); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)
	db := newTestDB(t)

	key, err := rsa.GenerateKey(rand.Reader, 2048)
	if err != nil {
		t.Fatalf("rsa key: %v", err)
	}
	fg := &fakeGoogle{key: key}
	fg.setClaims(nil)
	srv := httptest.NewServer(fg)
	t.Cleanup(srv.Close)

	provider := &google.Client{
		HTTPClient: srv.Client(),
		Endpoint: &oauth2.Endpoint{
			AuthURL:   "https://accounts.google.com/o/oauth2/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
		Verifier: google.NewStaticVerifier(func() time.Time { return testNow }, key.Public()),
	}

	auth := &gateway.JWTAuth{Key: []byte("test-secret"), TTL: time.Hour, Issuer: "googleauth"}

	logger := logrus.New()
	logger.SetLevel(logrus.PanicLevel)

	service := &Service{
		Credentials:    store.NewCredentialStore(db.DB),
		Users:          store.NewUserStore(db.DB),
		PaymentMethods: store.NewPaymentMethodStore(db.DB),
		Hasher:         auth_fields.BcryptHasher{Cost: 4},
		Sessions:       auth,
		Provider:       provider,
		Logger:         logger,
		DefaultRoleID:  1,
		Now:            func() time.Time { return testNow },
	}

	r := gin.New()
	service.RegisterRoutes(r, gateway.RequireAdmin(gateway.AdminAuthConfig{Key: testAdminKey}))

	return &testEnv{Router: r, Service: service, Auth: auth, DB: db, Google: fg}
}

func (e *testEnv) seedCredentials(t *testing.T) {
	t.Helper()
	_, err := e.Service.SaveCredentials(context.Background(), CredentialsRequest{
		ClientID:     testClientID,
		ClientSecret: "GOCSPX-secret",
		RedirectURL:  "https://app.example.com/connect/google/redirect",
		Scopes:       ScopeList{"profile", "email"},
	})
	if err != nil {
		t.Fatalf("seed credentials: %v", err)
	}
}

func (e *testEnv) seedUser(t *testing.T, user auth_fields.User) auth_fields.User {
	t.Helper()
	if user.Username == "" {
		user.Username = user.Email
	}
	if user.RoleID == 0 {
		user.RoleID = 1
	}
	if err := e.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return user
}

func (e *testEnv) seedPaymentMethod(t *testing.T, ownerID uint, expiry time.Time, subscriptionID string) auth_fields.PaymentMethod {
	t.Helper()
	kind := auth_fields.PaymentMethodType{Name: "card"}
	if err := e.DB.FirstOrCreate(&kind, auth_fields.PaymentMethodType{Name: "card"}).Error; err != nil {
		t.Fatalf("seed payment type: %v", err)
	}
	pm := auth_fields.PaymentMethod{
		OwnerID:        ownerID,
		Method:         "stripe",
		Identifier:     "**** 4242",
		Expiry:         expiry,
		SubscriptionID: subscriptionID,
		TypeID:         &kind.ID,
	}
	if err := e.DB.Create(&pm).Error; err != nil {
		t.Fatalf("seed payment method: %v", err)
	}
	return pm
}

func (e *testEnv) countUsers(t *testing.T) int64 {
	t.Helper()
	var n int64
	if err := e.DB.Model(&auth_fields.User{}).Count(&n).Error; err != nil {
		t.Fatalf("count users: %v", err)
	}
	return n
}
