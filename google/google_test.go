package google

import (
	"context"
	"crypto/rand"
	"crypto/rsa"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/Denis-Pavliha-s-p/strapi-google-auth/apperr"
	"github.com/Denis-Pavliha-s-p/strapi-google-auth/auth_fields"
	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/oauth2"
)

var testNow = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

func newKey(t *testing.T) *rsa.PrivateKey {
	t.Helper()
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	return key
}

func signIDToken(t *testing.T, key *rsa.PrivateKey, claims jwt.MapClaims) string {
	t.Helper()
	base := jwt.MapClaims{
		"iss":            Issuer,
		"aud":            "client-123",
		"sub":            "10769150350006150715113082367",
		"iat":            testNow.Add(-time.Minute).Unix(),
		"exp":            testNow.Add(time.Hour).Unix(),
		"email":          "jane@example.com",
		"email_verified": true,
		"given_name":     "Jane",
		"family_name":    "Doe",
		"picture":        "https://lh3.googleusercontent.com/a/jane",
	}
	for k, v := range claims {
		if v == nil {
			delete(base, k)
			continue
		}
		base[k] = v
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodRS256, base).SignedString(key)
	require.NoError(t, err)
	return signed
}

func TestVerifierVerify(t *testing.T) {
	key := newKey(t)
	other := newKey(t)
	v := NewStaticVerifier(func() time.Time { return testNow }, key.Public())

	tests := []struct {
		name     string
		token    string
		audience string
		wantErr  bool
		verified bool
	}{
		{"valid", signIDToken(t, key, nil), "client-123", false, true},
		{"short issuer", signIDToken(t, key, jwt.MapClaims{"iss": "accounts.google.com"}), "client-123", false, true},
		{"string email_verified", signIDToken(t, key, jwt.MapClaims{"email_verified": "false"}), "client-123", false, false},
		{"audience mismatch", signIDToken(t, key, nil), "client-999", true, false},
		{"empty audience", signIDToken(t, key, nil), "", true, false},
		{"foreign issuer", signIDToken(t, key, jwt.MapClaims{"iss": "https://evil.example"}), "client-123", true, false},
		{"expired", signIDToken(t, key, jwt.MapClaims{"exp": testNow.Add(-time.Hour).Unix()}), "client-123", true, false},
		{"wrong key", signIDToken(t, other, nil), "client-123", true, false},
		{"no email", signIDToken(t, key, jwt.MapClaims{"email": nil}), "client-123", true, false},
		{"garbage", "not-a-jwt", "client-123", true, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := v.Verify(context.Background(), tt.token, tt.audience)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, apperr.ErrIdentityVerification)
				assert.True(t, apperr.IsKind(err, apperr.KindAuth))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "jane@example.com", id.Email)
			assert.Equal(t, "Jane", id.GivenName)
			assert.Equal(t, "Doe", id.FamilyName)
			assert.Equal(t, tt.verified, id.EmailVerified)
		})
	}
}

func testCreds() auth_fields.GoogleCredential {
	return auth_fields.GoogleCredential{
		ClientID:     "client-123",
		ClientSecret: "shh",
		RedirectURL:  "https://app.example.com/auth/google/callback",
		Scopes:       `{"scopes":["profile","email"]}`,
	}
}

func TestAuthCodeURL(t *testing.T) {
	c := &Client{}
	raw := c.AuthCodeURL(testCreds(), []string{"profile", "email"})

	u, err := url.Parse(raw)
	require.NoError(t, err)
	assert.Equal(t, "accounts.google.com", u.Host)
	q := u.Query()
	assert.Equal(t, "offline", q.Get("access_type"))
	assert.Equal(t, "consent", q.Get("prompt"))
	assert.Equal(t, "code", q.Get("response_type"))
	assert.Equal(t, "client-123", q.Get("client_id"))
	assert.Equal(t, "https://app.example.com/auth/google/callback", q.Get("redirect_uri"))
	assert.Equal(t, "profile email", q.Get("scope"))
}

func tokenServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.NoError(t, r.ParseForm())
		assert.Equal(t, "authorization_code", r.PostForm.Get("grant_type"))
		assert.Equal(t, "the-code", r.PostForm.Get("code"))
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func testClient(srv *httptest.Server) *Client {
	return &Client{
		HTTPClient: srv.Client(),
		Endpoint: &oauth2.Endpoint{
			AuthURL:   srv.URL + "/auth",
			TokenURL:  srv.URL + "/token",
			AuthStyle: oauth2.AuthStyleInParams,
		},
	}
}

func TestExchange(t *testing.T) {
	t.Run("returns id token", func(t *testing.T) {
		srv := tokenServer(t, http.StatusOK, `{"access_token":"at","token_type":"Bearer","expires_in":3599,"id_token":"header.payload.sig"}`)
		raw, err := testClient(srv).Exchange(context.Background(), testCreds(), "the-code")
		require.NoError(t, err)
		assert.Equal(t, "header.payload.sig", raw)
	})

	t.Run("provider error keeps message", func(t *testing.T) {
		srv := tokenServer(t, http.StatusBadRequest, `{"error":"invalid_grant","error_description":"Malformed auth code."}`)
		_, err := testClient(srv).Exchange(context.Background(), testCreds(), "the-code")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrTokenExchange)
		assert.Equal(t, "Malformed auth code.", apperr.Message(err))
	})

	t.Run("missing id token", func(t *testing.T) {
		srv := tokenServer(t, http.StatusOK, `{"access_token":"at","token_type":"Bearer"}`)
		_, err := testClient(srv).Exchange(context.Background(), testCreds(), "the-code")
		require.Error(t, err)
		assert.ErrorIs(t, err, apperr.ErrTokenExchange)
		assert.True(t, strings.Contains(apperr.Message(err), "identity token"))
	})
}

func TestClientVerifyIDTokenUsesConfiguredVerifier(t *testing.T) {
	key := newKey(t)
	c := &Client{Verifier: NewStaticVerifier(func() time.Time { return testNow }, key.Public())}
	id, err := c.VerifyIDToken(context.Background(), signIDToken(t, key, nil), "client-123")
	require.NoError(t, err)
	assert.Equal(t, "jane@example.com", id.Email)
}
