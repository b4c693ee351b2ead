package auth_fields

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseScopes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{"wrapped document", `{"scopes":["profile","email"]}`, []string{"profile", "email"}, false},
		{"empty raw", "", nil, true},
		{"blank raw", "   ", nil, true},
		{"not json", "profile email", nil, true},
		{"empty list", `{"scopes":[]}`, nil, true},
		{"missing key", `{"other":["x"]}`, nil, true},
		{"bare list", `["profile","email"]`, nil, true},
		{"entries kept as stored", `{"scopes":["email","email"]}`, []string{"email", "email"}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseScopes(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeScopes(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    []string
		wantErr bool
	}{
		{"bare list", `["openid","email"]`, []string{"openid", "email"}, false},
		{"wrapped", `{"scopes":["profile"]}`, []string{"profile"}, false},
		{"dedupes and trims", `[" email ","email",""]`, []string{"email"}, false},
		{"only blanks", `["", " "]`, nil, true},
		{"broken list", `["email"`, nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeScopes(tt.raw)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEncodeScopes_RoundTrip(t *testing.T) {
	raw, err := EncodeScopes([]string{"profile", "email"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"scopes":["profile","email"]}`, raw)
}

func TestGoogleCredential_Complete(t *testing.T) {
	full := GoogleCredential{ClientID: "id", ClientSecret: "secret", RedirectURL: "https://app/cb", Scopes: `{"scopes":["email"]}`}
	assert.True(t, full.Complete())

	for _, mutate := range []func(*GoogleCredential){
		func(g *GoogleCredential) { g.ClientID = "" },
		func(g *GoogleCredential) { g.ClientSecret = " " },
		func(g *GoogleCredential) { g.RedirectURL = "" },
		func(g *GoogleCredential) { g.Scopes = "" },
	} {
		g := full
		mutate(&g)
		assert.False(t, g.Complete())
	}
}

func TestGoogleCredential_Masked(t *testing.T) {
	g := GoogleCredential{ClientSecret: "supersecret"}
	assert.Equal(t, "*******cret", g.Masked().ClientSecret)
	assert.Equal(t, "supersecret", g.ClientSecret)
	assert.Equal(t, "***", GoogleCredential{ClientSecret: "abc"}.Masked().ClientSecret)
}

func TestBcryptHasher(t *testing.T) {
	h := BcryptHasher{Cost: 4}
	hashed, err := h.Hash("Abcdef1234")
	require.NoError(t, err)
	assert.NotEqual(t, "Abcdef1234", hashed)
	assert.NoError(t, h.Compare(hashed, "Abcdef1234"))
	assert.Error(t, h.Compare(hashed, "wrong"))
}

func TestAuthConfig_WithDefaults(t *testing.T) {
	cfg := AuthConfig{Port: "9000"}.WithDefaults()
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, DefaultDatabasePath, cfg.DatabasePath)
	assert.Equal(t, DefaultJWTTTL, cfg.JWTTTL)
	assert.Equal(t, DefaultRoleID, cfg.DefaultRoleID)
	assert.Equal(t, 10*time.Second, cfg.ProviderTimeout)
	assert.False(t, cfg.HasGoogleBootstrap())

	cfg.GoogleClientID, cfg.GoogleClientSecret, cfg.GoogleRedirectURL = "id", "secret", "https://app/cb"
	cfg.GoogleScopes = []string{"email"}
	assert.True(t, cfg.HasGoogleBootstrap())
}

type credentialForm struct {
	ClientID    string `json:"google_client_id" binding:"required,nospace"`
	RedirectURL string `json:"google_redirect_url" binding:"required,url"`
}

func TestValidateStruct(t *testing.T) {
	assert.NoError(t, ValidateStruct(credentialForm{ClientID: "abc", RedirectURL: "https://app/cb"}))

	err := ValidateStruct(&credentialForm{ClientID: "a b", RedirectURL: "nope"})
	require.Error(t, err)
	fields := ValidationFields(err)
	assert.Equal(t, "must not contain spaces", fields["google_client_id"])
	assert.Equal(t, "must be a valid url", fields["google_redirect_url"])
}

func TestObserveMetrics_DoesNotPanic(t *testing.T) {
	assert.NotPanics(t, func() {
		ObserveLogin("ok")
		ObserveAuthURL("missing_credentials")
		ObserveIntrospection("invalid_token")
		ObserveProvisioned()
	})
}
