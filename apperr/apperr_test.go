package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWrap_KeepsBaseIdentity(t *testing.T) {
	cause := errors.New("oauth2: \"invalid_grant\" \"Bad Request\"")
	err := Wrap(cause, ErrTokenExchange, "")

	assert.True(t, errors.Is(err, ErrTokenExchange))
	assert.True(t, errors.Is(err, cause))
	assert.Equal(t, cause.Error(), err.Error())
	assert.Equal(t, http.StatusBadRequest, Status(err))
	assert.True(t, IsKind(err, KindAuth))
}

func TestIs_MatchesAcrossWrapping(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"same sentinel", ErrInvalidScopes, ErrInvalidScopes, true},
		{"fmt wrapped", fmt.Errorf("load: %w", ErrMissingCredentials), ErrMissingCredentials, true},
		{"different code", ErrInvalidScopes, ErrMissingCredentials, false},
		{"incomplete shares missing code", ErrIncompleteCredentials, ErrMissingCredentials, true},
		{"plain error", errors.New("boom"), ErrDatabase, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestRejection(t *testing.T) {
	got := Rejection(ErrMissingCredentials)
	assert.Equal(t, true, got["error"])
	assert.Equal(t, "Add credentials to activate the login feature.", got["message"])
	assert.Equal(t, "missing_credentials", got["code"])

	plain := Rejection(errors.New("provider down"))
	assert.Equal(t, true, plain["error"])
	assert.Equal(t, "provider down", plain["message"])
	assert.Equal(t, "internal_error", plain["code"])
}

func TestStatus_Defaults(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, Status(errors.New("x")))
	assert.Equal(t, http.StatusConflict, Status(ErrUserConflict))
	assert.True(t, IsKind(Wrap(errors.New("disk"), ErrDatabase, ""), KindStore))
	assert.False(t, IsKind(errors.New("disk"), KindStore))
}
