package utils

import (
	"regexp"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRandomPassword(t *testing.T) {
	re := regexp.MustCompile(`^[A-Za-z0-9]+$`)
	tests := []struct {
		name    string
		n       int
		wantErr bool
	}{
		{"provisioning length", 10, false},
		{"single", 1, false},
		{"long", 64, false},
		{"zero", 0, true},
		{"negative", -3, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := RandomPassword(tt.n)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, got, tt.n)
			assert.Regexp(t, re, got)
		})
	}

	a, _ := RandomPassword(10)
	b, _ := RandomPassword(10)
	assert.NotEqual(t, a, b)
}

func TestNewRedisEmptyAddr(t *testing.T) {
	assert.Nil(t, NewRedis("", ""))
	assert.Error(t, Ping(nil))
}
