package auth_fields

import (
	"errors"
	"strings"

	"github.com/goccy/go-json"
)

var ErrNoScopes = errors.New("no scopes")

type scopesDocument struct {
	Scopes []string `json:"scopes"`
}

// ParseScopes reads the stored {"scopes":[...]} document. An empty list is an error.
func ParseScopes(raw string) ([]string, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, ErrNoScopes
	}
	var doc scopesDocument
	if err := json.Unmarshal([]byte(raw), &doc); err != nil {
		return nil, err
	}
	if len(doc.Scopes) == 0 {
		return nil, ErrNoScopes
	}
	return doc.Scopes, nil
}

// EncodeScopes renders scopes in the stored document form.
func EncodeScopes(scopes []string) (string, error) {
	data, err := json.Marshal(scopesDocument{Scopes: scopes})
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// NormalizeScopes reads submitted scopes, either a bare JSON list or the wrapped document,
// and returns the cleaned list. Blank entries and duplicates are dropped, order is kept.
// Stored rows go through ParseScopes.
func NormalizeScopes(raw string) ([]string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrNoScopes
	}
	var list []string
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &list); err != nil {
			return nil, err
		}
	} else {
		var err error
		if list, err = ParseScopes(raw); err != nil {
			return nil, err
		}
	}
	return CleanScopes(list)
}

func CleanScopes(list []string) ([]string, error) {
	seen := make(map[string]bool, len(list))
	out := make([]string, 0, len(list))
	for _, s := range list {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, s)
	}
	if len(out) == 0 {
		return nil, ErrNoScopes
	}
	return out, nil
}
