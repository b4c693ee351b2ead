package gateway

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/Denis-Pavliha-s-p/strapi-google-auth/apperr"
	"github.com/golang-jwt/jwt"
)

const defaultTokenTTL = 30 * 24 * time.Hour

// JWTAuth issues and verifies HS256 session tokens.
type JWTAuth struct {
	Key    []byte
	TTL    time.Duration
	Issuer string
	// Now is used for iat/exp. Defaults to time.Now.
	Now func() time.Time
}

// TokenClaims carries the user id. Both the login and the introspection path read only ID.
type TokenClaims struct {
	ID uint `json:"id"`
	jwt.StandardClaims
}

func (j *JWTAuth) now() time.Time {
	if j.Now != nil {
		return j.Now()
	}
	return time.Now()
}

// Issue signs a session token for userID.
func (j *JWTAuth) Issue(userID uint) (string, error) {
	if len(j.Key) == 0 {
		return "", errors.New("empty jwt key")
	}
	ttl := j.TTL
	if ttl <= 0 {
		ttl = defaultTokenTTL
	}
	now := j.now()
	claims := TokenClaims{
		ID: userID,
		StandardClaims: jwt.StandardClaims{
			IssuedAt:  now.Unix(),
			ExpiresAt: now.Add(ttl).Unix(),
			Issuer:    j.Issuer,
			Subject:   strconv.FormatUint(uint64(userID), 10),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(j.Key)
}

// Verify parses tokenString and returns its claims. Every failure is apperr.ErrInvalidToken.
func (j *JWTAuth) Verify(tokenString string) (*TokenClaims, error) {
	if len(j.Key) == 0 {
		return nil, apperr.Wrap(errors.New("empty jwt key"), apperr.ErrInvalidToken, "")
	}
	parser := jwt.Parser{}
	claims := &TokenClaims{}
	token, err := parser.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
		}
		return j.Key, nil
	})
	if err != nil {
		return nil, apperr.Wrap(err, apperr.ErrInvalidToken, "")
	}
	if !token.Valid {
		return nil, apperr.Wrap(errors.New("token is invalid"), apperr.ErrInvalidToken, "")
	}
	// jwt v3 validates exp against time.Now, so recheck with our clock.
	if claims.ExpiresAt != 0 && j.now().Unix() > claims.ExpiresAt {
		return nil, apperr.Wrap(errors.New("token is expired"), apperr.ErrInvalidToken, "")
	}
	if j.Issuer != "" && claims.Issuer != j.Issuer {
		return nil, apperr.Wrap(fmt.Errorf("unexpected issuer %q", claims.Issuer), apperr.ErrInvalidToken, "")
	}
	if claims.ID == 0 {
		return nil, apperr.Wrap(errors.New("token has no id"), apperr.ErrInvalidToken, "")
	}
	return claims, nil
}

// TokenFromHeader accepts "Bearer <token>" or the bare token.
func TokenFromHeader(header string) string {
	header = strings.TrimSpace(header)
	if len(header) > 7 && strings.EqualFold(header[:7], "bearer ") {
		return strings.TrimSpace(header[7:])
	}
	return header
}
