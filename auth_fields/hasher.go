package auth_fields

import "golang.org/x/crypto/bcrypt"

const DefaultHashCost = 8

// BcryptHasher hashes account passwords.
type BcryptHasher struct {
	Cost int
}

func (b BcryptHasher) Hash(plain string) (string, error) {
	cost := b.Cost
	if cost == 0 {
		cost = DefaultHashCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func (b BcryptHasher) Compare(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
