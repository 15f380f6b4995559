package auth

import "golang.org/x/crypto/bcrypt"

// TokenHasher defines the hashing strategy for the admin API token.
type TokenHasher interface {
	Hash(token string) (string, error)
	Compare(hash string, token string) error
}

// BcryptHasher uses bcrypt to hash and verify tokens.
type BcryptHasher struct {
	cost int
}

// NewBcryptHasher creates BcryptHasher with provided cost.
func NewBcryptHasher(cost int) *BcryptHasher {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	return &BcryptHasher{cost: cost}
}

// Hash returns bcrypt hash for provided token.
func (h *BcryptHasher) Hash(token string) (string, error) {
	encoded, err := bcrypt.GenerateFromPassword([]byte(token), h.cost)
	if err != nil {
		return "", err
	}
	return string(encoded), nil
}

// Compare checks token against stored hash.
func (h *BcryptHasher) Compare(hash string, token string) error {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(token))
}
