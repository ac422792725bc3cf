package security

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the work factor the stored hashes were
// created with; raising it only affects new hashes.
const DefaultBcryptCost = 10

func HashPassword(password string) ([]byte, error) {
	return HashPasswordWithCost(password, DefaultBcryptCost)
}

func HashPasswordWithCost(password string, cost int) ([]byte, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	return hash, nil
}

// VerifyPassword reports whether password matches the stored bcrypt
// hash. A mismatch is a false return, not an error.
func VerifyPassword(password string, hash []byte) bool {
	return bcrypt.CompareHashAndPassword(hash, []byte(password)) == nil
}
