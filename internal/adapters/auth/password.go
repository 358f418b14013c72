package auth

import (
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"cinefilia/internal/domain"
)

// Bcrypt hashes passwords with bcrypt. A zero Cost means bcrypt.DefaultCost.
type Bcrypt struct {
	Cost int
}

var _ domain.PasswordHasher = Bcrypt{}

func (b Bcrypt) Hash(password string) (string, error) {
	if password == "" {
		return "", errEmptyPassword
	}
	cost := b.Cost
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	h, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}

func (Bcrypt) Check(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func HashPassword(password string) (string, error) { return Bcrypt{}.Hash(password) }

func CheckPassword(password, hash string) bool { return Bcrypt{}.Check(password, hash) }
