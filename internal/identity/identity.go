// Package identity hashes and verifies user credentials with bcrypt.
package identity

import (
	"fmt"

	apperrors "event-ticketing/pkg/app_errors"

	"golang.org/x/crypto/bcrypt"
)

const DefaultCost = 10

type Store interface {
	Hash(password string) (string, error)
	Verify(password, passwordHash string) bool
}

type BcryptStore struct {
	cost int
}

// NewBcryptStore cost 超出 bcrypt 範圍時改用 DefaultCost
func NewBcryptStore(cost int) *BcryptStore {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &BcryptStore{cost: cost}
}

// Hash 產生的字串內含 salt 與 cost，可直接交給 Verify 使用
func (s *BcryptStore) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperrors.ErrHashFailure, err)
	}
	return string(hash), nil
}

func (s *BcryptStore) Verify(password, passwordHash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(passwordHash), []byte(password)) == nil
}
