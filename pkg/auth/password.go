package auth

import (
	"sync"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword returns a bcrypt hash of plain at cost.
func HashPassword(plain string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	b, err := bcrypt.GenerateFromPassword([]byte(plain), cost)
	return string(b), err
}

// CheckPassword compares a bcrypt hash against plain in constant time.
func CheckPassword(hash, plain string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}

var (
	dummyOnce sync.Once
	dummyHash string
)

// DummyHash is compared against when a username does not exist so the
// response time does not reveal whether the account is real.
func DummyHash() string {
	dummyOnce.Do(func() {
		dummyHash, _ = HashPassword("eatn-no-such-user", bcrypt.DefaultCost)
	})
	return dummyHash
}
