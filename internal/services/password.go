package services

import "golang.org/x/crypto/bcrypt"

// bcrypt wrappers kept behind function fields so auth tests can swap in a
// cheap hasher

func bcryptHash(password string, cost int) ([]byte, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return bcrypt.GenerateFromPassword([]byte(password), cost)
}

func bcryptCompare(hash, password []byte) error {
	return bcrypt.CompareHashAndPassword(hash, password)
}
