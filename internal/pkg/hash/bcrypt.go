package hash

import "golang.org/x/crypto/bcrypt"

// Bcrypt hashes with golang.org/x/crypto/bcrypt and an optional pepper.
type Bcrypt struct {
	cost   int
	pepper string
}

// NewBcrypt clamps cost into bcrypt's accepted range.
func NewBcrypt(cost int, pepper string) *Bcrypt {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = bcrypt.DefaultCost
	}
	return &Bcrypt{cost: cost, pepper: pepper}
}

func (b *Bcrypt) Hash(plain string) ([]byte, error) {
	return bcrypt.GenerateFromPassword([]byte(plain+b.pepper), b.cost)
}

func (b *Bcrypt) Verify(hashed, plain string) bool {
	if hashed == "" {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain+b.pepper)) == nil
}
