package auth

import "golang.org/x/crypto/bcrypt"

// DefaultHashCost is used when the configured bcrypt cost is out of range.
const DefaultHashCost = 10

// HashPassword hashes a plaintext password. A cost outside bcrypt's valid
// range falls back to DefaultHashCost so a misconfigured deployment cannot
// silently weaken hashes.
func HashPassword(password string, cost int) (string, error) {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultHashCost
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// ComparePassword verifies a plaintext password against its stored hash.
func ComparePassword(hashed, plain string) error {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain))
}
