package auth

import "golang.org/x/crypto/bcrypt"

// HashPassword derives a one-way hash of the password using bcrypt with the
// given cost. The salt is generated per call and embedded in the hash, so
// hashing the same password twice yields different strings.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether password matches the stored bcrypt hash.
// The comparison is constant-time.
func CheckPassword(password string, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
