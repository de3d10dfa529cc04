package service

import "golang.org/x/crypto/bcrypt"

// HashPassword returns the bcrypt hash of the plaintext with a fresh
// per-call salt.
func HashPassword(plain string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(plain), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// VerifyPassword reports whether the plaintext matches the stored
// hash. Any bcrypt error, including a malformed hash, counts as a
// mismatch rather than a distinct failure.
func VerifyPassword(plain, hashed string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(plain)) == nil
}
