// Package password wraps bcrypt hashing and verification of user passwords.
package password

import "golang.org/x/crypto/bcrypt"

// cost matches the salt rounds the accounts were originally hashed with.
const cost = 10

// Hash generates a salted bcrypt digest of the plaintext.
func Hash(plaintext string) (string, error) {
	digest, err := bcrypt.GenerateFromPassword([]byte(plaintext), cost)
	if err != nil {
		return "", err
	}
	return string(digest), nil
}

// Verify reports whether the plaintext matches the digest. A malformed
// digest is treated as a mismatch.
func Verify(plaintext, digest string) bool {
	return bcrypt.CompareHashAndPassword([]byte(digest), []byte(plaintext)) == nil
}
