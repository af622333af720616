package provision

import (
	"crypto/rand"
	"encoding/base64"

	"golang.org/x/crypto/bcrypt"
)

// passwordEntropyBytes is the entropy of generated passwords. 24 bytes is
// 192 bits, above the 128-bit minimum required for provisioned accounts.
const passwordEntropyBytes = 24

// randomPassword generates a throwaway password for a provisioned user. The
// user is expected to reset it through the normal onboarding flow.
func randomPassword() (string, error) {
	buf := make([]byte, passwordEntropyBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// hashPassword hashes a plaintext password with bcrypt.
func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
