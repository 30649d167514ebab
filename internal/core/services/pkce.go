package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
)

// Verifier length in random bytes; base64url expands this to 86
// characters, inside the 43-128 range RFC 7636 allows.
const codeVerifierLength = 64

// generateCodeVerifier creates a random PKCE code verifier.
func generateCodeVerifier() (string, error) {
	buf := make([]byte, codeVerifierLength)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// generateCodeChallenge derives the S256 challenge from a verifier.
func generateCodeChallenge(verifier string) string {
	sum := sha256.Sum256([]byte(verifier))
	return base64.RawURLEncoding.EncodeToString(sum[:])
}

// generateState creates the random state parameter that ties the
// callback to the flow that started it.
func generateState() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}
