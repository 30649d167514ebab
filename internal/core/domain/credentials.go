package domain

import "time"

// Credentials stores the backend authentication state for this
// machine. There is exactly one set: the CLI talks to one dashboard
// backend as one user.
//
// Both login methods end in a backend-issued bearer token; the split
// records how it was obtained so `auth status` can say so and expiry
// handling can differ.
type Credentials struct {
	// Method records how the user signed in.
	Method AuthMethod

	// AccountIdentifier is the user's email as reported by the
	// backend after login. Display only.
	AccountIdentifier string

	// OAuth holds the token from Google sign-in. Nil for PAT.
	OAuth *OAuthCredentials

	// PAT holds the pasted API token. Nil for Google sign-in.
	PAT *PATCredentials

	// CreatedAt is when the credentials were first stored.
	CreatedAt time.Time

	// UpdatedAt is when the credentials were last updated.
	UpdatedAt time.Time
}

// OAuthCredentials stores the backend token minted after Google
// sign-in.
type OAuthCredentials struct {
	// AccessToken is the bearer token for backend API access.
	AccessToken string

	// TokenType is typically "Bearer".
	TokenType string

	// Expiry is when the token expires and a new sign-in is needed.
	// The backend issues no refresh tokens.
	Expiry time.Time
}

// PATCredentials stores a pasted API token.
type PATCredentials struct {
	// Token is the actual token.
	Token string
}

// IsExpired returns true if the token has expired.
func (c *OAuthCredentials) IsExpired() bool {
	if c.Expiry.IsZero() {
		return false
	}
	return time.Now().After(c.Expiry)
}

// IsAuthenticated returns true if the credentials contain a usable token.
func (c *Credentials) IsAuthenticated() bool {
	if c.OAuth != nil && c.OAuth.AccessToken != "" && !c.OAuth.IsExpired() {
		return true
	}
	if c.PAT != nil && c.PAT.Token != "" {
		return true
	}
	return false
}

// AccessToken returns the bearer token for backend calls, or "".
func (c *Credentials) AccessToken() string {
	if c.OAuth != nil && c.OAuth.AccessToken != "" {
		return c.OAuth.AccessToken
	}
	if c.PAT != nil && c.PAT.Token != "" {
		return c.PAT.Token
	}
	return ""
}

// UserProfile is the signed-in user as reported by the backend.
type UserProfile struct {
	// ID is the backend user ID.
	ID string

	// Email is the account email.
	Email string

	// FullName is the display name, may be empty.
	FullName string
}
