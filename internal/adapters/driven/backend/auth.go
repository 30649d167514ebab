package backend

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
)

// Ensure Auth implements the interface.
var _ driven.BackendAuth = (*Auth)(nil)

// Auth performs login against the backend's auth endpoints.
type Auth struct {
	client *Client
}

// profileResponse is the backend's user profile shape.
type profileResponse struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	FullName string `json:"full_name"`
}

// tokenLoginRequest validates a pasted API token.
type tokenLoginRequest struct {
	Token string `json:"token"`
}

// googleExchangeRequest trades a Google authorization code for a
// backend token. The backend performs the provider exchange with its
// client secret plus the PKCE verifier.
type googleExchangeRequest struct {
	Code         string `json:"code"`
	RedirectURI  string `json:"redirect_uri"`
	CodeVerifier string `json:"code_verifier,omitempty"`
}

// googleExchangeResponse is the backend's token grant.
type googleExchangeResponse struct {
	AccessToken string          `json:"access_token"`
	TokenType   string          `json:"token_type"`
	ExpiresIn   int             `json:"expires_in"`
	User        profileResponse `json:"user"`
}

// NewAuth creates a new backend auth adapter.
func NewAuth(client *Client) *Auth {
	return &Auth{client: client}
}

// LoginWithToken validates a pasted API token and returns the profile
// it belongs to.
func (a *Auth) LoginWithToken(ctx context.Context, token string) (domain.UserProfile, error) {
	var resp profileResponse
	err := a.client.doJSON(ctx, http.MethodPost, "/api/auth/token", nil, tokenLoginRequest{Token: token}, &resp)
	if err != nil {
		return domain.UserProfile{}, fmt.Errorf("token login: %w", err)
	}
	return toProfile(resp), nil
}

// ExchangeGoogleCode trades a Google authorization code for a
// backend-issued token.
func (a *Auth) ExchangeGoogleCode(ctx context.Context, code, redirectURI, codeVerifier string) (domain.Credentials, domain.UserProfile, error) {
	body := googleExchangeRequest{Code: code, RedirectURI: redirectURI, CodeVerifier: codeVerifier}

	var resp googleExchangeResponse
	if err := a.client.doJSON(ctx, http.MethodPost, "/api/auth/google", nil, body, &resp); err != nil {
		return domain.Credentials{}, domain.UserProfile{}, fmt.Errorf("google exchange: %w", err)
	}

	now := time.Now()
	tokenType := resp.TokenType
	if tokenType == "" {
		tokenType = "Bearer"
	}
	var expiry time.Time
	if resp.ExpiresIn > 0 {
		expiry = now.Add(time.Duration(resp.ExpiresIn) * time.Second)
	}

	creds := domain.Credentials{
		Method:            domain.AuthMethodGoogle,
		AccountIdentifier: resp.User.Email,
		OAuth: &domain.OAuthCredentials{
			AccessToken: resp.AccessToken,
			TokenType:   tokenType,
			Expiry:      expiry,
		},
		CreatedAt: now,
		UpdatedAt: now,
	}
	return creds, toProfile(resp.User), nil
}

// WhoAmI returns the profile for the stored credentials.
func (a *Auth) WhoAmI(ctx context.Context) (domain.UserProfile, error) {
	var resp profileResponse
	if err := a.client.doJSON(ctx, http.MethodGet, "/api/auth/me", nil, nil, &resp); err != nil {
		return domain.UserProfile{}, fmt.Errorf("whoami: %w", err)
	}
	return toProfile(resp), nil
}

// toProfile converts a wire profile to the domain type.
func toProfile(r profileResponse) domain.UserProfile {
	return domain.UserProfile{
		ID:       r.ID,
		Email:    r.Email,
		FullName: r.FullName,
	}
}
