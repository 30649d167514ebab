package driving

import (
	"context"

	"github.com/telar-labs/weave-cli/internal/core/domain"
)

// OAuthFlowState holds the state for a Google sign-in flow in
// progress. Used by driving adapters (CLI) to walk the user through
// browser authorization.
type OAuthFlowState struct {
	// AuthURL is the URL to open in the browser for user authorization.
	AuthURL string

	// CodeVerifier is the PKCE code verifier for token exchange.
	CodeVerifier string

	// State is the OAuth state parameter for CSRF protection.
	State string

	// RedirectURI is the local callback URL for the flow.
	RedirectURI string

	// RedirectPort is the port the callback server is listening on.
	RedirectPort int
}

// AuthService manages the backend login state.
type AuthService interface {
	// LoginWithToken validates and stores a pasted API token.
	LoginWithToken(ctx context.Context, token string) (domain.UserProfile, error)

	// BeginGoogleLogin prepares a Google sign-in flow: PKCE values,
	// local redirect and the URL to open in a browser.
	BeginGoogleLogin(ctx context.Context) (*OAuthFlowState, error)

	// CompleteGoogleLogin exchanges the authorization code delivered
	// to the local callback and stores the resulting credentials.
	CompleteGoogleLogin(ctx context.Context, flow *OAuthFlowState, code string) (domain.UserProfile, error)

	// Logout clears stored credentials.
	Logout(ctx context.Context) error

	// Status reports the stored credentials and, when the backend is
	// reachable, the profile they belong to.
	Status(ctx context.Context) (domain.Credentials, *domain.UserProfile, error)
}
