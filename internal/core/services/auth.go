package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"

	"github.com/telar-labs/weave-cli/internal/core/domain"
	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
	"github.com/telar-labs/weave-cli/internal/core/ports/driving"
	"github.com/telar-labs/weave-cli/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// Local callback port range for the Google sign-in redirect. The
// backend's OAuth app must list every loopback URI in this range.
const (
	callbackPortStart = 8765
	callbackPortEnd   = 8785
)

// AuthService manages the backend login state: pasted API tokens and
// Google sign-in. Both end in a backend-issued bearer token stored in
// the config file.
type AuthService struct {
	backend driven.BackendAuth
	store   driven.CredentialsStore
	config  driven.ConfigStore
}

// NewAuthService creates a new auth service.
func NewAuthService(backend driven.BackendAuth, store driven.CredentialsStore, config driven.ConfigStore) *AuthService {
	return &AuthService{
		backend: backend,
		store:   store,
		config:  config,
	}
}

// LoginWithToken validates and stores a pasted API token.
func (s *AuthService) LoginWithToken(ctx context.Context, token string) (domain.UserProfile, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return domain.UserProfile{}, fmt.Errorf("%w: token is empty", domain.ErrInvalidInput)
	}

	profile, err := s.backend.LoginWithToken(ctx, token)
	if err != nil {
		return domain.UserProfile{}, err
	}

	creds := domain.Credentials{
		Method:            domain.AuthMethodPAT,
		AccountIdentifier: profile.Email,
		PAT:               &domain.PATCredentials{Token: token},
	}
	if err := s.store.SaveCredentials(creds); err != nil {
		return domain.UserProfile{}, fmt.Errorf("store credentials: %w", err)
	}

	logger.Info("Signed in as %s (token)", profile.Email)
	return profile, nil
}

// BeginGoogleLogin prepares a Google sign-in flow: PKCE values, a
// local redirect and the URL to open in a browser. The caller runs
// the callback server and hands the delivered code to
// CompleteGoogleLogin.
func (s *AuthService) BeginGoogleLogin(ctx context.Context) (*driving.OAuthFlowState, error) {
	clientID := s.config.GetString("auth.google_client_id")
	if clientID == "" {
		return nil, fmt.Errorf("%w: auth.google_client_id is not configured", domain.ErrInvalidInput)
	}

	verifier, err := generateCodeVerifier()
	if err != nil {
		return nil, fmt.Errorf("generate code verifier: %w", err)
	}
	state, err := generateState()
	if err != nil {
		return nil, fmt.Errorf("generate state: %w", err)
	}
	port, err := FindAvailablePort(callbackPortStart, callbackPortEnd)
	if err != nil {
		return nil, fmt.Errorf("find callback port: %w", err)
	}
	redirectURI := fmt.Sprintf("http://127.0.0.1:%d/callback", port)

	cfg := oauth2.Config{
		ClientID:    clientID,
		Endpoint:    google.Endpoint,
		RedirectURL: redirectURI,
		Scopes:      []string{"openid", "email", "profile"},
	}
	authURL := cfg.AuthCodeURL(state,
		oauth2.SetAuthURLParam("code_challenge", generateCodeChallenge(verifier)),
		oauth2.SetAuthURLParam("code_challenge_method", "S256"),
	)

	return &driving.OAuthFlowState{
		AuthURL:      authURL,
		CodeVerifier: verifier,
		State:        state,
		RedirectURI:  redirectURI,
		RedirectPort: port,
	}, nil
}

// CompleteGoogleLogin exchanges the authorization code delivered to
// the local callback and stores the resulting credentials. The actual
// provider exchange happens at the backend, which holds the client
// secret.
func (s *AuthService) CompleteGoogleLogin(ctx context.Context, flow *driving.OAuthFlowState, code string) (domain.UserProfile, error) {
	if flow == nil {
		return domain.UserProfile{}, fmt.Errorf("%w: no sign-in flow in progress", domain.ErrInvalidInput)
	}
	if code == "" {
		return domain.UserProfile{}, fmt.Errorf("%w: authorization code is empty", domain.ErrInvalidInput)
	}

	creds, profile, err := s.backend.ExchangeGoogleCode(ctx, code, flow.RedirectURI, flow.CodeVerifier)
	if err != nil {
		return domain.UserProfile{}, err
	}
	if err := s.store.SaveCredentials(creds); err != nil {
		return domain.UserProfile{}, fmt.Errorf("store credentials: %w", err)
	}

	logger.Info("Signed in as %s (google)", profile.Email)
	return profile, nil
}

// Logout clears stored credentials. Clearing when nothing is stored
// is not an error.
func (s *AuthService) Logout(ctx context.Context) error {
	return s.store.ClearCredentials()
}

// Status reports the stored credentials and, when the backend is
// reachable, the profile they belong to. An unreachable backend is
// not an error: the profile is simply nil.
func (s *AuthService) Status(ctx context.Context) (domain.Credentials, *domain.UserProfile, error) {
	creds, err := s.store.GetCredentials()
	if err != nil {
		return creds, nil, err
	}

	profile, err := s.backend.WhoAmI(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrBackendUnavailable) {
			logger.Debug("auth status: backend unreachable: %v", err)
			return creds, nil, nil
		}
		return creds, nil, err
	}
	return creds, &profile, nil
}
