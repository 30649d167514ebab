package services

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/telar-labs/weave-cli/internal/adapters/driven/storage/memory"
	"github.com/telar-labs/weave-cli/internal/core/domain"
)

// --- Mock implementations for auth testing ---

// authMockBackend implements driven.BackendAuth.
type authMockBackend struct {
	loginProfile domain.UserProfile
	loginErr     error

	exchangeCreds   domain.Credentials
	exchangeProfile domain.UserProfile
	exchangeErr     error
	exchangeCode    string
	exchangeURI     string
	exchangeVerif   string

	whoamiProfile domain.UserProfile
	whoamiErr     error
}

func (m *authMockBackend) LoginWithToken(_ context.Context, token string) (domain.UserProfile, error) {
	if m.loginErr != nil {
		return domain.UserProfile{}, m.loginErr
	}
	return m.loginProfile, nil
}

func (m *authMockBackend) ExchangeGoogleCode(_ context.Context, code, redirectURI, codeVerifier string) (domain.Credentials, domain.UserProfile, error) {
	m.exchangeCode = code
	m.exchangeURI = redirectURI
	m.exchangeVerif = codeVerifier
	if m.exchangeErr != nil {
		return domain.Credentials{}, domain.UserProfile{}, m.exchangeErr
	}
	return m.exchangeCreds, m.exchangeProfile, nil
}

func (m *authMockBackend) WhoAmI(_ context.Context) (domain.UserProfile, error) {
	if m.whoamiErr != nil {
		return domain.UserProfile{}, m.whoamiErr
	}
	return m.whoamiProfile, nil
}

// authMockCredStore implements driven.CredentialsStore in memory.
type authMockCredStore struct {
	creds   *domain.Credentials
	saveErr error
}

func (m *authMockCredStore) GetCredentials() (domain.Credentials, error) {
	if m.creds == nil {
		return domain.Credentials{}, domain.ErrAuthRequired
	}
	return *m.creds, nil
}

func (m *authMockCredStore) SaveCredentials(creds domain.Credentials) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.creds = &creds
	return nil
}

func (m *authMockCredStore) ClearCredentials() error {
	m.creds = nil
	return nil
}

func newAuthService(backend *authMockBackend, store *authMockCredStore, clientID string) *AuthService {
	config := memory.NewConfigStore()
	if clientID != "" {
		_ = config.Set("auth.google_client_id", clientID)
	}
	return NewAuthService(backend, store, config)
}

// --- LoginWithToken ---

func TestAuthService_LoginWithToken(t *testing.T) {
	backend := &authMockBackend{loginProfile: domain.UserProfile{ID: "u1", Email: "ana@example.com"}}
	store := &authMockCredStore{}
	service := newAuthService(backend, store, "")

	profile, err := service.LoginWithToken(context.Background(), "  wv_token_123  ")

	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", profile.Email)
	require.NotNil(t, store.creds)
	assert.Equal(t, domain.AuthMethodPAT, store.creds.Method)
	assert.Equal(t, "wv_token_123", store.creds.PAT.Token, "token stored trimmed")
	assert.Equal(t, "ana@example.com", store.creds.AccountIdentifier)
}

func TestAuthService_LoginWithToken_Empty(t *testing.T) {
	service := newAuthService(&authMockBackend{}, &authMockCredStore{}, "")

	_, err := service.LoginWithToken(context.Background(), "   ")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthService_LoginWithToken_Rejected(t *testing.T) {
	backend := &authMockBackend{loginErr: domain.ErrAuthInvalid}
	store := &authMockCredStore{}
	service := newAuthService(backend, store, "")

	_, err := service.LoginWithToken(context.Background(), "bad-token")

	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	assert.Nil(t, store.creds, "rejected token must not be stored")
}

// --- Google sign-in flow ---

func TestAuthService_BeginGoogleLogin(t *testing.T) {
	service := newAuthService(&authMockBackend{}, &authMockCredStore{}, "client-1.apps.googleusercontent.com")

	flow, err := service.BeginGoogleLogin(context.Background())

	require.NoError(t, err)
	assert.NotEmpty(t, flow.CodeVerifier)
	assert.NotEmpty(t, flow.State)
	assert.GreaterOrEqual(t, flow.RedirectPort, callbackPortStart)
	assert.LessOrEqual(t, flow.RedirectPort, callbackPortEnd)
	assert.Equal(t, fmt.Sprintf("http://127.0.0.1:%d/callback", flow.RedirectPort), flow.RedirectURI)

	parsed, err := url.Parse(flow.AuthURL)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(flow.AuthURL, "https://accounts.google.com/"))
	query := parsed.Query()
	assert.Equal(t, "client-1.apps.googleusercontent.com", query.Get("client_id"))
	assert.Equal(t, flow.State, query.Get("state"))
	assert.Equal(t, flow.RedirectURI, query.Get("redirect_uri"))
	assert.Equal(t, "S256", query.Get("code_challenge_method"))
	assert.Equal(t, generateCodeChallenge(flow.CodeVerifier), query.Get("code_challenge"))
}

func TestAuthService_BeginGoogleLogin_NoClientID(t *testing.T) {
	service := newAuthService(&authMockBackend{}, &authMockCredStore{}, "")

	_, err := service.BeginGoogleLogin(context.Background())

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestAuthService_CompleteGoogleLogin(t *testing.T) {
	backend := &authMockBackend{
		exchangeCreds: domain.Credentials{
			Method: domain.AuthMethodGoogle,
			OAuth:  &domain.OAuthCredentials{AccessToken: "jwt-1", Expiry: time.Now().Add(time.Hour)},
		},
		exchangeProfile: domain.UserProfile{Email: "ana@example.com"},
	}
	store := &authMockCredStore{}
	service := newAuthService(backend, store, "client-1")

	flow, err := service.BeginGoogleLogin(context.Background())
	require.NoError(t, err)

	profile, err := service.CompleteGoogleLogin(context.Background(), flow, "auth-code-1")

	require.NoError(t, err)
	assert.Equal(t, "ana@example.com", profile.Email)
	assert.Equal(t, "auth-code-1", backend.exchangeCode)
	assert.Equal(t, flow.RedirectURI, backend.exchangeURI)
	assert.Equal(t, flow.CodeVerifier, backend.exchangeVerif)
	require.NotNil(t, store.creds)
	assert.Equal(t, "jwt-1", store.creds.AccessToken())
}

func TestAuthService_CompleteGoogleLogin_NilFlow(t *testing.T) {
	service := newAuthService(&authMockBackend{}, &authMockCredStore{}, "client-1")

	_, err := service.CompleteGoogleLogin(context.Background(), nil, "code")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// --- Logout ---

func TestAuthService_Logout(t *testing.T) {
	store := &authMockCredStore{creds: &domain.Credentials{
		Method: domain.AuthMethodPAT,
		PAT:    &domain.PATCredentials{Token: "wv_123"},
	}}
	service := newAuthService(&authMockBackend{}, store, "")

	require.NoError(t, service.Logout(context.Background()))
	assert.Nil(t, store.creds)
}

func TestAuthService_Logout_NotSignedIn(t *testing.T) {
	service := newAuthService(&authMockBackend{}, &authMockCredStore{}, "")

	assert.NoError(t, service.Logout(context.Background()))
}

// --- Status ---

func TestAuthService_Status_SignedIn(t *testing.T) {
	backend := &authMockBackend{whoamiProfile: domain.UserProfile{Email: "ana@example.com"}}
	store := &authMockCredStore{creds: &domain.Credentials{
		Method: domain.AuthMethodPAT,
		PAT:    &domain.PATCredentials{Token: "wv_123"},
	}}
	service := newAuthService(backend, store, "")

	creds, profile, err := service.Status(context.Background())

	require.NoError(t, err)
	assert.Equal(t, domain.AuthMethodPAT, creds.Method)
	require.NotNil(t, profile)
	assert.Equal(t, "ana@example.com", profile.Email)
}

func TestAuthService_Status_NotSignedIn(t *testing.T) {
	service := newAuthService(&authMockBackend{}, &authMockCredStore{}, "")

	_, _, err := service.Status(context.Background())

	assert.ErrorIs(t, err, domain.ErrAuthRequired)
}

func TestAuthService_Status_BackendDown(t *testing.T) {
	backend := &authMockBackend{whoamiErr: fmt.Errorf("%w: dial refused", domain.ErrBackendUnavailable)}
	store := &authMockCredStore{creds: &domain.Credentials{
		Method: domain.AuthMethodPAT,
		PAT:    &domain.PATCredentials{Token: "wv_123"},
	}}
	service := newAuthService(backend, store, "")

	creds, profile, err := service.Status(context.Background())

	require.NoError(t, err, "unreachable backend is not a status failure")
	assert.Equal(t, domain.AuthMethodPAT, creds.Method)
	assert.Nil(t, profile)
}

func TestAuthService_Status_RejectedToken(t *testing.T) {
	backend := &authMockBackend{whoamiErr: domain.ErrAuthInvalid}
	store := &authMockCredStore{creds: &domain.Credentials{
		Method: domain.AuthMethodPAT,
		PAT:    &domain.PATCredentials{Token: "wv_123"},
	}}
	service := newAuthService(backend, store, "")

	_, profile, err := service.Status(context.Background())

	assert.ErrorIs(t, err, domain.ErrAuthInvalid)
	assert.Nil(t, profile)
}
