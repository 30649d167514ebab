package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/telar-labs/weave-cli/internal/core/domain"
)

func TestAuthCmd_HasSubcommands(t *testing.T) {
	commands := authCmd.Commands()
	commandNames := make([]string, 0, len(commands))
	for _, cmd := range commands {
		commandNames = append(commandNames, cmd.Name())
	}

	assert.Contains(t, commandNames, "login")
	assert.Contains(t, commandNames, "logout")
	assert.Contains(t, commandNames, "status")
}

func TestAuthStatusCmd_SignedIn(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	authService = &fakeAuth{
		creds: domain.Credentials{
			Method:            domain.AuthMethodGoogle,
			AccountIdentifier: "dev@example.com",
			OAuth:             &domain.OAuthCredentials{AccessToken: "t", Expiry: time.Now().Add(time.Hour)},
		},
		profile: &domain.UserProfile{Email: "dev@example.com", FullName: "Dev Person"},
	}

	out, err := execute(t, "auth", "status")

	assert.NoError(t, err)
	assert.Contains(t, out, "Signed in via google as dev@example.com")
	assert.Contains(t, out, "Name: Dev Person")
}

func TestAuthStatusCmd_NotSignedIn(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	authService = &fakeAuth{statusErr: domain.ErrAuthRequired}

	out, err := execute(t, "auth", "status")

	assert.NoError(t, err)
	assert.Contains(t, out, "Not signed in")
}

func TestAuthStatusCmd_Expired(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	authService = &fakeAuth{
		creds:     domain.Credentials{AccountIdentifier: "dev@example.com"},
		statusErr: domain.ErrAuthExpired,
	}

	out, err := execute(t, "auth", "status")

	assert.NoError(t, err)
	assert.Contains(t, out, "expired")
	assert.Contains(t, out, "dev@example.com")
}

func TestAuthStatusCmd_BackendUnreachable(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	authService = &fakeAuth{
		creds: domain.Credentials{
			Method:            domain.AuthMethodPAT,
			AccountIdentifier: "dev@example.com",
		},
	}

	out, err := execute(t, "auth", "status")

	assert.NoError(t, err)
	assert.Contains(t, out, "backend unreachable")
}

func TestAuthLogoutCmd_ClearsCredentials(t *testing.T) {
	cleanup := setupTestServices()
	defer cleanup()
	auth := &fakeAuth{}
	authService = auth

	out, err := execute(t, "auth", "logout")

	assert.NoError(t, err)
	assert.Contains(t, out, "Signed out.")
	assert.True(t, auth.loggedOut)
}

func TestAuthCmd_WithoutService(t *testing.T) {
	_, err := execute(t, "auth", "status")

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "auth service not configured")
}
