package cli

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/telar-labs/weave-cli/internal/adapters/driving/oauth"
	"github.com/telar-labs/weave-cli/internal/core/domain"
)

// loginTimeout bounds the wait for the browser round-trip.
const loginTimeout = 5 * time.Minute

var authCmd = &cobra.Command{
	Use:   "auth",
	Short: "Manage backend authentication",
	Long: `Sign in to the dashboard backend, check who you are, or sign out.

Two methods are supported:
  - Google sign-in: opens the browser, completes OAuth with PKCE and
    exchanges the code at the backend (default).
  - API token: paste a personal token minted in the dashboard.

Examples:
  weave auth login              # Google sign-in via browser
  weave auth login --token      # paste an API token
  weave auth status
  weave auth logout`,
}

var authLoginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in to the backend",
	RunE:  runAuthLogin,
}

var authLogoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Clear stored credentials",
	RunE:  runAuthLogout,
}

var authStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the signed-in account",
	RunE:  runAuthStatus,
}

var authLoginToken bool

func init() {
	authLoginCmd.Flags().BoolVar(&authLoginToken, "token", false, "Sign in with a pasted API token")

	authCmd.AddCommand(authLoginCmd)
	authCmd.AddCommand(authLogoutCmd)
	authCmd.AddCommand(authStatusCmd)
	rootCmd.AddCommand(authCmd)
}

func runAuthLogin(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	if authLoginToken {
		return runTokenLogin(cmd)
	}
	return runGoogleLogin(cmd)
}

// runTokenLogin prompts for a token without echo and validates it
// against the backend.
func runTokenLogin(cmd *cobra.Command) error {
	cmd.Print("API token: ")
	token := readSecret()
	cmd.Println()

	profile, err := authService.LoginWithToken(context.Background(), token)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cmd.Printf("Signed in as %s\n", profile.Email)
	return nil
}

// runGoogleLogin walks the browser OAuth flow: local callback server,
// browser open, code exchange at the backend.
func runGoogleLogin(cmd *cobra.Command) error {
	ctx := context.Background()

	flow, err := authService.BeginGoogleLogin(ctx)
	if err != nil {
		return fmt.Errorf("failed to start sign-in: %w", err)
	}

	server := oauth.NewCallbackServer(flow.RedirectPort, flow.State)
	if err := server.Start(); err != nil {
		return fmt.Errorf("failed to start callback server: %w", err)
	}
	defer server.Stop() //nolint:errcheck // shutdown on exit

	cmd.Println("Opening your browser to sign in with Google...")
	if err := oauth.OpenBrowser(flow.AuthURL); err != nil {
		cmd.Println("Could not open a browser. Visit this URL to continue:")
		cmd.Println()
		cmd.Println("  " + flow.AuthURL)
	}
	cmd.Println("Waiting for authorization...")

	code, err := server.WaitForCode(loginTimeout)
	if err != nil {
		return fmt.Errorf("authorization failed: %w", err)
	}

	profile, err := authService.CompleteGoogleLogin(ctx, flow, code)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}

	cmd.Printf("Signed in as %s\n", profile.Email)
	return nil
}

func runAuthLogout(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	if err := authService.Logout(context.Background()); err != nil {
		return fmt.Errorf("logout failed: %w", err)
	}

	cmd.Println("Signed out.")
	return nil
}

func runAuthStatus(cmd *cobra.Command, _ []string) error {
	if authService == nil {
		return errors.New("auth service not configured")
	}

	creds, profile, err := authService.Status(context.Background())
	switch {
	case errors.Is(err, domain.ErrAuthRequired):
		cmd.Println("Not signed in. Run 'weave auth login'.")
		return nil
	case errors.Is(err, domain.ErrAuthExpired):
		cmd.Printf("Session for %s has expired. Run 'weave auth login' again.\n", creds.AccountIdentifier)
		return nil
	case errors.Is(err, domain.ErrAuthInvalid):
		cmd.Println("Stored credentials were rejected by the backend. Run 'weave auth login' again.")
		return nil
	case err != nil:
		return fmt.Errorf("failed to check auth status: %w", err)
	}

	cmd.Printf("Signed in via %s as %s\n", creds.Method, creds.AccountIdentifier)
	if profile != nil {
		if profile.FullName != "" {
			cmd.Printf("  Name: %s\n", profile.FullName)
		}
		cmd.Printf("  Email: %s\n", profile.Email)
	} else {
		cmd.Println("  (backend unreachable, showing stored credentials only)")
	}
	return nil
}

// readSecret reads a line without echo when stdin is a terminal.
func readSecret() string {
	if term.IsTerminal(int(os.Stdin.Fd())) {
		secret, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err == nil {
			return strings.TrimSpace(string(secret))
		}
	}
	reader := bufio.NewReader(os.Stdin)
	input, _ := reader.ReadString('\n') //nolint:errcheck // best-effort prompt
	return strings.TrimSpace(input)
}
