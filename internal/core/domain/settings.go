package domain

const unknownDescription = "Unknown"

// DefaultBackendURL is the dashboard backend in local development.
const DefaultBackendURL = "http://localhost:8000"

// DefaultChatModel is used when the user has not picked a model.
const DefaultChatModel = "gemini-2.0-flash"

// AuthMethod identifies how the CLI authenticates against the backend.
type AuthMethod string

// Available auth methods.
const (
	// AuthMethodNone means no credentials are configured.
	AuthMethodNone AuthMethod = "none"

	// AuthMethodPAT is a pasted API token.
	AuthMethodPAT AuthMethod = "pat"

	// AuthMethodGoogle is Google sign-in exchanged at the backend.
	AuthMethodGoogle AuthMethod = "google"
)

// IsValid returns true if the auth method is recognised.
func (m AuthMethod) IsValid() bool {
	switch m {
	case AuthMethodNone, AuthMethodPAT, AuthMethodGoogle:
		return true
	default:
		return false
	}
}

// String returns the string representation.
func (m AuthMethod) String() string {
	return string(m)
}

// Description returns a human-readable description of the method.
func (m AuthMethod) Description() string {
	switch m {
	case AuthMethodNone:
		return "Not signed in"
	case AuthMethodPAT:
		return "API token"
	case AuthMethodGoogle:
		return "Google sign-in"
	default:
		return unknownDescription
	}
}

// AllAuthMethods returns the methods a user can pick during login.
func AllAuthMethods() []AuthMethod {
	return []AuthMethod{AuthMethodPAT, AuthMethodGoogle}
}

// BackendSettings holds dashboard backend connection configuration.
type BackendSettings struct {
	// BaseURL is the backend root, without trailing slash.
	BaseURL string
}

// ChatSettings holds chat behaviour configuration.
type ChatSettings struct {
	// Model is the AI model identifier sent with each request.
	Model string

	// HistoryLimit caps how many prior messages accompany a request.
	HistoryLimit int
}

// EditorSettings holds fragment editor behaviour configuration.
type EditorSettings struct {
	// FormatOnSave formats the composite before splicing it back.
	FormatOnSave bool

	// Watch reloads the editor when the source file changes on disk.
	Watch bool
}

// AppSettings holds all application settings.
type AppSettings struct {
	// Backend holds backend connection settings.
	Backend BackendSettings

	// Chat holds chat behaviour settings.
	Chat ChatSettings

	// Editor holds fragment editor settings.
	Editor EditorSettings
}

// DefaultAppSettings returns settings with sensible defaults.
// Credentials are not part of settings; they live in the credentials
// store and are established via `weave auth login`.
func DefaultAppSettings() AppSettings {
	return AppSettings{
		Backend: BackendSettings{
			BaseURL: DefaultBackendURL,
		},
		Chat: ChatSettings{
			Model:        DefaultChatModel,
			HistoryLimit: 40,
		},
		Editor: EditorSettings{
			FormatOnSave: true,
			Watch:        true,
		},
	}
}
