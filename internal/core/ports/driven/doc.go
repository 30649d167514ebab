// Package driven defines the interfaces that core calls OUT to infrastructure.
//
// These are the "driven" or "secondary" ports in hexagonal architecture.
// Core services depend on these interfaces, and infrastructure adapters
// implement them.
//
// # Required Interfaces
//
// These must be provided for the application to function:
//
//   - ChatStreamer: Sends a chat turn and streams typed events back
//   - EntitySearcher: Finds boards and queries for @mention completion
//   - ContentFetcher: Fetches entity bodies for prompt context
//   - SessionStore: Chat session persistence
//   - MessageStore: Chat message persistence (append is fire-and-forget)
//   - ConfigStore: Application configuration
//   - CredentialsStore: Backend auth token persistence
//
// # Optional Interfaces
//
// These can be nil - the application degrades gracefully:
//
//   - PromptStore: User overrides for system prompt templates
//   - SourceWatcher: Reload-on-change for open source files
//   - BackendDirectory: Board/query/datastore listings for the CLI
//
// # Import Rules
//
//   - Can Import: domain package only
//   - Cannot Import: Any adapter package
package driven
