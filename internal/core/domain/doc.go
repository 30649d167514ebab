// Package domain defines the core business entities for Weave.
//
// This package is part of the hexagonal architecture's innermost layer.
// It has NO external dependencies and defines the fundamental types:
//
//   - Fragment: A SQL snippet embedded in an annotated source document
//   - Message: One chat message, mutable only while streaming
//   - StreamEvent: A closed union of typed events from the AI backend
//   - MentionEntity: A board or query referenced inline as @name
//
// # Architectural Position
//
// Domain is at the centre of the hexagon. It may only import
// the Go standard library. All other packages depend on domain,
// never the reverse.
//
// # Import Rules
//
//   - Can Import: Standard library only
//   - Cannot Import: Any internal/ package, any external dependency
package domain
