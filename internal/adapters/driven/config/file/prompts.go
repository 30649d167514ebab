package file

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/telar-labs/weave-cli/internal/core/ports/driven"
)

// Ensure PromptStore implements the interface.
var _ driven.PromptStore = (*PromptStore)(nil)

// PromptStore loads system prompts from user-editable files on disk.
// Prompts are loaded from a configurable directory with fallback to embedded defaults.
//
// The store uses lazy initialisation - files are only created when first accessed,
// not in the constructor. This makes testing easier and avoids unexpected I/O.
type PromptStore struct {
	mu        sync.RWMutex
	promptDir string
	cache     map[string]string
	initOnce  sync.Once
	initErr   error
}

// defaultPrompts contains embedded default prompts, one per chat
// scope plus the mention-context frame. They mirror the backend's own
// catalog so local overrides line up with server behaviour.
//
//nolint:lll // Prompt content is intentionally long and should not be wrapped.
var defaultPrompts = map[string]string{
	driven.PromptBoardSystem: `You are working on a dashboard board. You can inspect its queries, rearrange widgets and create or edit queries that feed them.
Prefer small, reviewable changes. When you edit SQL, keep the surrounding annotations intact.`,

	driven.PromptQuerySystem: `You are working on a single saved query. Its source is an annotated document: comment markers name each embedded SQL fragment.
Edit only the SQL after the query markers; never touch other lines. Test your changes before declaring them done.`,

	driven.PromptDatastoreSystem: `You are exploring a datastore. You can read its schema and run read-only queries to answer questions about the data.
Never modify data. Summarise findings concisely and show the SQL you ran.`,

	driven.PromptGeneralSystem: `You are a helpful assistant for a BI dashboard. Answer questions about boards, queries and datastores, and help draft SQL when asked.`,

	driven.PromptMentionContext: `Context from @%s:
%s`,
}

// NewPromptStore creates a new file-based prompt store.
// If promptDir is empty, defaults to ~/.config/weave/prompts/.
//
// The constructor does not perform any I/O - directory creation and
// file writes happen lazily on first Load() call.
func NewPromptStore(promptDir string) (*PromptStore, error) {
	if promptDir == "" {
		configDir, err := DefaultConfigDir()
		if err != nil {
			return nil, fmt.Errorf("get config directory: %w", err)
		}
		promptDir = filepath.Join(configDir, "prompts")
	}

	return &PromptStore{
		promptDir: promptDir,
		cache:     make(map[string]string),
	}, nil
}

// Load returns the prompt template for the given name.
// On first call, initialises the prompt directory and creates default files.
// Returns cached value if available, otherwise loads from file.
// Falls back to embedded default if file doesn't exist.
func (s *PromptStore) Load(name string) (string, error) {
	// Ensure directory and defaults exist (lazy init)
	s.initOnce.Do(s.initialise)
	if s.initErr != nil {
		// Fall back to embedded defaults if init failed
		if prompt, ok := defaultPrompts[name]; ok {
			return prompt, nil
		}
		return "", fmt.Errorf("prompt store init failed: %w", s.initErr)
	}

	// Check cache first (read lock)
	s.mu.RLock()
	if prompt, ok := s.cache[name]; ok {
		s.mu.RUnlock()
		return prompt, nil
	}
	s.mu.RUnlock()

	// Load from file (no lock held during I/O)
	prompt, err := s.loadFromFile(name)
	if err != nil {
		// Fall back to embedded default
		if defaultPrompt, ok := defaultPrompts[name]; ok {
			return defaultPrompt, nil
		}
		return "", fmt.Errorf("load prompt %q: %w", name, err)
	}

	// Cache the result (write lock)
	// Use double-check pattern to avoid overwriting concurrent loads
	s.mu.Lock()
	if _, ok := s.cache[name]; !ok {
		s.cache[name] = prompt
	} else {
		// Another goroutine loaded it first, use their value
		prompt = s.cache[name]
	}
	s.mu.Unlock()

	return prompt, nil
}

// Reload clears the prompt cache, forcing fresh loads from disk.
func (s *PromptStore) Reload() {
	s.mu.Lock()
	s.cache = make(map[string]string)
	s.mu.Unlock()
}

// Dir returns the prompt directory path.
func (s *PromptStore) Dir() string {
	return s.promptDir
}

// initialise creates the prompt directory and default files.
// Called once via sync.Once on first Load().
func (s *PromptStore) initialise() {
	// Create directory
	if err := os.MkdirAll(s.promptDir, 0700); err != nil {
		s.initErr = fmt.Errorf("create prompt directory: %w", err)
		return
	}

	// Create default prompt files (only if they don't exist)
	for name, content := range defaultPrompts {
		path := filepath.Join(s.promptDir, name+".txt")
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(content), 0600); err != nil {
				s.initErr = fmt.Errorf("create default prompt %q: %w", name, err)
				return
			}
		}
	}

	// Create README
	if err := s.createReadme(); err != nil {
		s.initErr = err
	}
}

// loadFromFile reads a prompt from disk.
func (s *PromptStore) loadFromFile(name string) (string, error) {
	path := filepath.Join(s.promptDir, name+".txt")
	data, err := os.ReadFile(path)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(data)), nil
}

// createReadme writes a README file explaining the prompts directory.
func (s *PromptStore) createReadme() error {
	path := filepath.Join(s.promptDir, "README.md")
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		return nil // Already exists or stat error (ignore)
	}

	content := `# Weave Prompts

This directory contains customisable system prompts sent with chat
requests, one per chat scope.

## Files

- ` + "`board_system.txt`" + ` - Board-scoped sessions
- ` + "`query_system.txt`" + ` - Query-scoped sessions
- ` + "`datastore_system.txt`" + ` - Datastore exploration sessions
- ` + "`general_system.txt`" + ` - Unscoped sessions
- ` + "`mention_context.txt`" + ` - Frame around @mention context blocks

## Customisation

Edit any file to customise behaviour. Changes take effect on the next
command or after restarting the TUI.

## Format Placeholders

` + "`mention_context.txt`" + ` uses Go fmt placeholders: the first ` + "`%s`" + ` is
the entity name, the second is its content. Keep both, in order.
`
	return os.WriteFile(path, []byte(content), 0600)
}
