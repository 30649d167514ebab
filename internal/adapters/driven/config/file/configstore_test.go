package file

import (
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) (*ConfigStore, string) {
	t.Helper()
	dir := t.TempDir()
	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	return store, dir
}

// --- Construction ---

func TestNewConfigStore_CustomDir(t *testing.T) {
	store, dir := newTestStore(t)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())
}

func TestNewConfigStore_DefaultDir(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("cannot determine home directory")
	}

	store, err := NewConfigStore("")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".config", "weave", "config.toml"), store.Path())
}

func TestNewConfigStore_CreatesNestedDir(t *testing.T) {
	nested := filepath.Join(t.TempDir(), "deep", "config")

	store, err := NewConfigStore(nested)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(nested, "config.toml"), store.Path())

	info, err := os.Stat(nested)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, os.FileMode(0700), info.Mode().Perm())
}

func TestNewConfigStore_MkdirFails(t *testing.T) {
	store, err := NewConfigStore("/dev/null/weave")
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_CorruptedFile(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("not toml {{{["), 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(dir)
	assert.Error(t, err)
	assert.Nil(t, store)
}

func TestNewConfigStore_MissingFileStartsEmpty(t *testing.T) {
	store, _ := newTestStore(t)

	val, ok := store.Get("backend.url")
	assert.False(t, ok)
	assert.Nil(t, val)
}

func TestNewConfigStore_CommentOnlyFile(t *testing.T) {
	dir := t.TempDir()
	err := os.WriteFile(filepath.Join(dir, "config.toml"), []byte("# empty\n"), 0600)
	require.NoError(t, err)

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	_, ok := store.Get("backend.url")
	assert.False(t, ok)
}

// --- Get and Set ---

func TestConfigStore_SetAndGet(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set("backend.url", "http://localhost:8080"))

	val, ok := store.Get("backend.url")
	assert.True(t, ok)
	assert.Equal(t, "http://localhost:8080", val)
}

func TestConfigStore_Set_Overwrite(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set("chat.model", "haiku"))
	require.NoError(t, store.Set("chat.model", "sonnet"))

	assert.Equal(t, "sonnet", store.GetString("chat.model"))
}

func TestConfigStore_Set_UnmarshallableValue(t *testing.T) {
	store, _ := newTestStore(t)

	// Channels cannot be encoded as TOML.
	err := store.Set("bad", make(chan int))
	assert.Error(t, err)
}

func TestConfigStore_TypedAccessors(t *testing.T) {
	store, _ := newTestStore(t)

	_ = store.Set("backend.url", "http://localhost:8080")
	_ = store.Set("chat.history_limit", 50)
	_ = store.Set("editor.format_on_save", true)
	_ = store.Set("editor.watch", false)

	assert.Equal(t, "http://localhost:8080", store.GetString("backend.url"))
	assert.Equal(t, 50, store.GetInt("chat.history_limit"))
	assert.True(t, store.GetBool("editor.format_on_save"))
	assert.False(t, store.GetBool("editor.watch"))
}

func TestConfigStore_TypedAccessors_WrongTypeOrMissing(t *testing.T) {
	store, _ := newTestStore(t)

	_ = store.Set("chat.history_limit", "fifty")
	_ = store.Set("backend.url", 8080)
	_ = store.Set("editor.watch", "yes")

	assert.Equal(t, 0, store.GetInt("chat.history_limit"))
	assert.Equal(t, "", store.GetString("backend.url"))
	assert.False(t, store.GetBool("editor.watch"))

	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("missing"))
	assert.False(t, store.GetBool("missing"))
}

func TestConfigStore_GetInt_Int64(t *testing.T) {
	store, _ := newTestStore(t)

	// TOML decodes integers as int64.
	store.mu.Lock()
	store.data["chat.history_limit"] = int64(25)
	store.mu.Unlock()

	assert.Equal(t, 25, store.GetInt("chat.history_limit"))
}

// --- Persistence ---

func TestConfigStore_PersistsAcrossInstances(t *testing.T) {
	first, dir := newTestStore(t)

	require.NoError(t, first.Set("backend.url", "http://localhost:8080"))
	require.NoError(t, first.Set("chat.history_limit", 25))
	require.NoError(t, first.Set("editor.watch", true))
	require.NoError(t, first.Set("chat.temperature", 0.7))

	second, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:8080", second.GetString("backend.url"))
	assert.Equal(t, 25, second.GetInt("chat.history_limit"))
	assert.True(t, second.GetBool("editor.watch"))

	temp, ok := second.Get("chat.temperature")
	assert.True(t, ok)
	assert.InDelta(t, 0.7, temp, 0.0001)
}

func TestConfigStore_SetWritesFile(t *testing.T) {
	store, dir := newTestStore(t)

	require.NoError(t, store.Set("backend.url", "http://localhost:8080"))

	_, err := os.Stat(filepath.Join(dir, "config.toml"))
	assert.NoError(t, err)
}

func TestConfigStore_FilePermissions(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set("backend.url", "http://localhost:8080"))

	info, err := os.Stat(store.Path())
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())
}

func TestConfigStore_Save_Explicit(t *testing.T) {
	store, dir := newTestStore(t)

	store.mu.Lock()
	store.data["chat.model"] = "sonnet"
	store.mu.Unlock()

	require.NoError(t, store.Save())

	reloaded, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, "sonnet", reloaded.GetString("chat.model"))
}

func TestConfigStore_Save_WriteFails(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set("backend.url", "http://a"))

	// Replace the file with a directory so the next write fails.
	require.NoError(t, os.Remove(store.Path()))
	require.NoError(t, os.Mkdir(store.Path(), 0700))

	err := store.Set("backend.url", "http://b")
	assert.Error(t, err)
}

func TestConfigStore_Load_CorruptedAfterCreate(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set("backend.url", "http://a"))
	require.NoError(t, os.WriteFile(store.Path(), []byte("bad toml ]["), 0600))

	assert.Error(t, store.Load())
}

func TestConfigStore_Load_Unreadable(t *testing.T) {
	store, _ := newTestStore(t)

	require.NoError(t, store.Set("backend.url", "http://a"))
	require.NoError(t, os.Chmod(store.Path(), 0000))
	t.Cleanup(func() { _ = os.Chmod(store.Path(), 0600) })

	err := store.Load()
	assert.Error(t, err)
	assert.False(t, os.IsNotExist(err))
}

// --- Concurrency ---

func TestConfigStore_ConcurrentAccess(t *testing.T) {
	store, _ := newTestStore(t)

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			key := "key" + string(rune('0'+n))
			_ = store.Set(key, n)
			_ = store.GetInt(key)
			_, _ = store.Get(key)
		}(i)
	}
	wg.Wait()
}
