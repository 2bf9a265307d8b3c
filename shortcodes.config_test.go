package shortcodes

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestDefaultConfig(t *testing.T) {
	config := DefaultConfig()

	assert.Equal(t, DelimitersConfig{Start: DefaultStart, End: DefaultEnd, Esc: DefaultEsc}, config.Delimiters)
	assert.Equal(t, SnippetDriverMemory, config.Snippets.Driver)
	assert.True(t, config.Builtins.Snippet)
	assert.True(t, config.Builtins.Unaccent)
	assert.NoError(t, config.Validate())
}

func TestParseConfig(t *testing.T) {
	data := []byte(`
delimiters:
  start: "[%"
  end: "%]"
builtins:
  env: false
  html2md: false
snippets:
  driver: memory
  cache_ttl: 30s
  entries:
    footer: "(c) ACME"
`)

	config, err := ParseConfig(data)
	require.NoError(t, err)

	assert.Equal(t, DelimitersConfig{Start: "[%", End: "%]", Esc: DefaultEsc}, config.Delimiters)
	assert.False(t, config.Builtins.Env)
	assert.False(t, config.Builtins.HTML2MD)
	assert.True(t, config.Builtins.Markdown, "unset keys keep their defaults")
	assert.Equal(t, "30s", config.Snippets.CacheTTL)
	assert.Equal(t, map[string]string{"footer": "(c) ACME"}, config.Snippets.Entries)
}

func TestParseConfig_EmptyValuesRestoreDefaults(t *testing.T) {
	config, err := ParseConfig([]byte("delimiters:\n  start: \"\"\nsnippets:\n  driver: \"\"\n"))
	require.NoError(t, err)
	assert.Equal(t, DefaultStart, config.Delimiters.Start)
	assert.Equal(t, SnippetDriverMemory, config.Snippets.Driver)

	config, err = ParseConfig(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
}

func TestParseConfig_Errors(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr string
	}{
		{name: "malformed yaml", data: "delimiters: [", wantErr: ErrMsgConfigParseFailed},
		{name: "unknown driver", data: "snippets:\n  driver: redis\n", wantErr: ErrMsgUnknownDriver},
		{name: "filesystem without dir", data: "snippets:\n  driver: filesystem\n", wantErr: ErrMsgMissingDir},
		{name: "postgres without dsn", data: "snippets:\n  driver: postgres\n", wantErr: ErrMsgMissingDSN},
		{name: "bad ttl", data: "snippets:\n  cache_ttl: soon\n", wantErr: ErrMsgInvalidCacheTTL},
		{name: "negative ttl", data: "snippets:\n  cache_ttl: -1s\n", wantErr: ErrMsgInvalidCacheTTL},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig([]byte(tt.data))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestConfig_InvalidTTLMetadata(t *testing.T) {
	_, err := ParseConfig([]byte("snippets:\n  cache_ttl: soon\n"))

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	field, ok := customErr.GetMetadata(MetaKeyField)
	assert.True(t, ok)
	assert.Equal(t, ConfigFieldCacheTTL, field)
	value, ok := customErr.GetMetadata(MetaKeyValue)
	assert.True(t, ok)
	assert.Equal(t, "soon", value)
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "shortcodes.yaml")
	require.NoError(t, os.WriteFile(path, []byte("snippets:\n  driver: filesystem\n  dir: "+filepath.Join(dir, "snippets")+"\n"), 0o644))

	config, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, SnippetDriverFilesystem, config.Snippets.Driver)

	_, err = LoadConfig(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), ErrMsgConfigReadFailed)
	assert.True(t, errors.Is(err, os.ErrNotExist))

	var customErr *cuserr.CustomError
	require.True(t, errors.As(err, &customErr))
	p, ok := customErr.GetMetadata(MetaKeyPath)
	assert.True(t, ok)
	assert.Equal(t, filepath.Join(dir, "missing.yaml"), p)
}

func TestConfig_OpenSnippetStore(t *testing.T) {
	t.Run("memory seeded", func(t *testing.T) {
		config := DefaultConfig()
		config.Snippets.Entries = map[string]string{"a": "1"}

		store, err := config.OpenSnippetStore(nil)
		require.NoError(t, err)
		defer store.Close()

		assert.IsType(t, &MemorySnippetStore{}, store)
		text, err := store.Get(context.Background(), "a")
		require.NoError(t, err)
		assert.Equal(t, "1", text)
	})

	t.Run("filesystem cached", func(t *testing.T) {
		core, logs := observer.New(zapcore.DebugLevel)
		config := DefaultConfig()
		config.Snippets.Driver = SnippetDriverFilesystem
		config.Snippets.Dir = t.TempDir()
		config.Snippets.CacheTTL = "1m"

		store, err := config.OpenSnippetStore(zap.New(core))
		require.NoError(t, err)
		defer store.Close()

		cached, ok := store.(*CachedSnippetStore)
		require.True(t, ok)
		assert.Equal(t, time.Minute, cached.config.TTL)
		assert.IsType(t, &FilesystemSnippetStore{}, cached.store)

		loaded := logs.FilterMessage(LogMsgConfigLoaded).All()
		require.Len(t, loaded, 1)
		assert.Equal(t, SnippetDriverFilesystem, loaded[0].ContextMap()[LogFieldDriver])
	})

	t.Run("postgres without server", func(t *testing.T) {
		config := DefaultConfig()
		config.Snippets.Driver = SnippetDriverPostgres
		config.Snippets.DSN = "invalid://nowhere"

		_, err := config.OpenSnippetStore(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgStorageConnectFailed)
	})

	t.Run("unknown driver", func(t *testing.T) {
		config := DefaultConfig()
		config.Snippets.Driver = "redis"

		_, err := config.OpenSnippetStore(nil)
		require.Error(t, err)
		assert.Contains(t, err.Error(), ErrMsgUnknownDriver)
	})
}

func TestNewFromConfig(t *testing.T) {
	config := DefaultConfig()
	config.Delimiters = DelimitersConfig{Start: "[%", End: "%]", Esc: "!"}
	config.Snippets.Entries = map[string]string{"sig": "-- bot"}

	p, store, err := NewFromConfig(config, WithoutGlobal())
	require.NoError(t, err)
	require.NotNil(t, store)
	defer store.Close()

	assert.Equal(t, Delimiters{Start: "[%", End: "%]", Esc: "!"}, p.Delimiters())
	assert.ElementsMatch(t, []string{
		TagNameSnippet, TagNameEnv, TagNameMarkdown, TagNameHTML2MD,
		TagNameUpper, TagNameLower, TagNameTitle, TagNameUnaccent,
	}, p.Registry().List())

	out, err := p.Parse("[% upper %][% snippet sig %][% endupper %] ![% x %]", nil)
	require.NoError(t, err)
	assert.Equal(t, "-- BOT [% x %]", out)
}

func TestNewFromConfig_SnippetDisabled(t *testing.T) {
	config := DefaultConfig()
	config.Builtins = BuiltinsToggle{Case: true}

	p, store, err := NewFromConfig(config, WithoutGlobal())
	require.NoError(t, err)
	assert.Nil(t, store)
	assert.ElementsMatch(t, []string{TagNameUpper, TagNameLower, TagNameTitle}, p.Registry().List())
}

func TestNewFromConfig_Errors(t *testing.T) {
	config := DefaultConfig()
	config.Delimiters = DelimitersConfig{Start: "%%", End: "%%", Esc: DefaultEsc}
	_, _, err := NewFromConfig(config)
	require.Error(t, err)

	config = DefaultConfig()
	config.Snippets.Driver = "redis"
	_, _, err = NewFromConfig(config, WithoutGlobal())
	require.Error(t, err)
}

func TestNewFromConfig_NilUsesDefaults(t *testing.T) {
	p, store, err := NewFromConfig(nil, WithoutGlobal())
	require.NoError(t, err)
	defer store.Close()
	assert.Equal(t, Delimiters{Start: DefaultStart, End: DefaultEnd, Esc: DefaultEsc}, p.Delimiters())
}
