package shortcodes

import (
	"os"
	"time"

	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
)

// Config is the file-based configuration used by the CLI and by
// NewFromConfig. All sections are optional.
//
// Example:
//
//	delimiters:
//	  start: "[%"
//	  end: "%]"
//	  esc: "\\"
//	builtins:
//	  markdown: true
//	  env: false
//	snippets:
//	  driver: filesystem
//	  dir: ./snippets
//	  cache_ttl: 1m
type Config struct {
	Delimiters DelimitersConfig `yaml:"delimiters"`
	Builtins   BuiltinsToggle   `yaml:"builtins"`
	Snippets   SnippetsConfig   `yaml:"snippets"`
}

// DelimitersConfig is the delimiters section. Empty values keep the defaults.
type DelimitersConfig struct {
	Start string `yaml:"start"`
	End   string `yaml:"end"`
	Esc   string `yaml:"esc"`
}

// BuiltinsToggle enables built-in shortcodes by group.
type BuiltinsToggle struct {
	Snippet  bool `yaml:"snippet"`
	Env      bool `yaml:"env"`
	Markdown bool `yaml:"markdown"`
	HTML2MD  bool `yaml:"html2md"`
	Case     bool `yaml:"case"`
	Unaccent bool `yaml:"unaccent"`
}

// SnippetsConfig selects and configures the snippet store.
type SnippetsConfig struct {
	// Driver is memory, filesystem or postgres.
	// Default: memory
	Driver string `yaml:"driver"`

	// Dir is the snippet directory for the filesystem driver.
	Dir string `yaml:"dir"`

	// DSN is the connection string for the postgres driver.
	DSN string `yaml:"dsn"`

	// AutoMigrate creates the snippets table on open (postgres only).
	AutoMigrate bool `yaml:"auto_migrate"`

	// CacheTTL enables a read cache when set, e.g. "30s".
	CacheTTL string `yaml:"cache_ttl"`

	// Entries seeds the memory driver.
	Entries map[string]string `yaml:"entries"`
}

// DefaultConfig returns a configuration with the default delimiters,
// every built-in enabled and an empty memory snippet store.
func DefaultConfig() *Config {
	return &Config{
		Delimiters: DelimitersConfig{
			Start: DefaultStart,
			End:   DefaultEnd,
			Esc:   DefaultEsc,
		},
		Builtins: BuiltinsToggle{
			Snippet:  true,
			Env:      true,
			Markdown: true,
			HTML2MD:  true,
			Case:     true,
			Unaccent: true,
		},
		Snippets: SnippetsConfig{
			Driver: SnippetDriverMemory,
		},
	}
}

// ParseConfig decodes YAML on top of DefaultConfig and validates the result.
func ParseConfig(data []byte) (*Config, error) {
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, NewConfigReadError(ErrMsgConfigParseFailed, "", err)
	}
	config.applyDefaults()

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// LoadConfig reads and parses a YAML config file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewConfigReadError(ErrMsgConfigReadFailed, path, err)
	}
	config, err := ParseConfig(data)
	if err != nil {
		return nil, err
	}
	return config, nil
}

// applyDefaults restores defaults for values explicitly set empty
func (c *Config) applyDefaults() {
	if c.Delimiters.Start == "" {
		c.Delimiters.Start = DefaultStart
	}
	if c.Delimiters.End == "" {
		c.Delimiters.End = DefaultEnd
	}
	if c.Delimiters.Esc == "" {
		c.Delimiters.Esc = DefaultEsc
	}
	if c.Snippets.Driver == "" {
		c.Snippets.Driver = SnippetDriverMemory
	}
}

// Validate checks driver settings and the cache TTL. Delimiters are
// validated by New.
func (c *Config) Validate() error {
	switch c.Snippets.Driver {
	case SnippetDriverMemory:
	case SnippetDriverFilesystem:
		if c.Snippets.Dir == "" {
			return NewConfigError(ErrMsgMissingDir, MetaKeyDriver, c.Snippets.Driver)
		}
	case SnippetDriverPostgres:
		if c.Snippets.DSN == "" {
			return NewConfigError(ErrMsgMissingDSN, MetaKeyDriver, c.Snippets.Driver)
		}
	default:
		return NewConfigError(ErrMsgUnknownDriver, MetaKeyDriver, c.Snippets.Driver)
	}

	if _, err := c.cacheTTL(); err != nil {
		return err
	}
	return nil
}

// cacheTTL returns the parsed cache TTL; zero disables caching
func (c *Config) cacheTTL() (time.Duration, error) {
	if c.Snippets.CacheTTL == "" {
		return 0, nil
	}
	ttl, err := time.ParseDuration(c.Snippets.CacheTTL)
	if err != nil || ttl < 0 {
		return 0, NewConfigError(ErrMsgInvalidCacheTTL, ConfigFieldCacheTTL, c.Snippets.CacheTTL)
	}
	return ttl, nil
}

// ParserOptions returns the options that apply the delimiters section.
func (c *Config) ParserOptions() []Option {
	return []Option{
		WithDelimiters(c.Delimiters.Start, c.Delimiters.End, c.Delimiters.Esc),
	}
}

// OpenSnippetStore opens the configured snippet store, wrapped in a read
// cache when cache_ttl is set.
func (c *Config) OpenSnippetStore(logger *zap.Logger) (SnippetStore, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	var (
		store SnippetStore
		err   error
	)
	switch c.Snippets.Driver {
	case SnippetDriverFilesystem:
		store, err = NewFilesystemSnippetStore(c.Snippets.Dir)
	case SnippetDriverPostgres:
		pgConfig := DefaultPostgresSnippetConfig()
		pgConfig.ConnectionString = c.Snippets.DSN
		pgConfig.AutoMigrate = c.Snippets.AutoMigrate
		store, err = NewPostgresSnippetStore(pgConfig)
	case SnippetDriverMemory, "":
		store = NewMemorySnippetStoreFrom(c.Snippets.Entries)
	default:
		return nil, NewConfigError(ErrMsgUnknownDriver, MetaKeyDriver, c.Snippets.Driver)
	}
	if err != nil {
		return nil, err
	}

	ttl, err := c.cacheTTL()
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	if ttl > 0 {
		cacheConfig := DefaultSnippetCacheConfig()
		cacheConfig.TTL = ttl
		store = NewCachedSnippetStore(store, cacheConfig, logger)
	}

	logger.Debug(LogMsgConfigLoaded,
		zap.String(LogFieldDriver, c.Snippets.Driver),
		zap.Duration(LogFieldCacheTTL, ttl),
	)
	return store, nil
}

// NewFromConfig builds a Parser from config with the enabled built-ins
// registered on its local registry. The returned store is nil when the
// snippet built-in is disabled; otherwise the caller must Close it.
func NewFromConfig(config *Config, opts ...Option) (*Parser, SnippetStore, error) {
	if config == nil {
		config = DefaultConfig()
	}

	settings := defaultParserConfig()
	for _, opt := range opts {
		opt(settings)
	}

	p, err := New(append(config.ParserOptions(), opts...)...)
	if err != nil {
		return nil, nil, err
	}

	builtins := BuiltinsConfig{
		Env:      config.Builtins.Env,
		Markdown: config.Builtins.Markdown,
		HTML2MD:  config.Builtins.HTML2MD,
		Case:     config.Builtins.Case,
		Unaccent: config.Builtins.Unaccent,
		Logger:   settings.logger,
	}

	var store SnippetStore
	if config.Builtins.Snippet {
		store, err = config.OpenSnippetStore(settings.logger)
		if err != nil {
			return nil, nil, err
		}
		builtins.Snippets = store
	}

	if err := RegisterBuiltins(p.Registry(), builtins); err != nil {
		if store != nil {
			_ = store.Close()
		}
		return nil, nil, err
	}
	return p, store, nil
}
