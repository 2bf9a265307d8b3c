package shortcodes

import "time"

// Delimiter constants - "{%" and "%}" with a backslash escape
const (
	DefaultStart = "{%"
	DefaultEnd   = "%}"
	DefaultEsc   = "\\"
)

// Built-in tag names, registered only through RegisterBuiltins
const (
	TagNameSnippet     = "snippet"
	TagNameEnv         = "env"
	TagNameMarkdown    = "markdown"
	TagNameEndMarkdown = "endmarkdown"
	TagNameHTML2MD     = "html2md"
	TagNameEndHTML2MD  = "endhtml2md"
	TagNameUpper       = "upper"
	TagNameEndUpper    = "endupper"
	TagNameLower       = "lower"
	TagNameEndLower    = "endlower"
	TagNameTitle       = "title"
	TagNameEndTitle    = "endtitle"
	TagNameUnaccent    = "unaccent"
	TagNameEndUnaccent = "endunaccent"
)

// Built-in handler keyword argument names
const (
	KwargDefault = "default"
	KwargLang    = "lang"
	KwargName    = "name"
)

// Error code constants for categorization
const (
	ErrCodeNesting    = "SHORTCODE_NESTING"
	ErrCodeInvalidTag = "SHORTCODE_INVALID_TAG"
	ErrCodeRendering  = "SHORTCODE_RENDERING"
	ErrCodeConfig     = "SHORTCODE_CONFIG"
	ErrCodeRegistry   = "SHORTCODE_REGISTRY"
	ErrCodeStorage    = "SHORTCODE_STORAGE"
)

// Metadata keys attached to errors
const (
	MetaKeyLine       = "line"
	MetaKeyColumn     = "column"
	MetaKeyOffset     = "offset"
	MetaKeyTag        = "tag"
	MetaKeyExpected   = "expected"
	MetaKeyKind       = "kind"
	MetaKeyField      = "field"
	MetaKeyValue      = "value"
	MetaKeyName       = "name"
	MetaKeyDriver     = "driver"
	MetaKeyDelimiters = "delimiters"
	MetaKeyStart      = "start"
	MetaKeyEnd        = "end"
	MetaKeyPath       = "path"
)

// DefaultLanguage is the case-mapping language used when no lang kwarg is given
const DefaultLanguage = "und"

// Log message constants
const (
	LogMsgParserCreated     = "parser created"
	LogMsgParseStart        = "starting parse"
	LogMsgParseEnd          = "parse complete"
	LogMsgParseFailed       = "parse failed"
	LogMsgHandlerInvoked    = "handler invoked"
	LogMsgHandlerComplete   = "handler complete"
	LogMsgSnippetLoaded     = "snippet loaded"
	LogMsgSnippetCacheHit   = "snippet cache hit"
	LogMsgSnippetCacheEvict = "snippet cache eviction"
	LogMsgConfigLoaded      = "config loaded"
)

// Log field names
const (
	LogFieldSource   = "source_length"
	LogFieldOutput   = "output_length"
	LogFieldTag      = "tag"
	LogFieldDepth    = "depth"
	LogFieldLine     = "line"
	LogFieldColumn   = "column"
	LogFieldBlock    = "block"
	LogFieldDuration = "duration"
	LogFieldName     = "name"
	LogFieldDriver   = "driver"
	LogFieldCacheTTL = "cache_ttl"
)

// Config field names reported in configuration errors
const (
	ConfigFieldCacheTTL = "cache_ttl"
)

// Snippet storage defaults
const (
	SnippetDriverMemory     = "memory"
	SnippetDriverFilesystem = "filesystem"
	SnippetDriverPostgres   = "postgres"

	SnippetFileExtension = ".txt"
	SnippetDirPerms      = 0o755
	SnippetFilePerms     = 0o644

	DefaultSnippetCacheTTL     = 5 * time.Minute
	DefaultSnippetCacheMaxSize = 1000
)

// PostgreSQL snippet store defaults
const (
	PostgresTablePrefix            = "shortcodes_"
	PostgresDefaultMaxOpenConns    = 25
	PostgresDefaultMaxIdleConns    = 5
	PostgresDefaultConnMaxLifetime = 5 * time.Minute
	PostgresDefaultConnMaxIdleTime = 5 * time.Minute
	PostgresDefaultQueryTimeout    = 30 * time.Second
)

// Trace placeholder format, used instead of handler output during Trace
const (
	TracePlaceholderAtomic = "[%s]"
	TracePlaceholderBlock  = "[%s:%s]"
)

// Version is the library version
const Version = "1.0.0"
