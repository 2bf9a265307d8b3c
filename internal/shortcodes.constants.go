package internal

// Default delimiter strings
const (
	DefaultStart = "{%"
	DefaultEnd   = "%}"
	DefaultEsc   = "\\"
)

// Character constants
const (
	CharEquals      = '='
	CharDoubleQuote = '"'
	CharSingleQuote = '\''
	CharNewline     = '\n'
	CharSpace       = ' '
	CharTab         = '\t'
	CharCarriageRet = '\r'
	CharFormFeed    = '\f'
	CharVerticalTab = '\v'
)

// StringValueEmpty is the empty string, used where an absent value is meaningful.
const StringValueEmpty = ""

// Log message constants
const (
	LogMsgScannerCreated    = "scanner created"
	LogMsgScanStart         = "starting scan"
	LogMsgScanEnd           = "scan complete"
	LogMsgMatcherCreated    = "matcher created"
	LogMsgMatchStart        = "starting match"
	LogMsgMatchEnd          = "match complete"
	LogMsgFramePushed       = "block frame pushed"
	LogMsgFramePopped       = "block frame popped"
	LogMsgRegistryCreated   = "registry created"
	LogMsgHandlerRegistered = "handler registered"
	LogMsgHandlerRemoved    = "handler removed"
	LogMsgHandlerCollision  = "handler registration collision - first-come-wins"
	LogMsgRegistryCleared   = "registry cleared"
)

// Log field names
const (
	LogFieldSource   = "source_length"
	LogFieldTokens   = "token_count"
	LogFieldTag      = "tag"
	LogFieldEndTag   = "end_tag"
	LogFieldDepth    = "depth"
	LogFieldLine     = "line"
	LogFieldColumn   = "column"
	LogFieldExisting = "existing"
	LogFieldOutput   = "output_length"
)

// Error message constants for the scanner
const (
	ErrMsgUnterminatedTag = "unterminated tag"
	ErrMsgEmptyTagName    = "tag name cannot be empty"
	ErrMsgInvalidTagName  = "invalid tag name"
)

// Error message constants for the argument lexer
const (
	ErrMsgUnterminatedQuote = "unterminated quoted argument"
)

// Error message constants for the matcher
const (
	ErrMsgUnexpectedEndTag = "unexpected closing tag"
	ErrMsgMismatchedEndTag = "mismatched closing tag"
	ErrMsgUnclosedTag      = "opening tag was never closed"
	ErrMsgUnknownTag       = "not a recognised shortcode tag"
	ErrMsgMalformedArgs    = "malformed tag arguments"
	ErrMsgHandlerFailed    = "error rendering shortcode"
)

// Error message constants for delimiter configuration
const (
	ErrMsgEmptyDelimiter     = "delimiter cannot be empty"
	ErrMsgDuplicateDelimiter = "delimiters must be pairwise distinct"
	ErrMsgOverlapDelimiter   = "start and end delimiters must not contain each other"
	ErrMsgWhitespaceDelim    = "delimiter cannot contain whitespace"
)

// Error message constants for the registry
const (
	ErrMsgNilHandler      = "handler cannot be nil"
	ErrMsgHandlerExists   = "handler already registered for tag"
	ErrMsgEndTagSameAsTag = "closing tag must differ from opening tag"
	ErrMsgEndTagIsHandler = "closing tag collides with a registered tag"
	ErrMsgTagIsEndTag     = "tag collides with a registered closing tag"
)

// Error format string constants
const (
	ErrFmtWithPosition = "%s at %s"
	ErrFmtTagMessage   = "%s: %s"
)
