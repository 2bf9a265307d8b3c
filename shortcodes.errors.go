package shortcodes

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/itsatony/go-cuserr"

	"github.com/itsatony/go-shortcodes/internal"
)

// Error message constants - ALL error messages must be constants (NO MAGIC STRINGS)
const (
	// Structural errors
	ErrMsgUnterminatedTag  = internal.ErrMsgUnterminatedTag
	ErrMsgUnexpectedEndTag = internal.ErrMsgUnexpectedEndTag
	ErrMsgMismatchedEndTag = internal.ErrMsgMismatchedEndTag
	ErrMsgUnclosedTag      = internal.ErrMsgUnclosedTag

	// Tag errors
	ErrMsgUnknownTag     = internal.ErrMsgUnknownTag
	ErrMsgEmptyTagName   = internal.ErrMsgEmptyTagName
	ErrMsgInvalidTagName = internal.ErrMsgInvalidTagName
	ErrMsgMalformedArgs  = internal.ErrMsgMalformedArgs

	// Rendering errors
	ErrMsgHandlerFailed = internal.ErrMsgHandlerFailed

	// Configuration errors
	ErrMsgInvalidDelimiters = "invalid delimiter configuration"
	ErrMsgConfigReadFailed  = "failed to read config file"
	ErrMsgConfigParseFailed = "failed to parse config file"
	ErrMsgUnknownDriver     = "unknown snippet storage driver"
	ErrMsgMissingDir        = "snippet directory is required for the filesystem driver"
	ErrMsgMissingDSN        = "connection string is required for the postgres driver"
	ErrMsgInvalidCacheTTL   = "invalid snippet cache ttl"

	// Registry errors
	ErrMsgRegistrationFailed = "handler registration failed"

	// Storage errors
	ErrMsgSnippetNotFound      = "snippet not found"
	ErrMsgEmptySnippetName     = "snippet name cannot be empty"
	ErrMsgInvalidSnippetName   = "invalid snippet name"
	ErrMsgStorageClosed        = "snippet storage is closed"
	ErrMsgStorageQueryFailed   = "snippet storage query failed"
	ErrMsgStorageWriteFailed   = "snippet storage write failed"
	ErrMsgStorageConnectFailed = "snippet storage connection failed"
	ErrMsgMigrationFailed      = "snippet storage migration failed"

	// Built-in handler errors
	ErrMsgMissingArgument   = "required argument missing"
	ErrMsgEnvNotSet         = "environment variable not set"
	ErrMsgMarkdownFailed    = "markdown rendering failed"
	ErrMsgHTMLConvertFailed = "html conversion failed"
	ErrMsgInvalidLanguage   = "invalid language tag"
	ErrMsgNormalizeFailed   = "unicode normalization failed"
)

// Error format string constants (for Error() methods)
const (
	ErrFmtTagAtPosition = "%s: tag '%s' at %s"
	ErrFmtAtPosition    = "%s at %s"
	ErrFmtExpected      = "%s (expecting '%s')"
	ErrFmtWithCause     = "%s: %v"
)

// Kind distinguishes the three shortcode failure categories.
type Kind int

// Kind constants
const (
	KindNesting Kind = iota + 1
	KindInvalidTag
	KindRendering
)

// String returns the string representation of the kind
func (k Kind) String() string {
	switch k {
	case KindNesting:
		return internal.KindNameNesting
	case KindInvalidTag:
		return internal.KindNameInvalidTag
	case KindRendering:
		return internal.KindNameRendering
	default:
		return "unknown"
	}
}

// Sentinel errors for errors.Is matching. Every *Error matches ErrShortcode
// and exactly one of the kind sentinels.
var (
	ErrShortcode  = errors.New("shortcode error")
	ErrNesting    = errors.New("shortcode nesting error")
	ErrInvalidTag = errors.New("invalid shortcode tag")
	ErrRendering  = errors.New("shortcode rendering error")
)

// ErrSnippetNotFound is wrapped by every snippet lookup miss.
var ErrSnippetNotFound = errors.New(ErrMsgSnippetNotFound)

// Position represents a location in the source text
type Position struct {
	Offset int // Byte offset from start
	Line   int // 1-indexed line number
	Column int // 1-indexed column number, counted in runes
}

// String returns a human-readable position string
func (p Position) String() string {
	return fmt.Sprintf("line %d, column %d", p.Line, p.Column)
}

func positionFromInternal(p internal.Position) Position {
	return Position{Offset: p.Offset, Line: p.Line, Column: p.Column}
}

// Error is returned by Parse for every failure tied to the input text.
// It wraps a *cuserr.CustomError carrying code and position metadata, and
// for rendering failures the handler's original error below that.
type Error struct {
	Kind     Kind
	Message  string
	Tag      string
	Expected string // Expected closing tag for nesting errors
	Position Position

	detail *cuserr.CustomError
	cause  error
}

// Error implements the error interface
func (e *Error) Error() string {
	var msg string
	if e.Tag != "" {
		msg = fmt.Sprintf(ErrFmtTagAtPosition, e.Message, e.Tag, e.Position)
	} else {
		msg = fmt.Sprintf(ErrFmtAtPosition, e.Message, e.Position)
	}
	if e.Expected != "" {
		msg = fmt.Sprintf(ErrFmtExpected, msg, e.Expected)
	}
	if e.cause != nil {
		msg = fmt.Sprintf(ErrFmtWithCause, msg, e.cause)
	}
	return msg
}

// Unwrap returns the structured error detail, which in turn wraps the cause.
func (e *Error) Unwrap() error {
	return e.detail
}

// Is matches ErrShortcode and the sentinel for this error's kind.
func (e *Error) Is(target error) bool {
	switch target {
	case ErrShortcode:
		return true
	case ErrNesting:
		return e.Kind == KindNesting
	case ErrInvalidTag:
		return e.Kind == KindInvalidTag
	case ErrRendering:
		return e.Kind == KindRendering
	}
	return false
}

// Cause returns the underlying failure: the handler error for rendering
// errors, the argument lexer error for malformed arguments, otherwise nil.
func (e *Error) Cause() error {
	return e.cause
}

// Detail returns the structured error with code and position metadata.
func (e *Error) Detail() *cuserr.CustomError {
	return e.detail
}

// withPosition attaches position metadata to a custom error
func withPosition(err *cuserr.CustomError, pos Position) *cuserr.CustomError {
	return err.
		WithMetadata(MetaKeyLine, strconv.Itoa(pos.Line)).
		WithMetadata(MetaKeyColumn, strconv.Itoa(pos.Column)).
		WithMetadata(MetaKeyOffset, strconv.Itoa(pos.Offset))
}

// NewNestingError creates an error for unbalanced, interleaved or unterminated tags
func NewNestingError(msg, tag, expected string, pos Position) *Error {
	detail := withPosition(cuserr.NewValidationError(ErrCodeNesting, msg), pos).
		WithMetadata(MetaKeyKind, KindNesting.String()).
		WithMetadata(MetaKeyTag, tag).
		WithMetadata(MetaKeyExpected, expected)
	return &Error{
		Kind:     KindNesting,
		Message:  msg,
		Tag:      tag,
		Expected: expected,
		Position: pos,
		detail:   detail,
	}
}

// NewInvalidTagError creates an error for unknown, empty or malformed tags.
// cause is set when the tag's arguments could not be lexed.
func NewInvalidTagError(msg, tag string, pos Position, cause error) *Error {
	var base *cuserr.CustomError
	if cause != nil {
		base = cuserr.WrapStdError(cause, ErrCodeInvalidTag, msg)
	} else {
		base = cuserr.NewNotFoundError(MetaKeyTag, msg)
	}
	detail := withPosition(base, pos).
		WithMetadata(MetaKeyKind, KindInvalidTag.String()).
		WithMetadata(MetaKeyTag, tag)
	return &Error{
		Kind:     KindInvalidTag,
		Message:  msg,
		Tag:      tag,
		Position: pos,
		detail:   detail,
		cause:    cause,
	}
}

// NewRenderingError wraps a handler failure with the failing tag and position
func NewRenderingError(tag string, pos Position, cause error) *Error {
	detail := withPosition(cuserr.WrapStdError(cause, ErrCodeRendering, ErrMsgHandlerFailed), pos).
		WithMetadata(MetaKeyKind, KindRendering.String()).
		WithMetadata(MetaKeyTag, tag)
	return &Error{
		Kind:     KindRendering,
		Message:  ErrMsgHandlerFailed,
		Tag:      tag,
		Position: pos,
		detail:   detail,
		cause:    cause,
	}
}

// fromSyntaxError converts an internal scan/match failure into an *Error
func fromSyntaxError(err error) error {
	var synErr *internal.SyntaxError
	if !errors.As(err, &synErr) {
		return err
	}
	pos := positionFromInternal(synErr.Position)
	switch synErr.Kind {
	case internal.KindInvalidTag:
		return NewInvalidTagError(synErr.Message, synErr.Tag, pos, synErr.Cause)
	case internal.KindRendering:
		return NewRenderingError(synErr.Tag, pos, synErr.Cause)
	default:
		return NewNestingError(synErr.Message, synErr.Tag, synErr.Expected, pos)
	}
}

// NewConfigError creates a configuration validation error
func NewConfigError(msg, field, value string) error {
	return cuserr.NewValidationError(ErrCodeConfig, msg).
		WithMetadata(MetaKeyField, field).
		WithMetadata(MetaKeyValue, value)
}

// NewConfigReadError wraps a failure to read or decode a config file
func NewConfigReadError(msg, path string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeConfig, msg).
		WithMetadata(MetaKeyPath, path)
}

// NewRegistryError wraps a registry failure with the tag involved
func NewRegistryError(tag string, cause error) error {
	return cuserr.WrapStdError(cause, ErrCodeRegistry, ErrMsgRegistrationFailed).
		WithMetadata(MetaKeyTag, tag)
}

// NewSnippetNotFoundError creates a snippet not found error
func NewSnippetNotFoundError(name string) error {
	return cuserr.WrapStdError(ErrSnippetNotFound, ErrCodeStorage, ErrMsgSnippetNotFound).
		WithMetadata(MetaKeyName, name)
}

// NewStorageError creates a snippet storage error, optionally wrapping a cause
func NewStorageError(msg, name string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeStorage, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeStorage, msg)
	}
	return err.WithMetadata(MetaKeyName, name)
}

// NewMissingArgumentError creates an error for a built-in handler called without a required argument
func NewMissingArgumentError(tag string) error {
	return cuserr.NewValidationError(ErrCodeRendering, ErrMsgMissingArgument).
		WithMetadata(MetaKeyTag, tag)
}

// NewBuiltinError creates an error for a failing built-in handler,
// optionally wrapping a cause
func NewBuiltinError(msg, tag string, cause error) error {
	var err *cuserr.CustomError
	if cause != nil {
		err = cuserr.WrapStdError(cause, ErrCodeRendering, msg)
	} else {
		err = cuserr.NewValidationError(ErrCodeRendering, msg)
	}
	return err.WithMetadata(MetaKeyTag, tag)
}

// IsSnippetNotFound reports whether err is a snippet not found error
func IsSnippetNotFound(err error) bool {
	return errors.Is(err, ErrSnippetNotFound)
}
