package internal

import "fmt"

// ErrorKind classifies structural failures found while scanning and matching.
type ErrorKind int

// Error kind constants
const (
	KindNesting ErrorKind = iota
	KindInvalidTag
	KindRendering
)

// Error kind names
const (
	KindNameNesting    = "nesting"
	KindNameInvalidTag = "invalid_tag"
	KindNameRendering  = "rendering"
)

// String returns the string representation of the error kind
func (k ErrorKind) String() string {
	switch k {
	case KindInvalidTag:
		return KindNameInvalidTag
	case KindRendering:
		return KindNameRendering
	default:
		return KindNameNesting
	}
}

// SyntaxError reports a scan, argument or nesting failure at a tag position.
type SyntaxError struct {
	Kind     ErrorKind
	Message  string
	Tag      string
	Expected string // Closing tag that was expected, if any
	Position Position
	Cause    error
}

// NewSyntaxError creates a syntax error for the given tag and position
func NewSyntaxError(kind ErrorKind, message, tag string, pos Position) *SyntaxError {
	return &SyntaxError{
		Kind:     kind,
		Message:  message,
		Tag:      tag,
		Position: pos,
	}
}

// Error implements the error interface
func (e *SyntaxError) Error() string {
	msg := e.Message
	if e.Tag != StringValueEmpty {
		msg = fmt.Sprintf(ErrFmtTagMessage, e.Message, e.Tag)
	}
	msg = fmt.Sprintf(ErrFmtWithPosition, msg, e.Position)
	if e.Cause != nil {
		msg = fmt.Sprintf(ErrFmtTagMessage, msg, e.Cause.Error())
	}
	return msg
}

// Unwrap returns the underlying cause
func (e *SyntaxError) Unwrap() error {
	return e.Cause
}
