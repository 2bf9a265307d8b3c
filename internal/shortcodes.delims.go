package internal

import (
	"strings"
)

// DelimiterConfig holds the syntax tokens used to recognise tags.
type DelimiterConfig struct {
	Start string // Tag start marker (default: "{%")
	End   string // Tag end marker (default: "%}")
	Esc   string // Escape marker placed before Start (default: "\")
}

// DefaultDelimiterConfig returns the default delimiter configuration
func DefaultDelimiterConfig() DelimiterConfig {
	return DelimiterConfig{
		Start: DefaultStart,
		End:   DefaultEnd,
		Esc:   DefaultEsc,
	}
}

// escapedStart returns the escape sequence for a literal start marker (e.g., "\{%")
func (c DelimiterConfig) escapedStart() string {
	return c.Esc + c.Start
}

// Validate checks that the three markers are non-empty, whitespace-free,
// pairwise distinct, and that start and end do not contain each other.
func (c DelimiterConfig) Validate() error {
	if c.Start == StringValueEmpty || c.End == StringValueEmpty || c.Esc == StringValueEmpty {
		return &DelimiterError{Message: ErrMsgEmptyDelimiter, Config: c}
	}
	for _, d := range []string{c.Start, c.End, c.Esc} {
		if strings.IndexFunc(d, isSpaceRune) >= 0 {
			return &DelimiterError{Message: ErrMsgWhitespaceDelim, Config: c}
		}
	}
	if c.Start == c.End || c.Start == c.Esc || c.End == c.Esc {
		return &DelimiterError{Message: ErrMsgDuplicateDelimiter, Config: c}
	}
	if strings.Contains(c.Start, c.End) || strings.Contains(c.End, c.Start) {
		return &DelimiterError{Message: ErrMsgOverlapDelimiter, Config: c}
	}
	return nil
}

// DelimiterError reports an invalid delimiter configuration
type DelimiterError struct {
	Message string
	Config  DelimiterConfig
}

// Error implements the error interface
func (e *DelimiterError) Error() string {
	return e.Message
}

func isSpaceRune(r rune) bool {
	return r == CharSpace || r == CharTab || r == CharNewline ||
		r == CharCarriageRet || r == CharFormFeed || r == CharVerticalTab
}
