package internal

import (
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

// Scanner splits source text into literal and tag tokens.
// A Scanner holds per-call cursor state and must not be shared between goroutines.
type Scanner struct {
	source string
	config DelimiterConfig
	pos    int // Current byte position
	line   int // Current line (1-indexed)
	column int // Current column (1-indexed)
	logger *zap.Logger
}

// NewScanner creates a scanner with default delimiters
func NewScanner(source string, logger *zap.Logger) *Scanner {
	return NewScannerWithConfig(source, DefaultDelimiterConfig(), logger)
}

// NewScannerWithConfig creates a scanner with custom delimiters.
// The config is assumed to have passed Validate.
func NewScannerWithConfig(source string, config DelimiterConfig, logger *zap.Logger) *Scanner {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgScannerCreated, zap.Int(LogFieldSource, len(source)))
	return &Scanner{
		source: source,
		config: config,
		pos:    0,
		line:   1,
		column: 1,
		logger: logger,
	}
}

// Scan processes the whole source and returns its token stream.
// Adjacent literal text, including escaped start markers, is merged into
// a single literal token.
func (s *Scanner) Scan() ([]Token, error) {
	s.logger.Debug(LogMsgScanStart)
	var tokens []Token

	var lit strings.Builder
	litStart := s.pos
	litPos := s.currentPosition()
	flush := func() {
		if lit.Len() > 0 {
			tokens = append(tokens, NewLiteralToken(lit.String(), Span{Start: litStart, End: s.pos}, litPos))
			lit.Reset()
		}
	}

	escaped := s.config.escapedStart()
	for !s.isAtEnd() {
		// Escaped start marker: drop the escape, keep the marker as text
		if s.matchStr(escaped) {
			if lit.Len() == 0 {
				litStart, litPos = s.pos, s.currentPosition()
			}
			s.advanceN(len(escaped))
			lit.WriteString(s.config.Start)
			continue
		}

		if s.matchStr(s.config.Start) {
			flush()
			tok, err := s.scanTag()
			if err != nil {
				return nil, err
			}
			tokens = append(tokens, tok)
			litStart, litPos = s.pos, s.currentPosition()
			continue
		}

		if lit.Len() == 0 {
			litStart, litPos = s.pos, s.currentPosition()
		}
		lit.WriteByte(s.advance())
	}
	flush()

	s.logger.Debug(LogMsgScanEnd, zap.Int(LogFieldTokens, len(tokens)))
	return tokens, nil
}

// scanTag consumes one tag starting at the current start marker.
// The tag ends at the first end marker; tag bodies never nest delimiters.
func (s *Scanner) scanTag() (Token, error) {
	startOffset := s.pos
	pos := s.currentPosition()

	bodyStart := s.pos + len(s.config.Start)
	rel := strings.Index(s.source[bodyStart:], s.config.End)
	if rel < 0 {
		return Token{}, NewSyntaxError(KindNesting, ErrMsgUnterminatedTag, StringValueEmpty, pos)
	}
	bodyEnd := bodyStart + rel
	body := s.source[bodyStart:bodyEnd]
	s.advanceN(bodyEnd + len(s.config.End) - s.pos)

	name, argText := splitTagBody(body)
	if name == StringValueEmpty {
		return Token{}, NewSyntaxError(KindInvalidTag, ErrMsgEmptyTagName, name, pos)
	}
	if !s.isValidTagName(name) {
		return Token{}, NewSyntaxError(KindInvalidTag, ErrMsgInvalidTagName, name, pos)
	}

	raw := s.source[startOffset:s.pos]
	return NewTagToken(name, argText, raw, Span{Start: startOffset, End: s.pos}, pos), nil
}

// isValidTagName rejects names containing quote characters or the escape marker
func (s *Scanner) isValidTagName(name string) bool {
	if strings.ContainsAny(name, `"'`) {
		return false
	}
	return !strings.Contains(name, s.config.Esc)
}

// splitTagBody splits a tag body into its name (first whitespace-delimited
// token) and the remaining argument text.
func splitTagBody(body string) (string, string) {
	body = strings.TrimFunc(body, isSpaceRune)
	idx := strings.IndexFunc(body, isSpaceRune)
	if idx < 0 {
		return body, StringValueEmpty
	}
	return body[:idx], strings.TrimFunc(body[idx:], isSpaceRune)
}

// Helper methods

// currentPosition returns the current position
func (s *Scanner) currentPosition() Position {
	return Position{
		Offset: s.pos,
		Line:   s.line,
		Column: s.column,
	}
}

// isAtEnd returns true if we've reached the end of source
func (s *Scanner) isAtEnd() bool {
	return s.pos >= len(s.source)
}

// advance consumes and returns the current byte
func (s *Scanner) advance() byte {
	if s.isAtEnd() {
		return 0
	}
	ch := s.source[s.pos]
	s.pos++
	if ch == CharNewline {
		s.line++
		s.column = 1
	} else if utf8.RuneStart(ch) {
		s.column++
	}
	return ch
}

// advanceN advances by n bytes
func (s *Scanner) advanceN(n int) {
	for i := 0; i < n && !s.isAtEnd(); i++ {
		s.advance()
	}
}

// matchStr returns true if the remaining source starts with str
func (s *Scanner) matchStr(str string) bool {
	return strings.HasPrefix(s.source[s.pos:], str)
}
