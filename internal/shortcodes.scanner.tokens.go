package internal

import "fmt"

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

// TokenType represents the type of a scanned token
type TokenType string

// Token type constants
const (
	TokenTypeLiteral TokenType = "LITERAL"
	TokenTypeTag     TokenType = "TAG"
)

// Span is the byte range [Start, End) a token covers in the source.
type Span struct {
	Start int
	End   int
}

// Token is one scan step: either a literal text span or a tag.
// For literal tokens only Value is set. For tag tokens Name and ArgText
// hold the split tag body and Raw holds the full delimited source text.
type Token struct {
	Type     TokenType
	Value    string
	Name     string
	ArgText  string
	Raw      string
	Span     Span
	Position Position
}

// String returns a human-readable representation of the token
func (t Token) String() string {
	if t.Type == TokenTypeTag {
		return fmt.Sprintf("Token{%s: %q %q @ %s}", t.Type, t.Name, t.ArgText, t.Position)
	}
	return fmt.Sprintf("Token{%s: %q @ %s}", t.Type, t.Value, t.Position)
}

// IsLiteral returns true if this is a literal text token
func (t Token) IsLiteral() bool {
	return t.Type == TokenTypeLiteral
}

// IsTag returns true if this is a tag token
func (t Token) IsTag() bool {
	return t.Type == TokenTypeTag
}

// NewLiteralToken creates a literal token
func NewLiteralToken(value string, span Span, pos Position) Token {
	return Token{
		Type:     TokenTypeLiteral,
		Value:    value,
		Span:     span,
		Position: pos,
	}
}

// NewTagToken creates a tag token
func NewTagToken(name, argText, raw string, span Span, pos Position) Token {
	return Token{
		Type:     TokenTypeTag,
		Name:     name,
		ArgText:  argText,
		Raw:      raw,
		Span:     span,
		Position: pos,
	}
}
