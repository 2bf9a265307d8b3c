package internal

import (
	"strings"
)

// Args holds the parsed arguments of one tag occurrence.
type Args struct {
	Positional []string
	Keyword    map[string]string
}

// ArgError reports malformed argument text
type ArgError struct {
	Message string
	Offset  int // Byte offset into the argument text
}

// Error implements the error interface
func (e *ArgError) Error() string {
	return e.Message
}

// ParseArgs splits a tag's argument text into positional and keyword
// arguments. Tokens are separated by whitespace outside quotes. A token of
// the form key=value, where key has no whitespace, quotes or '=', becomes a
// keyword argument; a repeated key keeps its last value. Values wrapped in
// double or single quotes are unquoted; inside quotes esc+quote yields the
// quote and esc+esc yields esc. Unquoted values are kept verbatim. A closing
// quote ends its argument even without trailing whitespace, so key="x"y is
// key=x plus the positional y.
func ParseArgs(argText string, esc string) (Args, error) {
	l := &argLexer{src: argText, esc: esc}
	return l.lex()
}

type argLexer struct {
	src string
	esc string
	pos int
}

func (l *argLexer) lex() (Args, error) {
	args := Args{
		Positional: []string{},
		Keyword:    map[string]string{},
	}

	for {
		l.skipWhitespace()
		if l.isAtEnd() {
			return args, nil
		}

		if isQuote(l.peek()) {
			val, err := l.scanQuotedValue()
			if err != nil {
				return Args{}, err
			}
			args.Positional = append(args.Positional, val)
			continue
		}

		if key, ok := l.scanKey(); ok {
			val, err := l.scanValue()
			if err != nil {
				return Args{}, err
			}
			args.Keyword[key] = val
			continue
		}

		args.Positional = append(args.Positional, l.scanBare())
	}
}

// scanKey consumes "key=" if the current token starts with a valid key
func (l *argLexer) scanKey() (string, bool) {
	end := l.pos
	for end < len(l.src) && !isSpaceByte(l.src[end]) && l.src[end] != CharEquals {
		end++
	}
	if end >= len(l.src) || l.src[end] != CharEquals {
		return StringValueEmpty, false
	}
	key := l.src[l.pos:end]
	if key == StringValueEmpty || strings.ContainsAny(key, `"'`) {
		return StringValueEmpty, false
	}
	l.pos = end + 1
	return key, true
}

// scanValue consumes a keyword value, quoted or bare
func (l *argLexer) scanValue() (string, error) {
	if !l.isAtEnd() && isQuote(l.peek()) {
		return l.scanQuotedValue()
	}
	return l.scanBare(), nil
}

// scanBare consumes a run of non-whitespace bytes
func (l *argLexer) scanBare() string {
	start := l.pos
	for !l.isAtEnd() && !isSpaceByte(l.peek()) {
		l.pos++
	}
	return l.src[start:l.pos]
}

// scanQuotedValue consumes a quoted value. The closing quote ends the
// argument; text glued to it starts the next one.
func (l *argLexer) scanQuotedValue() (string, error) {
	start := l.pos
	quote := l.src[l.pos]
	l.pos++

	escQuote := l.esc + string(quote)
	escEsc := l.esc + l.esc

	var sb strings.Builder
	for !l.isAtEnd() {
		rest := l.src[l.pos:]
		switch {
		case l.esc != StringValueEmpty && strings.HasPrefix(rest, escQuote):
			sb.WriteByte(quote)
			l.pos += len(escQuote)
		case l.esc != StringValueEmpty && strings.HasPrefix(rest, escEsc):
			sb.WriteString(l.esc)
			l.pos += len(escEsc)
		case rest[0] == quote:
			l.pos++
			return sb.String(), nil
		default:
			sb.WriteByte(rest[0])
			l.pos++
		}
	}

	return StringValueEmpty, &ArgError{Message: ErrMsgUnterminatedQuote, Offset: start}
}

func (l *argLexer) skipWhitespace() {
	for !l.isAtEnd() && isSpaceByte(l.peek()) {
		l.pos++
	}
}

func (l *argLexer) isAtEnd() bool {
	return l.pos >= len(l.src)
}

func (l *argLexer) peek() byte {
	return l.src[l.pos]
}

func isQuote(ch byte) bool {
	return ch == CharDoubleQuote || ch == CharSingleQuote
}

func isSpaceByte(ch byte) bool {
	return isSpaceRune(rune(ch))
}
