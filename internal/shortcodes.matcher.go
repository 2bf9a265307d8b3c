package internal

import (
	"strings"

	"go.uber.org/zap"
)

// Call is one resolved tag ready for dispatch.
type Call struct {
	Entry   Entry
	Token   Token // The opening tag token
	Args    Args
	Content string
	IsBlock bool
	Depth   int // Number of enclosing block tags
}

// Dispatcher invokes the handler for a resolved call and returns its output.
// Errors are returned unwrapped and the matcher attaches tag context; a
// *SyntaxError is passed through as is.
type Dispatcher interface {
	Dispatch(call Call) (string, error)
}

// DispatcherFunc adapts a function to the Dispatcher interface
type DispatcherFunc func(call Call) (string, error)

// Dispatch implements Dispatcher
func (f DispatcherFunc) Dispatch(call Call) (string, error) {
	return f(call)
}

// Lookup is the read side of a handler registry.
type Lookup interface {
	Lookup(tag string) (Entry, bool)
	IsEndTag(name string) bool
}

// Frame is one open block tag on the matcher stack.
type Frame struct {
	Entry Entry
	Token Token
	Args  Args
	outer *strings.Builder // Buffer of the enclosing level, restored on pop
}

// Matcher turns a token stream into dispatch calls, innermost first,
// using an explicit stack of open block frames.
type Matcher struct {
	lookup     Lookup
	dispatcher Dispatcher
	esc        string
	logger     *zap.Logger
}

// NewMatcher creates a matcher. esc is the escape marker used by the
// argument lexer inside quoted values.
func NewMatcher(lookup Lookup, dispatcher Dispatcher, esc string, logger *zap.Logger) *Matcher {
	if logger == nil {
		logger = zap.NewNop()
	}
	logger.Debug(LogMsgMatcherCreated)
	return &Matcher{
		lookup:     lookup,
		dispatcher: dispatcher,
		esc:        esc,
		logger:     logger,
	}
}

// Run consumes tokens and returns the fully substituted output.
// Any failure aborts the run with no partial output.
func (m *Matcher) Run(tokens []Token) (string, error) {
	m.logger.Debug(LogMsgMatchStart, zap.Int(LogFieldTokens, len(tokens)))

	var stack []*Frame
	current := &strings.Builder{}

	for _, tok := range tokens {
		if tok.IsLiteral() {
			current.WriteString(tok.Value)
			continue
		}

		// Closing tag for the innermost open block
		if n := len(stack); n > 0 && tok.Name == stack[n-1].Entry.EndTag {
			frame := stack[n-1]
			stack = stack[:n-1]
			content := current.String()
			current = frame.outer

			m.logger.Debug(LogMsgFramePopped,
				zap.String(LogFieldTag, frame.Entry.Tag),
				zap.Int(LogFieldDepth, len(stack)),
			)

			out, err := m.dispatch(Call{
				Entry:   frame.Entry,
				Token:   frame.Token,
				Args:    frame.Args,
				Content: content,
				IsBlock: true,
				Depth:   len(stack),
			})
			if err != nil {
				return StringValueEmpty, err
			}
			current.WriteString(out)
			continue
		}

		if m.lookup.IsEndTag(tok.Name) {
			if len(stack) == 0 {
				return StringValueEmpty, NewSyntaxError(KindNesting, ErrMsgUnexpectedEndTag, tok.Name, tok.Position)
			}
			err := NewSyntaxError(KindNesting, ErrMsgMismatchedEndTag, tok.Name, tok.Position)
			err.Expected = stack[len(stack)-1].Entry.EndTag
			return StringValueEmpty, err
		}

		entry, ok := m.lookup.Lookup(tok.Name)
		if !ok {
			return StringValueEmpty, NewSyntaxError(KindInvalidTag, ErrMsgUnknownTag, tok.Name, tok.Position)
		}

		args, err := m.parseArgs(tok)
		if err != nil {
			return StringValueEmpty, err
		}

		if entry.IsBlock() {
			stack = append(stack, &Frame{Entry: entry, Token: tok, Args: args, outer: current})
			current = &strings.Builder{}
			m.logger.Debug(LogMsgFramePushed,
				zap.String(LogFieldTag, entry.Tag),
				zap.Int(LogFieldDepth, len(stack)),
			)
			continue
		}

		out, err := m.dispatch(Call{
			Entry: entry,
			Token: tok,
			Args:  args,
			Depth: len(stack),
		})
		if err != nil {
			return StringValueEmpty, err
		}
		current.WriteString(out)
	}

	if n := len(stack); n > 0 {
		frame := stack[n-1]
		err := NewSyntaxError(KindNesting, ErrMsgUnclosedTag, frame.Entry.Tag, frame.Token.Position)
		err.Expected = frame.Entry.EndTag
		return StringValueEmpty, err
	}

	out := current.String()
	m.logger.Debug(LogMsgMatchEnd, zap.Int(LogFieldOutput, len(out)))
	return out, nil
}

// parseArgs lexes a tag's argument text, folding failures into a tag-level error
func (m *Matcher) parseArgs(tok Token) (Args, error) {
	args, err := ParseArgs(tok.ArgText, m.esc)
	if err != nil {
		synErr := NewSyntaxError(KindInvalidTag, ErrMsgMalformedArgs, tok.Name, tok.Position)
		synErr.Cause = err
		return Args{}, synErr
	}
	return args, nil
}

// dispatch invokes the dispatcher and wraps handler failures
func (m *Matcher) dispatch(call Call) (string, error) {
	out, err := m.dispatcher.Dispatch(call)
	if err != nil {
		if passErr, ok := err.(*SyntaxError); ok {
			return StringValueEmpty, passErr
		}
		synErr := NewSyntaxError(KindRendering, ErrMsgHandlerFailed, call.Entry.Tag, call.Token.Position)
		synErr.Cause = err
		return StringValueEmpty, synErr
	}
	return out, nil
}
