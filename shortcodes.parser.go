package shortcodes

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/itsatony/go-shortcodes/internal"
)

// Delimiters are the syntax tokens a Parser recognises.
type Delimiters struct {
	Start string
	End   string
	Esc   string
}

// Parser renders shortcodes in text. A Parser holds only its immutable
// delimiters and a registry reference; every Parse call keeps its own
// scanning and matching state, so one Parser may serve concurrent calls
// as long as its registry is not modified meanwhile.
type Parser struct {
	delims   internal.DelimiterConfig
	registry *Registry
	logger   *zap.Logger
}

// New creates a Parser with the given options.
func New(opts ...Option) (*Parser, error) {
	config := defaultParserConfig()
	for _, opt := range opts {
		opt(config)
	}

	logger := config.logger
	if logger == nil {
		logger = zap.NewNop()
	}

	delims := internal.DelimiterConfig{
		Start: config.start,
		End:   config.end,
		Esc:   config.esc,
	}
	if err := delims.Validate(); err != nil {
		var delimErr *internal.DelimiterError
		msg := ErrMsgInvalidDelimiters
		if errors.As(err, &delimErr) {
			msg = delimErr.Message
		}
		return nil, NewConfigError(msg, MetaKeyDelimiters, config.start+" "+config.end+" "+config.esc)
	}

	registry := config.registry
	if registry == nil {
		regOpts := []RegistryOption{WithRegistryLogger(logger)}
		if !config.noGlobal {
			regOpts = append(regOpts, WithParent(Global()))
		}
		registry = NewRegistry(regOpts...)
	}

	logger.Debug(LogMsgParserCreated,
		zap.String(MetaKeyStart, delims.Start),
		zap.String(MetaKeyEnd, delims.End),
	)

	return &Parser{
		delims:   delims,
		registry: registry,
		logger:   logger,
	}, nil
}

// MustNew creates a new Parser and panics if there's an error.
func MustNew(opts ...Option) *Parser {
	p, err := New(opts...)
	if err != nil {
		panic(err)
	}
	return p
}

// Parse renders every shortcode in text and returns the result. data is
// passed unchanged to every handler. Handler output is inserted verbatim
// and never re-scanned, so Parse is not idempotent when handlers emit
// delimiter-like text. On failure no partial output is returned and the
// error is an *Error matching ErrShortcode.
func (p *Parser) Parse(text string, data any) (string, error) {
	return p.ParseContext(context.Background(), text, data)
}

// ParseContext is Parse with a context handed to every handler. The
// parser itself never checks ctx; cancellation is up to the handlers.
func (p *Parser) ParseContext(ctx context.Context, text string, data any) (string, error) {
	p.logger.Debug(LogMsgParseStart, zap.Int(LogFieldSource, len(text)))

	tokens, err := internal.NewScannerWithConfig(text, p.delims, p.logger).Scan()
	if err != nil {
		return "", p.fail(err)
	}

	d := &dispatcher{ctx: ctx, data: data, logger: p.logger}
	out, err := internal.NewMatcher(p.registry.inner, d, p.delims.Esc, p.logger).Run(tokens)
	if err != nil {
		return "", p.fail(err)
	}

	p.logger.Debug(LogMsgParseEnd, zap.Int(LogFieldOutput, len(out)))
	return out, nil
}

// Validate checks text for nesting errors, unknown tags and malformed
// arguments without invoking any handler.
func (p *Parser) Validate(text string) error {
	tokens, err := internal.NewScannerWithConfig(text, p.delims, p.logger).Scan()
	if err != nil {
		return fromSyntaxError(err)
	}
	if _, err := internal.NewMatcher(p.registry.inner, validatingDispatcher{}, p.delims.Esc, p.logger).Run(tokens); err != nil {
		return fromSyntaxError(err)
	}
	return nil
}

// Register adds a handler to the parser's registry. Names containing the
// parser's escape marker are rejected since they can never be scanned.
func (p *Parser) Register(tag, endTag string, fn HandlerFunc) error {
	for _, name := range []string{tag, endTag} {
		if err := internal.CheckNameEsc(name, p.delims.Esc); err != nil {
			return NewRegistryError(tag, err)
		}
	}
	return p.registry.Register(tag, endTag, fn)
}

// MustRegister adds a handler to the parser's registry and panics on error.
func (p *Parser) MustRegister(tag, endTag string, fn HandlerFunc) {
	if err := p.Register(tag, endTag, fn); err != nil {
		panic(err)
	}
}

// Registry returns the parser's registry.
func (p *Parser) Registry() *Registry {
	return p.registry
}

// Delimiters returns the parser's delimiter configuration.
func (p *Parser) Delimiters() Delimiters {
	return Delimiters{
		Start: p.delims.Start,
		End:   p.delims.End,
		Esc:   p.delims.Esc,
	}
}

// fail converts and logs a parse failure
func (p *Parser) fail(err error) error {
	converted := fromSyntaxError(err)
	p.logger.Debug(LogMsgParseFailed, zap.Error(converted))
	return converted
}
