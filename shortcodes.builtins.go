package shortcodes

import (
	"bytes"
	"context"
	"os"
	"unicode"

	htmltomarkdown "github.com/JohannesKaufmann/html-to-markdown/v2"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// BuiltinsConfig selects which built-in shortcodes RegisterBuiltins adds.
type BuiltinsConfig struct {
	// Snippets backs the snippet tag. Nil leaves snippet unregistered.
	Snippets SnippetStore

	// Markdown enables markdown/endmarkdown.
	Markdown bool

	// HTML2MD enables html2md/endhtml2md.
	HTML2MD bool

	// Case enables upper, lower and title with their end tags.
	Case bool

	// Unaccent enables unaccent/endunaccent.
	Unaccent bool

	// Env enables the env tag.
	Env bool

	// LookupEnv resolves env tags.
	// Default: os.LookupEnv
	LookupEnv func(key string) (string, bool)

	// Logger receives snippet lookups.
	// Default: nil (no logging)
	Logger *zap.Logger
}

// DefaultBuiltinsConfig enables every built-in except snippet, which needs a store.
func DefaultBuiltinsConfig() BuiltinsConfig {
	return BuiltinsConfig{
		Markdown:  true,
		HTML2MD:   true,
		Case:      true,
		Unaccent:  true,
		Env:       true,
		LookupEnv: os.LookupEnv,
	}
}

// markdownRenderer is a pre-configured goldmark instance with GFM tables.
var markdownRenderer = goldmark.New(
	goldmark.WithExtensions(extension.Table),
)

// RegisterBuiltins adds the enabled built-in shortcodes to reg.
// It stops at the first registration failure.
func RegisterBuiltins(reg *Registry, config BuiltinsConfig) error {
	if config.LookupEnv == nil {
		config.LookupEnv = os.LookupEnv
	}
	logger := config.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	var handlers []Handler
	if config.Snippets != nil {
		handlers = append(handlers, Handler{Tag: TagNameSnippet, Func: snippetHandler(config.Snippets, logger)})
	}
	if config.Env {
		handlers = append(handlers, Handler{Tag: TagNameEnv, Func: envHandler(config.LookupEnv)})
	}
	if config.Markdown {
		handlers = append(handlers, Handler{Tag: TagNameMarkdown, EndTag: TagNameEndMarkdown, Func: markdownHandler})
	}
	if config.HTML2MD {
		handlers = append(handlers, Handler{Tag: TagNameHTML2MD, EndTag: TagNameEndHTML2MD, Func: html2mdHandler})
	}
	if config.Case {
		handlers = append(handlers,
			Handler{Tag: TagNameUpper, EndTag: TagNameEndUpper, Func: caseHandler(cases.Upper)},
			Handler{Tag: TagNameLower, EndTag: TagNameEndLower, Func: caseHandler(cases.Lower)},
			Handler{Tag: TagNameTitle, EndTag: TagNameEndTitle, Func: caseHandler(cases.Title)},
		)
	}
	if config.Unaccent {
		handlers = append(handlers, Handler{Tag: TagNameUnaccent, EndTag: TagNameEndUnaccent, Func: unaccentHandler})
	}

	for _, h := range handlers {
		if err := reg.Register(h.Tag, h.EndTag, h.Func); err != nil {
			return err
		}
	}
	return nil
}

// snippetHandler renders {% snippet name [default=...] %}
func snippetHandler(store SnippetStore, logger *zap.Logger) HandlerFunc {
	return func(ctx context.Context, call *Call) (string, error) {
		name, ok := call.Arg(0)
		if !ok {
			name, ok = call.Kwarg(KwargName)
		}
		if !ok || name == "" {
			return "", NewMissingArgumentError(call.Tag)
		}

		text, err := store.Get(ctx, name)
		if err != nil {
			if def, hasDefault := call.Kwarg(KwargDefault); hasDefault && IsSnippetNotFound(err) {
				return def, nil
			}
			return "", err
		}

		logger.Debug(LogMsgSnippetLoaded, zap.String(LogFieldName, name))
		return text, nil
	}
}

// envHandler renders {% env NAME [default=...] %}
func envHandler(lookup func(string) (string, bool)) HandlerFunc {
	return func(_ context.Context, call *Call) (string, error) {
		name, ok := call.Arg(0)
		if !ok || name == "" {
			return "", NewMissingArgumentError(call.Tag)
		}
		if v, ok := lookup(name); ok {
			return v, nil
		}
		if def, ok := call.Kwarg(KwargDefault); ok {
			return def, nil
		}
		return "", NewBuiltinError(ErrMsgEnvNotSet, call.Tag, nil)
	}
}

func markdownHandler(_ context.Context, call *Call) (string, error) {
	if call.Content == "" {
		return "", nil
	}
	var buf bytes.Buffer
	if err := markdownRenderer.Convert([]byte(call.Content), &buf); err != nil {
		return "", NewBuiltinError(ErrMsgMarkdownFailed, call.Tag, err)
	}
	return buf.String(), nil
}

func html2mdHandler(_ context.Context, call *Call) (string, error) {
	out, err := htmltomarkdown.ConvertString(call.Content)
	if err != nil {
		return "", NewBuiltinError(ErrMsgHTMLConvertFailed, call.Tag, err)
	}
	return out, nil
}

// caseHandler builds a block handler applying a language-aware case mapping
func caseHandler(mapper func(language.Tag, ...cases.Option) cases.Caser) HandlerFunc {
	return func(_ context.Context, call *Call) (string, error) {
		tag, err := language.Parse(call.KwargOr(KwargLang, DefaultLanguage))
		if err != nil {
			return "", NewBuiltinError(ErrMsgInvalidLanguage, call.Tag, err)
		}
		return mapper(tag).String(call.Content), nil
	}
}

// unaccentHandler strips combining marks: NFD, drop Mn, NFC
func unaccentHandler(_ context.Context, call *Call) (string, error) {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	out, _, err := transform.String(t, call.Content)
	if err != nil {
		return "", NewBuiltinError(ErrMsgNormalizeFailed, call.Tag, err)
	}
	return out, nil
}
