// Package shortcodes renders WordPress-style shortcodes embedded in plain text.
//
// A shortcode is a tag between {% and %} delimiters. Each tag name is bound to
// a handler function whose return value replaces the tag:
//
//	Hello {% greet name="World" %}!
//
// # Basic Usage
//
// Create a parser, register handlers and parse text:
//
//	p := shortcodes.MustNew()
//	p.MustRegister("greet", "", func(ctx context.Context, call *shortcodes.Call) (string, error) {
//	    return "Hello, " + call.KwargOr("name", "stranger"), nil
//	})
//	out, err := p.Parse(`{% greet name="Alice" %}`, nil)
//	// out: "Hello, Alice"
//
// # Tag Syntax
//
// Atomic tags stand alone:
//
//	{% snippet footer default="(none)" %}
//
// Block tags are closed by the end tag chosen at registration, and the
// handler receives the fully rendered content between them:
//
//	{% upper %}shout {% greet %}{% endupper %}
//
// Nested blocks are resolved innermost first. Arguments are separated by
// whitespace; key=value pairs become keyword arguments and everything else
// is positional. Values may be wrapped in double or single quotes.
//
// A tag is written literally by prefixing the start delimiter with the
// escape marker:
//
//	\{% not a tag %}
//
// # Registries
//
// Handlers live in a Registry. A parser created by New owns a local
// registry whose lookups fall back to the process-wide registry (Global),
// so handlers registered with the package-level Register are visible to
// every parser. WithoutGlobal and WithRegistry change that.
//
// # Error Handling
//
// Parse returns either the complete output or an *Error; partial output is
// never returned. The error kind is tested with errors.Is:
//
//	out, err := p.Parse(text, data)
//	switch {
//	case errors.Is(err, shortcodes.ErrNesting):
//	    // unbalanced or interleaved block tags
//	case errors.Is(err, shortcodes.ErrInvalidTag):
//	    // unknown tag or malformed arguments
//	case errors.Is(err, shortcodes.ErrRendering):
//	    // a handler failed; errors.Is/As also reach the handler's error
//	}
//
// # Configuration
//
// Customize the parser with functional options:
//
//	p, _ := shortcodes.New(
//	    shortcodes.WithDelimiters("[%", "%]", "\\"),
//	    shortcodes.WithoutGlobal(),
//	    shortcodes.WithLogger(logger),
//	)
//
// or build one, together with the built-in shortcodes, from a YAML file
// with LoadConfig and NewFromConfig.
package shortcodes
