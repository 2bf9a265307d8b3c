package shortcodes

import (
	"context"

	"github.com/itsatony/go-shortcodes/internal"
)

// Call is one shortcode invocation as seen by its handler.
type Call struct {
	// Tag is the opening tag name.
	Tag string

	// Data is the caller-supplied value passed to Parse, unchanged.
	Data any

	// Content is the fully resolved text between a block tag's opening and
	// closing tags. It is empty for atomic tags; use IsBlock to tell an
	// empty block from an atomic tag.
	Content string

	// IsBlock is true for block-scoped tags.
	IsBlock bool

	// Args are the positional arguments in source order.
	Args []string

	// Kwargs are the keyword arguments. A repeated key keeps its last value.
	Kwargs map[string]string

	// Position is the location of the opening tag.
	Position Position
}

// Arg returns the positional argument at index i.
func (c *Call) Arg(i int) (string, bool) {
	if i < 0 || i >= len(c.Args) {
		return "", false
	}
	return c.Args[i], true
}

// Kwarg returns the keyword argument for key.
func (c *Call) Kwarg(key string) (string, bool) {
	v, ok := c.Kwargs[key]
	return v, ok
}

// KwargOr returns the keyword argument for key, or def if absent.
func (c *Call) KwargOr(key, def string) string {
	if v, ok := c.Kwargs[key]; ok {
		return v
	}
	return def
}

// HandlerFunc produces the replacement text for one shortcode. A returned
// error aborts the parse and is wrapped in a rendering error.
type HandlerFunc func(ctx context.Context, call *Call) (string, error)

// Handler describes a registered shortcode. An empty EndTag marks an atomic tag.
type Handler struct {
	Tag    string
	EndTag string
	Func   HandlerFunc
}

// IsBlock returns true if the handler is block-scoped
func (h Handler) IsBlock() bool {
	return h.EndTag != ""
}

// handlerAdapter adapts HandlerFunc to internal.InternalHandler
type handlerAdapter struct {
	fn HandlerFunc
}

// Handle implements internal.InternalHandler
func (a *handlerAdapter) Handle(ctx context.Context, inv internal.Invocation) (string, error) {
	call := &Call{
		Tag:      inv.Tag,
		Data:     inv.Data,
		Content:  inv.Content,
		IsBlock:  inv.IsBlock,
		Args:     inv.Args.Positional,
		Kwargs:   inv.Args.Keyword,
		Position: positionFromInternal(inv.Position),
	}
	return a.fn(ctx, call)
}
