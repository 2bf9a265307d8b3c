package shortcodes

import (
	"context"
	"errors"
	"testing"

	"github.com/itsatony/go-cuserr"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// constHandler returns a handler producing s
func constHandler(s string) HandlerFunc {
	return func(context.Context, *Call) (string, error) { return s, nil }
}

func TestRegistry_RegisterAndLookup(t *testing.T) {
	reg := NewRegistry()

	require.NoError(t, reg.Register("hello", "", constHandler("hi")))
	require.NoError(t, reg.Register("box", "endbox", constHandler("[]")))

	h, ok := reg.Lookup("hello")
	require.True(t, ok)
	assert.Equal(t, "hello", h.Tag)
	assert.False(t, h.IsBlock())
	require.NotNil(t, h.Func)
	out, err := h.Func(context.Background(), &Call{})
	require.NoError(t, err)
	assert.Equal(t, "hi", out)

	h, ok = reg.Lookup("box")
	require.True(t, ok)
	assert.True(t, h.IsBlock())
	assert.Equal(t, "endbox", h.EndTag)

	assert.True(t, reg.Has("box"))
	assert.False(t, reg.Has("endbox"))
	assert.True(t, reg.IsEndTag("endbox"))
	assert.Equal(t, []string{"box", "hello"}, reg.List())
	assert.Equal(t, 2, reg.Count())

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_Register_Errors(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("a", "enda", constHandler("")))

	tests := []struct {
		name   string
		tag    string
		endTag string
		fn     HandlerFunc
	}{
		{name: "nil handler", tag: "b", fn: nil},
		{name: "empty tag", tag: "", fn: constHandler("")},
		{name: "duplicate", tag: "a", fn: constHandler("")},
		{name: "end tag as tag", tag: "enda", fn: constHandler("")},
		{name: "end tag equals tag", tag: "c", endTag: "c", fn: constHandler("")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := reg.Register(tt.tag, tt.endTag, tt.fn)
			require.Error(t, err)

			var customErr *cuserr.CustomError
			require.True(t, errors.As(err, &customErr))
			if tt.tag != "" {
				tag, ok := customErr.GetMetadata(MetaKeyTag)
				assert.True(t, ok)
				assert.Equal(t, tt.tag, tag)
			}
		})
	}

	assert.Panics(t, func() { reg.MustRegister("a", "", constHandler("")) })
}

func TestRegistry_FirstComeWins(t *testing.T) {
	p := newTestParser(t)
	p.MustRegister("who", "", constHandler("first"))
	require.Error(t, p.Register("who", "", constHandler("second")))

	out, err := p.Parse("{% who %}", nil)
	require.NoError(t, err)
	assert.Equal(t, "first", out)
}

func TestRegistry_LocalOverridesGlobal(t *testing.T) {
	ResetGlobal()
	t.Cleanup(ResetGlobal)

	MustRegister("greet", "", constHandler("global"))
	require.Error(t, Register("greet", "", constHandler("again")))

	withGlobal := MustNew()
	out, err := withGlobal.Parse("{% greet %}", nil)
	require.NoError(t, err)
	assert.Equal(t, "global", out)

	shadowing := MustNew()
	shadowing.MustRegister("greet", "", constHandler("local"))
	out, err = shadowing.Parse("{% greet %}", nil)
	require.NoError(t, err)
	assert.Equal(t, "local", out)

	// Local registrations never leak into the global registry
	out, err = withGlobal.Parse("{% greet %}", nil)
	require.NoError(t, err)
	assert.Equal(t, "global", out)
	assert.Equal(t, 1, Global().Count())
}

func TestRegistry_WithoutGlobal(t *testing.T) {
	ResetGlobal()
	t.Cleanup(ResetGlobal)

	MustRegister("greet", "", constHandler("global"))

	p := MustNew(WithoutGlobal())
	assert.Nil(t, p.Registry().Parent())

	_, err := p.Parse("{% greet %}", nil)
	assert.ErrorIs(t, err, ErrInvalidTag)
}

func TestRegistry_GlobalBlockEndTagVisible(t *testing.T) {
	ResetGlobal()
	t.Cleanup(ResetGlobal)

	MustRegister("wrap", "endwrap", func(_ context.Context, call *Call) (string, error) {
		return "(" + call.Content + ")", nil
	})

	p := MustNew()
	p.MustRegister("x", "", constHandler("X"))

	out, err := p.Parse("{% wrap %}{% x %}{% endwrap %}", nil)
	require.NoError(t, err)
	assert.Equal(t, "(X)", out)
}

func TestRegistry_WithRegistryShared(t *testing.T) {
	shared := NewRegistry()
	shared.MustRegister("id", "", idHandler)

	a := MustNew(WithRegistry(shared))
	b := MustNew(WithRegistry(shared), WithDelimiters("<<", ">>", ""))
	assert.Same(t, shared, a.Registry())
	assert.Same(t, shared, b.Registry())

	out, err := a.Parse("{% id 1 %}", nil)
	require.NoError(t, err)
	assert.Equal(t, "1", out)

	out, err = b.Parse("<< id 2 >>", nil)
	require.NoError(t, err)
	assert.Equal(t, "2", out)
}

func TestRegistry_ChildWithParent(t *testing.T) {
	parent := NewRegistry()
	parent.MustRegister("p", "", constHandler("P"))

	child := NewRegistry(WithParent(parent))
	child.MustRegister("c", "", constHandler("C"))
	assert.Same(t, parent, child.Parent())

	out, err := MustNew(WithRegistry(child)).Parse("{% p %}{% c %}", nil)
	require.NoError(t, err)
	assert.Equal(t, "PC", out)

	assert.False(t, parent.Has("c"))
}

func TestRegistry_UnregisterAndClear(t *testing.T) {
	reg := NewRegistry()
	reg.MustRegister("a", "enda", constHandler(""))
	reg.MustRegister("b", "", constHandler(""))

	assert.True(t, reg.Unregister("a"))
	assert.False(t, reg.IsEndTag("enda"))
	assert.False(t, reg.Unregister("a"))

	reg.Clear()
	assert.Equal(t, 0, reg.Count())
	assert.Empty(t, reg.List())
}
