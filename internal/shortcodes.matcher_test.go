package internal

import (
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

// testRegistry registers atomic tags and block tags closed by "end"+tag
func testRegistry(t *testing.T, atomic []string, blocks []string) *Registry {
	t.Helper()
	reg := NewRegistry(zap.NewNop())
	for _, tag := range atomic {
		require.NoError(t, reg.Register(tag, "", staticHandler("")))
	}
	for _, tag := range blocks {
		require.NoError(t, reg.Register(tag, "end"+tag, staticHandler("")))
	}
	return reg
}

// recorder renders atomic tags as <tag args> and blocks as <tag>content</tag>,
// recording dispatch order
type recorder struct {
	calls []Call
}

func (r *recorder) Dispatch(call Call) (string, error) {
	r.calls = append(r.calls, call)
	if call.IsBlock {
		return fmt.Sprintf("<%s>%s</%s>", call.Entry.Tag, call.Content, call.Entry.Tag), nil
	}
	if len(call.Args.Positional) > 0 {
		return fmt.Sprintf("<%s %s>", call.Entry.Tag, strings.Join(call.Args.Positional, ",")), nil
	}
	return "<" + call.Entry.Tag + ">", nil
}

func (r *recorder) order() []string {
	tags := make([]string, 0, len(r.calls))
	for _, c := range r.calls {
		tags = append(tags, c.Entry.Tag)
	}
	return tags
}

func runMatcher(t *testing.T, reg *Registry, d Dispatcher, input string) (string, error) {
	t.Helper()
	tokens, err := NewScanner(input, zap.NewNop()).Scan()
	require.NoError(t, err)
	return NewMatcher(reg, d, DefaultEsc, zap.NewNop()).Run(tokens)
}

func TestMatcher_Run(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
		order    []string
	}{
		{
			name:     "literal only",
			input:    "just text",
			expected: "just text",
			order:    []string{},
		},
		{
			name:     "atomic tag",
			input:    "a {% x 1 2 %} b",
			expected: "a <x 1,2> b",
			order:    []string{"x"},
		},
		{
			name:     "empty block",
			input:    "{% wrap %}{% endwrap %}",
			expected: "<wrap></wrap>",
			order:    []string{"wrap"},
		},
		{
			name:     "nested blocks innermost first",
			input:    "{% wrap %}{% box %}x{% endbox %}{% endwrap %}",
			expected: "<wrap><box>x</box></wrap>",
			order:    []string{"box", "wrap"},
		},
		{
			name:     "atomic inside block",
			input:    "{% wrap %}[{% x %}]{% endwrap %}",
			expected: "<wrap>[<x>]</wrap>",
			order:    []string{"x", "wrap"},
		},
		{
			name:     "siblings in source order",
			input:    "{% box %}1{% endbox %}{% x %}{% box %}2{% endbox %}",
			expected: "<box>1</box><x><box>2</box>",
			order:    []string{"box", "x", "box"},
		},
		{
			name:     "same block nested in itself",
			input:    "{% box %}a{% box %}b{% endbox %}c{% endbox %}",
			expected: "<box>a<box>b</box>c</box>",
			order:    []string{"box", "box"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := testRegistry(t, []string{"x"}, []string{"wrap", "box"})
			rec := &recorder{}

			out, err := runMatcher(t, reg, rec, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, out)
			if diff := cmp.Diff(tt.order, rec.order()); diff != "" {
				t.Errorf("dispatch order mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestMatcher_Run_CallDetails(t *testing.T) {
	reg := testRegistry(t, []string{"x"}, []string{"wrap"})
	rec := &recorder{}

	_, err := runMatcher(t, reg, rec, "{% wrap a k=v %}\n  {% x 'q r' %}{% endwrap %}")
	require.NoError(t, err)
	require.Len(t, rec.calls, 2)

	inner := rec.calls[0]
	assert.Equal(t, "x", inner.Entry.Tag)
	assert.False(t, inner.IsBlock)
	assert.Equal(t, 1, inner.Depth)
	assert.Equal(t, []string{"q r"}, inner.Args.Positional)
	assert.Equal(t, Position{Offset: 19, Line: 2, Column: 3}, inner.Token.Position)

	outer := rec.calls[1]
	assert.True(t, outer.IsBlock)
	assert.Equal(t, 0, outer.Depth)
	assert.Equal(t, "\n  <x q r>", outer.Content)
	assert.Equal(t, []string{"a"}, outer.Args.Positional)
	assert.Equal(t, map[string]string{"k": "v"}, outer.Args.Keyword)
	assert.Equal(t, Position{Offset: 0, Line: 1, Column: 1}, outer.Token.Position)
}

func TestMatcher_Run_Errors(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		kind     ErrorKind
		message  string
		tag      string
		expected string
		offset   int
	}{
		{
			name:    "end tag without opening",
			input:   "x {% endbox %}",
			kind:    KindNesting,
			message: ErrMsgUnexpectedEndTag,
			tag:     "endbox",
			offset:  2,
		},
		{
			name:     "interleaved blocks",
			input:    "{% wrap %}{% box %}{% endwrap %}{% endbox %}",
			kind:     KindNesting,
			message:  ErrMsgMismatchedEndTag,
			tag:      "endwrap",
			expected: "endbox",
			offset:   19,
		},
		{
			name:     "unclosed block",
			input:    "{% wrap %}{% box %}x{% endbox %}",
			kind:     KindNesting,
			message:  ErrMsgUnclosedTag,
			tag:      "wrap",
			expected: "endwrap",
			offset:   0,
		},
		{
			name:     "unclosed innermost block reported",
			input:    "{% wrap %}{% box %}",
			kind:     KindNesting,
			message:  ErrMsgUnclosedTag,
			tag:      "box",
			expected: "endbox",
			offset:   10,
		},
		{
			name:    "unknown tag",
			input:   "ok {% nope %}",
			kind:    KindInvalidTag,
			message: ErrMsgUnknownTag,
			tag:     "nope",
			offset:  3,
		},
		{
			name:    "unknown end tag is unknown",
			input:   "{% endnope %}",
			kind:    KindInvalidTag,
			message: ErrMsgUnknownTag,
			tag:     "endnope",
			offset:  0,
		},
		{
			name:    "malformed arguments",
			input:   `{% x "open %}`,
			kind:    KindInvalidTag,
			message: ErrMsgMalformedArgs,
			tag:     "x",
			offset:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := testRegistry(t, []string{"x"}, []string{"wrap", "box"})
			rec := &recorder{}

			out, err := runMatcher(t, reg, rec, tt.input)
			require.Error(t, err)
			assert.Empty(t, out)

			synErr, ok := err.(*SyntaxError)
			require.True(t, ok, "expected *SyntaxError, got %T", err)
			assert.Equal(t, tt.kind, synErr.Kind)
			assert.Equal(t, tt.message, synErr.Message)
			assert.Equal(t, tt.tag, synErr.Tag)
			assert.Equal(t, tt.expected, synErr.Expected)
			assert.Equal(t, tt.offset, synErr.Position.Offset)
		})
	}
}

func TestMatcher_Run_MalformedArgsCause(t *testing.T) {
	reg := testRegistry(t, []string{"x"}, nil)

	_, err := runMatcher(t, reg, &recorder{}, `{% x "a b %}`)
	require.Error(t, err)

	var argErr *ArgError
	require.True(t, errors.As(err, &argErr))
	assert.Equal(t, ErrMsgUnterminatedQuote, argErr.Message)
}

func TestMatcher_Run_GluedQuotedArgsSplit(t *testing.T) {
	reg := testRegistry(t, []string{"x"}, nil)
	rec := &recorder{}

	out, err := runMatcher(t, reg, rec, `{% x key="x"y %}{% x "a"=b %}`)
	require.NoError(t, err)
	assert.Equal(t, "<x y><x a,=b>", out)

	require.Len(t, rec.calls, 2)
	assert.Equal(t, map[string]string{"key": "x"}, rec.calls[0].Args.Keyword)
	assert.Equal(t, []string{"a", "=b"}, rec.calls[1].Args.Positional)
	assert.Empty(t, rec.calls[1].Args.Keyword)
}

func TestMatcher_Run_BlockArgsCheckedBeforeContent(t *testing.T) {
	reg := testRegistry(t, []string{"x"}, []string{"wrap"})
	rec := &recorder{}

	_, err := runMatcher(t, reg, rec, `{% wrap "bad %}{% x %}{% endwrap %}`)
	require.Error(t, err)
	assert.Empty(t, rec.calls, "no handler runs after a malformed opening tag")
}

func TestMatcher_Run_HandlerError(t *testing.T) {
	reg := testRegistry(t, []string{"x"}, []string{"wrap"})
	boom := errors.New("boom")

	var calls []string
	d := DispatcherFunc(func(call Call) (string, error) {
		calls = append(calls, call.Entry.Tag)
		if call.Entry.Tag == "x" {
			return "", boom
		}
		return "ok", nil
	})

	out, err := runMatcher(t, reg, d, "{% wrap %}a{% x %}{% endwrap %}")
	require.Error(t, err)
	assert.Empty(t, out)
	assert.Equal(t, []string{"x"}, calls, "outer handler never runs")

	synErr, ok := err.(*SyntaxError)
	require.True(t, ok)
	assert.Equal(t, KindRendering, synErr.Kind)
	assert.Equal(t, "x", synErr.Tag)
	assert.Equal(t, 11, synErr.Position.Offset)
	assert.ErrorIs(t, err, boom)
	assert.Contains(t, err.Error(), "boom")
}

func TestMatcher_Run_SyntaxErrorPassThrough(t *testing.T) {
	reg := testRegistry(t, []string{"x"}, nil)
	own := NewSyntaxError(KindInvalidTag, ErrMsgUnknownTag, "x", Position{Offset: 99, Line: 9, Column: 9})

	_, err := runMatcher(t, reg, DispatcherFunc(func(Call) (string, error) {
		return "", own
	}), "{% x %}")
	assert.Same(t, own, err)
}

func TestMatcher_Run_OutputNotRescanned(t *testing.T) {
	reg := testRegistry(t, []string{"x", "y"}, nil)
	d := DispatcherFunc(func(call Call) (string, error) {
		if call.Entry.Tag == "x" {
			return "{% y %}", nil
		}
		t.Fatalf("unexpected dispatch of %s", call.Entry.Tag)
		return "", nil
	})

	out, err := runMatcher(t, reg, d, "{% x %}")
	require.NoError(t, err)
	assert.Equal(t, "{% y %}", out)
}

func TestSyntaxError_Error(t *testing.T) {
	err := NewSyntaxError(KindNesting, ErrMsgUnclosedTag, "wrap", Position{Offset: 0, Line: 1, Column: 1})
	assert.Equal(t, "opening tag was never closed: wrap at line 1, column 1", err.Error())

	err.Cause = errors.New("why")
	assert.Equal(t, "opening tag was never closed: wrap at line 1, column 1: why", err.Error())
	assert.Equal(t, KindNameNesting, err.Kind.String())
}
