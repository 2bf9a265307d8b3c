package shortcodes

import (
	"fmt"
	"sort"
	"strings"

	"github.com/itsatony/go-shortcodes/internal"
)

// TraceResult records the dispatch order of a text without running any
// handler. Each tag is replaced by a placeholder instead of handler output.
type TraceResult struct {
	// Steps lists the tags in dispatch order (innermost first).
	Steps []TraceStep `json:"steps"`

	// Output is the text with placeholders for every tag
	Output string `json:"output"`
}

// TraceStep is one would-be handler invocation.
type TraceStep struct {
	// Order is the 1-based dispatch position
	Order int `json:"order"`

	// Tag is the opening tag name
	Tag string `json:"tag"`

	// Block is true for block-scoped tags
	Block bool `json:"block"`

	// Depth is the number of enclosing block tags
	Depth int `json:"depth"`

	// Args and Kwargs are the parsed arguments
	Args   []string          `json:"args"`
	Kwargs map[string]string `json:"kwargs"`

	// Content is the resolved (placeholder) content of a block tag
	Content string `json:"content,omitempty"`

	// Line and Column locate the opening tag
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Trace scans and matches text, recording every tag in the order its
// handler would run. Structural errors are reported exactly as Parse
// would report them.
func (p *Parser) Trace(text string) (*TraceResult, error) {
	tokens, err := internal.NewScannerWithConfig(text, p.delims, p.logger).Scan()
	if err != nil {
		return nil, fromSyntaxError(err)
	}

	result := &TraceResult{}
	recorder := internal.DispatcherFunc(func(call internal.Call) (string, error) {
		result.Steps = append(result.Steps, TraceStep{
			Order:   len(result.Steps) + 1,
			Tag:     call.Entry.Tag,
			Block:   call.IsBlock,
			Depth:   call.Depth,
			Args:    call.Args.Positional,
			Kwargs:  call.Args.Keyword,
			Content: call.Content,
			Line:    call.Token.Position.Line,
			Column:  call.Token.Position.Column,
		})
		if call.IsBlock {
			return fmt.Sprintf(TracePlaceholderBlock, call.Entry.Tag, call.Content), nil
		}
		return fmt.Sprintf(TracePlaceholderAtomic, call.Entry.Tag), nil
	})

	out, err := internal.NewMatcher(p.registry.inner, recorder, p.delims.Esc, p.logger).Run(tokens)
	if err != nil {
		return nil, fromSyntaxError(err)
	}
	result.Output = out
	return result, nil
}

// Tags returns the distinct tag names in the trace, sorted.
func (r *TraceResult) Tags() []string {
	seen := make(map[string]struct{}, len(r.Steps))
	for _, s := range r.Steps {
		seen[s.Tag] = struct{}{}
	}
	tags := make([]string, 0, len(seen))
	for t := range seen {
		tags = append(tags, t)
	}
	sort.Strings(tags)
	return tags
}

// String returns a human-readable listing of the dispatch order.
func (r *TraceResult) String() string {
	var sb strings.Builder

	sb.WriteString("=== Dispatch Trace ===\n")
	sb.WriteString(fmt.Sprintf("Steps: %d\n", len(r.Steps)))

	for _, s := range r.Steps {
		kind := "atomic"
		if s.Block {
			kind = "block"
		}
		sb.WriteString(fmt.Sprintf("%s%d. %s (%s) [line %d, column %d]",
			strings.Repeat("  ", s.Depth+1), s.Order, s.Tag, kind, s.Line, s.Column))
		if len(s.Args) > 0 {
			sb.WriteString(fmt.Sprintf(" args=%q", s.Args))
		}
		if len(s.Kwargs) > 0 {
			keys := make([]string, 0, len(s.Kwargs))
			for k := range s.Kwargs {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			pairs := make([]string, 0, len(keys))
			for _, k := range keys {
				pairs = append(pairs, fmt.Sprintf("%s=%q", k, s.Kwargs[k]))
			}
			sb.WriteString(" kwargs{" + strings.Join(pairs, ", ") + "}")
		}
		sb.WriteString("\n")
	}

	return sb.String()
}
