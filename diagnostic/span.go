// Package diagnostic renders compile errors with source context, grounded
// on the teacher's diagnostic/span.go: a SpanError carries the offending
// position plus zero or more annotated Spans, and Pretty renders them with
// aurora color against the compiled source text.
package diagnostic

import (
	"fmt"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"
	"github.com/logrusorgru/aurora"
)

// Kind discriminates a primary (the actual fault) from a secondary
// (related context) annotation.
type Kind int

const (
	Primary Kind = iota
	Secondary
)

// Span is one annotated range within the source.
type Span struct {
	Message string
	Kind    Kind
	Start   lexer.Position
	End     lexer.Position
}

// Option configures a SpanError at construction.
type Option func(*SpanError)

// Spanf attaches an annotated range with a formatted message.
func Spanf(kind Kind, start, end lexer.Position, format string, a ...interface{}) Option {
	return func(se *SpanError) {
		se.Spans = append(se.Spans, Span{
			Message: fmt.Sprintf(format, a...),
			Kind:    kind,
			Start:   start,
			End:     end,
		})
	}
}

// SpanError is a compile-time error anchored at a source position, with
// optional secondary spans pointing at related locations.
type SpanError struct {
	Err        error
	Pos, End   lexer.Position
	Spans      []Span
}

// WithError wraps err with position information and any Spanf options.
func WithError(err error, pos, end lexer.Position, opts ...Option) error {
	se := &SpanError{Err: err, Pos: pos, End: end}
	for _, opt := range opts {
		opt(se)
	}
	return se
}

func (se *SpanError) Error() string {
	return fmt.Sprintf("%s %s", FormatPos(se.Pos), se.Err)
}

func (se *SpanError) Unwrap() error { return se.Err }

// FormatPos renders a position as "file:line:col:" (or "line:col:" when
// the position has no file name), matching the teacher's
// diagnostic format.
func FormatPos(pos lexer.Position) string {
	if pos.Filename == "" {
		return fmt.Sprintf("%d:%d:", pos.Line, pos.Column)
	}
	return fmt.Sprintf("%s:%d:%d:", pos.Filename, pos.Line, pos.Column)
}

// Pretty renders se against source, underlining the primary position and
// any attached secondary spans. color controls whether ANSI escapes are
// emitted (an aurora.NewAurora(false) disables them for non-tty output).
func (se *SpanError) Pretty(source string, color aurora.Aurora) string {
	lines := strings.Split(source, "\n")
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", color.Bold(color.Red(FormatPos(se.Pos))), se.Err)
	b.WriteString(renderLine(lines, se.Pos, se.End, color.Red))

	for _, span := range se.Spans {
		msgColor := color.Red
		if span.Kind == Secondary {
			msgColor = color.Green
		}
		fmt.Fprintf(&b, "%s %s\n", color.Bold(FormatPos(span.Start)), span.Message)
		b.WriteString(renderLine(lines, span.Start, span.End, msgColor))
	}
	return b.String()
}

func renderLine(lines []string, start, end lexer.Position, colorize func(interface{}) aurora.Value) string {
	if start.Line < 1 || start.Line > len(lines) {
		return ""
	}
	line := lines[start.Line-1]
	col := start.Column - 1
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}
	width := end.Column - start.Column
	if width < 1 {
		width = 1
	}
	underline := strings.Repeat(" ", col) + strings.Repeat("^", width)
	return fmt.Sprintf("%s\n%s\n", line, colorize(underline))
}
