package format

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/dhamidi/qparse/q/parser"
	"github.com/muesli/termenv"
)

// ColorMode selects when diagnostics are styled.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"
	ColorAlways ColorMode = "always"
	ColorNever  ColorMode = "never"
)

var (
	colorError   = lipgloss.Color("#EF4444")
	colorWarning = lipgloss.Color("#F59E0B")
	colorMuted   = lipgloss.Color("#6B7280")
	colorAccent  = lipgloss.Color("#06B6D4")
)

type diagnosticStyles struct {
	position lipgloss.Style
	err      lipgloss.Style
	warning  lipgloss.Style
	gutter   lipgloss.Style
	caret    lipgloss.Style
}

func newDiagnosticStyles(r *lipgloss.Renderer) diagnosticStyles {
	return diagnosticStyles{
		position: r.NewStyle().Bold(true),
		err:      r.NewStyle().Foreground(colorError).Bold(true),
		warning:  r.NewStyle().Foreground(colorWarning).Bold(true),
		gutter:   r.NewStyle().Foreground(colorMuted),
		caret:    r.NewStyle().Foreground(colorAccent).Bold(true),
	}
}

// DiagnosticEncoder renders syntax errors compiler style: a header line,
// the offending source line and a caret under the offending token.
type DiagnosticEncoder struct {
	w      io.Writer
	lines  []string
	styles diagnosticStyles
}

// NewDiagnosticEncoder returns an encoder quoting lines from source. A nil
// source omits the quoted lines.
func NewDiagnosticEncoder(w io.Writer, source []byte, mode ColorMode) *DiagnosticEncoder {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI256)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}

	var lines []string
	if source != nil {
		lines = strings.Split(string(source), "\n")
	}
	return &DiagnosticEncoder{w: w, lines: lines, styles: newDiagnosticStyles(r)}
}

// Encode writes one diagnostic. Errors the parser recovered from are shown
// as warnings.
func (e *DiagnosticEncoder) Encode(err *parser.SyntaxError) error {
	text, mErr := e.MarshalText(err)
	if mErr != nil {
		return mErr
	}
	_, wErr := e.w.Write(text)
	return wErr
}

// EncodeAll writes a diagnostic for every *parser.SyntaxError in err and
// plain text for anything else.
func (e *DiagnosticEncoder) EncodeAll(err error) error {
	var list parser.ErrorList
	var one *parser.SyntaxError
	switch {
	case err == nil:
		return nil
	case errors.As(err, &list):
		for _, se := range list {
			if wErr := e.Encode(se); wErr != nil {
				return wErr
			}
		}
		return nil
	case errors.As(err, &one):
		return e.Encode(one)
	}
	_, wErr := fmt.Fprintf(e.w, "%s: %v\n", e.styles.err.Render("error"), err)
	return wErr
}

func (e *DiagnosticEncoder) MarshalText(err *parser.SyntaxError) ([]byte, error) {
	var sb strings.Builder
	start := err.Got.Span.Start
	pos := start.String()

	label := e.styles.err.Render("error")
	if err.Recovered {
		label = e.styles.warning.Render("warning")
	}
	message := strings.TrimPrefix(err.Error(), pos+": ")
	fmt.Fprintf(&sb, "%s: %s: %s\n", e.styles.position.Render(pos), label, message)

	if start.Line < 1 || start.Line > len(e.lines) {
		return []byte(sb.String()), nil
	}
	line := strings.TrimRight(e.lines[start.Line-1], "\r")
	gutter := e.styles.gutter.Render(fmt.Sprintf("%4d | ", start.Line))
	fmt.Fprintf(&sb, "%s%s\n", gutter, line)

	col := start.Column - 1
	if col < 0 {
		col = 0
	}
	if col > len(line) {
		col = len(line)
	}
	width := 1
	if end := err.Got.Span.End; end.Line == start.Line && end.Column-start.Column > 1 {
		width = end.Column - start.Column
	}
	fmt.Fprintf(&sb, "%s%s%s\n",
		e.styles.gutter.Render("     | "),
		caretPadding(line[:col]),
		e.styles.caret.Render("^"+strings.Repeat("~", width-1)))
	return []byte(sb.String()), nil
}

// caretPadding blanks prefix while keeping its tabs, so the caret lines up
// under the source whatever the tab width.
func caretPadding(prefix string) string {
	var sb strings.Builder
	for _, r := range prefix {
		if r == '\t' {
			sb.WriteRune('\t')
		} else {
			sb.WriteByte(' ')
		}
	}
	return sb.String()
}
