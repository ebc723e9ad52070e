// Package console prints the client's human-readable output.
package console

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Printer writes styled status lines to one writer.
type Printer struct {
	w      io.Writer
	styles Styles
}

// NewPrinter binds theme to w. Writers that are not terminals get plain text.
func NewPrinter(w io.Writer, theme Theme) *Printer {
	if w == nil {
		w = io.Discard
	}
	return &Printer{
		w:      w,
		styles: theme.Styles(lipgloss.NewRenderer(w)),
	}
}

// Println writes an unstyled line.
func (p *Printer) Println(a ...any) {
	_, _ = fmt.Fprintln(p.w, a...)
}

// Blank writes an empty line.
func (p *Printer) Blank() {
	_, _ = fmt.Fprintln(p.w)
}

// Heading writes title underlined with char.
func (p *Printer) Heading(title string, char rune) {
	p.line(p.styles.Title, title)
	p.line(p.styles.MutedText, strings.Repeat(string(char), lipgloss.Width(title)))
}

// Section writes a "--- title ---" divider.
func (p *Printer) Section(title string) {
	p.line(p.styles.AccentText, "--- "+title+" ---")
}

// Field writes "label: value" with the label muted. The value is written as is
// since it may span lines.
func (p *Printer) Field(label, value string) {
	_, _ = fmt.Fprintln(p.w, p.styles.MutedText.Render(label+":")+" "+value)
}

// Info writes a plain status line.
func (p *Printer) Info(format string, a ...any) {
	p.line(p.styles.InfoText, fmt.Sprintf(format, a...))
}

// Success writes a "✓" line.
func (p *Printer) Success(format string, a ...any) {
	p.line(p.styles.SuccessText, "✓ "+fmt.Sprintf(format, a...))
}

// Failure writes a "✗" line.
func (p *Printer) Failure(format string, a ...any) {
	p.line(p.styles.DangerText, "✗ "+fmt.Sprintf(format, a...))
}

// Warning writes a "Warning:" line.
func (p *Printer) Warning(format string, a ...any) {
	p.line(p.styles.WarningText, "Warning: "+fmt.Sprintf(format, a...))
}

// Muted writes a de-emphasized line.
func (p *Printer) Muted(format string, a ...any) {
	p.line(p.styles.MutedText, fmt.Sprintf(format, a...))
}

func (p *Printer) line(style lipgloss.Style, text string) {
	_, _ = fmt.Fprintln(p.w, style.Render(text))
}
