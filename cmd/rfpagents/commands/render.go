package commands

import (
	"os"
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/moolen/rfpagents/internal/logging"
)

var (
	colorPrimary = lipgloss.Color("#00D4FF")
	colorSuccess = lipgloss.Color("#10B981")
	colorError   = lipgloss.Color("#EF4444")
	colorMuted   = lipgloss.Color("#6B7280")

	idStyle = lipgloss.NewStyle().
		Bold(true).
		Foreground(colorPrimary)

	mutedStyle = lipgloss.NewStyle().
			Foreground(colorMuted)

	promptStyle = lipgloss.NewStyle().
			Foreground(colorSuccess).
			Bold(true)

	errorStyle = lipgloss.NewStyle().
			Foreground(colorError)
)

// isTerminal returns true if stdout is a terminal.
func isTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// printer styles output only when writing to a terminal.
type printer struct {
	styled   bool
	markdown *glamour.TermRenderer
}

func newPrinter() *printer {
	return newPrinterWith(isTerminal(), func() (*glamour.TermRenderer, error) {
		return glamour.NewTermRenderer(
			glamour.WithAutoStyle(),
			glamour.WithWordWrap(100),
		)
	})
}

// newPrinterWith falls back to plain answers when the Markdown renderer
// cannot be built.
func newPrinterWith(styled bool, markdown func() (*glamour.TermRenderer, error)) *printer {
	p := &printer{styled: styled}
	if !styled {
		return p
	}
	r, err := markdown()
	if err != nil {
		logging.GetLogger("commands").Debug("Markdown rendering disabled: %v", err)
		return p
	}
	p.markdown = r
	return p
}

func (p *printer) style(s lipgloss.Style, text string) string {
	if !p.styled {
		return text
	}
	return s.Render(text)
}

// answer renders a model response as Markdown on a terminal.
func (p *printer) answer(text string) string {
	if p.markdown == nil {
		return strings.TrimSpace(text) + "\n"
	}
	out, err := p.markdown.Render(text)
	if err != nil {
		return strings.TrimSpace(text) + "\n"
	}
	return out
}
