// Package render turns accepted steps into human-readable console text.
// It is the side channel of the step tool and never affects tool results.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/charmbracelet/lipgloss"
	"github.com/raphaelgruber/thinkstep-go/internal/step"
	"golang.org/x/term"
)

// Theme holds the color scheme for rendered steps.
type Theme struct {
	Step     lipgloss.Color
	Revision lipgloss.Color
	Branch   lipgloss.Color
	Hint     lipgloss.Color
}

var defaultTheme = Theme{
	Step:     lipgloss.Color("#5FAFD7"), // light blue
	Revision: lipgloss.Color("#FFAF00"), // amber
	Branch:   lipgloss.Color("#00D787"), // green
	Hint:     lipgloss.Color("#6C6C6C"), // dim gray
}

// Renderer formats steps for one output, optionally with color.
type Renderer struct {
	out   io.Writer
	lg    *lipgloss.Renderer
	theme Theme
	color bool
}

// New creates a renderer writing to out. Color profiles are detected on out
// rather than stdout, which carries the stdio transport. With color disabled
// the output is plain text with an ASCII border.
func New(out io.Writer, color bool) *Renderer {
	return &Renderer{
		out:   out,
		lg:    lipgloss.NewRenderer(out),
		theme: defaultTheme,
		color: color,
	}
}

// IsTerminal reports whether w is attached to a terminal.
func IsTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// Render returns the display text for s.
func (r *Renderer) Render(s step.Step) string {
	label, accent := r.header(s)

	headerStyle := r.lg.NewStyle()
	boxStyle := r.lg.NewStyle().Border(lipgloss.NormalBorder()).Padding(0, 1)
	hintStyle := r.lg.NewStyle()
	if r.color {
		headerStyle = headerStyle.Foreground(accent).Bold(true)
		boxStyle = boxStyle.BorderForeground(accent)
		hintStyle = hintStyle.Foreground(r.theme.Hint).Italic(true)
	} else {
		boxStyle = boxStyle.Border(asciiBorder)
	}

	lines := []string{
		headerStyle.Render(label),
		s.Text,
	}
	if s.FollowupHint != nil && *s.FollowupHint != "" {
		lines = append(lines, hintStyle.Render("next: "+*s.FollowupHint))
	}
	if s.NeedsMore != nil && *s.NeedsMore {
		lines = append(lines, hintStyle.Render("more steps needed"))
	}

	return boxStyle.Render(strings.Join(lines, "\n"))
}

// Write renders s followed by a newline to the renderer's output.
func (r *Renderer) Write(s step.Step) error {
	_, err := fmt.Fprintln(r.out, r.Render(s))
	return err
}

func (r *Renderer) header(s step.Step) (string, lipgloss.Color) {
	position := fmt.Sprintf("%d/%d", s.Index, s.EstimatedTotal)
	category := titleCase(s.Category)

	switch {
	case s.Revision():
		context := ""
		if s.RevisesIndex != nil {
			context = fmt.Sprintf(" (revising step %d)", *s.RevisesIndex)
		}
		return fmt.Sprintf("Revision %s · %s%s", position, category, context), r.theme.Revision
	case s.InBranch():
		return fmt.Sprintf("Branch %s · %s (from step %d, id %s)",
			position, category, *s.BranchFromIndex, *s.BranchID), r.theme.Branch
	default:
		return fmt.Sprintf("Step %s · %s", position, category), r.theme.Step
	}
}

func titleCase(s string) string {
	if s == "" {
		return s
	}
	r, size := utf8.DecodeRuneInString(s)
	return string(unicode.ToUpper(r)) + s[size:]
}

var asciiBorder = lipgloss.Border{
	Top:         "-",
	Bottom:      "-",
	Left:        "|",
	Right:       "|",
	TopLeft:     "+",
	TopRight:    "+",
	BottomLeft:  "+",
	BottomRight: "+",
}
