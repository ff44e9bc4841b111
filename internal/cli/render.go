package cli

import (
	"fmt"
	"io"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"github.com/turtacn/Lulo/pkg/protocol"
)

var (
	colorOK    = lipgloss.Color("#2CD7C7")
	colorWarn  = lipgloss.Color("#F4D03F")
	colorError = lipgloss.Color("#E74C3C")
	colorMuted = lipgloss.Color("#6C7A89")
)

var styles = struct {
	Title   lipgloss.Style
	Info    lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Muted   lipgloss.Style
	Box     lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(colorOK),
	Info:    lipgloss.NewStyle().Foreground(colorOK),
	Warning: lipgloss.NewStyle().Foreground(colorWarn),
	Error:   lipgloss.NewStyle().Foreground(colorError),
	Muted:   lipgloss.NewStyle().Foreground(colorMuted),
	Box: lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(colorError).
		Padding(0, 1),
}

func renderEvent(w io.Writer, ev protocol.Event) {
	stage := styles.Muted.Render(fmt.Sprintf("[%s]", ev.Stage))
	switch ev.Level {
	case protocol.LevelError:
		fmt.Fprintf(w, "%s %s %s\n", styles.Error.Render("✗"), stage, ev.Message)
	case protocol.LevelWarn:
		fmt.Fprintf(w, "%s %s %s\n", styles.Warning.Render("!"), stage, ev.Message)
	default:
		fmt.Fprintf(w, "%s %s %s\n", styles.Info.Render("•"), stage, ev.Message)
	}
}

func renderOutcome(w io.Writer, o protocol.Outcome) {
	switch {
	case !o.Success:
		fmt.Fprintln(w, styles.Box.Render(o.Message))
	case o.Degraded:
		fmt.Fprintln(w, styles.Warning.Render("Ready (degraded): "+o.Message))
	default:
		fmt.Fprintln(w, styles.Title.Render("Ready"))
	}
}

// lineWriter prints runtime progress, skipping consecutive duplicates. The
// returned func is safe for concurrent use.
func lineWriter(w io.Writer) func(string) {
	var (
		mu   sync.Mutex
		last string
	)
	return func(line string) {
		mu.Lock()
		defer mu.Unlock()
		if line == last {
			return
		}
		last = line
		fmt.Fprintln(w, styles.Muted.Render("  "+line))
	}
}

// Personal.AI order the ending
