package cli

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"
	"github.com/turtacn/Lulo/pkg/logger"
)

// downloadConfirmer answers the orchestrator's download question from flags,
// or by prompting when stdin is a terminal.
type downloadConfirmer struct {
	assumeYes   bool
	never       bool
	interactive func() bool
	prompt      func(ctx context.Context, title, description string) (bool, error)
}

func newConfirmer(assumeYes, never bool) *downloadConfirmer {
	return &downloadConfirmer{
		assumeYes:   assumeYes,
		never:       never,
		interactive: stdinIsTerminal,
		prompt:      huhPrompt,
	}
}

func (c *downloadConfirmer) ConfirmDownload(ctx context.Context, ref, size string) bool {
	switch {
	case c.never:
		return false
	case c.assumeYes:
		return true
	case !c.interactive():
		logger.Log.Warn("CLI: model missing and stdin is not a terminal; pass --yes to download", "ref", ref)
		return false
	}

	ok, err := c.prompt(ctx,
		fmt.Sprintf("The MedGemma model is not installed. Download it now (%s)?", size),
		"Source: "+ref)
	if err != nil {
		logger.Log.Warn("CLI: confirmation aborted", "err", err)
		return false
	}
	return ok
}

func stdinIsTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

func huhPrompt(ctx context.Context, title, description string) (bool, error) {
	var ok bool
	field := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Download").
		Negative("Later").
		Value(&ok)
	if err := huh.NewForm(huh.NewGroup(field)).RunWithContext(ctx); err != nil {
		return false, err
	}
	return ok, nil
}

// Personal.AI order the ending
