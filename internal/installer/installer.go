package installer

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os/exec"
	"strings"
	"sync"
	"time"

	"github.com/turtacn/Lulo/internal/monitor"
	"github.com/turtacn/Lulo/pkg/consts"
	lerrors "github.com/turtacn/Lulo/pkg/errors"
	"github.com/turtacn/Lulo/pkg/logger"
)

// ProgressFunc receives each non-empty line the runtime prints while pulling.
// Calls are serialized across stdout and stderr, so it need not be
// safe for concurrent use.
type ProgressFunc func(line string)

// Installer pulls a model reference through the runtime CLI and aliases it
// to a stable local name.
type Installer struct {
	binary   string
	alias    string
	progress ProgressFunc

	progressMu sync.Mutex
}

// New returns an Installer driving the runtime at binaryPath. progress may be nil.
func New(binaryPath, alias string, progress ProgressFunc) *Installer {
	if alias == "" {
		alias = consts.DefaultModelAlias
	}
	return &Installer{binary: binaryPath, alias: alias, progress: progress}
}

// Alias returns the local name the pulled model is copied to.
func (i *Installer) Alias() string { return i.alias }

// Pull runs "<binary> pull <ref>" to completion, then "<binary> cp <ref>
// <alias>". The alias step only runs when the pull exited 0. A failed
// alias is reported as a DownloadFailed error wrapping AliasFailed.
func (i *Installer) Pull(ctx context.Context, ref string) (err error) {
	began := time.Now()
	defer func() { monitor.ObservePull(time.Since(began).Seconds(), err == nil) }()

	logger.Log.Info("Installer: pulling model", "ref", ref)
	if err := i.run(ctx, consts.PullSubcommand, ref); err != nil {
		return lerrors.New(lerrors.ErrCodeDownloadFailed, "Pull", "pull of "+ref+" failed", err)
	}

	logger.Log.Info("Installer: aliasing model", "ref", ref, "alias", i.alias)
	if err := i.run(ctx, consts.CopySubcommand, ref, i.alias); err != nil {
		aliasErr := lerrors.New(lerrors.ErrCodeAliasFailed, "Pull", "cannot alias "+ref+" as "+i.alias, err)
		return lerrors.New(lerrors.ErrCodeDownloadFailed, "Pull", "model pulled but alias failed", aliasErr)
	}
	return nil
}

// ExitCode returns the exit code of the runtime command behind err, or -1
// when err did not come from a command that ran to completion.
func ExitCode(err error) int {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return exitErr.ExitCode()
	}
	return -1
}

// run executes the runtime CLI, forwarding its output line by line. A
// non-zero exit keeps the *exec.ExitError in the chain.
func (i *Installer) run(ctx context.Context, args ...string) error {
	// #nosec G204 -- binary comes from the locator, args are fixed subcommands
	cmd := exec.CommandContext(ctx, i.binary, args...)
	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return err
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return err
	}
	if err := cmd.Start(); err != nil {
		return err
	}

	var wg sync.WaitGroup
	wg.Add(2)
	go i.forward(&wg, stdout, "stdout")
	go i.forward(&wg, stderr, "stderr")
	wg.Wait()

	err = cmd.Wait()
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return fmt.Errorf("%s %s exited with code %d: %w", i.binary, args[0], exitErr.ExitCode(), err)
	}
	return err
}

func (i *Installer) forward(wg *sync.WaitGroup, r io.Reader, stream string) {
	defer wg.Done()
	sc := bufio.NewScanner(r)
	sc.Split(scanProgress)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" {
			continue
		}
		logger.Log.Debug("Installer: runtime output", "stream", stream, "line", line)
		if i.progress != nil {
			i.progressMu.Lock()
			i.progress(line)
			i.progressMu.Unlock()
		}
	}
}

// scanProgress splits on '\n' and on the bare '\r' progress bars redraw with.
func scanProgress(data []byte, atEOF bool) (int, []byte, error) {
	for idx, b := range data {
		if b == '\n' || b == '\r' {
			return idx + 1, data[:idx], nil
		}
	}
	if atEOF && len(data) > 0 {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// Personal.AI order the ending
