package locator

import (
	"context"
	"path/filepath"

	"github.com/spf13/afero"
	"github.com/turtacn/Lulo/pkg/consts"
	lerrors "github.com/turtacn/Lulo/pkg/errors"
	"github.com/turtacn/Lulo/pkg/logger"
)

// Where a binary was found.
const (
	SourceOverride       = "override"
	SourceBundled        = "bundled"
	SourceBundledSibling = "bundled-sibling"
	SourcePath           = "path"
	SourceWellKnown      = "well-known"
)

const execMode = 0o755

// RuntimeBinary is a resolved runtime executable.
type RuntimeBinary struct {
	Path     string
	Platform consts.Platform
	Source   string
}

// Options configures a Locator. Zero values select the OS defaults.
type Options struct {
	ResourceDir string // application resource directory; binaries/<name> below it
	AppDir      string // application install root; ../binaries/<name> is searched
	Override    string // explicit binary path; disables the search
	Platform    consts.Platform
	Env         *Env
	Fs          afero.Fs
	Runner      Runner
}

// Locator finds the runtime binary.
type Locator struct {
	opts     Options
	strategy Strategy
	env      Env
}

// New builds a Locator; the platform strategy is selected once here.
func New(opts Options) *Locator {
	if opts.Platform == "" {
		opts.Platform = CurrentPlatform()
	}
	if opts.Fs == nil {
		opts.Fs = afero.NewOsFs()
	}
	if opts.Runner == nil {
		opts.Runner = ExecRunner{}
	}
	env := EnvFromOS()
	if opts.Env != nil {
		env = opts.Env.withDefaults()
	}
	return &Locator{opts: opts, strategy: StrategyFor(opts.Platform), env: env}
}

// Platform is the platform whose search table is in use.
func (l *Locator) Platform() consts.Platform { return l.opts.Platform }

type candidate struct {
	path   string
	source string
}

// Locate returns the first existing candidate in priority order: bundled,
// bundled sibling, PATH resolutions, well-known directories. It returns an
// ErrCodeNotInstalled error when nothing exists.
func (l *Locator) Locate(ctx context.Context) (RuntimeBinary, error) {
	name := l.strategy.BinaryName

	if l.opts.Override != "" {
		if l.exists(l.opts.Override) {
			return l.found(candidate{path: l.opts.Override, source: SourceOverride})
		}
		return RuntimeBinary{}, lerrors.New(lerrors.ErrCodeNotInstalled, "Locate",
			"configured runtime binary does not exist: "+l.opts.Override, nil)
	}

	var bundled []candidate
	if l.opts.ResourceDir != "" {
		bundled = append(bundled, candidate{filepath.Join(l.opts.ResourceDir, consts.BundledBinaryDir, name), SourceBundled})
	}
	if l.opts.AppDir != "" {
		bundled = append(bundled, candidate{filepath.Join(l.opts.AppDir, "..", consts.BundledBinaryDir, name), SourceBundledSibling})
	}
	for _, c := range bundled {
		if l.exists(c.path) {
			return l.found(c)
		}
	}

	for _, c := range l.searchList(ctx, name) {
		if l.exists(c.path) {
			return l.found(c)
		}
	}

	logger.Log.Warn("Locator: runtime binary not found", "platform", l.opts.Platform, "name", name)
	return RuntimeBinary{}, lerrors.New(lerrors.ErrCodeNotInstalled, "Locate",
		"runtime binary "+name+" not found", nil)
}

// searchList builds the non-bundled candidates: PATH results in the order
// they were resolved, then the static list, without duplicates.
func (l *Locator) searchList(ctx context.Context, name string) []candidate {
	seen := make(map[string]bool)
	var out []candidate
	add := func(p, src string) {
		if p == "" || seen[p] {
			return
		}
		seen[p] = true
		out = append(out, candidate{p, src})
	}
	for _, r := range l.strategy.Resolvers {
		if ctx.Err() != nil {
			break
		}
		p := r.Resolve(ctx, l.opts.Runner, consts.BinaryName)
		if p != "" {
			logger.Log.Debug("Locator: PATH resolution", "resolver", r.Name, "path", p)
		}
		add(p, SourcePath)
	}
	for _, p := range l.strategy.WellKnown(l.env) {
		add(p, SourceWellKnown)
	}
	return out
}

func (l *Locator) exists(path string) bool {
	fi, err := l.opts.Fs.Stat(path)
	return err == nil && !fi.IsDir()
}

func (l *Locator) found(c candidate) (RuntimeBinary, error) {
	if l.opts.Platform != consts.PlatformWindows && c.source != SourceBundled && c.source != SourceBundledSibling {
		l.ensureExecutable(c.path)
	}
	logger.Log.Info("Locator: runtime binary found", "path", c.path, "source", c.source)
	return RuntimeBinary{Path: c.path, Platform: l.opts.Platform, Source: c.source}, nil
}

// ensureExecutable sets rwxr-xr-x when the mode lacks it. A failed chmod is
// logged, not fatal; the spawn will report a non-executable binary.
func (l *Locator) ensureExecutable(path string) {
	fi, err := l.opts.Fs.Stat(path)
	if err != nil || fi.Mode().Perm()&execMode == execMode {
		return
	}
	if err := l.opts.Fs.Chmod(path, execMode); err != nil {
		logger.Log.Warn("Locator: cannot set executable bit", "path", path, "err", err)
	}
}

// Personal.AI order the ending
