package supervisor

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"time"

	"github.com/turtacn/Lulo/internal/monitor"
	"github.com/turtacn/Lulo/pkg/consts"
	lerrors "github.com/turtacn/Lulo/pkg/errors"
	"github.com/turtacn/Lulo/pkg/logger"
	lj "gopkg.in/natefinch/lumberjack.v2"
)

// Prober is the liveness check polled after spawn.
type Prober interface {
	IsRunning(ctx context.Context) bool
}

// Options configures a ProcessManager. Zero values select the defaults.
type Options struct {
	PollInterval time.Duration
	PollAttempts int
	StopTimeout  time.Duration
	// LogFile receives the runtime's stdout and stderr through a rotating
	// writer. When empty both go to the null device.
	LogFile string
	// Env is appended after the parent environment and the origins override.
	Env []string
}

// ProcessManager owns the single supervised runtime process: it spawns
// "<binary> serve", waits for it to become healthy and terminates it on Stop.
type ProcessManager struct {
	prober Prober
	opts   Options

	mu      sync.Mutex
	cmd     *exec.Cmd
	state   consts.ProcessState
	spawned bool
	done    chan struct{}
	exitErr error
	out     io.WriteCloser
}

// New creates a ProcessManager polling prober for health.
func New(prober Prober, opts Options) *ProcessManager {
	if opts.PollInterval <= 0 {
		opts.PollInterval = consts.DefaultPollInterval
	}
	if opts.PollAttempts <= 0 {
		opts.PollAttempts = consts.DefaultPollAttempts
	}
	if opts.StopTimeout <= 0 {
		opts.StopTimeout = consts.DefaultStopTimeout
	}
	return &ProcessManager{prober: prober, opts: opts, state: consts.ProcessNotStarted}
}

// State returns the lifecycle state of the supervised process.
func (pm *ProcessManager) State() consts.ProcessState {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.state
}

// PID returns the supervised process id, or 0 when none is held.
func (pm *ProcessManager) PID() int {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	if pm.cmd == nil || pm.cmd.Process == nil {
		return 0
	}
	return pm.cmd.Process.Pid
}

// Done is closed once the supervised process has exited. It is nil before Start.
func (pm *ProcessManager) Done() <-chan struct{} {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.done
}

// ExitErr returns the error reported by the process' Wait after it exited.
func (pm *ProcessManager) ExitErr() error {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.exitErr
}

// Start launches the runtime with the serve subcommand and blocks until the
// prober reports it healthy, polling once per interval up to the attempt
// limit. A spawn failure is returned immediately. When the limit is
// exhausted the process is left running and a HealthTimeout error returned.
func (pm *ProcessManager) Start(ctx context.Context, binaryPath string) error {
	if err := pm.spawn(binaryPath); err != nil {
		return err
	}

	began := time.Now()
	attempts, err := pm.waitHealthy(ctx)
	if err != nil {
		logger.Log.Warn("Supervisor: runtime not healthy", "attempts", attempts, "err", err)
		return err
	}

	pm.mu.Lock()
	if pm.state == consts.ProcessStarting {
		pm.state = consts.ProcessRunning
	}
	pm.mu.Unlock()
	monitor.ObserveHealthWait(time.Since(began).Seconds())
	logger.Log.Info("Supervisor: runtime healthy", "attempts", attempts, "elapsed", time.Since(began).String())
	return nil
}

func (pm *ProcessManager) spawn(binaryPath string) error {
	pm.mu.Lock()
	defer pm.mu.Unlock()

	if pm.spawned {
		return lerrors.New(lerrors.ErrCodeStartFailed, "Start", "runtime process already spawned by this supervisor", nil)
	}

	// #nosec G204 -- binaryPath comes from the locator
	cmd := exec.Command(binaryPath, consts.ServeSubcommand)
	cmd.Env = append(os.Environ(), consts.EnvAllowedOrigins+"="+consts.AllowAllOrigins)
	cmd.Env = append(cmd.Env, pm.opts.Env...)
	configureSysProcAttr(cmd)

	var out io.WriteCloser
	if pm.opts.LogFile != "" {
		_ = os.MkdirAll(filepath.Dir(pm.opts.LogFile), 0o750)
		out = &lj.Logger{Filename: pm.opts.LogFile, MaxSize: 10, MaxBackups: 3, MaxAge: 7}
		cmd.Stdout = out
		cmd.Stderr = out
	}

	logger.Log.Info("Supervisor: spawning runtime", "cmd", []string{binaryPath, consts.ServeSubcommand})
	pm.state = consts.ProcessStarting
	if err := cmd.Start(); err != nil {
		pm.state = consts.ProcessNotStarted
		if out != nil {
			_ = out.Close()
		}
		monitor.ObserveSpawn(false)
		return lerrors.New(lerrors.ErrCodeSpawnFailed, "Start", "cannot execute "+binaryPath, err)
	}

	pm.spawned = true
	pm.cmd = cmd
	pm.out = out
	pm.done = make(chan struct{})
	monitor.ObserveSpawn(true)
	monitor.SetRuntimeUp(true)
	go pm.reap(cmd, pm.done)
	return nil
}

func (pm *ProcessManager) reap(cmd *exec.Cmd, done chan struct{}) {
	err := cmd.Wait()

	pm.mu.Lock()
	pm.state = consts.ProcessExited
	pm.exitErr = err
	if pm.out != nil {
		_ = pm.out.Close()
		pm.out = nil
	}
	pm.mu.Unlock()

	monitor.SetRuntimeUp(false)
	logger.Log.Info("Supervisor: runtime exited", "pid", cmd.Process.Pid, "err", err)
	close(done)
}

func (pm *ProcessManager) exited() bool {
	pm.mu.Lock()
	defer pm.mu.Unlock()
	return pm.state == consts.ProcessExited
}

// waitHealthy polls the prober. It returns the number of probes made.
func (pm *ProcessManager) waitHealthy(ctx context.Context) (int, error) {
	ticker := time.NewTicker(pm.opts.PollInterval)
	defer ticker.Stop()

	warned := false
	for attempt := 1; attempt <= pm.opts.PollAttempts; attempt++ {
		select {
		case <-ctx.Done():
			return attempt - 1, ctx.Err()
		case <-ticker.C:
		}
		if pm.prober.IsRunning(ctx) {
			return attempt, nil
		}
		// Keep polling: another instance may already own the port.
		if !warned && pm.exited() {
			logger.Log.Warn("Supervisor: spawned runtime exited while waiting for health", "err", pm.ExitErr())
			warned = true
		}
		logger.Log.Debug("Supervisor: waiting for runtime", "attempt", attempt, "of", pm.opts.PollAttempts)
	}
	return pm.opts.PollAttempts, lerrors.New(lerrors.ErrCodeHealthTimeout, "Start",
		fmt.Sprintf("runtime did not become healthy within the timeout window (%d attempts, %s apart)",
			pm.opts.PollAttempts, pm.opts.PollInterval), nil)
}

// Stop sends a termination signal to the supervised process and waits for
// it to exit, escalating to a kill after the stop timeout. It is safe to
// call any number of times, with or without a prior Start.
func (pm *ProcessManager) Stop() error {
	pm.mu.Lock()
	cmd := pm.cmd
	done := pm.done
	pm.cmd = nil
	pm.mu.Unlock()

	if cmd == nil || cmd.Process == nil {
		return nil
	}
	select {
	case <-done:
		return nil
	default:
	}

	pid := cmd.Process.Pid
	logger.Log.Info("Supervisor: Sending termination signal", "pid", pid)
	if err := terminate(cmd.Process); err != nil {
		logger.Log.Warn("Supervisor: termination signal failed", "pid", pid, "err", err)
	}

	select {
	case <-done:
		return nil
	case <-time.After(pm.opts.StopTimeout):
	}

	logger.Log.Warn("Supervisor: runtime ignored termination, killing", "pid", pid)
	if err := kill(cmd.Process); err != nil {
		return err
	}
	select {
	case <-done:
	case <-time.After(time.Second):
	}
	return nil
}

// Personal.AI order the ending
