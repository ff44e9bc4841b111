package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/turtacn/Lulo/internal/locator"
	"github.com/turtacn/Lulo/internal/monitor"
	"github.com/turtacn/Lulo/pkg/consts"
	lerrors "github.com/turtacn/Lulo/pkg/errors"
	"github.com/turtacn/Lulo/pkg/fsm"
	"github.com/turtacn/Lulo/pkg/logger"
	"github.com/turtacn/Lulo/pkg/protocol"
)

// Events driving the startup machine.
const (
	evInstalled      fsm.Event = "installed"
	evNotInstalled   fsm.Event = "not_installed"
	evRunning        fsm.Event = "running"
	evNotRunning     fsm.Event = "not_running"
	evStarted        fsm.Event = "started"
	evStartFailed    fsm.Event = "start_failed"
	evModelPresent   fsm.Event = "model_present"
	evModelMissing   fsm.Event = "model_missing"
	evDownloaded     fsm.Event = "downloaded"
	evDeclined       fsm.Event = "declined"
	evDownloadFailed fsm.Event = "download_failed"
	evAbort          fsm.Event = "abort"
)

type Locator interface {
	Locate(ctx context.Context) (locator.RuntimeBinary, error)
}

type Prober interface {
	IsRunning(ctx context.Context) bool
	HasModel(ctx context.Context, substr string) bool
}

type Supervisor interface {
	Start(ctx context.Context, binaryPath string) error
	Stop() error
}

type Installer interface {
	Pull(ctx context.Context, ref string) error
}

// Confirmer decides whether a missing model may be downloaded.
type Confirmer interface {
	ConfirmDownload(ctx context.Context, ref, size string) bool
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, ref, size string) bool

func (f ConfirmFunc) ConfirmDownload(ctx context.Context, ref, size string) bool {
	return f(ctx, ref, size)
}

// Deps are the collaborators of an Engine. Installer is built lazily because
// it needs the located binary.
type Deps struct {
	Locator      Locator
	Prober       Prober
	Supervisor   Supervisor
	NewInstaller func(binaryPath string) Installer
	// Confirm may be nil, in which case downloads are declined.
	Confirm  Confirmer
	Sink     Sink
	Platform consts.Platform
}

type failure struct {
	stage  consts.Stage
	reason string
	msg    string
}

// Engine runs the startup sequence:
// CHECK_INSTALLED -> CHECK_RUNNING -> [STARTING] -> CHECK_MODEL -> [DOWNLOADING] -> READY.
type Engine struct {
	cfg  *protocol.Config
	deps Deps

	runMu   sync.Mutex
	fsm     *fsm.StateMachine
	sink    Sink
	runID   string
	binary  locator.RuntimeBinary
	outcome protocol.Outcome
}

func NewEngine(cfg *protocol.Config, deps Deps) *Engine {
	if deps.Platform == "" {
		deps.Platform = locator.CurrentPlatform()
	}
	if deps.Sink == nil {
		deps.Sink = DiscardSink{}
	}
	return &Engine{cfg: cfg, deps: deps}
}

func (e *Engine) setupFSM() {
	e.fsm = fsm.New(fsm.State(consts.StageCheckInstalled))

	add := func(from, to consts.Stage, ev fsm.Event, h fsm.Handler) {
		e.fsm.AddTransition(fsm.State(from), fsm.State(to), ev, h)
	}

	add(consts.StageCheckInstalled, consts.StageCheckRunning, evInstalled, nil)
	add(consts.StageCheckInstalled, consts.StageFailed, evNotInstalled, e.onFailed)

	add(consts.StageCheckRunning, consts.StageCheckModel, evRunning, nil)
	add(consts.StageCheckRunning, consts.StageStarting, evNotRunning, nil)

	// Best effort: a failed start still checks for the model.
	add(consts.StageStarting, consts.StageCheckModel, evStarted, nil)
	add(consts.StageStarting, consts.StageCheckModel, evStartFailed, nil)

	add(consts.StageCheckModel, consts.StageReady, evModelPresent, e.onReady)
	add(consts.StageCheckModel, consts.StageDownloading, evModelMissing, nil)

	add(consts.StageDownloading, consts.StageReady, evDownloaded, e.onReady)
	add(consts.StageDownloading, consts.StageReady, evDeclined, e.onReady)
	add(consts.StageDownloading, consts.StageReady, evDownloadFailed, e.onReady)

	for _, s := range []consts.Stage{
		consts.StageCheckInstalled, consts.StageCheckRunning, consts.StageStarting,
		consts.StageCheckModel, consts.StageDownloading,
	} {
		add(s, consts.StageFailed, evAbort, e.onFailed)
	}

	e.fsm.SetTerminal(fsm.State(consts.StageReady), fsm.State(consts.StageFailed))
	e.fsm.OnTransition(func(from, to fsm.State, ev fsm.Event) {
		logger.Log.Debug("Orchestrator: transition", "run_id", e.runID, "from", from, "to", to, "event", ev)
		monitor.RecordTransition(string(from), string(to))
	})
}

// Run executes one startup sequence to a terminal stage and returns its
// outcome. Progress events go to the configured sink. Only a missing binary
// or a cancelled ctx ends in FAILED.
func (e *Engine) Run(ctx context.Context) protocol.Outcome {
	return e.run(ctx, e.deps.Sink)
}

// RunStartupSequence runs the sequence in the background. The event channel
// is closed before the single outcome is delivered.
func (e *Engine) RunStartupSequence(ctx context.Context) (<-chan protocol.Event, <-chan protocol.Outcome) {
	events := make(chan protocol.Event, 64)
	outcome := make(chan protocol.Outcome, 1)
	go func() {
		o := e.run(ctx, MultiSink{e.deps.Sink, ChannelSink(events)})
		close(events)
		outcome <- o
		close(outcome)
	}()
	return events, outcome
}

// Shutdown stops the runtime process if this engine spawned one. It is safe
// to call from every exit path, any number of times.
func (e *Engine) Shutdown() error {
	if e.deps.Supervisor == nil {
		return nil
	}
	logger.Log.Info("Orchestrator: shutting down runtime")
	return e.deps.Supervisor.Stop()
}

func (e *Engine) run(ctx context.Context, sink Sink) protocol.Outcome {
	e.runMu.Lock()
	defer e.runMu.Unlock()

	e.sink = sink
	e.runID = uuid.NewString()
	e.binary = locator.RuntimeBinary{}
	e.outcome = protocol.Outcome{RunID: e.runID}
	e.setupFSM()

	steps := map[consts.Stage]func(context.Context) (fsm.Event, interface{}){
		consts.StageCheckInstalled: e.checkInstalled,
		consts.StageCheckRunning:   e.checkRunning,
		consts.StageStarting:       e.startRuntime,
		consts.StageCheckModel:     e.checkModel,
		consts.StageDownloading:    e.downloadModel,
	}

	logger.Log.Info("Orchestrator: startup sequence begins", "run_id", e.runID)
	for !e.fsm.IsTerminal() {
		stage := consts.Stage(e.fsm.Current())
		ev, arg := evAbort, interface{}(nil)
		if ctx.Err() == nil {
			ev, arg = steps[stage](ctx)
		}
		if ctx.Err() != nil {
			ev, arg = evAbort, failure{stage: stage, reason: "Cancelled", msg: "startup cancelled: " + ctx.Err().Error()}
		}
		if err := e.fsm.Fire(ev, arg); err != nil {
			// Unreachable with a consistent table; fail closed.
			logger.Log.Error("Orchestrator: transition rejected", "stage", stage, "event", ev, "err", err)
			_ = e.onFailed(ev, failure{stage: stage, reason: lerrors.ErrCodeUnknown.String(), msg: err.Error()})
			break
		}
	}
	return e.outcome
}

func (e *Engine) emit(stage consts.Stage, level protocol.EventLevel, msg string) {
	ev := protocol.Event{RunID: e.runID, Stage: stage, Level: level, Message: msg, Time: time.Now()}
	switch level {
	case protocol.LevelError:
		logger.Log.Error("Orchestrator: "+msg, "run_id", e.runID, "stage", stage)
	case protocol.LevelWarn:
		logger.Log.Warn("Orchestrator: "+msg, "run_id", e.runID, "stage", stage)
	default:
		logger.Log.Info("Orchestrator: "+msg, "run_id", e.runID, "stage", stage)
	}
	e.sink.Emit(ev)
}

func (e *Engine) warn(stage consts.Stage, level protocol.EventLevel, msg string) {
	e.outcome.Warnings = append(e.outcome.Warnings, msg)
	e.emit(stage, level, msg)
}

func (e *Engine) checkInstalled(ctx context.Context) (fsm.Event, interface{}) {
	e.emit(consts.StageCheckInstalled, protocol.LevelInfo, "Checking for Ollama...")
	bin, err := e.deps.Locator.Locate(ctx)
	if err != nil {
		logger.Log.Warn("Orchestrator: locate failed", "err", err)
		return evNotInstalled, failure{
			stage:  consts.StageCheckInstalled,
			reason: lerrors.ErrCodeNotInstalled.String(),
			msg:    InstallInstructions(e.deps.Platform),
		}
	}
	e.binary = bin
	return evInstalled, nil
}

func (e *Engine) checkRunning(ctx context.Context) (fsm.Event, interface{}) {
	e.emit(consts.StageCheckRunning, protocol.LevelInfo, "Checking if Ollama is running...")
	if e.deps.Prober.IsRunning(ctx) {
		return evRunning, nil
	}
	return evNotRunning, nil
}

func (e *Engine) startRuntime(ctx context.Context) (fsm.Event, interface{}) {
	e.emit(consts.StageStarting, protocol.LevelInfo, "Starting Ollama...")
	if err := e.deps.Supervisor.Start(ctx, e.binary.Path); err != nil {
		e.warn(consts.StageStarting, protocol.LevelWarn,
			fmt.Sprintf("Could not start Ollama (%v). Continuing; start it manually if the model check fails.", err))
		return evStartFailed, nil
	}
	return evStarted, nil
}

func (e *Engine) checkModel(ctx context.Context) (fsm.Event, interface{}) {
	e.emit(consts.StageCheckModel, protocol.LevelInfo, "Checking for MedGemma model...")
	if e.deps.Prober.HasModel(ctx, e.cfg.Model.Match) {
		return evModelPresent, nil
	}
	return evModelMissing, nil
}

func (e *Engine) downloadModel(ctx context.Context) (fsm.Event, interface{}) {
	ref, size := e.cfg.Model.Ref, e.cfg.Model.Size
	if e.deps.Confirm == nil || !e.deps.Confirm.ConfirmDownload(ctx, ref, size) {
		e.outcome.Degraded = true
		e.warn(consts.StageDownloading, protocol.LevelWarn,
			"Model download declined. AI features are unavailable until the model is installed.")
		return evDeclined, nil
	}

	e.emit(consts.StageDownloading, protocol.LevelInfo, fmt.Sprintf("Pulling MedGemma model (%s)...", size))
	if err := e.deps.NewInstaller(e.binary.Path).Pull(ctx, ref); err != nil {
		e.outcome.Degraded = true
		e.warn(consts.StageDownloading, protocol.LevelError, fmt.Sprintf("Model download failed: %v", err))
		return evDownloadFailed, nil
	}
	e.emit(consts.StageDownloading, protocol.LevelInfo, "Model ready!")
	return evDownloaded, nil
}

func (e *Engine) onReady(_ fsm.Event, _ ...interface{}) error {
	e.outcome.Stage = consts.StageReady
	e.outcome.Success = true
	e.outcome.Message = "Ready"
	if e.outcome.Degraded {
		e.outcome.Message = "Ready without the model"
	}
	e.emit(consts.StageReady, protocol.LevelInfo, e.outcome.Message)
	return nil
}

func (e *Engine) onFailed(_ fsm.Event, args ...interface{}) error {
	f := failure{stage: consts.StageFailed, msg: "startup failed"}
	if len(args) > 0 {
		if v, ok := args[0].(failure); ok {
			f = v
		}
	}
	e.outcome.Stage = f.stage
	e.outcome.Success = false
	e.outcome.Reason = f.reason
	e.outcome.Message = f.msg
	e.emit(f.stage, protocol.LevelError, f.msg)
	return nil
}

// InstallInstructions is the manual-install guidance for p. Windows and
// macOS ship a guided installer; Linux installs through a script.
func InstallInstructions(p consts.Platform) string {
	switch p {
	case consts.PlatformWindows, consts.PlatformDarwin:
		return "Ollama is not installed.\n\n" +
			"To use AI features:\n" +
			"1. Download Ollama from https://ollama.com/download\n" +
			"2. Run the installer\n" +
			"3. Restart this application"
	default:
		return "Ollama is not installed.\n\n" +
			"To use AI features, install it with:\n" +
			"  curl -fsSL https://ollama.com/install.sh | sh\n" +
			"then restart this application."
	}
}

// Personal.AI order the ending
