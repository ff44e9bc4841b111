package consts

import "time"

// Platform identifies the operating-system family a runtime binary was resolved for.
type Platform string

const (
	PlatformWindows Platform = "windows"
	PlatformDarwin  Platform = "darwin"
	PlatformLinux   Platform = "linux"
)

// Stage defines the step of the startup sequence the orchestrator is in.
// The sequence is linear: CHECK_INSTALLED -> CHECK_RUNNING -> STARTING ->
// CHECK_MODEL -> DOWNLOADING -> READY, with FAILED reachable from any stage.
type Stage string

const (
	StageCheckInstalled Stage = "CHECK_INSTALLED"
	StageCheckRunning   Stage = "CHECK_RUNNING"
	StageStarting       Stage = "STARTING"    // StartIfNeeded
	StageCheckModel     Stage = "CHECK_MODEL"
	StageDownloading    Stage = "DOWNLOADING" // DownloadIfNeeded
	StageReady          Stage = "READY"       // terminal
	StageFailed         Stage = "FAILED"      // terminal
)

// ProcessState defines the lifecycle state of the supervised runtime process.
type ProcessState string

const (
	ProcessNotStarted ProcessState = "NOT_STARTED"
	ProcessStarting   ProcessState = "STARTING"
	ProcessRunning    ProcessState = "RUNNING"
	ProcessExited     ProcessState = "EXITED"
)

// Runtime contract constants
const (
	DefaultEndpoint   = "http://127.0.0.1:11434"
	TagsPath          = "/api/tags"
	ServeSubcommand   = "serve"
	PullSubcommand    = "pull"
	CopySubcommand    = "cp"
	BinaryName        = "ollama"
	BundledBinaryDir  = "binaries"
	EnvAllowedOrigins = "OLLAMA_ORIGINS"
	AllowAllOrigins   = "*"
)

// Timing defaults
const (
	DefaultProbeTimeout = 2 * time.Second
	DefaultPollInterval = 1 * time.Second
	DefaultPollAttempts = 15
	DefaultStopTimeout  = 5 * time.Second
)

// Model defaults
const (
	DefaultModelRef   = "hf.co/unsloth/medgemma-1.5-4b-it-GGUF:Q8_0"
	DefaultModelAlias = "medgemma-vision"
	DefaultModelMatch = "medgemma-vision"
	DefaultModelSize  = "~5 GB"
)

// Personal.AI order the ending
