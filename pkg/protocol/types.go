package protocol

import (
	"time"

	"github.com/turtacn/Lulo/pkg/consts"
)

// Config represents the root configuration of the runtime supervisor.
type Config struct {
	Version       string              `yaml:"version" mapstructure:"version"`
	Runtime       RuntimeConfig       `yaml:"runtime" mapstructure:"runtime"`
	Health        HealthConfig        `yaml:"health" mapstructure:"health"`
	Model         ModelConfig         `yaml:"model" mapstructure:"model"`
	Observability ObservabilityConfig `yaml:"observability" mapstructure:"observability"`
}

type RuntimeConfig struct {
	Binary      string `yaml:"binary" mapstructure:"binary"`             // explicit override, skips search
	ResourceDir string `yaml:"resource_dir" mapstructure:"resource_dir"` // holds binaries/<name>
	AppDir      string `yaml:"app_dir" mapstructure:"app_dir"`           // install root; sibling ../binaries is searched
	Endpoint    string `yaml:"endpoint" mapstructure:"endpoint"`
	LogFile     string `yaml:"log_file" mapstructure:"log_file"` // serve stdout/stderr; null device when empty
	StopTimeout string `yaml:"stop_timeout" mapstructure:"stop_timeout"`
}

type HealthConfig struct {
	ProbeTimeout string `yaml:"probe_timeout" mapstructure:"probe_timeout"`
	PollInterval string `yaml:"poll_interval" mapstructure:"poll_interval"`
	PollAttempts int    `yaml:"poll_attempts" mapstructure:"poll_attempts"`
}

type ModelConfig struct {
	Ref   string `yaml:"ref" mapstructure:"ref"`
	Alias string `yaml:"alias" mapstructure:"alias"`
	Match string `yaml:"match" mapstructure:"match"` // substring looked for in installed model names
	Size  string `yaml:"size" mapstructure:"size"`   // shown in the confirmation prompt
}

type ObservabilityConfig struct {
	MetricsAddr string `yaml:"metrics_addr" mapstructure:"metrics_addr"`
	LogLevel    string `yaml:"log_level" mapstructure:"log_level"`
	LogFormat   string `yaml:"log_format" mapstructure:"log_format"`
	LogFile     string `yaml:"log_file" mapstructure:"log_file"`
}

// EventLevel grades a progress event.
type EventLevel string

const (
	LevelInfo  EventLevel = "info"
	LevelWarn  EventLevel = "warn"
	LevelError EventLevel = "error"
)

// Event is a one-way progress notification emitted at stage entry and on
// non-fatal failures.
type Event struct {
	RunID   string       `json:"run_id" yaml:"run_id"`
	Stage   consts.Stage `json:"stage" yaml:"stage"`
	Level   EventLevel   `json:"level" yaml:"level"`
	Message string       `json:"message" yaml:"message"`
	Time    time.Time    `json:"time" yaml:"time"`
}

// Outcome is the terminal result of one startup run. Stage is READY on
// success, or the stage that failed.
type Outcome struct {
	RunID    string       `json:"run_id" yaml:"run_id"`
	Stage    consts.Stage `json:"stage" yaml:"stage"`
	Success  bool         `json:"success" yaml:"success"`
	Reason   string       `json:"reason,omitempty" yaml:"reason,omitempty"`
	Degraded bool         `json:"degraded" yaml:"degraded"` // ready without the required model
	Message  string       `json:"message" yaml:"message"`
	Warnings []string     `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Personal.AI order the ending
