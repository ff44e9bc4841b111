package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"
	"github.com/turtacn/Lulo/pkg/consts"
	lerrors "github.com/turtacn/Lulo/pkg/errors"
	"github.com/turtacn/Lulo/pkg/protocol"
)

// EnvPrefix is the prefix for environment overrides, e.g. LULO_MODEL_REF.
const EnvPrefix = "LULO"

// Timings holds the parsed durations of a Config.
type Timings struct {
	ProbeTimeout time.Duration
	PollInterval time.Duration
	PollAttempts int
	StopTimeout  time.Duration
}

// Default returns the built-in configuration.
func Default() protocol.Config {
	return protocol.Config{
		Version: "1",
		Runtime: protocol.RuntimeConfig{
			Endpoint:    consts.DefaultEndpoint,
			StopTimeout: consts.DefaultStopTimeout.String(),
		},
		Health: protocol.HealthConfig{
			ProbeTimeout: consts.DefaultProbeTimeout.String(),
			PollInterval: consts.DefaultPollInterval.String(),
			PollAttempts: consts.DefaultPollAttempts,
		},
		Model: protocol.ModelConfig{
			Ref:   consts.DefaultModelRef,
			Alias: consts.DefaultModelAlias,
			Match: consts.DefaultModelMatch,
			Size:  consts.DefaultModelSize,
		},
		Observability: protocol.ObservabilityConfig{
			LogLevel:  "info",
			LogFormat: "json",
		},
	}
}

func setDefaults(v *viper.Viper) {
	d := Default()
	v.SetDefault("version", d.Version)
	v.SetDefault("runtime.binary", d.Runtime.Binary)
	v.SetDefault("runtime.resource_dir", d.Runtime.ResourceDir)
	v.SetDefault("runtime.app_dir", d.Runtime.AppDir)
	v.SetDefault("runtime.endpoint", d.Runtime.Endpoint)
	v.SetDefault("runtime.log_file", d.Runtime.LogFile)
	v.SetDefault("runtime.stop_timeout", d.Runtime.StopTimeout)
	v.SetDefault("health.probe_timeout", d.Health.ProbeTimeout)
	v.SetDefault("health.poll_interval", d.Health.PollInterval)
	v.SetDefault("health.poll_attempts", d.Health.PollAttempts)
	v.SetDefault("model.ref", d.Model.Ref)
	v.SetDefault("model.alias", d.Model.Alias)
	v.SetDefault("model.match", d.Model.Match)
	v.SetDefault("model.size", d.Model.Size)
	v.SetDefault("observability.metrics_addr", d.Observability.MetricsAddr)
	v.SetDefault("observability.log_level", d.Observability.LogLevel)
	v.SetDefault("observability.log_format", d.Observability.LogFormat)
	v.SetDefault("observability.log_file", d.Observability.LogFile)
}

// Load reads the YAML file at path on top of the defaults and applies
// LULO_* environment overrides. A missing file is an error only when
// required is true.
func Load(path string, required bool) (*protocol.Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			_, statErr := os.Stat(path)
			if required || statErr == nil {
				return nil, lerrors.New(lerrors.ErrCodeConfigInvalid, "LoadConfig", "cannot read "+path, err)
			}
		}
	}

	var cfg protocol.Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, lerrors.New(lerrors.ErrCodeConfigInvalid, "LoadConfig", "cannot decode config", err)
	}
	fillDirs(&cfg)
	if _, err := ParseTimings(&cfg); err != nil {
		return nil, err
	}
	if cfg.Model.Ref == "" || cfg.Model.Alias == "" {
		return nil, lerrors.New(lerrors.ErrCodeConfigInvalid, "LoadConfig", "model.ref and model.alias are required", nil)
	}
	return &cfg, nil
}

// fillDirs defaults the resource and app directories to the directory of
// the running executable.
func fillDirs(cfg *protocol.Config) {
	if cfg.Runtime.ResourceDir != "" && cfg.Runtime.AppDir != "" {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		return
	}
	dir := filepath.Dir(exe)
	if cfg.Runtime.ResourceDir == "" {
		cfg.Runtime.ResourceDir = dir
	}
	if cfg.Runtime.AppDir == "" {
		cfg.Runtime.AppDir = dir
	}
}

// ParseTimings validates and parses the duration fields of cfg.
func ParseTimings(cfg *protocol.Config) (Timings, error) {
	var t Timings
	var err error
	if t.ProbeTimeout, err = parsePositive("health.probe_timeout", cfg.Health.ProbeTimeout); err != nil {
		return t, err
	}
	if t.PollInterval, err = parsePositive("health.poll_interval", cfg.Health.PollInterval); err != nil {
		return t, err
	}
	if t.StopTimeout, err = parsePositive("runtime.stop_timeout", cfg.Runtime.StopTimeout); err != nil {
		return t, err
	}
	if cfg.Health.PollAttempts <= 0 {
		return t, lerrors.New(lerrors.ErrCodeConfigInvalid, "LoadConfig",
			fmt.Sprintf("health.poll_attempts must be positive, got %d", cfg.Health.PollAttempts), nil)
	}
	t.PollAttempts = cfg.Health.PollAttempts
	return t, nil
}

func parsePositive(key, s string) (time.Duration, error) {
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, lerrors.New(lerrors.ErrCodeConfigInvalid, "LoadConfig", key+" is not a duration", err)
	}
	if d <= 0 {
		return 0, lerrors.New(lerrors.ErrCodeConfigInvalid, "LoadConfig", key+" must be positive", nil)
	}
	return d, nil
}

// Personal.AI order the ending
