package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/turtacn/Lulo/pkg/consts"
	lerrors "github.com/turtacn/Lulo/pkg/errors"
)

func writeFile(t *testing.T, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), "lulo.yaml")
	require.NoError(t, os.WriteFile(p, []byte(body), 0o600))
	return p
}

func TestLoad_DefaultsWhenOptionalFileMissing(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), false)
	require.NoError(t, err)

	assert.Equal(t, consts.DefaultEndpoint, cfg.Runtime.Endpoint)
	assert.Equal(t, consts.DefaultModelRef, cfg.Model.Ref)
	assert.Equal(t, consts.DefaultModelAlias, cfg.Model.Alias)
	assert.Equal(t, consts.DefaultPollAttempts, cfg.Health.PollAttempts)
	assert.NotEmpty(t, cfg.Runtime.ResourceDir)

	tm, err := ParseTimings(cfg)
	require.NoError(t, err)
	assert.Equal(t, 2*time.Second, tm.ProbeTimeout)
	assert.Equal(t, time.Second, tm.PollInterval)
}

func TestLoad_RequiredFileMissing(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"), true)
	require.Error(t, err)
	assert.Equal(t, lerrors.ErrCodeConfigInvalid, lerrors.CodeOf(err))
}

func TestLoad_FileOverrides(t *testing.T) {
	p := writeFile(t, `
runtime:
  binary: /opt/ollama/bin/ollama
  endpoint: http://127.0.0.1:22434
health:
  poll_interval: 250ms
  poll_attempts: 4
model:
  alias: short
`)
	cfg, err := Load(p, true)
	require.NoError(t, err)

	assert.Equal(t, "/opt/ollama/bin/ollama", cfg.Runtime.Binary)
	assert.Equal(t, "http://127.0.0.1:22434", cfg.Runtime.Endpoint)
	assert.Equal(t, 4, cfg.Health.PollAttempts)
	assert.Equal(t, "short", cfg.Model.Alias)
	assert.Equal(t, consts.DefaultModelRef, cfg.Model.Ref)
}

func TestLoad_EnvOverride(t *testing.T) {
	t.Setenv("LULO_MODEL_REF", "library/tiny:latest")
	t.Setenv("LULO_HEALTH_POLL_ATTEMPTS", "7")

	cfg, err := Load("", false)
	require.NoError(t, err)
	assert.Equal(t, "library/tiny:latest", cfg.Model.Ref)
	assert.Equal(t, 7, cfg.Health.PollAttempts)
}

func TestLoad_InvalidDuration(t *testing.T) {
	p := writeFile(t, "health:\n  probe_timeout: soon\n")
	_, err := Load(p, true)
	require.Error(t, err)
	assert.True(t, lerrors.HasCode(err, lerrors.ErrCodeConfigInvalid))
}

func TestParseTimings_RejectsNonPositive(t *testing.T) {
	cfg := Default()
	cfg.Health.PollAttempts = 0
	_, err := ParseTimings(&cfg)
	require.Error(t, err)

	cfg = Default()
	cfg.Health.PollInterval = "0s"
	_, err = ParseTimings(&cfg)
	require.Error(t, err)
}
