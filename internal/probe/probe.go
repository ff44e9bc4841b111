package probe

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/turtacn/Lulo/internal/monitor"
	"github.com/turtacn/Lulo/pkg/consts"
	lerrors "github.com/turtacn/Lulo/pkg/errors"
	"github.com/turtacn/Lulo/pkg/logger"
)

// maxBody caps how much of a /api/tags response is read.
const maxBody = 4 << 20

// HealthProbe checks the runtime's local control endpoint. Every call issues
// exactly one GET bounded by the probe timeout; nothing is cached.
type HealthProbe struct {
	endpoint string
	client   *http.Client
}

// New creates a HealthProbe for endpoint (e.g. http://127.0.0.1:11434).
// A non-positive timeout selects the 2s default.
func New(endpoint string, timeout time.Duration) *HealthProbe {
	if endpoint == "" {
		endpoint = consts.DefaultEndpoint
	}
	if timeout <= 0 {
		timeout = consts.DefaultProbeTimeout
	}
	return &HealthProbe{
		endpoint: strings.TrimSuffix(endpoint, "/"),
		client:   &http.Client{Timeout: timeout},
	}
}

type tagsResponse struct {
	Models []struct {
		Name string `json:"name"`
	} `json:"models"`
}

func (p *HealthProbe) get(ctx context.Context) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.endpoint+consts.TagsPath, nil)
	if err != nil {
		return nil, err
	}
	return p.client.Do(req)
}

// IsRunning reports whether the runtime answered 200. Refused connections,
// timeouts and any other status are a plain false.
func (p *HealthProbe) IsRunning(ctx context.Context) bool {
	resp, err := p.get(ctx)
	if err != nil {
		logger.Log.Debug("Probe: runtime unreachable", "endpoint", p.endpoint, "err", err)
		monitor.ObserveProbe("is_running", false)
		return false
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxBody))

	ok := resp.StatusCode == http.StatusOK
	if !ok {
		logger.Log.Debug("Probe: unexpected status", "endpoint", p.endpoint, "status", resp.StatusCode)
	}
	monitor.ObserveProbe("is_running", ok)
	return ok
}

// ListModels returns the set of installed model names. An unreachable
// runtime is a ProbeUnreachable error; a malformed body is an empty set.
func (p *HealthProbe) ListModels(ctx context.Context) (map[string]struct{}, error) {
	resp, err := p.get(ctx)
	if err != nil {
		monitor.ObserveProbe("list_models", false)
		return nil, lerrors.New(lerrors.ErrCodeProbeUnreachable, "ListModels", "runtime not reachable", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		monitor.ObserveProbe("list_models", false)
		return nil, lerrors.New(lerrors.ErrCodeProbeUnreachable, "ListModels",
			fmt.Sprintf("unexpected status %d", resp.StatusCode), nil)
	}
	monitor.ObserveProbe("list_models", true)

	models := make(map[string]struct{})
	var tags tagsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxBody)).Decode(&tags); err != nil {
		logger.Log.Warn("Probe: malformed tags body, treating as no models", "err", err)
		return models, nil
	}
	for _, m := range tags.Models {
		if m.Name != "" {
			models[m.Name] = struct{}{}
		}
	}
	return models, nil
}

// HasModel reports whether any installed model name contains substr.
func (p *HealthProbe) HasModel(ctx context.Context, substr string) bool {
	models, err := p.ListModels(ctx)
	if err != nil {
		logger.Log.Debug("Probe: model check failed", "err", err)
		return false
	}
	return ContainsModel(models, substr)
}

// ContainsModel is the membership test used against a ListModels result.
func ContainsModel(models map[string]struct{}, substr string) bool {
	for name := range models {
		if strings.Contains(name, substr) {
			return true
		}
	}
	return false
}

// Personal.AI order the ending
