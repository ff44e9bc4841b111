package probe

import (
	"context"
	"net"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lerrors "github.com/turtacn/Lulo/pkg/errors"
)

func tagsServer(t *testing.T, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/tags", r.URL.Path)
		assert.Equal(t, http.MethodGet, r.Method)
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return srv
}

// refusedEndpoint returns an address nothing listens on.
func refusedEndpoint(t *testing.T) string {
	t.Helper()
	l, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := l.Addr().String()
	require.NoError(t, l.Close())
	return "http://" + addr
}

func TestIsRunning_OK(t *testing.T) {
	srv := tagsServer(t, http.StatusOK, `{"models":[]}`)
	assert.True(t, New(srv.URL, time.Second).IsRunning(context.Background()))
}

func TestIsRunning_FalseConditions(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		p := New(refusedEndpoint(t), time.Second)
		assert.False(t, p.IsRunning(context.Background()))
	})

	t.Run("non-200 status", func(t *testing.T) {
		srv := tagsServer(t, http.StatusServiceUnavailable, "")
		assert.False(t, New(srv.URL, time.Second).IsRunning(context.Background()))
	})

	t.Run("timeout exceeded", func(t *testing.T) {
		release := make(chan struct{})
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		t.Cleanup(func() {
			close(release)
			srv.Close()
		})

		start := time.Now()
		p := New(srv.URL, 100*time.Millisecond)
		assert.False(t, p.IsRunning(context.Background()))
		assert.Less(t, time.Since(start), 2*time.Second)
	})

	t.Run("bad host", func(t *testing.T) {
		p := New("http://invalid.invalid:11434", 500*time.Millisecond)
		assert.False(t, p.IsRunning(context.Background()))
	})
}

func TestListModels(t *testing.T) {
	srv := tagsServer(t, http.StatusOK,
		`{"models":[{"name":"medgemma-vision:latest","size":1},{"name":"llama3:8b"}]}`)
	p := New(srv.URL, time.Second)

	models, err := p.ListModels(context.Background())
	require.NoError(t, err)
	assert.Len(t, models, 2)
	assert.Contains(t, models, "llama3:8b")

	assert.True(t, p.HasModel(context.Background(), "medgemma-vision"))
	assert.False(t, p.HasModel(context.Background(), "mistral"))
}

func TestListModels_MalformedBodyIsEmpty(t *testing.T) {
	for name, body := range map[string]string{
		"garbage":     "not json",
		"empty":       "",
		"no models":   `{"other":1}`,
		"wrong shape": `{"models":"x"}`,
	} {
		t.Run(name, func(t *testing.T) {
			srv := tagsServer(t, http.StatusOK, body)
			models, err := New(srv.URL, time.Second).ListModels(context.Background())
			require.NoError(t, err)
			assert.Empty(t, models)
		})
	}
}

func TestListModels_Unreachable(t *testing.T) {
	_, err := New(refusedEndpoint(t), time.Second).ListModels(context.Background())
	require.Error(t, err)
	assert.Equal(t, lerrors.ErrCodeProbeUnreachable, lerrors.CodeOf(err))

	srv := tagsServer(t, http.StatusInternalServerError, "")
	_, err = New(srv.URL, time.Second).ListModels(context.Background())
	require.Error(t, err)
	assert.Equal(t, lerrors.ErrCodeProbeUnreachable, lerrors.CodeOf(err))
}

func TestNew_Defaults(t *testing.T) {
	p := New("", 0)
	assert.Equal(t, "http://127.0.0.1:11434", p.endpoint)
	assert.Equal(t, 2*time.Second, p.client.Timeout)
}
