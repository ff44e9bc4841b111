//go:build !windows

package installer

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	lerrors "github.com/turtacn/Lulo/pkg/errors"
)

// fakeRuntime writes a script that records each invocation and exits with
// the given codes for pull and cp.
func fakeRuntime(t *testing.T, pullCode, cpCode int) (bin, invocations string) {
	t.Helper()
	dir := t.TempDir()
	invocations = filepath.Join(dir, "invocations")
	bin = filepath.Join(dir, "ollama")
	script := fmt.Sprintf(`#!/bin/sh
echo "$*" >> %s
case "$1" in
  pull)
    echo "pulling manifest"
    printf 'pulling 10%%%%\rpulling 100%%%%\n' >&2
    exit %d ;;
  cp)
    exit %d ;;
esac
exit 3
`, invocations, pullCode, cpCode)
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	return bin, invocations
}

func readInvocations(t *testing.T, path string) []string {
	t.Helper()
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	return strings.Split(strings.TrimSpace(string(data)), "\n")
}

type lines struct {
	mu  sync.Mutex
	got []string
}

func (l *lines) add(s string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.got = append(l.got, s)
}

func TestPull_SuccessAliases(t *testing.T) {
	bin, inv := fakeRuntime(t, 0, 0)
	progress := &lines{}

	err := New(bin, "medgemma-vision", progress.add).Pull(context.Background(), "hf.co/x/model:Q8_0")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"pull hf.co/x/model:Q8_0",
		"cp hf.co/x/model:Q8_0 medgemma-vision",
	}, readInvocations(t, inv))
	assert.Contains(t, progress.got, "pulling manifest")
	assert.Contains(t, progress.got, "pulling 10%")
	assert.Contains(t, progress.got, "pulling 100%")
}

func TestPull_FailureSkipsAlias(t *testing.T) {
	bin, inv := fakeRuntime(t, 1, 0)

	err := New(bin, "medgemma-vision", nil).Pull(context.Background(), "hf.co/x/model:Q8_0")
	require.Error(t, err)
	assert.Equal(t, lerrors.ErrCodeDownloadFailed, lerrors.CodeOf(err))
	assert.Contains(t, err.Error(), "exited with code 1")
	assert.Equal(t, []string{"pull hf.co/x/model:Q8_0"}, readInvocations(t, inv))
}

func TestPull_AliasFailure(t *testing.T) {
	bin, inv := fakeRuntime(t, 0, 2)

	err := New(bin, "medgemma-vision", nil).Pull(context.Background(), "ref")
	require.Error(t, err)
	assert.Equal(t, lerrors.ErrCodeDownloadFailed, lerrors.CodeOf(err))
	assert.True(t, lerrors.HasCode(err, lerrors.ErrCodeAliasFailed))
	assert.Len(t, readInvocations(t, inv), 2)
}

func TestPull_FailureCarriesExitCode(t *testing.T) {
	bin, _ := fakeRuntime(t, 7, 0)

	err := New(bin, "alias", nil).Pull(context.Background(), "ref")
	require.Error(t, err)
	assert.Equal(t, 7, ExitCode(err))

	bin, _ = fakeRuntime(t, 0, 4)
	err = New(bin, "alias", nil).Pull(context.Background(), "ref")
	assert.Equal(t, 4, ExitCode(err), "alias exit code is kept")

	assert.Equal(t, -1, ExitCode(nil))
}

// Both streams feed one unsynchronized callback; run with -race.
func TestPull_ProgressCallsSerialized(t *testing.T) {
	dir := t.TempDir()
	bin := filepath.Join(dir, "ollama")
	script := `#!/bin/sh
case "$1" in
  pull)
    i=0
    while [ $i -lt 50 ]; do
      echo "out $i"
      echo "err $i" >&2
      i=$((i+1))
    done ;;
esac
exit 0
`
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))

	var got []string
	err := New(bin, "alias", func(line string) { got = append(got, line) }).Pull(context.Background(), "ref")
	require.NoError(t, err)
	assert.Len(t, got, 100)
}

func TestPull_MissingBinary(t *testing.T) {
	err := New(filepath.Join(t.TempDir(), "missing"), "", nil).Pull(context.Background(), "ref")
	assert.True(t, lerrors.HasCode(err, lerrors.ErrCodeDownloadFailed))
}

func TestPull_Cancelled(t *testing.T) {
	bin, _ := fakeRuntime(t, 0, 0)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := New(bin, "alias", nil).Pull(ctx, "ref")
	assert.True(t, lerrors.HasCode(err, lerrors.ErrCodeDownloadFailed))
}

func TestNew_DefaultAlias(t *testing.T) {
	assert.Equal(t, "medgemma-vision", New("ollama", "", nil).Alias())
}

func TestScanProgress(t *testing.T) {
	adv, tok, err := scanProgress([]byte("a\rb"), false)
	require.NoError(t, err)
	assert.Equal(t, 2, adv)
	assert.Equal(t, "a", string(tok))

	adv, tok, _ = scanProgress([]byte("tail"), true)
	assert.Equal(t, 4, adv)
	assert.Equal(t, "tail", string(tok))

	adv, tok, _ = scanProgress([]byte("partial"), false)
	assert.Zero(t, adv)
	assert.Nil(t, tok)
}
