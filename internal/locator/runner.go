package locator

import (
	"context"
	"os/exec"
	"strings"
	"time"
)

// resolverTimeout bounds a single PATH lookup; login shells can stall on
// interactive profile scripts.
const resolverTimeout = 5 * time.Second

// Runner executes the OS command resolvers.
type Runner interface {
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
	LookPath(file string) (string, error)
}

// ExecRunner runs resolvers as real subprocesses.
type ExecRunner struct{}

func (ExecRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, resolverTimeout)
	defer cancel()
	// #nosec G204 -- fixed resolver commands
	return exec.CommandContext(ctx, name, args...).Output()
}

func (ExecRunner) LookPath(file string) (string, error) { return exec.LookPath(file) }

func firstLine(b []byte) string {
	s := strings.TrimSpace(string(b))
	if i := strings.IndexAny(s, "\r\n"); i >= 0 {
		s = s[:i]
	}
	return strings.TrimSpace(s)
}

// Personal.AI order the ending
