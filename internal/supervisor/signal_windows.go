//go:build windows

package supervisor

import (
	"errors"
	"os"
)

// Windows has no SIGTERM for console-less processes; terminate is a kill.
func terminate(p *os.Process) error {
	return kill(p)
}

func kill(p *os.Process) error {
	if err := p.Kill(); err != nil && !errors.Is(err, os.ErrProcessDone) {
		return err
	}
	return nil
}

// Personal.AI order the ending
