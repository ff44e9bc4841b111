package main

import (
	"os"
	"runtime/debug"

	"github.com/turtacn/Lulo/internal/cli"
	"github.com/turtacn/Lulo/pkg/logger"
)

func main() {
	os.Exit(run())
}

// run keeps deferred cleanup ahead of os.Exit. Exit codes: 0 ok, 1 command
// error, 2 panic.
func run() (code int) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("Panic recovered", "panic", r, "stack", string(debug.Stack()))
			code = 2
		}
	}()

	if err := cli.Execute(); err != nil {
		return 1
	}
	return 0
}

// Personal.AI order the ending
