package locator

import (
	"context"
	"os"
	"path/filepath"
	"runtime"

	"github.com/turtacn/Lulo/pkg/consts"
)

// Env holds the directories well-known install paths are derived from.
type Env struct {
	Home            string
	LocalAppData    string
	ProgramFiles    string
	ProgramFilesX86 string
}

// EnvFromOS reads Env from the process environment.
func EnvFromOS() Env {
	home := os.Getenv("HOME")
	if home == "" {
		home = os.Getenv("USERPROFILE")
	}
	return Env{
		Home:            home,
		LocalAppData:    os.Getenv("LOCALAPPDATA"),
		ProgramFiles:    os.Getenv("ProgramFiles"),
		ProgramFilesX86: os.Getenv("ProgramFiles(x86)"),
	}.withDefaults()
}

func (e Env) withDefaults() Env {
	if e.LocalAppData == "" {
		e.LocalAppData = filepath.Join(e.Home, "AppData", "Local")
	}
	if e.ProgramFiles == "" {
		e.ProgramFiles = `C:\Program Files`
	}
	if e.ProgramFilesX86 == "" {
		e.ProgramFilesX86 = `C:\Program Files (x86)`
	}
	return e
}

// Resolver asks the OS where the binary is. It returns an empty string when
// the command did not resolve.
type Resolver struct {
	Name    string
	Resolve func(ctx context.Context, r Runner, binary string) string
}

// Strategy is the per-platform search table.
type Strategy struct {
	BinaryName string
	WellKnown  func(Env) []string
	Resolvers  []Resolver
}

var strategies = map[consts.Platform]Strategy{
	consts.PlatformWindows: {
		BinaryName: consts.BinaryName + ".exe",
		WellKnown: func(e Env) []string {
			return []string{
				filepath.Join(e.LocalAppData, "Programs", "Ollama", "ollama.exe"),
				filepath.Join(e.LocalAppData, "Ollama", "ollama.exe"),
				filepath.Join(e.LocalAppData, "Ollama", "ollama app.exe"),
				filepath.Join(e.ProgramFiles, "Ollama", "ollama.exe"),
				filepath.Join(e.ProgramFilesX86, "Ollama", "ollama.exe"),
				filepath.Join(e.Home, "AppData", "Local", "Programs", "Ollama", "ollama.exe"),
				filepath.Join(e.Home, "AppData", "Local", "Ollama", "ollama.exe"),
				filepath.Join(e.Home, "AppData", "Local", "Ollama", "ollama app.exe"),
				`C:\Ollama\ollama.exe`,
			}
		},
		Resolvers: []Resolver{
			commandResolver("where", func(bin string) (string, []string) { return "where", []string{bin} }),
			commandResolver("powershell", func(bin string) (string, []string) {
				// The profile is loaded so PATH edits made there are visible.
				return "powershell", []string{"-Command", "(Get-Command " + bin + " -ErrorAction SilentlyContinue).Source"}
			}),
		},
	},
	consts.PlatformDarwin: unixStrategy(),
	consts.PlatformLinux:  unixStrategy(),
}

func unixStrategy() Strategy {
	return Strategy{
		BinaryName: consts.BinaryName,
		WellKnown: func(e Env) []string {
			return []string{
				"/usr/local/bin/ollama",
				"/opt/homebrew/bin/ollama",
				"/usr/bin/ollama",
				filepath.Join(e.Home, ".local", "bin", "ollama"),
				filepath.Join(e.Home, "bin", "ollama"),
			}
		},
		// Login shells first so profile PATH edits (.zshrc, .bash_profile) apply.
		Resolvers: []Resolver{
			commandResolver("zsh-login", func(bin string) (string, []string) { return "/bin/zsh", []string{"-lc", "which " + bin} }),
			commandResolver("bash-login", func(bin string) (string, []string) { return "/bin/bash", []string{"-lc", "which " + bin} }),
			{
				Name: "lookpath",
				Resolve: func(_ context.Context, r Runner, bin string) string {
					p, err := r.LookPath(bin)
					if err != nil {
						return ""
					}
					return p
				},
			},
		},
	}
}

func commandResolver(name string, build func(bin string) (string, []string)) Resolver {
	return Resolver{
		Name: name,
		Resolve: func(ctx context.Context, r Runner, bin string) string {
			cmd, args := build(bin)
			out, err := r.Output(ctx, cmd, args...)
			if err != nil {
				return ""
			}
			return firstLine(out)
		},
	}
}

// PlatformFor maps a GOOS value to a strategy key. Unix flavours other than
// darwin share the linux table.
func PlatformFor(goos string) consts.Platform {
	switch goos {
	case "windows":
		return consts.PlatformWindows
	case "darwin":
		return consts.PlatformDarwin
	default:
		return consts.PlatformLinux
	}
}

// CurrentPlatform is PlatformFor(runtime.GOOS).
func CurrentPlatform() consts.Platform { return PlatformFor(runtime.GOOS) }

// StrategyFor returns the search table for p.
func StrategyFor(p consts.Platform) Strategy {
	if s, ok := strategies[p]; ok {
		return s
	}
	return strategies[consts.PlatformLinux]
}

// Personal.AI order the ending
