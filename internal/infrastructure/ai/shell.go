package ai

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"strconv"
	"strings"

	"github.com/doeshing/wtf-go/internal/domain"
)

// FallbackShell is used when every probe fails.
const FallbackShell = "sh"

var knownShells = map[string]bool{
	"sh": true, "bash": true, "zsh": true, "fish": true, "ksh": true, "mksh": true,
	"dash": true, "ash": true, "tcsh": true, "csh": true, "nu": true, "elvish": true,
	"xonsh": true, "pwsh": true, "powershell": true, "cmd": true,
}

// ShellProbe reports a shell name, or false when it cannot tell.
type ShellProbe func() (string, bool)

// ShellDetector tries its probes in order; the first success wins.
type ShellDetector struct {
	probes []ShellProbe
}

// NewShellDetector builds a detector from probes.
func NewShellDetector(probes ...ShellProbe) *ShellDetector {
	return &ShellDetector{probes: probes}
}

// DetectShell runs the default chain: $SHELL, the parent process, the OS family.
func DetectShell() string {
	return NewShellDetector(
		EnvProbe(os.Getenv),
		ParentProcessProbe(os.Getppid()),
		OSFamilyProbe(runtime.GOOS),
	).Detect()
}

// Detect never fails.
func (d *ShellDetector) Detect() string {
	for _, probe := range d.probes {
		if name, ok := probe(); ok {
			return name
		}
	}
	return FallbackShell
}

// EnvProbe reads the SHELL variable.
func EnvProbe(getenv func(string) string) ShellProbe {
	return func() (string, bool) {
		return normalizeShell(getenv("SHELL"))
	}
}

// ParentProcessProbe names the process that started us, via /proc when
// available and ps otherwise.
func ParentProcessProbe(ppid int) ShellProbe {
	return func() (string, bool) {
		if ppid <= 1 {
			return "", false
		}
		pid := strconv.Itoa(ppid)
		if data, err := os.ReadFile(filepath.Join("/proc", pid, "comm")); err == nil {
			return normalizeShell(string(data))
		}
		if runtime.GOOS == "windows" {
			return "", false
		}
		ctx, cancel := context.WithTimeout(context.Background(), domain.ProbeTimeout)
		defer cancel()
		out, err := exec.CommandContext(ctx, "ps", "-p", pid, "-o", "comm=").Output()
		if err != nil {
			return "", false
		}
		return normalizeShell(string(out))
	}
}

// OSFamilyProbe maps an operating system to its usual interactive shell.
func OSFamilyProbe(goos string) ShellProbe {
	return func() (string, bool) {
		switch goos {
		case "windows":
			return "powershell", true
		case "darwin":
			return "zsh", true
		case "linux", "freebsd", "openbsd", "netbsd", "dragonfly":
			return "bash", true
		default:
			return "", false
		}
	}
}

func normalizeShell(raw string) (string, bool) {
	name := strings.TrimSpace(raw)
	if name == "" {
		return "", false
	}
	name = filepath.Base(name)
	name = strings.TrimPrefix(name, "-")
	name = strings.TrimSuffix(strings.ToLower(name), ".exe")
	if !knownShells[name] {
		return "", false
	}
	return name, true
}
