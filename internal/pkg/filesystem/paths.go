package filesystem

import (
	"os"
	"path/filepath"
)

// EnvConfigDir overrides the default configuration directory.
const EnvConfigDir = "WTF_CONFIG_DIR"

// Paths locates every file the program owns. It is built once at start-up
// and handed to the components that need file access.
type Paths struct {
	ConfigDir     string
	ConfigFile    string
	HistoryFile   string
	GuardrailFile string
	LogDir        string
	LogFile       string
}

// DefaultPaths resolves the directory from WTF_CONFIG_DIR, else ~/.config/wtf.
func DefaultPaths() Paths {
	if dir := os.Getenv(EnvConfigDir); dir != "" {
		return NewPaths(ExpandPath(dir))
	}
	return NewPaths(filepath.Join(UserHomeDir(), ".config", "wtf"))
}

// NewPaths lays out the files under dir.
func NewPaths(dir string) Paths {
	logDir := filepath.Join(dir, "logs")
	return Paths{
		ConfigDir:     dir,
		ConfigFile:    filepath.Join(dir, "config.yaml"),
		HistoryFile:   filepath.Join(dir, "history.json"),
		GuardrailFile: filepath.Join(dir, "guardrail.yaml"),
		LogDir:        logDir,
		LogFile:       filepath.Join(logDir, "wtf.log"),
	}
}

// Ensure creates the configuration and log directories.
func (p Paths) Ensure() error {
	for _, dir := range []string{p.ConfigDir, p.LogDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// ExpandPath resolves a leading "~/" against the home directory.
func ExpandPath(path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	if len(path) > 1 && path[:2] == "~/" {
		return filepath.Join(UserHomeDir(), path[2:])
	}
	return filepath.Clean(path)
}
