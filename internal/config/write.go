package config

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

var rootPathLine = regexp.MustCompile(`(?m)^root_path\s*=.*$`)

// ConfigDir returns the logvault config directory path.
// Uses $XDG_CONFIG_HOME/logvault if set, otherwise ~/.config/logvault.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "logvault")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "logvault")
}

// WriteDefault writes a default config.toml pointing to rootPath and returns
// its path with the action taken: "created" for a new file, "updated" when an
// existing file had its root_path rewritten.
func WriteDefault(rootPath string) (string, string, error) {
	dir := ConfigDir()
	path := filepath.Join(dir, "config.toml")
	portablePath := CompressHome(rootPath)

	if data, err := os.ReadFile(path); err == nil {
		line := fmt.Sprintf("root_path = %q", portablePath)
		content := string(data)
		if rootPathLine.MatchString(content) {
			content = rootPathLine.ReplaceAllLiteralString(content, line)
		} else {
			content = line + "\n" + content
		}
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			return "", "", goerr.Wrap(err, "update config", goerr.V("path", path))
		}
		return path, "updated", nil
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", "", goerr.Wrap(err, "create config dir", goerr.V("dir", dir))
	}

	models := make([]string, len(DefaultModels))
	for i, m := range DefaultModels {
		models[i] = fmt.Sprintf("%q", m)
	}

	content := fmt.Sprintf(`root_path = %q

[classifier]
provider = "gemini"
model = %q
api_key_env = "GOOGLE_API_KEY"
base_url = ""
project_id = ""
location = "us-central1"
timeout_seconds = 0
models = [%s]

[archive]
enabled = false

[watch]
settle_millis = 500

[log]
level = "info"
format = "console"
`, portablePath, DefaultModels[0], strings.Join(models, ", "))

	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		return "", "", goerr.Wrap(err, "write config", goerr.V("path", path))
	}

	return path, "created", nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
