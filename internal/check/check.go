package check

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/suykerbuyk/logvault/internal/classify"
	"github.com/suykerbuyk/logvault/internal/config"
	"github.com/suykerbuyk/logvault/internal/index"
	"github.com/suykerbuyk/logvault/internal/render"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "lv check\n\n  no checks ran\n"
	}

	// Find max name length for alignment.
	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("lv check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports the config file in use.
func CheckConfig(path string) Result {
	if _, err := os.Stat(path); err != nil {
		return Result{Name: "config", Status: Warn, Detail: config.CompressHome(path) + " not found (using defaults)"}
	}
	return Result{Name: "config", Status: Pass, Detail: config.CompressHome(path)}
}

// CheckRoot checks whether the root directory exists and is writable.
func CheckRoot(path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: "root", Status: Warn, Detail: config.CompressHome(path) + " not found (created on first write)"}
	}
	if !info.IsDir() {
		return Result{Name: "root", Status: Fail, Detail: config.CompressHome(path) + " is not a directory"}
	}

	probe, err := os.CreateTemp(path, ".lv-check-*")
	if err != nil {
		return Result{Name: "root", Status: Fail, Detail: config.CompressHome(path) + " not writable"}
	}
	probe.Close()
	os.Remove(probe.Name())

	return Result{Name: "root", Status: Pass, Detail: config.CompressHome(path)}
}

// CheckProjects reports project directories and filed log count.
func CheckProjects(root, stateDir string) Result {
	entries, err := os.ReadDir(root)
	if err != nil {
		return Result{Name: "projects", Status: Warn, Detail: "no projects yet"}
	}

	projects := 0
	notes := 0
	for _, e := range entries {
		if !e.IsDir() || e.Name() == render.UncategorizedDir {
			continue
		}
		dir := filepath.Join(root, e.Name())
		if dir == stateDir {
			continue
		}
		projects++
		notes += countMD(dir)
	}
	return Result{Name: "projects", Status: Pass, Detail: fmt.Sprintf("%d projects (%d logs)", projects, notes)}
}

// CheckUncategorized reports raw fallback files waiting to be sorted.
func CheckUncategorized(root string) Result {
	dir := filepath.Join(root, render.UncategorizedDir)
	if _, err := os.Stat(dir); err != nil {
		return Result{Name: "uncategorized", Status: Pass, Detail: "none"}
	}
	count := countMD(dir)
	if count == 0 {
		return Result{Name: "uncategorized", Status: Pass, Detail: "none"}
	}
	return Result{Name: "uncategorized", Status: Warn, Detail: fmt.Sprintf("%d unclassified logs in %s/", count, render.UncategorizedDir)}
}

func countMD(dir string) int {
	count := 0
	filepath.WalkDir(dir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() && strings.HasSuffix(d.Name(), ".md") {
			count++
		}
		return nil
	})
	return count
}

// CheckStateDir checks whether the .logvault state directory exists.
func CheckStateDir(stateDir string) Result {
	if info, err := os.Stat(stateDir); err == nil && info.IsDir() {
		return Result{Name: "state", Status: Pass, Detail: config.StateDirName + "/ found"}
	}
	return Result{Name: "state", Status: Warn, Detail: config.StateDirName + "/ not found (fresh root)"}
}

// CheckIndex validates the index.json file.
func CheckIndex(stateDir string) Result {
	path := filepath.Join(stateDir, index.FileName)
	data, err := os.ReadFile(path)
	if err != nil {
		return Result{Name: "index", Status: Warn, Detail: index.FileName + " not found yet"}
	}

	var parsed map[string]json.RawMessage
	if err := json.Unmarshal(data, &parsed); err != nil {
		return Result{Name: "index", Status: Fail, Detail: index.FileName + " invalid JSON (run lv index rebuild)"}
	}

	return Result{Name: "index", Status: Pass, Detail: fmt.Sprintf("%s (%d entries)", index.FileName, len(parsed))}
}

// CheckClassifier checks that the configured provider can authenticate.
func CheckClassifier(cc config.ClassifierConfig) Result {
	provider := cc.Provider
	if provider == "" {
		provider = "gemini"
	}
	detail := provider + "/" + cc.Model

	switch strings.ToLower(provider) {
	case "gemini", "openai", "vertex":
	default:
		return Result{Name: "classifier", Status: Fail, Detail: "unknown provider " + provider}
	}

	if !classify.NeedsAPIKey(provider) {
		if cc.ProjectID == "" {
			return Result{Name: "classifier", Status: Fail, Detail: detail + ": project_id not set"}
		}
		return Result{Name: "classifier", Status: Pass, Detail: detail + " (" + cc.ProjectID + ")"}
	}

	if strings.EqualFold(provider, "openai") && cc.BaseURL == "" {
		return Result{Name: "classifier", Status: Fail, Detail: detail + ": base_url not set"}
	}
	if cc.APIKey() == "" {
		return Result{Name: "classifier", Status: Fail, Detail: detail + ": " + cc.APIKeyEnv + " not set"}
	}
	return Result{Name: "classifier", Status: Pass, Detail: detail + ": " + cc.APIKeyEnv + " set"}
}

// CheckArchive reports whether originals are archived.
func CheckArchive(cfg config.Config) Result {
	if !cfg.Archive.Enabled {
		return Result{Name: "archive", Status: Pass, Detail: "disabled"}
	}
	entries, err := os.ReadDir(cfg.ArchiveDir())
	if err != nil {
		return Result{Name: "archive", Status: Pass, Detail: "enabled (empty)"}
	}
	return Result{Name: "archive", Status: Pass, Detail: fmt.Sprintf("enabled (%d originals)", len(entries))}
}

// Run executes all checks against the given config and returns a report.
func Run(cfg config.Config, configPath string) Report {
	var results []Result

	results = append(results, CheckConfig(configPath))
	results = append(results, CheckRoot(cfg.RootPath))
	results = append(results, CheckProjects(cfg.RootPath, cfg.StateDir()))
	results = append(results, CheckUncategorized(cfg.RootPath))
	results = append(results, CheckStateDir(cfg.StateDir()))
	results = append(results, CheckIndex(cfg.StateDir()))
	results = append(results, CheckClassifier(cfg.Classifier))
	results = append(results, CheckArchive(cfg))

	return Report{Results: results}
}
