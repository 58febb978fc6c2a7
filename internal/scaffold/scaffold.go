package scaffold

import (
	"embed"
	"errors"
	"io/fs"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
)

//go:embed all:templates
var templates embed.FS

// Options controls scaffold behavior.
type Options struct {
	GitInit bool // run git init after scaffolding
}

// Init lays out a log root at targetPath and returns the files it created,
// relative to the root. Existing files are left untouched, so running it on
// a populated root only fills in what is missing.
func Init(targetPath string, opts Options) ([]string, error) {
	targetPath, err := filepath.Abs(targetPath)
	if err != nil {
		return nil, goerr.Wrap(err, "resolve path")
	}

	if info, err := os.Stat(targetPath); err == nil && !info.IsDir() {
		return nil, goerr.New("root is not a directory", goerr.V("path", targetPath))
	}

	rootName := filepath.Base(targetPath)
	var created []string

	// Walk embedded templates and copy to target.
	err = fs.WalkDir(templates, "templates", func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}

		// Strip the "templates/" prefix to get the relative path within the root.
		rel, err := filepath.Rel("templates", path)
		if err != nil {
			return err
		}
		if rel == "." {
			return os.MkdirAll(targetPath, 0o755)
		}

		dest := filepath.Join(targetPath, rel)

		if d.IsDir() {
			return os.MkdirAll(dest, 0o755)
		}

		if _, err := os.Stat(dest); err == nil {
			return nil
		} else if !errors.Is(err, fs.ErrNotExist) {
			return err
		}

		data, err := templates.ReadFile(path)
		if err != nil {
			return goerr.Wrap(err, "read embedded template", goerr.V("path", path))
		}

		// Template substitution for README.md
		if rel == "README.md" {
			data = []byte(strings.ReplaceAll(string(data), "{{ROOT_NAME}}", rootName))
		}

		if err := os.WriteFile(dest, data, 0o644); err != nil {
			return err
		}
		created = append(created, rel)
		return nil
	})
	if err != nil {
		return created, goerr.Wrap(err, "scaffold root", goerr.V("path", targetPath))
	}

	if opts.GitInit && !dirExists(filepath.Join(targetPath, ".git")) {
		cmd := exec.Command("git", "init", targetPath)
		cmd.Stdout = os.Stdout
		cmd.Stderr = os.Stderr
		if err := cmd.Run(); err != nil {
			return created, goerr.Wrap(err, "git init", goerr.V("path", targetPath))
		}
	}

	return created, nil
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
