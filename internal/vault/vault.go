// Package vault writes artifacts under the storage root.
package vault

import (
	"fmt"
	"os"

	"github.com/m-mizutani/goerr/v2"

	"github.com/suykerbuyk/logvault/internal/render"
)

// ErrIO marks a directory or file write failure.
var ErrIO = goerr.New("artifact write failed")

// Write creates the artifact directory if needed and writes the content,
// replacing any existing file at the same path. It returns the full path.
func Write(a render.Artifact) (string, error) {
	if err := os.MkdirAll(a.Dir, 0o755); err != nil {
		return "", goerr.Wrap(fmt.Errorf("%w: %w", ErrIO, err), "create artifact dir", goerr.V("dir", a.Dir))
	}

	path := a.Path()
	if err := os.WriteFile(path, []byte(a.Content), 0o644); err != nil {
		return "", goerr.Wrap(fmt.Errorf("%w: %w", ErrIO, err), "write artifact", goerr.V("path", path))
	}

	return path, nil
}

// Fallback writes the original text of e, unmodified, to the uncategorized
// directory under root and returns the full path.
func Fallback(root string, e render.Entry) (string, error) {
	return Write(render.Fallback(root, e))
}
