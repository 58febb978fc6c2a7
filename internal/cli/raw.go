package cli

import (
	"context"
	"errors"
	"io"
	"path/filepath"
	"strings"

	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"

	"github.com/suykerbuyk/logvault/internal/archive"
	"github.com/suykerbuyk/logvault/internal/index"
	"github.com/suykerbuyk/logvault/internal/noteparse"
)

func cmdRaw(a *app) *cli.Command {
	return &cli.Command{
		Name:      "raw",
		Usage:     "print the original text of a filed log",
		ArgsUsage: "<id>",
		Action: func(ctx context.Context, c *cli.Command) error {
			id := c.Args().First()
			if id == "" {
				return goerr.New("usage: lv raw <id>")
			}
			return a.printRaw(id)
		},
	}
}

// printRaw writes the archived original for id, or the body recovered from
// the artifact when nothing was archived.
func (a *app) printRaw(id string) error {
	err := archive.Copy(a.stdout, id, a.cfg.ArchiveDir())
	if err == nil {
		return nil
	}
	if !errors.Is(err, archive.ErrNotArchived) {
		return err
	}

	idx, err := index.Load(a.cfg.StateDir())
	if err != nil {
		return err
	}
	entry, ok := idx.Get(id)
	if !ok {
		return goerr.New("no such index entry", goerr.V("id", id))
	}

	note, err := noteparse.ParseFile(filepath.Join(a.cfg.RootPath, entry.Path))
	if err != nil {
		return err
	}
	_, err = io.Copy(a.stdout, strings.NewReader(note.Body))
	return err
}
