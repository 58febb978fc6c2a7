package archive

import (
	"errors"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/klauspost/compress/zstd"
	"github.com/m-mizutani/goerr/v2"
)

// ErrNotArchived is returned by Read when no archive exists for an ID.
var ErrNotArchived = goerr.New("original text is not archived")

// ErrInvalidID is returned for IDs that are not UUIDs.
var ErrInvalidID = goerr.New("invalid archive id")

// Store compresses text into archiveDir/{id}.txt.zst and returns the
// archive path.
func Store(text, id, archiveDir string) (string, error) {
	if err := validID(id); err != nil {
		return "", err
	}
	destPath := Path(id, archiveDir)

	if err := os.MkdirAll(archiveDir, 0o755); err != nil {
		return "", goerr.Wrap(err, "create archive dir", goerr.V("dir", archiveDir))
	}

	dest, err := os.Create(destPath)
	if err != nil {
		return "", goerr.Wrap(err, "create archive", goerr.V("path", destPath))
	}
	defer dest.Close()

	encoder, err := zstd.NewWriter(dest)
	if err != nil {
		return "", goerr.Wrap(err, "create zstd encoder")
	}

	if _, err := io.Copy(encoder, strings.NewReader(text)); err != nil {
		encoder.Close()
		return "", goerr.Wrap(err, "compress", goerr.V("path", destPath))
	}

	if err := encoder.Close(); err != nil {
		return "", goerr.Wrap(err, "finalize compression", goerr.V("path", destPath))
	}

	return destPath, nil
}

// Copy decompresses the archive for id into w.
func Copy(w io.Writer, id, archiveDir string) error {
	if err := validID(id); err != nil {
		return err
	}
	path := Path(id, archiveDir)

	src, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return goerr.Wrap(ErrNotArchived, "open archive", goerr.V("id", id))
		}
		return goerr.Wrap(err, "open archive", goerr.V("path", path))
	}
	defer src.Close()

	decoder, err := zstd.NewReader(src)
	if err != nil {
		return goerr.Wrap(err, "create zstd decoder")
	}
	defer decoder.Close()

	if _, err := io.Copy(w, decoder); err != nil {
		return goerr.Wrap(err, "decompress", goerr.V("path", path))
	}
	return nil
}

// Read returns the original text archived for id.
func Read(id, archiveDir string) (string, error) {
	var b strings.Builder
	if err := Copy(&b, id, archiveDir); err != nil {
		return "", err
	}
	return b.String(), nil
}

// IsArchived returns true if an archive file exists for the given ID.
func IsArchived(id, archiveDir string) bool {
	if validID(id) != nil {
		return false
	}
	_, err := os.Stat(Path(id, archiveDir))
	return err == nil
}

// Path returns the deterministic archive path for an ID.
func Path(id, archiveDir string) string {
	return filepath.Join(archiveDir, id+".txt.zst")
}

func validID(id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return goerr.Wrap(ErrInvalidID, "parse id", goerr.V("id", id))
	}
	return nil
}
