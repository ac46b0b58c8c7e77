package api

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// DirUploader stores signed documents on the local filesystem and
// returns a /uploads/ URL served by the router. Filenames get a uuid
// prefix so repeated uploads of the same document never collide.
type DirUploader struct {
	Dir string
}

func NewDirUploader(dir string) (*DirUploader, error) {
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DirUploader{Dir: dir}, nil
}

func (u *DirUploader) Upload(_ context.Context, filename string, content []byte) (string, error) {
	// Strip any path components a client may have smuggled in.
	base := filepath.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" || base == "" {
		base = "document.pdf"
	}
	name := uuid.NewString() + "-" + base

	if err := os.WriteFile(filepath.Join(u.Dir, name), content, 0644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return "/uploads/" + name, nil
}
