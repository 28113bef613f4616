package assets

import (
	"context"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"
)

// DiskContainer stores files below a root directory on the local disk.
type DiskContainer struct {
	handle string
	root   string
}

// NewDiskContainer returns a container rooted at dir.
func NewDiskContainer(handle, dir string) *DiskContainer {
	return &DiskContainer{
		handle: strings.TrimSpace(handle),
		root:   filepath.Clean(dir),
	}
}

// Handle returns the container handle.
func (c *DiskContainer) Handle() string {
	return c.handle
}

// Root returns the directory files are written to.
func (c *DiskContainer) Root() string {
	return c.root
}

// Put writes body to folder/name and returns the root-anchored path
// ("/folder/name"). Folder and name cannot escape the container root. An
// existing file is left alone and the error matches fs.ErrExist.
func (c *DiskContainer) Put(ctx context.Context, folder, name string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	name = path.Base(strings.ReplaceAll(name, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		return "", fmt.Errorf("assets: invalid file name %q", name)
	}
	rel := path.Join(path.Clean("/"+strings.TrimSpace(folder)), name)

	dest := filepath.Join(c.root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(dest), 0o755); err != nil {
		return "", fmt.Errorf("assets: create folder: %w", err)
	}
	file, err := os.OpenFile(dest, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return "", fmt.Errorf("assets: open %s: %w", rel, err)
	}
	if _, err := io.Copy(file, body); err != nil {
		_ = file.Close()
		_ = os.Remove(dest)
		return "", fmt.Errorf("assets: write %s: %w", rel, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("assets: close %s: %w", rel, err)
	}
	return rel, nil
}
