package interfaces

import (
	"context"
	"io"
)

// AssetContainer is a named destination for uploaded files (a disk folder,
// a bucket, ...). Put stores the payload under folder/name and returns the
// stored path relative to the container root. Put never replaces an existing
// file; it fails with an error matching fs.ErrExist instead.
type AssetContainer interface {
	Handle() string
	Put(ctx context.Context, folder, name string, body io.Reader) (string, error)
}

// AssetContainerRegistry resolves asset containers by handle.
type AssetContainerRegistry interface {
	FindByHandle(ctx context.Context, handle string) (AssetContainer, error)
}
