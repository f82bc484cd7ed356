// Package fs defines the filesystem abstraction used by ova-manager.
// The catalog reads through it and the deletion engine destroys through it,
// which keeps removal failures injectable in tests.
package fs

import (
	"context"
	"os"
)

type FS interface {
	Stat(path string) (os.FileInfo, error)
	ReadDir(path string) ([]os.DirEntry, error)
	RemoveAll(ctx context.Context, path string) error
}
