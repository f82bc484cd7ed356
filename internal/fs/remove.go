package fs

import (
	"context"
	"os"
)

// wraps os.RemoveAll with retry logic.
// Restore points can sit on network mounts where removal hits transient
// errors; retrying makes the delete-or-leave-intact contract hold more often.

func removeAllWithRetry(ctx context.Context, path string) error {
	return retry(ctx, "remove", func() error {
		return os.RemoveAll(path)
	})
}
