package catalog

import "errors"

// sentinel errors returned by catalog operations. Callers classify with
// errors.Is; the HTTP layer maps them onto status codes.
var (
	// ErrInvalidName means the name does not carry the restore point
	// prefix or contains a path separator.
	ErrInvalidName = errors.New("invalid restore point name")

	// ErrNotFound means no entry with that name exists under the root.
	ErrNotFound = errors.New("restore point not found")

	// ErrNotDirectory means the name resolved to a plain file. Deletion
	// refuses such targets.
	ErrNotDirectory = errors.New("restore point is not a directory")

	// ErrDeleteFailed wraps the underlying failure when removal dies
	// partway through.
	ErrDeleteFailed = errors.New("restore point deletion failed")

	// ErrEmptyRequest means a bulk deletion named nothing to delete.
	ErrEmptyRequest = errors.New("no restore points specified")
)
