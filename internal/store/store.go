package store

import (
	"context"
	"errors"

	"github.com/joescharf/ccname/internal/models"
)

// ErrStoreUnavailable signals that the host session store could not be read.
// The pipeline treats this as non-fatal: it logs and skips the rename.
var ErrStoreUnavailable = errors.New("session store unavailable")

// ErrSessionNotFound signals a rename against an unknown session id.
var ErrSessionNotFound = errors.New("session not found")

// Store defines read and rename access to the host's session records.
// The host owns the records; ccname never creates or deletes them.
type Store interface {
	// ListSessions returns the sessions belonging to the project containing cwd.
	ListSessions(ctx context.Context, cwd string) ([]*models.Session, error)

	// ListAllSessions returns sessions across every project whose directory
	// name contains filter (all projects when filter is empty).
	ListAllSessions(ctx context.Context, filter string) ([]*models.Session, error)

	// RenameSession sets the display name of the session identified by id
	// within cwd's project.
	RenameSession(ctx context.Context, cwd, id, name string) error
}
