// Package store persists generated lead magnets across restarts.
package store

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/sells-group/leadforge/internal/model"
)

// ErrNotFound reports a lookup for a lead magnet that does not exist.
var ErrNotFound = eris.New("store: not found")

// Store defines the persistence interface for generated artifacts.
type Store interface {
	SaveLeadMagnet(ctx context.Context, magnet *model.LeadMagnet) error
	GetLeadMagnet(ctx context.Context, id string) (*model.LeadMagnet, error)
	ListLeadMagnets(ctx context.Context, limit int) ([]model.LeadMagnet, error)
	// IncrementDownloads bumps the counter and returns the new value.
	IncrementDownloads(ctx context.Context, id string) (int, error)

	Migrate(ctx context.Context) error
	Close() error
}
