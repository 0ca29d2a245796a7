package storage

import (
	"context"

	"property-insights/models"
)

// SnapshotSource is the interface any snapshot backend must satisfy. It hands
// the services an already-materialised view of profiles and listings.
type SnapshotSource interface {
	// Profile returns the investor profile with the given id, or an
	// apperr NotFound error.
	Profile(ctx context.Context, id string) (*models.InvestorProfile, error)
	// Listings returns the full listing corpus in a stable order.
	Listings(ctx context.Context) ([]*models.Listing, error)
	Close() error
}

// RankingWriter is the interface for exporting ranked matches.
type RankingWriter interface {
	WriteMatches(page *models.RankedPage) error
	Close() error
}
