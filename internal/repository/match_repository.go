package repository

import (
	"context"

	"github.com/heartlinkapp/heartlink-backend/internal/domain"
)

type MatchRepository interface {
	// Upsert creates the canonical match row for the pair, ordering the
	// ids itself. Concurrent upserts for the same pair converge on a
	// single row; the call is idempotent and fills in ID/CreatedAt.
	Upsert(ctx context.Context, match *domain.Match) error

	GetByUsers(ctx context.Context, user1ID, user2ID string) (*domain.Match, error)

	// GetActiveMatchProfiles returns the user's active matches joined
	// with each counterpart's profile in a single query.
	GetActiveMatchProfiles(ctx context.Context, userID string) ([]*domain.ActiveMatch, error)

	UpdateStatus(ctx context.Context, id string, isActive bool) error
	UpdateEnrichment(ctx context.Context, id string, explanation string, icebreakers []string) error
}
