package repository

import (
	"context"

	"github.com/heartlinkapp/heartlink-backend/internal/domain"
)

type LikeRepository interface {
	// Create inserts a directed like edge. Inserting an edge that
	// already exists returns domain.ErrLikeAlreadyExists; the edge log
	// is append-only and never silently duplicated.
	Create(ctx context.Context, like *domain.Like) error

	// Exists reports whether fromUserID has liked toUserID.
	Exists(ctx context.Context, fromUserID, toUserID string) (bool, error)
}
