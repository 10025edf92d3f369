package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/heartlinkapp/heartlink-backend/internal/domain"
	"github.com/heartlinkapp/heartlink-backend/internal/repository"
)

type likeRepository struct {
	db *sqlx.DB
}

func NewLikeRepository(db *sqlx.DB) repository.LikeRepository {
	return &likeRepository{db: db}
}

func (r *likeRepository) Create(ctx context.Context, like *domain.Like) error {
	query := `
		INSERT INTO likes (from_user_id, to_user_id)
		VALUES ($1, $2)
		RETURNING created_at
	`
	err := r.db.QueryRowContext(ctx, query, like.FromUserID, like.ToUserID).
		Scan(&like.CreatedAt)
	if err != nil {
		// The composite PK catches re-likes; callers treat this as an
		// outcome, not a failure.
		if isUniqueViolation(err) {
			return domain.ErrLikeAlreadyExists
		}
		if isForeignKeyViolation(err) {
			return domain.ErrUserNotFound
		}
		return fmt.Errorf("failed to create like: %w", err)
	}
	return nil
}

func (r *likeRepository) Exists(ctx context.Context, fromUserID, toUserID string) (bool, error) {
	var exists bool
	query := `
		SELECT EXISTS (
			SELECT 1 FROM likes WHERE from_user_id = $1 AND to_user_id = $2
		)
	`
	if err := r.db.QueryRowContext(ctx, query, fromUserID, toUserID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check like: %w", err)
	}
	return exists, nil
}
