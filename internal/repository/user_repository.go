package repository

import (
	"context"

	"github.com/heartlinkapp/heartlink-backend/internal/domain"
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.UserProfile) error
	GetByID(ctx context.Context, id string) (*domain.UserProfile, error)
	GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error)
	Update(ctx context.Context, user *domain.UserProfile) error

	// GetPreferences returns the user's preference blob. A user without
	// stored preferences yields zero-value preferences (no filter), not
	// an error.
	GetPreferences(ctx context.Context, userID string) (domain.UserPreferences, error)
	UpdatePreferences(ctx context.Context, userID string, prefs domain.UserPreferences) error

	// QueryCandidates returns profiles eligible for discovery: the
	// excluded user removed, the gender filter applied at the data
	// source when non-empty, ordered newest account first.
	QueryCandidates(ctx context.Context, excludeUserID string, genderFilter []domain.Gender, limit, offset int) ([]*domain.UserProfile, error)
}
