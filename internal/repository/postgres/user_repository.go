package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/heartlinkapp/heartlink-backend/internal/domain"
	"github.com/heartlinkapp/heartlink-backend/internal/repository"
)

const userColumns = `
	id, full_name, username, email, gender, birthdate, bio, avatar_url,
	preferences, is_verified, is_online, last_active, created_at, updated_at,
	password_hash
`

type userRepository struct {
	db *sqlx.DB
}

func NewUserRepository(db *sqlx.DB) repository.UserRepository {
	return &userRepository{db: db}
}

// userRow is the loosely-typed boundary between the database and the
// canonical profile shape. Missing optional columns are defaulted in
// toProfile rather than propagated.
type userRow struct {
	ID           string                 `db:"id"`
	FullName     sql.NullString         `db:"full_name"`
	Username     sql.NullString         `db:"username"`
	Email        sql.NullString         `db:"email"`
	Gender       sql.NullString         `db:"gender"`
	Birthdate    sql.NullTime           `db:"birthdate"`
	Bio          sql.NullString         `db:"bio"`
	AvatarURL    sql.NullString         `db:"avatar_url"`
	Preferences  domain.UserPreferences `db:"preferences"`
	IsVerified   sql.NullBool           `db:"is_verified"`
	IsOnline     sql.NullBool           `db:"is_online"`
	LastActive   sql.NullTime           `db:"last_active"`
	CreatedAt    sql.NullTime           `db:"created_at"`
	UpdatedAt    sql.NullTime           `db:"updated_at"`
	PasswordHash sql.NullString         `db:"password_hash"`
}

// toProfile transforms a raw row into a UserProfile. It is total:
// absent fields get documented defaults (empty email, is_verified=true,
// is_online=false, timestamps "now") instead of failing the call.
func (r userRow) toProfile() *domain.UserProfile {
	now := time.Now().UTC()

	p := &domain.UserProfile{
		ID:           r.ID,
		FullName:     r.FullName.String,
		Username:     r.Username.String,
		Email:        r.Email.String,
		Gender:       domain.Gender(r.Gender.String),
		Bio:          r.Bio.String,
		AvatarURL:    r.AvatarURL.String,
		Preferences:  r.Preferences,
		IsVerified:   true,
		IsOnline:     false,
		CreatedAt:    now,
		UpdatedAt:    now,
		PasswordHash: r.PasswordHash.String,
	}
	if !p.Gender.Valid() {
		p.Gender = domain.GenderOther
	}
	if r.Birthdate.Valid {
		p.Birthdate = r.Birthdate.Time
	}
	if r.IsVerified.Valid {
		p.IsVerified = r.IsVerified.Bool
	}
	if r.IsOnline.Valid {
		p.IsOnline = r.IsOnline.Bool
	}
	if r.LastActive.Valid {
		t := r.LastActive.Time
		p.LastActive = &t
	}
	if r.CreatedAt.Valid {
		p.CreatedAt = r.CreatedAt.Time
	}
	if r.UpdatedAt.Valid {
		p.UpdatedAt = r.UpdatedAt.Time
	}
	return p
}

func (r *userRepository) Create(ctx context.Context, user *domain.UserProfile) error {
	if !user.Gender.Valid() {
		return domain.ErrInvalidGender
	}

	query := `
		INSERT INTO users (id, full_name, username, email, gender, birthdate,
		                   bio, avatar_url, preferences, is_verified, password_hash)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.ID, user.FullName, user.Username, user.Email, user.Gender,
		user.Birthdate, user.Bio, user.AvatarURL, user.Preferences,
		user.IsVerified, user.PasswordHash,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			switch constraintName(err) {
			case "users_email_key":
				return domain.ErrEmailTaken
			case "users_username_key":
				return domain.ErrUsernameTaken
			}
			return domain.ErrEmailTaken
		}
		return fmt.Errorf("failed to create user: %w", err)
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.UserProfile, error) {
	var row userRow
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	if err := r.db.GetContext(ctx, &row, query, id); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user %s: %w", id, err)
	}
	return row.toProfile(), nil
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.UserProfile, error) {
	var row userRow
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	if err := r.db.GetContext(ctx, &row, query, email); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrUserNotFound
		}
		return nil, fmt.Errorf("failed to get user by email: %w", err)
	}
	return row.toProfile(), nil
}

func (r *userRepository) Update(ctx context.Context, user *domain.UserProfile) error {
	if !user.Gender.Valid() {
		return domain.ErrInvalidGender
	}

	query := `
		UPDATE users
		SET full_name = $1, username = $2, gender = $3, birthdate = $4,
		    bio = $5, avatar_url = $6, is_online = $7, last_active = $8,
		    updated_at = CURRENT_TIMESTAMP
		WHERE id = $9
		RETURNING updated_at
	`
	err := r.db.QueryRowContext(ctx, query,
		user.FullName, user.Username, user.Gender, user.Birthdate,
		user.Bio, user.AvatarURL, user.IsOnline, user.LastActive, user.ID,
	).Scan(&user.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.ErrUserNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrUsernameTaken
		}
		return fmt.Errorf("failed to update user %s: %w", user.ID, err)
	}
	return nil
}

func (r *userRepository) GetPreferences(ctx context.Context, userID string) (domain.UserPreferences, error) {
	var prefs domain.UserPreferences
	query := `SELECT preferences FROM users WHERE id = $1`
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&prefs)
	if err != nil {
		// No row or NULL blob means "no preferences yet": an empty
		// filter, not a failure.
		if errors.Is(err, sql.ErrNoRows) {
			return domain.UserPreferences{}, nil
		}
		return domain.UserPreferences{}, fmt.Errorf("failed to get preferences for %s: %w", userID, err)
	}
	return prefs, nil
}

func (r *userRepository) UpdatePreferences(ctx context.Context, userID string, prefs domain.UserPreferences) error {
	query := `
		UPDATE users SET preferences = $1, updated_at = CURRENT_TIMESTAMP
		WHERE id = $2
	`
	result, err := r.db.ExecContext(ctx, query, prefs, userID)
	if err != nil {
		return fmt.Errorf("failed to update preferences for %s: %w", userID, err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrUserNotFound
	}
	return nil
}

func (r *userRepository) QueryCandidates(ctx context.Context, excludeUserID string, genderFilter []domain.Gender, limit, offset int) ([]*domain.UserProfile, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id <> $1`
	args := []interface{}{excludeUserID}

	// The gender filter runs at the data source so the transferred row
	// count stays bounded by limit.
	if len(genderFilter) > 0 {
		genders := make([]string, 0, len(genderFilter))
		for _, g := range genderFilter {
			genders = append(genders, string(g))
		}
		query += fmt.Sprintf(" AND gender = ANY($%d)", len(args)+1)
		args = append(args, pq.Array(genders))
	}

	// Newest accounts first keeps pagination deterministic.
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d OFFSET $%d", len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	var rows []userRow
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to query candidates: %w", err)
	}

	profiles := make([]*domain.UserProfile, 0, len(rows))
	for _, row := range rows {
		profiles = append(profiles, row.toProfile())
	}
	return profiles, nil
}
