package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/heartlinkapp/heartlink-backend/internal/domain"
	"github.com/heartlinkapp/heartlink-backend/internal/repository"
)

type matchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) repository.MatchRepository {
	return &matchRepository{db: db}
}

func (r *matchRepository) Upsert(ctx context.Context, match *domain.Match) error {
	user1ID, user2ID := domain.SortPair(match.User1ID, match.User2ID)

	// ON CONFLICT keyed by the sorted pair makes concurrent upserts
	// from both sides of a mutual like converge on one row. The no-op
	// update lets RETURNING hand back the winning row either way.
	query := `
		INSERT INTO matches (id, user1_id, user2_id, is_active)
		VALUES ($1, $2, $3, true)
		ON CONFLICT (user1_id, user2_id)
		DO UPDATE SET is_active = true
		RETURNING id, created_at
	`
	err := r.db.QueryRowContext(ctx, query, match.ID, user1ID, user2ID).
		Scan(&match.ID, &match.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to upsert match: %w", err)
	}

	match.User1ID = user1ID
	match.User2ID = user2ID
	match.IsActive = true
	return nil
}

func (r *matchRepository) GetByUsers(ctx context.Context, user1ID, user2ID string) (*domain.Match, error) {
	user1ID, user2ID = domain.SortPair(user1ID, user2ID)

	var row matchRow
	query := `
		SELECT id, user1_id, user2_id, is_active, match_explanation, icebreakers, created_at
		FROM matches WHERE user1_id = $1 AND user2_id = $2
	`
	if err := r.db.GetContext(ctx, &row, query, user1ID, user2ID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrMatchNotFound
		}
		return nil, fmt.Errorf("failed to get match: %w", err)
	}
	return row.toMatch(), nil
}

func (r *matchRepository) GetActiveMatchProfiles(ctx context.Context, userID string) ([]*domain.ActiveMatch, error) {
	// One joined query resolves every counterpart, avoiding an N+1
	// profile lookup per match.
	query := `
		SELECT m.id AS match_id, m.user1_id, m.user2_id, m.is_active,
		       m.created_at AS matched_at,
		       u.id, u.full_name, u.username, u.email, u.gender, u.birthdate,
		       u.bio, u.avatar_url, u.preferences, u.is_verified, u.is_online,
		       u.last_active, u.created_at, u.updated_at, u.password_hash
		FROM matches m
		JOIN users u
		  ON u.id = CASE WHEN m.user1_id = $1 THEN m.user2_id ELSE m.user1_id END
		WHERE (m.user1_id = $1 OR m.user2_id = $1) AND m.is_active = true
		ORDER BY m.created_at DESC
	`
	rows, err := r.db.QueryxContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list active matches: %w", err)
	}
	defer rows.Close()

	var out []*domain.ActiveMatch
	for rows.Next() {
		var (
			m matchJoinRow
			u userRow
		)
		if err := rows.Scan(
			&m.MatchID, &m.User1ID, &m.User2ID, &m.IsActive, &m.MatchedAt,
			&u.ID, &u.FullName, &u.Username, &u.Email, &u.Gender, &u.Birthdate,
			&u.Bio, &u.AvatarURL, &u.Preferences, &u.IsVerified, &u.IsOnline,
			&u.LastActive, &u.CreatedAt, &u.UpdatedAt, &u.PasswordHash,
		); err != nil {
			// A malformed counterpart row drops that one match rather
			// than failing the whole listing.
			continue
		}
		out = append(out, &domain.ActiveMatch{
			Match: domain.Match{
				ID:        m.MatchID,
				User1ID:   m.User1ID,
				User2ID:   m.User2ID,
				IsActive:  m.IsActive,
				CreatedAt: m.MatchedAt.Time,
			},
			Counterpart: *u.toProfile(),
		})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to list active matches: %w", err)
	}
	return out, nil
}

func (r *matchRepository) UpdateStatus(ctx context.Context, id string, isActive bool) error {
	query := `UPDATE matches SET is_active = $1 WHERE id = $2`
	result, err := r.db.ExecContext(ctx, query, isActive, id)
	if err != nil {
		return fmt.Errorf("failed to update match status: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMatchNotFound
	}
	return nil
}

func (r *matchRepository) UpdateEnrichment(ctx context.Context, id string, explanation string, icebreakers []string) error {
	query := `
		UPDATE matches SET match_explanation = $1, icebreakers = $2
		WHERE id = $3
	`
	result, err := r.db.ExecContext(ctx, query, explanation, pq.Array(icebreakers), id)
	if err != nil {
		return fmt.Errorf("failed to update match enrichment: %w", err)
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrMatchNotFound
	}
	return nil
}

type matchRow struct {
	ID          string         `db:"id"`
	User1ID     string         `db:"user1_id"`
	User2ID     string         `db:"user2_id"`
	IsActive    bool           `db:"is_active"`
	Explanation sql.NullString `db:"match_explanation"`
	Icebreakers pq.StringArray `db:"icebreakers"`
	CreatedAt   sql.NullTime   `db:"created_at"`
}

func (r matchRow) toMatch() *domain.Match {
	m := &domain.Match{
		ID:          r.ID,
		User1ID:     r.User1ID,
		User2ID:     r.User2ID,
		IsActive:    r.IsActive,
		Icebreakers: r.Icebreakers,
		CreatedAt:   r.CreatedAt.Time,
	}
	if r.Explanation.Valid {
		s := r.Explanation.String
		m.Explanation = &s
	}
	return m
}

type matchJoinRow struct {
	MatchID   string
	User1ID   string
	User2ID   string
	IsActive  bool
	MatchedAt sql.NullTime
}
