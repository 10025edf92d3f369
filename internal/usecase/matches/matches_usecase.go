package matches

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/heartlinkapp/heartlink-backend/internal/cache"
	"github.com/heartlinkapp/heartlink-backend/internal/domain"
	"github.com/heartlinkapp/heartlink-backend/internal/repository"
	"github.com/heartlinkapp/heartlink-backend/internal/retry"
)

// DefaultLimit is the candidate page size when the caller asks for none.
const DefaultLimit = 50

const keyUserMatches = "user-matches"

// Config holds the cache TTLs. The match list expires faster than the
// candidate pool because matches mutate more often.
type Config struct {
	MatchesTTL    time.Duration
	CandidatesTTL time.Duration
}

// DefaultConfig mirrors the observed production values.
func DefaultConfig() Config {
	return Config{
		MatchesTTL:    3 * time.Minute,
		CandidatesTTL: 5 * time.Minute,
	}
}

// UseCase assembles match lists and preference-filtered candidate
// lists, caching both per user.
type UseCase struct {
	userRepo  repository.UserRepository
	matchRepo repository.MatchRepository
	cache     cache.Cache
	cfg       Config
	log       zerolog.Logger
}

func NewUseCase(
	userRepo repository.UserRepository,
	matchRepo repository.MatchRepository,
	c cache.Cache,
	cfg Config,
	log zerolog.Logger,
) *UseCase {
	if cfg.MatchesTTL <= 0 {
		cfg.MatchesTTL = DefaultConfig().MatchesTTL
	}
	if cfg.CandidatesTTL <= 0 {
		cfg.CandidatesTTL = DefaultConfig().CandidatesTTL
	}
	return &UseCase{
		userRepo:  userRepo,
		matchRepo: matchRepo,
		cache:     c,
		cfg:       cfg,
		log:       log,
	}
}

// GetUserMatches returns the counterpart profile of every active match
// for userID, newest match first. Each profile's CreatedAt/UpdatedAt
// carry the match's creation time ("matched since"), not the account's.
func (uc *UseCase) GetUserMatches(ctx context.Context, userID string) ([]*domain.UserProfile, error) {
	key := cache.UserKey(userID, keyUserMatches)
	if cached, ok, err := cache.GetJSON[[]*domain.UserProfile](ctx, uc.cache, key); ok {
		return cached, nil
	} else if err != nil {
		uc.log.Debug().Err(err).Str("key", key).Msg("cache read failed, falling through")
	}

	var active []*domain.ActiveMatch
	err := retry.Do(ctx, func() error {
		rows, err := uc.matchRepo.GetActiveMatchProfiles(ctx, userID)
		if err != nil {
			return err
		}
		active = rows
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load matches: %w", err)
	}

	profiles := make([]*domain.UserProfile, 0, len(active))
	for _, am := range active {
		p := am.Counterpart
		p.CreatedAt = am.Match.CreatedAt
		p.UpdatedAt = am.Match.CreatedAt
		// Another user's email never leaves this layer.
		p.Email = ""
		profiles = append(profiles, &p)
	}

	if err := cache.SetJSON(ctx, uc.cache, key, profiles, uc.cfg.MatchesTTL); err != nil {
		uc.log.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
	return profiles, nil
}

// GetPotentialMatches returns a page of discovery candidates for
// userID, filtered by the user's gender preference at the data source
// and ordered newest account first.
//
// Users the requester already liked or matched are not excluded here;
// the like flow classifies a repeat like as AlreadyLiked instead.
func (uc *UseCase) GetPotentialMatches(ctx context.Context, userID string, limit, offset int) ([]*domain.UserProfile, error) {
	if limit <= 0 {
		limit = DefaultLimit
	}
	if offset < 0 {
		offset = 0
	}

	key := cache.UserKey(userID, fmt.Sprintf("matches:%d:%d", limit, offset))
	if cached, ok, err := cache.GetJSON[[]*domain.UserProfile](ctx, uc.cache, key); ok {
		return cached, nil
	} else if err != nil {
		uc.log.Debug().Err(err).Str("key", key).Msg("cache read failed, falling through")
	}

	var candidates []*domain.UserProfile
	err := retry.Do(ctx, func() error {
		prefs, err := uc.userRepo.GetPreferences(ctx, userID)
		if err != nil {
			return err
		}
		rows, err := uc.userRepo.QueryCandidates(ctx, userID, prefs.GenderPreference, limit, offset)
		if err != nil {
			return err
		}
		candidates = rows
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load potential matches: %w", err)
	}

	for _, p := range candidates {
		p.Email = ""
	}

	if err := cache.SetJSON(ctx, uc.cache, key, candidates, uc.cfg.CandidatesTTL); err != nil {
		uc.log.Debug().Err(err).Str("key", key).Msg("cache write failed")
	}
	return candidates, nil
}

// Unmatch flips the match between userID and otherUserID inactive. The
// likes stay in the edge log; only the materialized relationship is
// deactivated. Both users' cached match lists are dropped so the change
// is visible before the TTL would have expired them.
func (uc *UseCase) Unmatch(ctx context.Context, userID, otherUserID string) error {
	match, err := uc.matchRepo.GetByUsers(ctx, userID, otherUserID)
	if err != nil {
		return err
	}
	if !match.HasUser(userID) {
		return domain.ErrMatchNotFound
	}
	if err := uc.matchRepo.UpdateStatus(ctx, match.ID, false); err != nil {
		return fmt.Errorf("failed to deactivate match: %w", err)
	}

	for _, id := range []string{userID, otherUserID} {
		if err := uc.cache.Delete(ctx, cache.UserKey(id, keyUserMatches)); err != nil {
			uc.log.Debug().Err(err).Str("user_id", id).Msg("cache invalidation failed")
		}
	}
	return nil
}
