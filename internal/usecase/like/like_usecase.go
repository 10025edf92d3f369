package like

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/heartlinkapp/heartlink-backend/internal/domain"
	"github.com/heartlinkapp/heartlink-backend/internal/repository"
	"github.com/heartlinkapp/heartlink-backend/internal/retry"
)

const enrichTimeout = 30 * time.Second

// Enricher generates optional AI content for a fresh match. A nil
// Enricher disables enrichment entirely.
type Enricher interface {
	MatchExplanation(ctx context.Context, a, b *domain.UserProfile) (string, error)
	Icebreakers(ctx context.Context, a, b *domain.UserProfile) ([]string, error)
}

// UseCase records directional likes, detects mutual likes and
// materializes match rows.
type UseCase struct {
	likeRepo  repository.LikeRepository
	matchRepo repository.MatchRepository
	userRepo  repository.UserRepository
	enricher  Enricher
	log       zerolog.Logger
}

func NewUseCase(
	likeRepo repository.LikeRepository,
	matchRepo repository.MatchRepository,
	userRepo repository.UserRepository,
	enricher Enricher,
	log zerolog.Logger,
) *UseCase {
	return &UseCase{
		likeRepo:  likeRepo,
		matchRepo: matchRepo,
		userRepo:  userRepo,
		enricher:  enricher,
		log:       log,
	}
}

// LikeUser records fromID's like of toID and reports the outcome.
//
// Per ordered pair the operation is idempotent: the first call inserts
// the edge, every later call classifies as AlreadyLiked. When the
// reverse edge exists, the canonical match row is upserted; two calls
// racing from both sides of a pair converge on a single row because
// the upsert is keyed by the sorted pair, not guarded by a lock.
//
// The whole operation runs under the bounded retry wrapper. A retry
// after a transient failure past the insert step re-hits the duplicate
// key and lands in the AlreadyLiked branch, so no step here may be
// added that is unsafe to repeat.
func (uc *UseCase) LikeUser(ctx context.Context, fromID, toID string) (*domain.MatchResult, error) {
	if fromID == toID {
		return nil, domain.ErrCannotLikeSelf
	}

	var result *domain.MatchResult
	err := retry.Do(ctx, func() error {
		r, err := uc.likeOnce(ctx, fromID, toID)
		if err != nil {
			return err
		}
		result = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func (uc *UseCase) likeOnce(ctx context.Context, fromID, toID string) (*domain.MatchResult, error) {
	err := uc.likeRepo.Create(ctx, &domain.Like{FromUserID: fromID, ToUserID: toID})
	if errors.Is(err, domain.ErrLikeAlreadyExists) {
		return &domain.MatchResult{Success: true, AlreadyLiked: true}, nil
	}
	if errors.Is(err, domain.ErrUserNotFound) {
		// Liking a user that does not exist; no number of retries
		// changes that.
		return nil, retry.Permanent(err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to record like: %w", err)
	}

	mutual, err := uc.likeRepo.Exists(ctx, toID, fromID)
	if err != nil {
		return nil, fmt.Errorf("failed to check mutual like: %w", err)
	}
	if !mutual {
		return &domain.MatchResult{Success: true}, nil
	}

	result := &domain.MatchResult{Success: true, IsMatch: true}

	// The like is already durable; from here on nothing may undo it.
	// A failed match upsert is recovered by the next like between the
	// pair (or a retried request) re-running the same upsert.
	user1ID, user2ID := domain.SortPair(fromID, toID)
	match := &domain.Match{ID: uuid.NewString(), User1ID: user1ID, User2ID: user2ID}
	if err := uc.matchRepo.Upsert(ctx, match); err != nil {
		uc.log.Error().Err(err).
			Str("from_user_id", fromID).
			Str("to_user_id", toID).
			Msg("match upsert failed after mutual like; leaving likes as source of truth")
	} else {
		uc.enrichMatch(match, fromID, toID)
	}

	matchedUser, err := uc.userRepo.GetByID(ctx, toID)
	if err != nil {
		uc.log.Warn().Err(err).
			Str("user_id", toID).
			Msg("failed to load matched user profile")
		return result, nil
	}
	result.MatchedUser = matchedUser
	return result, nil
}

// enrichMatch fills in the AI explanation and icebreakers off the
// request path. Failures are logged only.
func (uc *UseCase) enrichMatch(match *domain.Match, fromID, toID string) {
	if uc.enricher == nil {
		return
	}

	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), enrichTimeout)
		defer cancel()

		from, err := uc.userRepo.GetByID(ctx, fromID)
		if err != nil {
			uc.log.Warn().Err(err).Str("match_id", match.ID).Msg("enrichment skipped")
			return
		}
		to, err := uc.userRepo.GetByID(ctx, toID)
		if err != nil {
			uc.log.Warn().Err(err).Str("match_id", match.ID).Msg("enrichment skipped")
			return
		}

		explanation, err := uc.enricher.MatchExplanation(ctx, from, to)
		if err != nil {
			uc.log.Warn().Err(err).Str("match_id", match.ID).Msg("match explanation failed")
			return
		}
		icebreakers, err := uc.enricher.Icebreakers(ctx, from, to)
		if err != nil {
			uc.log.Warn().Err(err).Str("match_id", match.ID).Msg("icebreakers failed")
			icebreakers = nil
		}

		if err := uc.matchRepo.UpdateEnrichment(ctx, match.ID, explanation, icebreakers); err != nil {
			uc.log.Warn().Err(err).Str("match_id", match.ID).Msg("failed to store match enrichment")
		}
	}()
}
