package matches_test

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/heartlinkapp/heartlink-backend/internal/cache"
	"github.com/heartlinkapp/heartlink-backend/internal/domain"
	"github.com/heartlinkapp/heartlink-backend/internal/usecase/matches"
)

//
// Fakes
//

type fakeUserRepo struct {
	mu             sync.Mutex
	users          map[string]*domain.UserProfile
	prefs          map[string]domain.UserPreferences
	candidateCalls int
	lastFilter     []domain.Gender
}

func newFakeUserRepo(users ...*domain.UserProfile) *fakeUserRepo {
	r := &fakeUserRepo{
		users: make(map[string]*domain.UserProfile),
		prefs: make(map[string]domain.UserPreferences),
	}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *fakeUserRepo) Create(_ context.Context, u *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetByID(_ context.Context, id string) (*domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if u, ok := r.users[id]; ok {
		copied := *u
		return &copied, nil
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) GetByEmail(_ context.Context, email string) (*domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, u := range r.users {
		if u.Email == email {
			copied := *u
			return &copied, nil
		}
	}
	return nil, domain.ErrUserNotFound
}

func (r *fakeUserRepo) Update(_ context.Context, u *domain.UserProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.users[u.ID] = u
	return nil
}

func (r *fakeUserRepo) GetPreferences(_ context.Context, userID string) (domain.UserPreferences, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.prefs[userID], nil
}

func (r *fakeUserRepo) UpdatePreferences(_ context.Context, userID string, prefs domain.UserPreferences) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[userID] = prefs
	return nil
}

func (r *fakeUserRepo) QueryCandidates(_ context.Context, excludeUserID string, genderFilter []domain.Gender, limit, offset int) ([]*domain.UserProfile, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.candidateCalls++
	r.lastFilter = genderFilter

	allowed := func(g domain.Gender) bool {
		if len(genderFilter) == 0 {
			return true
		}
		for _, f := range genderFilter {
			if f == g {
				return true
			}
		}
		return false
	}

	var out []*domain.UserProfile
	for _, u := range r.users {
		if u.ID == excludeUserID || !allowed(u.Gender) {
			continue
		}
		copied := *u
		out = append(out, &copied)
	}
	// Newest account first, like the real query.
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if offset >= len(out) {
		return nil, nil
	}
	out = out[offset:]
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

type fakeMatchRepo struct {
	mu          sync.Mutex
	active      map[string][]*domain.ActiveMatch
	matches     map[string]*domain.Match
	activeCalls int
}

func newFakeMatchRepo() *fakeMatchRepo {
	return &fakeMatchRepo{
		active:  make(map[string][]*domain.ActiveMatch),
		matches: make(map[string]*domain.Match),
	}
}

func (r *fakeMatchRepo) Upsert(context.Context, *domain.Match) error { return nil }

func (r *fakeMatchRepo) GetByUsers(_ context.Context, user1ID, user2ID string) (*domain.Match, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	a, b := domain.SortPair(user1ID, user2ID)
	for _, m := range r.matches {
		if m.User1ID == a && m.User2ID == b {
			copied := *m
			return &copied, nil
		}
	}
	return nil, domain.ErrMatchNotFound
}

func (r *fakeMatchRepo) GetActiveMatchProfiles(_ context.Context, userID string) ([]*domain.ActiveMatch, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.activeCalls++
	return r.active[userID], nil
}

func (r *fakeMatchRepo) UpdateStatus(_ context.Context, id string, isActive bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	m, ok := r.matches[id]
	if !ok {
		return domain.ErrMatchNotFound
	}
	m.IsActive = isActive
	return nil
}

func (r *fakeMatchRepo) UpdateEnrichment(context.Context, string, string, []string) error {
	return nil
}

func profile(id string, gender domain.Gender) *domain.UserProfile {
	now := time.Now().UTC()
	return &domain.UserProfile{
		ID:        id,
		FullName:  id,
		Username:  id,
		Email:     id + "@test.com",
		Gender:    gender,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func newUseCase(users *fakeUserRepo, matchRepo *fakeMatchRepo) (*matches.UseCase, *cache.Memory) {
	c := cache.NewMemory()
	uc := matches.NewUseCase(users, matchRepo, c, matches.DefaultConfig(), zerolog.Nop())
	return uc, c
}

//
// Tests
//

func TestGetUserMatches_ReportsMatchedSince(t *testing.T) {
	users := newFakeUserRepo()
	matchRepo := newFakeMatchRepo()
	uc, _ := newUseCase(users, matchRepo)

	matchedAt := time.Date(2026, 2, 14, 12, 0, 0, 0, time.UTC)
	counterpart := profile("bob", domain.GenderMale)
	matchRepo.active["alice"] = []*domain.ActiveMatch{{
		Match:       domain.Match{ID: "m1", User1ID: "alice", User2ID: "bob", IsActive: true, CreatedAt: matchedAt},
		Counterpart: *counterpart,
	}}

	got, err := uc.GetUserMatches(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bob", got[0].ID)
	assert.Equal(t, matchedAt, got[0].CreatedAt, "timestamps carry when the match happened, not when the account was created")
	assert.Equal(t, matchedAt, got[0].UpdatedAt)
}

func TestGetUserMatches_SecondCallServedFromCache(t *testing.T) {
	users := newFakeUserRepo()
	matchRepo := newFakeMatchRepo()
	uc, _ := newUseCase(users, matchRepo)

	matchRepo.active["alice"] = []*domain.ActiveMatch{{
		Match:       domain.Match{ID: "m1", User1ID: "alice", User2ID: "bob", IsActive: true, CreatedAt: time.Now().UTC()},
		Counterpart: *profile("bob", domain.GenderMale),
	}}

	first, err := uc.GetUserMatches(context.Background(), "alice")
	require.NoError(t, err)
	second, err := uc.GetUserMatches(context.Background(), "alice")
	require.NoError(t, err)

	assert.Equal(t, 1, matchRepo.activeCalls, "second read must not hit the repository")
	require.Len(t, second, len(first))
	assert.Equal(t, first[0].ID, second[0].ID)
}

func TestGetUserMatches_EmptyListIsCachedToo(t *testing.T) {
	users := newFakeUserRepo()
	matchRepo := newFakeMatchRepo()
	uc, _ := newUseCase(users, matchRepo)

	got, err := uc.GetUserMatches(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = uc.GetUserMatches(context.Background(), "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, matchRepo.activeCalls)
}

func TestGetUserMatches_CacheIsPerUser(t *testing.T) {
	users := newFakeUserRepo()
	matchRepo := newFakeMatchRepo()
	uc, _ := newUseCase(users, matchRepo)

	matchRepo.active["alice"] = []*domain.ActiveMatch{{
		Match:       domain.Match{ID: "m1", User1ID: "alice", User2ID: "bob", IsActive: true, CreatedAt: time.Now().UTC()},
		Counterpart: *profile("bob", domain.GenderMale),
	}}

	aliceMatches, err := uc.GetUserMatches(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, aliceMatches, 1)

	// A different user's read must not be served from alice's entry.
	carolMatches, err := uc.GetUserMatches(context.Background(), "carol")
	require.NoError(t, err)
	assert.Empty(t, carolMatches)
	assert.Equal(t, 2, matchRepo.activeCalls)
}

func TestGetPotentialMatches_FiltersByPreferenceAndExcludesSelf(t *testing.T) {
	users := newFakeUserRepo(
		profile("alice", domain.GenderFemale),
		profile("bob", domain.GenderMale),
		profile("carol", domain.GenderFemale),
	)
	matchRepo := newFakeMatchRepo()
	uc, _ := newUseCase(users, matchRepo)

	require.NoError(t, users.UpdatePreferences(context.Background(), "alice", domain.UserPreferences{
		GenderPreference: []domain.Gender{domain.GenderMale},
	}))

	got, err := uc.GetPotentialMatches(context.Background(), "alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "bob", got[0].ID)
	assert.Equal(t, []domain.Gender{domain.GenderMale}, users.lastFilter, "the gender filter is pushed to the data source")
}

func TestGetPotentialMatches_NoPreferenceMeansNoFilter(t *testing.T) {
	users := newFakeUserRepo(
		profile("alice", domain.GenderFemale),
		profile("bob", domain.GenderMale),
		profile("carol", domain.GenderFemale),
	)
	matchRepo := newFakeMatchRepo()
	uc, _ := newUseCase(users, matchRepo)

	got, err := uc.GetPotentialMatches(context.Background(), "alice", 0, 0)
	require.NoError(t, err)
	assert.Len(t, got, 2)
	for _, p := range got {
		assert.NotEqual(t, "alice", p.ID)
	}
}

func TestGetPotentialMatches_CacheKeyIncludesPage(t *testing.T) {
	users := newFakeUserRepo(
		profile("alice", domain.GenderFemale),
		profile("bob", domain.GenderMale),
		profile("carol", domain.GenderFemale),
	)
	matchRepo := newFakeMatchRepo()
	uc, _ := newUseCase(users, matchRepo)

	_, err := uc.GetPotentialMatches(context.Background(), "alice", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, users.candidateCalls)

	// Same page: cache hit.
	_, err = uc.GetPotentialMatches(context.Background(), "alice", 1, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, users.candidateCalls)

	// Different page: distinct entry, repository consulted again.
	_, err = uc.GetPotentialMatches(context.Background(), "alice", 1, 1)
	require.NoError(t, err)
	assert.Equal(t, 2, users.candidateCalls)
}

func TestGetPotentialMatches_NewestAccountsFirst(t *testing.T) {
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	oldest := profile("bob", domain.GenderMale)
	oldest.CreatedAt = base
	middle := profile("carol", domain.GenderFemale)
	middle.CreatedAt = base.Add(24 * time.Hour)
	newest := profile("dave", domain.GenderMale)
	newest.CreatedAt = base.Add(48 * time.Hour)

	users := newFakeUserRepo(profile("alice", domain.GenderFemale), oldest, middle, newest)
	matchRepo := newFakeMatchRepo()
	uc, _ := newUseCase(users, matchRepo)

	got, err := uc.GetPotentialMatches(context.Background(), "alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, "dave", got[0].ID)
	assert.Equal(t, "carol", got[1].ID)
	assert.Equal(t, "bob", got[2].ID)
}

func TestListsNeverExposeOtherUsersEmail(t *testing.T) {
	users := newFakeUserRepo(profile("alice", domain.GenderFemale), profile("bob", domain.GenderMale))
	matchRepo := newFakeMatchRepo()
	uc, _ := newUseCase(users, matchRepo)

	counterpart := profile("bob", domain.GenderMale)
	require.NotEmpty(t, counterpart.Email)
	matchRepo.active["alice"] = []*domain.ActiveMatch{{
		Match:       domain.Match{ID: "m1", User1ID: "alice", User2ID: "bob", IsActive: true, CreatedAt: time.Now().UTC()},
		Counterpart: *counterpart,
	}}

	matchProfiles, err := uc.GetUserMatches(context.Background(), "alice")
	require.NoError(t, err)
	require.Len(t, matchProfiles, 1)
	assert.Empty(t, matchProfiles[0].Email)

	candidates, err := uc.GetPotentialMatches(context.Background(), "alice", 0, 0)
	require.NoError(t, err)
	require.Len(t, candidates, 1)
	assert.Empty(t, candidates[0].Email)
}

// flushableCache simulates TTL expiry by letting the test wipe all
// entries between calls.
type flushableCache struct {
	*cache.Memory
}

func (f *flushableCache) flush(t *testing.T) {
	t.Helper()
	f.Memory = cache.NewMemory()
}

func TestGetPotentialMatches_ExpiryTriggersFreshRead(t *testing.T) {
	users := newFakeUserRepo(profile("alice", domain.GenderFemale), profile("bob", domain.GenderMale))
	matchRepo := newFakeMatchRepo()
	c := &flushableCache{Memory: cache.NewMemory()}
	uc := matches.NewUseCase(users, matchRepo, c, matches.DefaultConfig(), zerolog.Nop())

	_, err := uc.GetPotentialMatches(context.Background(), "alice", 0, 0)
	require.NoError(t, err)
	_, err = uc.GetPotentialMatches(context.Background(), "alice", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 1, users.candidateCalls, "within the TTL the repository is read once")

	c.flush(t)

	_, err = uc.GetPotentialMatches(context.Background(), "alice", 0, 0)
	require.NoError(t, err)
	assert.Equal(t, 2, users.candidateCalls, "an expired entry forces a fresh read")
}

func TestGetPotentialMatches_NormalizesLimitAndOffset(t *testing.T) {
	users := newFakeUserRepo(profile("alice", domain.GenderFemale), profile("bob", domain.GenderMale))
	matchRepo := newFakeMatchRepo()
	uc, _ := newUseCase(users, matchRepo)

	got, err := uc.GetPotentialMatches(context.Background(), "alice", -5, -3)
	require.NoError(t, err)
	assert.Len(t, got, 1)
}

func TestUnmatch_DeactivatesAndInvalidatesBothCaches(t *testing.T) {
	users := newFakeUserRepo()
	matchRepo := newFakeMatchRepo()
	uc, _ := newUseCase(users, matchRepo)

	matchRepo.matches["m1"] = &domain.Match{ID: "m1", User1ID: "alice", User2ID: "bob", IsActive: true}
	matchRepo.active["alice"] = []*domain.ActiveMatch{{
		Match:       *matchRepo.matches["m1"],
		Counterpart: *profile("bob", domain.GenderMale),
	}}
	matchRepo.active["bob"] = []*domain.ActiveMatch{{
		Match:       *matchRepo.matches["m1"],
		Counterpart: *profile("alice", domain.GenderFemale),
	}}

	// Warm both users' match caches.
	_, err := uc.GetUserMatches(context.Background(), "alice")
	require.NoError(t, err)
	_, err = uc.GetUserMatches(context.Background(), "bob")
	require.NoError(t, err)
	require.Equal(t, 2, matchRepo.activeCalls)

	require.NoError(t, uc.Unmatch(context.Background(), "alice", "bob"))
	assert.False(t, matchRepo.matches["m1"].IsActive)

	// Both sides must observe the change immediately, ahead of TTL.
	matchRepo.active["alice"] = nil
	matchRepo.active["bob"] = nil
	aliceMatches, err := uc.GetUserMatches(context.Background(), "alice")
	require.NoError(t, err)
	assert.Empty(t, aliceMatches)
	bobMatches, err := uc.GetUserMatches(context.Background(), "bob")
	require.NoError(t, err)
	assert.Empty(t, bobMatches)
	assert.Equal(t, 4, matchRepo.activeCalls)
}

func TestUnmatch_UnknownPair(t *testing.T) {
	uc, _ := newUseCase(newFakeUserRepo(), newFakeMatchRepo())

	err := uc.Unmatch(context.Background(), "alice", "bob")
	require.ErrorIs(t, err, domain.ErrMatchNotFound)
}
