package domain

import "time"

// Match materializes a mutual like as a single canonical row. The pair
// is stored ordered (User1ID < User2ID) so that exactly one row can
// exist per unordered pair regardless of which side liked last.
type Match struct {
	ID          string    `json:"id" db:"id"`
	User1ID     string    `json:"user1_id" db:"user1_id"`
	User2ID     string    `json:"user2_id" db:"user2_id"`
	IsActive    bool      `json:"is_active" db:"is_active"`
	Explanation *string   `json:"explanation,omitempty" db:"match_explanation"`
	Icebreakers []string  `json:"icebreakers,omitempty" db:"icebreakers"`
	CreatedAt   time.Time `json:"created_at" db:"created_at"`
}

func (m *Match) HasUser(userID string) bool {
	return m.User1ID == userID || m.User2ID == userID
}

// OtherUserID resolves the counterpart of userID in this match.
func (m *Match) OtherUserID(userID string) (string, bool) {
	if m.User1ID == userID {
		return m.User2ID, true
	}
	if m.User2ID == userID {
		return m.User1ID, true
	}
	return "", false
}

// SortPair orders two user ids lexicographically, the canonical order
// for match rows.
func SortPair(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// ActiveMatch is a match joined with the counterpart's profile, as
// produced by the match listing query.
type ActiveMatch struct {
	Match       Match
	Counterpart UserProfile
}

// MatchResult is the outcome surfaced to UI callers after a like action.
type MatchResult struct {
	Success      bool         `json:"success"`
	IsMatch      bool         `json:"is_match"`
	MatchedUser  *UserProfile `json:"matched_user,omitempty"`
	AlreadyLiked bool         `json:"already_liked,omitempty"`
	Error        string       `json:"error,omitempty"`
}
