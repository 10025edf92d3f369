package domain

import "time"

// Like is a directed edge: FromUserID expressed interest in ToUserID.
// Likes are append-only; re-inserting the same ordered pair is detected
// via the composite primary key and reported as ErrLikeAlreadyExists.
type Like struct {
	FromUserID string    `json:"from_user_id" db:"from_user_id"`
	ToUserID   string    `json:"to_user_id" db:"to_user_id"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}
