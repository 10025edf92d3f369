package domain

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// Gender is the fixed set of values accepted for a user's gender and
// for entries in a gender preference filter.
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
	GenderOther  Gender = "other"
)

func (g Gender) Valid() bool {
	switch g {
	case GenderMale, GenderFemale, GenderOther:
		return true
	}
	return false
}

// AgeRange bounds the ages a user wants to see in discovery.
type AgeRange struct {
	Min int `json:"min"`
	Max int `json:"max"`
}

// UserPreferences is the preference blob stored on the user row.
// An empty GenderPreference means no gender filter.
type UserPreferences struct {
	AgeRange         AgeRange `json:"age_range"`
	Distance         int      `json:"distance"`
	GenderPreference []Gender `json:"gender_preference"`
}

// Value marshals preferences into a JSONB column.
func (p UserPreferences) Value() (driver.Value, error) {
	return json.Marshal(p)
}

// Scan reads preferences back from a JSONB column. A NULL blob yields
// zero-value preferences, which turn off all filtering.
func (p *UserPreferences) Scan(value interface{}) error {
	if value == nil {
		*p = UserPreferences{}
		return nil
	}
	b, ok := value.([]byte)
	if !ok {
		return fmt.Errorf("preferences: cannot scan %T", value)
	}
	return json.Unmarshal(b, p)
}

// UserProfile is the canonical profile shape served to callers.
type UserProfile struct {
	ID           string          `json:"id" db:"id"`
	FullName     string          `json:"full_name" db:"full_name"`
	Username     string          `json:"username" db:"username"`
	Email        string          `json:"email" db:"email"`
	Gender       Gender          `json:"gender" db:"gender"`
	Birthdate    time.Time       `json:"birthdate" db:"birthdate"`
	Bio          string          `json:"bio" db:"bio"`
	AvatarURL    string          `json:"avatar_url" db:"avatar_url"`
	Preferences  UserPreferences `json:"preferences" db:"preferences"`
	IsVerified   bool            `json:"is_verified" db:"is_verified"`
	IsOnline     bool            `json:"is_online" db:"is_online"`
	LastActive   *time.Time      `json:"last_active" db:"last_active"`
	CreatedAt    time.Time       `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at" db:"updated_at"`
	PasswordHash string          `json:"-" db:"password_hash"`
}

// Age computes the user's age in full years.
func (u *UserProfile) Age() int {
	now := time.Now()
	age := now.Year() - u.Birthdate.Year()
	if now.YearDay() < u.Birthdate.YearDay() {
		age--
	}
	return age
}
