package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGender_Valid(t *testing.T) {
	assert.True(t, GenderMale.Valid())
	assert.True(t, GenderFemale.Valid())
	assert.True(t, GenderOther.Valid())
	assert.False(t, Gender("attack-helicopter").Valid())
	assert.False(t, Gender("").Valid())
}

func TestUserPreferences_ValueScanRoundTrip(t *testing.T) {
	in := UserPreferences{
		AgeRange:         AgeRange{Min: 21, Max: 35},
		Distance:         50,
		GenderPreference: []Gender{GenderFemale, GenderOther},
	}

	v, err := in.Value()
	require.NoError(t, err)

	var out UserPreferences
	require.NoError(t, out.Scan(v))
	assert.Equal(t, in, out)
}

func TestUserPreferences_ScanNull(t *testing.T) {
	out := UserPreferences{Distance: 99}
	require.NoError(t, out.Scan(nil))
	assert.Equal(t, UserPreferences{}, out, "a NULL blob resets to no filtering at all")
}

func TestUserPreferences_ScanBadType(t *testing.T) {
	var out UserPreferences
	assert.Error(t, out.Scan(42))
}
