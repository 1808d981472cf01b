package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_CaseFolding(t *testing.T) {
	assert.Equal(t, Normalize("central"), Normalize("CENTRAL"))
	assert.Equal(t, "central rama 3", Normalize("Central Rama 3"))
}

func TestNormalize_Idempotent(t *testing.T) {
	inputs := []string{
		"Central Rama 3",
		"  Café   de  Flore ",
		"เซ็นทรัลพระราม 3",
		"",
	}
	for _, in := range inputs {
		once := Normalize(in)
		assert.Equal(t, once, Normalize(once), "normalize must be idempotent for %q", in)
	}
}

func TestNormalize_StripsDiacritics(t *testing.T) {
	// Latin accents fold away after NFKD decomposition
	assert.Equal(t, Normalize("cafe"), Normalize("café"))

	// Thai tone marks are combining marks and must not affect comparison:
	// น้ำ (with tone mark) vs นำ (without)
	assert.Equal(t, Normalize("น้ำ"), Normalize("นำ"))
}

func TestNormalize_CollapsesWhitespace(t *testing.T) {
	assert.Equal(t, "central rama 3", Normalize("  Central \t Rama\n3 "))
}

func TestNormalize_Empty(t *testing.T) {
	assert.Equal(t, "", Normalize(""))
	assert.Equal(t, "", Normalize("   "))
}

func TestMatches(t *testing.T) {
	assert.True(t, Matches("Central Rama 3", "central"))
	assert.True(t, Matches("Central Rama 3", "RAMA"))
	assert.False(t, Matches("Central Rama 3", "siam"))
	assert.False(t, Matches("", "central"))
	assert.False(t, Matches("Central", ""))
}

func TestMatchScore(t *testing.T) {
	assert.Equal(t, MatchExact, MatchScore("Central Rama 3", "central rama 3"))
	assert.Equal(t, MatchPrefix, MatchScore("Central Rama 3", "central"))
	assert.Equal(t, MatchContains, MatchScore("Central Rama 3", "rama"))
	assert.Equal(t, MatchNone, MatchScore("Central Rama 3", "siam"))
}
