package card

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidNumber(t *testing.T) {
	assert.True(t, ValidNumber("OP01-120"))
	assert.True(t, ValidNumber("ST10-005"))
	assert.True(t, ValidNumber("PRB01-001"))
	assert.True(t, ValidNumber("EB02-061"))
	assert.True(t, ValidNumber("P-001"))
	assert.True(t, ValidNumber(" OP09-118 "))

	assert.False(t, ValidNumber(""))
	assert.False(t, ValidNumber("-"))
	assert.False(t, ValidNumber("120"))
	assert.False(t, ValidNumber("XX01-001"))
	assert.False(t, ValidNumber("OP01"))
	assert.False(t, ValidNumber("OP01-120 foil"))
}

func TestFindNumber(t *testing.T) {
	// Prefixed patterns win over the bare numeric one
	assert.Equal(t, "OP09-118", FindNumber("モンキー・D・ルフィ OP09-118 SR 2,480円"))
	assert.Equal(t, "P-055", FindNumber("プロモ P-055 限定"))
	// When both prefixed forms appear, the promo form wins
	assert.Equal(t, "P-055", FindNumber("OP01-001 再録 P-055 プロモ"))
	// Bare fallback
	assert.Equal(t, "09-118", FindNumber("card 09-118 listing"))
	// No identifier at all
	assert.Equal(t, "", FindNumber("プレイマット 黒"))
}

func TestValidBareNumber(t *testing.T) {
	assert.True(t, ValidBareNumber("09-118"))
	assert.True(t, ValidBareNumber(" 123-45 "))

	assert.False(t, ValidBareNumber(""))
	assert.False(t, ValidBareNumber("-"))
	assert.False(t, ValidBareNumber("OP01-120"))
	assert.False(t, ValidBareNumber("09-118 foil"))
}

func TestSetPrefix(t *testing.T) {
	assert.Equal(t, "OP01", SetPrefix("op01"))
	assert.Equal(t, "OP01", SetPrefix("OP01-120"))
	assert.Equal(t, "EB02", SetPrefix(" eb02 "))
	assert.Equal(t, "09-118", SetPrefix("09-118"))
}

func TestMatchesSearchTerm(t *testing.T) {
	// Set-code search requires a prefix match
	assert.True(t, MatchesSearchTerm("OP01-120", "op01"))
	assert.False(t, MatchesSearchTerm("OP13-023", "op01"))
	// More specific searches use substring matching
	assert.True(t, MatchesSearchTerm("OP01-120", "OP01-120"))
	assert.True(t, MatchesSearchTerm("OP09-118", "09-118"))
	assert.False(t, MatchesSearchTerm("", "op01"))
}

func TestColor(t *testing.T) {
	assert.True(t, ValidColor("赤"))
	assert.True(t, ValidColor("青色"))
	assert.False(t, ValidColor("金"))
	assert.False(t, ValidColor(""))

	assert.Equal(t, "Red", TranslateColor("赤"))
	assert.Equal(t, "Blue", TranslateColor("青色"))
	assert.Equal(t, "金", TranslateColor("金"))
}

func TestRarityFromAlt(t *testing.T) {
	assert.Equal(t, "DON", RarityFromAlt("ドン!!カード"))
	assert.Equal(t, "P-SR", RarityFromAlt("OP09-118 P-SR パラレル"))
	assert.Equal(t, "SR", RarityFromAlt("OP09-118 SR モンキー・D・ルフィ"))
	assert.Equal(t, "SEC", RarityFromAlt("OP05-119 SEC"))
	// The bare R must not fire inside PRB or SR
	assert.Equal(t, "", RarityFromAlt("PRB01"))
	assert.Equal(t, "R", RarityFromAlt("OP06-069 R badge"))
	assert.Equal(t, "", RarityFromAlt(""))
}

func TestSetName(t *testing.T) {
	assert.Equal(t, "Romance Dawn", SetName("op01"))
	assert.Equal(t, "Promotional Cards", SetName("P-"))
	assert.Equal(t, "OP99", SetName("op99"))
}

func TestKnownSearchTerms(t *testing.T) {
	terms := KnownSearchTerms()
	assert.Len(t, terms, 61)
	assert.Equal(t, "OP01", terms[0])
	assert.Equal(t, "OP20", terms[19])
	assert.Equal(t, "EB01", terms[20])
	assert.Equal(t, "ST30", terms[59])
	assert.Equal(t, "P-", terms[60])
}
