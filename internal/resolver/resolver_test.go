package resolver

import (
	"testing"

	"clubelo/ratings/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testClubs() []models.Club {
	return []models.Club{
		{ID: 1, Name: "Arsenal", League: "Premier League"},
		{ID: 2, Name: "Internazionale", League: "Serie A"},
		{ID: 3, Name: "São Paulo", League: "Brasileirão"},
		{ID: 4, Name: "Bayern München", League: "Bundesliga"},
		{ID: 5, Name: "Sao Paulo", League: "Duplicate"},
	}
}

func TestResolver_Resolve(t *testing.T) {
	r := New(testClubs())

	id, ok := r.Resolve("Arsenal")
	require.True(t, ok)
	assert.Equal(t, 1, id)

	id, ok = r.Resolve("  ARSENAL ")
	require.True(t, ok, "case and whitespace should not matter")
	assert.Equal(t, 1, id)

	id, ok = r.Resolve("Bayern Munchen")
	require.True(t, ok, "accents should not matter")
	assert.Equal(t, 4, id)

	id, ok = r.Resolve("Sao Paulo")
	require.True(t, ok)
	assert.Equal(t, 3, id, "first club in catalog order wins on duplicate keys")

	assert.Empty(t, r.Unmapped())
	assert.Equal(t, 4, r.Len())
}

func TestResolver_UnmappedRecorded(t *testing.T) {
	r := New(testClubs())

	_, ok := r.Resolve("Inter Milan")
	assert.False(t, ok)
	_, ok = r.Resolve("Chelsea")
	assert.False(t, ok)
	_, ok = r.Resolve("Chelsea")
	assert.False(t, ok)

	assert.Equal(t, []string{"Chelsea", "Inter Milan"}, r.Unmapped())
}

func TestResolver_SuggestAboveThreshold(t *testing.T) {
	r := New(testClubs())

	// one deletion away from "internazionale": similarity 13/14
	suggestions := r.Suggest("Internazional")
	assert.Contains(t, suggestions, "internazionale")
}

func TestResolver_SuggestBelowThreshold(t *testing.T) {
	r := New(testClubs())

	assert.Less(t, Similarity("inter milan", "internazionale"), DefaultCutoff)
	assert.Empty(t, r.Suggest("Inter Milan"))
}

func TestResolver_SuggestOrderingAndLimit(t *testing.T) {
	clubs := []models.Club{
		{ID: 1, Name: "Team Abcd"},
		{ID: 2, Name: "Team Abce"},
		{ID: 3, Name: "Team Abxx"},
		{ID: 4, Name: "Team Abcf"},
		{ID: 5, Name: "Team Abcg"},
		{ID: 6, Name: "Team Abch"},
		{ID: 7, Name: "Team Abci"},
	}
	r := New(clubs)

	suggestions := r.Suggest("Team Abcz")
	require.Len(t, suggestions, DefaultLimit)
	// every single-edit candidate scores the same, so catalog order is kept
	assert.Equal(t, []string{"team abcd", "team abce", "team abcf", "team abcg", "team abch"}, suggestions)

	r = New(clubs, WithLimit(2))
	assert.Len(t, r.Suggest("Team Abcz"), 2)

	r = New(clubs, WithCutoff(0.95))
	assert.Empty(t, r.Suggest("Team Abcz"))
}

func TestResolver_SuggestBestFirst(t *testing.T) {
	r := New([]models.Club{
		{ID: 1, Name: "Wolverhampton"},
		{ID: 2, Name: "Wolves"},
	})

	suggestions := r.Suggest("Wolvess")
	require.NotEmpty(t, suggestions)
	assert.Equal(t, "wolves", suggestions[0])
}

func TestResolver_Diagnostics(t *testing.T) {
	r := New(testClubs())
	r.Resolve("Arsenall")
	r.Resolve("Inter Milan")
	r.Resolve("Arsenal")

	diags := r.Diagnostics()
	require.Len(t, diags, 2)
	assert.Equal(t, "Arsenall", diags[0].Name)
	assert.Equal(t, []string{"arsenal"}, diags[0].Suggestions)
	assert.Equal(t, "Inter Milan", diags[1].Name)
	assert.Empty(t, diags[1].Suggestions)
}
