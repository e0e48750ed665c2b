package snapshot

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"clubelo/ratings/internal/models"
	"clubelo/ratings/internal/rating"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2026, 10, 19, 12, 0, 0, 0, time.UTC)

func sampleResult() *rating.Result {
	d := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	clubs := []models.Club{{ID: 1, Name: "Münster"}, {ID: 2, Name: "B"}}
	matches := []*models.Match{
		{DateRaw: "", HomeClubID: 2, AwayClubID: 1, HomeGoals: 1, AwayGoals: 1, Source: "E0_2324.csv"},
		{DateRaw: "01/01/2024", Date: &d, HomeClubID: 1, AwayClubID: 2, HomeGoals: 2, AwayGoals: 0, Source: "E0_2324.csv"},
	}
	return rating.NewEngine(rating.DefaultParams()).Run(clubs, matches, testNow)
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 1818.9, Round2(1818.9017))
	assert.Equal(t, -18.9, Round2(-18.9017))
	assert.Equal(t, 1800.0, Round2(1800))
	assert.Equal(t, 0.13, Round2(0.125))
}

func TestBuild_AssignsSequentialIDsAfterSort(t *testing.T) {
	res := sampleResult()
	snap := Build(res, nil, testNow)

	require.Len(t, snap.Matches, 2)
	assert.Equal(t, 1, snap.Matches[0].ID)
	assert.Equal(t, 2, snap.Matches[1].ID)

	// dated match sorts before the undated one
	require.NotNil(t, snap.Matches[0].Date)
	assert.Equal(t, "2024-01-01T00:00:00", *snap.Matches[0].Date)
	assert.Nil(t, snap.Matches[1].Date)
	assert.Equal(t, "", snap.Matches[1].DateRaw)

	assert.Equal(t, 1, res.Matches[0].ID, "ids are written back to the processed matches")
	assert.Equal(t, "", snap.LastMatchDate())
}

func TestBuild_RoundsAtOutput(t *testing.T) {
	res := sampleResult()
	snap := Build(res, nil, testNow)

	first := snap.Matches[0]
	assert.Equal(t, 1800.0, first.HomeEloPre)
	assert.Equal(t, 26.25, first.HomeDelta)
	assert.Equal(t, Round2(res.Matches[0].HomeOverallDelta), first.HomeOverallDelta)

	for _, r := range snap.HomeAway {
		assert.Equal(t, Round2(r.HomeElo), r.HomeElo)
		assert.Equal(t, Round2(r.OverallElo), r.OverallElo)
	}
	require.Len(t, snap.Latest, 2)
	assert.Equal(t, "2024-01-01T00:00:00", snap.Latest[0].Date)
}

func TestBuild_UnmappedNeverNullSuggestions(t *testing.T) {
	snap := Build(sampleResult(), []models.UnmappedName{
		{Name: "Spurs", Suggestions: nil},
		{Name: "Man Utd", Suggestions: []string{"man united"}},
	}, testNow)

	assert.Equal(t, []string{}, snap.Unmapped["Spurs"])
	assert.Equal(t, []string{"man united"}, snap.Unmapped["Man Utd"])
}

func TestWriter_WritesAllFiles(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	w := NewWriter(dir)
	snap := Build(sampleResult(), []models.UnmappedName{{Name: "Spurs", Suggestions: []string{}}}, testNow)

	require.NoError(t, w.Write(context.Background(), snap))

	for _, name := range []string{MatchesFile, HomeAwayFile, LatestFile, UnmappedFile} {
		_, err := os.Stat(filepath.Join(dir, name))
		assert.NoError(t, err, name)
	}

	data, err := os.ReadFile(filepath.Join(dir, MatchesFile))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"date": null`)
	assert.Contains(t, string(data), `"homeEloPre": 1800`)

	var unmapped map[string][]string
	data, err = os.ReadFile(filepath.Join(dir, UnmappedFile))
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(data, &unmapped))
	assert.Equal(t, []string{}, unmapped["Spurs"])

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 4, "no temp files are left behind")
}

func TestWriter_EmptySnapshot(t *testing.T) {
	dir := t.TempDir()
	res := rating.NewEngine(rating.DefaultParams()).Run([]models.Club{{ID: 1, Name: "A"}}, nil, testNow)

	require.NoError(t, NewWriter(dir).Write(context.Background(), Build(res, nil, testNow)))

	data, err := os.ReadFile(filepath.Join(dir, MatchesFile))
	require.NoError(t, err)
	assert.JSONEq(t, `[]`, string(data))

	data, err = os.ReadFile(filepath.Join(dir, LatestFile))
	require.NoError(t, err)
	assert.JSONEq(t, `[{"clubId":1,"date":"2026-10-19","elo":1800}]`, string(data))
}

func TestWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := NewWriter(t.TempDir()).Write(ctx, Build(sampleResult(), nil, testNow))
	assert.ErrorIs(t, err, context.Canceled)
}

func TestVerify(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, NewWriter(dir).Write(context.Background(), Build(sampleResult(), nil, testNow)))

	v, err := Verify(dir)
	require.NoError(t, err)
	assert.Equal(t, 2, v.Total)
	assert.Equal(t, "01/01/2024", v.FirstDate)
	assert.Equal(t, "E0_2324.csv", v.LastSource)
	assert.True(t, v.IDsInOrder)
	assert.Equal(t, []SourceCount{{Source: "E0_2324.csv", Matches: 2}}, v.BySource)
}

func TestVerify_MissingFile(t *testing.T) {
	_, err := Verify(t.TempDir())
	assert.Error(t, err)
}
