package ingest

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"clubelo/ratings/internal/models"
	"clubelo/ratings/internal/resolver"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testResolver() *resolver.Resolver {
	return resolver.New([]models.Club{
		{ID: 1, Name: "Arsenal"},
		{ID: 2, Name: "Chelsea"},
		{ID: 3, Name: "Bayern München"},
		{ID: 4, Name: "Köln"},
	})
}

func TestIngestor_Row(t *testing.T) {
	in := NewIngestor(testResolver())

	match, reason := in.Row(Row{"Date": "01/01/2024", "HomeTeam": "Arsenal", "AwayTeam": "Chelsea", "FTHG": "2", "FTAG": "0"}, "E0_2324.csv")
	require.NotNil(t, match)
	assert.Empty(t, reason)
	assert.Equal(t, 1, match.HomeClubID)
	assert.Equal(t, 2, match.AwayClubID)
	assert.Equal(t, 2, match.HomeGoals)
	assert.Equal(t, 0, match.AwayGoals)
	assert.Equal(t, "E0_2324.csv", match.Source)
	assert.Equal(t, "01/01/2024", match.DateRaw)
	require.NotNil(t, match.Date)
	assert.Equal(t, "2024-01-01T00:00:00", *match.DateISO())
}

func TestIngestor_RowRejections(t *testing.T) {
	r := testResolver()
	in := NewIngestor(r)

	match, reason := in.Row(Row{"HomeTeam": "Arsenal", "AwayTeam": "  "}, "x.csv")
	assert.Nil(t, match)
	assert.Equal(t, ReasonMissingTeam, reason)

	match, reason = in.Row(Row{"HomeTeam": "Spurs", "AwayTeam": "Man Utd"}, "x.csv")
	assert.Nil(t, match)
	assert.Equal(t, ReasonUnresolvedTeam, reason)
	assert.Equal(t, []string{"Man Utd", "Spurs"}, r.Unmapped(), "both misses should be recorded")
}

func TestIngestor_RowMissingGoalsKept(t *testing.T) {
	in := NewIngestor(testResolver())

	match, reason := in.Row(Row{"date": "bad date", "home": "Bayern Munchen", "away": "Koln", "FTHG": "x"}, "D1.csv")
	require.NotNil(t, match)
	assert.Empty(t, reason)
	assert.Equal(t, 0, match.HomeGoals)
	assert.Equal(t, 0, match.AwayGoals)
	assert.Nil(t, match.Date)
	assert.Nil(t, match.DateISO())
	assert.Equal(t, "bad date", match.DateRaw)
}

func TestIngestor_ReadCSV(t *testing.T) {
	data := "\ufeffDiv,Date,HomeTeam,AwayTeam,FTHG,FTAG,FTR\n" +
		"E0,12/08/2023,Arsenal,Chelsea,2,1,H\n" +
		"E0,13/08/2023,Chelsea,Spurs,1,1,D\n" +
		"E0,,Chelsea,Arsenal\n" +
		",,,,,,\n" +
		"E0,14/08/2023,Bayern München,Köln,4,0,H,extra\n"

	in := NewIngestor(testResolver())
	matches, summary, err := in.ReadCSV(strings.NewReader(data), "E0_2324.csv")
	require.NoError(t, err)

	require.Len(t, matches, 3)
	assert.Equal(t, 3, summary.Processed)
	assert.Equal(t, 2, summary.Skipped)
	assert.Equal(t, 1, summary.SkippedByReason[ReasonUnresolvedTeam])
	assert.Equal(t, 1, summary.SkippedByReason[ReasonMissingTeam])
	assert.Equal(t, 1, summary.UndatedMatches)

	assert.Equal(t, 1, matches[0].HomeClubID)
	assert.Equal(t, 2, matches[1].HomeClubID)
	assert.Nil(t, matches[1].Date)
	assert.Equal(t, 0, matches[1].HomeGoals)
	assert.Equal(t, 3, matches[2].HomeClubID)
	assert.Equal(t, 4, matches[2].HomeGoals)
}

func TestIngestor_ReadCSVEmpty(t *testing.T) {
	in := NewIngestor(testResolver())
	matches, summary, err := in.ReadCSV(strings.NewReader(""), "empty.csv")
	require.NoError(t, err)
	assert.Empty(t, matches)
	assert.Zero(t, summary.Processed)
}

func TestIngestor_ReadFileWindows1252(t *testing.T) {
	dir := t.TempDir()
	// "Köln" with ö encoded as 0xF6
	data := []byte("Date,HomeTeam,AwayTeam,FTHG,FTAG\n01/09/2023,K\xf6ln,Arsenal,1,3\n")
	path := filepath.Join(dir, "D1_2324.csv")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	in := NewIngestor(testResolver())
	matches, summary, err := in.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 4, matches[0].HomeClubID)
	assert.Equal(t, "D1_2324.csv", matches[0].Source)
	assert.Equal(t, 1, summary.Files)
}

func TestIngestor_ReadFileBOMWithWindows1252Body(t *testing.T) {
	dir := t.TempDir()
	data := []byte("\xef\xbb\xbfDate,HomeTeam,AwayTeam,FTHG,FTAG\n01/09/2023,K\xf6ln,Arsenal,2,2\n")
	path := filepath.Join(dir, "D1_2324.csv")
	require.NoError(t, os.WriteFile(path, data, 0o644))

	in := NewIngestor(testResolver())
	matches, summary, err := in.ReadFile(path)
	require.NoError(t, err)
	require.Len(t, matches, 1)
	assert.Equal(t, 4, matches[0].HomeClubID)
	assert.Equal(t, 0, summary.Skipped)
}

func TestIngestor_ReadDir(t *testing.T) {
	dir := t.TempDir()
	write := func(name, content string) {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	write("E1_2324.csv", "Date,HomeTeam,AwayTeam,FTHG,FTAG\n01/01/2024,Chelsea,Arsenal,0,0\n")
	write("E0_2324.csv", "Date,HomeTeam,AwayTeam,FTHG,FTAG\n02/01/2024,Arsenal,Chelsea,1,0\n")
	write("clubs.csv", "Date,HomeTeam,AwayTeam,FTHG,FTAG\n02/01/2024,Arsenal,Chelsea,1,0\n")
	write("notes.txt", "ignored")

	files, err := SourceFiles(dir)
	require.NoError(t, err)
	require.Len(t, files, 2)
	assert.Equal(t, "E0_2324.csv", filepath.Base(files[0]))
	assert.Equal(t, "E1_2324.csv", filepath.Base(files[1]))

	in := NewIngestor(testResolver())
	matches, summary, err := in.ReadDir(context.Background(), dir)
	require.NoError(t, err)
	require.Len(t, matches, 2)
	assert.Equal(t, "E0_2324.csv", matches[0].Source, "files are read in lexical order")
	assert.Equal(t, "E1_2324.csv", matches[1].Source)
	assert.Equal(t, 2, summary.Files)
	assert.Equal(t, 2, summary.Processed)
}

func TestIngestor_ReadDirCancelled(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "E0.csv"), []byte("Date,HomeTeam,AwayTeam\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	in := NewIngestor(testResolver())
	_, _, err := in.ReadDir(ctx, dir)
	assert.ErrorIs(t, err, context.Canceled)
}
