package catalog

import (
	"context"
	"path/filepath"
	"sort"
	"strings"

	"clubelo/ratings/internal/ingest"
	"clubelo/ratings/internal/models"

	"github.com/rs/zerolog/log"
)

// LeagueCode returns the league code of a source file, the base name up to
// the first underscore
func LeagueCode(path string) string {
	base := filepath.Base(path)
	if i := strings.Index(base, "_"); i >= 0 {
		return base[:i]
	}
	return strings.TrimSuffix(base, filepath.Ext(base))
}

// Build derives a catalog from league CSVs. Clubs are the distinct trimmed
// team names, sorted, with ids from 1. A club's league is the lexically
// first league it appears in.
func Build(ctx context.Context, files []string, leagues map[string]string) ([]models.Club, error) {
	seen := make(map[string]map[string]struct{})

	add := func(name, league string) {
		name = strings.TrimSpace(name)
		if name == "" {
			return
		}
		if seen[name] == nil {
			seen[name] = make(map[string]struct{})
		}
		seen[name][league] = struct{}{}
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		league := LeagueName(leagues, LeagueCode(path))
		r, err := ingest.OpenFile(path)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("Failed to read source file")
			continue
		}
		err = ingest.EachRow(r, func(_ int, row ingest.Row) {
			add(row.Get(ingest.FieldHome), league)
			add(row.Get(ingest.FieldAway), league)
		})
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("Failed to read source file")
		}
	}

	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)

	clubs := make([]models.Club, 0, len(names))
	for i, name := range names {
		ls := make([]string, 0, len(seen[name]))
		for l := range seen[name] {
			ls = append(ls, l)
		}
		sort.Strings(ls)

		clubs = append(clubs, models.Club{
			ID:        i + 1,
			Name:      name,
			League:    ls[0],
			Continent: models.DefaultContinent,
		})
	}

	log.Info().Int("files", len(files)).Int("clubs", len(clubs)).Msg("Club catalog built")
	return clubs, nil
}
