package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
)

// SourceCount is the number of matches contributed by one source file
type SourceCount struct {
	Source  string
	Matches int
}

// Verification summarizes a written match history
type Verification struct {
	Total       int
	FirstDate   string
	FirstSource string
	LastDate    string
	LastSource  string
	BySource    []SourceCount
	IDsInOrder  bool
}

// Verify reads matches_full.json back from dir and summarizes it
func Verify(dir string) (*Verification, error) {
	path := filepath.Join(dir, MatchesFile)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	var matches []MatchRecord
	if err := json.Unmarshal(data, &matches); err != nil {
		return nil, fmt.Errorf("failed to decode %s: %w", path, err)
	}

	v := &Verification{Total: len(matches), IDsInOrder: true}
	if len(matches) == 0 {
		return v, nil
	}

	v.FirstDate, v.FirstSource = matches[0].DateRaw, matches[0].Source
	last := matches[len(matches)-1]
	v.LastDate, v.LastSource = last.DateRaw, last.Source

	counts := make(map[string]int)
	for i, m := range matches {
		counts[m.Source]++
		if m.ID != i+1 {
			v.IDsInOrder = false
		}
	}
	for source, n := range counts {
		v.BySource = append(v.BySource, SourceCount{Source: source, Matches: n})
	}
	sort.Slice(v.BySource, func(i, j int) bool {
		return v.BySource[i].Source < v.BySource[j].Source
	})

	return v, nil
}
