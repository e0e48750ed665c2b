// Package ingest turns league CSV files into validated match records.
package ingest

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"

	"clubelo/ratings/internal/models"

	"github.com/rs/zerolog/log"
	"golang.org/x/text/encoding/charmap"
)

// Reason explains why a row was skipped
type Reason string

const (
	ReasonMissingTeam    Reason = "missing_team"
	ReasonUnresolvedTeam Reason = "unresolved_team"
)

// catalogFile is never treated as a match source
const catalogFile = "clubs.csv"

// Resolver maps a raw team name onto a club id
type Resolver interface {
	Resolve(raw string) (int, bool)
}

// Summary tallies the outcome of an ingestion pass
type Summary struct {
	Files           int            `json:"files"`
	FailedFiles     int            `json:"failedFiles"`
	Processed       int            `json:"processed"`
	Skipped         int            `json:"skipped"`
	SkippedByReason map[Reason]int `json:"skippedByReason"`
	UndatedMatches  int            `json:"undatedMatches"`
}

func newSummary() *Summary {
	return &Summary{SkippedByReason: make(map[Reason]int)}
}

func (s *Summary) skip(reason Reason) {
	s.Skipped++
	s.SkippedByReason[reason]++
}

func (s *Summary) merge(other *Summary) {
	s.Files += other.Files
	s.FailedFiles += other.FailedFiles
	s.Processed += other.Processed
	s.Skipped += other.Skipped
	s.UndatedMatches += other.UndatedMatches
	for reason, n := range other.SkippedByReason {
		s.SkippedByReason[reason] += n
	}
}

// Ingestor validates CSV rows against the club catalog
type Ingestor struct {
	resolver Resolver
}

// NewIngestor creates an ingestor backed by the given resolver
func NewIngestor(resolver Resolver) *Ingestor {
	return &Ingestor{resolver: resolver}
}

// Row converts one CSV row into a match. A nil match comes with the reason
// the row was skipped.
func (in *Ingestor) Row(row Row, source string) (*models.Match, Reason) {
	home := row.Get(FieldHome)
	away := row.Get(FieldAway)
	if home == "" || away == "" {
		return nil, ReasonMissingTeam
	}

	// Both names go through the resolver so both misses are recorded
	homeID, homeOK := in.resolver.Resolve(home)
	awayID, awayOK := in.resolver.Resolve(away)
	if !homeOK || !awayOK {
		return nil, ReasonUnresolvedTeam
	}

	dateRaw := row.Get(FieldDate)
	return &models.Match{
		DateRaw:    dateRaw,
		Date:       ParseDate(dateRaw),
		HomeClubID: homeID,
		AwayClubID: awayID,
		HomeGoals:  ParseGoals(row.Get(FieldHomeGoals)),
		AwayGoals:  ParseGoals(row.Get(FieldAwayGoals)),
		Source:     source,
	}, ""
}

// EachRow calls fn for every record of a CSV stream, keyed by the trimmed
// header. Rows may be shorter or longer than the header.
func EachRow(r io.Reader, fn func(line int, row Row)) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to read header: %w", err)
	}
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		header[i] = strings.TrimSpace(name)
	}

	line := 1
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			return nil
		}
		line++
		if err != nil {
			return fmt.Errorf("failed to read line %d: %w", line, err)
		}

		row := make(Row, len(header))
		for i, name := range header {
			if i < len(record) {
				row[name] = record[i]
			}
		}
		fn(line, row)
	}
}

// ReadCSV reads every row of a CSV stream into matches
func (in *Ingestor) ReadCSV(r io.Reader, source string) ([]*models.Match, *Summary, error) {
	summary := newSummary()

	var matches []*models.Match
	err := EachRow(r, func(line int, row Row) {
		match, reason := in.Row(row, source)
		if match == nil {
			summary.skip(reason)
			log.Debug().
				Str("source", source).
				Int("line", line).
				Str("reason", string(reason)).
				Msg("Row skipped")
			return
		}

		if match.Date == nil {
			summary.UndatedMatches++
			log.Debug().
				Str("source", source).
				Int("line", line).
				Str("date_raw", match.DateRaw).
				Msg("Unparseable date, match kept without date")
		}

		summary.Processed++
		matches = append(matches, match)
	})

	return matches, summary, err
}

// utf8BOM is dropped before decoding so a BOM on a Windows-1252 body does
// not end up in the first header
var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// OpenFile reads a league CSV into memory. Files that are not valid UTF-8
// are decoded as Windows-1252.
func OpenFile(path string) (io.Reader, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	data = bytes.TrimPrefix(data, utf8BOM)

	if !utf8.Valid(data) {
		decoded, err := charmap.Windows1252.NewDecoder().Bytes(data)
		if err != nil {
			return nil, fmt.Errorf("failed to decode %s: %w", path, err)
		}
		data = decoded
	}
	return bytes.NewReader(data), nil
}

// ReadFile reads one league CSV. The file base name is the provenance tag.
func (in *Ingestor) ReadFile(path string) ([]*models.Match, *Summary, error) {
	r, err := OpenFile(path)
	if err != nil {
		return nil, newSummary(), err
	}

	matches, summary, err := in.ReadCSV(r, filepath.Base(path))
	summary.Files = 1
	return matches, summary, err
}

// SourceFiles lists the league CSVs of a directory in lexical order
func SourceFiles(dir string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, "*.csv"))
	if err != nil {
		return nil, fmt.Errorf("failed to list csv files: %w", err)
	}

	out := files[:0]
	for _, f := range files {
		if strings.EqualFold(filepath.Base(f), catalogFile) {
			continue
		}
		out = append(out, f)
	}
	sort.Strings(out)
	return out, nil
}

// ReadDir reads every league CSV of a directory. The returned matches keep
// file order then row order. A file that cannot be read is logged and
// counted but does not stop the pass.
func (in *Ingestor) ReadDir(ctx context.Context, dir string) ([]*models.Match, *Summary, error) {
	files, err := SourceFiles(dir)
	if err != nil {
		return nil, nil, err
	}

	summary := newSummary()
	var all []*models.Match
	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return nil, summary, err
		}

		matches, fileSummary, err := in.ReadFile(path)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("Failed to read source file")
			summary.FailedFiles++
			// rows read before a malformed line are still kept
		}
		summary.merge(fileSummary)
		all = append(all, matches...)

		log.Info().
			Str("file", filepath.Base(path)).
			Int("matches", len(matches)).
			Int("skipped", fileSummary.Skipped).
			Msg("Source file processed")
	}

	return all, summary, nil
}
