package snapshot

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog/log"
)

// Writer writes snapshots as indented JSON files into one directory
type Writer struct {
	dir string
}

// NewWriter creates a writer for the given output directory
func NewWriter(dir string) *Writer {
	return &Writer{dir: dir}
}

// Dir returns the output directory
func (w *Writer) Dir() string {
	return w.dir
}

// Write stores the four output tables. Each file is written to a temporary
// name first and renamed into place, so readers never see a partial file.
func (w *Writer) Write(ctx context.Context, snap *Snapshot) error {
	if err := os.MkdirAll(w.dir, 0o755); err != nil {
		return fmt.Errorf("failed to create output dir: %w", err)
	}

	files := []struct {
		name string
		v    any
	}{
		{MatchesFile, snap.Matches},
		{HomeAwayFile, snap.HomeAway},
		{LatestFile, snap.Latest},
		{UnmappedFile, snap.Unmapped},
	}

	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		path := filepath.Join(w.dir, f.name)
		if err := writeJSON(path, f.v); err != nil {
			return err
		}
	}

	log.Info().
		Str("dir", w.dir).
		Int("matches", len(snap.Matches)).
		Int("clubs", len(snap.HomeAway)).
		Int("unmapped", len(snap.Unmapped)).
		Msg("Snapshot written")

	return nil
}

func writeJSON(path string, v any) error {
	tmp, err := os.CreateTemp(filepath.Dir(path), "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", path, err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName) // no-op after a successful rename

	enc := json.NewEncoder(tmp)
	enc.SetIndent("", "  ")
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to encode %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("failed to move %s into place: %w", path, err)
	}
	return nil
}
