// Command buildclubs derives the club catalog from the league CSVs in the
// data directory and writes it as clubs.json.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"clubelo/ratings/internal/app"
	"clubelo/ratings/internal/catalog"
	"clubelo/ratings/internal/config"
	"clubelo/ratings/internal/ingest"

	"github.com/rs/zerolog/log"
)

func main() {
	out := flag.String("out", "", "catalog output path (default CLUBS_FILE)")
	flag.Parse()

	cfg := config.MustLoad()
	app.SetupLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	leagues, err := catalog.LoadLeagues(cfg.LeaguesFile)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load league map")
	}

	files, err := ingest.SourceFiles(cfg.DataDir)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to list source files")
	}
	if len(files) == 0 {
		log.Fatal().Str("data_dir", cfg.DataDir).Msg("No league CSV files found")
	}

	clubs, err := catalog.Build(ctx, files, leagues)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to build catalog")
	}

	path := *out
	if path == "" {
		path = cfg.ClubsFile
	}
	if err := catalog.Save(path, clubs); err != nil {
		log.Fatal().Err(err).Msg("Failed to write catalog")
	}

	log.Info().Str("path", path).Int("clubs", len(clubs)).Msg("Club catalog written")
}
