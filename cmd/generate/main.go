// Command generate runs one rating generation and exits. With -fetch it
// first downloads the configured seasons from football-data.co.uk.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"clubelo/ratings/internal/app"
	"clubelo/ratings/internal/config"
	"clubelo/ratings/internal/models"
	"clubelo/ratings/internal/rating"
	"clubelo/ratings/internal/snapshot"

	"github.com/rs/zerolog/log"
)

func main() {
	fetch := flag.Bool("fetch", false, "download the configured seasons before generating")
	skipExisting := flag.Bool("skip-existing", false, "with -fetch, keep season files that are already present")
	verify := flag.Bool("verify", true, "read the written match history back and log a summary")
	predict := flag.String("predict", "", "print the expectancy of a fixture, as HOME_ID:AWAY_ID")
	mode := flag.String("mode", rating.ModeOverall, "prediction mode: overall or home_away")
	flag.Parse()

	cfg := config.MustLoad()
	app.SetupLogger(cfg.AppEnv, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if *fetch {
		res, err := app.NewClient(cfg).DownloadAll(ctx, cfg.FootballDataLeagues, cfg.FootballDataSeasons, cfg.DataDir, *skipExisting)
		if err != nil {
			log.Fatal().Err(err).Msg("Season download aborted")
		}
		if res.Failed > 0 {
			log.Warn().Int("failed", res.Failed).Msg("Some season files could not be downloaded")
		}
	}

	components := app.Open(ctx, cfg)
	defer components.Close()

	pipe := app.NewPipeline(cfg, components.Stores(cfg)...)
	report, err := pipe.Run(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Rating generation failed")
		components.Close()
		os.Exit(1)
	}

	log.Info().
		Str("run_id", report.RunID).
		Int("clubs", report.Clubs).
		Int("matches", report.Matches).
		Int("unmapped", report.Unmapped).
		Dur("duration", report.Duration).
		Msg("Ratings generated")

	if *verify {
		v, err := snapshot.Verify(cfg.OutputDir)
		if err != nil {
			log.Error().Err(err).Msg("Verification failed")
		} else {
			log.Info().
				Int("total", v.Total).
				Str("first", v.FirstDate+" "+v.FirstSource).
				Str("last", v.LastDate+" "+v.LastSource).
				Bool("ids_in_order", v.IDsInOrder).
				Msg("Match history verified")
			for _, s := range v.BySource {
				log.Debug().Str("source", s.Source).Int("matches", s.Matches).Msg("Matches by source")
			}
		}
	}

	if *predict != "" {
		line, err := predictFixture(pipe, *predict, *mode)
		if err != nil {
			log.Error().Err(err).Str("fixture", *predict).Msg("Prediction failed")
			components.Close()
			os.Exit(1)
		}
		fmt.Println(line)
	}
}

// predictor answers fixture expectancy queries from the last run
type predictor interface {
	Predict(homeID, awayID int, mode string) (*models.Prediction, error)
}

// predictFixture formats the expectancy of a HOME_ID:AWAY_ID fixture
func predictFixture(pred predictor, fixture, mode string) (string, error) {
	homeID, awayID, err := parseFixture(fixture)
	if err != nil {
		return "", err
	}
	p, err := pred.Predict(homeID, awayID, mode)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%d vs %d (%s): home %.3f, away %.3f",
		p.HomeClubID, p.AwayClubID, p.Mode, p.HomeWinExpectancy, p.AwayWinExpectancy), nil
}

// parseFixture parses HOME_ID:AWAY_ID
func parseFixture(v string) (int, int, error) {
	home, away, ok := strings.Cut(v, ":")
	if !ok {
		return 0, 0, fmt.Errorf("expected HOME_ID:AWAY_ID, got %q", v)
	}
	homeID, err := strconv.Atoi(strings.TrimSpace(home))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid home id: %w", err)
	}
	awayID, err := strconv.Atoi(strings.TrimSpace(away))
	if err != nil {
		return 0, 0, fmt.Errorf("invalid away id: %w", err)
	}
	return homeID, awayID, nil
}
