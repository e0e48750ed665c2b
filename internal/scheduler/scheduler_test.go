package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"clubelo/ratings/internal/client"
	"clubelo/ratings/internal/config"
	"clubelo/ratings/internal/pipeline"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFetcher struct {
	calls   atomic.Int32
	err     error
	leagues []string
}

func (f *fakeFetcher) DownloadAll(_ context.Context, leagues, _ []string, _ string, _ bool) (*client.DownloadResult, error) {
	f.calls.Add(1)
	f.leagues = leagues
	return &client.DownloadResult{Downloaded: len(leagues)}, f.err
}

type fakeRunner struct {
	calls   atomic.Int32
	trigger string
	block   chan struct{}
}

func (r *fakeRunner) RunAs(_ context.Context, trigger string) (*pipeline.Report, error) {
	r.calls.Add(1)
	r.trigger = trigger
	if r.block != nil {
		<-r.block
	}
	return &pipeline.Report{Trigger: trigger}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		DataDir:             "data",
		RefreshCron:         "0 5 * * *",
		FootballDataLeagues: []string{"E0", "E1"},
		FootballDataSeasons: []string{"2526"},
	}
}

func TestRefresh_DownloadsThenRuns(t *testing.T) {
	fetcher := &fakeFetcher{}
	runner := &fakeRunner{}
	s := NewScheduler(testConfig(), fetcher, runner)

	report, err := s.Refresh(context.Background(), pipeline.TriggerInitial)
	require.NoError(t, err)
	assert.Equal(t, pipeline.TriggerInitial, report.Trigger)
	assert.Equal(t, int32(1), fetcher.calls.Load())
	assert.Equal(t, []string{"E0", "E1"}, fetcher.leagues)
	assert.Equal(t, int32(1), runner.calls.Load())
}

func TestRefresh_WithoutFetcher(t *testing.T) {
	runner := &fakeRunner{}
	s := NewScheduler(testConfig(), nil, runner)

	_, err := s.Refresh(context.Background(), pipeline.TriggerManual)
	require.NoError(t, err)
	assert.Equal(t, int32(1), runner.calls.Load())
}

func TestRefresh_DownloadErrorSkipsRun(t *testing.T) {
	fetcher := &fakeFetcher{err: context.Canceled}
	runner := &fakeRunner{}
	s := NewScheduler(testConfig(), fetcher, runner)

	_, err := s.Refresh(context.Background(), pipeline.TriggerScheduled)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, runner.calls.Load())
}

func TestRefresh_RejectsOverlap(t *testing.T) {
	runner := &fakeRunner{block: make(chan struct{})}
	s := NewScheduler(testConfig(), nil, runner)

	done := make(chan error, 1)
	go func() {
		_, err := s.Refresh(context.Background(), pipeline.TriggerScheduled)
		done <- err
	}()

	require.Eventually(t, func() bool { return runner.calls.Load() == 1 }, time.Second, time.Millisecond)

	_, err := s.Refresh(context.Background(), pipeline.TriggerManual)
	assert.True(t, errors.Is(err, ErrRefreshInProgress))

	close(runner.block)
	require.NoError(t, <-done)
}

func TestStart_InvalidCron(t *testing.T) {
	cfg := testConfig()
	cfg.RefreshCron = "not a schedule"
	s := NewScheduler(cfg, nil, &fakeRunner{})

	err := s.Start(context.Background())
	assert.Error(t, err)
}

func TestStartStop(t *testing.T) {
	s := NewScheduler(testConfig(), nil, &fakeRunner{})

	require.NoError(t, s.Start(context.Background()))
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()
	s.Stop()
}
