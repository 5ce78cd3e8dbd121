package jobs

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
)

// Scheduler triggers Runner.RefreshAll on a cron spec. Ticks that arrive while
// a refresh is still running are skipped.
type Scheduler struct {
	cron   *cron.Cron
	runner *Runner
	spec   string
	logger *slog.Logger

	job     cron.Job
	baseCtx context.Context //nolint:containedctx
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

func NewScheduler(runner *Runner, spec string, logger *slog.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(slog.NewLogLogger(logger.Handler(), slog.LevelInfo))

	s := &Scheduler{
		cron:   cron.New(),
		runner: runner,
		spec:   spec,
		logger: logger,
	}

	s.job = cron.NewChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)).
		Then(cron.FuncJob(s.tick))

	return s
}

// Start registers the refresh job, fires one refresh right away and starts
// the cron loop. Runs use a context derived from ctx that Stop cancels.
func (s *Scheduler) Start(ctx context.Context) error {
	runCtx, cancel := context.WithCancel(ctx)

	s.cancel = cancel
	s.baseCtx = runCtx

	_, err := s.cron.AddJob(s.spec, s.job)
	if err != nil {
		cancel()
		return fmt.Errorf("schedule %q: %w", s.spec, err)
	}

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()
		s.job.Run()
	}()

	s.cron.Start()
	s.logger.Info("reconciliation scheduled", "schedule", s.spec, "presets", s.runner.Presets())

	return nil
}

// Stop halts the cron loop, cancels in-flight runs and waits for them to
// return or for ctx to expire.
func (s *Scheduler) Stop(ctx context.Context) error {
	cronDone := s.cron.Stop()

	if s.cancel != nil {
		s.cancel()
	}

	initialDone := make(chan struct{})

	go func() {
		s.wg.Wait()
		close(initialDone)
	}()

	select {
	case <-cronDone.Done():
	case <-ctx.Done():
		return fmt.Errorf("stop scheduler: %w", ctx.Err())
	}

	select {
	case <-initialDone:
		return nil
	case <-ctx.Done():
		return fmt.Errorf("stop scheduler: %w", ctx.Err())
	}
}

func (s *Scheduler) tick() {
	err := s.runner.RefreshAll(s.baseCtx)
	if err != nil {
		s.logger.Error("scheduled refresh finished with errors", "error", err)

		return
	}

	s.logger.Debug("scheduled refresh finished")
}
