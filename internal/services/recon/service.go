package recon

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/fastprodman/finrecon/internal/domain"
)

// Source reads a point-in-time dataset for a range.
type Source interface {
	Load(ctx context.Context, rng domain.DateRange) (*domain.Dataset, error)
}

type ReconService struct {
	src     Source
	workers int
	now     func() time.Time
	logger  *slog.Logger
}

type Option func(*ReconService)

// WithClock overrides the computation timestamp source.
func WithClock(now func() time.Time) Option {
	return func(s *ReconService) { s.now = now }
}

// WithWorkers bounds the per-wallet fold parallelism. Zero means GOMAXPROCS.
func WithWorkers(n int) Option {
	return func(s *ReconService) { s.workers = n }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *ReconService) { s.logger = l }
}

func New(src Source, opts ...Option) *ReconService {
	s := &ReconService{
		src:    src,
		now:    time.Now,
		logger: slog.Default(),
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// ComputeSnapshot loads every source record for rng and reconciles them.
// A failed run returns an error and no snapshot; callers keep their last good one.
func (s *ReconService) ComputeSnapshot(ctx context.Context, rng domain.DateRange) (Snapshot, error) {
	err := rng.Validate()
	if err != nil {
		return Snapshot{}, fmt.Errorf("compute snapshot: %w", err)
	}

	log := s.logger.With("run_id", uuid.NewString(), "range", rng.Label())
	started := s.now()

	ds, err := s.src.Load(ctx, rng)
	if err != nil {
		log.Error("load dataset failed", "error", err)

		return Snapshot{}, fmt.Errorf("load dataset: %w", err)
	}

	ds.Range = rng

	snap, err := Assemble(ctx, ds, started, s.workers)
	if err != nil {
		return Snapshot{}, fmt.Errorf("assemble snapshot: %w", err)
	}

	log.Info("snapshot computed",
		"wallets", snap.Balances.Wallets,
		"transactions", len(ds.Transactions),
		"available_to_operator", snap.Cash.AvailableToOperator,
		"alerts", snap.Alerts.Raised(),
		"truncated", snap.Truncated,
		"elapsed", time.Since(started),
	)

	if snap.Truncated {
		log.Warn("snapshot built from truncated input", "warnings", snap.Warnings)
	}

	return snap, nil
}
