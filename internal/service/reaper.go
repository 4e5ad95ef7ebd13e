package service

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/soulearn/volunteer-api/config"
	"github.com/soulearn/volunteer-api/internal/data"
	"github.com/soulearn/volunteer-api/internal/observability/statsd"
	"github.com/soulearn/volunteer-api/internal/ports"
)

// ReaperServiceOptions groups dependencies for ReaperService.
type ReaperServiceOptions struct {
	Records      ports.SessionRecordRepository // Required: session audit store
	Config       config.ReaperConfig           // Required: reaper configuration
	TimeProvider data.TimeProvider             // Optional: defaults to real time
	Logger       *slog.Logger                  // Optional: structured logger
	Metrics      statsd.Sink                   // Optional: metrics sink
}

// ReaperService periodically deletes session audit rows whose expiry has
// passed the configured grace period. Live tokens expire on their own via
// the store's TTL; the reaper keeps the audit table from growing without
// bound.
type ReaperService struct {
	records      ports.SessionRecordRepository
	config       config.ReaperConfig
	timeProvider data.TimeProvider
	logger       *slog.Logger
	metrics      statsd.Sink
}

// NewReaperService constructs a new ReaperService.
func NewReaperService(opts ReaperServiceOptions) (*ReaperService, error) {
	if opts.Records == nil {
		return nil, errors.New("SessionRecordRepository is required")
	}

	tp := opts.TimeProvider
	if tp == nil {
		tp = &data.RealTimeProvider{}
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &ReaperService{
		records:      opts.Records,
		config:       opts.Config,
		timeProvider: tp,
		logger:       logger.With("component", "session_reaper"),
		metrics:      opts.Metrics,
	}, nil
}

// MustNewReaperService constructs a new ReaperService and panics on error.
func MustNewReaperService(opts ReaperServiceOptions) *ReaperService {
	svc, err := NewReaperService(opts)
	if err != nil {
		panic(fmt.Sprintf("failed to create ReaperService: %v", err))
	}
	return svc
}

// Run starts the reaper loop and runs until the context is cancelled.
// Returns nil on graceful shutdown (context.Canceled), error otherwise.
func (s *ReaperService) Run(ctx context.Context) error {
	s.logger.InfoContext(ctx, "starting session reaper",
		"interval", s.config.Interval, "grace", s.config.Grace)

	// Jitter spreads the first sweep across instances that start together.
	s.waitWithJitter(ctx)
	if ctx.Err() != nil {
		return nil
	}

	if err := s.Sweep(ctx); err != nil {
		s.logSweepError(ctx, err)
	}

	ticker := time.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.InfoContext(ctx, "session reaper stopping", "reason", ctx.Err())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()
		case <-ticker.C:
			if err := s.Sweep(ctx); err != nil {
				// Keep running; transient database trouble should not kill
				// the loop.
				s.logSweepError(ctx, err)
			}
		}
	}
}

// Sweep deletes expired audit rows in batches until a batch comes back
// short, meaning the backlog is drained.
func (s *ReaperService) Sweep(ctx context.Context) error {
	start := time.Now()
	cutoff := s.timeProvider.Now().Add(-s.config.Grace)
	var total int64
	for {
		deleted, err := s.records.DeleteExpired(ctx, ports.DeleteExpiredParams{
			OlderThan: cutoff,
			Limit:     s.config.BatchSize,
		})
		total += deleted
		if err != nil {
			return err
		}
		if deleted < int64(s.config.BatchSize) {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	if total > 0 {
		s.logger.InfoContext(ctx, "swept expired session records",
			"deleted", total, "cutoff", cutoff)
	}
	if s.metrics != nil {
		s.metrics.Count("reaper.sessions_deleted", total, nil)
		s.metrics.Timing("reaper.sweep", time.Since(start), nil)
	}
	return nil
}

// waitWithJitter sleeps a random duration up to 10% of the interval.
func (s *ReaperService) waitWithJitter(ctx context.Context) {
	maxJitter := int64(s.config.Interval / 10)
	if maxJitter <= 0 {
		return
	}

	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		// Skip jitter rather than failing startup.
		s.logger.WarnContext(ctx, "failed to generate jitter, skipping", "error", err)
		return
	}
	jitterNanos := binary.BigEndian.Uint64(buf[:]) % uint64(maxJitter)
	jitter := time.Duration(int64(jitterNanos)) // #nosec G115 - bounded by maxJitter which is int64

	select {
	case <-time.After(jitter):
	case <-ctx.Done():
	}
}

func (s *ReaperService) logSweepError(ctx context.Context, err error) {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return
	}
	s.logger.ErrorContext(ctx, "session sweep failed", "error", err)
}
