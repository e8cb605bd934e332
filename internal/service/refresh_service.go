package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/logger"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/metrics"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/normalizer"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/repository"
	"github.com/Scaler-LLM-Experiments/Community-at-Scaler/internal/sheets"
)

// RefreshService drives the fetch -> normalize -> snapshot -> swap cycle.
// It runs one initial refresh at startup and then refreshes on a fixed
// interval until Close is called. Every cycle builds a complete snapshot
// from scratch; there are no incremental updates.
type RefreshService struct {
	source     sheets.Source
	normalizer *normalizer.Normalizer
	store      *repository.Store
	cache      *repository.SnapshotCache

	interval time.Duration
	timeout  time.Duration

	seq       atomic.Uint64
	stopChan  chan struct{}
	wg        sync.WaitGroup
	closeOnce sync.Once
}

// NewRefreshService creates a RefreshService. The cache may be nil, in which
// case fetch failures fall back straight to an empty snapshot when nothing
// is being served yet.
func NewRefreshService(
	source sheets.Source,
	n *normalizer.Normalizer,
	store *repository.Store,
	cache *repository.SnapshotCache,
	interval time.Duration,
	timeout time.Duration,
) *RefreshService {
	return &RefreshService{
		source:     source,
		normalizer: n,
		store:      store,
		cache:      cache,
		interval:   interval,
		timeout:    timeout,
		stopChan:   make(chan struct{}),
	}
}

// Refresh runs one full fetch cycle. A failed fetch never tears down what is
// already being served: the current snapshot stays, or the last cached one is
// restored (marked stale), or as a last resort an empty snapshot is installed
// so the API degrades to "no results" rather than errors.
func (s *RefreshService) Refresh(ctx context.Context) {
	seq := s.seq.Add(1)
	log := logger.WithFetchSeq(seq)
	start := time.Now()

	fetchCtx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	rows, err := s.source.Fetch(fetchCtx)
	if err != nil {
		log.Error("sheet fetch failed", "error", err)
		metrics.ObserveFetch(metrics.FetchResultFailure, time.Since(start))
		s.fallback(ctx, seq, log)
		return
	}

	result := s.normalizer.Normalize(rows)
	for _, rej := range result.Rejections {
		log.Warn("row rejected",
			"row", rej.Row,
			"field", rej.Field,
			"reason", rej.Reason,
		)
		metrics.RowsRejected.WithLabelValues(rej.Reason).Inc()
	}

	snap := repository.BuildSnapshot(result.Questions, seq, time.Now())
	if !s.store.Swap(snap) {
		// A later fetch already finished; this one is obsolete.
		log.Warn("snapshot superseded, discarding",
			"questions", snap.QuestionCount(),
		)
		metrics.ObserveFetch(metrics.FetchResultSuperseded, time.Since(start))
		return
	}

	metrics.ObserveFetch(metrics.FetchResultSuccess, time.Since(start))
	metrics.ObserveSnapshot(snap.QuestionCount(), seq, false)
	log.Info("snapshot swapped",
		"questions", snap.QuestionCount(),
		"categories", snap.CategoryCount(),
		"rejected", len(result.Rejections),
		"duration", time.Since(start).String(),
	)

	if s.cache != nil {
		if err := s.cache.Save(ctx, snap); err != nil {
			// Best effort; the next successful cycle will try again.
			log.Warn("snapshot cache save failed", "error", err)
		}
	}
}

// fallback decides what to serve after a failed fetch. Precedence: keep the
// current snapshot, restore the cached one, serve empty.
func (s *RefreshService) fallback(ctx context.Context, seq uint64, log *slog.Logger) {
	if s.store.Load() != nil {
		log.Info("keeping current snapshot after failed fetch")
		return
	}

	if s.cache != nil {
		cached, err := s.cache.Load(ctx)
		if err == nil {
			// The persisted sequence belongs to a previous process; restamp
			// so later live fetches can still win the swap.
			snap := cached.Restamp(seq)
			if s.store.Swap(snap) {
				metrics.ObserveSnapshot(snap.QuestionCount(), seq, true)
				log.Warn("serving cached snapshot",
					"questions", snap.QuestionCount(),
					"cached_at", snap.FetchedAt().Format(time.RFC3339),
				)
			}
			return
		}
		if !errors.Is(err, repository.ErrNoCachedSnapshot) {
			log.Error("snapshot cache load failed", "error", err)
		}
	}

	empty := repository.BuildSnapshot(nil, seq, time.Now())
	if s.store.Swap(empty) {
		metrics.ObserveSnapshot(0, seq, false)
		log.Warn("serving empty snapshot, no cache available")
	}
}

// Start launches the periodic refresh loop. It does not run an immediate
// refresh; callers do that synchronously at startup so readiness reflects
// the first cycle.
func (s *RefreshService) Start() {
	s.wg.Add(1)
	go func() {
		defer s.wg.Done()

		ticker := time.NewTicker(s.interval)
		defer ticker.Stop()

		for {
			select {
			case <-ticker.C:
				s.Refresh(context.Background())
			case <-s.stopChan:
				return
			}
		}
	}()
}

// Close stops the refresh loop and waits for any in-flight cycle to finish.
func (s *RefreshService) Close() {
	s.closeOnce.Do(func() {
		close(s.stopChan)
	})
	s.wg.Wait()
}
