package app

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/ElmaP103/buenro/internal/adapters/observability"
	"github.com/ElmaP103/buenro/internal/domain"
)

// IngestConfig names the bucket and the two object keys one run reads.
type IngestConfig struct {
	Bucket     string
	Source1Key string
	Source2Key string
}

type IngestionService struct {
	fetcher domain.SourceFetcher
	repo    domain.PropertyRepository
	cache   domain.Cache
	cfg     IngestConfig
	group   singleflight.Group
}

func NewIngestionService(f domain.SourceFetcher, r domain.PropertyRepository, c domain.Cache, cfg IngestConfig) *IngestionService {
	return &IngestionService{fetcher: f, repo: r, cache: c, cfg: cfg}
}

// Ingest runs one full fetch-normalize-replace cycle. Concurrent callers
// coalesce onto the in-flight run and share its outcome; two runs never
// interleave their store writes. Internal failures surface to the caller
// as a single generic ingestion error.
func (s *IngestionService) Ingest(ctx context.Context) error {
	_, err, shared := s.group.Do("ingest", func() (any, error) {
		// The run outlives its first caller: a request-scoped trigger may be
		// sharing the flight with the scheduler, and a client disconnect or
		// handler timeout must not cancel the replace mid-flight for everyone.
		return nil, s.run(context.WithoutCancel(ctx))
	})
	if err != nil {
		log.Error().Err(err).Bool("joined", shared).Msg("ingestion run failed")
		if !shared {
			observability.ObserveIngest("error", 0, 0)
		}
		return domain.ErrIngestFailed
	}
	return nil
}

func (s *IngestionService) run(ctx context.Context) error {
	if s.cfg.Bucket == "" || s.cfg.Source1Key == "" || s.cfg.Source2Key == "" {
		return domain.ErrMissingConfig
	}
	start := time.Now()

	// The two fetches have no ordering dependency; run them concurrently.
	var raw1, raw2 any
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		raw1, err = s.fetcher.GetObject(gctx, s.cfg.Source1Key)
		return err
	})
	g.Go(func() error {
		var err error
		raw2, err = s.fetcher.GetObject(gctx, s.cfg.Source2Key)
		return err
	})
	if err := g.Wait(); err != nil {
		return err
	}

	recs1, err := NormalizeAll(raw1, NormalizeSource1)
	if err != nil {
		return fmt.Errorf("%s: %w", s.cfg.Source1Key, err)
	}
	recs2, err := NormalizeAll(raw2, NormalizeSource2)
	if err != nil {
		return fmt.Errorf("%s: %w", s.cfg.Source2Key, err)
	}

	// Source 1 records first, then source 2; no deduplication either way.
	combined := append(recs1, recs2...)

	// Everything past this point mutates the store. A failure between the
	// delete and the insert leaves it empty or partial; there is no rollback.
	if err := s.repo.DeleteAll(ctx); err != nil {
		return fmt.Errorf("%w: delete: %v", domain.ErrStoreWrite, err)
	}
	if err := s.repo.InsertMany(ctx, combined); err != nil {
		return fmt.Errorf("%w: insert: %v", domain.ErrStoreWrite, err)
	}

	if s.cache != nil {
		if err := s.cache.Flush(ctx); err != nil {
			log.Warn().Err(err).Msg("cache flush after ingestion failed")
		}
	}

	observability.ObserveIngest("ok", len(combined), time.Since(start))
	log.Info().
		Int("source1", len(recs1)).
		Int("source2", len(recs2)).
		Dur("duration", time.Since(start)).
		Msg("ingestion completed")
	return nil
}

// InitializeData ingests only when the store is empty. Safe to call on every
// startup; a populated store makes it a no-op with no fetches.
func (s *IngestionService) InitializeData(ctx context.Context) error {
	n, err := s.repo.Count(ctx)
	if err != nil {
		log.Error().Err(err).Msg("initialization count failed")
		return domain.ErrIngestFailed
	}
	if n > 0 {
		log.Info().Int64("count", n).Msg("store already populated, skipping initial ingestion")
		observability.ObserveIngest("skipped", 0, 0)
		return nil
	}
	log.Info().Msg("store empty, starting initial ingestion")
	return s.Ingest(ctx)
}
