package app

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// RunScheduler triggers an ingestion run every interval until ctx is
// cancelled. A failed run is logged and the next tick proceeds; the loop
// never takes the process down.
func (s *IngestionService) RunScheduler(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 6 * time.Hour
	}
	t := time.NewTicker(interval)
	defer t.Stop()

	log.Info().Dur("interval", interval).Msg("ingestion scheduler started")
	for {
		select {
		case <-ctx.Done():
			log.Info().Msg("ingestion scheduler stopped")
			return
		case <-t.C:
			if err := s.Ingest(ctx); err != nil {
				log.Error().Err(err).Msg("scheduled ingestion failed")
			}
		}
	}
}
