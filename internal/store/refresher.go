package store

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"
)

// StartRefresher reloads the store from the backend every interval until ctx is done.
// A non-positive interval disables it.
func (s *Store) StartRefresher(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		log.Info().Msg("[store] background refresh disabled")
		return
	}

	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				log.Info().Msg("[store] background refresh stopped")
				return
			case <-ticker.C:
				s.refresh(ctx, interval)
			}
		}
	}()
}

func (s *Store) refresh(ctx context.Context, limit time.Duration) {
	// A refresh must finish before the next tick is due.
	ctx, cancel := context.WithTimeout(ctx, limit)
	defer cancel()

	if err := s.LoadAll(ctx); err != nil {
		log.Warn().Err(err).Msg("[store] background refresh failed")
	}
}
