package assistant

import (
	"context"
	"time"
)

const DefaultCleanInterval = time.Hour

// StartUploadCleaner removes uploads older than retention every interval
// until ctx is done. A non-positive retention disables it.
func (s *Service) StartUploadCleaner(ctx context.Context, interval, retention time.Duration) {
	if retention <= 0 {
		return
	}
	if interval <= 0 {
		interval = DefaultCleanInterval
	}
	go s.cleanupLoop(ctx, interval, retention)
}

func (s *Service) cleanupLoop(ctx context.Context, interval, retention time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.cleanupExpiredFiles(time.Now().Add(-retention))
		}
	}
}

func (s *Service) cleanupExpiredFiles(cutoff time.Time) int {
	removed, err := s.store.RemoveOlderThan(cutoff)
	if err != nil {
		s.logger.Error("cleanup uploads", "dir", s.store.Dir(), "err", err)
	}
	if removed > 0 {
		s.logger.Info("expired uploads removed", "count", removed)
	}
	return removed
}
