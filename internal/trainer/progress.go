package trainer

import (
	"context"

	"github.com/smarttrainer/smarttrainer/internal/model"
)

// Progress aggregates every recorded attempt.
func (s *Service) Progress(ctx context.Context) (*model.Progress, error) {
	count, avg, best, err := s.repo.AttemptTotals(ctx)
	if err != nil {
		return nil, storeErr("attempt totals", err)
	}
	recent, err := s.repo.ListAttemptSummaries(ctx, recentAttemptsLimit)
	if err != nil {
		return nil, storeErr("recent attempts", err)
	}
	stats, err := s.repo.CategoryStats(ctx)
	if err != nil {
		return nil, storeErr("category stats", err)
	}
	if recent == nil {
		recent = []model.AttemptSummary{}
	}
	if stats == nil {
		stats = []model.CategoryStat{}
	}
	return &model.Progress{
		TotalAttempts:  count,
		AverageScore:   avg,
		BestScore:      best,
		RecentAttempts: recent,
		CategoryStats:  stats,
	}, nil
}
