package store

import (
	"context"
	"fmt"

	"github.com/smarttrainer/smarttrainer/internal/model"
)

// ExportAttempts builds the export document with every attempt.
func (s *Store) ExportAttempts(ctx context.Context) (model.AttemptExport, error) {
	attempts, err := s.ListAttemptSummaries(ctx, 0)
	if err != nil {
		return model.AttemptExport{}, fmt.Errorf("list attempts: %w", err)
	}
	return model.AttemptExport{
		ExportedAt: now(),
		Total:      len(attempts),
		Attempts:   attempts,
	}, nil
}
