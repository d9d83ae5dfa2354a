package store

import (
	"context"

	"github.com/smarttrainer/smarttrainer/internal/model"
)

// InsertAttempt stores a scored attempt and returns its ID. A zero
// CompletedAt is replaced with the current time.
func (s *Store) InsertAttempt(ctx context.Context, a model.ExamAttempt) (int64, error) {
	if a.CompletedAt.IsZero() {
		a.CompletedAt = now()
	}
	var id int64
	err := s.db.QueryRowContext(ctx,
		s.q(`INSERT INTO exam_attempts (exam_id, score, total_questions, correct_answers, time_taken_minutes, answers, completed_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		a.ExamID, a.Score, a.TotalQuestions, a.CorrectAnswers, a.TimeTakenMinutes, a.Answers, a.CompletedAt,
	).Scan(&id)
	return id, err
}

// ListAttemptSummaries returns attempts joined with exam title and category
// name, newest first. limit <= 0 returns every attempt.
func (s *Store) ListAttemptSummaries(ctx context.Context, limit int) ([]model.AttemptSummary, error) {
	query := `SELECT ea.id, ea.exam_id, ea.score, ea.total_questions, ea.correct_answers,
		ea.time_taken_minutes, ea.answers, ea.completed_at, e.title, c.name
		FROM exam_attempts ea
		JOIN exams e ON ea.exam_id = e.id
		LEFT JOIN categories c ON e.category_id = c.id
		ORDER BY ea.completed_at DESC, ea.id DESC`
	var args []any
	if limit > 0 {
		query += ` LIMIT ?`
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	attempts := []model.AttemptSummary{}
	for rows.Next() {
		var a model.AttemptSummary
		if err := rows.Scan(&a.ID, &a.ExamID, &a.Score, &a.TotalQuestions, &a.CorrectAnswers,
			&a.TimeTakenMinutes, &a.Answers, &a.CompletedAt, &a.ExamTitle, &a.CategoryName); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}

// AttemptTotals returns the attempt count and the average and best scores.
// Both scores are 0 when there are no attempts.
func (s *Store) AttemptTotals(ctx context.Context) (count int, avg, best float64, err error) {
	err = s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COALESCE(AVG(score), 0), COALESCE(MAX(score), 0) FROM exam_attempts`,
	).Scan(&count, &avg, &best)
	return count, avg, best, err
}

// CategoryStats returns the average score and attempt count of every
// category, including categories without exams or attempts.
func (s *Store) CategoryStats(ctx context.Context) ([]model.CategoryStat, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT c.id, c.name, COALESCE(AVG(ea.score), 0) AS avg_score, COUNT(ea.id) AS attempts
		 FROM categories c
		 LEFT JOIN exams e ON c.id = e.category_id
		 LEFT JOIN exam_attempts ea ON e.id = ea.exam_id
		 GROUP BY c.id, c.name
		 ORDER BY avg_score DESC, c.id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	stats := []model.CategoryStat{}
	for rows.Next() {
		var st model.CategoryStat
		if err := rows.Scan(&st.CategoryID, &st.Name, &st.AvgScore, &st.Attempts); err != nil {
			return nil, err
		}
		stats = append(stats, st)
	}
	return stats, rows.Err()
}
