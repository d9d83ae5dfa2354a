package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/smarttrainer/smarttrainer/internal/model"
)

const examSelect = `SELECT e.id, e.title, e.description, e.category_id, c.name, e.duration_minutes,
	e.total_questions, e.is_active, e.created_at, e.updated_at
	FROM exams e
	LEFT JOIN categories c ON e.category_id = c.id`

func scanExam(row scanner) (model.Exam, error) {
	var e model.Exam
	err := row.Scan(&e.ID, &e.Title, &e.Description, &e.CategoryID, &e.CategoryName,
		&e.DurationMinutes, &e.TotalQuestions, &e.IsActive, &e.CreatedAt, &e.UpdatedAt)
	return e, err
}

// ListActiveExams returns active exams joined with their category name,
// newest first.
func (s *Store) ListActiveExams(ctx context.Context) ([]model.Exam, error) {
	rows, err := s.db.QueryContext(ctx, examSelect+` WHERE e.is_active ORDER BY e.created_at DESC, e.id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	exams := []model.Exam{}
	for rows.Next() {
		e, err := scanExam(rows)
		if err != nil {
			return nil, err
		}
		exams = append(exams, e)
	}
	return exams, rows.Err()
}

// GetExam returns an exam by ID regardless of its active flag, or nil if it
// does not exist.
func (s *Store) GetExam(ctx context.Context, id int64) (*model.Exam, error) {
	e, err := scanExam(s.db.QueryRowContext(ctx, s.q(examSelect+` WHERE e.id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &e, nil
}

// CreateExam inserts an active exam and returns its ID.
func (s *Store) CreateExam(ctx context.Context, e model.NewExam) (int64, error) {
	ts := now()
	var id int64
	err := s.db.QueryRowContext(ctx,
		s.q(`INSERT INTO exams (title, description, category_id, duration_minutes, total_questions, is_active, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		e.Title, e.Description, e.CategoryID, e.DurationMinutes, e.TotalQuestions, true, ts, ts,
	).Scan(&id)
	if err != nil {
		return 0, err
	}
	slog.Info("created exam", "id", id, "title", e.Title, "total_questions", e.TotalQuestions)
	return id, nil
}

// DeleteExam removes an exam together with its attempts. Deleting a missing
// exam is not an error.
func (s *Store) DeleteExam(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.q(`DELETE FROM exam_attempts WHERE exam_id = ?`), id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, s.q(`DELETE FROM exams WHERE id = ?`), id)
		return err
	})
}
