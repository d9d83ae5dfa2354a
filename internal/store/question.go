package store

import (
	"context"
	"database/sql"
	"errors"

	"github.com/smarttrainer/smarttrainer/internal/model"
)

const questionColumns = `id, category_id, question, options, correct_answer, difficulty, explanation, created_at, updated_at`

func scanQuestion(row scanner) (model.Question, error) {
	var q model.Question
	err := row.Scan(&q.ID, &q.CategoryID, &q.Question, &q.Options, &q.CorrectAnswer,
		&q.Difficulty, &q.Explanation, &q.CreatedAt, &q.UpdatedAt)
	return q, err
}

// ListQuestions returns questions, newest first. A nil categoryID returns the
// whole bank.
func (s *Store) ListQuestions(ctx context.Context, categoryID *int64) ([]model.Question, error) {
	query := `SELECT ` + questionColumns + ` FROM questions`
	var args []any
	if categoryID != nil {
		query += ` WHERE category_id = ?`
		args = append(args, *categoryID)
	}
	query += ` ORDER BY created_at DESC, id DESC`

	rows, err := s.db.QueryContext(ctx, s.q(query), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	questions := []model.Question{}
	for rows.Next() {
		q, err := scanQuestion(rows)
		if err != nil {
			return nil, err
		}
		questions = append(questions, q)
	}
	return questions, rows.Err()
}

// CorrectAnswer returns the stored answer key of a question. ok is false when
// the question does not exist.
func (s *Store) CorrectAnswer(ctx context.Context, questionID int64) (answer int, ok bool, err error) {
	err = s.db.QueryRowContext(ctx,
		s.q(`SELECT correct_answer FROM questions WHERE id = ?`), questionID).Scan(&answer)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return answer, true, nil
}

// InsertQuestion stores a question and returns its ID.
func (s *Store) InsertQuestion(ctx context.Context, q model.NewQuestion) (int64, error) {
	return s.insertQuestion(ctx, s.db, q)
}

// InsertQuestions stores a batch of questions in one transaction.
func (s *Store) InsertQuestions(ctx context.Context, qs []model.NewQuestion) ([]int64, error) {
	ids := make([]int64, 0, len(qs))
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		for _, q := range qs {
			id, err := s.insertQuestion(ctx, tx, q)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) insertQuestion(ctx context.Context, db dbtx, q model.NewQuestion) (int64, error) {
	ts := now()
	var id int64
	err := db.QueryRowContext(ctx,
		s.q(`INSERT INTO questions (category_id, question, options, correct_answer, difficulty, explanation, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?) RETURNING id`),
		q.CategoryID, q.Question, q.Options, q.CorrectAnswer, q.Difficulty, q.Explanation, ts, ts,
	).Scan(&id)
	return id, err
}

// DeleteQuestion removes a question. Deleting a missing question is not an error.
func (s *Store) DeleteQuestion(ctx context.Context, id int64) error {
	_, err := s.db.ExecContext(ctx, s.q(`DELETE FROM questions WHERE id = ?`), id)
	return err
}

// QuestionCount returns the number of questions in the bank.
func (s *Store) QuestionCount(ctx context.Context) (int, error) {
	var count int
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM questions`).Scan(&count)
	return count, err
}
