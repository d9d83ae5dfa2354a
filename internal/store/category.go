package store

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"

	"github.com/smarttrainer/smarttrainer/internal/model"
)

const categoryColumns = `id, name, description, color, created_at, updated_at`

func scanCategory(row scanner) (model.Category, error) {
	var c model.Category
	err := row.Scan(&c.ID, &c.Name, &c.Description, &c.Color, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

// ListCategories returns all categories, newest first.
func (s *Store) ListCategories(ctx context.Context) ([]model.Category, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+categoryColumns+` FROM categories ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	categories := []model.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory returns a category by ID, or nil if it does not exist.
func (s *Store) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	c, err := scanCategory(s.db.QueryRowContext(ctx,
		s.q(`SELECT `+categoryColumns+` FROM categories WHERE id = ?`), id))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}

// categoryIDByName returns the ID of the oldest category with the given
// name. ok is false when there is none.
func (s *Store) categoryIDByName(ctx context.Context, db dbtx, name string) (id int64, ok bool, err error) {
	err = db.QueryRowContext(ctx,
		s.q(`SELECT id FROM categories WHERE name = ? ORDER BY id LIMIT 1`), name).Scan(&id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return id, true, nil
}

// CreateCategory inserts a category and returns its ID.
func (s *Store) CreateCategory(ctx context.Context, c model.NewCategory) (int64, error) {
	id, err := s.createCategory(ctx, s.db, c)
	if err != nil {
		return 0, err
	}
	slog.Info("created category", "id", id, "name", c.Name)
	return id, nil
}

func (s *Store) createCategory(ctx context.Context, db dbtx, c model.NewCategory) (int64, error) {
	ts := now()
	var id int64
	err := db.QueryRowContext(ctx,
		s.q(`INSERT INTO categories (name, description, color, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?) RETURNING id`),
		c.Name, c.Description, c.Color, ts, ts,
	).Scan(&id)
	return id, err
}

// DeleteCategory removes a category and detaches the questions and exams
// that referenced it. Deleting a missing category is not an error.
func (s *Store) DeleteCategory(ctx context.Context, id int64) error {
	return s.withTx(ctx, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, s.q(`UPDATE questions SET category_id = NULL WHERE category_id = ?`), id); err != nil {
			return err
		}
		if _, err := tx.ExecContext(ctx, s.q(`UPDATE exams SET category_id = NULL WHERE category_id = ?`), id); err != nil {
			return err
		}
		_, err := tx.ExecContext(ctx, s.q(`DELETE FROM categories WHERE id = ?`), id)
		return err
	})
}
