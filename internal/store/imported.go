package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/smarttrainer/smarttrainer/internal/model"
)

// GetImportedFileHash returns the sha256 recorded for a question bank file.
// Returns empty string and nil error if the file was never imported.
func (s *Store) GetImportedFileHash(ctx context.Context, path string) (string, error) {
	var hash string
	err := s.db.QueryRowContext(ctx, s.q(`SELECT sha256 FROM imported_files WHERE path = ?`), path).Scan(&hash)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return hash, err
}

// ImportBank stores a question bank in one transaction: categories are
// resolved by name or created, the questions are inserted and the bank hash
// is recorded. Nothing is stored when any step fails.
func (s *Store) ImportBank(ctx context.Context, b model.BankImport) ([]int64, error) {
	ids := make([]int64, 0, len(b.Questions))
	err := s.withTx(ctx, func(tx *sql.Tx) error {
		catIDs := make([]int64, len(b.Categories))
		for i, c := range b.Categories {
			id, ok, err := s.categoryIDByName(ctx, tx, c.Name)
			if err != nil {
				return fmt.Errorf("find category %q: %w", c.Name, err)
			}
			if !ok {
				if id, err = s.createCategory(ctx, tx, c); err != nil {
					return fmt.Errorf("create category %q: %w", c.Name, err)
				}
			}
			catIDs[i] = id
		}

		for i, q := range b.Questions {
			ref := -1
			if i < len(b.CategoryRefs) {
				ref = b.CategoryRefs[i]
			}
			switch {
			case ref < 0:
				q.CategoryID = nil
			case ref < len(catIDs):
				q.CategoryID = &catIDs[ref]
			default:
				return fmt.Errorf("question %d: unknown category index %d", i, ref)
			}
			id, err := s.insertQuestion(ctx, tx, q)
			if err != nil {
				return fmt.Errorf("insert question %d: %w", i, err)
			}
			ids = append(ids, id)
		}
		return s.setImportedFileHash(ctx, tx, b.Path, b.Hash)
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *Store) setImportedFileHash(ctx context.Context, db dbtx, path, hash string) error {
	_, err := db.ExecContext(ctx,
		s.q(`INSERT INTO imported_files (path, sha256, imported_at) VALUES (?, ?, ?)
		 ON CONFLICT(path) DO UPDATE SET sha256 = EXCLUDED.sha256, imported_at = EXCLUDED.imported_at`),
		path, hash, now(),
	)
	return err
}
