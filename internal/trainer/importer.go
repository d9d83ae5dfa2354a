package trainer

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"

	"github.com/smarttrainer/smarttrainer/internal/model"
)

// ImportBank loads a question bank file. A file is imported once: an
// unchanged file is skipped, and a file that changed since its import is
// skipped with a warning so existing attempts keep their meaning. Categories
// are created by name when missing. It returns the number of questions
// stored.
func (s *Service) ImportBank(ctx context.Context, path string, data []byte) (int, error) {
	return s.importBank(ctx, path, data)
}

// ImportUpload loads an uploaded question bank. Uploads are keyed by their
// content, so a bank is stored once whatever file name it arrives under.
func (s *Service) ImportUpload(ctx context.Context, data []byte) (int, error) {
	return s.importBank(ctx, "upload:"+sha256sum(data), data)
}

func (s *Service) importBank(ctx context.Context, key string, data []byte) (int, error) {
	hash := sha256sum(data)
	storedHash, err := s.repo.GetImportedFileHash(ctx, key)
	if err != nil {
		return 0, storeErr("check import status", err)
	}
	if storedHash == hash {
		slog.Info("questions file unchanged, skipping", "path", key)
		return 0, nil
	}
	if storedHash != "" {
		slog.Warn("questions file changed since last import, skipping", "path", key)
		return 0, nil
	}

	var items []model.QuestionImport
	if err := json.Unmarshal(data, &items); err != nil {
		return 0, model.Invalid("file", "parse %s: %v", key, err)
	}

	bank := model.BankImport{
		Path:         key,
		Hash:         hash,
		Questions:    make([]model.NewQuestion, 0, len(items)),
		CategoryRefs: make([]int, len(items)),
	}
	refs := map[string]int{}
	for i, it := range items {
		nq := model.NewQuestion{
			Question:      it.Question,
			Options:       model.Options(it.Options),
			CorrectAnswer: it.CorrectAnswer,
			Difficulty:    it.Difficulty,
		}
		if e := strings.TrimSpace(it.Explanation); e != "" {
			nq.Explanation = &e
		}
		nq.Normalize()
		bank.Questions = append(bank.Questions, nq)
		bank.CategoryRefs[i] = categoryRef(&bank, refs, it)
	}
	if err := model.ValidateQuestions(bank.Questions); err != nil {
		return 0, fmt.Errorf("validate %s: %w", key, err)
	}

	ids, err := s.repo.ImportBank(ctx, bank)
	if err != nil {
		return 0, storeErr("import bank", err)
	}
	slog.Info("imported questions", "path", key, "count", len(ids), "categories", len(bank.Categories))
	return len(ids), nil
}

// categoryRef returns the index of the item's category in b.Categories,
// adding it on first use, or -1 when the item has none.
func categoryRef(b *model.BankImport, refs map[string]int, it model.QuestionImport) int {
	name := strings.TrimSpace(it.Category)
	if name == "" {
		return -1
	}
	if ref, ok := refs[name]; ok {
		return ref
	}
	nc := model.NewCategory{Name: name}
	if d := it.CategoryDescription; d != "" {
		nc.Description = &d
	}
	if c := it.CategoryColor; c != "" {
		nc.Color = &c
	}
	nc.Normalize()
	ref := len(b.Categories)
	b.Categories = append(b.Categories, nc)
	refs[name] = ref
	return ref
}

func sha256sum(data []byte) string {
	h := sha256.Sum256(data)
	return hex.EncodeToString(h[:])
}
