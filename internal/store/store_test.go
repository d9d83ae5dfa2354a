package store

import (
	"context"
	"testing"
	"time"

	"github.com/smarttrainer/smarttrainer/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := New(DriverSQLite, ":memory:")
	if err != nil {
		t.Fatalf("newTestStore: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

func insertTestCategory(t *testing.T, s *Store, name string) int64 {
	t.Helper()
	id, err := s.CreateCategory(context.Background(), model.NewCategory{Name: name})
	if err != nil {
		t.Fatalf("insertTestCategory: %v", err)
	}
	return id
}

func insertTestQuestion(t *testing.T, s *Store, categoryID *int64, text string, correct int) int64 {
	t.Helper()
	id, err := s.InsertQuestion(context.Background(), model.NewQuestion{
		CategoryID:    categoryID,
		Question:      text,
		Options:       model.Options{"a", "b", "c"},
		CorrectAnswer: correct,
		Difficulty:    model.DifficultyMedium,
	})
	if err != nil {
		t.Fatalf("insertTestQuestion: %v", err)
	}
	return id
}

func findQuestion(t *testing.T, s *Store, id int64) *model.Question {
	t.Helper()
	qs, err := s.ListQuestions(context.Background(), nil)
	if err != nil {
		t.Fatalf("ListQuestions: %v", err)
	}
	for i := range qs {
		if qs[i].ID == id {
			return &qs[i]
		}
	}
	return nil
}

func insertTestExam(t *testing.T, s *Store, categoryID *int64, title string) int64 {
	t.Helper()
	id, err := s.CreateExam(context.Background(), model.NewExam{
		Title:           title,
		CategoryID:      categoryID,
		DurationMinutes: 30,
		TotalQuestions:  5,
	})
	if err != nil {
		t.Fatalf("insertTestExam: %v", err)
	}
	return id
}

func insertTestAttempt(t *testing.T, s *Store, examID int64, score float64, at time.Time) int64 {
	t.Helper()
	id, err := s.InsertAttempt(context.Background(), model.ExamAttempt{
		ExamID:         examID,
		Score:          score,
		TotalQuestions: 2,
		CorrectAnswers: int(score / 50),
		Answers:        model.AnswerSheet{"1": 0},
		CompletedAt:    at,
	})
	if err != nil {
		t.Fatalf("insertTestAttempt: %v", err)
	}
	return id
}

func TestCategoryCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	list, err := s.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if list == nil || len(list) != 0 {
		t.Fatalf("expected empty non-nil list, got %v", list)
	}

	id, err := s.CreateCategory(ctx, model.NewCategory{Name: "Math", Description: ptr("Algebra"), Color: ptr("#ff0000")})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	c, err := s.GetCategory(ctx, id)
	if err != nil {
		t.Fatalf("GetCategory: %v", err)
	}
	if c == nil || c.Name != "Math" {
		t.Fatalf("expected category Math, got %+v", c)
	}
	if c.Description == nil || *c.Description != "Algebra" {
		t.Errorf("expected description Algebra, got %v", c.Description)
	}
	if c.CreatedAt.IsZero() {
		t.Error("expected created_at to be set")
	}

	byName, ok, err := s.categoryIDByName(ctx, s.db, "Math")
	if err != nil || !ok || byName != id {
		t.Errorf("categoryIDByName = %d, %v, %v", byName, ok, err)
	}

	missing, err := s.GetCategory(ctx, 9999)
	if err != nil {
		t.Fatalf("GetCategory missing: %v", err)
	}
	if missing != nil {
		t.Errorf("expected nil for missing category, got %+v", missing)
	}
}

func TestDeleteCategoryDetachesReferences(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	catID := insertTestCategory(t, s, "Science")
	qID := insertTestQuestion(t, s, &catID, "Q1", 0)
	examID := insertTestExam(t, s, &catID, "Physics")

	if err := s.DeleteCategory(ctx, catID); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	q := findQuestion(t, s, qID)
	if q == nil {
		t.Fatal("question removed with its category")
	}
	if q.CategoryID != nil {
		t.Errorf("expected question category to be nulled, got %d", *q.CategoryID)
	}
	e, err := s.GetExam(ctx, examID)
	if err != nil || e == nil {
		t.Fatalf("GetExam after delete: %+v, %v", e, err)
	}
	if e.CategoryID != nil || e.CategoryName != nil {
		t.Errorf("expected exam category to be nulled, got %v / %v", e.CategoryID, e.CategoryName)
	}

	// Deleting again is a no-op.
	if err := s.DeleteCategory(ctx, catID); err != nil {
		t.Errorf("second DeleteCategory: %v", err)
	}
}

func TestQuestionOptionsRoundTrip(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	id, err := s.InsertQuestion(ctx, model.NewQuestion{
		Question:      "Pick one",
		Options:       model.Options{"a", "b", "c"},
		CorrectAnswer: 2,
		Difficulty:    model.DifficultyHard,
		Explanation:   ptr("because"),
	})
	if err != nil {
		t.Fatalf("InsertQuestion: %v", err)
	}
	q := findQuestion(t, s, id)
	if q == nil {
		t.Fatalf("question %d not found", id)
	}
	want := []string{"a", "b", "c"}
	if len(q.Options) != len(want) {
		t.Fatalf("expected %d options, got %v", len(want), q.Options)
	}
	for i := range want {
		if q.Options[i] != want[i] {
			t.Errorf("option %d = %q, want %q", i, q.Options[i], want[i])
		}
	}
	if q.CorrectAnswer != 2 || q.Difficulty != model.DifficultyHard {
		t.Errorf("unexpected key/difficulty: %d %q", q.CorrectAnswer, q.Difficulty)
	}
	if q.Explanation == nil || *q.Explanation != "because" {
		t.Errorf("unexpected explanation: %v", q.Explanation)
	}
}

func TestListQuestionsFiltered(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	math := insertTestCategory(t, s, "Math")
	history := insertTestCategory(t, s, "History")
	insertTestQuestion(t, s, &math, "Q1", 0)
	insertTestQuestion(t, s, &math, "Q2", 1)
	insertTestQuestion(t, s, &history, "Q3", 2)
	insertTestQuestion(t, s, nil, "Q4", 0)

	tests := []struct {
		name       string
		categoryID *int64
		wantCount  int
	}{
		{"no filter", nil, 4},
		{"math", &math, 2},
		{"history", &history, 1},
		{"unknown", ptr(int64(999)), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			qs, err := s.ListQuestions(ctx, tt.categoryID)
			if err != nil {
				t.Fatalf("ListQuestions: %v", err)
			}
			if len(qs) != tt.wantCount {
				t.Errorf("expected %d questions, got %d", tt.wantCount, len(qs))
			}
		})
	}
}

func TestInsertQuestionsBatch(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	ids, err := s.InsertQuestions(ctx, []model.NewQuestion{
		{Question: "A", Options: model.Options{"1", "2"}, Difficulty: model.DifficultyEasy},
		{Question: "B", Options: model.Options{"1", "2"}, CorrectAnswer: 1, Difficulty: model.DifficultyEasy},
	})
	if err != nil {
		t.Fatalf("InsertQuestions: %v", err)
	}
	if len(ids) != 2 || ids[0] == ids[1] {
		t.Fatalf("unexpected ids %v", ids)
	}
	count, err := s.QuestionCount(ctx)
	if err != nil || count != 2 {
		t.Errorf("QuestionCount = %d, %v; want 2", count, err)
	}
}

func TestCorrectAnswerAndDelete(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	id := insertTestQuestion(t, s, nil, "Q", 1)

	key, ok, err := s.CorrectAnswer(ctx, id)
	if err != nil || !ok || key != 1 {
		t.Fatalf("CorrectAnswer = %d, %v, %v; want 1, true, nil", key, ok, err)
	}

	if err := s.DeleteQuestion(ctx, id); err != nil {
		t.Fatalf("DeleteQuestion: %v", err)
	}
	_, ok, err = s.CorrectAnswer(ctx, id)
	if err != nil || ok {
		t.Errorf("CorrectAnswer after delete = %v, %v; want false, nil", ok, err)
	}
	if err := s.DeleteQuestion(ctx, id); err != nil {
		t.Errorf("deleting a missing question: %v", err)
	}
}

func TestExamCRUD(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	catID := insertTestCategory(t, s, "Geography")
	examID := insertTestExam(t, s, &catID, "Capitals")
	insertTestExam(t, s, nil, "General")

	exams, err := s.ListActiveExams(ctx)
	if err != nil {
		t.Fatalf("ListActiveExams: %v", err)
	}
	if len(exams) != 2 {
		t.Fatalf("expected 2 exams, got %d", len(exams))
	}

	e, err := s.GetExam(ctx, examID)
	if err != nil || e == nil {
		t.Fatalf("GetExam: %+v, %v", e, err)
	}
	if !e.IsActive {
		t.Error("expected new exam to be active")
	}
	if e.CategoryName == nil || *e.CategoryName != "Geography" {
		t.Errorf("expected category name Geography, got %v", e.CategoryName)
	}
	if e.DurationMinutes != 30 || e.TotalQuestions != 5 {
		t.Errorf("unexpected duration/total: %d/%d", e.DurationMinutes, e.TotalQuestions)
	}

	insertTestAttempt(t, s, examID, 50, time.Now())
	if err := s.DeleteExam(ctx, examID); err != nil {
		t.Fatalf("DeleteExam: %v", err)
	}
	if e, _ := s.GetExam(ctx, examID); e != nil {
		t.Errorf("expected exam to be gone, got %+v", e)
	}
	count, _, _, err := s.AttemptTotals(ctx)
	if err != nil || count != 0 {
		t.Errorf("expected attempts to be deleted with the exam, got %d, %v", count, err)
	}
}

func TestAttemptTotalsEmpty(t *testing.T) {
	s := newTestStore(t)
	count, avg, best, err := s.AttemptTotals(context.Background())
	if err != nil {
		t.Fatalf("AttemptTotals: %v", err)
	}
	if count != 0 || avg != 0 || best != 0 {
		t.Errorf("expected zeros, got %d %f %f", count, avg, best)
	}
}

func TestAttemptSummaries(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	catID := insertTestCategory(t, s, "History")
	examID := insertTestExam(t, s, &catID, "Dynasties")

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 12; i++ {
		insertTestAttempt(t, s, examID, float64(i*5), base.Add(time.Duration(i)*time.Minute))
	}

	recent, err := s.ListAttemptSummaries(ctx, 10)
	if err != nil {
		t.Fatalf("ListAttemptSummaries: %v", err)
	}
	if len(recent) != 10 {
		t.Fatalf("expected 10 attempts, got %d", len(recent))
	}
	if recent[0].Score != 55 {
		t.Errorf("expected newest attempt first (score 55), got %f", recent[0].Score)
	}
	if recent[0].ExamTitle != "Dynasties" {
		t.Errorf("expected exam title Dynasties, got %q", recent[0].ExamTitle)
	}
	if recent[0].CategoryName == nil || *recent[0].CategoryName != "History" {
		t.Errorf("expected category History, got %v", recent[0].CategoryName)
	}
	if recent[0].Answers["1"] != 0 || len(recent[0].Answers) != 1 {
		t.Errorf("unexpected answers %v", recent[0].Answers)
	}

	all, err := s.ListAttemptSummaries(ctx, 0)
	if err != nil || len(all) != 12 {
		t.Errorf("ListAttemptSummaries(0) = %d, %v; want 12", len(all), err)
	}

	count, avg, best, err := s.AttemptTotals(ctx)
	if err != nil {
		t.Fatalf("AttemptTotals: %v", err)
	}
	if count != 12 || avg != 27.5 || best != 55 {
		t.Errorf("totals = %d %f %f; want 12 27.5 55", count, avg, best)
	}
}

func TestCategoryStatsIncludesEmptyCategories(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	math := insertTestCategory(t, s, "Math")
	empty := insertTestCategory(t, s, "Empty")
	examID := insertTestExam(t, s, &math, "Algebra")
	insertTestAttempt(t, s, examID, 100, time.Now())
	insertTestAttempt(t, s, examID, 50, time.Now())

	stats, err := s.CategoryStats(ctx)
	if err != nil {
		t.Fatalf("CategoryStats: %v", err)
	}
	if len(stats) != 2 {
		t.Fatalf("expected 2 category stats, got %d", len(stats))
	}
	if stats[0].CategoryID != math || stats[0].Attempts != 2 || stats[0].AvgScore != 75 {
		t.Errorf("unexpected math stats %+v", stats[0])
	}
	if stats[1].CategoryID != empty || stats[1].Attempts != 0 || stats[1].AvgScore != 0 {
		t.Errorf("unexpected empty-category stats %+v", stats[1])
	}
}

func TestImportBank(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	existing := insertTestCategory(t, s, "Math")

	hash, err := s.GetImportedFileHash(ctx, "/some/bank.json")
	if err != nil || hash != "" {
		t.Fatalf("GetImportedFileHash before import = %q, %v", hash, err)
	}

	ids, err := s.ImportBank(ctx, model.BankImport{
		Path:       "/some/bank.json",
		Hash:       "abc123",
		Categories: []model.NewCategory{{Name: "Math"}, {Name: "History", Color: ptr("#ef4444")}},
		Questions: []model.NewQuestion{
			{Question: "Q1", Options: model.Options{"a", "b"}, Difficulty: model.DifficultyEasy},
			{Question: "Q2", Options: model.Options{"a", "b"}, Difficulty: model.DifficultyEasy},
			{Question: "Q3", Options: model.Options{"a", "b"}, Difficulty: model.DifficultyEasy},
		},
		CategoryRefs: []int{0, 1, -1},
	})
	if err != nil {
		t.Fatalf("ImportBank: %v", err)
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 ids, got %v", ids)
	}

	if q := findQuestion(t, s, ids[0]); q == nil || q.CategoryID == nil || *q.CategoryID != existing {
		t.Errorf("expected Q1 in existing category %d, got %+v", existing, q)
	}
	historyID, ok, err := s.categoryIDByName(ctx, s.db, "History")
	if err != nil || !ok {
		t.Fatalf("History category not created: %v", err)
	}
	if q := findQuestion(t, s, ids[1]); q == nil || q.CategoryID == nil || *q.CategoryID != historyID {
		t.Errorf("expected Q2 in History, got %+v", q)
	}
	if q := findQuestion(t, s, ids[2]); q == nil || q.CategoryID != nil {
		t.Errorf("expected Q3 uncategorized, got %+v", q)
	}
	cats, _ := s.ListCategories(ctx)
	if len(cats) != 2 {
		t.Errorf("expected 2 categories, got %d", len(cats))
	}
	count, err := s.QuestionCount(ctx)
	if err != nil || count != 3 {
		t.Errorf("QuestionCount = %d, %v; want 3", count, err)
	}

	hash, _ = s.GetImportedFileHash(ctx, "/some/bank.json")
	if hash != "abc123" {
		t.Errorf("expected 'abc123', got %q", hash)
	}
	if err := s.setImportedFileHash(ctx, s.db, "/some/bank.json", "def456"); err != nil {
		t.Fatalf("setImportedFileHash update: %v", err)
	}
	hash, _ = s.GetImportedFileHash(ctx, "/some/bank.json")
	if hash != "def456" {
		t.Errorf("expected 'def456', got %q", hash)
	}
}

func TestImportBankIsAtomic(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	_, err := s.ImportBank(ctx, model.BankImport{
		Path:       "/some/broken.json",
		Hash:       "abc123",
		Categories: []model.NewCategory{{Name: "Fresh"}},
		Questions: []model.NewQuestion{
			{Question: "ok", Options: model.Options{"a", "b"}, Difficulty: model.DifficultyEasy},
			{Question: "dangling", Options: model.Options{"a", "b"}, Difficulty: model.DifficultyEasy},
		},
		CategoryRefs: []int{0, 3},
	})
	if err == nil {
		t.Fatal("expected error for unknown category index")
	}

	cats, _ := s.ListCategories(ctx)
	if len(cats) != 0 {
		t.Errorf("expected no categories after failed import, got %+v", cats)
	}
	qs, _ := s.ListQuestions(ctx, nil)
	if len(qs) != 0 {
		t.Errorf("expected no questions after failed import, got %d", len(qs))
	}
	if hash, _ := s.GetImportedFileHash(ctx, "/some/broken.json"); hash != "" {
		t.Errorf("expected no recorded hash, got %q", hash)
	}
}

func TestExportAttempts(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()
	examID := insertTestExam(t, s, nil, "Mixed")
	insertTestAttempt(t, s, examID, 50, time.Now())

	exp, err := s.ExportAttempts(ctx)
	if err != nil {
		t.Fatalf("ExportAttempts: %v", err)
	}
	if exp.Total != 1 || len(exp.Attempts) != 1 {
		t.Fatalf("expected 1 attempt, got %+v", exp)
	}
	if exp.Attempts[0].CategoryName != nil {
		t.Errorf("expected nil category for uncategorized exam, got %v", *exp.Attempts[0].CategoryName)
	}
}

func TestRebindPostgres(t *testing.T) {
	s := &Store{driver: DriverPostgres}
	got := s.q(`SELECT * FROM t WHERE a = ? AND b = ?`)
	want := `SELECT * FROM t WHERE a = $1 AND b = $2`
	if got != want {
		t.Errorf("q() = %q, want %q", got, want)
	}
	s.driver = DriverSQLite
	if got := s.q(`a = ?`); got != `a = ?` {
		t.Errorf("sqlite q() = %q, want unchanged", got)
	}
}
