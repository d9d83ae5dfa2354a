// Package trainer implements the content, exam session, scoring and progress
// operations on top of a Repository.
package trainer

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"

	"github.com/smarttrainer/smarttrainer/internal/model"
)

// recentAttemptsLimit is how many attempts Progress reports.
const recentAttemptsLimit = 10

// Repository is the persistence the service needs. *store.Store implements it.
type Repository interface {
	ListCategories(ctx context.Context) ([]model.Category, error)
	GetCategory(ctx context.Context, id int64) (*model.Category, error)
	CreateCategory(ctx context.Context, c model.NewCategory) (int64, error)
	DeleteCategory(ctx context.Context, id int64) error

	ListQuestions(ctx context.Context, categoryID *int64) ([]model.Question, error)
	CorrectAnswer(ctx context.Context, questionID int64) (int, bool, error)
	InsertQuestion(ctx context.Context, q model.NewQuestion) (int64, error)
	InsertQuestions(ctx context.Context, qs []model.NewQuestion) ([]int64, error)
	DeleteQuestion(ctx context.Context, id int64) error

	ListActiveExams(ctx context.Context) ([]model.Exam, error)
	GetExam(ctx context.Context, id int64) (*model.Exam, error)
	CreateExam(ctx context.Context, e model.NewExam) (int64, error)
	DeleteExam(ctx context.Context, id int64) error

	InsertAttempt(ctx context.Context, a model.ExamAttempt) (int64, error)
	ListAttemptSummaries(ctx context.Context, limit int) ([]model.AttemptSummary, error)
	AttemptTotals(ctx context.Context) (count int, avg, best float64, err error)
	CategoryStats(ctx context.Context) ([]model.CategoryStat, error)

	GetImportedFileHash(ctx context.Context, path string) (string, error)
	ImportBank(ctx context.Context, b model.BankImport) ([]int64, error)
}

// Service is the application layer shared by the HTTP API and the CLI.
type Service struct {
	repo    Repository
	shuffle func(n int, swap func(i, j int))
}

// New creates a Service backed by repo.
func New(repo Repository) *Service {
	return &Service{repo: repo, shuffle: rand.Shuffle}
}

// storeErr wraps a repository failure and logs it once.
func storeErr(op string, err error) error {
	var se *model.StoreError
	if errors.As(err, &se) {
		return err
	}
	slog.Error("store operation failed", "op", op, "error", err)
	return &model.StoreError{Op: op, Err: err}
}
