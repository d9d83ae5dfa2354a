package trainer

import (
	"context"
	"errors"
	"strconv"

	"github.com/smarttrainer/smarttrainer/internal/model"
)

// ListCategories returns every category, newest first.
func (s *Service) ListCategories(ctx context.Context) ([]model.Category, error) {
	cats, err := s.repo.ListCategories(ctx)
	if err != nil {
		return nil, storeErr("list categories", err)
	}
	return cats, nil
}

// GetCategory returns a category by ID.
func (s *Service) GetCategory(ctx context.Context, id int64) (*model.Category, error) {
	c, err := s.repo.GetCategory(ctx, id)
	if err != nil {
		return nil, storeErr("get category", err)
	}
	if c == nil {
		return nil, &model.NotFoundError{Entity: "Category", ID: id}
	}
	return c, nil
}

// CreateCategory validates and stores a category.
func (s *Service) CreateCategory(ctx context.Context, c model.NewCategory) (int64, error) {
	c.Normalize()
	if err := c.Validate(); err != nil {
		return 0, err
	}
	id, err := s.repo.CreateCategory(ctx, c)
	if err != nil {
		return 0, storeErr("create category", err)
	}
	return id, nil
}

// DeleteCategory removes a category. Questions and exams that referenced it
// become uncategorized.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return storeErr("delete category", err)
	}
	return nil
}

// ListQuestions returns the bank, optionally filtered by category.
func (s *Service) ListQuestions(ctx context.Context, categoryID *int64) ([]model.Question, error) {
	qs, err := s.repo.ListQuestions(ctx, categoryID)
	if err != nil {
		return nil, storeErr("list questions", err)
	}
	return qs, nil
}

// CreateQuestion validates and stores one question.
func (s *Service) CreateQuestion(ctx context.Context, q model.NewQuestion) (int64, error) {
	q.Normalize()
	v := violations(q.Validate())
	if err := s.checkCategory(ctx, q.CategoryID, "category_id", v); err != nil {
		return 0, err
	}
	if err := v.Err(); err != nil {
		return 0, err
	}
	id, err := s.repo.InsertQuestion(ctx, q)
	if err != nil {
		return 0, storeErr("insert question", err)
	}
	return id, nil
}

// CreateQuestions stores a batch of questions. Either every question is
// stored or none is. A non-nil categoryID applies to items without their own.
func (s *Service) CreateQuestions(ctx context.Context, qs []model.NewQuestion, categoryID *int64) ([]int64, error) {
	for i := range qs {
		qs[i].Normalize()
		if qs[i].CategoryID == nil {
			qs[i].CategoryID = categoryID
		}
	}
	v := violations(model.ValidateQuestions(qs))
	checked := map[int64]bool{}
	for i, q := range qs {
		if q.CategoryID == nil || checked[*q.CategoryID] {
			continue
		}
		checked[*q.CategoryID] = true
		if err := s.checkCategory(ctx, q.CategoryID, "questions["+strconv.Itoa(i)+"].category_id", v); err != nil {
			return nil, err
		}
	}
	if err := v.Err(); err != nil {
		return nil, err
	}
	ids, err := s.repo.InsertQuestions(ctx, qs)
	if err != nil {
		return nil, storeErr("insert questions", err)
	}
	return ids, nil
}

// DeleteQuestion removes a question. Missing ids are not an error.
func (s *Service) DeleteQuestion(ctx context.Context, id int64) error {
	if err := s.repo.DeleteQuestion(ctx, id); err != nil {
		return storeErr("delete question", err)
	}
	return nil
}

// ListExams returns active exams with their category name.
func (s *Service) ListExams(ctx context.Context) ([]model.Exam, error) {
	exams, err := s.repo.ListActiveExams(ctx)
	if err != nil {
		return nil, storeErr("list exams", err)
	}
	return exams, nil
}

// CreateExam validates and stores an exam definition.
func (s *Service) CreateExam(ctx context.Context, e model.NewExam) (int64, error) {
	e.Normalize()
	v := violations(e.Validate())
	if err := s.checkCategory(ctx, e.CategoryID, "category_id", v); err != nil {
		return 0, err
	}
	if err := v.Err(); err != nil {
		return 0, err
	}
	id, err := s.repo.CreateExam(ctx, e)
	if err != nil {
		return 0, storeErr("create exam", err)
	}
	return id, nil
}

// DeleteExam removes an exam and its attempts. Missing ids are not an error.
func (s *Service) DeleteExam(ctx context.Context, id int64) error {
	if err := s.repo.DeleteExam(ctx, id); err != nil {
		return storeErr("delete exam", err)
	}
	return nil
}

// checkCategory records a violation on field when id refers to a category
// that does not exist. The returned error is a store failure only.
func (s *Service) checkCategory(ctx context.Context, id *int64, field string, v *model.ValidationError) error {
	if id == nil {
		return nil
	}
	c, err := s.repo.GetCategory(ctx, *id)
	if err != nil {
		return storeErr("get category", err)
	}
	if c == nil {
		v.Add(field, "category %d does not exist", *id)
	}
	return nil
}

// violations returns the ValidationError held by err, or an empty one.
func violations(err error) *model.ValidationError {
	var v *model.ValidationError
	if errors.As(err, &v) {
		return v
	}
	return &model.ValidationError{}
}
