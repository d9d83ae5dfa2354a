package trainer

import (
	"context"
	"log/slog"
	"strconv"

	"github.com/smarttrainer/smarttrainer/internal/model"
)

// StartExam samples the exam's questions and returns them without answer
// keys. Missing and inactive exams are ErrNotFound.
func (s *Service) StartExam(ctx context.Context, examID int64) (*model.ExamSession, error) {
	exam, err := s.repo.GetExam(ctx, examID)
	if err != nil {
		return nil, storeErr("get exam", err)
	}
	if exam == nil || !exam.IsActive {
		return nil, &model.NotFoundError{Entity: "Exam", ID: examID}
	}

	pool, err := s.repo.ListQuestions(ctx, exam.CategoryID)
	if err != nil {
		return nil, storeErr("list questions", err)
	}
	s.shuffle(len(pool), func(i, j int) {
		pool[i], pool[j] = pool[j], pool[i]
	})
	if exam.TotalQuestions < len(pool) {
		pool = pool[:exam.TotalQuestions]
	}

	questions := make([]model.ExamQuestion, 0, len(pool))
	for _, q := range pool {
		questions = append(questions, q.Redacted())
	}
	return &model.ExamSession{Exam: *exam, Questions: questions}, nil
}

// SubmitExam scores a submission and records the attempt. The score is the
// percentage of submitted answers that match the stored key; unknown or
// malformed question ids count as wrong. An empty submission scores 0.
func (s *Service) SubmitExam(ctx context.Context, examID int64, sub model.Submission) (*model.SubmitResult, error) {
	if sub.TimeTakenMinutes < 0 {
		return nil, model.Invalid("time_taken_minutes", "must not be negative")
	}
	exam, err := s.repo.GetExam(ctx, examID)
	if err != nil {
		return nil, storeErr("get exam", err)
	}
	if exam == nil {
		return nil, &model.NotFoundError{Entity: "Exam", ID: examID}
	}

	correct := 0
	for key, chosen := range sub.Answers {
		qid, err := strconv.ParseInt(key, 10, 64)
		if err != nil {
			continue
		}
		answer, ok, err := s.repo.CorrectAnswer(ctx, qid)
		if err != nil {
			return nil, storeErr("get answer key", err)
		}
		if ok && answer == chosen {
			correct++
		}
	}

	total := len(sub.Answers)
	var score float64
	if total > 0 {
		score = float64(correct) / float64(total) * 100
	}
	answers := sub.Answers
	if answers == nil {
		answers = model.AnswerSheet{}
	}

	id, err := s.repo.InsertAttempt(ctx, model.ExamAttempt{
		ExamID:           examID,
		Score:            score,
		TotalQuestions:   total,
		CorrectAnswers:   correct,
		TimeTakenMinutes: sub.TimeTakenMinutes,
		Answers:          answers,
	})
	if err != nil {
		return nil, storeErr("insert attempt", err)
	}
	slog.Info("exam submitted", "exam_id", examID, "attempt_id", id, "score", score, "correct", correct, "total", total)

	return &model.SubmitResult{
		ID:             id,
		Score:          score,
		CorrectAnswers: correct,
		TotalQuestions: total,
	}, nil
}
