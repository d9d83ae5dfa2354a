package model

import (
	"strings"
	"time"
)

// Difficulty represents question difficulty level.
type Difficulty string

const (
	DifficultyEasy   Difficulty = "easy"
	DifficultyMedium Difficulty = "medium"
	DifficultyHard   Difficulty = "hard"
)

// Valid reports whether d is one of the known difficulty levels.
func (d Difficulty) Valid() bool {
	switch d {
	case DifficultyEasy, DifficultyMedium, DifficultyHard:
		return true
	}
	return false
}

// Language is a UI and generation language tag.
type Language string

const (
	LanguageArabic  Language = "ar"
	LanguageEnglish Language = "en"
)

// Valid reports whether l is a supported language.
func (l Language) Valid() bool {
	return l == LanguageArabic || l == LanguageEnglish
}

// Category groups questions and exams.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Description *string   `json:"description"`
	Color       *string   `json:"color"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`

	// Localized for the requesting client; never stored.
	DisplayName        string  `json:"display_name,omitempty"`
	DisplayDescription *string `json:"display_description,omitempty"`
}

// Question is a multiple-choice question in the bank, including its answer key.
type Question struct {
	ID            int64      `json:"id"`
	CategoryID    *int64     `json:"category_id"`
	Question      string     `json:"question"`
	Options       Options    `json:"options"`
	CorrectAnswer int        `json:"correct_answer"`
	Difficulty    Difficulty `json:"difficulty"`
	Explanation   *string    `json:"explanation"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

// ExamQuestion is the exam-taking view of a question. It has no answer key
// and no explanation.
type ExamQuestion struct {
	ID         int64      `json:"id"`
	CategoryID *int64     `json:"category_id"`
	Question   string     `json:"question"`
	Options    Options    `json:"options"`
	Difficulty Difficulty `json:"difficulty"`
}

// Redacted returns the exam-taking view of q.
func (q Question) Redacted() ExamQuestion {
	return ExamQuestion{
		ID:         q.ID,
		CategoryID: q.CategoryID,
		Question:   q.Question,
		Options:    q.Options,
		Difficulty: q.Difficulty,
	}
}

// Exam is an exam definition. Questions are sampled when the exam starts.
type Exam struct {
	ID              int64     `json:"id"`
	Title           string    `json:"title"`
	Description     *string   `json:"description"`
	CategoryID      *int64    `json:"category_id"`
	CategoryName    *string   `json:"category_name"`
	DurationMinutes int       `json:"duration_minutes"`
	TotalQuestions  int       `json:"total_questions"`
	IsActive        bool      `json:"is_active"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

// ExamAttempt is one submitted run of an exam.
type ExamAttempt struct {
	ID               int64       `json:"id"`
	ExamID           int64       `json:"exam_id"`
	Score            float64     `json:"score"`
	TotalQuestions   int         `json:"total_questions"`
	CorrectAnswers   int         `json:"correct_answers"`
	TimeTakenMinutes int         `json:"time_taken_minutes"`
	Answers          AnswerSheet `json:"answers"`
	CompletedAt      time.Time   `json:"completed_at"`
}

// ExamSession is what a client receives when starting an exam.
type ExamSession struct {
	Exam      Exam           `json:"exam"`
	Questions []ExamQuestion `json:"questions"`
}

// Submission is a client's set of answers for an exam.
type Submission struct {
	Answers          AnswerSheet `json:"answers"`
	TimeTakenMinutes int         `json:"time_taken_minutes"`
}

// SubmitResult is returned after scoring a submission.
type SubmitResult struct {
	ID             int64   `json:"id"`
	Score          float64 `json:"score"`
	CorrectAnswers int     `json:"correct_answers"`
	TotalQuestions int     `json:"total_questions"`
}

// AttemptSummary is an attempt joined with its exam and category.
type AttemptSummary struct {
	ExamAttempt
	ExamTitle    string  `json:"exam_title"`
	CategoryName *string `json:"category_name"`
}

// CategoryStat is the per-category rollup shown in progress reports.
type CategoryStat struct {
	CategoryID int64   `json:"category_id"`
	Name       string  `json:"name"`
	AvgScore   float64 `json:"avg_score"`
	Attempts   int     `json:"attempts"`
}

// Progress summarizes all attempts.
type Progress struct {
	TotalAttempts  int              `json:"total_attempts"`
	AverageScore   float64          `json:"average_score"`
	BestScore      float64          `json:"best_score"`
	RecentAttempts []AttemptSummary `json:"recent_attempts"`
	CategoryStats  []CategoryStat   `json:"category_stats"`
}

// GenerationRequest is the input to question generation.
type GenerationRequest struct {
	Content      string
	Count        int
	Language     Language
	CategoryHint string // optional topic name
}

// GeneratedQuestion is a question proposed by the language model. It has the
// same shape as NewQuestion so clients can post it back unchanged.
type GeneratedQuestion struct {
	Question      string     `json:"question"`
	Options       []string   `json:"options"`
	CorrectAnswer int        `json:"correct_answer"`
	Difficulty    Difficulty `json:"difficulty"`
	Explanation   string     `json:"explanation"`
}

// AsNewQuestion converts a generated question into a create request.
func (g GeneratedQuestion) AsNewQuestion(categoryID *int64) NewQuestion {
	nq := NewQuestion{
		CategoryID:    categoryID,
		Question:      g.Question,
		Options:       Options(g.Options),
		CorrectAnswer: g.CorrectAnswer,
		Difficulty:    g.Difficulty,
	}
	if e := strings.TrimSpace(g.Explanation); e != "" {
		nq.Explanation = &e
	}
	return nq
}

// QuestionImport is used for loading question bank files from JSON.
type QuestionImport struct {
	Category            string     `json:"category"`
	CategoryDescription string     `json:"category_description"`
	CategoryColor       string     `json:"category_color"`
	Question            string     `json:"question"`
	Options             []string   `json:"options"`
	CorrectAnswer       int        `json:"correct_answer"`
	Difficulty          Difficulty `json:"difficulty"`
	Explanation         string     `json:"explanation"`
}

// BankImport is a parsed question bank stored in one transaction. Categories
// are matched by name and created when missing. CategoryRefs holds, for each
// question, an index into Categories or -1 for none.
type BankImport struct {
	Path         string
	Hash         string
	Categories   []NewCategory
	Questions    []NewQuestion
	CategoryRefs []int
}
