package model

import (
	"strconv"
	"strings"
)

// NewCategory is the body of a create-category request.
type NewCategory struct {
	Name        string  `json:"name"`
	Description *string `json:"description"`
	Color       *string `json:"color"`
}

// Normalize trims text fields and turns blank optionals into nil.
func (c *NewCategory) Normalize() {
	c.Name = strings.TrimSpace(c.Name)
	c.Description = trimOptional(c.Description)
	c.Color = trimOptional(c.Color)
}

// Validate checks required fields.
func (c NewCategory) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(c.Name) == "" {
		v.Add("name", "is required")
	}
	return v.Err()
}

// NewQuestion is the body of a create-question request.
type NewQuestion struct {
	CategoryID    *int64     `json:"category_id"`
	Question      string     `json:"question"`
	Options       Options    `json:"options"`
	CorrectAnswer int        `json:"correct_answer"`
	Difficulty    Difficulty `json:"difficulty"`
	Explanation   *string    `json:"explanation"`
}

// Normalize trims text fields and applies the default difficulty.
func (q *NewQuestion) Normalize() {
	q.Question = strings.TrimSpace(q.Question)
	for i, o := range q.Options {
		q.Options[i] = strings.TrimSpace(o)
	}
	if q.Difficulty == "" {
		q.Difficulty = DifficultyMedium
	}
	q.Explanation = trimOptional(q.Explanation)
}

// Validate checks the question text, options and answer key.
func (q NewQuestion) Validate() error {
	v := &ValidationError{}
	q.validateInto(v, "")
	return v.Err()
}

func (q NewQuestion) validateInto(v *ValidationError, prefix string) {
	if strings.TrimSpace(q.Question) == "" {
		v.Add(prefix+"question", "is required")
	}
	if len(q.Options) < 2 {
		v.Add(prefix+"options", "at least 2 options are required, got %d", len(q.Options))
	}
	for i, o := range q.Options {
		if strings.TrimSpace(o) == "" {
			v.Add(prefix+"options", "option %d is empty", i)
		}
	}
	if q.CorrectAnswer < 0 || q.CorrectAnswer >= len(q.Options) {
		v.Add(prefix+"correct_answer", "must be between 0 and %d", len(q.Options)-1)
	}
	if q.Difficulty != "" && !q.Difficulty.Valid() {
		v.Add(prefix+"difficulty", "must be one of easy, medium, hard")
	}
}

// ValidateQuestions checks a batch, prefixing field names with the item index.
func ValidateQuestions(qs []NewQuestion) error {
	v := &ValidationError{}
	if len(qs) == 0 {
		v.Add("questions", "at least one question is required")
	}
	for i, q := range qs {
		q.validateInto(v, "questions["+strconv.Itoa(i)+"].")
	}
	return v.Err()
}

// NewExam is the body of a create-exam request.
type NewExam struct {
	Title           string  `json:"title"`
	Description     *string `json:"description"`
	CategoryID      *int64  `json:"category_id"`
	DurationMinutes int     `json:"duration_minutes"`
	TotalQuestions  int     `json:"total_questions"`
}

// Normalize trims text fields.
func (e *NewExam) Normalize() {
	e.Title = strings.TrimSpace(e.Title)
	e.Description = trimOptional(e.Description)
}

// Validate checks required fields and ranges.
func (e NewExam) Validate() error {
	v := &ValidationError{}
	if strings.TrimSpace(e.Title) == "" {
		v.Add("title", "is required")
	}
	if e.DurationMinutes < 1 {
		v.Add("duration_minutes", "must be at least 1")
	}
	if e.TotalQuestions < 1 {
		v.Add("total_questions", "must be at least 1")
	}
	return v.Err()
}

func trimOptional(s *string) *string {
	if s == nil {
		return nil
	}
	t := strings.TrimSpace(*s)
	if t == "" {
		return nil
	}
	return &t
}
