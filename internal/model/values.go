package model

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
)

// Options is the ordered list of answer choices of a question. It is stored
// as a JSON array and validated whenever it is read back.
type Options []string

// Value implements driver.Valuer.
func (o Options) Value() (driver.Value, error) {
	if o == nil {
		o = Options{}
	}
	b, err := json.Marshal([]string(o))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner. Stored lists with fewer than two entries are
// rejected.
func (o *Options) Scan(src any) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("scan options: %w", err)
	}
	var list []string
	if err := json.Unmarshal(raw, &list); err != nil {
		return fmt.Errorf("scan options: %w", err)
	}
	if len(list) < 2 {
		return fmt.Errorf("scan options: need at least 2 options, got %d", len(list))
	}
	*o = list
	return nil
}

// AnswerSheet maps a question ID (as a string) to the chosen option index.
type AnswerSheet map[string]int

// Value implements driver.Valuer.
func (a AnswerSheet) Value() (driver.Value, error) {
	if a == nil {
		a = AnswerSheet{}
	}
	b, err := json.Marshal(map[string]int(a))
	if err != nil {
		return nil, err
	}
	return string(b), nil
}

// Scan implements sql.Scanner.
func (a *AnswerSheet) Scan(src any) error {
	raw, err := jsonBytes(src)
	if err != nil {
		return fmt.Errorf("scan answers: %w", err)
	}
	m := map[string]int{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return fmt.Errorf("scan answers: %w", err)
	}
	*a = m
	return nil
}

func jsonBytes(src any) ([]byte, error) {
	switch v := src.(type) {
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	case nil:
		return nil, errors.New("unexpected NULL")
	default:
		return nil, fmt.Errorf("unsupported type %T", src)
	}
}
