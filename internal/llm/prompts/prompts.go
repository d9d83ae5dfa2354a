package prompts

import (
	"bytes"
	"embed"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"
	"text/template"
	"unicode/utf8"

	"github.com/smarttrainer/smarttrainer/internal/model"
)

// MaxContentRunes caps the source text sent to the model.
const MaxContentRunes = 10000

//go:embed templates/*.txt
var Templates embed.FS

var (
	loadOnce          sync.Once
	loadErr           error
	generateTemplates map[model.Language]*template.Template
)

// GenerateData holds template data for question generation prompts.
type GenerateData struct {
	Content string
	Count   int
	Topic   string
}

// Load loads prompt templates from fsys, normally Templates.
// It uses sync.Once to ensure templates are loaded only once.
func Load(fsys fs.FS) error {
	loadOnce.Do(func() {
		generateTemplates = make(map[model.Language]*template.Template)

		for _, lang := range []model.Language{model.LanguageArabic, model.LanguageEnglish} {
			file := "templates/generate_" + string(lang) + ".txt"

			content, err := fs.ReadFile(fsys, file)
			if err != nil {
				loadErr = errors.New("failed to read prompt file " + file + ": " + err.Error())
				return
			}

			tmpl, err := template.New("generate").Parse(string(content))
			if err != nil {
				loadErr = errors.New("failed to parse prompt template " + file + ": " + err.Error())
				return
			}
			generateTemplates[lang] = tmpl
		}
	})
	return loadErr
}

// BuildGeneratePrompt builds the question generation prompt for lang. The
// content is truncated to MaxContentRunes.
func BuildGeneratePrompt(lang model.Language, data GenerateData) (string, error) {
	if generateTemplates == nil {
		return "", errors.New("templates not initialized: call Load first")
	}
	tmpl, ok := generateTemplates[lang]
	if !ok {
		if loadErr != nil {
			return "", fmt.Errorf("templates load failed: %w", loadErr)
		}
		return "", errors.New("unsupported prompt language: " + string(lang))
	}

	data.Content = TruncateContent(strings.TrimSpace(data.Content), MaxContentRunes)
	data.Topic = strings.TrimSpace(data.Topic)

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", err
	}
	return buf.String(), nil
}

// TruncateContent returns the first max runes of s.
func TruncateContent(s string, max int) string {
	if utf8.RuneCountInString(s) <= max {
		return s
	}
	return string([]rune(s)[:max])
}
