// Package survey runs the preference questionnaire that precedes a story.
package survey

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/jwebster45206/storyweaver/pkg/preferences"
	"gopkg.in/yaml.v3"
)

// Question is one survey prompt. Its answer is stored under ID.
type Question struct {
	ID      string   `json:"id" yaml:"id"`
	Text    string   `json:"text" yaml:"text"`
	Answers []string `json:"answers" yaml:"answers"`
}

// Catalog is the question file: {"questions": [...]}.
type Catalog struct {
	Questions []Question `json:"questions" yaml:"questions"`
}

// LoadCatalog parses question content. YAML is used when format is "yaml" or
// "yml", JSON otherwise. Questions without an id or answers are dropped.
func LoadCatalog(data []byte, format string) (*Catalog, error) {
	var c Catalog
	var err error
	switch strings.ToLower(format) {
	case "yaml", "yml":
		err = yaml.Unmarshal(data, &c)
	default:
		err = json.Unmarshal(data, &c)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse question catalog: %w", err)
	}

	valid := c.Questions[:0]
	for _, q := range c.Questions {
		if strings.TrimSpace(q.ID) == "" || len(q.Answers) == 0 {
			continue
		}
		valid = append(valid, q)
	}
	c.Questions = valid
	return &c, nil
}

// Survey walks the questions in order, recording answers into a profile.
type Survey struct {
	questions []Question
	index     int
	prefs     preferences.Profile
}

// New starts a survey at index, clamped to the question range. prefs may be
// nil; it is written to in place otherwise.
func New(questions []Question, index int, prefs preferences.Profile) *Survey {
	if prefs == nil {
		prefs = preferences.Profile{}
	}
	index = max(0, min(index, len(questions)))
	return &Survey{questions: questions, index: index, prefs: prefs}
}

// Index returns the position of the current question.
func (s *Survey) Index() int { return s.index }

// Len returns the number of questions.
func (s *Survey) Len() int { return len(s.questions) }

// Preferences returns the answers recorded so far.
func (s *Survey) Preferences() preferences.Profile { return s.prefs }

// Done reports whether every question has been answered.
func (s *Survey) Done() bool { return s.index >= len(s.questions) }

// Current returns the question awaiting an answer.
func (s *Survey) Current() (Question, bool) {
	if s.Done() {
		return Question{}, false
	}
	return s.questions[s.index], true
}

// Progress returns a "Question n of m" label for the current question.
func (s *Survey) Progress() string {
	if s.Done() {
		return ""
	}
	return fmt.Sprintf("Question %d of %d", s.index+1, len(s.questions))
}

// Answer records the chosen answer for the current question and advances.
func (s *Survey) Answer(choice int) error {
	q, ok := s.Current()
	if !ok {
		return fmt.Errorf("survey already complete")
	}
	if choice < 0 || choice >= len(q.Answers) {
		return fmt.Errorf("answer %d out of range for question %q", choice, q.ID)
	}
	s.prefs.Set(q.ID, q.Answers[choice])
	s.index++
	return nil
}

// Reset clears the answers and returns to the first question.
func (s *Survey) Reset() {
	s.index = 0
	s.prefs = preferences.Profile{}
}
