package console

import (
	"fmt"
	"strings"

	"github.com/Uthayarahavan/google-form-automation/pkg/gf/validation"
)

// ParseQuestions splits freeform text into question candidates: one
// question per line, trimmed, blank lines dropped, order preserved.
func ParseQuestions(text string) ([]string, validation.ValidationErrors) {
	var questions []string
	for _, line := range strings.Split(text, "\n") {
		if q := strings.TrimSpace(line); q != "" {
			questions = append(questions, q)
		}
	}
	if len(questions) == 0 {
		return nil, validation.NewSingleError("questions", "Please enter at least one question")
	}
	return questions, nil
}

// Draft is a survey under construction: parsed questions plus a
// per-question inclusion flag.
type Draft struct {
	Title       string
	Description string
	questions   []string
	included    []bool
}

func NewDraft(title, description string) *Draft {
	return &Draft{
		Title:       strings.TrimSpace(title),
		Description: strings.TrimSpace(description),
	}
}

// Preview parses the question text and resets the selection to
// all-included. A re-preview discards earlier deselections, since the
// underlying text may have changed.
func (d *Draft) Preview(text string) ([]string, validation.ValidationErrors) {
	questions, errs := ParseQuestions(text)
	if errs.HasErrors() {
		return nil, errs
	}

	d.questions = questions
	d.included = make([]bool, len(questions))
	for i := range d.included {
		d.included[i] = true
	}
	return questions, nil
}

// Questions returns all parsed questions regardless of selection.
func (d *Draft) Questions() []string {
	return d.questions
}

// Toggle flips the inclusion flag of one question.
func (d *Draft) Toggle(index int) error {
	if index < 0 || index >= len(d.included) {
		return fmt.Errorf("question index %d out of range", index)
	}
	d.included[index] = !d.included[index]
	return nil
}

// Selected returns the included questions in order.
func (d *Draft) Selected() []string {
	var selected []string
	for i, q := range d.questions {
		if d.included[i] {
			selected = append(selected, q)
		}
	}
	return selected
}

// Validate checks the submission preconditions: non-empty title,
// previewed questions, and at least one question still selected.
func (d *Draft) Validate() validation.ValidationErrors {
	var errs validation.ValidationErrors

	if !validation.IsRequired(d.Title) {
		errs.Add("title", "Please enter a survey title")
	}
	if len(d.questions) == 0 {
		errs.Add("questions", "Please preview your questions first")
	} else if len(d.Selected()) == 0 {
		errs.Add("questions", "Please select at least one question")
	}

	return errs
}
