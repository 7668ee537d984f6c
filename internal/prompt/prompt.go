// Package prompt wraps the interactive terminal prompts used for word
// collection and card review.
package prompt

import (
	"github.com/AlecAivazis/survey/v2"
)

// Prompter abstracts the interactive terminal prompts so callers can be
// driven by a fake in tests.
type Prompter interface {
	// Select asks the user to pick one option, returning its index.
	Select(message string, options []string) (int, error)

	// MultiSelect asks the user to pick one or more options, returning
	// their indexes.
	MultiSelect(message string, options []string) ([]int, error)

	// Input asks for a free-text line, empty allowed.
	Input(message string) (string, error)

	// Confirm asks a yes/no question.
	Confirm(message string, defaultYes bool) (bool, error)
}

// SurveyPrompter implements Prompter with interactive terminal prompts.
type SurveyPrompter struct{}

// NewSurveyPrompter creates the terminal-backed prompter used in normal
// operation.
func NewSurveyPrompter() *SurveyPrompter {
	return &SurveyPrompter{}
}

func (p *SurveyPrompter) Select(message string, options []string) (int, error) {
	var index int
	prompt := &survey.Select{
		Message: message,
		Options: options,
	}
	if err := survey.AskOne(prompt, &index); err != nil {
		return 0, err
	}
	return index, nil
}

func (p *SurveyPrompter) MultiSelect(message string, options []string) ([]int, error) {
	var indexes []int
	prompt := &survey.MultiSelect{
		Message: message,
		Options: options,
	}
	if err := survey.AskOne(prompt, &indexes); err != nil {
		return nil, err
	}
	return indexes, nil
}

func (p *SurveyPrompter) Input(message string) (string, error) {
	var answer string
	prompt := &survey.Input{Message: message}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return "", err
	}
	return answer, nil
}

func (p *SurveyPrompter) Confirm(message string, defaultYes bool) (bool, error) {
	answer := defaultYes
	prompt := &survey.Confirm{
		Message: message,
		Default: defaultYes,
	}
	if err := survey.AskOne(prompt, &answer); err != nil {
		return false, err
	}
	return answer, nil
}
