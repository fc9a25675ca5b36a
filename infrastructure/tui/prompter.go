// Package tui implements the interactive prompts on top of
// charmbracelet/huh.
package tui

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/huh"

	"github.com/broforce-mods/broforce-tools/domain"
)

// HuhPrompter renders prompts as huh forms. Aborting a form (esc, ctrl+c)
// surfaces as domain.ErrCancelled.
type HuhPrompter struct{}

var _ domain.Prompter = (*HuhPrompter)(nil)

// NewHuhPrompter creates the terminal prompter.
func NewHuhPrompter() *HuhPrompter {
	return &HuhPrompter{}
}

// Confirm asks a yes/no question.
func (p *HuhPrompter) Confirm(title string, defaultYes bool) (bool, error) {
	answer := defaultYes
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(title).
			Value(&answer),
	))
	if err := form.Run(); err != nil {
		return false, mapError(err)
	}
	return answer, nil
}

// Input asks for a line of text, optionally pre-filled and validated.
func (p *HuhPrompter) Input(title, initial string, validate func(string) error) (string, error) {
	value := initial
	input := huh.NewInput().
		Title(title).
		Value(&value)
	if validate != nil {
		input = input.Validate(validate)
	}

	form := huh.NewForm(huh.NewGroup(input))
	if err := form.Run(); err != nil {
		return "", mapError(err)
	}
	return value, nil
}

// Select asks the user to pick one of the options.
func (p *HuhPrompter) Select(title string, options []string) (string, error) {
	var selected string
	form := huh.NewForm(huh.NewGroup(
		huh.NewSelect[string]().
			Title(title).
			Options(huh.NewOptions(options...)...).
			Value(&selected),
	))
	if err := form.Run(); err != nil {
		return "", mapError(err)
	}
	return selected, nil
}

// MultiSelect asks the user to pick any number of the options.
func (p *HuhPrompter) MultiSelect(title string, options []string) ([]string, error) {
	var selected []string
	form := huh.NewForm(huh.NewGroup(
		huh.NewMultiSelect[string]().
			Title(title).
			Options(huh.NewOptions(options...)...).
			Value(&selected),
	))
	if err := form.Run(); err != nil {
		return nil, mapError(err)
	}
	return selected, nil
}

func mapError(err error) error {
	if errors.Is(err, huh.ErrUserAborted) {
		return domain.ErrCancelled
	}
	return fmt.Errorf("prompt failed: %w", err)
}
