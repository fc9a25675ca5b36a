// Package testdoubles provides test doubles (spies, stubs, dummies) for domain
// interfaces. These are hand-crafted implementations — no mock frameworks.
package testdoubles

import (
	"fmt"

	"github.com/broforce-mods/broforce-tools/domain"
)

// ---------------------------------------------------------------------------
// ScriptedPrompter
// ---------------------------------------------------------------------------

// ScriptedPrompter implements domain.Prompter against a fixed script of
// answers, consumed in order per prompt kind. Running out of scripted
// answers fails the prompt, which surfaces as a test failure at the call
// site. Every prompt title is recorded for assertion.
type ScriptedPrompter struct {
	// --- scripted answers, consumed front to back ---
	ConfirmAnswers     []bool
	InputAnswers       []string
	SelectAnswers      []string
	MultiSelectAnswers [][]string

	// Err, when set, is returned by every prompt. Use domain.ErrCancelled
	// to simulate the user dismissing a prompt.
	Err error

	// --- spy: titles received ---
	ConfirmTitles     []string
	InputTitles       []string
	SelectTitles      []string
	MultiSelectTitles []string
}

var _ domain.Prompter = (*ScriptedPrompter)(nil)

func (p *ScriptedPrompter) Confirm(title string, _ bool) (bool, error) {
	p.ConfirmTitles = append(p.ConfirmTitles, title)
	if p.Err != nil {
		return false, p.Err
	}
	if len(p.ConfirmAnswers) == 0 {
		return false, fmt.Errorf("unexpected Confirm prompt: %q", title)
	}
	answer := p.ConfirmAnswers[0]
	p.ConfirmAnswers = p.ConfirmAnswers[1:]
	return answer, nil
}

func (p *ScriptedPrompter) Input(title, _ string, validate func(string) error) (string, error) {
	p.InputTitles = append(p.InputTitles, title)
	if p.Err != nil {
		return "", p.Err
	}
	if len(p.InputAnswers) == 0 {
		return "", fmt.Errorf("unexpected Input prompt: %q", title)
	}
	answer := p.InputAnswers[0]
	p.InputAnswers = p.InputAnswers[1:]
	if validate != nil {
		if err := validate(answer); err != nil {
			return "", err
		}
	}
	return answer, nil
}

func (p *ScriptedPrompter) Select(title string, options []string) (string, error) {
	p.SelectTitles = append(p.SelectTitles, title)
	if p.Err != nil {
		return "", p.Err
	}
	if len(p.SelectAnswers) == 0 {
		return "", fmt.Errorf("unexpected Select prompt: %q", title)
	}
	answer := p.SelectAnswers[0]
	p.SelectAnswers = p.SelectAnswers[1:]
	for _, option := range options {
		if option == answer {
			return answer, nil
		}
	}
	return "", fmt.Errorf("scripted answer %q not among options %v", answer, options)
}

func (p *ScriptedPrompter) MultiSelect(title string, _ []string) ([]string, error) {
	p.MultiSelectTitles = append(p.MultiSelectTitles, title)
	if p.Err != nil {
		return nil, p.Err
	}
	if len(p.MultiSelectAnswers) == 0 {
		return nil, fmt.Errorf("unexpected MultiSelect prompt: %q", title)
	}
	answer := p.MultiSelectAnswers[0]
	p.MultiSelectAnswers = p.MultiSelectAnswers[1:]
	return answer, nil
}

// ---------------------------------------------------------------------------
// StubDependencySource
// ---------------------------------------------------------------------------

// StubDependencySource implements domain.DependencySource from fixed
// versions, defaulting to a stable known set.
type StubDependencySource struct {
	// VersionMap overrides the default versions when non-nil.
	VersionMap map[string]string
}

var _ domain.DependencySource = (*StubDependencySource)(nil)

func (s *StubDependencySource) Versions() map[string]string {
	if s.VersionMap != nil {
		return s.VersionMap
	}
	return map[string]string{
		"UMM":       "1.0.2",
		"RocketLib": "2.4.0",
		"BroMaker":  "2.6.0",
	}
}

func (s *StubDependencySource) DependencyStrings() map[string]string {
	deps := make(map[string]string)
	for name, version := range s.Versions() {
		deps[name] = fmt.Sprintf("%s-%s-%s", name, name, version)
	}
	return deps
}

// ---------------------------------------------------------------------------
// DummyPrompter — satisfies the interface but fails every prompt
// ---------------------------------------------------------------------------

// DummyPrompter is a Prompter for flows that must never prompt; any call
// fails loudly.
type DummyPrompter struct{}

var _ domain.Prompter = (*DummyPrompter)(nil)

func (d *DummyPrompter) Confirm(title string, _ bool) (bool, error) {
	return false, fmt.Errorf("unexpected Confirm prompt: %q", title)
}

func (d *DummyPrompter) Input(title, _ string, _ func(string) error) (string, error) {
	return "", fmt.Errorf("unexpected Input prompt: %q", title)
}

func (d *DummyPrompter) Select(title string, _ []string) (string, error) {
	return "", fmt.Errorf("unexpected Select prompt: %q", title)
}

func (d *DummyPrompter) MultiSelect(title string, _ []string) ([]string, error) {
	return nil, fmt.Errorf("unexpected MultiSelect prompt: %q", title)
}
