package domain

// Prompter abstracts the interactive terminal prompts so that every service
// stays a pure decision core around it. Implementations return ErrCancelled
// when the user dismisses a prompt.
type Prompter interface {
	// Confirm asks a yes/no question with the given default answer.
	Confirm(title string, defaultYes bool) (bool, error)

	// Input asks for a line of text. initial pre-fills the field and
	// validate, when non-nil, rejects bad input before returning.
	Input(title, initial string, validate func(string) error) (string, error)

	// Select asks the user to pick one of the options.
	Select(title string, options []string) (string, error)

	// MultiSelect asks the user to pick any number of the options.
	MultiSelect(title string, options []string) ([]string, error)
}

// DependencySource resolves the tracked upstream dependencies to their
// latest known versions. Implemented by the Thunderstore registry; stubbed
// in tests.
type DependencySource interface {
	// Versions maps dependency name (e.g. "RocketLib") to its latest
	// version string.
	Versions() map[string]string

	// DependencyStrings maps dependency name to its full
	// "Namespace-Package-Version" string.
	DependencyStrings() map[string]string
}
