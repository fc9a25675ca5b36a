package application

import (
	"fmt"
	"os"
	"os/exec"
	"sort"
	"strings"

	"github.com/broforce-mods/broforce-tools/domain"
	"github.com/broforce-mods/broforce-tools/infrastructure/metadata"
	"github.com/broforce-mods/broforce-tools/infrastructure/workspace"
)

// ChangelogOptions controls project resolution for the changelog commands.
type ChangelogOptions struct {
	AllRepos       bool
	NonInteractive bool
}

// ChangelogService adds, shows and edits the unreleased section of project
// changelogs.
type ChangelogService struct {
	ws       *workspace.Workspace
	prompter domain.Prompter
	console  *Console
}

// NewChangelogService creates the changelog service.
func NewChangelogService(ws *workspace.Workspace, prompter domain.Prompter, console *Console) *ChangelogService {
	return &ChangelogService{ws: ws, prompter: prompter, console: console}
}

// Add appends an entry to the unreleased section of a project's changelog.
// projectName may be empty, in which case the project is selected.
func (s *ChangelogService) Add(projectName, message string, opts ChangelogOptions) error {
	project, err := s.resolveProject(projectName, opts)
	if err != nil {
		return err
	}
	changelogPath, err := s.findChangelog(project)
	if err != nil {
		return err
	}

	data, err := os.ReadFile(changelogPath)
	if err != nil {
		return fmt.Errorf("failed to read changelog %q: %w", changelogPath, err)
	}

	section := domain.ParseChangelog(string(data))
	if !section.Unreleased {
		return fmt.Errorf("no unreleased version found in changelog; add a header like: ## v1.0.0 (unreleased)")
	}

	updated, ok := domain.AddChangelogEntry(string(data), message)
	if !ok {
		return fmt.Errorf("failed to add changelog entry")
	}
	if writeErr := os.WriteFile(changelogPath, []byte(updated), 0o644); writeErr != nil {
		return fmt.Errorf("failed to write changelog %q: %w", changelogPath, writeErr)
	}

	s.console.Successf("Added to %s v%s:", project.Name, section.Version)
	s.console.Plainf("  - %s", message)
	return nil
}

// Show prints the latest changelog section of a project.
func (s *ChangelogService) Show(projectName string, opts ChangelogOptions) error {
	var project domain.Project
	var err error
	if projectName != "" || opts.NonInteractive {
		project, err = s.resolveProject(projectName, opts)
	} else {
		project, err = s.chooseWithUnreleasedFirst(opts.AllRepos)
	}
	if err != nil {
		return err
	}

	changelogPath, err := s.findChangelog(project)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(changelogPath)
	if err != nil {
		return fmt.Errorf("failed to read changelog %q: %w", changelogPath, err)
	}

	section := domain.ParseChangelog(string(data))
	if section.Version == "" {
		s.console.Infof("%s: No versions found in changelog", project.Name)
		return nil
	}

	status := "(released)"
	if section.Unreleased {
		status = "(unreleased)"
	}
	s.console.Headerf("%s - v%s %s:", project.Name, section.Version, status)
	if len(section.Entries) == 0 {
		s.console.Infof("  (no entries)")
		return nil
	}
	for _, entry := range section.Entries {
		s.console.Plainf("  %s", entry)
	}
	return nil
}

// Edit opens a project's changelog in the user's editor.
func (s *ChangelogService) Edit(projectName string, opts ChangelogOptions) error {
	project, err := s.resolveProject(projectName, opts)
	if err != nil {
		return err
	}
	changelogPath, err := s.findChangelog(project)
	if err != nil {
		return err
	}

	editor := os.Getenv("EDITOR")
	if editor == "" {
		editor = os.Getenv("VISUAL")
	}
	if editor == "" {
		editor = "nano"
	}
	s.console.Infof("Opening %s in %s...", changelogPath, editor)

	parts := strings.Fields(editor)
	cmd := exec.Command(parts[0], append(parts[1:], changelogPath)...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if runErr := cmd.Run(); runErr != nil {
		return fmt.Errorf("editor %q failed: %w", parts[0], runErr)
	}
	return nil
}

// resolveProject resolves the target project: by name when given, by
// selection otherwise. Non-interactive mode without a name fails, listing
// the candidates.
func (s *ChangelogService) resolveProject(projectName string, opts ChangelogOptions) (domain.Project, error) {
	if projectName != "" {
		project, found := s.ws.LocateProject(projectName)
		if !found || project.ReleasesPath == "" {
			return domain.Project{}, fmt.Errorf("could not find project %q", projectName)
		}
		return project, nil
	}

	repos, singleRepo := s.ws.ReposToSearch(opts.AllRepos)
	if len(repos) == 0 {
		return domain.Project{}, fmt.Errorf("no repos configured; run from inside a repo or use --add-repo")
	}
	projects := s.ws.FindProjects(repos, workspace.FilterWithMetadata)
	if len(projects) == 0 {
		return domain.Project{}, fmt.Errorf("no projects with Thunderstore metadata found")
	}
	if len(projects) == 1 {
		s.console.Notef("Using project: %s", projects[0].Name)
		return projects[0], nil
	}
	if opts.NonInteractive {
		names := make([]string, len(projects))
		for i, project := range projects {
			names[i] = project.Name
		}
		return domain.Project{}, fmt.Errorf(
			"non-interactive mode requires a project name; available: %s", strings.Join(names, ", "))
	}

	label, err := s.prompter.Select("Select project:", projectLabels(projects, singleRepo))
	if err != nil {
		return domain.Project{}, err
	}
	project, ok := projectByLabel(projects, singleRepo, label)
	if !ok {
		return domain.Project{}, fmt.Errorf("unknown project selection %q", label)
	}
	return project, nil
}

// chooseWithUnreleasedFirst is the show-command selector: projects with an
// unreleased section are starred and sorted first.
func (s *ChangelogService) chooseWithUnreleasedFirst(allRepos bool) (domain.Project, error) {
	repos, singleRepo := s.ws.ReposToSearch(allRepos)
	if len(repos) == 0 {
		return domain.Project{}, fmt.Errorf("no repos configured; run from inside a repo or use --add-repo")
	}
	projects := s.ws.FindProjects(repos, workspace.FilterWithMetadata)
	if len(projects) == 0 {
		return domain.Project{}, fmt.Errorf("no projects with Thunderstore metadata found")
	}
	if len(projects) == 1 {
		s.console.Notef("Using project: %s", projects[0].Name)
		return projects[0], nil
	}

	type choice struct {
		label      string
		project    domain.Project
		unreleased bool
	}
	choices := make([]choice, len(projects))
	for i, project := range projects {
		label := project.Name
		if !singleRepo {
			label = fmt.Sprintf("%s (%s)", project.Name, project.Repo)
		}
		unreleased := false
		if changelogPath, ok := metadata.FindChangelog(project.ReleasesPath); ok {
			if data, err := os.ReadFile(changelogPath); err == nil {
				unreleased = domain.ParseChangelog(string(data)).Unreleased
			}
		}
		if unreleased {
			label += " *"
		}
		choices[i] = choice{label: label, project: project, unreleased: unreleased}
	}
	sort.SliceStable(choices, func(i, j int) bool {
		if choices[i].unreleased != choices[j].unreleased {
			return choices[i].unreleased
		}
		return choices[i].label < choices[j].label
	})

	labels := make([]string, len(choices))
	for i, c := range choices {
		labels[i] = c.label
	}
	selected, err := s.prompter.Select("Select project (* = unreleased):", labels)
	if err != nil {
		return domain.Project{}, err
	}
	for _, c := range choices {
		if c.label == selected {
			return c.project, nil
		}
	}
	return domain.Project{}, fmt.Errorf("unknown project selection %q", selected)
}

// findChangelog returns the project's changelog path.
func (s *ChangelogService) findChangelog(project domain.Project) (string, error) {
	changelogPath, ok := metadata.FindChangelog(project.ReleasesPath)
	if !ok {
		return "", fmt.Errorf("no changelog found for %q", project.Name)
	}
	return changelogPath, nil
}
