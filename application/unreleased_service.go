package application

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/broforce-mods/broforce-tools/domain"
	"github.com/broforce-mods/broforce-tools/infrastructure/metadata"
	"github.com/broforce-mods/broforce-tools/infrastructure/workspace"
)

// UnreleasedOptions controls the unreleased-changes overview.
type UnreleasedOptions struct {
	AllRepos bool
	// PackageAll packages every unreleased project without prompting.
	PackageAll bool
	// Package names the projects to package, skipping the menu.
	Package        []string
	NonInteractive bool
}

// unreleasedProject is one project whose changelog still carries the
// unreleased marker.
type unreleasedProject struct {
	project domain.Project
	version string
	entries []string
}

// UnreleasedService lists projects with unreleased changelog entries and
// packages them on request.
type UnreleasedService struct {
	ws       *workspace.Workspace
	prompter domain.Prompter
	console  *Console
	pkg      *PackageService
}

// NewUnreleasedService creates the overview service.
func NewUnreleasedService(
	ws *workspace.Workspace,
	prompter domain.Prompter,
	console *Console,
	pkg *PackageService,
) *UnreleasedService {
	return &UnreleasedService{ws: ws, prompter: prompter, console: console, pkg: pkg}
}

// Run shows the unreleased projects and dispatches packaging.
func (s *UnreleasedService) Run(opts UnreleasedOptions) error {
	repos, singleRepo := s.ws.ReposToSearch(opts.AllRepos)
	if len(repos) == 0 {
		return fmt.Errorf("no repos configured; run from inside a repo or use --add-repo")
	}

	unreleased := s.collect(repos)
	if len(unreleased) == 0 {
		s.console.Infof("No unreleased changes found.")
		return nil
	}

	s.print(unreleased, false)

	switch {
	case opts.PackageAll:
		return s.packageProjects(unreleased, PackageOptions{NonInteractive: true})
	case len(opts.Package) > 0:
		return s.packageProjects(s.byName(unreleased, opts.Package), PackageOptions{NonInteractive: true})
	case opts.NonInteractive:
		return nil
	}
	return s.menu(unreleased, singleRepo)
}

// collect scans the repos for metadata projects whose changelog still has an
// unreleased section. Unreadable changelogs are skipped.
func (s *UnreleasedService) collect(repos []string) []unreleasedProject {
	var unreleased []unreleasedProject
	for _, project := range s.ws.FindProjects(repos, workspace.FilterWithMetadata) {
		changelogPath, ok := metadata.FindChangelog(project.ReleasesPath)
		if !ok {
			continue
		}
		data, err := os.ReadFile(changelogPath)
		if err != nil {
			continue
		}
		section := domain.ParseChangelog(string(data))
		if !section.Unreleased {
			continue
		}
		unreleased = append(unreleased, unreleasedProject{
			project: project,
			version: section.Version,
			entries: section.Entries,
		})
	}
	return unreleased
}

// print renders the overview grouped by repo.
func (s *UnreleasedService) print(unreleased []unreleasedProject, details bool) {
	byRepo := make(map[string][]unreleasedProject)
	for _, entry := range unreleased {
		byRepo[entry.project.Repo] = append(byRepo[entry.project.Repo], entry)
	}
	repos := make([]string, 0, len(byRepo))
	for repo := range byRepo {
		repos = append(repos, repo)
	}
	sort.Strings(repos)

	s.console.Headerf("\nProjects with unreleased changes:")
	for _, repo := range repos {
		s.console.Infof("\n%s:", repo)
		for _, entry := range byRepo[repo] {
			s.console.Plainf("  %s (v%s)", entry.project.Name, entry.version)
			if details {
				for _, line := range entry.entries {
					s.console.Notef("    %s", line)
				}
			}
		}
	}
	s.console.Plainf("")
}

// menu is the interactive action loop under the overview.
func (s *UnreleasedService) menu(unreleased []unreleasedProject, singleRepo bool) error {
	details := false
	for {
		detailsLabel := "Show details"
		if details {
			detailsLabel = "Hide details"
		}
		packageAllLabel := fmt.Sprintf("Package all (%d projects)", len(unreleased))

		action, err := s.prompter.Select("What would you like to do?", []string{
			"Package selected projects",
			packageAllLabel,
			detailsLabel,
			"Exit",
		})
		if err != nil {
			return err
		}

		switch action {
		case "Package selected projects":
			selected, selectErr := s.selectProjects(unreleased, singleRepo)
			if selectErr != nil {
				return selectErr
			}
			if len(selected) == 0 {
				s.console.Infof("Nothing selected.")
				continue
			}
			return s.packageProjects(selected, PackageOptions{})
		case packageAllLabel:
			return s.packageProjects(unreleased, PackageOptions{})
		case detailsLabel:
			details = !details
			s.print(unreleased, details)
		default:
			return nil
		}
	}
}

// selectProjects runs the checkbox picker over the unreleased projects.
func (s *UnreleasedService) selectProjects(unreleased []unreleasedProject, singleRepo bool) ([]unreleasedProject, error) {
	projects := make([]domain.Project, len(unreleased))
	for i, entry := range unreleased {
		projects[i] = entry.project
	}
	labels := projectLabels(projects, singleRepo)

	chosen, err := s.prompter.MultiSelect("Select projects to package:", labels)
	if err != nil {
		return nil, err
	}

	var selected []unreleasedProject
	for _, label := range chosen {
		for i, candidate := range labels {
			if candidate == label {
				selected = append(selected, unreleased[i])
				break
			}
		}
	}
	return selected, nil
}

// byName resolves --package names against the unreleased set, warning about
// and skipping names with nothing unreleased.
func (s *UnreleasedService) byName(unreleased []unreleasedProject, names []string) []unreleasedProject {
	var selected []unreleasedProject
	for _, name := range names {
		found := false
		for _, entry := range unreleased {
			if strings.EqualFold(entry.project.Name, name) {
				selected = append(selected, entry)
				found = true
				break
			}
		}
		if !found {
			s.console.Warnf("Warning: '%s' not found in unreleased projects, skipping", name)
		}
	}
	return selected
}

// packageProjects runs the packaging protocol over each project, continuing
// past individual failures.
func (s *UnreleasedService) packageProjects(selected []unreleasedProject, pkgOpts PackageOptions) error {
	var failed []string
	for _, entry := range selected {
		s.console.Plainf("")
		if err := s.pkg.Package(entry.project.Name, pkgOpts); err != nil {
			s.console.Warnf("Failed to package %s: %v", entry.project.Name, err)
			failed = append(failed, entry.project.Name)
		}
	}
	if len(failed) > 0 {
		return fmt.Errorf("failed to package: %s", strings.Join(failed, ", "))
	}
	s.console.Successf("\nPackaged %d project(s)", len(selected))
	return nil
}
