package application

import (
	"fmt"

	"github.com/broforce-mods/broforce-tools/domain"
	"github.com/broforce-mods/broforce-tools/infrastructure/workspace"
)

// projectLabels renders projects for a selection prompt: bare names when a
// single repo is in play, "name (repo)" otherwise.
func projectLabels(projects []domain.Project, singleRepo bool) []string {
	labels := make([]string, len(projects))
	for i, project := range projects {
		if singleRepo {
			labels[i] = project.Name
		} else {
			labels[i] = fmt.Sprintf("%s (%s)", project.Name, project.Repo)
		}
	}
	return labels
}

// projectByLabel resolves a selection label back to its project.
func projectByLabel(projects []domain.Project, singleRepo bool, label string) (domain.Project, bool) {
	for i, candidate := range projectLabels(projects, singleRepo) {
		if candidate == label {
			return projects[i], true
		}
	}
	return domain.Project{}, false
}

// ChooseProjects finds the projects visible from the current directory (or
// all configured repos) and has the user pick one, or all of them via the
// batch option. A single candidate is used without prompting.
func ChooseProjects(
	ws *workspace.Workspace,
	prompter domain.Prompter,
	console *Console,
	filter workspace.Filter,
	allRepos bool,
	batchLabel, emptyMessage string,
) ([]domain.Project, error) {
	repos, singleRepo := ws.ReposToSearch(allRepos)
	if len(repos) == 0 {
		return nil, fmt.Errorf("no repos configured; run from inside a repo or use --add-repo")
	}

	projects := ws.FindProjects(repos, filter)
	if len(projects) == 0 {
		return nil, fmt.Errorf("%s", emptyMessage)
	}
	if len(projects) == 1 {
		console.Notef("Using project: %s", projects[0].Name)
		return projects, nil
	}

	batchChoice := fmt.Sprintf("%s (%d projects)", batchLabel, len(projects))
	choices := append([]string{batchChoice}, projectLabels(projects, singleRepo)...)

	title := "Select project:"
	if singleRepo {
		title = fmt.Sprintf("Select project from %s:", repos[0])
	}
	selection, err := prompter.Select(title, choices)
	if err != nil {
		return nil, err
	}
	if selection == batchChoice {
		return projects, nil
	}

	project, ok := projectByLabel(projects, singleRepo, selection)
	if !ok {
		return nil, fmt.Errorf("unknown project selection %q", selection)
	}
	return []domain.Project{project}, nil
}
