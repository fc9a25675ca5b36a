// Package workspace discovers source repositories and mod projects under
// the configured repos parent directory.
package workspace

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/broforce-mods/broforce-tools/config"
	"github.com/broforce-mods/broforce-tools/domain"
)

// skipDirs are repo children that are never projects.
var skipDirs = map[string]bool{
	"bin":      true,
	"obj":      true,
	"packages": true,
	"Releases": true,
	"Release":  true,
	"libs":     true,
	".vs":      true,
	".git":     true,
}

// Filter selects projects by whether they already carry Thunderstore
// metadata (a manifest.json under the releases-path convention).
type Filter int

const (
	// FilterAny returns every project.
	FilterAny Filter = iota
	// FilterWithMetadata returns only projects ready for packaging.
	FilterWithMetadata
	// FilterWithoutMetadata returns only projects needing initialization.
	FilterWithoutMetadata
)

// Workspace resolves projects and release directories against the repos
// parent directory.
type Workspace struct {
	reposParent string
	cfg         *config.Config
}

// New creates a workspace, resolving the repos parent from env/config.
func New(cfg *config.Config) (*Workspace, error) {
	parent, err := cfg.ReposParentDir()
	if err != nil {
		return nil, err
	}
	return &Workspace{reposParent: parent, cfg: cfg}, nil
}

// ReposParent returns the resolved parent directory.
func (w *Workspace) ReposParent() string {
	return w.reposParent
}

// DetectCurrentRepo returns the repo directory the current working
// directory is inside, matched case-insensitively against the actual
// directories under the repos parent, or "" when outside all of them.
func (w *Workspace) DetectCurrentRepo() string {
	cwd, err := os.Getwd()
	if err != nil {
		return ""
	}
	return w.repoContaining(cwd)
}

func (w *Workspace) repoContaining(dir string) string {
	rel, err := filepath.Rel(w.reposParent, dir)
	if err != nil || rel == "." || strings.HasPrefix(rel, "..") {
		return ""
	}

	first := strings.Split(filepath.ToSlash(rel), "/")[0]
	entries, err := os.ReadDir(w.reposParent)
	if err != nil {
		return ""
	}
	for _, entry := range entries {
		if entry.IsDir() && strings.EqualFold(entry.Name(), first) {
			return entry.Name()
		}
	}
	return ""
}

// ReposToSearch decides which repos a command should look in: the current
// repo when run from inside one (single-repo mode), otherwise the
// configured list. allRepos forces the configured list. The second result
// reports single-repo mode.
func (w *Workspace) ReposToSearch(allRepos bool) ([]string, bool) {
	if !allRepos {
		if current := w.DetectCurrentRepo(); current != "" {
			return []string{current}, true
		}
	}
	if len(w.cfg.Repos) == 0 {
		return nil, false
	}
	return w.cfg.Repos, false
}

// FindProjects lists the projects in the given repos, sorted by name.
// A project is a repo child directory containing a .csproj within two
// levels, excluding dot/underscore-prefixed names, build directories, and
// the per-repo ignore list.
func (w *Workspace) FindProjects(repos []string, filter Filter) []domain.Project {
	var projects []domain.Project

	for _, repo := range repos {
		repoPath := filepath.Join(w.reposParent, repo)
		entries, err := os.ReadDir(repoPath)
		if err != nil {
			continue
		}

		ignored := make(map[string]bool)
		for _, name := range w.cfg.IgnoredProjects(repo) {
			ignored[name] = true
		}

		for _, entry := range entries {
			name := entry.Name()
			if !entry.IsDir() || strings.HasPrefix(name, ".") || strings.HasPrefix(name, "_") || skipDirs[name] {
				continue
			}
			if ignored[name] {
				continue
			}

			projectPath := filepath.Join(repoPath, name)
			if !hasProjectFile(projectPath) {
				continue
			}

			releasesPath, hasMetadata := w.metadataLocation(repo, name)
			if filter == FilterWithMetadata && !hasMetadata {
				continue
			}
			if filter == FilterWithoutMetadata && hasMetadata {
				continue
			}

			projects = append(projects, domain.Project{
				Name:         name,
				Repo:         repo,
				Path:         projectPath,
				ReleasesPath: releasesPath,
			})
		}
	}

	sort.Slice(projects, func(i, j int) bool { return projects[i].Name < projects[j].Name })
	return projects
}

// LocateProject searches every directory under the repos parent (not just
// the configured repos) for a project by name. A repo where the project's
// releases path also resolves wins over a bare source-directory hit.
func (w *Workspace) LocateProject(name string) (domain.Project, bool) {
	entries, err := os.ReadDir(w.reposParent)
	if err != nil {
		return domain.Project{}, false
	}

	var bare *domain.Project
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		repo := entry.Name()
		projectPath := filepath.Join(w.reposParent, repo, name)
		info, statErr := os.Stat(projectPath)
		if statErr != nil || !info.IsDir() {
			continue
		}

		project := domain.Project{Name: name, Repo: repo, Path: projectPath}
		if releasesPath, ok := w.ReleasesPath(repo, name); ok {
			project.ReleasesPath = releasesPath
			return project, true
		}
		if bare == nil {
			bare = &project
		}
	}

	if bare != nil {
		return *bare, true
	}
	return domain.Project{}, false
}

// ReleasesPath resolves the release directory for a project under one of
// the two layout conventions: {repo}/Release for a single-project repo,
// {repo}/Releases/{project} otherwise. It reports false when neither
// exists.
func (w *Workspace) ReleasesPath(repo, project string) (string, bool) {
	repoPath := filepath.Join(w.reposParent, repo)

	single := filepath.Join(repoPath, "Release")
	if info, err := os.Stat(single); err == nil && info.IsDir() {
		return single, true
	}

	multi := filepath.Join(repoPath, "Releases", project)
	if info, err := os.Stat(multi); err == nil && info.IsDir() {
		return multi, true
	}
	return "", false
}

// EnsureReleasesPath resolves the release directory, creating the
// multi-project layout when neither convention exists yet.
func (w *Workspace) EnsureReleasesPath(repo, project string) (string, error) {
	if path, ok := w.ReleasesPath(repo, project); ok {
		return path, nil
	}

	path := filepath.Join(w.reposParent, repo, "Releases", project)
	if err := os.MkdirAll(path, 0o755); err != nil {
		return "", fmt.Errorf("failed to create releases directory %q: %w", path, err)
	}
	return path, nil
}

// metadataLocation reports the releases path and whether it already holds a
// manifest.json.
func (w *Workspace) metadataLocation(repo, project string) (string, bool) {
	path, ok := w.ReleasesPath(repo, project)
	if !ok {
		return "", false
	}
	_, err := os.Stat(filepath.Join(path, "manifest.json"))
	return path, err == nil
}

// hasProjectFile reports whether dir contains a .csproj directly or one
// level down.
func hasProjectFile(dir string) bool {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return false
	}
	for _, entry := range entries {
		if !entry.IsDir() && strings.HasSuffix(entry.Name(), ".csproj") {
			return true
		}
		if entry.IsDir() {
			sub, subErr := os.ReadDir(filepath.Join(dir, entry.Name()))
			if subErr != nil {
				continue
			}
			for _, s := range sub {
				if !s.IsDir() && strings.HasSuffix(s.Name(), ".csproj") {
					return true
				}
			}
		}
	}
	return false
}
