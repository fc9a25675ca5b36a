package application

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/broforce-mods/broforce-tools/config"
	"github.com/broforce-mods/broforce-tools/domain"
	"github.com/broforce-mods/broforce-tools/infrastructure/msbuild"
	"github.com/broforce-mods/broforce-tools/infrastructure/scaffold"
	"github.com/broforce-mods/broforce-tools/infrastructure/thunderstore"
	"github.com/broforce-mods/broforce-tools/infrastructure/workspace"
)

const enterAnotherRepo = "Enter another repository name..."

// CreateOptions carries the project parameters provided via flags; empty
// fields are prompted for.
type CreateOptions struct {
	// Type is "mod" or "bro".
	Type           string
	Name           string
	Author         string
	OutputRepo     string
	NonInteractive bool
	// NoThunderstore skips the metadata setup offer after creation.
	NoThunderstore bool
}

// CreateService scaffolds new mod and bro projects from the template
// repository.
type CreateService struct {
	ws       *workspace.Workspace
	cfg      *config.Config
	deps     domain.DependencySource
	prompter domain.Prompter
	console  *Console
	init     *InitService
}

// NewCreateService creates the scaffolding service.
func NewCreateService(
	ws *workspace.Workspace,
	cfg *config.Config,
	deps domain.DependencySource,
	prompter domain.Prompter,
	console *Console,
	init *InitService,
) *CreateService {
	return &CreateService{ws: ws, cfg: cfg, deps: deps, prompter: prompter, console: console, init: init}
}

// Create scaffolds a new project.
func (s *CreateService) Create(opts CreateOptions) error {
	templatesDir, err := s.cfg.TemplatesDirPath()
	if err != nil {
		return err
	}

	var missing []string

	outputRepo, err := s.resolveOutputRepo(opts, &missing)
	if err != nil {
		return err
	}

	projectType, err := s.resolveType(opts, &missing)
	if err != nil {
		return err
	}

	name, err := s.resolveText(opts.Name, fmt.Sprintf("Enter %s name:", projectType), "--name", opts.NonInteractive, &missing)
	if err != nil {
		return err
	}
	author, err := s.resolveText(opts.Author, "Enter author name (e.g., YourName):", "--author", opts.NonInteractive, &missing)
	if err != nil {
		return err
	}

	if len(missing) > 0 {
		return fmt.Errorf("non-interactive mode is missing required flags: %s", strings.Join(missing, ", "))
	}

	templateName := "Mod Template"
	placeholder := "ModTemplate"
	if projectType == domain.ProjectTypeBro {
		templateName = "Bro Template"
		placeholder = "BroTemplate"
	}

	templatePath := filepath.Join(templatesDir, templateName)
	if _, statErr := os.Stat(templatePath); statErr != nil {
		return fmt.Errorf("template directory not found: %s", templatePath)
	}

	repoPath := filepath.Join(s.ws.ReposParent(), outputRepo)
	if _, statErr := os.Stat(repoPath); statErr != nil {
		return fmt.Errorf("output repository does not exist: %s", repoPath)
	}

	s.syncBuildTargets(templatesDir, repoPath)

	releaseDir := filepath.Join(repoPath, "Releases", name)
	projectDir := filepath.Join(repoPath, name)
	if _, statErr := os.Stat(releaseDir); statErr == nil {
		return fmt.Errorf("release directory already exists: %s", releaseDir)
	}
	if _, statErr := os.Stat(projectDir); statErr == nil {
		return fmt.Errorf("project directory already exists: %s", projectDir)
	}

	if mkdirErr := os.MkdirAll(releaseDir, 0o755); mkdirErr != nil {
		return fmt.Errorf("failed to create release directory: %w", mkdirErr)
	}
	if copyErr := scaffold.CopyTree(templatePath, projectDir); copyErr != nil {
		_ = os.RemoveAll(releaseDir)
		_ = os.RemoveAll(projectDir)
		return fmt.Errorf("failed to copy template files: %w", copyErr)
	}

	if instantiateErr := s.instantiate(projectDir, projectType, templateName, placeholder, name, author, outputRepo); instantiateErr != nil {
		return instantiateErr
	}

	changelogPath := filepath.Join(releaseDir, "Changelog.md")
	if writeErr := os.WriteFile(changelogPath, []byte(defaultChangelog), 0o644); writeErr != nil {
		return fmt.Errorf("failed to write changelog: %w", writeErr)
	}

	s.console.Successf("\nSuccess! Created new %s '%s'", projectType, name)
	s.console.Infof("Output repository: %s", outputRepo)
	s.console.Infof("Source files: %s", projectDir)
	s.console.Infof("Releases folder: %s", releaseDir)

	return s.offerThunderstoreSetup(name, projectType, opts)
}

// instantiate rewrites the copied template into the new project: renames
// placeholder files/directories and substitutes the placeholder tokens.
func (s *CreateService) instantiate(
	projectDir string,
	projectType domain.ProjectType,
	templateName, placeholder, name, author, outputRepo string,
) error {
	nameUnderscore := strings.ReplaceAll(name, " ", "_")
	nameNoSpaces := strings.ReplaceAll(name, " ", "")

	if err := scaffold.RenameAll(projectDir, templateName, name); err != nil {
		return err
	}
	if err := scaffold.RenameAll(projectDir, placeholder, nameNoSpaces); err != nil {
		return err
	}

	patterns := []string{"*.csproj", "*.cs", "*.sln", "*.json", "*.xml"}
	if projectType == domain.ProjectTypeBro {
		patterns = []string{"*.csproj", "*.cs", "*.sln", "*.json"}
	}

	for _, pattern := range patterns {
		replacements := []struct{ find, replace string }{
			{templateName, name},
			{strings.ReplaceAll(templateName, " ", "_"), nameUnderscore},
			{placeholder, nameNoSpaces},
			{"AUTHOR_NAME", author},
			{"REPO_NAME", outputRepo},
		}
		for _, r := range replacements {
			if err := scaffold.ReplaceInFiles(projectDir, r.find, r.replace, pattern); err != nil {
				return err
			}
		}
	}

	if projectType == domain.ProjectTypeBro {
		if err := scaffold.ReplaceInFiles(projectDir, "BroTemplate.cs", nameNoSpaces+".cs", "*.csproj"); err != nil {
			return err
		}
		bromakerVersion := s.deps.Versions()[thunderstore.DepBroMaker]
		if err := scaffold.ReplaceInFiles(projectDir, "BROMAKER_VERSION", bromakerVersion, "*.json"); err != nil {
			return err
		}
	}
	return nil
}

func (s *CreateService) resolveOutputRepo(opts CreateOptions, missing *[]string) (string, error) {
	if opts.OutputRepo != "" {
		s.console.Notef("Using output repository: %s", opts.OutputRepo)
		return opts.OutputRepo, nil
	}

	current := s.ws.DetectCurrentRepo()
	if opts.NonInteractive {
		if current == "" {
			*missing = append(*missing, "--output-repo")
			return "", nil
		}
		s.console.Notef("Using output repository: %s", current)
		return current, nil
	}

	var choices []string
	if current != "" {
		choices = append(choices, current+" (current directory)")
	}
	for _, repo := range s.cfg.Repos {
		if repo != current {
			choices = append(choices, repo)
		}
	}
	choices = append(choices, enterAnotherRepo)

	selection, err := s.prompter.Select("Select output repository:", choices)
	if err != nil {
		return "", err
	}

	var repo string
	switch {
	case selection == enterAnotherRepo:
		repo, err = s.prompter.Input("Enter repository name:", "", nil)
		if err != nil {
			return "", err
		}
		if repo == "" {
			return "", fmt.Errorf("repository name cannot be empty")
		}
	case strings.HasSuffix(selection, " (current directory)"):
		repo = current
	default:
		repo = selection
	}

	s.console.Notef("Using output repository: %s", repo)
	return repo, nil
}

func (s *CreateService) resolveType(opts CreateOptions, missing *[]string) (domain.ProjectType, error) {
	switch opts.Type {
	case string(domain.ProjectTypeMod):
		return domain.ProjectTypeMod, nil
	case string(domain.ProjectTypeBro):
		return domain.ProjectTypeBro, nil
	case "":
	default:
		return "", fmt.Errorf("invalid project type %q (expected mod or bro)", opts.Type)
	}

	if opts.NonInteractive {
		*missing = append(*missing, "--type")
		return domain.ProjectTypeMod, nil
	}

	choice, err := s.prompter.Select("What would you like to create?", []string{"Mod", "Bro"})
	if err != nil {
		return "", err
	}
	if choice == "Bro" {
		return domain.ProjectTypeBro, nil
	}
	return domain.ProjectTypeMod, nil
}

func (s *CreateService) resolveText(value, title, flag string, nonInteractive bool, missing *[]string) (string, error) {
	if value != "" {
		return value, nil
	}
	if nonInteractive {
		*missing = append(*missing, flag)
		return "", nil
	}

	answer, err := s.prompter.Input(title, "", nil)
	if err != nil {
		return "", err
	}
	if answer == "" {
		return "", fmt.Errorf("value for %s cannot be empty", flag)
	}
	return answer, nil
}

// syncBuildTargets keeps the shared MSBuild targets file in the output repo
// current with the template repository's copy. Best-effort.
func (s *CreateService) syncBuildTargets(templatesDir, repoPath string) {
	source := filepath.Join(templatesDir, "Scripts", "BroforceModBuild.targets")
	sourceData, err := os.ReadFile(source)
	if err != nil {
		s.console.Warnf("Warning: BroforceModBuild.targets not found in template repository")
		return
	}

	scriptsDir := filepath.Join(repoPath, "Scripts")
	if mkdirErr := os.MkdirAll(scriptsDir, 0o755); mkdirErr != nil {
		s.console.Warnf("Warning: could not create Scripts directory: %v", mkdirErr)
		return
	}

	dest := filepath.Join(scriptsDir, "BroforceModBuild.targets")
	destData, err := os.ReadFile(dest)
	if err == nil && bytes.Equal(sourceData, destData) {
		s.console.Notef("BroforceModBuild.targets already up-to-date")
		return
	}

	if writeErr := os.WriteFile(dest, sourceData, 0o644); writeErr != nil {
		s.console.Warnf("Warning: could not update BroforceModBuild.targets: %v", writeErr)
		return
	}
	if err != nil {
		s.console.Successf("Copied BroforceModBuild.targets to output repository")
	} else {
		s.console.Successf("Updated BroforceModBuild.targets in output repository")
	}
}

// offerThunderstoreSetup chains into metadata initialization unless skipped.
func (s *CreateService) offerThunderstoreSetup(name string, projectType domain.ProjectType, opts CreateOptions) error {
	if opts.NoThunderstore {
		s.printNextSteps(projectType)
		return nil
	}
	if opts.NonInteractive {
		s.console.Infof("\nNote: Run 'broforce-tools init' to set up Thunderstore metadata.")
		return nil
	}

	setup, err := s.prompter.Confirm("Set up Thunderstore metadata now?", true)
	if err != nil {
		return err
	}
	if !setup {
		s.printNextSteps(projectType)
		return nil
	}
	s.console.Plainf("")
	return s.init.Init(name, InitOptions{})
}

func (s *CreateService) printNextSteps(projectType domain.ProjectType) {
	s.console.Infof("\nNext steps:")
	s.console.Plainf("  1. Open the project in Visual Studio")
	s.console.Plainf("  2. Build the project (builds to game automatically)")
	s.console.Plainf("  3. Launch Broforce to test your %s", projectType)
	s.console.Plainf("  4. Run 'broforce-tools init' when ready to publish")
	if path := s.broforceInstallPath(); path != "" {
		s.console.Notef("\nBroforce install: %s", path)
	}
}

// broforceInstallPath reads the BroforcePath property from
// LocalBroforcePath.props (searched upward from the repos parent) or a
// BroforceGlobal.props beside the repos. Best-effort; "" when neither
// resolves.
func (s *CreateService) broforceInstallPath() string {
	parent, err := s.cfg.ReposParentDir()
	if err != nil {
		return ""
	}

	if props, ok := msbuild.FindPropsFile(parent, "LocalBroforcePath.props"); ok {
		if path, parseErr := msbuild.PropertyValue(props, "BroforcePath"); parseErr == nil {
			return path
		}
	}

	global := filepath.Join(parent, "BroforceGlobal.props")
	if _, statErr := os.Stat(global); statErr == nil {
		if path, parseErr := msbuild.PropertyValue(global, "BroforcePath"); parseErr == nil {
			return path
		}
	}
	return ""
}
