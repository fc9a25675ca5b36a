package application

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/broforce-mods/broforce-tools/config"
	"github.com/broforce-mods/broforce-tools/domain"
	"github.com/broforce-mods/broforce-tools/infrastructure/metadata"
	"github.com/broforce-mods/broforce-tools/infrastructure/workspace"
)

const maxDescriptionLength = 250

// defaultChangelog seeds a project's first changelog.
const defaultChangelog = "## v1.0.0 (unreleased)\n- Initial release\n"

// InitOptions carries the metadata values provided via flags; empty fields
// are prompted for (interactive) or resolved from config defaults.
type InitOptions struct {
	Namespace      string
	Description    string
	WebsiteURL     string
	PackageName    string
	NonInteractive bool
}

// InitService sets up the Thunderstore metadata of an existing project:
// manifest.json, README.md, icon.png and a seed changelog.
type InitService struct {
	ws       *workspace.Workspace
	cfg      *config.Config
	deps     domain.DependencySource
	prompter domain.Prompter
	console  *Console
	pkg      *PackageService
}

// NewInitService creates the initialization service. The package service is
// only borrowed for its dependency detection.
func NewInitService(
	ws *workspace.Workspace,
	cfg *config.Config,
	deps domain.DependencySource,
	prompter domain.Prompter,
	console *Console,
	pkg *PackageService,
) *InitService {
	return &InitService{ws: ws, cfg: cfg, deps: deps, prompter: prompter, console: console, pkg: pkg}
}

// Init initializes Thunderstore metadata for one project.
func (s *InitService) Init(projectName string, opts InitOptions) error {
	s.console.Headerf("Initializing Thunderstore metadata for '%s'", projectName)

	project, found := s.ws.LocateProject(projectName)
	if !found {
		return fmt.Errorf("could not find project %q under %s", projectName, s.ws.ReposParent())
	}
	releasesPath, err := s.ws.EnsureReleasesPath(project.Repo, projectName)
	if err != nil {
		return err
	}
	s.console.Notef("Found project in: %s", project.Repo)

	projectType, ok := metadata.DetectProjectType(project.Path)
	if !ok {
		return fmt.Errorf("could not detect project type (no %s folder or missing Info.json/*.mod.json)", metadata.ModContentDirName)
	}
	s.console.Notef("Detected project type: %s", projectType)

	var missing []string

	namespace, err := s.resolveNamespace(opts, &missing)
	if err != nil {
		return err
	}
	packageName, err := s.resolvePackageName(projectName, opts)
	if err != nil {
		return err
	}
	description, err := s.resolveDescription(opts, &missing)
	if err != nil {
		return err
	}
	websiteURL, err := s.resolveWebsiteURL(opts)
	if err != nil {
		return err
	}

	if len(missing) > 0 {
		return fmt.Errorf("non-interactive mode is missing required flags: %s", strings.Join(missing, ", "))
	}

	if _, ok := metadata.FindChangelog(releasesPath); !ok {
		s.console.Warnf("Changelog not found, creating default")
		changelogPath := filepath.Join(releasesPath, "Changelog.md")
		if writeErr := os.WriteFile(changelogPath, []byte(defaultChangelog), 0o644); writeErr != nil {
			return fmt.Errorf("failed to create changelog: %w", writeErr)
		}
	}

	detected := s.pkg.detectDependencies(project.Path)
	if len(detected) > 1 {
		s.console.Notef("Detected dependencies:")
		for _, dep := range detected[1:] {
			s.console.Plainf("  - %s", dep)
		}
	}

	manifestPath := filepath.Join(releasesPath, metadata.ManifestFileName)
	if writeErr := metadata.WriteManifest(manifestPath, domain.Manifest{
		Name:          packageName,
		Author:        namespace,
		VersionNumber: "1.0.0",
		WebsiteURL:    websiteURL,
		Description:   description,
		Dependencies:  detected,
	}); writeErr != nil {
		return writeErr
	}
	s.console.Successf("Created manifest.json")

	s.writeReadme(releasesPath, projectName, description, websiteURL)
	s.copyIcon(releasesPath)

	s.console.Successf("\n✓ Thunderstore metadata initialized!")
	s.console.Infof("Location: %s", releasesPath)
	s.console.Infof("\nNext steps:")
	s.console.Plainf("  1. Edit %s", filepath.Join(releasesPath, "README.md"))
	s.console.Plainf("  2. Replace icon.png with a custom 256x256 icon")
	s.console.Plainf("  3. Review manifest.json dependencies")
	s.console.Plainf("  4. Run: broforce-tools package %q", projectName)
	return nil
}

func (s *InitService) resolveNamespace(opts InitOptions, missing *[]string) (string, error) {
	if opts.Namespace != "" {
		return opts.Namespace, nil
	}
	defaultNamespace := s.cfg.Defaults.Namespace

	if opts.NonInteractive {
		if defaultNamespace == "" {
			*missing = append(*missing, "--namespace")
		}
		return defaultNamespace, nil
	}

	title := "Namespace/Author (e.g., AlexNeargarder):"
	if defaultNamespace != "" {
		title = fmt.Sprintf("Namespace/Author [%s]:", defaultNamespace)
	}
	namespace, err := s.prompter.Input(title, defaultNamespace, optionalPackageName)
	if err != nil {
		return "", err
	}
	if namespace == "" {
		if defaultNamespace == "" {
			return "", domain.ErrCancelled
		}
		namespace = defaultNamespace
	}
	return namespace, nil
}

func (s *InitService) resolvePackageName(projectName string, opts InitOptions) (string, error) {
	if opts.PackageName != "" {
		return opts.PackageName, nil
	}

	suggested := domain.SanitizePackageName(projectName)
	if opts.NonInteractive {
		return suggested, nil
	}

	name, err := s.prompter.Input(fmt.Sprintf("Package name [%s]:", suggested), suggested, optionalPackageName)
	if err != nil {
		return "", err
	}
	if name == "" {
		name = suggested
	}
	return name, nil
}

func (s *InitService) resolveDescription(opts InitOptions, missing *[]string) (string, error) {
	description := opts.Description
	if description == "" {
		if opts.NonInteractive {
			*missing = append(*missing, "--description")
			return "", nil
		}
		var err error
		description, err = s.prompter.Input("Description (max 250 chars):", "", nil)
		if err != nil {
			return "", err
		}
	}

	if len(description) > maxDescriptionLength {
		s.console.Warnf("Warning: Description truncated to %d characters", maxDescriptionLength)
		description = description[:maxDescriptionLength]
	}
	return description, nil
}

func (s *InitService) resolveWebsiteURL(opts InitOptions) (string, error) {
	if opts.WebsiteURL != "" {
		return opts.WebsiteURL, nil
	}
	defaultWebsite := s.cfg.Defaults.WebsiteURL

	if opts.NonInteractive {
		return defaultWebsite, nil
	}

	title := "Website/GitHub URL:"
	if defaultWebsite != "" {
		title = fmt.Sprintf("Website/GitHub URL [%s]:", defaultWebsite)
	}
	url, err := s.prompter.Input(title, defaultWebsite, nil)
	if err != nil {
		return "", err
	}
	if url == "" {
		url = defaultWebsite
	}
	return url, nil
}

// writeReadme instantiates the README template, skipping when the project
// already has one. Template problems degrade to warnings.
func (s *InitService) writeReadme(releasesPath, projectName, description, websiteURL string) {
	dest := filepath.Join(releasesPath, "README.md")
	if _, err := os.Stat(dest); err == nil {
		s.console.Notef("README.md already exists, skipping")
		return
	}

	templatesDir, err := s.cfg.TemplatesDirPath()
	if err != nil {
		s.console.Warnf("Warning: %v", err)
		return
	}
	templatePath := filepath.Join(templatesDir, "ThunderstorePackage", "README.md")
	data, err := os.ReadFile(templatePath)
	if err != nil {
		s.console.Warnf("Warning: README template not found at %s", templatePath)
		return
	}

	content := string(data)
	content = strings.ReplaceAll(content, "PROJECT_NAME", projectName)
	content = strings.ReplaceAll(content, "DESCRIPTION_PLACEHOLDER", description)
	content = strings.ReplaceAll(content, "FEATURES_PLACEHOLDER", "*Describe your mod's features here*")
	content = strings.ReplaceAll(content, "WEBSITE_URL", websiteURL)

	if writeErr := os.WriteFile(dest, []byte(content), 0o644); writeErr != nil {
		s.console.Warnf("Warning: failed to write README.md: %v", writeErr)
		return
	}
	s.console.Successf("Created README.md")
}

// copyIcon places the placeholder icon, skipping when one already exists.
func (s *InitService) copyIcon(releasesPath string) {
	dest := filepath.Join(releasesPath, "icon.png")
	if _, err := os.Stat(dest); err == nil {
		s.console.Notef("icon.png already exists, skipping")
		return
	}

	templatesDir, err := s.cfg.TemplatesDirPath()
	if err != nil {
		s.console.Warnf("Warning: %v", err)
		return
	}
	templatePath := filepath.Join(templatesDir, "ThunderstorePackage", "icon.png")
	data, err := os.ReadFile(templatePath)
	if err != nil {
		s.console.Warnf("Warning: icon template not found at %s", templatePath)
		return
	}
	if writeErr := os.WriteFile(dest, data, 0o644); writeErr != nil {
		s.console.Warnf("Warning: failed to write icon.png: %v", writeErr)
		return
	}
	s.console.Successf("Created icon.png")
	s.console.Warnf("Replace icon.png with a custom 256x256 image!")
}

// optionalPackageName validates a package name but accepts the empty string,
// which means "use the default".
func optionalPackageName(name string) error {
	if name == "" {
		return nil
	}
	return domain.ValidatePackageName(name)
}
