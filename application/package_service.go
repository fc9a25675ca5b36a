// Package application orchestrates the command flows: packaging, metadata
// initialization, project creation and changelog upkeep. Services hold the
// decision logic; prompts and filesystem access go through the injected
// collaborators so every flow is testable end to end.
package application

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	logger "github.com/sirupsen/logrus"

	"github.com/broforce-mods/broforce-tools/config"
	"github.com/broforce-mods/broforce-tools/domain"
	"github.com/broforce-mods/broforce-tools/infrastructure/metadata"
	"github.com/broforce-mods/broforce-tools/infrastructure/msbuild"
	"github.com/broforce-mods/broforce-tools/infrastructure/pack"
	"github.com/broforce-mods/broforce-tools/infrastructure/thunderstore"
	"github.com/broforce-mods/broforce-tools/infrastructure/workspace"
)

// PackageOptions controls one packaging run.
type PackageOptions struct {
	// VersionOverride skips version reconciliation entirely.
	VersionOverride string
	// NonInteractive turns every prompt into a flag-driven decision and
	// fails where no flag covers the situation.
	NonInteractive bool
	// AllowOutdatedChangelog packages even when the changelog version is
	// behind the other sources (non-interactive only).
	AllowOutdatedChangelog bool
	// Overwrite replaces an existing archive of the same version
	// (non-interactive only).
	Overwrite bool
	// UpdateDeps overrides the outdated-dependency decision. nil means
	// "ask" (interactive) or "yes" (non-interactive).
	UpdateDeps *bool
	// AddMissingDeps overrides the missing-dependency decision, same
	// defaulting as UpdateDeps.
	AddMissingDeps *bool
}

// PackageService builds Thunderstore release archives, reconciling the
// version and dependency records across every file that carries them.
type PackageService struct {
	ws       *workspace.Workspace
	cfg      *config.Config
	deps     domain.DependencySource
	prompter domain.Prompter
	console  *Console
}

// NewPackageService creates the packaging service.
func NewPackageService(
	ws *workspace.Workspace,
	cfg *config.Config,
	deps domain.DependencySource,
	prompter domain.Prompter,
	console *Console,
) *PackageService {
	return &PackageService{ws: ws, cfg: cfg, deps: deps, prompter: prompter, console: console}
}

// Package runs the full packaging protocol for one project.
func (s *PackageService) Package(projectName string, opts PackageOptions) error {
	s.console.Headerf("Packaging '%s' for Thunderstore", projectName)

	project, found := s.ws.LocateProject(projectName)
	if !found || project.ReleasesPath == "" {
		return fmt.Errorf("could not find project %q", projectName)
	}
	s.console.Successf("Found project in: %s", project.Repo)

	manifestPath := filepath.Join(project.ReleasesPath, metadata.ManifestFileName)
	readmePath := filepath.Join(project.ReleasesPath, "README.md")
	iconPath := filepath.Join(project.ReleasesPath, "icon.png")

	if _, err := os.Stat(manifestPath); err != nil {
		return fmt.Errorf("manifest.json not found; run: broforce-tools init %q", projectName)
	}
	if _, err := os.Stat(readmePath); err != nil {
		return fmt.Errorf("README.md not found in %q", project.ReleasesPath)
	}
	if _, err := os.Stat(iconPath); err != nil {
		return fmt.Errorf("icon.png not found in %q", project.ReleasesPath)
	}
	changelogPath, ok := metadata.FindChangelog(project.ReleasesPath)
	if !ok {
		return fmt.Errorf("Changelog.md or CHANGELOG.md not found in %q", project.ReleasesPath)
	}
	changelogName := filepath.Base(changelogPath)

	projectType, ok := metadata.DetectProjectType(project.Path)
	if !ok {
		return fmt.Errorf("could not detect project type for %q", projectName)
	}
	s.console.Notef("Project type: %s", projectType)

	modContent, ok := metadata.ModContentPath(project.Path)
	if !ok {
		return fmt.Errorf("could not find %s folder for %q", metadata.ModContentDirName, projectName)
	}
	if _, ok = metadata.FindArtifact(modContent); !ok {
		return fmt.Errorf("no DLL found in %s; build the project first", metadata.ModContentDirName)
	}

	s.warnOnPlaceholderIcon(iconPath)

	version, err := s.resolveVersion(opts, changelogPath, changelogName, manifestPath, modContent, projectType)
	if err != nil {
		return err
	}

	manifest, err := metadata.LoadManifest(manifestPath)
	if err != nil {
		return err
	}

	namespace, err := s.resolveNamespace(manifest, opts)
	if err != nil {
		return err
	}
	packageName := manifest.Name()
	if packageName == "" {
		packageName = domain.SanitizePackageName(projectName)
	}

	if reconcileErr := s.reconcileDependencies(manifest, project.Path, opts); reconcileErr != nil {
		return reconcileErr
	}

	oldVersion := manifest.VersionNumber()
	manifest.SetVersionNumber(version)
	if saveErr := manifest.Save(); saveErr != nil {
		return saveErr
	}
	if oldVersion != version {
		s.console.Successf("Updated manifest.json version to %s", version)
	} else {
		s.console.Notef("manifest.json already at version %s", version)
	}

	if syncErr := s.syncVersionFiles(modContent, projectType, version, opts); syncErr != nil {
		return syncErr
	}

	zipName := fmt.Sprintf("%s-%s-%s.zip", namespace, packageName, version)
	zipPath := filepath.Join(project.ReleasesPath, zipName)
	if rotateErr := s.rotateArchives(zipPath, zipName, changelogName, opts); rotateErr != nil {
		return rotateErr
	}

	if stripErr := s.stripUnreleasedMarker(changelogPath, changelogName); stripErr != nil {
		return stripErr
	}

	s.console.Infof("Creating package: %s", zipName)
	size, err := pack.Build(pack.Layout{
		ManifestPath:   manifestPath,
		ReadmePath:     readmePath,
		IconPath:       iconPath,
		ChangelogPath:  changelogPath,
		ModContentPath: modContent,
		ProjectName:    projectName,
		ProjectType:    projectType,
	}, zipPath)
	if err != nil {
		return err
	}

	s.console.Successf("\n✓ Package created!")
	s.console.Infof("Version: %s", version)
	s.console.Infof("File: %s", zipPath)
	s.console.Infof("Size: %.1f KB", float64(size)/1024)
	return nil
}

// resolveVersion picks the packaging version: the override when given,
// otherwise the highest version across changelog, manifest and loader file,
// warning (or failing) when the changelog lags behind.
func (s *PackageService) resolveVersion(
	opts PackageOptions,
	changelogPath, changelogName, manifestPath, modContent string,
	projectType domain.ProjectType,
) (string, error) {
	if opts.VersionOverride != "" {
		s.console.Infof("Using version override: %s", opts.VersionOverride)
		return opts.VersionOverride, nil
	}

	var changelogVersion string
	if data, err := os.ReadFile(changelogPath); err == nil {
		changelogVersion = domain.ParseChangelog(string(data)).Version
	}

	var manifestVersion string
	if manifest, err := metadata.LoadManifest(manifestPath); err == nil {
		manifestVersion = manifest.VersionNumber()
	}

	var infoVersion string
	if versionFile, ok := metadata.FindVersionFile(modContent, projectType); ok {
		infoVersion = metadata.ReadVersion(versionFile)
	}

	best, found := domain.HighestVersion([]domain.VersionCandidate{
		{Source: changelogName, Version: changelogVersion},
		{Source: "manifest.json", Version: manifestVersion},
		{Source: "Info.json/.mod.json", Version: infoVersion},
	})
	if !found {
		return "", fmt.Errorf("could not find a version in %s, manifest.json, or Info.json/.mod.json", changelogName)
	}
	s.console.Infof("Package version: %s", best.Version)

	if changelogVersion != "" && domain.CompareVersions(changelogVersion, best.Version) < 0 {
		s.console.Warnf("\nWarning: %s is out of date!", changelogName)
		s.console.Infof("Changelog version: %s", changelogVersion)
		s.console.Infof("Highest version found: %s (from %s)", best.Version, best.Source)

		if opts.NonInteractive {
			if !opts.AllowOutdatedChangelog {
				return "", fmt.Errorf("changelog is outdated; use --allow-outdated-changelog to package anyway")
			}
		} else {
			proceed, err := s.prompter.Confirm(
				fmt.Sprintf("Continue packaging with version %s?", best.Version), false)
			if err != nil {
				return "", err
			}
			if !proceed {
				s.console.Infof("Update %s to version %s before packaging.", changelogName, best.Version)
				return "", domain.ErrCancelled
			}
		}
	}
	return best.Version, nil
}

// resolveNamespace returns the manifest author, prompting to set one when it
// is missing. Declining keeps "Unknown", matching the package filename that
// will be produced.
func (s *PackageService) resolveNamespace(manifest *metadata.ManifestFile, opts PackageOptions) (string, error) {
	namespace := manifest.Author()
	if namespace != "" && namespace != "Unknown" {
		return namespace, nil
	}

	s.console.Warnf("\nWarning: No author/namespace set in manifest.json")
	if opts.NonInteractive {
		return "", fmt.Errorf("no author set in manifest.json; edit manifest.json to add one")
	}

	setAuthor, err := s.prompter.Confirm("Set author name now?", true)
	if err != nil {
		return "", err
	}
	if !setAuthor {
		s.console.Warnf("Continuing with 'Unknown' as author")
		return "Unknown", nil
	}

	namespace, err = s.prompter.Input("Enter namespace/author:", "", domain.ValidatePackageName)
	if err != nil {
		return "", err
	}
	manifest.SetAuthor(namespace)
	s.console.Successf("Author set to: %s", namespace)
	return namespace, nil
}

// reconcileDependencies stages version bumps for outdated manifest entries
// and adds dependencies referenced by the project but absent from the
// manifest.
func (s *PackageService) reconcileDependencies(
	manifest *metadata.ManifestFile,
	projectPath string,
	opts PackageOptions,
) error {
	current := manifest.Dependencies()
	latest := s.dependencyStrings()

	planned, updates := domain.PlanOutdatedDependencies(current, latest)
	resolved := current
	if len(updates) > 0 {
		s.console.Warnf("\nOutdated dependencies detected:")
		for _, update := range updates {
			s.console.Plainf("  %s → %s", update.Old, update.New)
		}

		shouldUpdate, err := s.decide("Update dependencies to latest versions?", opts.UpdateDeps, opts.NonInteractive)
		if err != nil {
			return err
		}
		if shouldUpdate {
			resolved = planned
			manifest.SetDependencies(resolved)
			s.console.Successf("Dependencies updated")
		} else {
			s.console.Infof("Keeping existing dependency versions")
		}
	}

	// The missing pass keys off the latest-resolved plan even when the
	// version update was declined, so a kept old version is never paired
	// with a second entry for the same package.
	detected := s.detectDependencies(projectPath)
	missing := domain.PlanMissingDependencies(planned, detected)
	if len(missing) == 0 {
		return nil
	}

	s.console.Warnf("\nWarning: Dependencies detected in .csproj but not in manifest.json:")
	for _, dep := range missing {
		s.console.Plainf("  + %s", dep)
	}

	shouldAdd, err := s.decide("Add missing dependencies to manifest?", opts.AddMissingDeps, opts.NonInteractive)
	if err != nil {
		return err
	}
	if shouldAdd {
		manifest.SetDependencies(append(resolved, missing...))
		s.console.Successf("Missing dependencies added")
	} else {
		s.console.Infof("Continuing without adding missing dependencies")
	}
	return nil
}

// decide resolves a yes/no reconciliation decision: the explicit flag wins,
// non-interactive defaults to yes, otherwise the user is asked.
func (s *PackageService) decide(question string, flag *bool, nonInteractive bool) (bool, error) {
	if flag != nil {
		return *flag, nil
	}
	if nonInteractive {
		return true, nil
	}
	return s.prompter.Confirm(question, true)
}

// detectDependencies derives the dependency list a project needs: UMM
// always, RocketLib and BroMaker when the .csproj references their
// assemblies.
func (s *PackageService) detectDependencies(projectPath string) []string {
	deps := s.deps.DependencyStrings()
	detected := []string{deps[thunderstore.DepUMM]}

	csprojPath, ok := msbuild.FindProjectFile(projectPath)
	if !ok {
		return detected
	}
	refs, err := msbuild.References(csprojPath)
	if err != nil {
		s.console.Warnf("Warning: could not parse %s: %v", filepath.Base(csprojPath), err)
		return detected
	}

	if msbuild.HasReference(refs, "RocketLib") {
		detected = append(detected, deps[thunderstore.DepRocketLib])
	}
	if msbuild.HasReference(refs, "BroMakerLib") {
		detected = append(detected, deps[thunderstore.DepBroMaker])
	}
	return detected
}

func (s *PackageService) dependencyStrings() []string {
	deps := s.deps.DependencyStrings()
	list := make([]string, 0, len(deps))
	for _, name := range []string{thunderstore.DepUMM, thunderstore.DepRocketLib, thunderstore.DepBroMaker} {
		if dep, ok := deps[name]; ok {
			list = append(list, dep)
		}
	}
	return list
}

// syncVersionFiles pushes the packaging version into the loader version
// file, and for bros also reconciles the recorded BroMakerVersion.
func (s *PackageService) syncVersionFiles(
	modContent string,
	projectType domain.ProjectType,
	version string,
	opts PackageOptions,
) error {
	versionFile, ok := metadata.FindVersionFile(modContent, projectType)
	if !ok {
		name := "Info.json"
		if projectType == domain.ProjectTypeBro {
			name = ".mod.json"
		}
		s.console.Warnf("Warning: could not find %s to sync version", name)
		return nil
	}

	changed, err := metadata.SyncVersion(versionFile, version)
	if err != nil {
		s.console.Warnf("Warning: Could not sync version file: %v", err)
		return nil
	}
	if changed {
		s.console.Successf("Updated %s version to %s", filepath.Base(versionFile), version)
	} else {
		s.console.Notef("%s already at version %s", filepath.Base(versionFile), version)
	}

	if projectType != domain.ProjectTypeBro {
		return nil
	}
	return s.syncBroMakerVersion(versionFile, opts)
}

// syncBroMakerVersion reconciles the BroMakerVersion a bro's mod.json
// records against the latest known BroMaker release. Best-effort: an
// unreadable field never fails the packaging run.
func (s *PackageService) syncBroMakerVersion(versionFile string, opts PackageOptions) error {
	current := metadata.ReadBroMakerVersion(versionFile)
	if current == "" {
		return nil
	}

	latest := s.deps.Versions()[thunderstore.DepBroMaker]
	if latest == "" || current == latest {
		return nil
	}

	s.console.Warnf("\nOutdated BroMakerVersion in %s:", filepath.Base(versionFile))
	s.console.Plainf("  %s → %s", current, latest)

	shouldUpdate := true
	if !opts.NonInteractive {
		var err error
		shouldUpdate, err = s.prompter.Confirm("Update BroMakerVersion to latest?", true)
		if err != nil {
			return err
		}
	}
	if !shouldUpdate {
		return nil
	}

	if err := metadata.SyncBroMakerVersion(versionFile, latest); err != nil {
		logger.Warnf("Could not update BroMakerVersion: %v", err)
		return nil
	}
	s.console.Successf("Updated BroMakerVersion to %s", latest)
	return nil
}

// rotateArchives prepares the releases directory for the new archive:
// same-version rebuilds need an overwrite decision, new versions push the
// previous archives into "Previous Versions".
func (s *PackageService) rotateArchives(zipPath, zipName, changelogName string, opts PackageOptions) error {
	if _, err := os.Stat(zipPath); err != nil {
		releasesPath := filepath.Dir(zipPath)
		archived, archiveErr := pack.ArchivePrevious(releasesPath)
		if archiveErr != nil {
			return archiveErr
		}
		for _, name := range archived {
			s.console.Notef("Archived: %s", name)
		}
		return nil
	}

	s.console.Warnf("\nPackage %s already exists", zipName)

	shouldOverwrite := true
	if opts.NonInteractive {
		if !opts.Overwrite {
			return fmt.Errorf("package already exists; use --overwrite to replace it")
		}
	} else {
		var err error
		shouldOverwrite, err = s.prompter.Confirm("Overwrite existing package?", true)
		if err != nil {
			return err
		}
	}
	if !shouldOverwrite {
		s.console.Infof("To create a new package, update the version in %s", changelogName)
		return domain.ErrCancelled
	}

	if err := os.Remove(zipPath); err != nil {
		return fmt.Errorf("failed to remove existing package: %w", err)
	}
	s.console.Notef("Removed existing package")
	return nil
}

// stripUnreleasedMarker drops the "(unreleased)" tag from the changelog on
// disk, so the published CHANGELOG.md and the source agree the version
// shipped.
func (s *PackageService) stripUnreleasedMarker(changelogPath, changelogName string) error {
	data, err := os.ReadFile(changelogPath)
	if err != nil {
		return fmt.Errorf("failed to read changelog %q: %w", changelogPath, err)
	}

	cleaned := domain.StripUnreleased(string(data))
	if cleaned == string(data) {
		return nil
	}
	if writeErr := os.WriteFile(changelogPath, []byte(cleaned), 0o644); writeErr != nil {
		return fmt.Errorf("failed to write changelog %q: %w", changelogPath, writeErr)
	}
	s.console.Successf("Removed (unreleased) tag from %s", changelogName)
	return nil
}

// warnOnPlaceholderIcon flags a releases icon that is still byte-identical
// to the template placeholder.
func (s *PackageService) warnOnPlaceholderIcon(iconPath string) {
	templatesDir, err := s.cfg.TemplatesDirPath()
	if err != nil {
		return
	}

	templateIcon := filepath.Join(templatesDir, "ThunderstorePackage", "icon.png")
	template, err := os.ReadFile(templateIcon)
	if err != nil {
		return
	}
	icon, err := os.ReadFile(iconPath)
	if err != nil {
		return
	}
	if bytes.Equal(icon, template) {
		s.console.Warnf("Warning: Using placeholder icon")
	}
}
