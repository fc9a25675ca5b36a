package cmd

import (
	"github.com/spf13/cobra"

	"github.com/broforce-mods/broforce-tools/application"
	"github.com/broforce-mods/broforce-tools/infrastructure/workspace"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	packageVersion          string
	allowOutdatedChangelog  bool
	overwritePackage        bool
	packageUpdateDeps       bool
	packageNoUpdateDeps     bool
	packageAddMissingDeps   bool
	packageNoAddMissingDeps bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var packageCmd = &cobra.Command{
	Use:   "package [project]",
	Short: "Build a Thunderstore release archive for a project",
	Long: `Package a project for Thunderstore: validate the release metadata,
reconcile the version across changelog, manifest and loader files,
update dependency pins, archive older zips, and build the final
deflate archive. Without a project argument the project is selected
interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPackage,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	packageCmd.Flags().StringVar(&packageVersion, "version", "", "Override the package version")
	packageCmd.Flags().BoolVar(&allowOutdatedChangelog, "allow-outdated-changelog", false,
		"Package even when the changelog version is behind")
	packageCmd.Flags().BoolVar(&overwritePackage, "overwrite", false,
		"Replace an existing archive of the same version")
	packageCmd.Flags().BoolVar(&packageUpdateDeps, "update-deps", false,
		"Update outdated dependencies without asking")
	packageCmd.Flags().BoolVar(&packageNoUpdateDeps, "no-update-deps", false,
		"Keep existing dependency versions without asking")
	packageCmd.Flags().BoolVar(&packageAddMissingDeps, "add-missing-deps", false,
		"Add detected missing dependencies without asking")
	packageCmd.Flags().BoolVar(&packageNoAddMissingDeps, "no-add-missing-deps", false,
		"Skip detected missing dependencies without asking")
	packageCmd.MarkFlagsMutuallyExclusive("update-deps", "no-update-deps")
	packageCmd.MarkFlagsMutuallyExclusive("add-missing-deps", "no-add-missing-deps")
	rootCmd.AddCommand(packageCmd)
}

func runPackage(cmd *cobra.Command, args []string) error {
	svc, err := injectServices()
	if err != nil {
		return err
	}

	opts := application.PackageOptions{
		VersionOverride:        packageVersion,
		NonInteractive:         nonInteractive,
		AllowOutdatedChangelog: allowOutdatedChangelog,
		Overwrite:              overwritePackage,
		UpdateDeps:             tristate(cmd, "update-deps", "no-update-deps"),
		AddMissingDeps:         tristate(cmd, "add-missing-deps", "no-add-missing-deps"),
	}

	if len(args) == 1 {
		return svc.Package.Package(args[0], opts)
	}

	selected, err := application.ChooseProjects(
		svc.Workspace, svc.Prompter, svc.Console,
		workspace.FilterWithMetadata, allRepos,
		"Package all", "no projects with Thunderstore metadata found; run: broforce-tools init")
	if err != nil {
		return err
	}
	for i, project := range selected {
		if i > 0 {
			svc.Console.Plainf("")
		}
		if packErr := svc.Package.Package(project.Name, opts); packErr != nil {
			return packErr
		}
	}
	return nil
}

// tristate maps a yes/no flag pair to the three-valued decision the
// packaging service takes: nil means "not specified".
func tristate(cmd *cobra.Command, yesFlag, noFlag string) *bool {
	yes := true
	no := false
	if cmd.Flags().Changed(yesFlag) {
		return &yes
	}
	if cmd.Flags().Changed(noFlag) {
		return &no
	}
	return nil
}
