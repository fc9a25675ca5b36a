package cmd

import (
	"github.com/spf13/cobra"

	"github.com/broforce-mods/broforce-tools/application"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	unreleasedPackageAll bool
	unreleasedPackage    []string
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var unreleasedCmd = &cobra.Command{
	Use:   "unreleased",
	Short: "List projects with unreleased changes and optionally package them",
	RunE:  runUnreleased,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	unreleasedCmd.Flags().BoolVar(&unreleasedPackageAll, "package-all", false,
		"Package all unreleased projects")
	unreleasedCmd.Flags().StringSliceVar(&unreleasedPackage, "package", nil,
		"Package the named projects (repeatable)")
	rootCmd.AddCommand(unreleasedCmd)
}

func runUnreleased(_ *cobra.Command, _ []string) error {
	svc, err := injectServices()
	if err != nil {
		return err
	}

	return svc.Unrel.Run(application.UnreleasedOptions{
		AllRepos:       allRepos,
		PackageAll:     unreleasedPackageAll,
		Package:        unreleasedPackage,
		NonInteractive: nonInteractive,
	})
}
