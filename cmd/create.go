package cmd

import (
	"github.com/spf13/cobra"

	"github.com/broforce-mods/broforce-tools/application"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	createType     string
	createName     string
	createAuthor   string
	createRepo     string
	noThunderstore bool
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a new mod or bro project from the templates",
	Long: `Scaffold a new project from the "Mod Template" or "Bro Template"
directory: copy the template into the output repository, substitute the
project name, author and repository placeholders, pin the BroMaker
version for bros, and seed the release changelog.`,
	RunE: runCreate,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	createCmd.Flags().StringVarP(&createType, "type", "t", "", "Project type: mod or bro")
	createCmd.Flags().StringVarP(&createName, "name", "n", "", "Project name")
	createCmd.Flags().StringVarP(&createAuthor, "author", "a", "", "Author name")
	createCmd.Flags().StringVarP(&createRepo, "output-repo", "o", "", "Target repository")
	createCmd.Flags().BoolVar(&noThunderstore, "no-thunderstore", false, "Skip Thunderstore metadata setup")
	rootCmd.AddCommand(createCmd)
}

func runCreate(_ *cobra.Command, _ []string) error {
	svc, err := injectServices()
	if err != nil {
		return err
	}

	return svc.Create.Create(application.CreateOptions{
		Type:           createType,
		Name:           createName,
		Author:         createAuthor,
		OutputRepo:     createRepo,
		NonInteractive: nonInteractive,
		NoThunderstore: noThunderstore,
	})
}
