package cmd

import (
	"github.com/spf13/cobra"

	"github.com/broforce-mods/broforce-tools/application"
	"github.com/broforce-mods/broforce-tools/infrastructure/workspace"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	initNamespace   string
	initDescription string
	initWebsite     string
	initPackageName string
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var initCmd = &cobra.Command{
	Use:     "init-thunderstore [project]",
	Aliases: []string{"init"},
	Short:   "Set up Thunderstore metadata for an existing project",
	Long: `Create the release metadata for an existing project: manifest.json
with the detected dependencies, a README and icon from the templates,
and a seed changelog. Without a project argument the project is
selected interactively.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runInit,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	initCmd.Flags().StringVarP(&initNamespace, "namespace", "n", "", "Thunderstore namespace/author")
	initCmd.Flags().StringVarP(&initDescription, "description", "d", "", "Package description (max 250 chars)")
	initCmd.Flags().StringVarP(&initWebsite, "website", "w", "", "Website/GitHub URL")
	initCmd.Flags().StringVarP(&initPackageName, "package-name", "p", "", "Thunderstore package name")
	rootCmd.AddCommand(initCmd)
}

func runInit(_ *cobra.Command, args []string) error {
	svc, err := injectServices()
	if err != nil {
		return err
	}

	opts := application.InitOptions{
		Namespace:      initNamespace,
		Description:    initDescription,
		WebsiteURL:     initWebsite,
		PackageName:    initPackageName,
		NonInteractive: nonInteractive,
	}

	if len(args) == 1 {
		return svc.Init.Init(args[0], opts)
	}

	selected, err := application.ChooseProjects(
		svc.Workspace, svc.Prompter, svc.Console,
		workspace.FilterWithoutMetadata, allRepos,
		"Initialize all", "no projects needing Thunderstore initialization found")
	if err != nil {
		return err
	}
	for i, project := range selected {
		if i > 0 {
			svc.Console.Plainf("")
		}
		if initErr := svc.Init.Init(project.Name, opts); initErr != nil {
			return initErr
		}
	}
	return nil
}
