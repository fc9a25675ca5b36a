package cmd

import (
	"fmt"

	logger "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/broforce-mods/broforce-tools/application"
	"github.com/broforce-mods/broforce-tools/config"
	"github.com/broforce-mods/broforce-tools/infrastructure/workspace"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var (
	// Global flags
	nonInteractive bool
	allRepos       bool
	verbose        bool
	clearCache     bool
	addRepo        string
)

// addRepoDetect is the --add-repo value when the flag is given without an
// argument, meaning "detect the current repo".
const addRepoDetect = "\x00detect"

//nolint:gochecknoglobals // required by cobra CLI pattern
var rootCmd = &cobra.Command{
	Use:     "broforce-tools",
	Aliases: []string{"bt"},
	Short:   "Tool for creating Broforce mods and packaging for Thunderstore",
	Long: `A CLI tool for the Broforce modding workflow: scaffolding new mod
and bro projects from templates, setting up Thunderstore metadata,
reconciling versions and dependencies, and packaging release archives.

Run without a subcommand for an interactive menu.`,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		if verbose {
			logger.SetLevel(logger.DebugLevel)
		}
	},
	RunE: runRoot,
}

func Execute() error {
	return rootCmd.Execute()
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	rootCmd.PersistentFlags().BoolVarP(
		&nonInteractive, "non-interactive", "y", false,
		"Fail instead of prompting for input",
	)
	rootCmd.PersistentFlags().BoolVar(
		&allRepos, "all-repos", false,
		"Search all configured repos instead of only the current one",
	)
	rootCmd.PersistentFlags().BoolVarP(
		&verbose, "verbose", "v", false,
		"Enable verbose output",
	)
	rootCmd.Flags().BoolVar(
		&clearCache, "clear-cache", false,
		"Clear the dependency version cache",
	)
	rootCmd.Flags().StringVar(
		&addRepo, "add-repo", "",
		"Add a repo to the config (detects the current repo when empty)",
	)
	rootCmd.Flags().Lookup("add-repo").NoOptDefVal = addRepoDetect
}

func runRoot(cmd *cobra.Command, _ []string) error {
	svc, err := injectServices()
	if err != nil {
		return err
	}

	if clearCache {
		return runClearCache(svc)
	}
	if cmd.Flags().Changed("add-repo") {
		return runAddRepo(svc)
	}
	return runMenu(cmd, svc)
}

func runClearCache(svc services) error {
	removed, err := svc.Registry.ClearCache()
	if err != nil {
		return err
	}
	if removed {
		svc.Console.Successf("Dependency cache cleared: %s", svc.Registry.CachePath())
	} else {
		svc.Console.Notef("Cache file does not exist: %s", svc.Registry.CachePath())
	}
	return nil
}

func runAddRepo(svc services) error {
	repo := addRepo
	if repo == addRepoDetect || repo == "" {
		repo = svc.Workspace.DetectCurrentRepo()
		if repo == "" {
			return fmt.Errorf("could not detect current repo; run from within a repo or specify: --add-repo RepoName")
		}
	}

	if svc.Config.HasRepo(repo) {
		svc.Console.Notef("'%s' is already in configured repos", repo)
	} else {
		svc.Config.Repos = append(svc.Config.Repos, repo)
		if err := config.Save(svc.Config); err != nil {
			return err
		}
		svc.Console.Successf("Added '%s' to configured repos", repo)
	}

	svc.Console.Infof("\nConfigured repos:")
	for _, r := range svc.Config.Repos {
		svc.Console.Plainf("  - %s", r)
	}
	return nil
}

// runMenu is the no-subcommand interactive entry point.
func runMenu(cmd *cobra.Command, svc services) error {
	if nonInteractive {
		return cmd.Help()
	}

	svc.Console.Headerf("Broforce Mod Tools\n")
	choice, err := svc.Prompter.Select("What would you like to do?", []string{
		"Create new mod / bro project",
		"Setup Thunderstore metadata for an existing project",
		"Package for releasing on Thunderstore",
		"View/package unreleased projects",
		"Show help",
	})
	if err != nil {
		return err
	}

	switch choice {
	case "Create new mod / bro project":
		return svc.Create.Create(application.CreateOptions{})
	case "Setup Thunderstore metadata for an existing project":
		return runForSelection(svc, workspace.FilterWithoutMetadata,
			"Initialize all", "no projects needing Thunderstore initialization found",
			func(name string) error {
				return svc.Init.Init(name, application.InitOptions{})
			})
	case "Package for releasing on Thunderstore":
		return runForSelection(svc, workspace.FilterWithMetadata,
			"Package all", "no projects with Thunderstore metadata found; run: broforce-tools init",
			func(name string) error {
				return svc.Package.Package(name, application.PackageOptions{})
			})
	case "View/package unreleased projects":
		return svc.Unrel.Run(application.UnreleasedOptions{})
	default:
		return cmd.Help()
	}
}

// runForSelection picks projects interactively and applies fn to each.
func runForSelection(svc services, filter workspace.Filter, batchLabel, emptyMessage string, fn func(string) error) error {
	selected, err := application.ChooseProjects(
		svc.Workspace, svc.Prompter, svc.Console, filter, false, batchLabel, emptyMessage)
	if err != nil {
		return err
	}
	for i, project := range selected {
		if len(selected) > 1 && i > 0 {
			svc.Console.Plainf("")
		}
		if runErr := fn(project.Name); runErr != nil {
			return runErr
		}
	}
	return nil
}
