package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/broforce-mods/broforce-tools/application"
)

//nolint:gochecknoglobals // required by cobra CLI pattern
var changelogCmd = &cobra.Command{
	Use:   "changelog",
	Short: "Manage project changelogs",
}

//nolint:gochecknoglobals // required by cobra CLI pattern
var changelogAddCmd = &cobra.Command{
	Use:   "add [project] <message>",
	Short: "Add an entry to a project's unreleased changelog section",
	Long: `Add a bullet entry under the unreleased version header.

With one argument it is the message and the project is selected
interactively; with two arguments they are the project name and the
message.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runChangelogAdd,
}

//nolint:gochecknoglobals // required by cobra CLI pattern
var changelogShowCmd = &cobra.Command{
	Use:   "show [project]",
	Short: "Show the latest changelog entries for a project",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runChangelogShow,
}

//nolint:gochecknoglobals // required by cobra CLI pattern
var changelogEditCmd = &cobra.Command{
	Use:   "edit [project]",
	Short: "Open a project's changelog in an editor",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runChangelogEdit,
}

//nolint:gochecknoinits // required by cobra CLI pattern
func init() {
	changelogCmd.AddCommand(changelogAddCmd)
	changelogCmd.AddCommand(changelogShowCmd)
	changelogCmd.AddCommand(changelogEditCmd)
	rootCmd.AddCommand(changelogCmd)
}

func changelogOptions() application.ChangelogOptions {
	return application.ChangelogOptions{
		AllRepos:       allRepos,
		NonInteractive: nonInteractive,
	}
}

func runChangelogAdd(_ *cobra.Command, args []string) error {
	svc, err := injectServices()
	if err != nil {
		return err
	}

	if len(args) == 2 {
		return svc.Changelog.Add(args[0], args[1], changelogOptions())
	}
	if nonInteractive {
		return fmt.Errorf("non-interactive mode requires project and message arguments")
	}
	return svc.Changelog.Add("", args[0], changelogOptions())
}

func runChangelogShow(_ *cobra.Command, args []string) error {
	svc, err := injectServices()
	if err != nil {
		return err
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	return svc.Changelog.Show(name, changelogOptions())
}

func runChangelogEdit(_ *cobra.Command, args []string) error {
	svc, err := injectServices()
	if err != nil {
		return err
	}

	name := ""
	if len(args) == 1 {
		name = args[0]
	}
	return svc.Changelog.Edit(name, changelogOptions())
}
