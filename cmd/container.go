package cmd

import (
	"go.uber.org/dig"

	"github.com/broforce-mods/broforce-tools/application"
	"github.com/broforce-mods/broforce-tools/config"
	"github.com/broforce-mods/broforce-tools/domain"
	"github.com/broforce-mods/broforce-tools/infrastructure/thunderstore"
	"github.com/broforce-mods/broforce-tools/infrastructure/tui"
	"github.com/broforce-mods/broforce-tools/infrastructure/workspace"
)

// services bundles everything a command needs, resolved once per invocation.
type services struct {
	dig.In

	Config    *config.Config
	Workspace *workspace.Workspace
	Registry  *thunderstore.Registry
	Prompter  domain.Prompter
	Console   *application.Console
	Package   *application.PackageService
	Init      *application.InitService
	Create    *application.CreateService
	Unrel     *application.UnreleasedService
	Changelog *application.ChangelogService
}

func registerProviders(container *dig.Container) error {
	providers := []any{
		config.Load,
		workspace.New,
		thunderstore.NewClient,
		func(client *thunderstore.Client) *thunderstore.Registry {
			return thunderstore.NewRegistry(client, config.CacheFilePath())
		},
		func(registry *thunderstore.Registry) domain.DependencySource { return registry },
		tui.NewHuhPrompter,
		func(prompter *tui.HuhPrompter) domain.Prompter { return prompter },
		application.NewConsole,
		application.NewPackageService,
		application.NewInitService,
		application.NewCreateService,
		application.NewUnreleasedService,
		application.NewChangelogService,
	}
	for _, provider := range providers {
		if err := container.Provide(provider); err != nil {
			return err
		}
	}
	return nil
}

// injectServices builds the container and resolves the service bundle.
func injectServices() (services, error) {
	container := dig.New()
	if err := registerProviders(container); err != nil {
		return services{}, err
	}

	var resolved services
	if err := container.Invoke(func(s services) {
		resolved = s
	}); err != nil {
		return services{}, err
	}
	return resolved, nil
}
