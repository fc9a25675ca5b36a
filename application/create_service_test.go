package application_test

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/broforce-mods/broforce-tools/application"
	"github.com/broforce-mods/broforce-tools/config"
	testdoubles "github.com/broforce-mods/broforce-tools/test"
)

// addTemplates lays out the scaffolding templates next to the
// ThunderstorePackage assets.
func addTemplates(t *testing.T, cfg *config.Config) {
	t.Helper()
	writeFixtureFile(t, filepath.Join(cfg.TemplatesDir, "Mod Template", "ModTemplate.csproj"), `<Project>
  <AssemblyName>ModTemplate</AssemblyName>
  <Author>AUTHOR_NAME</Author>
  <Repo>REPO_NAME</Repo>
</Project>`)
	writeFixtureFile(t, filepath.Join(cfg.TemplatesDir, "Mod Template", "ModTemplate", "Main.cs"),
		"namespace ModTemplate { // Mod Template }")
	writeFixtureFile(t, filepath.Join(cfg.TemplatesDir, "Mod Template", "Mod Template.sln"),
		"Project(\"Mod Template\")")

	writeFixtureFile(t, filepath.Join(cfg.TemplatesDir, "Bro Template", "BroTemplate.csproj"), `<Project>
  <Compile Include="BroTemplate.cs" />
  <Author>AUTHOR_NAME</Author>
</Project>`)
	writeFixtureFile(t, filepath.Join(cfg.TemplatesDir, "Bro Template", "BroTemplate.cs"),
		"class BroTemplate {}")
	writeFixtureFile(t, filepath.Join(cfg.TemplatesDir, "Bro Template", "BroTemplate.mod.json"),
		`{"Name": "Bro Template", "BroMakerVersion": "BROMAKER_VERSION"}`)

	writeFixtureFile(t, filepath.Join(cfg.TemplatesDir, "Scripts", "BroforceModBuild.targets"),
		"<Project><!-- shared build --></Project>")
}

func newCreateService(cfg *config.Config, prompter *testdoubles.ScriptedPrompter, out *bytes.Buffer, t *testing.T) *application.CreateService {
	t.Helper()
	ws := newWorkspace(t, cfg)
	deps := &testdoubles.StubDependencySource{}
	console := application.NewConsoleWithWriter(out)
	pkg := application.NewPackageService(ws, cfg, deps, prompter, console)
	initSvc := application.NewInitService(ws, cfg, deps, prompter, console, pkg)
	return application.NewCreateService(ws, cfg, deps, prompter, console, initSvc)
}

func TestCreateService_Create(t *testing.T) {
	t.Parallel()

	t.Run("should scaffold a mod with every placeholder substituted", func(t *testing.T) {
		t.Parallel()

		// given
		cfg := newFixtureConfig(t)
		addTemplates(t, cfg)
		require.NoError(t, os.MkdirAll(filepath.Join(cfg.ReposParent, "BroforceMods"), 0o755))
		service := newCreateService(cfg, &testdoubles.ScriptedPrompter{}, &bytes.Buffer{}, t)

		// when
		err := service.Create(application.CreateOptions{
			Type:           "mod",
			Name:           "My Mod",
			Author:         "Alex",
			OutputRepo:     "BroforceMods",
			NonInteractive: true,
		})

		// then
		require.NoError(t, err)
		projectDir := filepath.Join(cfg.ReposParent, "BroforceMods", "My Mod")

		csproj, readErr := os.ReadFile(filepath.Join(projectDir, "MyMod.csproj"))
		require.NoError(t, readErr)
		assert.Contains(t, string(csproj), "<AssemblyName>MyMod</AssemblyName>")
		assert.Contains(t, string(csproj), "<Author>Alex</Author>")
		assert.Contains(t, string(csproj), "<Repo>BroforceMods</Repo>")

		source, readErr := os.ReadFile(filepath.Join(projectDir, "MyMod", "Main.cs"))
		require.NoError(t, readErr)
		assert.Contains(t, string(source), "namespace MyMod")
		assert.Contains(t, string(source), "My Mod")

		assert.FileExists(t, filepath.Join(projectDir, "My Mod.sln"))
		assert.FileExists(t, filepath.Join(cfg.ReposParent, "BroforceMods", "Scripts", "BroforceModBuild.targets"))

		changelog, readErr := os.ReadFile(filepath.Join(
			cfg.ReposParent, "BroforceMods", "Releases", "My Mod", "Changelog.md"))
		require.NoError(t, readErr)
		assert.Contains(t, string(changelog), "## v1.0.0 (unreleased)")
	})

	t.Run("should pin the BroMaker version when scaffolding a bro", func(t *testing.T) {
		t.Parallel()

		// given
		cfg := newFixtureConfig(t)
		addTemplates(t, cfg)
		require.NoError(t, os.MkdirAll(filepath.Join(cfg.ReposParent, "BroforceMods"), 0o755))
		service := newCreateService(cfg, &testdoubles.ScriptedPrompter{}, &bytes.Buffer{}, t)

		// when
		err := service.Create(application.CreateOptions{
			Type:           "bro",
			Name:           "Rambro Jr",
			Author:         "Alex",
			OutputRepo:     "BroforceMods",
			NonInteractive: true,
		})

		// then
		require.NoError(t, err)
		projectDir := filepath.Join(cfg.ReposParent, "BroforceMods", "Rambro Jr")

		modJSON, readErr := os.ReadFile(filepath.Join(projectDir, "RambroJr.mod.json"))
		require.NoError(t, readErr)
		assert.Contains(t, string(modJSON), `"BroMakerVersion": "2.6.0"`)

		csproj, readErr := os.ReadFile(filepath.Join(projectDir, "RambroJr.csproj"))
		require.NoError(t, readErr)
		assert.Contains(t, string(csproj), `Include="RambroJr.cs"`)
	})

	t.Run("should refuse to overwrite an existing project", func(t *testing.T) {
		t.Parallel()

		// given
		cfg := newFixtureConfig(t)
		addTemplates(t, cfg)
		require.NoError(t, os.MkdirAll(filepath.Join(cfg.ReposParent, "BroforceMods", "My Mod"), 0o755))
		service := newCreateService(cfg, &testdoubles.ScriptedPrompter{}, &bytes.Buffer{}, t)

		// when
		err := service.Create(application.CreateOptions{
			Type:           "mod",
			Name:           "My Mod",
			Author:         "Alex",
			OutputRepo:     "BroforceMods",
			NonInteractive: true,
		})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already exists")
	})

	t.Run("should collect every missing flag before failing", func(t *testing.T) {
		t.Parallel()

		// given
		cfg := newFixtureConfig(t)
		addTemplates(t, cfg)
		service := newCreateService(cfg, &testdoubles.ScriptedPrompter{}, &bytes.Buffer{}, t)

		// when
		err := service.Create(application.CreateOptions{NonInteractive: true})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "--output-repo")
		assert.Contains(t, err.Error(), "--type")
		assert.Contains(t, err.Error(), "--name")
		assert.Contains(t, err.Error(), "--author")
	})

	t.Run("should prompt for every parameter in interactive mode", func(t *testing.T) {
		t.Parallel()

		// given
		cfg := newFixtureConfig(t)
		cfg.Repos = []string{"BroforceMods"}
		addTemplates(t, cfg)
		require.NoError(t, os.MkdirAll(filepath.Join(cfg.ReposParent, "BroforceMods"), 0o755))
		prompter := &testdoubles.ScriptedPrompter{
			SelectAnswers:  []string{"BroforceMods", "Mod"},
			InputAnswers:   []string{"My Mod", "Alex"},
			ConfirmAnswers: []bool{false},
		}
		out := &bytes.Buffer{}
		service := newCreateService(cfg, prompter, out, t)

		// when
		err := service.Create(application.CreateOptions{})

		// then
		require.NoError(t, err)
		assert.DirExists(t, filepath.Join(cfg.ReposParent, "BroforceMods", "My Mod"))
		assert.Contains(t, out.String(), "Next steps")
	})

	t.Run("should report the game path recorded in the props files", func(t *testing.T) {
		t.Parallel()

		// given
		cfg := newFixtureConfig(t)
		cfg.Repos = []string{"BroforceMods"}
		addTemplates(t, cfg)
		require.NoError(t, os.MkdirAll(filepath.Join(cfg.ReposParent, "BroforceMods"), 0o755))
		writeFixtureFile(t, filepath.Join(cfg.ReposParent, "LocalBroforcePath.props"), `<Project>
  <PropertyGroup>
    <BroforcePath>C:\Games\Broforce</BroforcePath>
  </PropertyGroup>
</Project>`)
		out := &bytes.Buffer{}
		service := newCreateService(cfg, &testdoubles.ScriptedPrompter{}, out, t)

		// when
		err := service.Create(application.CreateOptions{
			Type:           "mod",
			Name:           "My Mod",
			Author:         "Alex",
			OutputRepo:     "BroforceMods",
			NoThunderstore: true,
		})

		// then
		require.NoError(t, err)
		assert.Contains(t, out.String(), `Broforce install: C:\Games\Broforce`)
	})

	t.Run("should fail when the output repository does not exist", func(t *testing.T) {
		t.Parallel()

		// given
		cfg := newFixtureConfig(t)
		addTemplates(t, cfg)
		service := newCreateService(cfg, &testdoubles.ScriptedPrompter{}, &bytes.Buffer{}, t)

		// when
		err := service.Create(application.CreateOptions{
			Type:           "mod",
			Name:           "My Mod",
			Author:         "Alex",
			OutputRepo:     "NoSuchRepo",
			NonInteractive: true,
		})

		// then
		require.Error(t, err)
		assert.Contains(t, err.Error(), "does not exist")
	})
}
