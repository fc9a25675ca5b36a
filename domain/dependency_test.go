package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/broforce-mods/broforce-tools/domain"
)

func TestParseDependency(t *testing.T) {
	t.Parallel()

	t.Run("should split on the last hyphen only", func(t *testing.T) {
		t.Parallel()

		// when
		dep, ok := domain.ParseDependency("Bro-Maker-Team-BroMaker-2.6.0")

		// then
		assert.True(t, ok)
		assert.Equal(t, "Bro-Maker-Team-BroMaker-", dep.Prefix)
		assert.Equal(t, "2.6.0", dep.Version)
		assert.Equal(t, "Bro-Maker-Team-BroMaker-2.6.0", dep.String())
	})

	t.Run("should report false for strings without a hyphen", func(t *testing.T) {
		t.Parallel()

		// when
		_, ok := domain.ParseDependency("malformed")

		// then
		assert.False(t, ok)
	})
}

func TestValidatePackageName(t *testing.T) {
	t.Parallel()

	t.Run("should accept alphanumeric and underscore names", func(t *testing.T) {
		t.Parallel()

		assert.NoError(t, domain.ValidatePackageName("My_Mod_2"))
	})

	t.Run("should reject spaces and punctuation", func(t *testing.T) {
		t.Parallel()

		assert.Error(t, domain.ValidatePackageName("My Mod"))
		assert.Error(t, domain.ValidatePackageName("mod!"))
		assert.Error(t, domain.ValidatePackageName(""))
	})

	t.Run("should reject names longer than 128 characters", func(t *testing.T) {
		t.Parallel()

		// given
		long := make([]byte, 129)
		for i := range long {
			long[i] = 'a'
		}

		// when / then
		assert.Error(t, domain.ValidatePackageName(string(long)))
	})
}

func TestSanitizePackageName(t *testing.T) {
	t.Parallel()

	t.Run("should convert spaces to underscores and drop the rest", func(t *testing.T) {
		t.Parallel()

		assert.Equal(t, "Cool_Mod", domain.SanitizePackageName("Cool Mod"))
		assert.Equal(t, "CoolMod2", domain.SanitizePackageName("Cool-Mod 2!"))
	})
}

func TestPlanOutdatedDependencies(t *testing.T) {
	t.Parallel()

	latest := []string{"UMM-UMM-1.0.2", "RocketLib-RocketLib-2.4.0", "BroMaker-BroMaker-2.6.0"}

	t.Run("should stage a replacement for an outdated entry", func(t *testing.T) {
		t.Parallel()

		// given
		current := []string{"UMM-UMM-1.0.2", "RocketLib-RocketLib-2.0.0"}

		// when
		resolved, updates := domain.PlanOutdatedDependencies(current, latest)

		// then
		assert.Equal(t, []string{"UMM-UMM-1.0.2", "RocketLib-RocketLib-2.4.0"}, resolved)
		assert.Equal(t, []domain.DependencyUpdate{
			{Old: "RocketLib-RocketLib-2.0.0", New: "RocketLib-RocketLib-2.4.0"},
		}, updates)
	})

	t.Run("should stage nothing the second time around", func(t *testing.T) {
		t.Parallel()

		// given
		current := []string{"UMM-UMM-1.0.2", "RocketLib-RocketLib-2.0.0"}
		resolved, _ := domain.PlanOutdatedDependencies(current, latest)

		// when
		again, updates := domain.PlanOutdatedDependencies(resolved, latest)

		// then
		assert.Equal(t, resolved, again)
		assert.Empty(t, updates)
	})

	t.Run("should carry through entries unknown to the registry", func(t *testing.T) {
		t.Parallel()

		// given
		current := []string{"SomeAuthor-SomeLib-0.1.0", "malformed"}

		// when
		resolved, updates := domain.PlanOutdatedDependencies(current, latest)

		// then
		assert.Equal(t, current, resolved)
		assert.Empty(t, updates)
	})

	t.Run("should never produce duplicate prefixes", func(t *testing.T) {
		t.Parallel()

		// given
		current := []string{"RocketLib-RocketLib-2.0.0", "UMM-UMM-1.0.2"}

		// when
		resolved, _ := domain.PlanOutdatedDependencies(current, latest)

		// then
		prefixes := make(map[string]int)
		for _, dep := range resolved {
			parsed, ok := domain.ParseDependency(dep)
			assert.True(t, ok)
			prefixes[parsed.Prefix]++
		}
		for prefix, count := range prefixes {
			assert.Equal(t, 1, count, "duplicate prefix %s", prefix)
		}
	})
}

func TestPlanMissingDependencies(t *testing.T) {
	t.Parallel()

	t.Run("should return detected entries absent from the manifest", func(t *testing.T) {
		t.Parallel()

		// given
		current := []string{"UMM-UMM-1.0.2"}
		detected := []string{"UMM-UMM-1.0.2", "RocketLib-RocketLib-2.4.0"}

		// when
		missing := domain.PlanMissingDependencies(current, detected)

		// then
		assert.Equal(t, []string{"RocketLib-RocketLib-2.4.0"}, missing)
	})

	t.Run("should return nothing when everything is present", func(t *testing.T) {
		t.Parallel()

		// when
		missing := domain.PlanMissingDependencies(
			[]string{"UMM-UMM-1.0.2", "RocketLib-RocketLib-2.4.0"},
			[]string{"UMM-UMM-1.0.2"},
		)

		// then
		assert.Empty(t, missing)
	})
}
