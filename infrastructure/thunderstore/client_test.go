package thunderstore_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/broforce-mods/broforce-tools/infrastructure/thunderstore"
)

func TestClientLatestVersion(t *testing.T) {
	t.Parallel()

	t.Run("should read latest.version_number from the package document", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/api/experimental/package/RocketLib/RocketLib/", r.URL.Path)
			_, _ = w.Write([]byte(`{"name":"RocketLib","latest":{"version_number":"2.4.0"}}`))
		}))
		defer server.Close()
		client := thunderstore.NewClientWithBaseURL(server.URL)

		// when
		version, err := client.LatestVersion("RocketLib", "RocketLib")

		// then
		assert.NoError(t, err)
		assert.Equal(t, "2.4.0", version)
	})

	t.Run("should fail on a non-2xx status", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		}))
		defer server.Close()
		client := thunderstore.NewClientWithBaseURL(server.URL)

		// when
		_, err := client.LatestVersion("Nope", "Nope")

		// then
		assert.Error(t, err)
	})

	t.Run("should fail on a malformed body", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"latest":`))
		}))
		defer server.Close()
		client := thunderstore.NewClientWithBaseURL(server.URL)

		// when
		_, err := client.LatestVersion("UMM", "UMM")

		// then
		assert.Error(t, err)
	})

	t.Run("should fail when the version field is absent", func(t *testing.T) {
		t.Parallel()

		// given
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			_, _ = w.Write([]byte(`{"latest":{}}`))
		}))
		defer server.Close()
		client := thunderstore.NewClientWithBaseURL(server.URL)

		// when
		_, err := client.LatestVersion("UMM", "UMM")

		// then
		assert.Error(t, err)
	})
}
