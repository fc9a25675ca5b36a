package thunderstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	logger "github.com/sirupsen/logrus"

	"github.com/broforce-mods/broforce-tools/domain"
)

// cacheDuration is the freshness window for the on-disk version cache.
const cacheDuration = 24 * time.Hour

// trackedPackage identifies one upstream dependency on Thunderstore together
// with its last-known-good version, used whenever the lookup fails.
type trackedPackage struct {
	Namespace string
	Package   string
	Fallback  string
}

// trackedPackages is the small, fixed set of upstream dependencies every
// mod project can depend on.
var trackedPackages = map[string]trackedPackage{
	"UMM":       {Namespace: "UMM", Package: "UMM", Fallback: "1.0.2"},
	"RocketLib": {Namespace: "RocketLib", Package: "RocketLib", Fallback: "2.4.0"},
	"BroMaker":  {Namespace: "BroMaker", Package: "BroMaker", Fallback: "2.6.0"},
}

// DepUMM, DepRocketLib and DepBroMaker name the tracked dependencies.
const (
	DepUMM       = "UMM"
	DepRocketLib = "RocketLib"
	DepBroMaker  = "BroMaker"
)

// Registry resolves the tracked dependencies to their latest known versions,
// backed by the remote API, a 24-hour file cache, and static fallbacks.
// It is populated lazily on first use, once per process; it never fetches
// as a side effect of construction.
type Registry struct {
	client    *Client
	cachePath string
	versions  map[string]string
}

var _ domain.DependencySource = (*Registry)(nil)

// NewRegistry creates a registry caching into the given file.
func NewRegistry(client *Client, cachePath string) *Registry {
	return &Registry{client: client, cachePath: cachePath}
}

// cacheFile is the on-disk cache document.
type cacheFile struct {
	// Timestamp is unix seconds, fractional part allowed.
	Timestamp float64           `json:"timestamp"`
	Versions  map[string]string `json:"versions"`
}

// Versions returns the latest known version per tracked dependency.
// Resolution order: in-memory (per process), fresh cache file, remote
// lookup with per-dependency fallback. Cache corruption of any kind is a
// miss, never an error.
func (r *Registry) Versions() map[string]string {
	if r.versions != nil {
		return r.versions
	}

	if cached := r.readCache(); cached != nil {
		r.versions = cached
		return r.versions
	}

	versions := make(map[string]string, len(trackedPackages))
	for name, pkg := range trackedPackages {
		version, err := r.client.LatestVersion(pkg.Namespace, pkg.Package)
		if err != nil {
			logger.Debugf("Lookup failed for %s, using fallback %s: %v", name, pkg.Fallback, err)
			version = pkg.Fallback
		}
		versions[name] = version
	}

	r.writeCache(versions)
	r.versions = versions
	return r.versions
}

// Version returns the latest known version of one tracked dependency, or
// the empty string for an unknown name.
func (r *Registry) Version(name string) string {
	return r.Versions()[name]
}

// DependencyStrings returns the full "Namespace-Package-Version" string per
// tracked dependency.
func (r *Registry) DependencyStrings() map[string]string {
	versions := r.Versions()
	deps := make(map[string]string, len(trackedPackages))
	for name, pkg := range trackedPackages {
		deps[name] = fmt.Sprintf("%s-%s-%s", pkg.Namespace, pkg.Package, versions[name])
	}
	return deps
}

// ClearCache removes the cache file. It reports whether a file was removed.
func (r *Registry) ClearCache() (bool, error) {
	if _, err := os.Stat(r.cachePath); err != nil {
		return false, nil
	}
	if err := os.Remove(r.cachePath); err != nil {
		return false, fmt.Errorf("failed to remove cache file %q: %w", r.cachePath, err)
	}
	r.versions = nil
	return true, nil
}

// CachePath returns the cache file location.
func (r *Registry) CachePath() string {
	return r.cachePath
}

func (r *Registry) readCache() map[string]string {
	data, err := os.ReadFile(r.cachePath)
	if err != nil {
		return nil
	}

	var doc cacheFile
	if unmarshalErr := json.Unmarshal(data, &doc); unmarshalErr != nil {
		return nil
	}

	age := time.Since(time.Unix(int64(doc.Timestamp), 0))
	if age >= cacheDuration || len(doc.Versions) == 0 {
		return nil
	}
	return doc.Versions
}

// writeCache is best-effort: a cache that cannot be written only costs the
// next run a refetch.
func (r *Registry) writeCache(versions map[string]string) {
	if err := os.MkdirAll(filepath.Dir(r.cachePath), 0o755); err != nil {
		logger.Debugf("Failed to create cache directory: %v", err)
		return
	}

	doc := cacheFile{
		Timestamp: float64(time.Now().Unix()),
		Versions:  versions,
	}
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return
	}
	if writeErr := os.WriteFile(r.cachePath, data, 0o644); writeErr != nil {
		logger.Debugf("Failed to write cache file: %v", writeErr)
	}
}
