package domain

import "errors"

// ErrCancelled signals that the user declined a confirmation or dismissed a
// prompt. It is a clean cancellation, not a failure: the command boundary
// maps it to a zero exit status.
var ErrCancelled = errors.New("cancelled by user")

// ProjectType distinguishes the two closed project variants. The type is
// determined by which marker file exists in the project's metadata folder.
type ProjectType string

const (
	// ProjectTypeMod is a UnityModManager mod, marked by Info.json.
	ProjectTypeMod ProjectType = "mod"
	// ProjectTypeBro is a BroMaker custom bro, marked by a *.mod.json file.
	ProjectTypeBro ProjectType = "bro"
)

// Project is a discovered mod project within a source repository.
type Project struct {
	Name string
	Repo string
	// Path is the project source directory ({reposParent}/{repo}/{name}).
	Path string
	// ReleasesPath is where Thunderstore metadata and archives live.
	ReleasesPath string
}

// Manifest models the Thunderstore manifest.json fields this tool owns.
// Unknown fields in the on-disk document are preserved on rewrite by the
// metadata store; this struct only carries what reconciliation reads and
// writes.
type Manifest struct {
	Name          string   `json:"name"`
	Author        string   `json:"author"`
	VersionNumber string   `json:"version_number"`
	WebsiteURL    string   `json:"website_url"`
	Description   string   `json:"description"`
	Dependencies  []string `json:"dependencies"`
}
