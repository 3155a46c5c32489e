package types

import (
	"github.com/Masterminds/semver/v3"
)

// Provenance is where an installed package came from. The set of
// implementations is closed: SourceControl and Index.
type Provenance interface {
	// Spec renders the provenance the way it appears in the install manifest,
	// parentheses included.
	Spec() string
	// URL is the repository or index base URL.
	URL() string
	isProvenance()
}

// SourceControl is a package installed from a git repository at a pinned commit.
type SourceControl struct {
	Repo   string `json:"url" yaml:"url"`
	Commit string `json:"commit" yaml:"commit"`
}

func (s SourceControl) Spec() string { return "(git+" + s.Repo + "#" + s.Commit + ")" }
func (s SourceControl) URL() string { return s.Repo }
func (SourceControl) isProvenance() {}

// IndexProtocol is the prefix the manifest used for an index provenance.
type IndexProtocol string

const (
	ProtocolRegistry IndexProtocol = "registry"
	ProtocolSparse   IndexProtocol = "sparse"
)

// Index is a package installed from a package index.
type Index struct {
	Protocol IndexProtocol `json:"protocol" yaml:"protocol"`
	Base     string        `json:"url" yaml:"url"`
}

func (i Index) Spec() string { return "(" + string(i.Protocol) + "+" + i.Base + ")" }
func (i Index) URL() string { return i.Base }
func (Index) isProvenance() {}

// PackageRecord is one entry of the install manifest.
type PackageRecord struct {
	Name       string          // Package name
	Installed  *semver.Version // Installed version
	Provenance Provenance      // Where it was installed from
	Latest     *semver.Version // Newest known version, nil when unknown
}

// Key renders the record back into the manifest key grammar.
func (p PackageRecord) Key() string {
	return p.Name + " " + p.Installed.Original() + " " + p.Provenance.Spec()
}

// WithLatest returns a copy of the record carrying the latest version.
func (p PackageRecord) WithLatest(v *semver.Version) PackageRecord {
	p.Latest = v
	return p
}

// IndexEntry is one decoded line of an index file.
type IndexEntry struct {
	Name    string
	Version *semver.Version
	Yanked  bool
}

// Update status values.
const (
	StatusSuccess = "success"
	StatusSkipped = "skipped"
	StatusError   = "error"
)

type UpdateResult struct {
	Name            string `json:"name" yaml:"name"`                                   // Name of the package
	PreviousVersion string `json:"previous_version" yaml:"previous_version"`           // The old version
	NewVersion      string `json:"new_version,omitempty" yaml:"new_version,omitempty"` // The new, installed version
	Status          string `json:"status" yaml:"status"`                               // Update status
	Message         string `json:"message,omitempty" yaml:"message,omitempty"`         // Detailled message (in case of error)
}
