// Package manifest reads cargo's record of binaries installed with
// `cargo install` (.crates.toml) into package records.
//
// Every key of the v1 table has the form "<name> <version> (<provenance>)".
// Keys that do not follow the grammar are skipped; only a manifest that cannot
// be read or lacks the v1 table is an error.
package manifest

import (
	"maps"
	"slices"
	"strings"

	"github.com/Masterminds/semver/v3"
	"github.com/pelletier/go-toml/v2"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"

	"github.com/alexandre1a/cargo-freshen/internal/models/consts"
	"github.com/alexandre1a/cargo-freshen/internal/models/types"
)

var (
	// ErrManifestUnreadable means the manifest as a whole could not be used.
	ErrManifestUnreadable = errors.New("manifest unreadable")
	// ErrEntryMalformed means a single manifest key does not follow the grammar.
	ErrEntryMalformed = errors.New("malformed manifest entry")
)

const (
	gitPrefix = "git+"
	commitSep = "#"
)

// Load reads and parses the manifest at path.
func Load(fs afero.Fs, path string) ([]types.PackageRecord, error) {
	data, err := afero.ReadFile(fs, path)
	if err != nil {
		return nil, errors.Wrapf(ErrManifestUnreadable, "reading %s: %v", path, err)
	}
	records, err := Parse(data)
	if err != nil {
		return nil, errors.Wrap(err, path)
	}
	return records, nil
}

// Parse decodes manifest text into records, sorted by manifest key.
func Parse(data []byte) ([]types.PackageRecord, error) {
	var root map[string]any
	if err := toml.Unmarshal(data, &root); err != nil {
		return nil, errors.Wrapf(ErrManifestUnreadable, "decoding toml: %v", err)
	}

	raw, ok := root[consts.ManifestTable]
	if !ok {
		return nil, errors.Wrapf(ErrManifestUnreadable, "no value %q", consts.ManifestTable)
	}
	table, ok := raw.(map[string]any)
	if !ok {
		return nil, errors.Wrapf(ErrManifestUnreadable, "value %q is not a table", consts.ManifestTable)
	}

	records := make([]types.PackageRecord, 0, len(table))
	for _, key := range slices.Sorted(maps.Keys(table)) {
		record, err := ParseKey(key)
		if err != nil {
			log.Debug().Err(err).Str("entry", key).Msg("skipping manifest entry")
			continue
		}
		records = append(records, record)
	}
	return records, nil
}

// ParseKey parses one "<name> <version> (<provenance>)" key.
func ParseKey(key string) (types.PackageRecord, error) {
	parts := strings.SplitN(key, " ", 3)
	if len(parts) < 3 {
		return types.PackageRecord{}, errors.Wrapf(ErrEntryMalformed, "%q: expected name, version and source", key)
	}
	name, rawVersion, rawProvenance := parts[0], parts[1], parts[2]
	if name == "" {
		return types.PackageRecord{}, errors.Wrapf(ErrEntryMalformed, "%q: empty package name", key)
	}

	version, err := semver.StrictNewVersion(rawVersion)
	if err != nil {
		return types.PackageRecord{}, errors.Wrapf(ErrEntryMalformed, "%q: version %q: %v", key, rawVersion, err)
	}

	provenance, err := ParseProvenance(rawProvenance)
	if err != nil {
		return types.PackageRecord{}, errors.Wrapf(err, "%q", key)
	}

	return types.PackageRecord{
		Name:       name,
		Installed:  version,
		Provenance: provenance,
	}, nil
}

// ParseProvenance parses the parenthesised source part of a manifest key.
func ParseProvenance(spec string) (types.Provenance, error) {
	inner, ok := strings.CutPrefix(spec, "(")
	if !ok {
		return nil, errors.Wrap(ErrEntryMalformed, "missing '(' before source")
	}
	inner, ok = strings.CutSuffix(inner, ")")
	if !ok {
		return nil, errors.Wrap(ErrEntryMalformed, "missing ')' after source")
	}

	if rest, ok := strings.CutPrefix(inner, gitPrefix); ok {
		repo, commit, found := strings.Cut(rest, commitSep)
		if !found {
			return nil, errors.Wrap(ErrEntryMalformed, "git source without commit")
		}
		return types.SourceControl{Repo: repo, Commit: commit}, nil
	}

	for _, protocol := range []types.IndexProtocol{types.ProtocolRegistry, types.ProtocolSparse} {
		if base, ok := strings.CutPrefix(inner, string(protocol)+"+"); ok {
			return types.Index{Protocol: protocol, Base: base}, nil
		}
	}
	return nil, errors.Wrapf(ErrEntryMalformed, "unknown source %q", inner)
}
