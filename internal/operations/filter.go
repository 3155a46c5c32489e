package operations

import (
	"slices"

	"github.com/alexandre1a/cargo-freshen/internal/models/types"
)

// Filter decides whether a record takes part in a run.
type Filter func(types.PackageRecord) bool

// SelectProvenance keeps index packages, and git packages only when asked to.
func SelectProvenance(includeSourceControl bool) Filter {
	return func(r types.PackageRecord) bool {
		switch r.Provenance.(type) {
		case types.Index:
			return true
		case types.SourceControl:
			return includeSourceControl
		default:
			return false
		}
	}
}

// SelectNames keeps the named packages. No names keeps everything.
func SelectNames(names []string) Filter {
	return func(r types.PackageRecord) bool {
		return len(names) == 0 || slices.Contains(names, r.Name)
	}
}

// Select returns the records accepted by every filter, in input order.
func Select(records []types.PackageRecord, filters ...Filter) []types.PackageRecord {
	out := make([]types.PackageRecord, 0, len(records))
outer:
	for _, r := range records {
		for _, f := range filters {
			if !f(r) {
				continue outer
			}
		}
		out = append(out, r)
	}
	return out
}

// Missing returns the names that match none of the records.
func Missing(records []types.PackageRecord, names []string) []string {
	var missing []string
	for _, name := range names {
		if !slices.ContainsFunc(records, func(r types.PackageRecord) bool { return r.Name == name }) {
			missing = append(missing, name)
		}
	}
	return missing
}
