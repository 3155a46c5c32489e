package operations

import (
	"context"

	"github.com/Masterminds/semver/v3"
	"github.com/rs/zerolog/log"
	"github.com/sourcegraph/conc/iter"
	"go.uber.org/atomic"

	"github.com/alexandre1a/cargo-freshen/internal/models/types"
)

// VersionLookup returns the newest published version of a package.
// *index.Client satisfies it.
type VersionLookup interface {
	LatestVersion(ctx context.Context, name string) (*semver.Version, error)
}

// HasUpdate reports whether a newer version than the installed one is known.
// A record without a latest version never has an update.
func HasUpdate(record types.PackageRecord) bool {
	if record.Latest == nil || record.Installed == nil {
		return false
	}
	return record.Latest.GreaterThan(record.Installed)
}

// PullVersion looks up the latest version of record. On failure the record is
// returned unchanged and ok is false.
func PullVersion(ctx context.Context, lookup VersionLookup, record types.PackageRecord) (types.PackageRecord, bool) {
	latest, err := lookup.LatestVersion(ctx, record.Name)
	if err != nil {
		log.Debug().Err(err).Str("package", record.Name).Msg("lookup failed")
		return record, false
	}
	return record.WithLatest(latest), true
}

// RefreshAll pulls the latest version of every record using at most jobs
// concurrent lookups. The result has the same order as records; a failed
// lookup leaves that record without a latest version and does not affect
// the others.
func RefreshAll(ctx context.Context, lookup VersionLookup, records []types.PackageRecord, jobs int) []types.PackageRecord {
	failed := atomic.NewInt64(0)

	mapper := iter.Mapper[types.PackageRecord, types.PackageRecord]{MaxGoroutines: max(jobs, 1)}
	refreshed := mapper.Map(records, func(r *types.PackageRecord) types.PackageRecord {
		out, ok := PullVersion(ctx, lookup, *r)
		if !ok {
			failed.Inc()
		}
		return out
	})

	if n := failed.Load(); n > 0 {
		log.Warn().Int64("failed", n).Int("total", len(records)).Msg("could not find the latest version of some packages")
	}
	return refreshed
}
