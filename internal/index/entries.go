package index

import (
	"bytes"
	"encoding/json"

	"github.com/Masterminds/semver/v3"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"github.com/alexandre1a/cargo-freshen/internal/models/types"
)

// line is the subset of an index record this tool reads. Keys must match
// exactly; encoding/json alone would also accept "NAME" or "Vers".
type line struct {
	Name   string
	Vers   string
	Yanked bool
}

func decodeLine(raw []byte) (line, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(raw, &fields); err != nil {
		return line{}, err
	}

	var l line
	var err error
	if l.Name, err = stringField(fields, "name"); err != nil {
		return line{}, err
	}
	if l.Vers, err = stringField(fields, "vers"); err != nil {
		return line{}, err
	}
	if yanked, ok := fields["yanked"]; ok {
		if err := json.Unmarshal(yanked, &l.Yanked); err != nil {
			return line{}, errors.Wrap(err, "yanked")
		}
	}
	return l, nil
}

func stringField(fields map[string]json.RawMessage, key string) (string, error) {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return "", errors.Errorf("missing %s", key)
	}
	var v string
	if err := json.Unmarshal(raw, &v); err != nil {
		return "", errors.Wrap(err, key)
	}
	return v, nil
}

// ParseEntries decodes a newline-delimited index file. Lines that are not
// valid records, lack name or vers, or carry a vers that is not a semantic
// version are skipped. Entries keep the order of the file.
func ParseEntries(body []byte) []types.IndexEntry {
	var entries []types.IndexEntry
	for n, raw := range bytes.Split(body, []byte("\n")) {
		raw = bytes.TrimSpace(raw)
		if len(raw) == 0 {
			continue
		}

		l, err := decodeLine(raw)
		if err != nil {
			log.Trace().Err(err).Int("line", n+1).Msg("skipping undecodable index line")
			continue
		}
		v, err := semver.StrictNewVersion(l.Vers)
		if err != nil {
			log.Trace().Err(err).Int("line", n+1).Str("vers", l.Vers).Msg("skipping index line with bad version")
			continue
		}
		entries = append(entries, types.IndexEntry{Name: l.Name, Version: v, Yanked: l.Yanked})
	}
	return entries
}
