package checks

import (
	"context"
	"net/http"
	"strings"

	"github.com/pkg/errors"

	"github.com/alexandre1a/cargo-freshen/internal/models/consts"
	"github.com/alexandre1a/cargo-freshen/internal/utils/common"
)

// A simple function to check if the device can reach the index (where the versions are published).
// Every sparse index serves a config.json at its root.
func CheckConnectivity(ctx context.Context, client common.Doer, indexRoot string) error {
	ctx, cancel := context.WithTimeout(ctx, consts.ProbeTimeout)
	defer cancel()

	url := strings.TrimRight(indexRoot, "/") + "/config.json"
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, url, nil)
	if err != nil {
		return errors.Wrapf(err, "can't probe %s", indexRoot)
	}

	resp, err := client.Do(req)
	if err != nil {
		return errors.Wrapf(err, "can't access %s", indexRoot)
	}
	resp.Body.Close()

	if resp.StatusCode >= http.StatusInternalServerError {
		return &common.StatusError{URL: url, Code: resp.StatusCode}
	}
	return nil
}
