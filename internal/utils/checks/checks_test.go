package checks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexandre1a/cargo-freshen/internal/utils/common"
)

func TestCheckConnectivity(t *testing.T) {
	t.Parallel()

	seen := make(chan string, 1)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen <- r.Method + " " + r.URL.Path
	}))
	defer srv.Close()

	require.NoError(t, CheckConnectivity(context.Background(), srv.Client(), srv.URL+"/"))
	assert.Equal(t, "HEAD /config.json", <-seen)
}

func TestCheckConnectivity_NotFoundIsReachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	defer srv.Close()

	assert.NoError(t, CheckConnectivity(context.Background(), srv.Client(), srv.URL))
}

func TestCheckConnectivity_ServerError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer srv.Close()

	err := CheckConnectivity(context.Background(), srv.Client(), srv.URL)
	var statusErr *common.StatusError
	require.ErrorAs(t, err, &statusErr)
	assert.Equal(t, http.StatusBadGateway, statusErr.Code)
}

func TestCheckConnectivity_Unreachable(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	err := CheckConnectivity(context.Background(), http.DefaultClient, url)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "can't access")
}
