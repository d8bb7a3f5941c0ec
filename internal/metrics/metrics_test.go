package metrics

import (
	"context"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServe_ExposesMetricsEndpoint(t *testing.T) {
	reg := NewRegistry()
	ctx, cancel := context.WithCancel(context.Background())

	const addr = "127.0.0.1:19091"
	done := make(chan error, 1)
	go func() { done <- Serve(ctx, addr, reg, zap.NewNop()) }()

	var resp *http.Response
	var err error
	require.Eventually(t, func() bool {
		resp, err = http.Get("http://" + addr + "/metrics")
		return err == nil
	}, 2*time.Second, 10*time.Millisecond)

	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.Contains(t, string(body), "go_goroutines")

	cancel()
	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not shut down after cancel")
	}
}
