package integration

import (
	"net/http"
	"testing"
	"time"
)

// TestHealthEndpoints checks liveness and readiness of a running service.
// The suite skips when the service is not up so it can live alongside the
// unit tests in CI environments without Docker.
func TestHealthEndpoints(t *testing.T) {
	client := &http.Client{Timeout: 3 * time.Second}

	t.Run("live", func(t *testing.T) {
		resp, err := client.Get(baseURL() + "/health/live")
		if err != nil {
			t.Skipf("service not reachable: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("liveness returned %d, want 200", resp.StatusCode)
		}
	})

	t.Run("ready", func(t *testing.T) {
		resp, err := client.Get(baseURL() + "/health/ready")
		if err != nil {
			t.Skipf("service not reachable: %v", err)
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			t.Errorf("readiness returned %d, want 200", resp.StatusCode)
		}
	})
}
