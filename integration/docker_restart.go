//go:build integration

package integration

import (
	"context"
	"os/exec"
	"testing"
)

// restartContainer restarts one compose service. Stores are in memory, so
// the service comes back holding only its sample data.
func restartContainer(t *testing.T, ctx context.Context, service string) {
	t.Helper()

	cmd := exec.CommandContext(ctx, "docker", "compose", "restart", service)
	out, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("docker compose restart %s failed: %v\n%s", service, err, out)
	}
}
