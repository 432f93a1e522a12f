//go:build integration

package integration

import (
	"context"
	"os/exec"
	"testing"
)

// restartService bounces one compose service so a test can check what
// survives a process restart.
func restartService(t *testing.T, ctx context.Context, service string) {
	t.Helper()

	out, err := exec.CommandContext(ctx, "docker", "compose", "restart", service).CombinedOutput()
	if err != nil {
		t.Fatalf("docker compose restart %s failed: %v\n%s", service, err, out)
	}
}
