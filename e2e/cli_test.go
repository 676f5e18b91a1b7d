//go:build e2e

package e2e

import (
	"os/exec"
	"strings"
	"testing"
)

func TestE2ECLIOperatorStatus(t *testing.T) {
	cmd := exec.Command("../bin/chicheck", "operator", "--operator-namespace", getenv(operatorNamespaceEnv, "kube-system"))
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Operator status check failed: %v, output: %s", err, string(output))
	}
	if !strings.Contains(string(output), "Version:") {
		t.Errorf("Expected version in output, got: %s", string(output))
	}
}

func TestE2ECLIManifestName(t *testing.T) {
	cmd := exec.Command("../bin/chicheck", "chi", "name", "demo.yaml", "--manifest-dir", "testdata")
	output, err := cmd.CombinedOutput()
	if err != nil {
		t.Fatalf("Failed to read manifest name: %v, output: %s", err, string(output))
	}
	if !strings.Contains(string(output), "demo") {
		t.Errorf("Expected demo, got: %s", string(output))
	}
}
