//go:build e2e

package e2e

import (
	"context"
	"testing"

	chiv1 "github.com/LogicIQ/chicheck/api/v1"
	"github.com/LogicIQ/chicheck/sdk/go/client"
	"github.com/LogicIQ/chicheck/sdk/go/configmap"
	"github.com/LogicIQ/chicheck/sdk/go/installation"
	"github.com/LogicIQ/chicheck/sdk/go/objects"
	"github.com/LogicIQ/chicheck/sdk/go/pod"
)

func TestE2EInstallationReadiness(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()

	if err := installation.Apply(c, ctx, "demo.yaml"); err != nil {
		t.Fatalf("Failed to apply: %v", err)
	}
	if err := objects.WaitObjects(c, ctx, "demo", client.Triple{StatefulSets: 1, Pods: 1, Services: 2}); err != nil {
		t.Fatalf("Objects not created: %v", err)
	}
	if err := installation.WaitStatus(c, ctx, "demo", chiv1.InstallationPhaseCompleted); err != nil {
		t.Fatalf("Installation not completed: %v", err)
	}
	if err := installation.Delete(c, ctx, "demo"); err != nil {
		t.Fatalf("Objects not removed: %v", err)
	}
}

func TestE2EConfigMaps(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()

	_, err := installation.CreateAndCheck(c, ctx, "demo.yaml", installation.Checks{DoNotDelete: true})
	if err != nil {
		t.Fatalf("Installation failed: %v", err)
	}
	t.Cleanup(func() {
		if err := installation.Delete(c, context.Background(), "demo"); err != nil {
			t.Logf("Failed to delete chi: %v", err)
		}
	})

	if err := configmap.CheckInstallation(c, ctx, "demo"); err != nil {
		t.Fatalf("Configmap contract broken: %v", err)
	}
	err = configmap.Check(c, ctx, chiv1.CommonConfigDName("demo"), []string{"99-does-not-exist.xml"})
	if !client.IsAssertion(err) {
		t.Fatalf("Expected assertion error for a missing key, got %v", err)
	}
}

func TestE2EAntiAffinity(t *testing.T) {
	c := setupClient(t)
	ctx := context.Background()

	checks, err := installation.LoadChecks("testdata/anti_affinity_checks.yaml")
	if err != nil {
		t.Fatalf("Failed to load checks: %v", err)
	}
	checks.DoNotDelete = true

	if _, err := installation.CreateAndCheck(c, ctx, "anti-affinity.yaml", *checks); err != nil {
		t.Fatalf("Installation failed: %v", err)
	}
	t.Cleanup(func() {
		if err := installation.DeleteAll(c, context.Background()); err != nil {
			t.Logf("Failed to delete chi: %v", err)
		}
	})

	if err := pod.CheckAntiAffinity(c, ctx, "demo"); err != nil {
		t.Fatalf("Anti-affinity mismatch: %v", err)
	}
}
