//go:build e2e

package e2e

import (
	"context"
	"fmt"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/go-logr/logr/testr"

	"github.com/LogicIQ/chicheck/sdk/go/client"
	"github.com/LogicIQ/chicheck/sdk/go/namespace"
	"github.com/LogicIQ/chicheck/sdk/go/objects"
)

const operatorNamespaceEnv = "E2E_OPERATOR_NAMESPACE"

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// setupClient returns a client for a fresh namespace that is removed when the test ends.
// It fails the test when the operator is not running.
func setupClient(t *testing.T) *client.Client {
	t.Helper()
	ctx := context.Background()

	ns := fmt.Sprintf("e2e-%s-%d", strings.ToLower(strings.ReplaceAll(t.Name(), "_", "-")), time.Now().Unix()%100000)
	if len(ns) > 63 {
		ns = ns[:63]
	}
	ns = strings.TrimRight(ns, "-")

	c := client.New(&client.Config{
		Namespace:   ns,
		Kubectl:     getenv("KUBECTL", client.DefaultKubectl),
		Kubeconfig:  os.Getenv("KUBECONFIG"),
		ManifestDir: "testdata",
		Logger:      testr.NewWithOptions(t, testr.Options{Verbosity: 1}),
	})

	if err := waitForOperator(ctx, c); err != nil {
		t.Fatalf("operator not ready: %v", err)
	}

	if err := namespace.Create(c, ctx, ns); err != nil {
		t.Fatalf("Failed to create namespace: %v", err)
	}
	t.Cleanup(func() {
		if err := namespace.Delete(c, context.Background(), ns); err != nil {
			t.Logf("Failed to delete namespace %s: %v", ns, err)
		}
	})

	return c
}

func waitForOperator(ctx context.Context, c *client.Client) error {
	return objects.WaitObject(c, ctx, "pod", "", "app=clickhouse-operator", 1,
		client.InNamespace(getenv(operatorNamespaceEnv, "kube-system")))
}
