// Package namespace creates and removes the namespaces scenarios run in.
package namespace

import (
	"context"
	"fmt"
	"time"

	"github.com/LogicIQ/chicheck/sdk/go/client"
)

// DeleteTimeout bounds namespace deletion. Deletion that runs longer is left to finish in the background.
const DeleteTimeout = 60 * time.Second

// Create creates the namespace and verifies it can be read back.
func Create(c *client.Client, ctx context.Context, name string) error {
	if _, err := c.Kubectl(ctx, []string{"create", "ns", name}, client.ClusterScoped()); err != nil {
		return fmt.Errorf("failed to create namespace %s: %w", name, err)
	}
	if _, err := c.Kubectl(ctx, []string{"get", "ns", name}, client.ClusterScoped()); err != nil {
		return fmt.Errorf("namespace %s not found after create: %w", name, err)
	}
	c.Logger().Info("Namespace created", "namespace", name)
	return nil
}

// Delete removes the namespace. A failing or slow delete is logged, not returned.
func Delete(c *client.Client, ctx context.Context, name string) error {
	res, err := c.Run(ctx, []string{"delete", "ns", name},
		client.ClusterScoped(),
		client.WithTimeout(DeleteTimeout),
		client.TolerateFailure(),
		client.TolerateTimeout(),
	)
	if err != nil {
		return err
	}
	if !res.Success() {
		c.Logger().Info("Namespace delete did not complete", "namespace", name, "exitCode", res.ExitCode, "timedOut", res.TimedOut)
	}
	return nil
}
