// Package installation applies, inspects and removes ClickHouseInstallation resources.
//
// CreateAndCheck runs the full lifecycle of one manifest: apply it, wait for the
// installation to settle, run the requested checks and delete it again.
package installation

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/multierr"

	chiv1 "github.com/LogicIQ/chicheck/api/v1"
	"github.com/LogicIQ/chicheck/sdk/go/client"
	"github.com/LogicIQ/chicheck/sdk/go/field"
	"github.com/LogicIQ/chicheck/sdk/go/objects"
)

// DeleteTimeout bounds kubectl delete chi. Finalizers of large installations take a while.
const DeleteTimeout = 900 * time.Second

const statusPath = ".status.status"

// Apply applies a manifest, resolved against the manifest directory, with validation.
func Apply(c *client.Client, ctx context.Context, manifest string, opts ...client.Option) error {
	path := ResolvePath(c, manifest)
	c.Logger().Info("Applying manifest", "path", path)
	if err := c.Apply(ctx, path, true, opts...); err != nil {
		return fmt.Errorf("failed to apply %s: %w", path, err)
	}
	return nil
}

// DeleteManifest deletes every object declared in a manifest.
func DeleteManifest(c *client.Client, ctx context.Context, manifest string, opts ...client.Option) error {
	path := ResolvePath(c, manifest)
	c.Logger().Info("Deleting manifest", "path", path)
	if err := c.DeleteFile(ctx, path, opts...); err != nil {
		return fmt.Errorf("failed to delete %s: %w", path, err)
	}
	return nil
}

// Get returns the named installation.
func Get(c *client.Client, ctx context.Context, name string) (*chiv1.ClickHouseInstallation, error) {
	var chi chiv1.ClickHouseInstallation
	ref := client.ResourceRef{Kind: chiv1.ShortName, Name: name}
	if err := c.GetTyped(ctx, ref, &chi); err != nil {
		return nil, fmt.Errorf("failed to get chi %s: %w", name, err)
	}
	return &chi, nil
}

// List returns the names of every installation in the client namespace.
func List(c *client.Client, ctx context.Context) ([]string, error) {
	items, err := c.GetItems(ctx, client.ResourceRef{Kind: chiv1.ShortName})
	if err != nil {
		return nil, fmt.Errorf("failed to list chi: %w", err)
	}
	names := make([]string, 0, len(items))
	for _, item := range items {
		names = append(names, item.GetName())
	}
	return names, nil
}

// GetStatus reads .status.status of the named installation.
func GetStatus(c *client.Client, ctx context.Context, name string) (chiv1.InstallationPhase, error) {
	v, err := field.Get(c, ctx, chiv1.ShortName, name, statusPath)
	return chiv1.InstallationPhase(v), err
}

// WaitStatus waits until .status.status of the named installation equals status.
func WaitStatus(c *client.Client, ctx context.Context, name string, status chiv1.InstallationPhase, opts ...client.Option) error {
	return field.Wait(c, ctx, chiv1.ShortName, name, statusPath, string(status), opts...)
}

// Delete deletes the named installation and waits until none of its statefulsets,
// pods and services remain. A failing delete is not fatal; the wait decides.
func Delete(c *client.Client, ctx context.Context, name string) error {
	c.Logger().Info("Deleting chi", "chi", name)
	res, err := c.Run(ctx, []string{"delete", chiv1.ShortName, name},
		client.WithTimeout(DeleteTimeout),
		client.TolerateFailure(),
	)
	if err != nil {
		return fmt.Errorf("failed to delete chi %s: %w", name, err)
	}
	if !res.Success() {
		c.Logger().Info("kubectl delete chi failed", "chi", name, "exitCode", res.ExitCode)
	}
	return objects.WaitObjects(c, ctx, name, client.Triple{})
}

// DeleteAll deletes every installation in the client namespace. It is a no-op
// when the ClickHouseInstallation CRD is not installed.
func DeleteAll(c *client.Client, ctx context.Context) error {
	n, err := c.GetCount(ctx, client.ResourceRef{Kind: "crd", Name: chiv1.CRDName}, client.ClusterScoped())
	if err != nil {
		return err
	}
	if n == 0 {
		c.Logger().V(1).Info("CRD not installed, nothing to delete", "crd", chiv1.CRDName)
		return nil
	}

	names, err := List(c, ctx)
	if err != nil {
		return err
	}
	var errs error
	for _, name := range names {
		errs = multierr.Append(errs, Delete(c, ctx, name))
	}
	return errs
}
