// Package objects waits for the number of cluster objects belonging to an installation.
package objects

import (
	"context"
	"fmt"

	chiv1 "github.com/LogicIQ/chicheck/api/v1"
	"github.com/LogicIQ/chicheck/sdk/go/client"
)

// CountResources counts the statefulsets, pods and services labelled for the installation.
func CountResources(c *client.Client, ctx context.Context, chi string, opts ...client.Option) (client.Triple, error) {
	return c.CountResources(ctx, chiv1.Selector(chi), opts...)
}

// WaitObjects waits until the installation owns exactly the expected statefulsets, pods and services.
func WaitObjects(c *client.Client, ctx context.Context, chi string, expected client.Triple, opts ...client.Option) error {
	selector := chiv1.Selector(chi)
	_, err := c.WaitFor(ctx, client.Condition{
		Description: fmt.Sprintf("%d statefulsets, %d pods and %d services should be created",
			expected.StatefulSets, expected.Pods, expected.Services),
		Resource: client.ResourceRef{Kind: chiv1.ShortName, Name: chi, Selector: selector, Namespace: c.Namespace()},
		Observe: func(ctx context.Context) (client.Observed, error) {
			return c.CountResources(ctx, selector, opts...)
		},
		Expect: client.Counts(expected),
	}, opts...)
	return err
}

// Count returns the number of objects of kind matching name and selector.
func Count(c *client.Client, ctx context.Context, kind, name, selector string, opts ...client.Option) (int, error) {
	return c.GetCount(ctx, client.ResourceRef{Kind: kind, Name: name, Selector: selector}, opts...)
}

// WaitObject waits until at least count objects of kind matching name and selector exist.
func WaitObject(c *client.Client, ctx context.Context, kind, name, selector string, count int, opts ...client.Option) error {
	ref := client.ResourceRef{Kind: kind, Name: name, Selector: selector, Namespace: c.Namespace()}
	_, err := c.WaitFor(ctx, client.Condition{
		Description: fmt.Sprintf("%d %s(s) %s should be created", count, kind, name),
		Resource:    ref,
		Observe: func(ctx context.Context) (client.Observed, error) {
			n, err := Count(c, ctx, kind, name, selector, opts...)
			return client.Count(n), err
		},
		Expect: client.AtLeast(count),
	}, opts...)
	return err
}
