// Package field reads and waits for single fields of cluster objects.
package field

import (
	"context"
	"fmt"

	"github.com/LogicIQ/chicheck/sdk/go/client"
)

// Get reads one field of the named object, e.g. ".status.status".
// An absent field reads as client.NoneValue.
func Get(c *client.Client, ctx context.Context, kind, name, path string, opts ...client.Option) (string, error) {
	return c.GetField(ctx, client.ResourceRef{Kind: kind, Name: name}, path, opts...)
}

// Wait waits until the field at path of the named object equals value.
func Wait(c *client.Client, ctx context.Context, kind, name, path, value string, opts ...client.Option) error {
	_, err := c.WaitFor(ctx, client.Condition{
		Description: fmt.Sprintf("%s %s %s should be %s", kind, name, path, value),
		Resource:    client.ResourceRef{Kind: kind, Name: name, Namespace: c.Namespace()},
		Observe: func(ctx context.Context) (client.Observed, error) {
			v, err := Get(c, ctx, kind, name, path, opts...)
			return client.Scalar(v), err
		},
		Expect: client.Equals(value),
	}, opts...)
	return err
}

// GetJSONPath evaluates a JSON-path template, e.g. "{.status.phase}", against the named object.
func GetJSONPath(c *client.Client, ctx context.Context, kind, name, path string, opts ...client.Option) (string, error) {
	return c.GetJSONPath(ctx, client.ResourceRef{Kind: kind, Name: name}, path, opts...)
}

// WaitJSONPath waits until the JSON-path template evaluated against the named object equals value.
func WaitJSONPath(c *client.Client, ctx context.Context, kind, name, path, value string, opts ...client.Option) error {
	_, err := c.WaitFor(ctx, client.Condition{
		Description: fmt.Sprintf("%s %s -o jsonpath=%s should be %s", kind, name, path, value),
		Resource:    client.ResourceRef{Kind: kind, Name: name, Namespace: c.Namespace()},
		Observe: func(ctx context.Context) (client.Observed, error) {
			v, err := GetJSONPath(c, ctx, kind, name, path, opts...)
			return client.Scalar(v), err
		},
		Expect: client.Equals(value),
	}, opts...)
	return err
}
