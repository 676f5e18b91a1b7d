// Package configmap checks the config-maps the operator renders for an installation.
package configmap

import (
	"context"
	"fmt"
	"sort"

	corev1 "k8s.io/api/core/v1"

	chiv1 "github.com/LogicIQ/chicheck/api/v1"
	"github.com/LogicIQ/chicheck/sdk/go/client"
)

func ref(c *client.Client, name string) client.ResourceRef {
	return client.ResourceRef{Kind: "configmap", Name: name, Namespace: c.Namespace()}
}

// Get returns the named config-map.
func Get(c *client.Client, ctx context.Context, name string) (*corev1.ConfigMap, error) {
	var cm corev1.ConfigMap
	if err := c.GetTyped(ctx, ref(c, name), &cm); err != nil {
		return nil, fmt.Errorf("failed to get configmap %s: %w", name, err)
	}
	return &cm, nil
}

// GetKeys returns the sorted data and binary data keys of the named config-map.
func GetKeys(c *client.Client, ctx context.Context, name string) (client.Set, error) {
	cm, err := Get(c, ctx, name)
	if err != nil {
		return nil, err
	}
	keys := make(client.Set, 0, len(cm.Data)+len(cm.BinaryData))
	for k := range cm.Data {
		keys = append(keys, k)
	}
	for k := range cm.BinaryData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys, nil
}

// Check asserts the named config-map carries every one of keys. It does not retry.
func Check(c *client.Client, ctx context.Context, name string, keys []string) error {
	_, err := c.Assert(ctx, client.Condition{
		Description: fmt.Sprintf("configmap %s should contain keys", name),
		Resource:    ref(c, name),
		Observe: func(ctx context.Context) (client.Observed, error) {
			return GetKeys(c, ctx, name)
		},
		Expect: client.ContainsAll(keys...),
	})
	return err
}

// CheckInstallation asserts the common config.d and users.d config-maps of an
// installation carry the standard configuration fragments.
func CheckInstallation(c *client.Client, ctx context.Context, chi string) error {
	if err := Check(c, ctx, chiv1.CommonConfigDName(chi), chiv1.CommonConfigDKeys()); err != nil {
		return err
	}
	return Check(c, ctx, chiv1.CommonUsersDName(chi), chiv1.CommonUsersDKeys())
}
