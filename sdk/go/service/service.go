// Package service checks the services the operator exposes for an installation.
package service

import (
	"context"
	"fmt"

	corev1 "k8s.io/api/core/v1"

	"github.com/LogicIQ/chicheck/sdk/go/client"
)

func ref(c *client.Client, name string) client.ResourceRef {
	return client.ResourceRef{Kind: "service", Name: name, Namespace: c.Namespace()}
}

// Get returns the named service.
func Get(c *client.Client, ctx context.Context, name string) (*corev1.Service, error) {
	var svc corev1.Service
	if err := c.GetTyped(ctx, ref(c, name), &svc); err != nil {
		return nil, fmt.Errorf("failed to get service %s: %w", name, err)
	}
	return &svc, nil
}

// GetType returns the declared type of the named service.
func GetType(c *client.Client, ctx context.Context, name string) (corev1.ServiceType, error) {
	svc, err := Get(c, ctx, name)
	if err != nil {
		return "", err
	}
	return svc.Spec.Type, nil
}

// Check asserts the named service has type serviceType. It does not retry.
func Check(c *client.Client, ctx context.Context, name string, serviceType corev1.ServiceType) error {
	_, err := c.Assert(ctx, client.Condition{
		Description: fmt.Sprintf("service %s type should be %s", name, serviceType),
		Resource:    ref(c, name),
		Observe: func(ctx context.Context) (client.Observed, error) {
			t, err := GetType(c, ctx, name)
			return client.Scalar(t), err
		},
		Expect: client.Equals(string(serviceType)),
	})
	return err
}
