// Package storage reads storage classes and persistent volume claims.
package storage

import (
	"context"
	"errors"
	"fmt"

	storagev1 "k8s.io/api/storage/v1"
	"k8s.io/apimachinery/pkg/runtime"

	"github.com/LogicIQ/chicheck/sdk/go/client"
	"github.com/LogicIQ/chicheck/sdk/go/field"
)

const (
	DefaultClassAnnotation     = "storageclass.kubernetes.io/is-default-class"
	BetaDefaultClassAnnotation = "storageclass.beta.kubernetes.io/is-default-class"

	pvcSizePath = ".spec.resources.requests.storage"
)

// ErrNoDefaultClass is returned when no storage class is annotated as default.
var ErrNoDefaultClass = errors.New("no default storage class")

// ListClasses returns every storage class of the cluster.
func ListClasses(c *client.Client, ctx context.Context) ([]storagev1.StorageClass, error) {
	items, err := c.GetItems(ctx, client.ResourceRef{Kind: "storageclass"}, client.ClusterScoped())
	if err != nil {
		return nil, fmt.Errorf("failed to list storage classes: %w", err)
	}
	classes := make([]storagev1.StorageClass, 0, len(items))
	for _, item := range items {
		var sc storagev1.StorageClass
		if err := runtime.DefaultUnstructuredConverter.FromUnstructured(item.Object, &sc); err != nil {
			return nil, &client.MalformedResponseError{What: "a StorageClass object", Cause: err}
		}
		classes = append(classes, sc)
	}
	return classes, nil
}

// GetDefaultClass returns the name of the default storage class. The GA annotation
// is preferred; the beta annotation is consulted only when no class carries it.
func GetDefaultClass(c *client.Client, ctx context.Context) (string, error) {
	classes, err := ListClasses(c, ctx)
	if err != nil {
		return "", err
	}
	for _, annotation := range []string{DefaultClassAnnotation, BetaDefaultClassAnnotation} {
		for _, sc := range classes {
			if sc.Annotations[annotation] == "true" {
				return sc.Name, nil
			}
		}
	}
	return "", ErrNoDefaultClass
}

// GetPVCSize returns the requested storage of the named claim, e.g. "1Gi".
func GetPVCSize(c *client.Client, ctx context.Context, name string, opts ...client.Option) (string, error) {
	return field.Get(c, ctx, "pvc", name, pvcSizePath, opts...)
}

// WaitPVCSize waits until the named claim requests size.
func WaitPVCSize(c *client.Client, ctx context.Context, name, size string, opts ...client.Option) error {
	return field.Wait(c, ctx, "pvc", name, pvcSizePath, size, opts...)
}
