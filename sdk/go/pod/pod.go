// Package pod inspects the pods the operator creates for an installation.
//
// The checks here read state once and fail on the first mismatch. Callers are
// expected to have waited for the installation status to reach Completed first.
package pod

import (
	"context"
	"fmt"
	"strconv"

	corev1 "k8s.io/api/core/v1"
	"k8s.io/apimachinery/pkg/apis/meta/v1/unstructured"

	chiv1 "github.com/LogicIQ/chicheck/api/v1"
	"github.com/LogicIQ/chicheck/sdk/go/client"
	"github.com/LogicIQ/chicheck/sdk/go/field"
)

func ref(c *client.Client, chi string) client.ResourceRef {
	return client.ResourceRef{Kind: "pod", Selector: chiv1.Selector(chi), Namespace: c.Namespace()}
}

// Get returns the first pod of the installation.
func Get(c *client.Client, ctx context.Context, chi string) (*corev1.Pod, error) {
	var pod corev1.Pod
	if err := c.GetTyped(ctx, ref(c, chi), &pod); err != nil {
		return nil, fmt.Errorf("failed to get pod of chi %s: %w", chi, err)
	}
	return &pod, nil
}

// GetSpec returns the spec of the first pod of the installation.
func GetSpec(c *client.Client, ctx context.Context, chi string) (*corev1.PodSpec, error) {
	pod, err := Get(c, ctx, chi)
	if err != nil {
		return nil, err
	}
	return &pod.Spec, nil
}

func firstContainer(c *client.Client, ctx context.Context, chi string) (*corev1.Container, error) {
	spec, err := GetSpec(c, ctx, chi)
	if err != nil {
		return nil, err
	}
	if len(spec.Containers) == 0 {
		return nil, &client.MalformedResponseError{What: fmt.Sprintf("a container in the pod of chi %s", chi)}
	}
	return &spec.Containers[0], nil
}

// GetImage returns the image of the first container of the first pod.
func GetImage(c *client.Client, ctx context.Context, chi string) (string, error) {
	container, err := firstContainer(c, ctx, chi)
	if err != nil {
		return "", err
	}
	return container.Image, nil
}

// GetVolumes returns the volume mounts of the first container of the first pod.
func GetVolumes(c *client.Client, ctx context.Context, chi string) ([]corev1.VolumeMount, error) {
	container, err := firstContainer(c, ctx, chi)
	if err != nil {
		return nil, err
	}
	return container.VolumeMounts, nil
}

// GetPorts returns the container ports of the first container of the first pod.
func GetPorts(c *client.Client, ctx context.Context, chi string) ([]int32, error) {
	container, err := firstContainer(c, ctx, chi)
	if err != nil {
		return nil, err
	}
	ports := make([]int32, 0, len(container.Ports))
	for _, p := range container.Ports {
		ports = append(ports, p.ContainerPort)
	}
	return ports, nil
}

// GetNames returns the names of every pod of the installation.
func GetNames(c *client.Client, ctx context.Context, chi string) ([]string, error) {
	list, err := c.GetItems(ctx, ref(c, chi))
	if err != nil {
		return nil, fmt.Errorf("failed to list pods of chi %s: %w", chi, err)
	}
	names := make([]string, 0, len(list))
	for _, item := range list {
		names = append(names, item.GetName())
	}
	return names, nil
}

// CheckImage asserts the first container runs image.
func CheckImage(c *client.Client, ctx context.Context, chi, image string) error {
	_, err := c.Assert(ctx, client.Condition{
		Description: fmt.Sprintf("pod image should match %s", image),
		Resource:    ref(c, chi),
		Observe: func(ctx context.Context) (client.Observed, error) {
			v, err := GetImage(c, ctx, chi)
			return client.Scalar(v), err
		},
		Expect: client.Equals(image),
	})
	return err
}

// CheckVolumes asserts the first container mounts every one of paths.
func CheckVolumes(c *client.Client, ctx context.Context, chi string, paths []string) error {
	_, err := c.Assert(ctx, client.Condition{
		Description: "pod should have volume mounts",
		Resource:    ref(c, chi),
		Observe: func(ctx context.Context) (client.Observed, error) {
			mounts, err := GetVolumes(c, ctx, chi)
			if err != nil {
				return nil, err
			}
			set := make(client.Set, 0, len(mounts))
			for _, m := range mounts {
				set = append(set, m.MountPath)
			}
			return set, nil
		},
		Expect: client.ContainsAll(paths...),
	})
	return err
}

// CheckPorts asserts the first container exposes exactly ports, in any order.
func CheckPorts(c *client.Client, ctx context.Context, chi string, ports []int32) error {
	_, err := c.Assert(ctx, client.Condition{
		Description: "pod ports should match",
		Resource:    ref(c, chi),
		Observe: func(ctx context.Context) (client.Observed, error) {
			got, err := GetPorts(c, ctx, chi)
			if err != nil {
				return nil, err
			}
			set := make(client.Set, 0, len(got))
			for _, p := range got {
				set = append(set, strconv.Itoa(int(p)))
			}
			return set, nil
		},
		Expect: client.SamePorts(ports...),
	})
	return err
}

// WaitPhase waits until the named pod reports phase.
func WaitPhase(c *client.Client, ctx context.Context, name string, phase corev1.PodPhase, opts ...client.Option) error {
	return field.Wait(c, ctx, "pod", name, ".status.phase", string(phase), opts...)
}

// getAntiAffinity reads spec.affinity.podAntiAffinity of the first pod as an untyped document
// so that keys unknown to the typed API still take part in the comparison.
func getAntiAffinity(c *client.Client, ctx context.Context, chi string) (client.Document, error) {
	obj, err := c.GetFirst(ctx, ref(c, chi))
	if err != nil {
		return nil, fmt.Errorf("failed to get pod of chi %s: %w", chi, err)
	}
	doc, found, err := unstructured.NestedMap(obj.Object, "spec", "affinity", "podAntiAffinity")
	if err != nil {
		return nil, &client.MalformedResponseError{What: "an object at spec.affinity.podAntiAffinity", Cause: err}
	}
	if !found {
		return nil, nil
	}
	return client.Document(doc), nil
}
