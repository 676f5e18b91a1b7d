package pod

import (
	"context"

	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"

	chiv1 "github.com/LogicIQ/chicheck/api/v1"
	"github.com/LogicIQ/chicheck/sdk/go/client"
)

// HostnameTopologyKey spreads replicas over nodes.
const HostnameTopologyKey = "kubernetes.io/hostname"

// AntiAffinityPolicy returns the pod anti-affinity the operator renders for an
// installation that requests one replica per host.
func AntiAffinityPolicy(chi, namespace string) *corev1.PodAntiAffinity {
	return &corev1.PodAntiAffinity{
		RequiredDuringSchedulingIgnoredDuringExecution: []corev1.PodAffinityTerm{
			{
				LabelSelector: &metav1.LabelSelector{
					MatchLabels: map[string]string{
						chiv1.LabelApp:       chiv1.LabelAppValue,
						chiv1.LabelChi:       chi,
						chiv1.LabelNamespace: namespace,
					},
				},
				TopologyKey: HostnameTopologyKey,
			},
		},
	}
}

// CheckAntiAffinity asserts the first pod's anti-affinity structurally equals
// AntiAffinityPolicy for the installation in the client namespace.
func CheckAntiAffinity(c *client.Client, ctx context.Context, chi string) error {
	expected, err := runtime.DefaultUnstructuredConverter.ToUnstructured(AntiAffinityPolicy(chi, c.Namespace()))
	if err != nil {
		return err
	}
	_, err = c.Assert(ctx, client.Condition{
		Description: "podAntiAffinity should exist and match",
		Resource:    ref(c, chi),
		Observe: func(ctx context.Context) (client.Observed, error) {
			return getAntiAffinity(c, ctx, chi)
		},
		Expect: client.StructurallyEquals(client.Document(expected)),
	})
	return err
}
