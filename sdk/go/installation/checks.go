package installation

import (
	"context"
	"fmt"
	"os"
	"time"

	corev1 "k8s.io/api/core/v1"
	"sigs.k8s.io/yaml"

	chiv1 "github.com/LogicIQ/chicheck/api/v1"
	"github.com/LogicIQ/chicheck/sdk/go/client"
	"github.com/LogicIQ/chicheck/sdk/go/configmap"
	"github.com/LogicIQ/chicheck/sdk/go/objects"
	"github.com/LogicIQ/chicheck/sdk/go/pod"
	"github.com/LogicIQ/chicheck/sdk/go/service"
)

// TemplateSettle is the pause after applying templates, before the installation itself.
const TemplateSettle = time.Second

// Checks declares what CreateAndCheck verifies after applying a manifest.
// Unset fields skip the corresponding check.
type Checks struct {
	// ApplyTemplates are manifests applied before the installation
	ApplyTemplates []string `json:"apply_templates,omitempty"`
	// ObjectCounts is the exact [statefulsets, pods, services] triple to wait for
	ObjectCounts []int `json:"object_counts,omitempty"`
	// PodCount is the minimum number of pods to wait for
	PodCount *int `json:"pod_count,omitempty"`
	// ChiStatus is the status to wait for. Defaults to Completed.
	ChiStatus chiv1.InstallationPhase `json:"chi_status,omitempty"`
	PodImage  string                  `json:"pod_image,omitempty"`
	// PodVolumes are mount paths the first container must have
	PodVolumes []string `json:"pod_volumes,omitempty"`
	// PodAntiAffinity checks the pods spread one per host
	PodAntiAffinity bool    `json:"pod_podAntiAffinity,omitempty"`
	PodPorts        []int32 `json:"pod_ports,omitempty"`
	// Service is a [name, type] pair
	Service []string `json:"service,omitempty"`
	// ConfigMaps checks the common config.d and users.d config-maps
	ConfigMaps bool `json:"configmaps,omitempty"`
	// DoNotDelete leaves the installation in place afterwards
	DoNotDelete bool `json:"do_not_delete,omitempty"`
}

// Validate reports malformed list checks.
func (ch *Checks) Validate() error {
	if ch.ObjectCounts != nil && len(ch.ObjectCounts) != 3 {
		return fmt.Errorf("object_counts must list statefulsets, pods and services, got %v", ch.ObjectCounts)
	}
	if ch.Service != nil && len(ch.Service) != 2 {
		return fmt.Errorf("service must be a [name, type] pair, got %v", ch.Service)
	}
	return nil
}

// LoadChecks reads Checks from a YAML or JSON file.
func LoadChecks(path string) (*Checks, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read checks %s: %w", path, err)
	}
	var checks Checks
	if err := yaml.UnmarshalStrict(data, &checks); err != nil {
		return nil, fmt.Errorf("failed to parse checks %s: %w", path, err)
	}
	if err := checks.Validate(); err != nil {
		return nil, fmt.Errorf("invalid checks %s: %w", path, err)
	}
	return &checks, nil
}

// CreateAndCheck applies a manifest, runs checks against the installation it declares
// and deletes the installation unless DoNotDelete is set. It returns the installation name.
func CreateAndCheck(c *client.Client, ctx context.Context, manifest string, checks Checks) (string, error) {
	if err := checks.Validate(); err != nil {
		return "", err
	}
	path := ResolvePath(c, manifest)
	name, err := ReadName(path)
	if err != nil {
		return "", err
	}
	log := c.Logger().WithValues("chi", name)

	if len(checks.ApplyTemplates) > 0 {
		for _, t := range checks.ApplyTemplates {
			if err := Apply(c, ctx, t); err != nil {
				return name, err
			}
		}
		if err := c.Config().Sleep(ctx, TemplateSettle); err != nil {
			return name, err
		}
	}

	if err := Apply(c, ctx, manifest); err != nil {
		return name, err
	}

	if checks.ObjectCounts != nil {
		expected := client.Triple{
			StatefulSets: checks.ObjectCounts[0],
			Pods:         checks.ObjectCounts[1],
			Services:     checks.ObjectCounts[2],
		}
		if err := objects.WaitObjects(c, ctx, name, expected); err != nil {
			return name, err
		}
	}

	if checks.PodCount != nil {
		if err := objects.WaitObject(c, ctx, "pod", "", chiv1.Selector(name), *checks.PodCount); err != nil {
			return name, err
		}
	}

	status := checks.ChiStatus
	if status == "" {
		status = chiv1.InstallationPhaseCompleted
	}
	if err := WaitStatus(c, ctx, name, status); err != nil {
		return name, err
	}

	if checks.PodImage != "" {
		if err := pod.CheckImage(c, ctx, name, checks.PodImage); err != nil {
			return name, err
		}
	}
	if len(checks.PodVolumes) > 0 {
		if err := pod.CheckVolumes(c, ctx, name, checks.PodVolumes); err != nil {
			return name, err
		}
	}
	if checks.PodAntiAffinity {
		if err := pod.CheckAntiAffinity(c, ctx, name); err != nil {
			return name, err
		}
	}
	if len(checks.PodPorts) > 0 {
		if err := pod.CheckPorts(c, ctx, name, checks.PodPorts); err != nil {
			return name, err
		}
	}
	if checks.Service != nil {
		if err := service.Check(c, ctx, checks.Service[0], corev1.ServiceType(checks.Service[1])); err != nil {
			return name, err
		}
	}
	if checks.ConfigMaps {
		if err := configmap.CheckInstallation(c, ctx, name); err != nil {
			return name, err
		}
	}

	if checks.DoNotDelete {
		log.Info("Leaving chi in place")
		return name, nil
	}
	return name, Delete(c, ctx, name)
}
