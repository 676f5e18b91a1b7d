package v1

import (
	"fmt"

	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"
	"k8s.io/apimachinery/pkg/runtime"
)

const (
	// Group is the API group of the operator's custom resources.
	Group = "clickhouse.altinity.com"

	// KindInstallation is the kind name of a ClickHouseInstallation.
	KindInstallation = "ClickHouseInstallation"

	// ShortName is the kubectl short name of a ClickHouseInstallation.
	ShortName = "chi"

	// CRDName is the name of the ClickHouseInstallation CustomResourceDefinition.
	CRDName = "clickhouseinstallations." + Group
)

// Labels the operator sets on every object it creates for an installation.
const (
	LabelApp       = Group + "/app"
	LabelChi       = Group + "/chi"
	LabelNamespace = Group + "/namespace"

	// LabelAppValue is the value of LabelApp on operator managed objects.
	LabelAppValue = "chop"
)

// InstallationPhase is the value reported in .status.status
type InstallationPhase string

const (
	InstallationPhaseInProgress  InstallationPhase = "InProgress"
	InstallationPhaseCompleted   InstallationPhase = "Completed"
	InstallationPhaseTerminating InstallationPhase = "Terminating"
	InstallationPhaseAborted     InstallationPhase = "Aborted"
)

// ClickHouseInstallationStatus defines the observed state of an installation.
// Only the fields read by the harness are modelled.
type ClickHouseInstallationStatus struct {
	// Status is the overall reconcile status
	Status InstallationPhase `json:"status,omitempty"`

	// Version of the operator that last reconciled the installation
	// +optional
	Version string `json:"version,omitempty"`

	// Pods lists the pod names created for the installation
	// +optional
	Pods []string `json:"pods,omitempty"`

	// Endpoint is the cluster service endpoint
	// +optional
	Endpoint string `json:"endpoint,omitempty"`
}

// ClickHouseInstallation is a clustered-database deployment managed by the operator.
// The spec is kept opaque; the harness never interprets it.
type ClickHouseInstallation struct {
	metav1.TypeMeta   `json:",inline"`
	metav1.ObjectMeta `json:"metadata,omitempty"`

	Spec   runtime.RawExtension         `json:"spec,omitempty"`
	Status ClickHouseInstallationStatus `json:"status,omitempty"`
}

// ClickHouseInstallationList contains a list of ClickHouseInstallation
type ClickHouseInstallationList struct {
	metav1.TypeMeta `json:",inline"`
	metav1.ListMeta `json:"metadata,omitempty"`
	Items           []ClickHouseInstallation `json:"items"`
}

// IsInstallation reports whether the object declares the ClickHouseInstallation kind.
func (c *ClickHouseInstallation) IsInstallation() bool {
	return c.Kind == KindInstallation
}

// Selector returns the label selector matching every object of the named installation.
func Selector(chi string) string {
	return fmt.Sprintf("%s=%s", LabelChi, chi)
}
