// Package chicheck provides a Go SDK for testing the ClickHouse operator through kubectl
package chicheck

import (
	"github.com/LogicIQ/chicheck/sdk/go/client"
	"github.com/LogicIQ/chicheck/sdk/go/configmap"
	"github.com/LogicIQ/chicheck/sdk/go/field"
	"github.com/LogicIQ/chicheck/sdk/go/installation"
	"github.com/LogicIQ/chicheck/sdk/go/namespace"
	"github.com/LogicIQ/chicheck/sdk/go/objects"
	"github.com/LogicIQ/chicheck/sdk/go/pod"
	"github.com/LogicIQ/chicheck/sdk/go/service"
	"github.com/LogicIQ/chicheck/sdk/go/storage"
)

// Client is the main chicheck client
type Client = client.Client

// Config holds client configuration
type Config = client.Config

// Options for a single call
type Options = client.Options

// Checks declares what CreateAndCheck verifies
type Checks = installation.Checks

// Option functions
var (
	InNamespace     = client.InNamespace
	InAllNamespaces = client.InAllNamespaces
	ClusterScoped   = client.ClusterScoped
	WithTimeout     = client.WithTimeout
	WithRetries     = client.WithRetries
	TolerateFailure = client.TolerateFailure
	TolerateTimeout = client.TolerateTimeout
)

// New creates a new chicheck client
var New = client.New

// NewWithExecutor creates a chicheck client from an existing command executor
var NewWithExecutor = client.NewWithExecutor

// Installation operations
var (
	Apply          = installation.Apply
	DeleteManifest = installation.DeleteManifest
	DeleteChi      = installation.Delete
	DeleteAllChi   = installation.DeleteAll
	CreateAndCheck = installation.CreateAndCheck
	LoadChecks     = installation.LoadChecks
	ReadChiName    = installation.ReadName
	WaitChiStatus  = installation.WaitStatus
	GetChiStatus   = installation.GetStatus
)

// Object count operations
var (
	CountResources = objects.CountResources
	WaitObjects    = objects.WaitObjects
	GetCount       = objects.Count
	WaitObject     = objects.WaitObject
)

// Field operations
var (
	GetField     = field.Get
	WaitField    = field.Wait
	GetJSONPath  = field.GetJSONPath
	WaitJSONPath = field.WaitJSONPath
)

// Pod operations
var (
	GetPodSpec        = pod.GetSpec
	GetPodImage       = pod.GetImage
	GetPodNames       = pod.GetNames
	GetPodVolumes     = pod.GetVolumes
	GetPodPorts       = pod.GetPorts
	WaitPodStatus     = pod.WaitPhase
	CheckPodImage     = pod.CheckImage
	CheckPodVolumes   = pod.CheckVolumes
	CheckPodPorts     = pod.CheckPorts
	CheckAntiAffinity = pod.CheckAntiAffinity
)

// Service and config-map operations
var (
	CheckService    = service.Check
	CheckConfigMap  = configmap.Check
	CheckConfigMaps = configmap.CheckInstallation
)

// Storage operations
var (
	GetDefaultStorageClass = storage.GetDefaultClass
	GetPVCSize             = storage.GetPVCSize
)

// Namespace operations
var (
	CreateNamespace = namespace.Create
	DeleteNamespace = namespace.Delete
)
