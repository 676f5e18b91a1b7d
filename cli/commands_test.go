package main

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	corev1 "k8s.io/api/core/v1"
	metav1 "k8s.io/apimachinery/pkg/apis/meta/v1"

	"github.com/LogicIQ/chicheck/sdk/go/client"
	"github.com/LogicIQ/chicheck/sdk/go/client/fake"
)

const sel = "clickhouse.altinity.com/chi=demo"

func items(kind string, n int) *client.Result {
	objs := make([]interface{}, 0, n)
	for i := 0; i < n; i++ {
		objs = append(objs, map[string]interface{}{"kind": kind, "metadata": map[string]interface{}{"name": kind}})
	}
	return fake.List(objs...)
}

func demoPod() *corev1.Pod {
	return &corev1.Pod{
		TypeMeta:   metav1.TypeMeta{APIVersion: "v1", Kind: "Pod"},
		ObjectMeta: metav1.ObjectMeta{Name: "chi-demo-0", Namespace: "test"},
		Spec: corev1.PodSpec{Containers: []corev1.Container{{
			Name:  "clickhouse",
			Image: "clickhouse/clickhouse-server:24.3",
			Ports: []corev1.ContainerPort{{ContainerPort: 8123}, {ContainerPort: 9000}},
		}}},
	}
}

func TestWaitObjectsCmd(t *testing.T) {
	exec := fake.NewExecutor().
		On("-n test get sts -l "+sel+" -o json", items("StatefulSet", 0), items("StatefulSet", 1)).
		On("-n test get pod -l "+sel+" -o json", items("Pod", 2)).
		On("-n test get service -l "+sel+" -o json", items("Service", 1))
	sleeper := useFakeClient(t, exec)

	output, err := executeCommandWithOutput(t, newWaitObjectsCmd(), "demo", "--pods", "2")
	require.NoError(t, err)
	assert.Contains(t, output, "[1, 2, 1]")
	assert.Equal(t, []time.Duration{5 * time.Second}, sleeper.Delays())
}

func TestWaitStatusCmd(t *testing.T) {
	status := func(s string) *client.Result {
		return fake.JSON(map[string]interface{}{"kind": "ClickHouseInstallation", "status": map[string]interface{}{"status": s}})
	}
	exec := fake.NewExecutor().On("-n test get chi demo -o json", status("InProgress"), status("Completed"))
	useFakeClient(t, exec)

	output, err := executeCommandWithOutput(t, newWaitStatusCmd(), "demo")
	require.NoError(t, err)
	assert.Contains(t, output, "chi 'demo' is Completed")
}

func TestWaitCountCmd_Exhausted(t *testing.T) {
	exec := fake.NewExecutor().On("-n test get pod -l "+sel+" -o json", items("Pod", 1))
	sleeper := useFakeClient(t, exec)

	_, err := executeCommandWithOutput(t, newWaitCountCmd(), "pod", "-l", sel, "--min", "2")
	require.Error(t, err)
	assert.True(t, client.IsAssertion(err))
	assert.Len(t, sleeper.Delays(), client.DefaultMaxRetries-2)
}

func TestCheckPortsCmd(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		wantErr bool
	}{
		{"matching", []string{"demo", "9000", "8123"}, false},
		{"mismatched", []string{"demo", "9000", "8124"}, true},
		{"invalid port", []string{"demo", "http"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := fake.NewExecutor().On("-n test get pod -l "+sel+" -o json", fake.List(demoPod()))
			useFakeClient(t, exec)

			_, err := executeCommandWithOutput(t, newCheckPortsCmd(), tt.args...)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}
}

func TestCheckImageCmd(t *testing.T) {
	exec := fake.NewExecutor().On("-n test get pod -l "+sel+" -o json", fake.List(demoPod()))
	useFakeClient(t, exec)

	output, err := executeCommandWithOutput(t, newCheckImageCmd(), "demo", "clickhouse/clickhouse-server:24.3")
	require.NoError(t, err)
	assert.Contains(t, output, "✓ pod image of chi 'demo'")
}

func TestGetCountCmd_JSON(t *testing.T) {
	exec := fake.NewExecutor().On("--all-namespaces get chi -o json", items("ClickHouseInstallation", 3))
	useFakeClient(t, exec)
	outputFormat = "json"

	cmd := newGetCountCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"chi", "-A"})
	require.NoError(t, cmd.Execute())

	var got map[string]int
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Equal(t, 3, got["count"])
}

func TestGetPodNamesCmd(t *testing.T) {
	exec := fake.NewExecutor().On("-n test get pod -l "+sel+" -o json", items("Pod", 2))
	useFakeClient(t, exec)

	output, err := executeCommandWithOutput(t, newGetPodNamesCmd(), "demo")
	require.NoError(t, err)
	assert.Contains(t, output, "Pod\nPod\n")
}

func TestChiStatusCmd(t *testing.T) {
	exec := fake.NewExecutor().On("-n test get chi demo -o json", fake.JSON(map[string]interface{}{"kind": "ClickHouseInstallation"}))
	useFakeClient(t, exec)

	output, err := executeCommandWithOutput(t, newChiStatusCmd(), "demo")
	require.NoError(t, err)
	assert.Contains(t, output, client.NoneValue)
}

func TestChiNameCmd(t *testing.T) {
	exec := fake.NewExecutor()
	useFakeClient(t, exec)

	path, err := filepath.Abs("../sdk/go/installation/testdata/demo.yaml")
	require.NoError(t, err)
	output, err := executeCommandWithOutput(t, newChiNameCmd(), path)
	require.NoError(t, err)
	assert.Contains(t, output, "demo")
	assert.Empty(t, exec.Calls())
}

func TestChiPatchCmd(t *testing.T) {
	exec := fake.NewExecutor().On(`-n test patch chi demo --type=merge -p {"metadata":{"finalizers":null}}`, fake.OK("patched"))
	useFakeClient(t, exec)

	_, err := executeCommandWithOutput(t, newChiPatchCmd(), "demo", "-p", `{"metadata":{"finalizers":null}}`)
	require.NoError(t, err)
	assert.Len(t, exec.Calls(), 1)
}

func TestChiDeleteAllCmd_NoCRD(t *testing.T) {
	exec := fake.NewExecutor().On("get crd clickhouseinstallations.clickhouse.altinity.com -o json", fake.Fail(1, "not found"))
	useFakeClient(t, exec)

	output, err := executeCommandWithOutput(t, newChiDeleteAllCmd())
	require.NoError(t, err)
	assert.Contains(t, output, "all chi in namespace 'test' deleted")
}

func TestRunCmd(t *testing.T) {
	manifest, err := filepath.Abs("../sdk/go/installation/testdata/demo.yaml")
	require.NoError(t, err)

	status := func(s string) *client.Result {
		return fake.JSON(map[string]interface{}{"kind": "ClickHouseInstallation", "status": map[string]interface{}{"status": s}})
	}
	exec := fake.NewExecutor().
		On("-n test apply --validate=true -f "+manifest, fake.OK("created")).
		On("-n test get chi demo -o json", status("Completed"))
	useFakeClient(t, exec)

	output, err := executeCommandWithOutput(t, newRunCmd(), manifest, "--do-not-delete")
	require.NoError(t, err)
	assert.Contains(t, output, "chi 'demo' passed all checks")
	assert.Equal(t, 0, exec.CallCount("-n test delete chi demo"))
}

func TestNamespaceCmd(t *testing.T) {
	exec := fake.NewExecutor().
		On("create ns scratch", fake.OK("namespace/scratch created")).
		On("get ns scratch", fake.OK("scratch")).
		On("delete ns scratch", fake.TimedOut())
	useFakeClient(t, exec)

	_, err := executeCommandWithOutput(t, newNamespaceCmd(), "create", "scratch")
	require.NoError(t, err)
	_, err = executeCommandWithOutput(t, newNamespaceCmd(), "delete", "scratch")
	require.NoError(t, err)
	assert.Equal(t, []string{"create ns scratch", "get ns scratch", "delete ns scratch"}, exec.Calls())
}

func TestStorageDefaultClassCmd(t *testing.T) {
	exec := fake.NewExecutor().On("get storageclass -o json", fake.List(map[string]interface{}{
		"apiVersion": "storage.k8s.io/v1",
		"kind":       "StorageClass",
		"metadata": map[string]interface{}{
			"name":        "standard",
			"annotations": map[string]interface{}{"storageclass.kubernetes.io/is-default-class": "true"},
		},
		"provisioner": "rancher.io/local-path",
	}))
	useFakeClient(t, exec)

	output, err := executeCommandWithOutput(t, newStorageCmd(), "default-class")
	require.NoError(t, err)
	assert.Contains(t, output, "standard")
}

func TestOperatorCmd(t *testing.T) {
	exec := fake.NewExecutor().
		On("-n kube-system get pod -l app=clickhouse-operator -o json", items("Pod", 1)).
		On("-n kube-system get deployment clickhouse-operator -o json", fake.JSON(map[string]interface{}{
			"kind": "Deployment",
			"spec": map[string]interface{}{"template": map[string]interface{}{"spec": map[string]interface{}{
				"containers": []interface{}{map[string]interface{}{"image": "altinity/clickhouse-operator:0.24.0"}},
			}}},
		}))
	useFakeClient(t, exec)

	output, err := executeCommandWithOutput(t, newOperatorCmd())
	require.NoError(t, err)
	assert.Contains(t, output, "Version: 0.24.0")
	assert.Contains(t, output, "Namespace: kube-system")
}

func TestOperatorCmd_InvalidNamespace(t *testing.T) {
	useFakeClient(t, fake.NewExecutor())

	_, err := executeCommandWithOutput(t, newOperatorCmd(), "--operator-namespace", "Kube_System")
	assert.Error(t, err)
}

func TestOperatorVersion(t *testing.T) {
	tests := map[string]string{
		"altinity/clickhouse-operator:0.24.0":                "0.24.0",
		"registry:5000/altinity/clickhouse-operator":         "unknown",
		"registry:5000/altinity/clickhouse-operator:latest":  "latest",
		"altinity/clickhouse-operator:0.24.0@sha256:abcdef0": "0.24.0",
		"altinity/clickhouse-operator":                       "unknown",
	}
	for image, want := range tests {
		assert.Equal(t, want, operatorVersion(image), image)
	}
}

func TestParsePorts(t *testing.T) {
	ports, err := parsePorts([]string{"8123", "9000"})
	require.NoError(t, err)
	assert.Equal(t, []int32{8123, 9000}, ports)

	for _, bad := range []string{"0", "70000", "-1", "http"} {
		_, err := parsePorts([]string{bad})
		assert.Error(t, err, bad)
	}
}

func TestPrintValue(t *testing.T) {
	origFormat := outputFormat
	t.Cleanup(func() { outputFormat = origFormat })

	outputFormat = "text"
	output, err := executeCommandWithOutput(t, newVersionCmd())
	require.NoError(t, err)
	assert.Contains(t, output, "dev (commit unknown, built unknown)")

	outputFormat = "json"
	cmd := newVersionCmd()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())
	var got map[string]string
	require.NoError(t, json.Unmarshal(buf.Bytes(), &got))
	assert.Contains(t, got["version"], "dev")
}
