package client_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LogicIQ/chicheck/sdk/go/client"
	"github.com/LogicIQ/chicheck/sdk/go/client/fake"
)

func item(kind, name string) map[string]interface{} {
	return map[string]interface{}{
		"apiVersion": "v1",
		"kind":       kind,
		"metadata":   map[string]interface{}{"name": name},
	}
}

func TestRun_TransportError(t *testing.T) {
	exec := fake.NewExecutor().
		On("-n test get chi demo -o json", fake.Fail(1, `Error from server (NotFound): clickhouseinstallations.clickhouse.altinity.com "demo" not found`))
	c, _ := fake.NewClient(exec, "test")

	_, err := c.Get(context.Background(), client.ResourceRef{Kind: "chi", Name: "demo"})
	require.Error(t, err)
	assert.True(t, client.IsTransport(err))
	assert.Contains(t, err.Error(), "exit code 1")
	assert.Contains(t, err.Error(), "not found")
}

func TestRun_Timeout(t *testing.T) {
	exec := fake.NewExecutor().On("-n test get pod -o json", fake.TimedOut())
	c, _ := fake.NewClient(exec, "test")

	_, err := c.Kubectl(context.Background(), []string{"get", "pod", "-o", "json"}, client.TolerateFailure())
	require.Error(t, err)
	assert.True(t, client.IsTransport(err))
	assert.Contains(t, err.Error(), "timed out")

	res, err := c.Run(context.Background(), []string{"get", "pod", "-o", "json"}, client.TolerateTimeout())
	require.NoError(t, err)
	assert.True(t, res.TimedOut)
}

func TestRun_PassesTimeout(t *testing.T) {
	exec := fake.NewExecutor().On("-n test delete chi demo", fake.OK(""))
	c, _ := fake.NewClient(exec, "test")

	require.NoError(t, c.Delete(context.Background(), "chi", "demo", 900*time.Second))
	assert.Equal(t, 900*time.Second, exec.LastTimeout())
}

func TestGetCount(t *testing.T) {
	tests := []struct {
		name     string
		result   *client.Result
		expected int
	}{
		{"list of three", fake.List(item("Pod", "a"), item("Pod", "b"), item("Pod", "c")), 3},
		{"empty list", fake.List(), 0},
		{"non-zero exit counts as zero", fake.Fail(1, "error: the server doesn't have a resource type \"chi\""), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exec := fake.NewExecutor().On("-n test get pod -l app=x -o json", tt.result)
			c, _ := fake.NewClient(exec, "test")

			n, err := c.GetCount(context.Background(), client.ResourceRef{Kind: "pod", Selector: "app=x"})
			require.NoError(t, err)
			assert.Equal(t, tt.expected, n)
		})
	}
}

func TestGetCount_SingleObject(t *testing.T) {
	exec := fake.NewExecutor().On("-n test get service demo -o json", fake.JSON(item("Service", "demo")))
	c, _ := fake.NewClient(exec, "test")

	n, err := c.GetCount(context.Background(), client.ResourceRef{Kind: "service", Name: "demo"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetCount_AllNamespaces(t *testing.T) {
	exec := fake.NewExecutor().On("--all-namespaces get pod -o json", fake.List(item("Pod", "a")))
	c, _ := fake.NewClient(exec, "test")

	n, err := c.GetCount(context.Background(), client.ResourceRef{Kind: "pod"}, client.InAllNamespaces())
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestGetCount_EmptyNamespace(t *testing.T) {
	exec := fake.NewExecutor().On("--all-namespaces get chi -o json", fake.List(item("ClickHouseInstallation", "a"), item("ClickHouseInstallation", "b")))
	c, _ := fake.NewClient(exec, "test")

	n, err := c.GetCount(context.Background(), client.ResourceRef{Kind: "chi"}, client.InNamespace(""))
	require.NoError(t, err)
	assert.Equal(t, 2, n)
}

func TestGetCount_Malformed(t *testing.T) {
	exec := fake.NewExecutor().On("-n test get pod -o json", fake.OK("NAME READY\nfoo 1/1"))
	c, _ := fake.NewClient(exec, "test")

	_, err := c.GetCount(context.Background(), client.ResourceRef{Kind: "pod"})
	require.Error(t, err)
	assert.True(t, client.IsMalformed(err))
}

func TestCountResources(t *testing.T) {
	sel := "clickhouse.altinity.com/chi=demo"
	exec := fake.NewExecutor().
		On("-n test get sts -l "+sel+" -o json", fake.List(item("StatefulSet", "a"))).
		On("-n test get pod -l "+sel+" -o json", fake.List(item("Pod", "a"), item("Pod", "b"), item("Pod", "c"))).
		On("-n test get service -l "+sel+" -o json", fake.List(item("Service", "a")))
	c, _ := fake.NewClient(exec, "test")

	counts, err := c.CountResources(context.Background(), sel)
	require.NoError(t, err)
	assert.Equal(t, client.Triple{StatefulSets: 1, Pods: 3, Services: 1}, counts)
}

func TestGetField(t *testing.T) {
	chi := map[string]interface{}{
		"apiVersion": "clickhouse.altinity.com/v1",
		"kind":       "ClickHouseInstallation",
		"metadata":   map[string]interface{}{"name": "demo"},
		"status":     map[string]interface{}{"status": "Completed", "pods": []interface{}{"p0", "p1"}},
	}
	exec := fake.NewExecutor().On("-n test get chi demo -o json", fake.JSON(chi))
	c, _ := fake.NewClient(exec, "test")
	ref := client.ResourceRef{Kind: "chi", Name: "demo"}

	status, err := c.GetField(context.Background(), ref, ".status.status")
	require.NoError(t, err)
	assert.Equal(t, "Completed", status)

	missing, err := c.GetField(context.Background(), ref, ".status.endpoint")
	require.NoError(t, err)
	assert.Equal(t, client.NoneValue, missing)

	first, err := c.GetJSONPath(context.Background(), ref, "{.status.pods[0]}")
	require.NoError(t, err)
	assert.Equal(t, "p0", first)
}

func TestGetField_List(t *testing.T) {
	exec := fake.NewExecutor().
		On("-n test get pod -l app=x -o json", fake.List(
			map[string]interface{}{"kind": "Pod", "status": map[string]interface{}{"phase": "Running"}},
			map[string]interface{}{"kind": "Pod", "status": map[string]interface{}{"phase": "Pending"}},
		)).
		On("-n test get pod -l app=y -o json", fake.List())
	c, _ := fake.NewClient(exec, "test")

	phase, err := c.GetField(context.Background(), client.ResourceRef{Kind: "pod", Selector: "app=x"}, ".status.phase")
	require.NoError(t, err)
	assert.Equal(t, "Running", phase)

	_, err = c.GetField(context.Background(), client.ResourceRef{Kind: "pod", Selector: "app=y"}, ".status.phase")
	require.Error(t, err)
	assert.True(t, client.IsMalformed(err))
}

func TestEvalJSONPath(t *testing.T) {
	obj := map[string]interface{}{
		"spec": map[string]interface{}{
			"type":  "LoadBalancer",
			"ports": []interface{}{map[string]interface{}{"port": int64(8123)}, map[string]interface{}{"port": int64(9000)}},
		},
	}

	v, err := client.EvalJSONPath(obj, ".spec.type")
	require.NoError(t, err)
	assert.Equal(t, "LoadBalancer", v)

	v, err = client.EvalJSONPath(obj, "{.spec.ports[*].port}")
	require.NoError(t, err)
	assert.Equal(t, "8123 9000", v)

	_, err = client.EvalJSONPath(obj, "{.spec.ports[")
	assert.Error(t, err)
}

func TestApplyAndDelete(t *testing.T) {
	exec := fake.NewExecutor().
		On("-n test apply --validate=true -f /tmp/demo.yaml", fake.OK("clickhouseinstallation.clickhouse.altinity.com/demo created")).
		On("-n test delete -f /tmp/demo.yaml", fake.OK("deleted")).
		On("-n test patch chi demo --type=merge -p {\"metadata\":{\"finalizers\":null}}", fake.OK("patched"))
	c, _ := fake.NewClient(exec, "test")
	ctx := context.Background()

	require.NoError(t, c.Apply(ctx, "/tmp/demo.yaml", true))
	assert.Equal(t, client.DefaultApplyTimeout, exec.LastTimeout())

	require.NoError(t, c.DeleteFile(ctx, "/tmp/demo.yaml"))
	assert.Equal(t, client.DefaultDeleteTimeout, exec.LastTimeout())

	require.NoError(t, c.Patch(ctx, "chi", "demo", "merge", `{"metadata":{"finalizers":null}}`))
}
