package field

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LogicIQ/chicheck/sdk/go/client"
	"github.com/LogicIQ/chicheck/sdk/go/client/fake"
)

func chi(status string) *client.Result {
	obj := map[string]interface{}{
		"apiVersion": "clickhouse.altinity.com/v1",
		"kind":       "ClickHouseInstallation",
		"metadata":   map[string]interface{}{"name": "demo"},
	}
	if status != "" {
		obj["status"] = map[string]interface{}{"status": status}
	}
	return fake.JSON(obj)
}

func TestWait_EventuallyCompleted(t *testing.T) {
	exec := fake.NewExecutor().
		On("-n test get chi demo -o json", chi(""), chi("InProgress"), chi("InProgress"), chi("Completed"))
	c, sleeper := fake.NewClient(exec, "test")

	err := Wait(c, context.Background(), "chi", "demo", ".status.status", "Completed")
	require.NoError(t, err)
	assert.Equal(t, []time.Duration{5 * time.Second, 10 * time.Second, 15 * time.Second}, sleeper.Delays())
	assert.Equal(t, 4, exec.CallCount("-n test get chi demo -o json"))
}

func TestWait_NeverCompleted(t *testing.T) {
	exec := fake.NewExecutor().On("-n test get chi demo -o json", chi("InProgress"))
	c, _ := fake.NewClient(exec, "test")

	err := Wait(c, context.Background(), "chi", "demo", ".status.status", "Completed", client.WithRetries(4))
	require.Error(t, err)
	assert.True(t, client.IsAssertion(err))
	assert.Contains(t, err.Error(), `observed "InProgress"`)
	assert.Equal(t, 3, exec.CallCount("-n test get chi demo -o json"))
}

func TestWait_ObjectMissingIsFatal(t *testing.T) {
	exec := fake.NewExecutor().On("-n test get chi demo -o json", fake.Fail(1, "NotFound"))
	c, sleeper := fake.NewClient(exec, "test")

	err := Wait(c, context.Background(), "chi", "demo", ".status.status", "Completed")
	require.Error(t, err)
	assert.True(t, client.IsTransport(err))
	assert.Empty(t, sleeper.Delays())
}

func TestGet(t *testing.T) {
	exec := fake.NewExecutor().On("-n test get chi demo -o json", chi(""))
	c, _ := fake.NewClient(exec, "test")

	v, err := Get(c, context.Background(), "chi", "demo", ".status.status")
	require.NoError(t, err)
	assert.Equal(t, client.NoneValue, v)
}

func TestWaitJSONPath(t *testing.T) {
	pod := func(phase string) *client.Result {
		return fake.JSON(map[string]interface{}{"kind": "Pod", "status": map[string]interface{}{"phase": phase}})
	}
	exec := fake.NewExecutor().On("-n test get pod chi-demo-0 -o json", pod("Pending"), pod("Running"))
	c, sleeper := fake.NewClient(exec, "test")

	err := WaitJSONPath(c, context.Background(), "pod", "chi-demo-0", "{.status.phase}", "Running")
	require.NoError(t, err)
	assert.Len(t, sleeper.Delays(), 1)

	v, err := GetJSONPath(c, context.Background(), "pod", "chi-demo-0", "{.status.phase}")
	require.NoError(t, err)
	assert.Equal(t, "Running", v)
}
