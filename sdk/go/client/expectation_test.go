package client_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LogicIQ/chicheck/sdk/go/client"
)

func TestExpectations(t *testing.T) {
	tests := []struct {
		name     string
		expect   client.Expectation
		observed client.Observed
		want     bool
	}{
		{"scalar equal", client.Equals("Completed"), client.Scalar("Completed"), true},
		{"scalar differs", client.Equals("Completed"), client.Scalar("InProgress"), false},
		{"at least more", client.AtLeast(3), client.Count(5), true},
		{"at least equal", client.AtLeast(3), client.Count(3), true},
		{"at least fewer", client.AtLeast(3), client.Count(2), false},
		{"triple exact", client.Counts(client.Triple{StatefulSets: 1, Pods: 3, Services: 1}), client.Triple{StatefulSets: 1, Pods: 3, Services: 1}, true},
		{"triple close", client.Counts(client.Triple{StatefulSets: 1, Pods: 3, Services: 1}), client.Triple{StatefulSets: 1, Pods: 3, Services: 2}, false},
		{"triple zero", client.Counts(client.Triple{}), client.Triple{}, true},
		{"same set reordered", client.SameSet("a", "b", "c"), client.Set{"c", "a", "b"}, true},
		{"same set missing", client.SameSet("a", "b", "c"), client.Set{"a", "b"}, false},
		{"same set extra", client.SameSet("a", "b"), client.Set{"a", "b", "c"}, false},
		{"same set duplicates differ", client.SameSet("a", "a", "b"), client.Set{"a", "b", "b"}, false},
		{"ports equal", client.SamePorts(9000, 8123, 9009), client.Set{"8123", "9000", "9009"}, true},
		{"ports differ", client.SamePorts(9000, 8123, 9009), client.Set{"8123", "9000", "9010"}, false},
		{"contains all subset", client.ContainsAll("a", "b"), client.Set{"a", "b", "c"}, true},
		{"contains all missing", client.ContainsAll("a", "d"), client.Set{"a", "b", "c"}, false},
		{"contains none expected", client.ContainsAll(), client.Set{}, true},
		{
			"document equal",
			client.StructurallyEquals(client.Document{"topologyKey": "kubernetes.io/hostname"}),
			client.Document{"topologyKey": "kubernetes.io/hostname"},
			true,
		},
		{
			"document extra key",
			client.StructurallyEquals(client.Document{"topologyKey": "kubernetes.io/hostname"}),
			client.Document{"topologyKey": "kubernetes.io/hostname", "namespaces": []interface{}{"test"}},
			false,
		},
		{
			"document absent",
			client.StructurallyEquals(client.Document{"topologyKey": "kubernetes.io/hostname"}),
			client.Document(nil),
			false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.expect.Match(tt.observed)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestExpectations_ShapeMismatch(t *testing.T) {
	tests := []struct {
		name     string
		expect   client.Expectation
		observed client.Observed
	}{
		{"scalar vs count", client.Equals("1"), client.Count(1)},
		{"count vs triple", client.AtLeast(1), client.Triple{Pods: 1}},
		{"triple vs count", client.Counts(client.Triple{Pods: 1}), client.Count(1)},
		{"set vs scalar", client.SameSet("a"), client.Scalar("a")},
		{"subset vs document", client.ContainsAll("a"), client.Document{"a": 1}},
		{"document vs set", client.StructurallyEquals(client.Document{}), client.Set{}},
		{"nil observed", client.Equals("x"), nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tt.expect.Match(tt.observed)
			require.Error(t, err)
			assert.True(t, client.IsShape(err))
		})
	}
}

func TestDiff(t *testing.T) {
	expect := client.StructurallyEquals(client.Document{"topologyKey": "kubernetes.io/hostname"})

	assert.Empty(t, client.Diff(expect, client.Document{"topologyKey": "kubernetes.io/hostname"}))
	assert.Contains(t, client.Diff(expect, client.Document{"topologyKey": "topology.kubernetes.io/zone"}), "topology.kubernetes.io/zone")
	assert.Empty(t, client.Diff(client.Equals("x"), client.Scalar("y")))
}

func TestObservedString(t *testing.T) {
	assert.Equal(t, `"Completed"`, client.Scalar("Completed").String())
	assert.Equal(t, "3", client.Count(3).String())
	assert.Equal(t, "[1, 3, 1]", client.Triple{StatefulSets: 1, Pods: 3, Services: 1}.String())
	assert.Equal(t, "[a, b]", client.Set{"a", "b"}.String())
	assert.Equal(t, "<absent>", client.Document(nil).String())
}
