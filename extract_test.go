package maxcov

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.solver4all.com/azaryc2s/maxcov/mip"
)

func TestExtractTours(t *testing.T) {
	inst := threeClients(t)
	l := NewLayout(3, 2)

	res, err := Extract(inst, l, assignment(inst, [][]int{{0}, {2, 1}}), mip.StatusOptimal)
	require.NoError(t, err)
	assert.True(t, res.Optimal)
	assert.Equal(t, []int{0, 1, 2}, res.Coverage)
	assert.Equal(t, 3.0, res.ObjectiveValue)
	require.Len(t, res.Tours, 2)

	assert.Equal(t, Tour{Vehicle: 0, Depot: 3, Edges: []Edge{{3, 0}, {0, 3}}, Clients: []int{0}, Cost: 2, Budget: 2}, res.Tours[0])
	assert.Equal(t, []Edge{{4, 2}, {2, 1}, {1, 4}}, res.Tours[1].Edges)
	assert.Equal(t, []int{2, 1}, res.Tours[1].Clients)
	assert.InDelta(t, 2.9, res.Tours[1].Cost, 1e-9)
}

func TestExtractIdleVehicle(t *testing.T) {
	inst := threeClients(t)
	res, err := Extract(inst, NewLayout(3, 2), assignment(inst, [][]int{{}, {2, 1}}), mip.StatusOptimal)
	require.NoError(t, err)
	assert.Equal(t, []Edge{{3, 3}}, res.Tours[0].Edges)
	assert.Empty(t, res.Tours[0].Clients)
	assert.Equal(t, 0.0, res.Tours[0].Cost)
	assert.Equal(t, []int{1, 2}, res.Coverage)
}

func TestExtractNoClients(t *testing.T) {
	inst := squareInstance(t, 0, 2, 0)
	res, err := Extract(inst, NewLayout(0, 2), assignment(inst, [][]int{{}, {}}), mip.StatusOptimal)
	require.NoError(t, err)
	assert.Equal(t, []int{}, res.Coverage)
	assert.Equal(t, 0.0, res.ObjectiveValue)
	assert.Equal(t, []Edge{{1, 1}}, res.Tours[1].Edges)
}

func TestExtractRejects(t *testing.T) {
	inst := squareInstance(t, 3, 1, 10)
	l := NewLayout(3, 1)

	tests := []struct {
		name   string
		status mip.Status
		edit   func(values []float64)
		msg    string
	}{
		{
			name:   "cycle off the depot walk",
			status: mip.StatusOptimal,
			edit: func(v []float64) {
				v[l.Edge(0, 1, 2)] = 1
				v[l.Edge(0, 2, 1)] = 1
			},
			msg: "miss the depot",
		},
		{
			name:   "covered client without a tour",
			status: mip.StatusOptimal,
			edit:   func(v []float64) { v[l.Visit(2)] = 1 },
			msg:    "no tour visits it",
		},
		{
			name:   "toured client not covered",
			status: mip.StatusOptimal,
			edit:   func(v []float64) { v[l.Visit(0)] = 0 },
			msg:    "not counted as covered",
		},
		{
			name:   "depot left twice",
			status: mip.StatusOptimal,
			edit:   func(v []float64) { v[l.Edge(0, 3, 3)] = 1 },
			msg:    "left more than once",
		},
		{
			name:   "depot never left",
			status: mip.StatusOptimal,
			edit: func(v []float64) {
				v[l.Edge(0, 3, 0)] = 0
				v[l.Edge(0, 0, 3)] = 0
				v[l.Visit(0)] = 0
			},
			msg: "never left",
		},
		{
			name:   "walk stops",
			status: mip.StatusOptimal,
			edit:   func(v []float64) { v[l.Edge(0, 0, 3)] = 0 },
			msg:    "stops at node 0",
		},
		{
			name:   "client self-loop",
			status: mip.StatusOptimal,
			edit:   func(v []float64) { v[l.Edge(0, 1, 1)] = 1 },
			msg:    "self-loop",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values := assignment(inst, [][]int{{0}})
			tt.edit(values)
			_, err := Extract(inst, l, values, tt.status)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrConsistency)
			assert.Contains(t, err.Error(), tt.msg)
		})
	}
}

func TestExtractStoppedKeepsUncountedClients(t *testing.T) {
	inst := squareInstance(t, 3, 1, 10)
	l := NewLayout(3, 1)
	values := assignment(inst, [][]int{{0, 1}})
	values[l.Visit(1)] = 0

	res, err := Extract(inst, l, values, mip.StatusStopped)
	require.NoError(t, err)
	assert.False(t, res.Optimal)
	assert.Equal(t, []int{0}, res.Coverage)
	assert.Equal(t, []int{0, 1}, res.Tours[0].Clients)

	_, err = Extract(inst, l, values, mip.StatusOptimal)
	assert.ErrorIs(t, err, ErrConsistency)
}

func TestExtractOverBudget(t *testing.T) {
	inst := squareInstance(t, 3, 1, 2)
	_, err := Extract(inst, NewLayout(3, 1), assignment(inst, [][]int{{0, 1, 2}}), mip.StatusOptimal)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "exceeds budget")
}

func TestExtractValueCount(t *testing.T) {
	inst := squareInstance(t, 1, 1, 2)
	_, err := Extract(inst, NewLayout(1, 1), make([]float64, 3), mip.StatusOptimal)
	var cerr *ConsistencyError
	require.ErrorAs(t, err, &cerr)
	assert.Equal(t, -1, cerr.Vehicle)
}
