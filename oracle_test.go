package maxcov

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"git.solver4all.com/azaryc2s/maxcov/mip"
)

// oracleEngine solves tiny instances by enumerating every budget-feasible client
// sequence per vehicle. It answers each objective level with the plan of highest
// coverage and, among those, lowest travel cost, so it ignores pinning rows.
type oracleEngine struct {
	inst *Instance
}

type plan struct {
	seqs     [][]int
	covered  int
	cost     float64
	assigned bool
}

func (o oracleEngine) Optimize(_ context.Context, p *mip.Program, obj mip.Objective) (*mip.Solution, error) {
	inst := o.inst
	perVehicle := make([][][]int, inst.U())
	for u := range perVehicle {
		perVehicle[u] = feasibleSequences(inst, u)
	}

	var best plan
	current := make([][]int, inst.U())
	var walk func(u int)
	walk = func(u int) {
		if u == inst.U() {
			seen := map[int]bool{}
			cost := 0.0
			for v, seq := range current {
				cost += sequenceCost(inst, v, seq)
				for _, c := range seq {
					seen[c] = true
				}
			}
			if !best.assigned || len(seen) > best.covered || (len(seen) == best.covered && cost < best.cost-1e-9) {
				best = plan{seqs: append([][]int(nil), current...), covered: len(seen), cost: cost, assigned: true}
			}
			return
		}
		for _, seq := range perVehicle[u] {
			current[u] = seq
			walk(u + 1)
		}
	}
	walk(0)

	values := assignment(inst, best.seqs)
	if len(values) != len(p.Vars) {
		values = append(values, make([]float64, len(p.Vars)-len(values))...)
	}
	val := obj.Value(values)
	return &mip.Solution{Status: mip.StatusOptimal, Objective: val, Bound: val, Values: values}, nil
}

// feasibleSequences lists every ordered client subset vehicle u can afford,
// the empty one included. Costs may break the triangle inequality, so a prefix
// is only dropped once its open path from the depot is over budget.
func feasibleSequences(inst *Instance, u int) [][]int {
	out := [][]int{{}}
	d := inst.Depot(u)
	used := make([]bool, inst.N())
	var extend func(seq []int, path float64)
	extend = func(seq []int, path float64) {
		last := d
		if len(seq) > 0 {
			last = seq[len(seq)-1]
		}
		for c := 0; c < inst.N(); c++ {
			if used[c] {
				continue
			}
			open := path + inst.Cost(last, c)
			if open > inst.Budget(u) {
				continue
			}
			next := append(append([]int(nil), seq...), c)
			if open+inst.Cost(c, d) <= inst.Budget(u) {
				out = append(out, next)
			}
			used[c] = true
			extend(next, open)
			used[c] = false
		}
	}
	extend(nil, 0)
	return out
}

func sequenceCost(inst *Instance, u int, seq []int) float64 {
	if len(seq) == 0 {
		return 0
	}
	d := inst.Depot(u)
	cost := inst.Cost(d, seq[0]) + inst.Cost(seq[len(seq)-1], d)
	for k := 1; k < len(seq); k++ {
		cost += inst.Cost(seq[k-1], seq[k])
	}
	return cost
}

// assignment encodes one client sequence per vehicle as a full variable vector.
func assignment(inst *Instance, seqs [][]int) []float64 {
	n := inst.N()
	l := NewLayout(n, inst.U())
	values := make([]float64, l.Count)
	for u, seq := range seqs {
		for i := 0; i < n; i++ {
			values[l.Order(u, i)] = 1
		}
		if len(seq) == 0 {
			values[l.Edge(u, n, n)] = 1
			continue
		}
		prev := n
		for pos, c := range seq {
			values[l.Visit(c)] = 1
			values[l.Order(u, c)] = float64(pos + 1)
			values[l.Edge(u, prev, c)] = 1
			prev = c
		}
		values[l.Edge(u, prev, n)] = 1
	}
	return values
}

// threeClients is small enough to check by hand: vehicle 0 (depot 3, budget 2)
// can only afford 3-0-3 at cost 2, vehicle 1 (depot 4, budget 3) only 4-2-1-4
// at cost 0.9+0.5+1.5.
func threeClients(t *testing.T) *Instance {
	t.Helper()
	inst, err := NewInstance(3, 2, [][]float64{
		{0, 5, 5, 1, 5},
		{5, 0, 5, 5, 1.5},
		{5, 0.5, 0, 5, 5},
		{1, 5, 5, 0, 5},
		{5, 5, 0.9, 5, 0},
	}, []float64{2, 3})
	require.NoError(t, err)
	return inst
}

// sharedClient has one client both vehicles can reach, vehicle 1 more cheaply.
func sharedClient(t *testing.T) *Instance {
	t.Helper()
	inst, err := NewInstance(1, 2, [][]float64{
		{0, 1, 0.5},
		{1, 0, 3},
		{0.5, 3, 0},
	}, []float64{5, 5})
	require.NoError(t, err)
	return inst
}

func squareInstance(t *testing.T, n, u int, budget float64) *Instance {
	t.Helper()
	dim := n + u
	cost := make([][]float64, dim)
	for i := range cost {
		cost[i] = make([]float64, dim)
		for j := range cost[i] {
			if i != j {
				cost[i][j] = 1
			}
		}
	}
	budgets := make([]float64, u)
	for v := range budgets {
		budgets[v] = budget
	}
	inst, err := NewInstance(n, u, cost, budgets)
	require.NoError(t, err)
	return inst
}
