package tsp

import (
	"context"
	"testing"

	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.solver4all.com/azaryc2s/maxcov/mip"
)

// permEngine tries every tour starting at node 0.
type permEngine struct {
	d [][]float64
}

func (e permEngine) Optimize(_ context.Context, p *mip.Program, obj mip.Objective) (*mip.Solution, error) {
	n := len(e.d)
	var best []int
	bestLen := 0.0
	var perm func(tour []int, used []bool)
	perm = func(tour []int, used []bool) {
		if len(tour) == n {
			if l := Length(e.d, tour); best == nil || l < bestLen {
				best, bestLen = append([]int(nil), tour...), l
			}
			return
		}
		for j := 1; j < n; j++ {
			if !used[j] {
				used[j] = true
				perm(append(tour, j), used)
				used[j] = false
			}
		}
	}
	perm([]int{0}, make([]bool, n))

	values := make([]float64, len(p.Vars))
	for k, i := range best {
		values[Edge(n, i, best[(k+1)%n])] = 1
		if i > 0 {
			values[Order(n, i)] = float64(k)
		}
	}
	return &mip.Solution{Status: mip.StatusOptimal, Objective: obj.Value(values), Values: values}, nil
}

var square = [][]float64{
	{0, 1, 9, 2},
	{9, 0, 1, 9},
	{9, 9, 0, 1},
	{1, 9, 9, 0},
}

func TestBuild(t *testing.T) {
	p := Build(square)
	assert.Len(t, p.Vars, 16+3)
	assert.Len(t, p.Constrs, 8+6)
	assert.Equal(t, "x_2_3", p.Vars[Edge(4, 2, 3)].Name)
	assert.Equal(t, "u_3", p.Vars[Order(4, 3)].Name)
	assert.Equal(t, 0.0, p.Vars[Edge(4, 1, 1)].UB)
}

func TestSolve(t *testing.T) {
	logger, _ := test.NewNullLogger()
	tour, length, err := Solve(context.Background(), permEngine{square}, square, logger)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, tour)
	assert.Equal(t, 4.0, length)

	values := make([]float64, 19)
	for k, i := range tour {
		values[Edge(4, i, tour[(k+1)%4])] = 1
		if i > 0 {
			values[Order(4, i)] = float64(k)
		}
	}
	assert.Empty(t, Build(square).Violations(values, 1e-6))
}

func TestSolveTrivial(t *testing.T) {
	tour, length, err := Solve(context.Background(), nil, [][]float64{{0}}, nil)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, tour)
	assert.Zero(t, length)
}

func TestSolveWithoutTour(t *testing.T) {
	eng := mip.EngineFunc(func(context.Context, *mip.Program, mip.Objective) (*mip.Solution, error) {
		return &mip.Solution{Status: mip.StatusInfeasible}, nil
	})
	logger, _ := test.NewNullLogger()
	_, _, err := Solve(context.Background(), eng, square, logger)
	assert.ErrorIs(t, err, ErrNoTour)
}

func TestFindTourRejectsSubtours(t *testing.T) {
	x := make([]float64, 16)
	x[Edge(4, 0, 1)] = 1
	x[Edge(4, 1, 0)] = 1
	x[Edge(4, 2, 3)] = 1
	x[Edge(4, 3, 2)] = 1
	_, err := findTour(x, 4)
	assert.ErrorIs(t, err, ErrNoTour)
}

func TestSub(t *testing.T) {
	assert.Equal(t, [][]float64{{0, 1}, {2, 0}}, Sub(square, []int{3, 0}))
}
