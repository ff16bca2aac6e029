// Package tsp computes shortest closed tours over a cost matrix. The generator
// uses them as the reference length when budgets are given relative to it.
package tsp

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"

	"git.solver4all.com/azaryc2s/maxcov/mip"
)

var ErrNoTour = errors.New("tsp: no tour found")

// Edge is the index of x_i_j.
func Edge(n, i, j int) int {
	return i*n + j
}

// Order is the index of the position variable of node i >= 1. Node 0 starts the tour.
func Order(n, i int) int {
	return n*n + i - 1
}

// Build returns the asymmetric TSP over d: one arc out of and into every node,
// no self-loops and MTZ rows against subtours not through node 0.
func Build(d [][]float64) *mip.Program {
	n := len(d)
	p := mip.NewProgram("atsp")
	obj := mip.Objective{Name: "length", Direction: mip.Minimize, Priority: 1}
	for i := 0; i < n; i++ {
		for j := 0; j < n; j++ {
			ub := 1.0
			if i == j {
				ub = 0
			}
			idx := p.AddVar(fmt.Sprintf("x_%d_%d", i, j), mip.Binary, 0, ub)
			if i != j {
				obj.Terms = append(obj.Terms, mip.Term{Var: idx, Coef: d[i][j]})
			}
		}
	}
	for i := 1; i < n; i++ {
		p.AddVar(fmt.Sprintf("u_%d", i), mip.Integer, 1, float64(n-1))
	}

	for i := 0; i < n; i++ {
		var out, in []mip.Term
		for j := 0; j < n; j++ {
			out = append(out, mip.Term{Var: Edge(n, i, j), Coef: 1})
			in = append(in, mip.Term{Var: Edge(n, j, i), Coef: 1})
		}
		p.AddConstr(fmt.Sprintf("deg2o_%d", i), out, mip.Equal, 1)
		p.AddConstr(fmt.Sprintf("deg2i_%d", i), in, mip.Equal, 1)
	}

	// u_j - u_i >= 1 on every used arc between non-start nodes
	for i := 1; i < n; i++ {
		for j := 1; j < n; j++ {
			if i == j {
				continue
			}
			terms := []mip.Term{
				{Var: Order(n, j), Coef: 1},
				{Var: Order(n, i), Coef: -1},
				{Var: Edge(n, i, j), Coef: -float64(n - 1)},
			}
			p.AddConstr(fmt.Sprintf("mtz_%d_%d", i, j), terms, mip.GreaterEqual, -float64(n-2))
		}
	}
	p.AddObjective(obj)
	return p
}

// Solve returns a shortest tour through every node of d, starting at node 0,
// and its length.
func Solve(ctx context.Context, eng mip.Engine, d [][]float64, logger logrus.FieldLogger) ([]int, float64, error) {
	n := len(d)
	switch n {
	case 0:
		return nil, 0, nil
	case 1:
		return []int{0}, 0, nil
	}
	sol, err := mip.Solve(ctx, eng, Build(d), mip.SolveOptions{Logger: logger})
	if err != nil {
		return nil, 0, err
	}
	if !sol.HasValues() {
		return nil, 0, fmt.Errorf("%w: status %s", ErrNoTour, sol.Status)
	}
	tour, err := findTour(sol.Values, n)
	if err != nil {
		return nil, 0, err
	}
	return tour, Length(d, tour), nil
}

// findTour follows the chosen arcs from node 0 and fails unless they form one
// cycle through all n nodes.
func findTour(x []float64, n int) ([]int, error) {
	tour := make([]int, 0, n)
	seen := make([]bool, n)
	node := 0
	for len(tour) < n {
		if seen[node] {
			return nil, fmt.Errorf("%w: subtour of length %d", ErrNoTour, len(tour))
		}
		seen[node] = true
		tour = append(tour, node)
		next := -1
		for j := 0; j < n; j++ {
			if x[Edge(n, node, j)] >= 0.5 {
				next = j
				break
			}
		}
		if next < 0 {
			return nil, fmt.Errorf("%w: node %d is never left", ErrNoTour, node)
		}
		node = next
	}
	if node != 0 {
		return nil, fmt.Errorf("%w: tour does not close", ErrNoTour)
	}
	return tour, nil
}

// Length is the cost of the closed tour.
func Length(d [][]float64, tour []int) float64 {
	length := 0.0
	for k := range tour {
		length += d[tour[k]][tour[(k+1)%len(tour)]]
	}
	return length
}

// Sub restricts d to the given nodes, in that order.
func Sub(d [][]float64, nodes []int) [][]float64 {
	s := make([][]float64, len(nodes))
	for a, i := range nodes {
		s[a] = make([]float64, len(nodes))
		for b, j := range nodes {
			s[a][b] = d[i][j]
		}
	}
	return s
}
