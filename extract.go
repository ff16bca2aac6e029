package maxcov

import (
	"math"

	"git.solver4all.com/azaryc2s/maxcov/mip"
)

// BudgetTolerance absorbs floating error when tour costs are checked against budgets.
const BudgetTolerance = 1e-6

// Extract turns a solved assignment back into coverage and per-vehicle tours.
// It re-derives everything from the rounded values and refuses, with a
// *ConsistencyError, anything that is not one closed walk per vehicle through its
// depot. With StatusOptimal a client touched by a tour must also be marked visited.
func Extract(inst *Instance, l Layout, values []float64, status mip.Status) (*Result, error) {
	n, U := inst.N(), inst.U()
	if len(values) != l.Count {
		return nil, inconsistent(-1, "got %d values for %d variables", len(values), l.Count)
	}

	visited := make([]bool, n)
	for i := 0; i < n; i++ {
		visited[i] = isSet(values[l.Visit(i)])
	}

	touched := make([]bool, n)
	res := &Result{Status: status, Optimal: status == mip.StatusOptimal, Tours: make([]Tour, 0, U), Coverage: []int{}}
	for u := 0; u < U; u++ {
		tour, err := extractTour(inst, l, values, u)
		if err != nil {
			return nil, err
		}
		for _, c := range tour.Clients {
			touched[c] = true
		}
		res.Tours = append(res.Tours, tour)
	}

	for i := 0; i < n; i++ {
		if visited[i] && !touched[i] {
			return nil, inconsistent(-1, "client %d is marked covered but no tour visits it", i)
		}
		if !visited[i] && touched[i] && status == mip.StatusOptimal {
			return nil, inconsistent(-1, "client %d is visited but not counted as covered", i)
		}
		if visited[i] {
			res.Coverage = append(res.Coverage, i)
		}
	}
	res.ObjectiveValue = float64(len(res.Coverage))
	return res, nil
}

func isSet(x float64) bool {
	return x >= 0.5
}

// extractTour follows the successor of every node starting at the depot, the way
// findsubtour walks an edge matrix, and checks that the walk uses every selected edge.
func extractTour(inst *Instance, l Layout, values []float64, u int) (Tour, error) {
	n := l.N
	depot := n
	succ := make([]int, n+1)
	indeg := make([]int, n+1)
	for i := range succ {
		succ[i] = -1
	}
	selected := 0
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			if !isSet(values[l.Edge(u, i, j)]) {
				continue
			}
			if i == j && i != depot {
				return Tour{}, inconsistent(u, "client %d has a self-loop", i)
			}
			if succ[i] >= 0 {
				return Tour{}, inconsistent(u, "node %d is left more than once", l.Node(u, i))
			}
			indeg[j]++
			if indeg[j] > 1 {
				return Tour{}, inconsistent(u, "node %d is entered more than once", l.Node(u, j))
			}
			succ[i] = j
			selected++
		}
	}
	if succ[depot] < 0 {
		return Tour{}, inconsistent(u, "depot %d is never left", l.Node(u, depot))
	}

	tour := Tour{Vehicle: u, Depot: inst.Depot(u), Budget: inst.Budget(u), Clients: []int{}}
	node := depot
	for {
		next := succ[node]
		if next < 0 {
			return Tour{}, inconsistent(u, "walk from the depot stops at node %d", l.Node(u, node))
		}
		from, to := l.Node(u, node), l.Node(u, next)
		tour.Edges = append(tour.Edges, Edge{from, to})
		if node != next {
			tour.Cost += inst.Cost(from, to)
		}
		if next == depot {
			break
		}
		tour.Clients = append(tour.Clients, next)
		node = next
		if len(tour.Edges) > n+1 {
			return Tour{}, inconsistent(u, "walk from the depot does not close")
		}
	}
	if len(tour.Edges) != selected {
		return Tour{}, inconsistent(u, "%d selected edges lie on cycles that miss the depot", selected-len(tour.Edges))
	}
	if tour.Cost > tour.Budget+BudgetTolerance*math.Max(1, tour.Budget) {
		return Tour{}, inconsistent(u, "tour cost %g exceeds budget %g", tour.Cost, tour.Budget)
	}
	return tour, nil
}
