package maxcov

import (
	"math"
	"sort"
)

// CheckResult re-validates a stored result against its instance without the
// program: tours are closed walks from their own depot, costs are recomputed and
// held against the budgets, and every covered client is toured (for optimal
// results coverage must be exactly the toured set).
// It returns the recomputed total travel cost.
func CheckResult(inst *Instance, res *Result) (float64, error) {
	if !res.Solved() {
		return 0, nil
	}
	if len(res.Tours) != inst.U() {
		return 0, inconsistent(-1, "%d tours for %d vehicles", len(res.Tours), inst.U())
	}
	n := inst.N()
	toured := map[int]bool{}
	total := 0.0
	for u, tour := range res.Tours {
		depot := inst.Depot(u)
		if len(tour.Edges) == 0 || tour.Edges[0].From() != depot || tour.Edges[len(tour.Edges)-1].To() != depot {
			return 0, inconsistent(u, "tour does not start and end at depot %d", depot)
		}
		seen := map[int]bool{}
		sum := 0.0
		for k, e := range tour.Edges {
			if k > 0 && tour.Edges[k-1].To() != e.From() {
				return 0, inconsistent(u, "edge %v does not continue edge %v", e, tour.Edges[k-1])
			}
			if e.From() != e.To() {
				sum += inst.Cost(e.From(), e.To())
			}
			if k == len(tour.Edges)-1 {
				break
			}
			c := e.To()
			if c < 0 || c >= n {
				return 0, inconsistent(u, "node %d is not a client", c)
			}
			if seen[c] {
				return 0, inconsistent(u, "client %d visited twice", c)
			}
			seen[c] = true
			toured[c] = true
		}
		if sum > inst.Budget(u)+BudgetTolerance*math.Max(1, inst.Budget(u)) {
			return 0, inconsistent(u, "route length %g exceeds the budget %g", sum, inst.Budget(u))
		}
		total += sum
	}

	covered := append([]int(nil), res.Coverage...)
	sort.Ints(covered)
	if res.Optimal && len(covered) != len(toured) {
		return 0, inconsistent(-1, "coverage lists %d clients, tours visit %d", len(covered), len(toured))
	}
	for _, c := range covered {
		if !toured[c] {
			return 0, inconsistent(-1, "client %d is covered but not toured", c)
		}
	}
	if res.Optimal && math.Abs(res.ObjectiveValue-float64(len(covered))) > 0.5 {
		return 0, inconsistent(-1, "objective %g but %d clients covered", res.ObjectiveValue, len(covered))
	}
	return total, nil
}
