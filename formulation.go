package maxcov

import (
	"fmt"

	"git.solver4all.com/azaryc2s/maxcov/mip"
)

const (
	ObjCoverage   = "coverage"
	ObjTravelCost = "travel_cost"
)

// Layout maps the model's variable families onto flat program indices.
// Within a vehicle, local node N stands for that vehicle's depot.
type Layout struct {
	N, U   int
	StartX int // visit_i
	StartZ int // order_u_i
	StartY int // edge_u_i_j
	Count  int
}

func NewLayout(n, u int) Layout {
	l := Layout{N: n, U: u}
	l.StartX = 0
	l.StartZ = l.StartX + n
	l.StartY = l.StartZ + u*n
	l.Count = l.StartY + u*(n+1)*(n+1)
	return l
}

func (l Layout) Visit(i int) int { return l.StartX + i }

func (l Layout) Order(u, i int) int { return l.StartZ + u*l.N + i }

// Edge is the index of edge_u_i_j with i, j in [0, N].
func (l Layout) Edge(u, i, j int) int {
	m := l.N + 1
	return l.StartY + u*m*m + i*m + j
}

// Node maps local node i of vehicle u to its cost-matrix node.
func (l Layout) Node(u, i int) int {
	if i == l.N {
		return l.N + u
	}
	return i
}

// ConstrCount is the number of rows Build emits for n clients and u vehicles:
// flow, depot, mtz, budget and cover rows.
func ConstrCount(n, u int) int {
	return u*(n+1) + u + u*n*(n-1) + u + n
}

type BuildOptions struct {
	// MinimizeCost adds travel cost as a lower-priority objective after coverage.
	MinimizeCost bool
}

// Formulation is built fresh for every solve and never shared.
type Formulation struct {
	Program *mip.Program
	Layout  Layout
}

// Build translates a validated instance into the coverage program. It cannot fail.
//
// Each vehicle owns a closed circuit over the clients plus its own depot: flow
// conservation at every node, exactly one depot departure, MTZ ordering rows
// against client-only cycles, and a budget row. The vehicles only meet in the
// shared visit variables.
func Build(inst *Instance, opts BuildOptions) *Formulation {
	n, U := inst.N(), inst.U()
	l := NewLayout(n, U)
	p := mip.NewProgram("maxcov")
	p.Vars = make([]mip.Var, 0, l.Count)

	for i := 0; i < n; i++ {
		p.AddVar(fmt.Sprintf("visit_%d", i), mip.Binary, 0, 1)
	}
	for u := 0; u < U; u++ {
		for i := 0; i < n; i++ {
			p.AddVar(fmt.Sprintf("order_%d_%d", u, i), mip.Integer, 1, float64(n))
		}
	}
	for u := 0; u < U; u++ {
		for i := 0; i <= n; i++ {
			for j := 0; j <= n; j++ {
				ub := 1.0
				if i == j && i < n {
					// a client self-loop would satisfy flow and cover the client for free
					ub = 0
				}
				p.AddVar(fmt.Sprintf("edge_%d_%d_%d", u, i, j), mip.Binary, 0, ub)
			}
		}
	}

	for u := 0; u < U; u++ {
		for j := 0; j <= n; j++ {
			var terms []mip.Term
			for i := 0; i <= n; i++ {
				if i == j {
					continue
				}
				terms = append(terms, mip.Term{Var: l.Edge(u, i, j), Coef: 1}, mip.Term{Var: l.Edge(u, j, i), Coef: -1})
			}
			p.AddConstr(fmt.Sprintf("flow_%d_%d", u, j), terms, mip.Equal, 0)
		}
	}

	for u := 0; u < U; u++ {
		terms := make([]mip.Term, 0, n+1)
		for k := 0; k <= n; k++ {
			terms = append(terms, mip.Term{Var: l.Edge(u, n, k), Coef: 1})
		}
		p.AddConstr(fmt.Sprintf("depot_%d", u), terms, mip.Equal, 1)
	}

	// order_j - order_i >= edge_ij + n*(edge_ij - 1)
	for u := 0; u < U; u++ {
		for i := 0; i < n; i++ {
			for j := 0; j < n; j++ {
				if i == j {
					continue
				}
				terms := []mip.Term{
					{Var: l.Order(u, j), Coef: 1},
					{Var: l.Order(u, i), Coef: -1},
					{Var: l.Edge(u, i, j), Coef: -float64(n + 1)},
				}
				p.AddConstr(fmt.Sprintf("mtz_%d_%d_%d", u, i, j), terms, mip.GreaterEqual, -float64(n))
			}
		}
	}

	for u := 0; u < U; u++ {
		p.AddConstr(fmt.Sprintf("budget_%d", u), costTerms(inst, l, u), mip.LessEqual, inst.Budget(u))
	}

	for i := 0; i < n; i++ {
		terms := []mip.Term{{Var: l.Visit(i), Coef: 1}}
		for u := 0; u < U; u++ {
			for k := 0; k <= n; k++ {
				if k == i {
					continue
				}
				terms = append(terms, mip.Term{Var: l.Edge(u, i, k), Coef: -1}, mip.Term{Var: l.Edge(u, k, i), Coef: -1})
			}
		}
		p.AddConstr(fmt.Sprintf("cover_%d", i), terms, mip.LessEqual, 0)
	}

	coverage := mip.Objective{Name: ObjCoverage, Direction: mip.Maximize, Priority: 2}
	for i := 0; i < n; i++ {
		coverage.Terms = append(coverage.Terms, mip.Term{Var: l.Visit(i), Coef: 1})
	}
	p.AddObjective(coverage)

	if opts.MinimizeCost {
		travel := mip.Objective{Name: ObjTravelCost, Direction: mip.Minimize, Priority: 1}
		for u := 0; u < U; u++ {
			travel.Terms = append(travel.Terms, costTerms(inst, l, u)...)
		}
		p.AddObjective(travel)
	}

	return &Formulation{Program: p, Layout: l}
}

// costTerms prices every non-loop edge of vehicle u with the real cost between its
// cost-matrix nodes. The depot self-loop is the idle tour and costs nothing.
func costTerms(inst *Instance, l Layout, u int) []mip.Term {
	n := l.N
	terms := make([]mip.Term, 0, (n+1)*n)
	for i := 0; i <= n; i++ {
		for j := 0; j <= n; j++ {
			if i == j {
				continue
			}
			terms = append(terms, mip.Term{Var: l.Edge(u, i, j), Coef: inst.Cost(l.Node(u, i), l.Node(u, j))})
		}
	}
	return terms
}
