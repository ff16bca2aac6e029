package maxcov

import "math"

// Instance is a validated, immutable problem: n clients (nodes 0..n-1) and U
// vehicles whose depots are nodes n..n+U-1 of the cost matrix, in vehicle order.
type Instance struct {
	n      int
	u      int
	cost   [][]float64
	budget []float64
}

// NewInstance validates and copies its arguments. Either every invariant holds
// and an Instance is returned, or a *ValidationError and nothing else.
func NewInstance(n, u int, cost [][]float64, budget []float64) (*Instance, error) {
	if n < 0 || u < 0 {
		return nil, invalid("counts_nonneg", "n=%d and U=%d must not be negative", n, u)
	}
	dim := n + u
	if len(cost) != dim {
		return nil, invalid("cost_rows", "cost matrix has %d rows, want n+U=%d", len(cost), dim)
	}
	for i, row := range cost {
		if len(row) != dim {
			return nil, invalid("cost_cols", "cost row %d has %d entries, want %d", i, len(row), dim)
		}
		for j, c := range row {
			if math.IsNaN(c) || math.IsInf(c, 0) {
				return nil, invalid("cost_finite", "cost[%d][%d] = %v", i, j, c)
			}
			if c < 0 {
				return nil, invalid("cost_nonneg", "cost[%d][%d] = %v is negative", i, j, c)
			}
		}
	}
	if len(budget) != u {
		return nil, invalid("budget_len", "got %d budgets for %d vehicles", len(budget), u)
	}
	for v, b := range budget {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, invalid("budget_finite", "budget[%d] = %v", v, b)
		}
		if b < 0 {
			return nil, invalid("budget_nonneg", "budget[%d] = %v is negative", v, b)
		}
	}

	inst := &Instance{n: n, u: u, cost: make([][]float64, dim), budget: append([]float64{}, budget...)}
	for i, row := range cost {
		inst.cost[i] = append([]float64{}, row...)
	}
	return inst, nil
}

// N is the number of clients.
func (in *Instance) N() int { return in.n }

// U is the number of vehicles.
func (in *Instance) U() int { return in.u }

// Depot returns the cost-matrix node of vehicle v's depot.
func (in *Instance) Depot(v int) int { return in.n + v }

func (in *Instance) Cost(i, j int) float64 { return in.cost[i][j] }

func (in *Instance) Budget(v int) float64 { return in.budget[v] }

// Budgets returns a copy of the budget sequence.
func (in *Instance) Budgets() []float64 {
	return append([]float64{}, in.budget...)
}

// CostMatrix returns a copy of the cost matrix.
func (in *Instance) CostMatrix() [][]float64 {
	c := make([][]float64, len(in.cost))
	for i, row := range in.cost {
		c[i] = append([]float64{}, row...)
	}
	return c
}

// WithUniformBudget returns a new instance where every vehicle has budget b.
func (in *Instance) WithUniformBudget(b float64) (*Instance, error) {
	budget := make([]float64, in.u)
	for v := range budget {
		budget[v] = b
	}
	return NewInstance(in.n, in.u, in.cost, budget)
}

// WithoutLastVehicle returns a new instance without the last vehicle, its budget
// and its depot row and column.
func (in *Instance) WithoutLastVehicle() (*Instance, error) {
	if in.u <= 1 {
		return nil, invalid("vehicle_count", "cannot remove a vehicle from an instance with U=%d", in.u)
	}
	dim := in.n + in.u - 1
	cost := make([][]float64, dim)
	for i := 0; i < dim; i++ {
		cost[i] = in.cost[i][:dim]
	}
	return NewInstance(in.n, in.u-1, cost, in.budget[:in.u-1])
}
