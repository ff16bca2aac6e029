package maxcov

import "math/rand"

type GenerateOptions struct {
	Clients  int
	Vehicles int
	// Budgets holds one budget per vehicle, or a single value used for all of them.
	Budgets        []float64
	Width, Height  float64
	EdgeWeightType string
}

// Generate scatters clients and depots uniformly over a Width x Height rectangle
// and derives the cost matrix from their distances. Depots follow the clients.
func Generate(rng *rand.Rand, opts GenerateOptions) (*Instance, error) {
	if opts.Width <= 0 {
		opts.Width = 1
	}
	if opts.Height <= 0 {
		opts.Height = 1
	}
	if opts.EdgeWeightType == "" {
		opts.EdgeWeightType = EUC_2D
	}
	dim := opts.Clients + opts.Vehicles
	if opts.Clients < 0 || opts.Vehicles < 0 {
		return nil, invalid("counts_nonneg", "n=%d and U=%d must not be negative", opts.Clients, opts.Vehicles)
	}

	coordinatesArray := make([][]float64, dim)
	for node := 0; node < dim; node++ {
		coordinatesArray[node] = []float64{rng.Float64() * opts.Width, rng.Float64() * opts.Height}
	}

	budget := opts.Budgets
	if len(budget) == 1 && opts.Vehicles != 1 {
		budget = make([]float64, opts.Vehicles)
		for v := range budget {
			budget[v] = opts.Budgets[0]
		}
	}
	return NewInstance(opts.Clients, opts.Vehicles, CalcEdgeDist(coordinatesArray, opts.EdgeWeightType), budget)
}
