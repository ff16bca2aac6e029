package main

import (
	"context"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"

	"git.solver4all.com/azaryc2s/maxcov"
	"git.solver4all.com/azaryc2s/maxcov/grb"
	"git.solver4all.com/azaryc2s/maxcov/tsp"
)

var nodes maxcov.IntList
var vehicles maxcov.IntList
var budgets maxcov.FloatList

func main() {
	flag.Var(&nodes, "n", "List of numbers of clients")
	flag.Var(&vehicles, "u", "List of numbers of vehicles")
	flag.Var(&budgets, "budget", "List of per-vehicle budgets. Every vehicle of an instance gets the same budget")
	relative := flag.Bool("tsp", false, "Read -budget as a portion a of the tsp-length through all clients and the vehicle's depot (needs gurobi configured and could take a while for bigger instances)")
	name := flag.String("name", "maxcov", "Name prefix for the instance files")
	count := flag.Int("count", 10, "Number of instances per combination")
	xTo := flag.Float64("x", 1, "Max value on the x-axis")
	yTo := flag.Float64("y", 1, "Max value on the y-axis")
	w := flag.String("w", maxcov.EUC_2D, "EDGE_WEIGHT_TYPE - how the distance between nodes is calculated. EUC_2D or CEIL_2D")
	seed := flag.Int64("seed", 0, "Random seed, 0 for the current time")
	dir := flag.String("dir", ".", "Output folder")
	flag.Parse()

	if len(nodes) == 0 || len(vehicles) == 0 || len(budgets) == 0 {
		logrus.Fatal("Need at least one value each for -n, -u and -budget")
	}
	if *seed == 0 {
		*seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(*seed))
	if err := os.MkdirAll(*dir, 0755); err != nil {
		logrus.Fatalf("At %s: %s", *dir, err.Error())
	}

	for l := 0; l < *count; l++ {
		for _, n := range nodes {
			for _, u := range vehicles {
				for _, b := range budgets {
					inst, err := maxcov.Generate(rng, maxcov.GenerateOptions{
						Clients:        n,
						Vehicles:       u,
						Budgets:        []float64{b},
						Width:          *xTo,
						Height:         *yTo,
						EdgeWeightType: *w,
					})
					if err == nil && *relative {
						inst, err = scaleBudgets(inst, b)
					}
					if err != nil {
						logrus.Fatal(err)
					}
					fileName := filepath.Join(*dir, fmt.Sprintf("%s-n%d-u%d-b%g-%d.txt", *name, n, u, b, l))
					if err = maxcov.SaveInstance(fileName, inst); err != nil {
						logrus.Errorf("At %s: %s", fileName, err.Error())
						continue
					}
					logrus.WithField("file", fileName).Info("Instance written")
				}
			}
		}
	}
}

// scaleBudgets sets the budget of every vehicle to a times the length of the
// shortest tour from its depot through all clients.
func scaleBudgets(inst *maxcov.Instance, a float64) (*maxcov.Instance, error) {
	eng := &grb.Engine{LogFile: "tsp-gurobi.log"}
	cost := inst.CostMatrix()
	tourNodes := make([]int, 0, inst.N()+1)
	budget := make([]float64, inst.U())
	for v := range budget {
		tourNodes = append(tourNodes[:0], inst.Depot(v))
		for c := 0; c < inst.N(); c++ {
			tourNodes = append(tourNodes, c)
		}
		_, tspLength, err := tsp.Solve(context.Background(), eng, tsp.Sub(cost, tourNodes), logrus.StandardLogger())
		if err != nil {
			return nil, err
		}
		budget[v] = a * tspLength
	}
	return maxcov.NewInstance(inst.N(), inst.U(), cost, budget)
}
