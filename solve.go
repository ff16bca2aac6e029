package maxcov

import (
	"context"
	"io"
	"math"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"git.solver4all.com/azaryc2s/maxcov/mip"
)

type SolveOptions struct {
	Name string
	// MinimizeCost breaks coverage ties by total travel cost.
	MinimizeCost bool
	// Dump, when set, receives the full program in LP format before solving.
	Dump io.Writer
	// Verify re-checks the engine's values against every row of the program.
	Verify bool
	Logger logrus.FieldLogger
}

// Solve builds the program for inst, hands it to eng and extracts the result.
//
// Infeasible or unbounded programs are not errors: the returned Result carries the
// status and no tours. Errors are engine failures and *ConsistencyError.
func Solve(ctx context.Context, inst *Instance, eng mip.Engine, opts SolveOptions) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	logger = logger.WithFields(logrus.Fields{"instance": opts.Name, "n": inst.N(), "U": inst.U()})

	f := Build(inst, BuildOptions{MinimizeCost: opts.MinimizeCost})
	logger.WithFields(logrus.Fields{
		"vars":    len(f.Program.Vars),
		"constrs": len(f.Program.Constrs),
	}).Info("Model built")

	startTime := time.Now()
	sol, err := mip.Solve(ctx, eng, f.Program, mip.SolveOptions{Dump: opts.Dump, Logger: logger})
	if err != nil {
		return nil, err
	}
	elapsed := time.Since(startTime)

	res := &Result{Name: opts.Name, Status: sol.Status, Bound: sol.Bound, Objectives: sol.Objectives}
	if !sol.HasValues() {
		res.Time = elapsed.String()
		res.Comment = statusComment(sol.Status)
		logger.WithField("status", sol.Status).Warn("No solution to extract")
		return res, nil
	}

	if opts.Verify {
		if v := f.Program.Violations(sol.Values, 1e-6); len(v) > 0 {
			return nil, inconsistent(-1, "engine values break the program: %s", strings.Join(v, "; "))
		}
	}

	res, err = Extract(inst, f.Layout, sol.Values, sol.Status)
	if err != nil {
		return nil, err
	}
	if sol.Status == mip.StatusOptimal && math.Abs(sol.Objective-res.ObjectiveValue) > 0.5 {
		return nil, inconsistent(-1, "objective %g disagrees with %d covered clients", sol.Objective, len(res.Coverage))
	}

	res.Name = opts.Name
	res.ObjectiveValue = sol.Objective
	res.Objectives = sol.Objectives
	res.Bound = sol.Bound
	res.RawAssignment = make(map[string]float64, len(sol.Values))
	for i, v := range f.Program.Vars {
		res.RawAssignment[v.Name] = sol.Values[i]
	}
	res.Time = elapsed.String()
	res.Comment = statusComment(sol.Status)

	logger.WithFields(logrus.Fields{
		"status":   sol.Status,
		"obj":      res.ObjectiveValue,
		"duration": elapsed,
	}).Info("Solved")
	return res, nil
}

func statusComment(s mip.Status) string {
	switch s {
	case mip.StatusOptimal:
		return ""
	case mip.StatusInfeasible, mip.StatusUnbounded, mip.StatusInfOrUnbd:
		return "Model is infeasible or unbounded"
	case mip.StatusStopped:
		return "Optimization stopped before proving optimality"
	}
	return "Optimization ended with status " + s.String()
}
