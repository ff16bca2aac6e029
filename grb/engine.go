/* Copyright 2021, Arkadiusz Zarychta, arkadiusz.zarychta@h-brs.de */
/* Copyright 2021, Gurobi Optimization, LLC */

// Package grb runs mip programs on Gurobi.
package grb

import (
	"context"
	"fmt"

	"git.solver4all.com/azaryc2s/gorobi/gurobi"
	"github.com/sirupsen/logrus"

	"git.solver4all.com/azaryc2s/maxcov/mip"
)

// Engine opens a fresh Gurobi environment for every Optimize call, so concurrent
// calls never share a model. Time and node limits come from Gurobi's own
// parameter file (gurobi.env) and surface as mip.StatusStopped.
type Engine struct {
	LogFile      string
	LogToConsole bool
	// Threads caps Gurobi's worker threads; 0 keeps Gurobi's default.
	Threads int
	// ModelFile, when set, receives model.Write before optimizing. The suffix picks the format (.lp, .mps).
	ModelFile string
	Logger    logrus.FieldLogger
}

var _ mip.Engine = (*Engine)(nil)

// WithModelFile returns a copy of e writing its model to fileName.
func (e *Engine) WithModelFile(fileName string) mip.Engine {
	c := *e
	c.ModelFile = fileName
	return &c
}

func (e *Engine) logger() logrus.FieldLogger {
	if e.Logger == nil {
		return logrus.StandardLogger()
	}
	return e.Logger
}

func (e *Engine) Optimize(ctx context.Context, p *mip.Program, obj mip.Objective) (*mip.Solution, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	log := e.logger().WithFields(logrus.Fields{"model": p.Name, "objective": obj.Name})

	// Create environment
	logFile := e.LogFile
	if logFile == "" {
		logFile = "maxcov-gurobi.log"
	}
	env, err := gurobi.LoadEnv(logFile)
	if err != nil {
		return nil, fmt.Errorf("loading gurobi env: %w", err)
	}
	defer env.Free()
	if !e.LogToConsole {
		if err = env.SetIntParam("LogToConsole", int32(0)); err != nil {
			return nil, fmt.Errorf("silencing console log: %w", err)
		}
	}
	if e.Threads > 0 {
		if err = env.SetIntParam(gurobi.INT_PAR_THREADS, int32(e.Threads)); err != nil {
			return nil, fmt.Errorf("setting threads: %w", err)
		}
	}

	varCount := len(p.Vars)
	objFun := make([]float64, varCount)
	for _, t := range obj.Terms {
		objFun[t.Var] += t.Coef
	}
	lb := make([]float64, varCount)
	ub := make([]float64, varCount)
	varType := make([]int8, varCount)
	for i, v := range p.Vars {
		lb[i], ub[i] = v.LB, v.UB
		varType[i] = gurobiVarType(v.Type)
	}

	/* Create the model with all variables at once */
	model, err := env.NewModel(p.Name, int32(varCount), objFun, lb, ub, varType, p.VarNames())
	if err != nil {
		return nil, fmt.Errorf("creating model: %w", err)
	}
	defer model.Free()

	sense := int32(gurobi.MAXIMIZE)
	if obj.Direction == mip.Minimize {
		sense = int32(gurobi.MINIMIZE)
	}
	if err = model.SetIntAttr(gurobi.INT_ATTR_MODELSENSE, sense); err != nil {
		return nil, fmt.Errorf("setting model sense: %w", err)
	}

	log.WithField("constrs", len(p.Constrs)).Debug("Adding constraints")
	for _, c := range p.Constrs {
		if len(c.Terms) == 0 {
			// an empty row is a constant comparison, Gurobi needs no row for it
			if !emptyRowHolds(c) {
				log.WithField("constr", c.Name).Warn("Empty row can never hold")
				return &mip.Solution{Status: mip.StatusInfeasible}, nil
			}
			continue
		}
		ind := make([]int32, len(c.Terms))
		val := make([]float64, len(c.Terms))
		for k, t := range c.Terms {
			ind[k] = int32(t.Var)
			val[k] = t.Coef
		}
		if err = model.AddConstr(ind, val, gurobiSense(c.Sense), c.RHS, c.Name); err != nil {
			return nil, fmt.Errorf("adding %s: %w", c.Name, err)
		}
	}

	if e.ModelFile != "" {
		if err = model.Write(e.ModelFile); err != nil {
			log.WithError(err).WithField("file", e.ModelFile).Warn("Couldn't write the model")
		}
	}

	// Optimize model
	if err = model.Optimize(); err != nil {
		return nil, fmt.Errorf("optimizing: %w", err)
	}

	// Capture solution information
	optimstatus, err := model.GetIntAttr(gurobi.INT_ATTR_STATUS)
	if err != nil {
		return nil, fmt.Errorf("retrieving the optimization status: %w", err)
	}
	sol := &mip.Solution{Status: statusFromGurobi(optimstatus)}
	log.WithFields(logrus.Fields{"gurobi_status": optimstatus, "status": sol.Status}).Info("Optimization done")
	if sol.Status.Terminal() {
		return sol, nil
	}

	solcount, err := model.GetIntAttr(gurobi.INT_ATTR_SOLCOUNT)
	if err != nil {
		return nil, fmt.Errorf("retrieving the solution count: %w", err)
	}
	if solcount == 0 {
		return sol, nil
	}

	objval, err := model.GetDblAttr(gurobi.DBL_ATTR_OBJVAL)
	if err != nil {
		return nil, fmt.Errorf("retrieving the obj-value: %w", err)
	}
	sol.Objective = objval + obj.Constant

	if bound, err := model.GetDblAttr(gurobi.DBL_ATTR_OBJBOUND); err == nil {
		sol.Bound = bound + obj.Constant
	} else {
		log.WithError(err).Warn("Couldn't retrieve the objective bound")
	}

	sol.Values = make([]float64, varCount)
	if varCount > 0 {
		x, err := model.GetDblAttrArray(gurobi.DBL_ATTR_X, 0, int32(varCount))
		if err != nil {
			return nil, fmt.Errorf("retrieving the solution: %w", err)
		}
		copy(sol.Values, x)
	}
	return sol, nil
}

func gurobiVarType(t mip.VarType) int8 {
	switch t {
	case mip.Binary:
		return gurobi.BINARY
	case mip.Integer:
		return gurobi.INTEGER
	}
	return gurobi.CONTINUOUS
}

func gurobiSense(s mip.Sense) int8 {
	switch s {
	case mip.LessEqual:
		return gurobi.LESS_EQUAL
	case mip.GreaterEqual:
		return gurobi.GREATER_EQUAL
	}
	return gurobi.EQUAL
}

func emptyRowHolds(c mip.Constr) bool {
	switch c.Sense {
	case mip.LessEqual:
		return 0 <= c.RHS
	case mip.GreaterEqual:
		return 0 >= c.RHS
	}
	return c.RHS == 0
}

func statusFromGurobi(status int32) mip.Status {
	switch status {
	case gurobi.OPTIMAL:
		return mip.StatusOptimal
	case gurobi.INFEASIBLE:
		return mip.StatusInfeasible
	case gurobi.UNBOUNDED:
		return mip.StatusUnbounded
	case gurobi.INF_OR_UNBD:
		return mip.StatusInfOrUnbd
	}
	// TIME_LIMIT, NODE_LIMIT, SOLUTION_LIMIT, INTERRUPTED, SUBOPTIMAL, ...
	return mip.StatusStopped
}
