package mip

import (
	"context"
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/sirupsen/logrus"
)

// Engine is a general-purpose mixed-integer optimizer. Optimize blocks until the
// engine stops and optimizes the single objective obj over p. Engines must not
// retain p after returning.
type Engine interface {
	Optimize(ctx context.Context, p *Program, obj Objective) (*Solution, error)
}

// EngineFunc adapts a function to the Engine interface.
type EngineFunc func(ctx context.Context, p *Program, obj Objective) (*Solution, error)

func (f EngineFunc) Optimize(ctx context.Context, p *Program, obj Objective) (*Solution, error) {
	return f(ctx, p, obj)
}

var ErrNoObjective = errors.New("mip: program has no objective")

const DefaultTolerance = 1e-6

type SolveOptions struct {
	// Dump receives the program in LP format before the first engine call.
	Dump io.Writer
	// Tolerance relaxes the rows that pin higher-priority objectives to their optimum.
	Tolerance float64
	Logger    logrus.FieldLogger
}

// Solve optimizes the program's objectives in priority order. After each level an
// extra row keeps the level's objective at its optimum while the next one is solved.
// The returned solution carries the status and values of the last level that
// produced values, and the objective and bound of the first level. A terminal
// status on the first level is returned as is.
func Solve(ctx context.Context, eng Engine, p *Program, opts SolveOptions) (*Solution, error) {
	if len(p.Objectives) == 0 {
		return nil, ErrNoObjective
	}
	if opts.Tolerance <= 0 {
		opts.Tolerance = DefaultTolerance
	}
	logger := opts.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}

	levels := append([]Objective(nil), p.Objectives...)
	sort.SliceStable(levels, func(a, b int) bool { return levels[a].Priority > levels[b].Priority })

	if opts.Dump != nil {
		if err := WriteLP(opts.Dump, p); err != nil {
			logger.WithError(err).Warn("Couldn't dump the program")
		}
	}

	work := p.Clone()
	var best *Solution
	var objVals, bounds []float64
	for lvl, obj := range levels {
		if err := ctx.Err(); err != nil {
			if best != nil {
				logger.WithField("level", obj.Name).Warn("Context done, keeping the previous level")
				break
			}
			return nil, err
		}
		sol, err := eng.Optimize(ctx, work, obj)
		if err != nil {
			return nil, fmt.Errorf("optimizing %s: %w", obj.Name, err)
		}
		logger.WithFields(logrus.Fields{
			"level":     obj.Name,
			"status":    sol.Status,
			"objective": sol.Objective,
		}).Debug("Level solved")

		if !sol.HasValues() {
			if best == nil {
				sol.Objectives = nil
				return sol, nil
			}
			// the previous level's values still satisfy every row added so far
			logger.WithFields(logrus.Fields{"level": obj.Name, "status": sol.Status}).
				Warn("Lower priority level produced no solution, keeping the previous level")
			break
		}

		objVals = append(objVals, sol.Objective)
		bounds = append(bounds, sol.Bound)
		best = sol
		if sol.Status != StatusOptimal || lvl == len(levels)-1 {
			break
		}

		rhs := sol.Objective - opts.Tolerance
		sense := GreaterEqual
		if obj.Direction == Minimize {
			rhs = sol.Objective + opts.Tolerance
			sense = LessEqual
		}
		work.AddConstr("lex_"+obj.Name, append([]Term(nil), obj.Terms...), sense, rhs-obj.Constant)
	}

	best.Objectives = objVals
	if len(objVals) > 0 {
		best.Objective = objVals[0]
		best.Bound = bounds[0]
	}
	return best, nil
}
