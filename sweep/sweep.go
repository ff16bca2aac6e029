// Package sweep runs one parameter sweep: a base instance is varied step by step
// along the per-vehicle budget or the vehicle count, every step is solved and the
// objective per parameter value is collected for charting.
package sweep

import (
	"context"
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"git.solver4all.com/azaryc2s/maxcov"
	"git.solver4all.com/azaryc2s/maxcov/config"
	"git.solver4all.com/azaryc2s/maxcov/metrics"
	"git.solver4all.com/azaryc2s/maxcov/mip"
)

type Plan struct {
	Output    string
	Param     string // config.ParamBudget or config.ParamVehicles
	Steps     int
	Start     float64
	Increment float64
	// Parallel is the number of steps solved at once.
	Parallel int

	MinimizeCost bool
	Verify       bool
	DumpLP       bool
	// ModelExt, when set, has every step's engine write its model as step_NNN<ModelExt>.
	ModelExt string
}

// ModelWriter is implemented by engines that can write the model they solve to a file.
type ModelWriter interface {
	WithModelFile(fileName string) mip.Engine
}

func PlanFromConfig(cfg config.Config) Plan {
	e := cfg.Experiment
	return Plan{
		Output:       e.Output,
		Param:        e.Param,
		Steps:        e.Steps,
		Start:        e.Start,
		Increment:    e.Increment,
		Parallel:     e.Parallel,
		MinimizeCost: cfg.Solve.MinimizeCost,
		Verify:       cfg.Solve.Verify,
		DumpLP:       cfg.Solve.DumpLP,
		ModelExt:     filepath.Ext(cfg.Engine.ModelFile),
	}
}

func (p Plan) Value(step int) float64 {
	return p.Start + float64(step)*p.Increment
}

// MaxVehicles is the vehicle count a base instance needs for p.
func (p Plan) MaxVehicles() int {
	most := int(p.Start)
	for s := 0; s < p.Steps; s++ {
		if v := int(p.Value(s)); v > most {
			most = v
		}
	}
	return most
}

// Instances derives one instance per step from base. Budget sweeps give every
// vehicle the step's budget; vehicle sweeps drop vehicles from the end of base,
// so base must carry at least MaxVehicles vehicles.
func Instances(p Plan, base *maxcov.Instance) ([]*maxcov.Instance, error) {
	insts := make([]*maxcov.Instance, p.Steps)
	for s := 0; s < p.Steps; s++ {
		v := p.Value(s)
		switch p.Param {
		case config.ParamBudget:
			inst, err := base.WithUniformBudget(v)
			if err != nil {
				return nil, fmt.Errorf("step %d: %w", s, err)
			}
			insts[s] = inst
		case config.ParamVehicles:
			want := int(v)
			if want > base.U() {
				return nil, fmt.Errorf("step %d needs %d vehicles, the base instance has %d", s, want, base.U())
			}
			inst := base
			for inst.U() > want {
				var err error
				if inst, err = inst.WithoutLastVehicle(); err != nil {
					return nil, fmt.Errorf("step %d: %w", s, err)
				}
			}
			insts[s] = inst
		default:
			return nil, fmt.Errorf("unknown parameter %q", p.Param)
		}
	}
	return insts, nil
}

// Step is the outcome of one sweep step. Err holds a failed solve; the sweep
// itself goes on.
type Step struct {
	Index        int
	Value        float64
	InstanceFile string
	ResultFile   string
	Result       *maxcov.Result
	TotalCost    float64
	Err          error
}

type Report struct {
	RunID string
	Param string
	Steps []Step
}

// Run solves every instance of the plan with eng, at most p.Parallel at a time,
// and writes step_NNN.txt, step_NNN_sol.json and summary.csv into p.Output.
// It fails only when files cannot be written or ctx ends.
func Run(ctx context.Context, p Plan, insts []*maxcov.Instance, eng mip.Engine, logger logrus.FieldLogger) (*Report, error) {
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	if err := os.MkdirAll(p.Output, 0755); err != nil {
		return nil, err
	}
	metrics.RegisterDefault()

	report := &Report{RunID: uuid.New().String(), Param: p.Param, Steps: make([]Step, len(insts))}
	logger = logger.WithFields(logrus.Fields{"run": report.RunID, "param": p.Param})
	sysInfo := maxcov.CurrentSysInfo()

	parallel := p.Parallel
	if parallel < 1 {
		parallel = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(parallel)
	for s, inst := range insts {
		s, inst := s, inst
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			step, err := runStep(gctx, p, s, inst, eng, logger.WithField("step", s))
			if err != nil {
				return err
			}
			step.Result.System = sysInfo
			step.Result.RunID = report.RunID
			if err = maxcov.SaveResult(step.ResultFile, step.Result); err != nil {
				return err
			}
			report.Steps[s] = step
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	if err := WriteSummary(filepath.Join(p.Output, "summary.csv"), report); err != nil {
		return nil, err
	}
	if err := WriteChart(filepath.Join(p.Output, "summary.png"), report); err != nil {
		return nil, err
	}
	logger.WithField("steps", len(insts)).Info("Sweep done")
	return report, nil
}

func runStep(ctx context.Context, p Plan, s int, inst *maxcov.Instance, eng mip.Engine, logger logrus.FieldLogger) (Step, error) {
	name := fmt.Sprintf("step_%03d", s)
	step := Step{
		Index:        s,
		Value:        p.Value(s),
		InstanceFile: filepath.Join(p.Output, name+".txt"),
		ResultFile:   filepath.Join(p.Output, name+"_sol.json"),
	}
	if err := maxcov.SaveInstance(step.InstanceFile, inst); err != nil {
		return step, err
	}

	opts := maxcov.SolveOptions{
		Name:         name,
		MinimizeCost: p.MinimizeCost,
		Verify:       p.Verify,
		Logger:       logger,
	}
	if p.DumpLP {
		lp, err := os.Create(filepath.Join(p.Output, name+".lp"))
		if err != nil {
			return step, err
		}
		defer lp.Close()
		opts.Dump = lp
	}

	if p.ModelExt != "" {
		if mw, ok := eng.(ModelWriter); ok {
			eng = mw.WithModelFile(filepath.Join(p.Output, name+p.ModelExt))
		} else {
			logger.Warn("Engine can't write model files")
		}
	}

	logger.WithField("value", step.Value).Info("Solving step")
	startTime := time.Now()
	res, err := maxcov.Solve(ctx, inst, eng, opts)
	vars, constrs := maxcov.NewLayout(inst.N(), inst.U()).Count, maxcov.ConstrCount(inst.N(), inst.U())
	if err != nil {
		if ctx.Err() != nil {
			return step, ctx.Err()
		}
		metrics.Failures.Inc()
		logger.WithError(err).Error("Step failed")
		step.Err = err
		step.Result = &maxcov.Result{Name: name, Time: time.Since(startTime).String(), Comment: err.Error()}
		return step, nil
	}

	covered := -1
	if res.Solved() {
		covered = len(res.Coverage)
		if step.TotalCost, err = maxcov.CheckResult(inst, res); err != nil {
			metrics.Failures.Inc()
			logger.WithError(err).Error("Result does not check out")
			step.Err = err
			res.Comment += fmt.Sprintf("CHECK: Error = %s", err.Error())
		}
	}
	metrics.ObserveSolve(res.Status.String(), time.Since(startTime), vars, constrs, covered)
	step.Result = res
	return step, nil
}

// WriteSummary writes one CSV line per step, the parameter value against the objective.
func WriteSummary(fileName string, r *Report) error {
	f, err := os.Create(fileName)
	if err != nil {
		return err
	}
	w := csv.NewWriter(f)
	w.Write([]string{"run_id", "step", "param", "value", "status", "obj", "covered", "total_cost", "time", "instance", "error"})
	for _, s := range r.Steps {
		status, obj, covered := "", "", ""
		if s.Result != nil {
			status = s.Result.Status.String()
			if s.Result.Solved() {
				obj = strconv.FormatFloat(s.Result.ObjectiveValue, 'g', -1, 64)
				covered = strconv.Itoa(len(s.Result.Coverage))
			}
		}
		errText := ""
		if s.Err != nil {
			errText = s.Err.Error()
		}
		timeText := ""
		if s.Result != nil {
			timeText = s.Result.Time
		}
		w.Write([]string{
			r.RunID,
			strconv.Itoa(s.Index),
			r.Param,
			strconv.FormatFloat(s.Value, 'g', -1, 64),
			status,
			obj,
			covered,
			strconv.FormatFloat(roundCost(s.TotalCost), 'g', -1, 64),
			timeText,
			filepath.Base(s.InstanceFile),
			errText,
		})
	}
	w.Flush()
	if err = w.Error(); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func roundCost(c float64) float64 {
	return math.Round(c*1e6) / 1e6
}
