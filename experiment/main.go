package main

import (
	"context"
	"fmt"
	"math/rand"
	"os"
	"os/signal"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli"

	"git.solver4all.com/azaryc2s/maxcov"
	"git.solver4all.com/azaryc2s/maxcov/config"
	"git.solver4all.com/azaryc2s/maxcov/grb"
	"git.solver4all.com/azaryc2s/maxcov/metrics"
	"git.solver4all.com/azaryc2s/maxcov/sweep"
)

func main() {
	app := cli.NewApp()
	app.Name = "experiment"
	app.Usage = "sweep the vehicle budget or the vehicle count and record the coverage per step"
	app.Flags = []cli.Flag{
		cli.StringFlag{Name: "config, c", Usage: "YAML config file"},
		cli.StringFlag{Name: "output, o", Usage: "output folder for instances, results, summary.csv and summary.png"},
		cli.StringFlag{Name: "param, p", Usage: "swept parameter: b (per-vehicle budget) or U (vehicle count)"},
		cli.IntFlag{Name: "steps", Usage: "number of steps"},
		cli.Float64Flag{Name: "start", Usage: "parameter value of the first step"},
		cli.Float64Flag{Name: "increment", Usage: "parameter change per step"},
		cli.IntFlag{Name: "clients, n", Usage: "clients of the generated base instance"},
		cli.IntFlag{Name: "vehicles, u", Usage: "vehicles of the generated base instance when sweeping b"},
		cli.Float64Flag{Name: "budget", Usage: "uniform budget of the base instance when sweeping U"},
		cli.GenericFlag{Name: "budgets", Value: &maxcov.FloatList{}, Usage: "per-vehicle budgets of the base instance, overrides --budget"},
		cli.Int64Flag{Name: "seed", Usage: "seed for the generated base instance"},
		cli.StringFlag{Name: "instance, i", Usage: "use this instance file as the base instead of generating one"},
		cli.IntFlag{Name: "parallel", Usage: "steps solved at once"},
		cli.StringFlag{Name: "metrics", Usage: "write Prometheus metrics to this textfile when done"},
		cli.BoolFlag{Name: "secondary", Usage: "break coverage ties by total travel cost"},
		cli.BoolFlag{Name: "dump-lp", Usage: "write each step's program as step_NNN.lp"},
		cli.StringFlag{Name: "model-file", Usage: "have gurobi write each step's model, the extension picks the format (step_NNN.mps for x.mps)"},
	}
	app.Action = run
	if err := app.Run(os.Args); err != nil {
		logrus.Fatal(err)
	}
}

func run(c *cli.Context) error {
	cfg, err := config.Load(c.String("config"))
	if err != nil {
		return err
	}
	applyFlags(c, &cfg)
	if err = cfg.Validate(); err != nil {
		return err
	}
	log, err := cfg.Log.NewLogger()
	if err != nil {
		return err
	}

	plan := sweep.PlanFromConfig(cfg)
	base, err := baseInstance(c, cfg, plan)
	if err != nil {
		return err
	}
	insts, err := sweep.Instances(plan, base)
	if err != nil {
		return err
	}

	eng := &grb.Engine{
		LogFile:      cfg.Engine.LogFile,
		LogToConsole: cfg.Engine.LogToConsole,
		Threads:      cfg.Engine.Threads,
		Logger:       log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	report, err := sweep.Run(ctx, plan, insts, eng, log)
	if err != nil {
		return err
	}
	for _, s := range report.Steps {
		entry := log.WithFields(logrus.Fields{"step": s.Index, cfg.Experiment.Param: s.Value})
		if s.Err != nil {
			entry.WithError(s.Err).Warn("Step failed")
			continue
		}
		entry.WithFields(logrus.Fields{"status": s.Result.Status, "obj": s.Result.ObjectiveValue}).Info("Step result")
	}

	if cfg.Experiment.MetricsFile != "" {
		if err = metrics.WriteTextfile(cfg.Experiment.MetricsFile); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}

// applyFlags lets every flag given on the command line override the config file.
func applyFlags(c *cli.Context, cfg *config.Config) {
	e := &cfg.Experiment
	if c.IsSet("output") {
		e.Output = c.String("output")
	}
	if c.IsSet("param") {
		e.Param = c.String("param")
	}
	if c.IsSet("steps") {
		e.Steps = c.Int("steps")
	}
	if c.IsSet("start") {
		e.Start = c.Float64("start")
	}
	if c.IsSet("increment") {
		e.Increment = c.Float64("increment")
	}
	if c.IsSet("clients") {
		e.Clients = c.Int("clients")
	}
	if c.IsSet("vehicles") {
		e.Vehicles = c.Int("vehicles")
	}
	if c.IsSet("budget") {
		e.Budget = c.Float64("budget")
	}
	if c.IsSet("seed") {
		e.Seed = c.Int64("seed")
	}
	if c.IsSet("parallel") {
		e.Parallel = c.Int("parallel")
	}
	if c.IsSet("metrics") {
		e.MetricsFile = c.String("metrics")
	}
	if c.IsSet("secondary") {
		cfg.Solve.MinimizeCost = c.Bool("secondary")
	}
	if c.IsSet("dump-lp") {
		cfg.Solve.DumpLP = c.Bool("dump-lp")
	}
	if c.IsSet("model-file") {
		cfg.Engine.ModelFile = c.String("model-file")
	}
}

func baseInstance(c *cli.Context, cfg config.Config, plan sweep.Plan) (*maxcov.Instance, error) {
	if file := c.String("instance"); file != "" {
		return maxcov.LoadInstance(file)
	}
	e := cfg.Experiment
	vehicles := e.Vehicles
	if plan.Param == config.ParamVehicles {
		vehicles = plan.MaxVehicles()
	}
	budgets := []float64{e.Budget}
	if list, ok := c.Generic("budgets").(*maxcov.FloatList); ok && len(*list) > 0 {
		budgets = *list
	}
	return maxcov.Generate(rand.New(rand.NewSource(e.Seed)), maxcov.GenerateOptions{
		Clients:  e.Clients,
		Vehicles: vehicles,
		Budgets:  budgets,
	})
}
