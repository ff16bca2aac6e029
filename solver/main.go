/* Copyright 2021, Arkadiusz Zarychta, arkadiusz.zarychta@h-brs.de */
/* Copyright 2021, Gurobi Optimization, LLC */

package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/sirupsen/logrus"

	"git.solver4all.com/azaryc2s/maxcov"
	"git.solver4all.com/azaryc2s/maxcov/config"
	"git.solver4all.com/azaryc2s/maxcov/grb"
)

var inputF, outputF, configF, lpF *string
var secondary, verify *bool
var threads *int

func main() {
	inputF = flag.String("input", "input.txt", "Path to the input instance")
	outputF = flag.String("output", "", "Path to the output file. By default <input>_sol.json next to the input")
	configF = flag.String("config", "", "Path to a YAML config file")
	lpF = flag.String("lp", "", "Write the full program in LP format to this file before solving")
	secondary = flag.Bool("secondary", false, "Break coverage ties by the total travel cost")
	verify = flag.Bool("verify", true, "Check the engine's values against every row of the program")
	threads = flag.Int("threads", -1, "Gurobi threads, 0 for Gurobi's default. Overrides the config")
	flag.Parse()

	cfg, err := config.Load(*configF)
	if err != nil {
		logrus.Fatalf("At %s: %s", *configF, err.Error())
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "secondary":
			cfg.Solve.MinimizeCost = *secondary
		case "verify":
			cfg.Solve.Verify = *verify
		case "threads":
			cfg.Engine.Threads = *threads
		}
	})
	if err = cfg.Validate(); err != nil {
		logrus.Fatalf("At %s: %s", *configF, err.Error())
	}
	log, err := cfg.Log.NewLogger()
	if err != nil {
		logrus.Fatal(err)
	}

	if err = solve(cfg, log); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

// solve runs one instance file end to end. Files it opens are closed before
// main exits.
func solve(cfg config.Config, log *logrus.Logger) error {
	inst, err := maxcov.LoadInstance(*inputF)
	if err != nil {
		return fmt.Errorf("At %s: %w", *inputF, err)
	}

	opts := maxcov.SolveOptions{
		Name:         *inputF,
		MinimizeCost: cfg.Solve.MinimizeCost,
		Verify:       cfg.Solve.Verify,
		Logger:       log,
	}
	lpFile := *lpF
	if lpFile == "" && cfg.Solve.DumpLP {
		lpFile = strings.TrimSuffix(*inputF, ".txt") + ".lp"
	}
	if lpFile != "" {
		f, err := os.Create(lpFile)
		if err != nil {
			return fmt.Errorf("At %s: %w", lpFile, err)
		}
		defer f.Close()
		opts.Dump = f
	}

	eng := &grb.Engine{
		LogFile:      cfg.Engine.LogFile,
		LogToConsole: cfg.Engine.LogToConsole,
		Threads:      cfg.Engine.Threads,
		ModelFile:    cfg.Engine.ModelFile,
		Logger:       log,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	res, err := maxcov.Solve(ctx, inst, eng, opts)
	if err != nil {
		return fmt.Errorf("At %s: %w", *inputF, err)
	}
	if res.Solved() {
		if _, err = maxcov.CheckResult(inst, res); err != nil {
			res.Comment += "CHECK: Error = " + err.Error()
			log.Errorf("At %s: %s", *inputF, err.Error())
		}
	}
	res.System = maxcov.CurrentSysInfo()

	log.Println("\n---OPTIMIZATION DONE---\n\t Generating and writing result now")
	return writeSolution(res)
}

func writeSolution(res *maxcov.Result) error {
	var fileName string
	if *outputF == "" {
		fileName = strings.TrimSuffix(*inputF, ".txt") + "_sol.json"
	} else {
		fileName = *outputF
	}
	if err := maxcov.SaveResult(fileName, res); err != nil {
		return fmt.Errorf("At %s: %w", fileName, err)
	}
	return nil
}
