package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"git.solver4all.com/azaryc2s/maxcov"
)

// Prints one CSV line per <name>_sol.json in the given folder. The instance is
// read from <name>.txt next to it and the result is re-checked against it.
func main() {
	if len(os.Args) < 2 {
		logrus.Error("No arguments passed!")
		return
	}
	dirName := os.Args[1]
	dir, err := os.ReadDir(dirName)
	if err != nil {
		logrus.Errorf("Couldn't open directory %s: %s", dirName, err.Error())
		os.Exit(1)
	}
	fmt.Printf("Name,Status,Optimal,Time,Obj,Bound,Gap,Clients,Vehicles,TotalCost,Comment\n")
	for _, f := range dir {
		if !strings.HasSuffix(f.Name(), "_sol.json") {
			continue
		}
		resFile := filepath.Join(dirName, f.Name())
		instFile := strings.TrimSuffix(resFile, "_sol.json") + ".txt"
		res, err := maxcov.LoadResult(resFile)
		if err != nil {
			logrus.Errorf("Couldn't parse %s: %s", f.Name(), err.Error())
			continue
		}
		inst, err := maxcov.LoadInstance(instFile)
		if err != nil {
			logrus.Errorf("Couldn't read the instance of %s: %s", f.Name(), err.Error())
			continue
		}
		total, err := maxcov.CheckResult(inst, res)
		if err != nil {
			res.Comment += fmt.Sprintf("ANALYZER: Error = %s", err.Error())
		}
		gap := 0.0
		if res.Bound != 0 {
			gap = 100.0 * (res.Bound - res.ObjectiveValue) / res.Bound
		}
		fmt.Printf("%s,%s,%t,%s,%g,%g,%.4f,%d,%d,%g,%s\n", res.Name, res.Status, res.Optimal, res.Time,
			res.ObjectiveValue, res.Bound, gap, inst.N(), inst.U(), total, strings.ReplaceAll(res.Comment, ",", ";"))
	}
}
