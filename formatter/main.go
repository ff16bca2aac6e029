package main

import (
	"os"

	"github.com/sirupsen/logrus"

	"git.solver4all.com/azaryc2s/maxcov"
)

// Re-indents result files in place, keeping numeric arrays on one line.
func main() {
	if len(os.Args) < 2 {
		logrus.Error("No arguments passed!")
		return
	}
	failed := false
	for _, fileName := range os.Args[1:] {
		res, err := maxcov.LoadResult(fileName)
		if err != nil {
			logrus.Errorf("At %s: %s", fileName, err.Error())
			failed = true
			continue
		}
		if err = maxcov.SaveResult(fileName, res); err != nil {
			logrus.Errorf("At %s: %s", fileName, err.Error())
			failed = true
		}
	}
	if failed {
		os.Exit(1)
	}
}
