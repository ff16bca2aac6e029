package main

import (
	"flag"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"git.solver4all.com/azaryc2s/maxcov"
)

// Converts every .oplib file of a folder into the instance text format, written
// next to it as .txt.
func main() {
	vehicles := flag.Int("u", 0, "Number of vehicles, 0 for one per listed depot")
	flag.Parse()
	if flag.NArg() < 1 {
		logrus.Fatal("No folder passed!")
	}
	targetDir := flag.Arg(0)
	files, err := os.ReadDir(targetDir)
	if err != nil {
		logrus.Fatal(err)
	}

	for _, f := range files {
		if !strings.HasSuffix(f.Name(), ".oplib") {
			continue
		}
		fileName := filepath.Join(targetDir, f.Name())
		if err := convert(fileName, *vehicles); err != nil {
			logrus.Errorf("At %s: %s", fileName, err.Error())
		}
	}
}

func convert(fileName string, vehicles int) error {
	file, err := os.Open(fileName)
	if err != nil {
		return err
	}
	defer file.Close()

	inst, hdr, err := maxcov.ReadOPLib(file, vehicles)
	if err != nil {
		return err
	}
	out := strings.TrimSuffix(fileName, ".oplib") + ".txt"
	if err = maxcov.SaveInstance(out, inst); err != nil {
		return err
	}
	logrus.WithFields(logrus.Fields{
		"name":    hdr.Name,
		"clients": inst.N(),
		"U":       inst.U(),
		"file":    out,
	}).Info("Converted")
	return nil
}
