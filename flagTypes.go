package maxcov

import (
	"fmt"
	"strconv"
	"strings"
)

// IntList is a flag value collecting integers from repeated flags or
// comma-separated lists: -n 5 -n 10 and -n 5,10 are the same.
type IntList []int

func (l *IntList) String() string {
	return fmt.Sprintf("%v", []int(*l))
}

func (l *IntList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		val, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return err
		}
		*l = append(*l, val)
	}
	return nil
}

// FloatList is the float64 counterpart of IntList. Negative values are refused
// since every list of reals on the command line is a budget or a cost.
type FloatList []float64

func (l *FloatList) String() string {
	return fmt.Sprintf("%v", []float64(*l))
}

func (l *FloatList) Set(value string) error {
	for _, part := range strings.Split(value, ",") {
		val, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return err
		}
		if val < 0 {
			return fmt.Errorf("negative value %v", val)
		}
		*l = append(*l, val)
	}
	return nil
}
