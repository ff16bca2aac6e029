package mip

import "fmt"

type Status int

const (
	StatusUnknown Status = iota
	StatusOptimal
	StatusInfeasible
	StatusUnbounded
	StatusInfOrUnbd
	// StatusStopped covers time, node and solution limits, interrupts and suboptimal terminations.
	StatusStopped
)

var statusNames = map[Status]string{
	StatusUnknown:    "unknown",
	StatusOptimal:    "optimal",
	StatusInfeasible: "infeasible",
	StatusUnbounded:  "unbounded",
	StatusInfOrUnbd:  "inf_or_unbd",
	StatusStopped:    "stopped",
}

func (s Status) String() string {
	if name, ok := statusNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Status(%d)", int(s))
}

// Terminal reports statuses after which resubmitting the same program is pointless
// and no solution exists to report.
func (s Status) Terminal() bool {
	return s == StatusInfeasible || s == StatusUnbounded || s == StatusInfOrUnbd
}

func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

func (s *Status) UnmarshalText(text []byte) error {
	for k, v := range statusNames {
		if v == string(text) {
			*s = k
			return nil
		}
	}
	return fmt.Errorf("mip: unknown status %q", string(text))
}

// Solution is what an engine hands back for one objective.
// Values is index-aligned with Program.Vars and nil when the engine found no solution.
type Solution struct {
	Status    Status
	Objective float64
	Bound     float64
	Values    []float64

	// Objectives holds one value per solved lexicographic level, highest priority first.
	// Filled by Solve, not by engines.
	Objectives []float64
}

func (s *Solution) HasValues() bool {
	return s != nil && s.Values != nil
}
