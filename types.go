package maxcov

import "git.solver4all.com/azaryc2s/maxcov/mip"

// Edge is a directed arc between two cost-matrix nodes, serialized as [from,to].
type Edge [2]int

func (e Edge) From() int { return e[0] }
func (e Edge) To() int   { return e[1] }

type Tour struct {
	Vehicle int `json:"vehicle"`
	Depot   int `json:"depot"`
	// Edges starts and ends at Depot. An idle vehicle has the single edge [Depot,Depot].
	Edges   []Edge  `json:"edges"`
	Clients []int   `json:"clients"`
	Cost    float64 `json:"cost"`
	Budget  float64 `json:"budget"`
}

type Result struct {
	Name    string     `json:"name"`
	RunID   string     `json:"run_id,omitempty"`
	Status  mip.Status `json:"status"`
	Optimal bool       `json:"optimal"`

	ObjectiveValue float64   `json:"obj"`
	Objectives     []float64 `json:"objectives,omitempty"`
	Bound          float64   `json:"bound"`
	Coverage       []int     `json:"coverage"`
	Tours          []Tour    `json:"tours"`

	RawAssignment map[string]float64 `json:"raw_assignment,omitempty"`

	Time    string  `json:"time"`
	System  SysInfo `json:"system"`
	Comment string  `json:"comment"`
}

// Solved reports whether the result carries coverage and tours.
func (r *Result) Solved() bool {
	return r != nil && r.Tours != nil
}

// SysInfo saves the basic system information
type SysInfo struct {
	Platform string
	CPU      string
	RAM      string
}
