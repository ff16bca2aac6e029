package mip

import (
	"fmt"
	"math"
)

// Violations lists every bound, integrality and row of p that values breaks by
// more than tol. An empty result means values is feasible for p.
func (p *Program) Violations(values []float64, tol float64) []string {
	if len(values) != len(p.Vars) {
		return []string{fmt.Sprintf("got %d values for %d variables", len(values), len(p.Vars))}
	}
	var out []string
	for i, v := range p.Vars {
		x := values[i]
		if x < v.LB-tol || x > v.UB+tol {
			out = append(out, fmt.Sprintf("%s = %g outside [%g, %g]", v.Name, x, v.LB, v.UB))
		}
		if v.Type != Continuous && math.Abs(x-math.Round(x)) > tol {
			out = append(out, fmt.Sprintf("%s = %g is not integral", v.Name, x))
		}
	}
	for _, c := range p.Constrs {
		lhs := 0.0
		for _, t := range c.Terms {
			lhs += t.Coef * values[t.Var]
		}
		var broken bool
		switch c.Sense {
		case LessEqual:
			broken = lhs > c.RHS+tol
		case GreaterEqual:
			broken = lhs < c.RHS-tol
		case Equal:
			broken = math.Abs(lhs-c.RHS) > tol
		}
		if broken {
			out = append(out, fmt.Sprintf("%s: %g %s %g does not hold", c.Name, lhs, c.Sense, c.RHS))
		}
	}
	return out
}
