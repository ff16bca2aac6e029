package mip

import (
	"bufio"
	"io"
	"math"
	"sort"
	"strconv"
)

const lpTermsPerLine = 8

// WriteLP writes the program in CPLEX LP format. With several objectives only the
// highest-priority one becomes the LP objective; the others are listed as comments.
func WriteLP(w io.Writer, p *Program) error {
	bw := bufio.NewWriter(w)
	names := p.VarNames()

	bw.WriteString(`\ Problem: ` + p.Name + "\n")
	levels := append([]Objective(nil), p.Objectives...)
	sort.SliceStable(levels, func(a, b int) bool { return levels[a].Priority > levels[b].Priority })
	for _, obj := range levels[min(1, len(levels)):] {
		bw.WriteString(`\ Objective ` + obj.Name + " (" + obj.Direction.String() + ", priority " + strconv.Itoa(obj.Priority) + ")\n")
	}
	if len(levels) == 0 || levels[0].Direction == Maximize {
		bw.WriteString("Maximize\n")
	} else {
		bw.WriteString("Minimize\n")
	}
	if len(levels) > 0 {
		writeRow(bw, levels[0].Name, levels[0].Terms, names)
		if levels[0].Constant != 0 {
			bw.WriteString("   " + signed(levels[0].Constant) + "\n")
		}
	} else {
		bw.WriteString(" obj:\n")
	}

	bw.WriteString("Subject To\n")
	for _, c := range p.Constrs {
		writeRow(bw, c.Name, c.Terms, names)
		bw.WriteString("   " + c.Sense.String() + " " + fmtFloat(c.RHS) + "\n")
	}

	bw.WriteString("Bounds\n")
	for _, v := range p.Vars {
		if v.Type == Binary && v.LB == 0 && v.UB == 1 {
			continue
		}
		switch {
		case v.LB == v.UB:
			bw.WriteString(" " + v.Name + " = " + fmtFloat(v.LB) + "\n")
		case math.IsInf(v.LB, -1) && math.IsInf(v.UB, 1):
			bw.WriteString(" " + v.Name + " free\n")
		default:
			bw.WriteString(" " + fmtFloat(v.LB) + " <= " + v.Name + " <= " + fmtFloat(v.UB) + "\n")
		}
	}

	writeSection(bw, "Binaries", p.Vars, Binary)
	writeSection(bw, "Generals", p.Vars, Integer)
	bw.WriteString("End\n")
	return bw.Flush()
}

func writeRow(bw *bufio.Writer, name string, terms []Term, names []string) {
	bw.WriteString(" " + name + ":")
	if len(terms) == 0 {
		bw.WriteString(" 0")
	}
	for k, t := range terms {
		if k > 0 && k%lpTermsPerLine == 0 {
			bw.WriteString("\n  ")
		}
		bw.WriteString(" " + signed(t.Coef) + " " + names[t.Var])
	}
	bw.WriteString("\n")
}

func writeSection(bw *bufio.Writer, title string, vars []Var, vtype VarType) {
	var count int
	for _, v := range vars {
		if v.Type != vtype {
			continue
		}
		if count == 0 {
			bw.WriteString(title + "\n")
		}
		if count%lpTermsPerLine == 0 {
			bw.WriteString(" ")
		}
		bw.WriteString(" " + v.Name)
		count++
		if count%lpTermsPerLine == 0 {
			bw.WriteString("\n")
		}
	}
	if count%lpTermsPerLine != 0 {
		bw.WriteString("\n")
	}
}

func signed(c float64) string {
	if c < 0 {
		return "- " + fmtFloat(-c)
	}
	return "+ " + fmtFloat(c)
}

func fmtFloat(f float64) string {
	switch {
	case math.IsInf(f, 1):
		return "+inf"
	case math.IsInf(f, -1):
		return "-inf"
	}
	return strconv.FormatFloat(f, 'g', -1, 64)
}
