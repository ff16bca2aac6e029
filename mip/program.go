// Package mip describes mixed-integer programs independently of any solver engine
// and drives an Engine through a lexicographic sequence of objectives.
package mip

import "fmt"

type VarType int8

const (
	Continuous VarType = iota
	Binary
	Integer
)

func (t VarType) String() string {
	switch t {
	case Continuous:
		return "continuous"
	case Binary:
		return "binary"
	case Integer:
		return "integer"
	}
	return fmt.Sprintf("VarType(%d)", int8(t))
}

type Sense int8

const (
	LessEqual Sense = iota
	Equal
	GreaterEqual
)

func (s Sense) String() string {
	switch s {
	case LessEqual:
		return "<="
	case Equal:
		return "="
	case GreaterEqual:
		return ">="
	}
	return fmt.Sprintf("Sense(%d)", int8(s))
}

type Direction int8

const (
	Maximize Direction = iota
	Minimize
)

func (d Direction) String() string {
	if d == Minimize {
		return "Minimize"
	}
	return "Maximize"
}

// Var is a decision variable. Its position in Program.Vars is its index.
type Var struct {
	Name string
	Type VarType
	LB   float64
	UB   float64
}

// Term is coef * Vars[Var].
type Term struct {
	Var  int
	Coef float64
}

type Constr struct {
	Name  string
	Terms []Term
	Sense Sense
	RHS   float64
}

// Objective is one level of a lexicographic objective. Higher Priority is solved first.
type Objective struct {
	Name      string
	Direction Direction
	Priority  int
	Terms     []Term
	Constant  float64
}

// Value evaluates the objective on a full variable assignment.
func (o Objective) Value(values []float64) float64 {
	v := o.Constant
	for _, t := range o.Terms {
		v += t.Coef * values[t.Var]
	}
	return v
}

type Program struct {
	Name       string
	Vars       []Var
	Constrs    []Constr
	Objectives []Objective
}

func NewProgram(name string) *Program {
	return &Program{Name: name}
}

// AddVar appends a variable and returns its index.
func (p *Program) AddVar(name string, vtype VarType, lb, ub float64) int {
	if vtype == Binary {
		lb, ub = clampBinary(lb), clampBinary(ub)
	}
	p.Vars = append(p.Vars, Var{Name: name, Type: vtype, LB: lb, UB: ub})
	return len(p.Vars) - 1
}

func clampBinary(b float64) float64 {
	if b < 0 {
		return 0
	}
	if b > 1 {
		return 1
	}
	return b
}

// AddConstr appends a linear row and returns its index.
func (p *Program) AddConstr(name string, terms []Term, sense Sense, rhs float64) int {
	p.Constrs = append(p.Constrs, Constr{Name: name, Terms: terms, Sense: sense, RHS: rhs})
	return len(p.Constrs) - 1
}

func (p *Program) AddObjective(obj Objective) {
	p.Objectives = append(p.Objectives, obj)
}

// VarNames returns the variable names in index order.
func (p *Program) VarNames() []string {
	names := make([]string, len(p.Vars))
	for i, v := range p.Vars {
		names[i] = v.Name
	}
	return names
}

// Clone copies the program deep enough that rows and objectives may be appended
// to the copy without touching p.
func (p *Program) Clone() *Program {
	c := &Program{Name: p.Name}
	c.Vars = append([]Var(nil), p.Vars...)
	c.Constrs = append([]Constr(nil), p.Constrs...)
	c.Objectives = append([]Objective(nil), p.Objectives...)
	return c
}
