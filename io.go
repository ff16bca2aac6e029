package maxcov

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadInstance parses the text format
//
//	U,n
//	n+U lines of n+U comma-separated costs, clients first, then depots
//	U comma-separated budgets
//
// Structural problems are reported as *ParseError before any validation runs.
func ReadInstance(r io.Reader) (*Instance, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 64*1024*1024)
	var lines []string
	for scanner.Scan() {
		lines = append(lines, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, &ParseError{Line: len(lines) + 1, Msg: "read failed", Err: err}
	}
	if len(lines) == 0 || strings.TrimSpace(lines[0]) == "" {
		return nil, &ParseError{Line: 1, Msg: "empty input"}
	}

	header, err := parseInts(lines[0], 1, 2)
	if err != nil {
		return nil, err
	}
	u, n := header[0], header[1]
	if u < 0 || n < 0 {
		return nil, &ParseError{Line: 1, Msg: fmt.Sprintf("negative size U=%d n=%d", u, n)}
	}
	dim := n + u
	want := dim + 2
	for len(lines) > want && strings.TrimSpace(lines[len(lines)-1]) == "" {
		lines = lines[:len(lines)-1]
	}
	if u == 0 && len(lines) == want-1 {
		// the budget line of a vehicle-less instance is empty
		lines = append(lines, "")
	}
	if len(lines) != want {
		return nil, &ParseError{Line: len(lines), Msg: fmt.Sprintf("expected %d lines for U=%d n=%d, got %d", want, u, n, len(lines))}
	}

	cost := make([][]float64, dim)
	for i := 0; i < dim; i++ {
		cost[i], err = parseFloats(lines[1+i], 2+i, dim)
		if err != nil {
			return nil, err
		}
	}
	budget, err := parseFloats(lines[dim+1], dim+2, u)
	if err != nil {
		return nil, err
	}
	return NewInstance(n, u, cost, budget)
}

func splitFields(line string, lineNo, want int) ([]string, error) {
	line = strings.TrimSpace(line)
	if want == 0 {
		if line != "" {
			return nil, &ParseError{Line: lineNo, Msg: "expected an empty line"}
		}
		return nil, nil
	}
	fields := strings.Split(line, ",")
	if len(fields) != want {
		return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("expected %d fields, got %d", want, len(fields))}
	}
	return fields, nil
}

func parseInts(line string, lineNo, want int) ([]int, error) {
	fields, err := splitFields(line, lineNo, want)
	if err != nil {
		return nil, err
	}
	out := make([]int, len(fields))
	for k, f := range fields {
		out[k], err = strconv.Atoi(strings.TrimSpace(f))
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("field %d is not an integer", k+1), Err: err}
		}
	}
	return out, nil
}

func parseFloats(line string, lineNo, want int) ([]float64, error) {
	fields, err := splitFields(line, lineNo, want)
	if err != nil {
		return nil, err
	}
	out := make([]float64, len(fields))
	for k, f := range fields {
		out[k], err = strconv.ParseFloat(strings.TrimSpace(f), 64)
		if err != nil {
			return nil, &ParseError{Line: lineNo, Msg: fmt.Sprintf("field %d is not a number", k+1), Err: err}
		}
	}
	return out, nil
}

// WriteInstance writes inst in the format ReadInstance reads, with shortest
// round-trip number formatting.
func WriteInstance(w io.Writer, inst *Instance) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "%d,%d\n", inst.U(), inst.N())
	for _, row := range inst.cost {
		bw.WriteString(joinFloats(row))
		bw.WriteString("\n")
	}
	bw.WriteString(joinFloats(inst.budget))
	bw.WriteString("\n")
	return bw.Flush()
}

func joinFloats(xs []float64) string {
	parts := make([]string, len(xs))
	for k, x := range xs {
		parts[k] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return strings.Join(parts, ",")
}

func LoadInstance(fileName string) (*Instance, error) {
	f, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	inst, err := ReadInstance(f)
	if err != nil {
		return nil, fmt.Errorf("at %s: %w", fileName, err)
	}
	return inst, nil
}

func SaveInstance(fileName string, inst *Instance) error {
	f, err := os.Create(fileName)
	if err != nil {
		return err
	}
	if err = WriteInstance(f, inst); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// MarshalResult renders res as indented JSON with numeric arrays kept on one line.
func MarshalResult(res *Result) ([]byte, error) {
	jsonRes, err := json.MarshalIndent(res, "", "\t")
	if err != nil {
		return nil, err
	}
	return []byte(SanitizeJsonArrayLineBreaks(string(jsonRes))), nil
}

func SaveResult(fileName string, res *Result) error {
	jsonRes, err := MarshalResult(res)
	if err != nil {
		return err
	}
	return os.WriteFile(fileName, jsonRes, 0644)
}

func LoadResult(fileName string) (*Result, error) {
	data, err := os.ReadFile(fileName)
	if err != nil {
		return nil, err
	}
	res := &Result{}
	if err = json.Unmarshal(data, res); err != nil {
		return nil, fmt.Errorf("at %s: %w", fileName, err)
	}
	return res, nil
}
