package maxcov

import (
	"bufio"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// OPLibHeader holds the header keys of an OPLib orienteering file.
type OPLibHeader struct {
	Name           string
	Comment        string
	Type           string
	EdgeWeightType string
	CostLimit      float64
	// Depots are 0-indexed file nodes.
	Depots []int
}

// ReadOPLib converts an OPLib instance (TSPLIB coordinates plus COST_LIMIT and
// DEPOT_SECTION) into an Instance. Every non-depot node becomes a client; node
// scores are read but dropped since every client counts once. Vehicle v starts
// at depot v modulo the listed depots and gets COST_LIMIT as budget. With
// vehicles <= 0 there is one vehicle per listed depot.
// EUC_2D distances are rounded to the nearest integer as TSPLIB defines them.
func ReadOPLib(r io.Reader, vehicles int) (*Instance, OPLibHeader, error) {
	var hdr OPLibHeader
	var coordinates [][]float64
	section := ""
	lineNo := 0
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		lineNo++
		t := strings.TrimSpace(scanner.Text())
		if t == "" || t == "EOF" {
			continue
		}
		switch t {
		case "NODE_COORD_SECTION", "NODE_SCORE_SECTION", "DEPOT_SECTION":
			section = t
			continue
		}

		switch section {
		case "":
			key, value, found := strings.Cut(t, ":")
			if !found {
				return nil, hdr, &ParseError{Line: lineNo, Msg: "expected KEY : VALUE"}
			}
			value = strings.TrimSpace(value)
			switch strings.TrimSpace(key) {
			case "NAME":
				hdr.Name = value
			case "COMMENT":
				hdr.Comment = value
			case "TYPE":
				hdr.Type = value
			case "EDGE_WEIGHT_TYPE":
				if value != EUC_2D && value != CEIL_2D {
					return nil, hdr, &ParseError{Line: lineNo, Msg: fmt.Sprintf("unsupported edge weight type %s", value)}
				}
				hdr.EdgeWeightType = value
			case "COST_LIMIT":
				limit, err := strconv.ParseFloat(value, 64)
				if err != nil {
					return nil, hdr, &ParseError{Line: lineNo, Msg: "cost limit is not a number", Err: err}
				}
				hdr.CostLimit = limit
			}
		case "NODE_COORD_SECTION":
			fields := strings.Fields(t)
			if len(fields) != 3 {
				return nil, hdr, &ParseError{Line: lineNo, Msg: fmt.Sprintf("expected index x y, got %d fields", len(fields))}
			}
			xy := make([]float64, 2)
			for k := range xy {
				v, err := strconv.ParseFloat(fields[k+1], 64)
				if err != nil {
					return nil, hdr, &ParseError{Line: lineNo, Msg: "coordinate is not a number", Err: err}
				}
				xy[k] = v
			}
			coordinates = append(coordinates, xy)
		case "NODE_SCORE_SECTION":
		case "DEPOT_SECTION":
			depot, err := strconv.Atoi(t)
			if err != nil {
				return nil, hdr, &ParseError{Line: lineNo, Msg: "depot is not an integer", Err: err}
			}
			if depot < 0 {
				section = "END"
				continue
			}
			if depot < 1 || depot > len(coordinates) {
				return nil, hdr, &ParseError{Line: lineNo, Msg: fmt.Sprintf("depot %d is not a node", depot)}
			}
			hdr.Depots = append(hdr.Depots, depot-1) // 1-indexed in the file
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, hdr, &ParseError{Line: lineNo + 1, Msg: "read failed", Err: err}
	}
	if len(hdr.Depots) == 0 {
		return nil, hdr, &ParseError{Line: lineNo, Msg: "no depot listed"}
	}
	if hdr.EdgeWeightType == "" {
		hdr.EdgeWeightType = EUC_2D
	}

	isDepot := make(map[int]bool, len(hdr.Depots))
	for _, d := range hdr.Depots {
		isDepot[d] = true
	}
	if vehicles <= 0 {
		vehicles = len(hdr.Depots)
	}
	points := make([][]float64, 0, len(coordinates)+vehicles)
	for i, xy := range coordinates {
		if !isDepot[i] {
			points = append(points, xy)
		}
	}
	n := len(points)
	budget := make([]float64, vehicles)
	for v := 0; v < vehicles; v++ {
		points = append(points, coordinates[hdr.Depots[v%len(hdr.Depots)]])
		budget[v] = hdr.CostLimit
	}

	cost := CalcEdgeDist(points, hdr.EdgeWeightType)
	if hdr.EdgeWeightType == EUC_2D {
		for _, row := range cost {
			for j := range row {
				row[j] = math.Floor(row[j] + 0.5)
			}
		}
	}
	inst, err := NewInstance(n, vehicles, cost, budget)
	return inst, hdr, err
}
