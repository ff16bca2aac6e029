package maxcov

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const smallOPLib = `NAME : small
COMMENT : four nodes on a line
TYPE : OP
DIMENSION : 4
COST_LIMIT : 12
EDGE_WEIGHT_TYPE : EUC_2D
NODE_COORD_SECTION
1 0 0
2 3 4
3 0 2.6
4 6 8
NODE_SCORE_SECTION
1 0
2 10
3 10
4 10
DEPOT_SECTION
1
-1
EOF
`

func TestReadOPLib(t *testing.T) {
	inst, hdr, err := ReadOPLib(strings.NewReader(smallOPLib), 0)
	require.NoError(t, err)
	assert.Equal(t, "small", hdr.Name)
	assert.Equal(t, "OP", hdr.Type)
	assert.Equal(t, 12.0, hdr.CostLimit)
	assert.Equal(t, []int{0}, hdr.Depots)

	assert.Equal(t, 3, inst.N())
	assert.Equal(t, 1, inst.U())
	assert.Equal(t, []float64{12}, inst.Budgets())
	assert.Equal(t, 5.0, inst.Cost(inst.Depot(0), 0))
	assert.Equal(t, 3.0, inst.Cost(1, inst.Depot(0)), "2.6 rounds to 3")
	assert.Equal(t, 10.0, inst.Cost(2, inst.Depot(0)))
}

func TestReadOPLibVehicles(t *testing.T) {
	inst, _, err := ReadOPLib(strings.NewReader(smallOPLib), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, inst.U())
	assert.Equal(t, []float64{12, 12, 12}, inst.Budgets())
	// all depots share the file's depot position
	assert.Equal(t, 0.0, inst.Cost(inst.Depot(0), inst.Depot(2)))
}

func TestReadOPLibErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		line  int
	}{
		{"bad header", "NAME small\n", 1},
		{"bad weight type", "EDGE_WEIGHT_TYPE : GEO\n", 1},
		{"bad coordinate", "NODE_COORD_SECTION\n1 0 x\n", 2},
		{"unknown depot", "NODE_COORD_SECTION\n1 0 0\nDEPOT_SECTION\n4\n-1\n", 4},
		{"no depot", "NODE_COORD_SECTION\n1 0 0\n", 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := ReadOPLib(strings.NewReader(tt.input), 1)
			var perr *ParseError
			require.ErrorAs(t, err, &perr)
			assert.Equal(t, tt.line, perr.Line)
		})
	}
}
