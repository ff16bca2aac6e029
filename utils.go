package maxcov

import (
	"fmt"
	"math"
	"regexp"

	"github.com/shirou/gopsutil/cpu"
	"github.com/shirou/gopsutil/host"
	"github.com/shirou/gopsutil/mem"
)

const (
	EUC_2D  = "EUC_2D"
	CEIL_2D = "CEIL_2D"
)

// CalcEdgeDist returns the full distance matrix between the given points.
// EUC_2D keeps the exact euclidean distance, CEIL_2D rounds it up.
func CalcEdgeDist(coordinates [][]float64, distType string) [][]float64 {
	n := len(coordinates)
	result := make([][]float64, n)
	for node := 0; node < n; node++ {
		result[node] = make([]float64, n)
	}
	for node := 0; node < n; node++ {
		for node2 := 0; node2 < node; node2++ {
			xDist := coordinates[node][0] - coordinates[node2][0]
			yDist := coordinates[node][1] - coordinates[node2][1]
			distance := math.Sqrt(math.Pow(xDist, 2) + math.Pow(yDist, 2))
			if distType == CEIL_2D {
				distance = math.Ceil(distance)
			}
			result[node][node2] = distance
			result[node2][node] = distance
		}
	}
	return result
}

// CurrentSysInfo describes the machine a result was computed on.
func CurrentSysInfo() SysInfo {
	var info SysInfo
	if hostStat, err := host.Info(); err == nil {
		info.Platform = hostStat.Platform
	}
	if cpuStat, err := cpu.Info(); err == nil && len(cpuStat) > 0 {
		info.CPU = cpuStat[0].ModelName
	}
	if vmStat, err := mem.VirtualMemory(); err == nil {
		info.RAM = fmt.Sprintf("%d GB", vmStat.Total/1024/1024/1024)
	}
	return info
}

var (
	jsonNumbers  = regexp.MustCompile(`\s*([-]?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?),\s+([-]?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?)(,)?`)
	jsonBrackets = regexp.MustCompile(`\[(([-]?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?,)*[-]?[0-9]+(\.[0-9]+)?([eE][-+]?[0-9]+)?)\s+\](,?)(\s+)`)
)

// SanitizeJsonArrayLineBreaks folds numeric arrays that json.MarshalIndent spread
// over one line per element back onto a single line.
func SanitizeJsonArrayLineBreaks(json string) string {
	res := json
	for jsonNumbers.MatchString(res) {
		res = jsonNumbers.ReplaceAllString(res, "$1,$4$7")
	}
	for jsonBrackets.MatchString(res) {
		res = jsonBrackets.ReplaceAllString(res, "[$1]$7$8")
	}
	return res
}
