package stats

import "gonum.org/v1/gonum/stat/distuv"

// ZVal is the two-tailed critical value of the unit normal for a confidence
// level given in percent, e.g. 1.96 for 95.
func ZVal(pct float64) float64 {
	tail := (1 - pct/100) / 2
	return distuv.UnitNormal.Quantile(1 - tail)
}
