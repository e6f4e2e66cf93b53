package stats

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

// ZVal returns the two-tailed z-value for a confidence level given in
// percent, e.g. 1.96 for 95.
func ZVal(confidence float64) float64 {
	dist := distuv.Normal{Mu: 0, Sigma: 1}
	return dist.Quantile((1 + confidence/100) / 2)
}

// Interval is a two-sided confidence interval around an estimate.
type Interval struct {
	Estimate float64
	Low      float64
	High     float64
}

// WinRateInterval is the Wilson score interval for wins out of games, at
// the given confidence in percent. Draws count as half a win.
func WinRateInterval(wins float64, games int, confidence float64) Interval {
	if games <= 0 {
		return Interval{}
	}
	n := float64(games)
	p := wins / n
	z := ZVal(confidence)
	z2 := z * z
	denom := 1 + z2/n
	center := (p + z2/(2*n)) / denom
	half := z * math.Sqrt(p*(1-p)/n+z2/(4*n*n)) / denom
	return Interval{
		Estimate: p,
		Low:      math.Max(0, center-half),
		High:     math.Min(1, center+half),
	}
}
