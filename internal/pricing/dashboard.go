// internal/pricing/dashboard.go
package pricing

import "sort"

// DefaultTopRiskStates is how many states the risk chart shows.
const DefaultTopRiskStates = 12

type RiskFactorPoint struct {
	State  string  `json:"state"`
	Factor float64 `json:"factor"`
}

type TrendPoint struct {
	Month   string `json:"month"`
	Premium int    `json:"premium"`
}

// Range describes a nominal input control.
type Range struct {
	Min     float64 `json:"min"`
	Max     float64 `json:"max"`
	Default float64 `json:"default"`
	Step    float64 `json:"step"`
}

// Defaults are the values a quote form starts with.
type Defaults struct {
	State         string `json:"state"`
	PropertyType  string `json:"propertyType"`
	SquareFootage Range  `json:"squareFootage"`
	RoofAge       Range  `json:"roofAge"`
}

var sampleTrend = []TrendPoint{
	{"Jan", 1170}, {"Feb", 1180}, {"Mar", 1200}, {"Apr", 1210},
	{"May", 1245}, {"Jun", 1230}, {"Jul", 1265}, {"Aug", 1280},
	{"Sep", 1305}, {"Oct", 1310}, {"Nov", 1320}, {"Dec", 1335},
}

// TopRiskStates returns the n states with the highest hazard factor.
// Ties keep enumeration order. n is clamped to [0, len(States())].
func TopRiskStates(n int) []RiskFactorPoint {
	points := make([]RiskFactorPoint, 0, len(states))
	for _, s := range states {
		points = append(points, RiskFactorPoint{State: s, Factor: stateFactors[s]})
	}
	sort.SliceStable(points, func(i, j int) bool {
		return points[i].Factor > points[j].Factor
	})

	if n < 0 {
		n = 0
	}
	if n > len(points) {
		n = len(points)
	}
	return points[:n]
}

// SampleTrend is fixed demo data. It is not derived from any quote.
func SampleTrend() []TrendPoint {
	out := make([]TrendPoint, len(sampleTrend))
	copy(out, sampleTrend)
	return out
}

func DefaultInputs() Defaults {
	return Defaults{
		State:         "Texas",
		PropertyType:  SingleFamily,
		SquareFootage: Range{Min: 300, Max: 10000, Default: 2200, Step: 50},
		RoofAge:       Range{Min: 0, Max: 80, Default: 8, Step: 1},
	}
}
