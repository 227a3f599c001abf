// internal/pricing/calculator.go
package pricing

import "math"

const (
	BasePremium = 900

	highPremiumThreshold   = 1800
	mediumPremiumThreshold = 1300

	maxSizeFactor = 1.40
)

// Risk labels derived from the premium.
const (
	RiskLow    = "Low"
	RiskMedium = "Medium"
	RiskHigh   = "High"
)

// Quote is the result of a single computation. It has no identity.
type Quote struct {
	Premium   int    `json:"premium"`
	RiskLabel string `json:"riskLabel"`
}

// QuoteBreakdown lists the factors that produced a premium.
type QuoteBreakdown struct {
	Base           float64 `json:"base"`
	HazardFactor   float64 `json:"hazardFactor"`
	PropertyFactor float64 `json:"propertyFactor"`
	RoofFactor     float64 `json:"roofFactor"`
	SizeFactor     float64 `json:"sizeFactor"`
}

// ComputeQuote prices a home. Unknown states and property types fall back to
// their default factors and a nil square footage counts as zero, so the
// function never fails.
func ComputeQuote(state, propertyType string, squareFootage *float64, roofAge float64) Quote {
	b := Breakdown(state, propertyType, squareFootage, roofAge)
	premium := int(math.RoundToEven(b.Base * b.HazardFactor * b.PropertyFactor * b.RoofFactor * b.SizeFactor))
	return Quote{
		Premium:   premium,
		RiskLabel: RiskLabel(premium),
	}
}

func Breakdown(state, propertyType string, squareFootage *float64, roofAge float64) QuoteBreakdown {
	sqft := 0.0
	if squareFootage != nil {
		sqft = *squareFootage
	}
	return QuoteBreakdown{
		Base:           BasePremium,
		HazardFactor:   HazardFactor(state),
		PropertyFactor: PropertyFactor(propertyType),
		RoofFactor:     RoofFactor(roofAge),
		SizeFactor:     SizeFactor(sqft),
	}
}

func HazardFactor(state string) float64 {
	if f, ok := stateFactors[state]; ok {
		return f
	}
	return LowRisk
}

func PropertyFactor(propertyType string) float64 {
	if f, ok := propertyFactors[propertyType]; ok {
		return f
	}
	return DefaultPropertyFactor
}

// RoofFactor steps up past 8 and 15 years.
func RoofFactor(roofAge float64) float64 {
	switch {
	case roofAge > 15:
		return 1.12
	case roofAge > 8:
		return 1.06
	default:
		return 1.0
	}
}

// SizeFactor scales linearly with square footage and is capped at 1.40.
// There is no floor.
func SizeFactor(squareFootage float64) float64 {
	return math.Min(maxSizeFactor, 0.85+squareFootage/4000.0)
}

// RiskLabel classifies a premium; each threshold belongs to the lower band.
func RiskLabel(premium int) string {
	switch {
	case premium > highPremiumThreshold:
		return RiskHigh
	case premium > mediumPremiumThreshold:
		return RiskMedium
	default:
		return RiskLow
	}
}
