// internal/workers/quote/calculate-premium-quote/models.go
package calculatepremiumquote

import "home-quote-workers/internal/pricing"

// Input mirrors the quote form. SquareFootage is nil when the field is absent or null.
type Input struct {
	Address       string   `json:"address,omitempty"`
	State         string   `json:"state"`
	PropertyType  string   `json:"propertyType"`
	SquareFootage *float64 `json:"squareFootage"`
	RoofAge       float64  `json:"roofAge"`
}

type Output struct {
	Premium          int                    `json:"premium"`
	RiskLabel        string                 `json:"riskLabel"`
	FormattedPremium string                 `json:"formattedPremium"`
	Breakdown        pricing.QuoteBreakdown `json:"breakdown"`
}
