// internal/workers/quote/build-dashboard-data/models.go
package builddashboarddata

import "home-quote-workers/internal/pricing"

type Input struct {
	TopN *int `json:"topN,omitempty"`
}

type Output struct {
	TopRiskStates []pricing.RiskFactorPoint `json:"topRiskStates"`
	PremiumTrend  []pricing.TrendPoint      `json:"premiumTrend"`
	Defaults      pricing.Defaults          `json:"defaults"`
	States        []string                  `json:"states"`
	PropertyTypes []string                  `json:"propertyTypes"`
}
