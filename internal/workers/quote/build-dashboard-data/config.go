// internal/workers/quote/build-dashboard-data/config.go
package builddashboarddata

import (
	"time"

	"home-quote-workers/internal/pricing"
)

type Config struct {
	Timeout       time.Duration
	TopRiskStates int
}

func LoadConfig() *Config {
	return &Config{
		Timeout:       5 * time.Second,
		TopRiskStates: pricing.DefaultTopRiskStates,
	}
}
