// internal/workers/quote/calculate-premium-quote/config.go
package calculatepremiumquote

import "time"

type Config struct {
	Timeout      time.Duration
	StrictRanges bool
}

func LoadConfig() *Config {
	return &Config{
		Timeout: 5 * time.Second,
	}
}
