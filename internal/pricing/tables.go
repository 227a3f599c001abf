// internal/pricing/tables.go
package pricing

// Risk tiers applied per state.
const (
	HighRisk   = 1.30
	MediumRisk = 1.10
	LowRisk    = 1.00
)

// DefaultPropertyFactor applies to any property type missing from the table.
const DefaultPropertyFactor = 1.0

var states = []string{
	"Alabama", "Alaska", "Arizona", "Arkansas", "California", "Colorado", "Connecticut", "Delaware", "District of Columbia",
	"Florida", "Georgia", "Hawaii", "Idaho", "Illinois", "Indiana", "Iowa", "Kansas", "Kentucky", "Louisiana", "Maine",
	"Maryland", "Massachusetts", "Michigan", "Minnesota", "Mississippi", "Missouri", "Montana", "Nebraska", "Nevada",
	"New Hampshire", "New Jersey", "New Mexico", "New York", "North Carolina", "North Dakota", "Ohio", "Oklahoma", "Oregon",
	"Pennsylvania", "Rhode Island", "South Carolina", "South Dakota", "Tennessee", "Texas", "Utah", "Vermont", "Virginia",
	"Washington", "West Virginia", "Wisconsin", "Wyoming", "Puerto Rico",
}

var highRiskStates = map[string]bool{
	"California": true, "Florida": true, "Louisiana": true, "Texas": true, "South Carolina": true,
	"North Carolina": true, "Alabama": true, "Mississippi": true, "Oklahoma": true, "Hawaii": true,
	"Puerto Rico": true,
}

var mediumRiskStates = map[string]bool{
	"Georgia": true, "Virginia": true, "Washington": true, "Oregon": true, "Arizona": true,
	"New Mexico": true, "Nevada": true, "Colorado": true, "New Jersey": true, "New York": true,
	"Massachusetts": true, "Connecticut": true, "Delaware": true, "Maryland": true,
	"District of Columbia": true, "Pennsylvania": true, "Illinois": true, "Indiana": true,
	"Ohio": true, "Michigan": true, "Missouri": true, "Arkansas": true, "Tennessee": true,
	"Kentucky": true, "Kansas": true, "Nebraska": true,
}

// Property types in display order.
const (
	SingleFamily = "Single Family"
	Townhouse    = "Townhouse"
	Condo        = "Condo"
	Duplex       = "Duplex"
	MultiFamily  = "Multi-Family (2–4)"
	Manufactured = "Manufactured"
	MobileHome   = "Mobile Home"
)

var propertyTypes = []string{SingleFamily, Townhouse, Condo, Duplex, MultiFamily, Manufactured, MobileHome}

var propertyFactors = map[string]float64{
	SingleFamily: 1.05,
	Townhouse:    1.03,
	Condo:        0.98,
	Duplex:       1.01,
	MultiFamily:  1.08,
	Manufactured: 1.06,
	MobileHome:   1.02,
}

// stateFactors is built once from the tier sets; every enumerated state gets exactly one tier.
var stateFactors = buildStateFactors()

func buildStateFactors() map[string]float64 {
	out := make(map[string]float64, len(states))
	for _, s := range states {
		switch {
		case highRiskStates[s]:
			out[s] = HighRisk
		case mediumRiskStates[s]:
			out[s] = MediumRisk
		default:
			out[s] = LowRisk
		}
	}
	return out
}

// States returns the supported states in display order.
func States() []string {
	out := make([]string, len(states))
	copy(out, states)
	return out
}

// PropertyTypes returns the supported property types in display order.
func PropertyTypes() []string {
	out := make([]string, len(propertyTypes))
	copy(out, propertyTypes)
	return out
}

func IsKnownState(state string) bool {
	_, ok := stateFactors[state]
	return ok
}

func IsKnownPropertyType(propertyType string) bool {
	_, ok := propertyFactors[propertyType]
	return ok
}
