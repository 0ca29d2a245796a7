package models

// RiskAppetite is the investor's declared tolerance for risk.
type RiskAppetite string

const (
	RiskNone     RiskAppetite = ""
	RiskLow      RiskAppetite = "low"
	RiskModerate RiskAppetite = "moderate"
	RiskHigh     RiskAppetite = "high"
)

// Budget is the investor's price range. Either bound may be absent.
type Budget struct {
	Min      *float64 `json:"min,omitempty"`
	Max      *float64 `json:"max,omitempty"`
	Currency string   `json:"currency,omitempty"`
}

// InvestorProfile is an immutable snapshot of an onboarding record.
// Every field is optional; an absent field contributes nothing to the fit.
type InvestorProfile struct {
	ID                     string       `json:"id,omitempty"`
	Budget                 *Budget      `json:"budget,omitempty"`
	ROITarget              *float64     `json:"roiTarget,omitempty"`
	RentalYieldTarget      *float64     `json:"rentalYieldTarget,omitempty"`
	RiskAppetite           RiskAppetite `json:"riskAppetite,omitempty" validate:"omitempty,oneof=low moderate high"`
	PreferredLocations     []string     `json:"preferredLocations,omitempty"`
	PreferredPropertyTypes []string     `json:"preferredPropertyTypes,omitempty"`
}
