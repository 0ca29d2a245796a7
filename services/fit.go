package services

import (
	"math"
	"strings"

	"property-insights/models"
)

// Factor caps. They sum to 100.
const (
	BudgetFitMax   = 25.0
	ROIFitMax      = 25.0
	RiskFitMax     = 20.0
	TypeFitMax     = 15.0
	LocationFitMax = 15.0
)

// Score computes how well a listing fits an investor profile. The result is
// always within [0,100]. A listing without a developer summary is scored as
// if its developer had the default rating.
func Score(profile *models.InvestorProfile, listing *models.Listing) (float64, models.FitBreakdown) {
	b := models.FitBreakdown{
		Budget:       budgetFit(profile.Budget, listing.Price),
		ROI:          roiFit(profile.ROITarget, listing.ROI),
		Risk:         riskFit(profile.RiskAppetite, listing),
		PropertyType: membershipFit(profile.PreferredPropertyTypes, listing.PrimaryType(), TypeFitMax),
		Location:     membershipFit(profile.PreferredLocations, listing.Location, LocationFitMax),
	}
	return clamp(b.Total(), 0, 100), b
}

func budgetFit(budget *models.Budget, price *models.Price) float64 {
	if budget == nil || budget.Min == nil || budget.Max == nil || price == nil {
		return 0
	}
	lo, hi, p := *budget.Min, *budget.Max, price.Value
	if p >= lo && p <= hi {
		return BudgetFitMax
	}
	if hi <= 0 {
		return 0
	}
	diff := math.Min(math.Abs(p-lo), math.Abs(p-hi))
	return clamp(BudgetFitMax-(diff/hi)*BudgetFitMax, 0, BudgetFitMax)
}

func roiFit(target, roi *float64) float64 {
	if target == nil || *target <= 0 || roi == nil {
		return 0
	}
	if *roi >= *target {
		return ROIFitMax
	}
	return clamp((*roi / *target)*ROIFitMax, 0, ROIFitMax)
}

// riskFit scores developer quality and yield against risk appetite. The
// high-appetite branch is capped at RiskFitMax even when ROI exceeds 10%.
func riskFit(appetite models.RiskAppetite, l *models.Listing) float64 {
	rating, roi := DefaultDeveloperRating, 0.0
	if l.Developer != nil {
		rating = l.Developer.Rating
	}
	if l.ROI != nil {
		roi = *l.ROI
	}

	var v float64
	switch appetite {
	case models.RiskLow:
		v = (rating / 5) * RiskFitMax
	case models.RiskHigh:
		v = (roi / 10) * RiskFitMax
	case models.RiskModerate:
		v = (rating/5)*(RiskFitMax/2) + (roi/10)*(RiskFitMax/2)
	default:
		return 0
	}
	return clamp(v, 0, RiskFitMax)
}

func membershipFit(preferred []string, value string, award float64) float64 {
	if value == "" {
		return 0
	}
	for _, p := range preferred {
		if strings.EqualFold(p, value) {
			return award
		}
	}
	return 0
}

func clamp(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return lo
	}
	return math.Max(lo, math.Min(hi, v))
}
