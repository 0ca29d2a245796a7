package models

// FitBreakdown holds the per-factor contributions to a fit score.
type FitBreakdown struct {
	Budget       float64 `json:"budget"`
	ROI          float64 `json:"roi"`
	Risk         float64 `json:"risk"`
	PropertyType float64 `json:"propertyType"`
	Location     float64 `json:"location"`
}

// Total is the unclamped sum of all factors.
func (b FitBreakdown) Total() float64 {
	return b.Budget + b.ROI + b.Risk + b.PropertyType + b.Location
}

// MatchResult pairs a listing with its fit score. Produced per request.
type MatchResult struct {
	Project   *Listing     `json:"project"`
	Score     float64      `json:"score"`
	Breakdown FitBreakdown `json:"breakdown"`
}

// RankedPage is one page of ranked matches.
type RankedPage struct {
	Total      int            `json:"total"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
	TotalPages int            `json:"totalPages"`
	Data       []*MatchResult `json:"data"`
}

// FilterRange is a numeric filter dimension.
type FilterRange struct {
	Min         float64 `json:"min"`
	Max         float64 `json:"max"`
	SelectedMin float64 `json:"selectedMin"`
	SelectedMax float64 `json:"selectedMax"`
}

// OptionSet is an ordered set of categorical options.
type OptionSet struct {
	Options []string `json:"options"`
}

// FilterBundle is the full set of dynamic filters derived from a corpus.
type FilterBundle struct {
	TimeHorizon      OptionSet   `json:"timeHorizon"`
	Regions          []string    `json:"regions"`
	PropertyTypes    []string    `json:"propertyTypes"`
	ROIRange         FilterRange `json:"roiRange"`
	RentalYieldRange FilterRange `json:"rentalYieldRange"`
	PriceGrowthRange FilterRange `json:"priceGrowthRange"`
}

// Range is an inclusive numeric bound used by trend filters. Either side may
// be absent.
type Range struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// Contains reports whether v lies within the range.
func (r *Range) Contains(v float64) bool {
	if r == nil {
		return true
	}
	if r.Min != nil && v < *r.Min {
		return false
	}
	if r.Max != nil && v > *r.Max {
		return false
	}
	return true
}

// TrendFilters narrows the corpus before trend aggregation.
type TrendFilters struct {
	Regions          []string `json:"regions,omitempty"`
	Amenities        []string `json:"amenities,omitempty"`
	PropertyTypes    []string `json:"propertyTypes,omitempty"`
	ROIRange         *Range   `json:"roiRange,omitempty"`
	RentalYieldRange *Range   `json:"rentalYieldRange,omitempty"`
}

// AreaROISeries is the monthly mean ROI of one region, aligned to the month axis.
type AreaROISeries struct {
	Location string   `json:"location"`
	ROI      []string `json:"roi"`
}

// ROITrends is the ROI series of every region over the month axis.
type ROITrends struct {
	Options []AreaROISeries `json:"options"`
	Months  []string        `json:"months"`
}

// AreaRentalYield is the mean rental yield of a region over the whole window.
type AreaRentalYield struct {
	Location    string `json:"location"`
	RentalYield string `json:"rentalYield"`
	Properties  int    `json:"properties"`
}

// TransactionVolumes counts listings per month and amenity.
type TransactionVolumes struct {
	Options []string                  `json:"options"`
	Month   map[string]map[string]int `json:"Month"`
}

// TrendReport is the output of trend aggregation.
type TrendReport struct {
	ROITrendsByArea    ROITrends          `json:"roiTrendsByArea"`
	RentalYieldByArea  []AreaRentalYield  `json:"rentalYieldByArea"`
	TransactionVolumes TransactionVolumes `json:"transactionVolumes"`
}
