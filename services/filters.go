package services

import (
	"math"
	"time"

	"property-insights/models"
	"property-insights/utils"
)

// Time-horizon labels offered to the filter UI.
const (
	HorizonThreeYears = "Last 3 Year"
	HorizonOneYear    = "Last 1 Year"
	HorizonSixMonths  = "Last 6 Month"
	HorizonWeek       = "Current Week"
)

// Fallback bounds used when the corpus has no value for a dimension.
var (
	DefaultROIRange         = models.FilterRange{Min: 0, Max: 100, SelectedMin: 0, SelectedMax: 100}
	DefaultRentalYieldRange = models.FilterRange{Min: 0, Max: 100, SelectedMin: 0, SelectedMax: 100}
	DefaultPriceGrowthRange = models.FilterRange{Min: 0, Max: 30, SelectedMin: 0, SelectedMax: 30}
)

// horizonThresholds pairs each label with the date spread, in days, a corpus
// must exceed before that horizon is worth offering: the span of the next
// shorter horizon, past which the filter starts to narrow. Longest first.
var horizonThresholds = []struct {
	days  float64
	label string
}{
	{365, HorizonThreeYears},
	{182, HorizonOneYear},
	{7, HorizonSixMonths},
}

// FilterService derives dynamic filter ranges from a listing corpus.
type FilterService struct {
	logger  *utils.Logger
	cleaner *Cleaner
}

// NewFilterService creates a FilterService.
func NewFilterService(logger *utils.Logger) *FilterService {
	return &FilterService{logger: logger, cleaner: NewCleaner(logger)}
}

// minMax tracks the bounds of an optional numeric field.
type minMax struct {
	min, max float64
	seen     bool
}

// finite returns v, or nil when v is NaN or infinite. Non-finite metrics
// are treated as absent.
func finite(v *float64) *float64 {
	if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
		return nil
	}
	return v
}

func (m *minMax) observe(v *float64) {
	if v = finite(v); v == nil {
		return
	}
	if !m.seen {
		m.min, m.max, m.seen = *v, *v, true
		return
	}
	m.min = math.Min(m.min, *v)
	m.max = math.Max(m.max, *v)
}

func (m *minMax) rangeOr(fallback models.FilterRange) models.FilterRange {
	if !m.seen {
		return fallback
	}
	return models.FilterRange{Min: m.min, Max: m.max, SelectedMin: m.min, SelectedMax: m.max}
}

// BuildFilters scans the corpus once and returns the filter bundle. An empty
// corpus yields the fixed fallback bundle.
func (s *FilterService) BuildFilters(listings []*models.Listing) *models.FilterBundle {
	regions := utils.NewSet()
	types := utils.NewSet()
	var roi, yield, growth minMax
	var earliest, latest time.Time

	for _, l := range s.cleaner.CleanListings(listings) {
		if l.Location != "" {
			regions.Add(l.Location)
		}
		for _, tag := range l.Category {
			types.Add(tag)
		}
		roi.observe(l.ROI)
		yield.observe(l.RentalYield)
		growth.observe(l.PriceGrowth)

		if l.UpdatedAt != nil {
			ts := *l.UpdatedAt
			if earliest.IsZero() || ts.Before(earliest) {
				earliest = ts
			}
			if latest.IsZero() || ts.After(latest) {
				latest = ts
			}
		}
	}

	var spreadDays float64
	if !earliest.IsZero() {
		spreadDays = latest.Sub(earliest).Hours() / 24
	}

	bundle := &models.FilterBundle{
		TimeHorizon:      models.OptionSet{Options: TimeHorizonOptions(spreadDays)},
		Regions:          regions.Values(),
		PropertyTypes:    types.Values(),
		ROIRange:         roi.rangeOr(DefaultROIRange),
		RentalYieldRange: yield.rangeOr(DefaultRentalYieldRange),
		PriceGrowthRange: growth.rangeOr(DefaultPriceGrowthRange),
	}

	s.logger.Debug("[filters] %d listings → %d regions, %d types, spread %.1f days",
		len(listings), len(bundle.Regions), len(bundle.PropertyTypes), spreadDays)
	return bundle
}

// TimeHorizonOptions lists every horizon the corpus date spread can fill,
// longest first, or just "Current Week" when it fills none.
func TimeHorizonOptions(spreadDays float64) []string {
	var opts []string
	for _, h := range horizonThresholds {
		if spreadDays > h.days {
			opts = append(opts, h.label)
		}
	}
	if len(opts) == 0 {
		return []string{HorizonWeek}
	}
	return opts
}
