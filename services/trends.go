package services

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"property-insights/models"
	"property-insights/utils"
)

// TrendWindowMonths is the length of the trend month axis.
const TrendWindowMonths = 6

// MonthLabelLayout formats month axis labels.
const MonthLabelLayout = "Jan 2006"

// TrendService aggregates a listing corpus into market trend series.
type TrendService struct {
	logger  *utils.Logger
	cleaner *Cleaner
	now     func() time.Time
}

// TrendOption configures a TrendService.
type TrendOption func(*TrendService)

// WithClock overrides the wall clock that anchors the trend window.
func WithClock(now func() time.Time) TrendOption {
	return func(s *TrendService) { s.now = now }
}

// NewTrendService creates a TrendService.
func NewTrendService(logger *utils.Logger, opts ...TrendOption) *TrendService {
	s := &TrendService{logger: logger, cleaner: NewCleaner(logger), now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// meanAcc is a running sum/count pair. The sum is exact, so large finite
// inputs cannot overflow it. Callers pass finite values only.
type meanAcc struct {
	sum   decimal.Decimal
	count int
}

func (a *meanAcc) add(v float64) {
	a.sum = a.sum.Add(decimal.NewFromFloat(v))
	a.count++
}

func (a meanAcc) String() string {
	if a.count == 0 {
		return "0.0"
	}
	return a.sum.Div(decimal.NewFromInt(int64(a.count))).StringFixed(1)
}

// AggregateTrends filters the corpus and folds it into ROI, rental yield and
// transaction volume series over the last six calendar months.
func (s *TrendService) AggregateTrends(listings []*models.Listing, filters models.TrendFilters) (*models.TrendReport, error) {
	const op = "aggregate trends"
	if err := validateRange(op, "roiRange", filters.ROIRange); err != nil {
		return nil, err
	}
	if err := validateRange(op, "rentalYieldRange", filters.RentalYieldRange); err != nil {
		return nil, err
	}

	start, months := monthWindow(s.now())
	end := start.AddDate(0, TrendWindowMonths, 0)

	// Regions are keyed case-insensitively and reported under the first
	// spelling seen, requested regions first.
	regions := utils.NewSet()
	regionNames := make(map[string]string)
	addRegion := func(name string) string {
		key := strings.ToLower(name)
		if regions.Add(key) {
			regionNames[key] = name
		}
		return key
	}
	for _, r := range normaliseTags(filters.Regions) {
		addRegion(r)
	}
	wantRegions := regions.Size() > 0
	wantAmenities := normaliseTags(filters.Amenities)
	amenities := utils.NewSet()

	roiByRegion := make(map[string]map[string]*meanAcc)
	yieldByRegion := make(map[string]*meanAcc)
	volumes := make(map[string]map[string]int, len(months))
	for _, m := range months {
		volumes[m] = make(map[string]int)
	}

	matched := 0
	for _, l := range s.cleaner.CleanListings(listings) {
		if l.UpdatedAt == nil {
			continue
		}
		ts := l.UpdatedAt.In(start.Location())
		if ts.Before(start) || !ts.Before(end) {
			continue
		}
		if wantRegions && !regions.Contains(strings.ToLower(l.Location)) {
			continue
		}
		if len(wantAmenities) > 0 && !hasAnyAmenity(l, wantAmenities) {
			continue
		}
		roi, yield := finite(l.ROI), finite(l.RentalYield)
		if filters.ROIRange != nil && (roi == nil || !filters.ROIRange.Contains(*roi)) {
			continue
		}
		if filters.RentalYieldRange != nil && (yield == nil || !filters.RentalYieldRange.Contains(*yield)) {
			continue
		}
		matched++

		month := ts.Format(MonthLabelLayout)
		if l.Location != "" {
			region := addRegion(l.Location)
			if roi != nil {
				byMonth, ok := roiByRegion[region]
				if !ok {
					byMonth = make(map[string]*meanAcc)
					roiByRegion[region] = byMonth
				}
				if byMonth[month] == nil {
					byMonth[month] = &meanAcc{}
				}
				byMonth[month].add(*roi)
			}
			if yield != nil {
				if yieldByRegion[region] == nil {
					yieldByRegion[region] = &meanAcc{}
				}
				yieldByRegion[region].add(*yield)
			}
		}
		for _, a := range l.Amenities {
			amenities.Add(a)
			volumes[month][a]++
		}
	}

	volumeOptions := normaliseTags(filters.PropertyTypes)
	if len(volumeOptions) == 0 {
		volumeOptions = amenities.Values()
	}

	report := &models.TrendReport{
		ROITrendsByArea: models.ROITrends{
			Options: make([]models.AreaROISeries, 0, regions.Size()),
			Months:  months,
		},
		RentalYieldByArea: make([]models.AreaRentalYield, 0, regions.Size()),
		TransactionVolumes: models.TransactionVolumes{
			Options: volumeOptions,
			Month:   make(map[string]map[string]int, len(months)),
		},
	}

	for _, region := range regions.Values() {
		series := make([]string, len(months))
		for i, m := range months {
			var acc meanAcc
			if a := roiByRegion[region][m]; a != nil {
				acc = *a
			}
			series[i] = acc.String()
		}
		report.ROITrendsByArea.Options = append(report.ROITrendsByArea.Options,
			models.AreaROISeries{Location: regionNames[region], ROI: series})

		var yield meanAcc
		if a := yieldByRegion[region]; a != nil {
			yield = *a
		}
		report.RentalYieldByArea = append(report.RentalYieldByArea, models.AreaRentalYield{
			Location:    regionNames[region],
			RentalYield: yield.String(),
			Properties:  yield.count,
		})
	}

	for _, m := range months {
		row := make(map[string]int, len(volumeOptions))
		for _, opt := range volumeOptions {
			row[opt] = volumes[m][opt]
		}
		report.TransactionVolumes.Month[m] = row
	}

	s.logger.Debug("[trends] %d of %d listings in window %s..%s, %d regions",
		matched, len(listings), months[0], months[len(months)-1], regions.Size())
	return report, nil
}

// monthWindow returns the first instant of the oldest month in the window and
// the month labels, oldest first, ending with the month containing now.
func monthWindow(now time.Time) (time.Time, []string) {
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	start := current.AddDate(0, -(TrendWindowMonths - 1), 0)

	labels := make([]string, TrendWindowMonths)
	for i := range labels {
		labels[i] = start.AddDate(0, i, 0).Format(MonthLabelLayout)
	}
	return start, labels
}

func hasAnyAmenity(l *models.Listing, wanted []string) bool {
	for _, w := range wanted {
		if l.HasAmenity(w) {
			return true
		}
	}
	return false
}
