package services

import (
	"math"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"property-insights/apperr"
	"property-insights/models"
)

var trendNow = time.Date(2026, 10, 17, 9, 30, 0, 0, time.UTC)

var trendMonths = []string{"May 2026", "Jun 2026", "Jul 2026", "Aug 2026", "Sep 2026", "Oct 2026"}

func newTrendService() *TrendService {
	return NewTrendService(newTestLogger(), WithClock(func() time.Time { return trendNow }))
}

func at(year int, month time.Month, d int) *time.Time {
	return models.Time(time.Date(year, month, d, 10, 0, 0, 0, time.UTC))
}

func trendCorpus() []*models.Listing {
	return []*models.Listing{
		{ID: "a", Location: "JVC", ROI: models.Float(6), RentalYield: models.Float(7), Amenities: []string{"Pool", "Gym"}, UpdatedAt: at(2026, 10, 2)},
		{ID: "b", Location: "JVC", ROI: models.Float(8), RentalYield: models.Float(5), Amenities: []string{"Pool"}, UpdatedAt: at(2026, 10, 15)},
		{ID: "c", Location: "Downtown", ROI: models.Float(4.5), Amenities: []string{"Gym"}, UpdatedAt: at(2026, 5, 1)},
		{ID: "d", Location: "JVC", ROI: nil, RentalYield: models.Float(6), Amenities: []string{"Parking"}, UpdatedAt: at(2026, 7, 20)},
		// Outside the window on either side.
		{ID: "e", Location: "Creek", ROI: models.Float(9), Amenities: []string{"Pool"}, UpdatedAt: at(2026, 4, 30)},
		{ID: "f", Location: "Creek", ROI: models.Float(9), Amenities: []string{"Pool"}, UpdatedAt: at(2026, 11, 1)},
		// No timestamp.
		{ID: "g", Location: "Creek", ROI: models.Float(9)},
	}
}

func TestMonthWindow(t *testing.T) {
	start, labels := monthWindow(trendNow)
	assert.Equal(t, time.Date(2026, 5, 1, 0, 0, 0, 0, time.UTC), start)
	assert.Equal(t, trendMonths, labels)

	_, labels = monthWindow(time.Date(2026, 2, 28, 0, 0, 0, 0, time.UTC))
	assert.Equal(t, []string{"Sep 2025", "Oct 2025", "Nov 2025", "Dec 2025", "Jan 2026", "Feb 2026"}, labels)
}

func TestAggregateTrendsROISeries(t *testing.T) {
	r, err := newTrendService().AggregateTrends(trendCorpus(), models.TrendFilters{})
	require.NoError(t, err)

	assert.Equal(t, trendMonths, r.ROITrendsByArea.Months)
	require.Len(t, r.ROITrendsByArea.Options, 2)

	jvc := r.ROITrendsByArea.Options[0]
	assert.Equal(t, "JVC", jvc.Location)
	assert.Equal(t, []string{"0.0", "0.0", "0.0", "0.0", "0.0", "7.0"}, jvc.ROI)

	downtown := r.ROITrendsByArea.Options[1]
	assert.Equal(t, "Downtown", downtown.Location)
	assert.Equal(t, []string{"4.5", "0.0", "0.0", "0.0", "0.0", "0.0"}, downtown.ROI)
}

func TestAggregateTrendsRentalYield(t *testing.T) {
	r, err := newTrendService().AggregateTrends(trendCorpus(), models.TrendFilters{})
	require.NoError(t, err)

	assert.Equal(t, []models.AreaRentalYield{
		{Location: "JVC", RentalYield: "6.0", Properties: 3},
		{Location: "Downtown", RentalYield: "0.0", Properties: 0},
	}, r.RentalYieldByArea)
}

func TestAggregateTrendsTransactionVolumes(t *testing.T) {
	r, err := newTrendService().AggregateTrends(trendCorpus(), models.TrendFilters{})
	require.NoError(t, err)

	assert.Equal(t, []string{"Pool", "Gym", "Parking"}, r.TransactionVolumes.Options)
	require.Len(t, r.TransactionVolumes.Month, 6)
	assert.Equal(t, map[string]int{"Pool": 2, "Gym": 1, "Parking": 0}, r.TransactionVolumes.Month["Oct 2026"])
	assert.Equal(t, map[string]int{"Pool": 0, "Gym": 1, "Parking": 0}, r.TransactionVolumes.Month["May 2026"])
	assert.Equal(t, map[string]int{"Pool": 0, "Gym": 0, "Parking": 1}, r.TransactionVolumes.Month["Jul 2026"])
}

func TestAggregateTrendsVolumeAxisFromTypeFilter(t *testing.T) {
	r, err := newTrendService().AggregateTrends(trendCorpus(), models.TrendFilters{PropertyTypes: []string{"Pool", "Sauna"}})
	require.NoError(t, err)

	assert.Equal(t, []string{"Pool", "Sauna"}, r.TransactionVolumes.Options)
	assert.Equal(t, map[string]int{"Pool": 2, "Sauna": 0}, r.TransactionVolumes.Month["Oct 2026"])
}

func TestAggregateTrendsFilters(t *testing.T) {
	svc := newTrendService()

	r, err := svc.AggregateTrends(trendCorpus(), models.TrendFilters{Regions: []string{"Downtown"}})
	require.NoError(t, err)
	require.Len(t, r.ROITrendsByArea.Options, 1)
	assert.Equal(t, "Downtown", r.ROITrendsByArea.Options[0].Location)

	r, err = svc.AggregateTrends(trendCorpus(), models.TrendFilters{Amenities: []string{"Parking"}})
	require.NoError(t, err)
	assert.Equal(t, []models.AreaRentalYield{{Location: "JVC", RentalYield: "6.0", Properties: 1}}, r.RentalYieldByArea)

	r, err = svc.AggregateTrends(trendCorpus(), models.TrendFilters{
		ROIRange: &models.Range{Min: models.Float(6), Max: models.Float(8)},
	})
	require.NoError(t, err)
	require.Len(t, r.ROITrendsByArea.Options, 1)
	assert.Equal(t, "7.0", r.ROITrendsByArea.Options[0].ROI[5])

	r, err = svc.AggregateTrends(trendCorpus(), models.TrendFilters{
		RentalYieldRange: &models.Range{Min: models.Float(6)},
	})
	require.NoError(t, err)
	assert.Equal(t, []models.AreaRentalYield{{Location: "JVC", RentalYield: "6.5", Properties: 2}}, r.RentalYieldByArea)
}

func TestAggregateTrendsRejectsInvertedRange(t *testing.T) {
	_, err := newTrendService().AggregateTrends(trendCorpus(), models.TrendFilters{
		ROIRange: &models.Range{Min: models.Float(10), Max: models.Float(2)},
	})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))

	_, err = newTrendService().AggregateTrends(nil, models.TrendFilters{
		RentalYieldRange: &models.Range{Min: models.Float(10), Max: models.Float(2)},
	})
	assert.True(t, apperr.Is(err, apperr.KindInvalidInput))
}

func TestAggregateTrendsEmptyCorpus(t *testing.T) {
	svc := newTrendService()

	r, err := svc.AggregateTrends(nil, models.TrendFilters{})
	require.NoError(t, err)
	assert.Empty(t, r.ROITrendsByArea.Options)
	assert.Empty(t, r.RentalYieldByArea)
	assert.Equal(t, trendMonths, r.ROITrendsByArea.Months)
	assert.Len(t, r.TransactionVolumes.Month, 6)
	for _, row := range r.TransactionVolumes.Month {
		assert.Empty(t, row)
	}

	r, err = svc.AggregateTrends([]*models.Listing{}, models.TrendFilters{
		Regions:       []string{"JVC", "Downtown"},
		PropertyTypes: []string{"Pool"},
	})
	require.NoError(t, err)
	require.Len(t, r.ROITrendsByArea.Options, 2)
	for _, series := range r.ROITrendsByArea.Options {
		assert.Equal(t, []string{"0.0", "0.0", "0.0", "0.0", "0.0", "0.0"}, series.ROI)
	}
	for _, m := range trendMonths {
		assert.Equal(t, map[string]int{"Pool": 0}, r.TransactionVolumes.Month[m])
	}
}

func TestAggregateTrendsHoldsNoStateBetweenCalls(t *testing.T) {
	svc := newTrendService()
	first, err := svc.AggregateTrends(trendCorpus(), models.TrendFilters{})
	require.NoError(t, err)
	second, err := svc.AggregateTrends(trendCorpus(), models.TrendFilters{})
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAggregateTrendsSkipsNonFiniteValues(t *testing.T) {
	listings := []*models.Listing{
		{ID: "nan", Location: "JVC", ROI: models.Float(math.NaN()), RentalYield: models.Float(math.Inf(-1)), Amenities: []string{"Pool"}, UpdatedAt: at(2026, 10, 3)},
		{ID: "inf", Location: "JVC", ROI: models.Float(math.Inf(1)), UpdatedAt: at(2026, 10, 4)},
		{ID: "ok", Location: "JVC", ROI: models.Float(8), RentalYield: models.Float(6), UpdatedAt: at(2026, 10, 5)},
	}

	var r *models.TrendReport
	require.NotPanics(t, func() {
		var err error
		r, err = newTrendService().AggregateTrends(listings, models.TrendFilters{})
		require.NoError(t, err)
	})
	require.Len(t, r.ROITrendsByArea.Options, 1)
	assert.Equal(t, "8.0", r.ROITrendsByArea.Options[0].ROI[5])
	assert.Equal(t, models.AreaRentalYield{Location: "JVC", RentalYield: "6.0", Properties: 1}, r.RentalYieldByArea[0])
	assert.Equal(t, 1, r.TransactionVolumes.Month["Oct 2026"]["Pool"], "non-finite metrics still count as a transaction")

	// A ranged filter treats a non-finite value as missing.
	r, err := newTrendService().AggregateTrends(listings, models.TrendFilters{
		ROIRange: &models.Range{Min: models.Float(0)},
	})
	require.NoError(t, err)
	assert.Equal(t, "8.0", r.ROITrendsByArea.Options[0].ROI[5])
	assert.Empty(t, r.TransactionVolumes.Options)
}

func TestAggregateTrendsLargeValuesDoNotOverflow(t *testing.T) {
	listings := []*models.Listing{
		{Location: "JVC", ROI: models.Float(math.MaxFloat64), UpdatedAt: at(2026, 10, 3)},
		{Location: "JVC", ROI: models.Float(math.MaxFloat64), UpdatedAt: at(2026, 10, 4)},
	}
	r, err := newTrendService().AggregateTrends(listings, models.TrendFilters{})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(r.ROITrendsByArea.Options[0].ROI[5], "17976931348623157"))
}

func TestAggregateTrendsMatchesRegionsIgnoringCase(t *testing.T) {
	r, err := newTrendService().AggregateTrends(trendCorpus(), models.TrendFilters{Regions: []string{"jvc"}})
	require.NoError(t, err)

	require.Len(t, r.ROITrendsByArea.Options, 1)
	assert.Equal(t, "jvc", r.ROITrendsByArea.Options[0].Location)
	assert.Equal(t, []string{"0.0", "0.0", "0.0", "0.0", "0.0", "7.0"}, r.ROITrendsByArea.Options[0].ROI)

	r, err = newTrendService().AggregateTrends(trendCorpus(), models.TrendFilters{Amenities: []string{"parking"}})
	require.NoError(t, err)
	assert.Equal(t, []string{"Parking"}, r.TransactionVolumes.Options)
}

func TestAggregateTrendsMergesRegionSpellings(t *testing.T) {
	listings := []*models.Listing{
		{Location: "JVC", ROI: models.Float(6), UpdatedAt: at(2026, 10, 3)},
		{Location: "jvc", ROI: models.Float(8), UpdatedAt: at(2026, 10, 4)},
	}
	r, err := newTrendService().AggregateTrends(listings, models.TrendFilters{})
	require.NoError(t, err)
	require.Len(t, r.ROITrendsByArea.Options, 1)
	assert.Equal(t, "JVC", r.ROITrendsByArea.Options[0].Location)
	assert.Equal(t, "7.0", r.ROITrendsByArea.Options[0].ROI[5])
}
