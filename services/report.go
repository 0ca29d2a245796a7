package services

import (
	"fmt"
	"io"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"property-insights/models"
)

// ReportPrinter renders computed results as console tables.
type ReportPrinter struct {
	out io.Writer
}

// NewReportPrinter creates a ReportPrinter writing to out.
func NewReportPrinter(out io.Writer) *ReportPrinter {
	return &ReportPrinter{out: out}
}

func (p *ReportPrinter) newTable(title string) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(p.out)
	t.SetStyle(table.StyleRounded)
	t.Style().Format.Header = text.FormatDefault
	t.SetTitle(title)
	return t
}

// PrintRanking renders one page of ranked matches with the factor breakdown.
func (p *ReportPrinter) PrintRanking(page *models.RankedPage) {
	t := p.newTable(fmt.Sprintf("Top matches (page %d/%d, %d listings)", page.Page, page.TotalPages, page.Total))
	t.AppendHeader(table.Row{"#", "Project", "Location", "Type", "Price", "ROI", "Budget", "ROI fit", "Risk", "Type fit", "Loc fit", "Score"})

	if len(page.Data) == 0 {
		t.AppendRow(table.Row{"", "No listings on this page"})
	}
	offset := (page.Page - 1) * page.Limit
	for i, m := range page.Data {
		l := m.Project
		b := m.Breakdown
		t.AppendRow(table.Row{
			offset + i + 1,
			truncate(displayName(l), 32),
			truncate(l.Location, 24),
			l.PrimaryType(),
			formatPrice(l.Price),
			formatPercent(l.ROI),
			fmt.Sprintf("%.1f", b.Budget),
			fmt.Sprintf("%.1f", b.ROI),
			fmt.Sprintf("%.1f", b.Risk),
			fmt.Sprintf("%.0f", b.PropertyType),
			fmt.Sprintf("%.0f", b.Location),
			fmt.Sprintf("%.1f", m.Score),
		})
	}
	t.Render()
}

// PrintFilters renders the dynamic filter bundle.
func (p *ReportPrinter) PrintFilters(f *models.FilterBundle) {
	t := p.newTable("Filters")
	t.AppendHeader(table.Row{"Dimension", "Min", "Max"})
	for _, r := range []struct {
		name string
		rng  models.FilterRange
	}{
		{"ROI %", f.ROIRange},
		{"Rental yield %", f.RentalYieldRange},
		{"Price growth %", f.PriceGrowthRange},
	} {
		t.AppendRow(table.Row{r.name, fmt.Sprintf("%.2f", r.rng.Min), fmt.Sprintf("%.2f", r.rng.Max)})
	}
	t.AppendSeparator()
	t.AppendRow(table.Row{"Time horizon", strings.Join(f.TimeHorizon.Options, ", ")})
	t.AppendRow(table.Row{"Regions", joinOrDash(f.Regions)})
	t.AppendRow(table.Row{"Property types", joinOrDash(f.PropertyTypes)})
	t.Render()
}

// PrintTrends renders the ROI series, rental yields and transaction volumes.
func (p *ReportPrinter) PrintTrends(r *models.TrendReport) {
	roi := p.newTable("Average ROI by area")
	header := table.Row{"Location"}
	for _, m := range r.ROITrendsByArea.Months {
		header = append(header, m)
	}
	roi.AppendHeader(header)
	for _, s := range r.ROITrendsByArea.Options {
		row := table.Row{s.Location}
		for _, v := range s.ROI {
			row = append(row, v)
		}
		roi.AppendRow(row)
	}
	roi.Render()

	yield := p.newTable("Rental yield by area")
	yield.AppendHeader(table.Row{"Location", "Rental yield %", "Properties"})
	for _, y := range r.RentalYieldByArea {
		yield.AppendRow(table.Row{y.Location, y.RentalYield, y.Properties})
	}
	yield.Render()

	vol := p.newTable("Transaction volumes")
	header = table.Row{"Month"}
	for _, opt := range r.TransactionVolumes.Options {
		header = append(header, opt)
	}
	vol.AppendHeader(header)
	for _, m := range r.ROITrendsByArea.Months {
		row := table.Row{m}
		for _, opt := range r.TransactionVolumes.Options {
			row = append(row, r.TransactionVolumes.Month[m][opt])
		}
		vol.AppendRow(row)
	}
	vol.Render()
}

func displayName(l *models.Listing) string {
	if l.Name != "" {
		return l.Name
	}
	if l.ID != "" {
		return l.ID
	}
	return "(unnamed)"
}

func formatPrice(p *models.Price) string {
	if p == nil {
		return "-"
	}
	return strings.TrimSpace(fmt.Sprintf("%s %.0f", p.Currency, p.Value))
}

func formatPercent(v *float64) string {
	if v == nil {
		return "-"
	}
	return fmt.Sprintf("%.1f%%", *v)
}

func joinOrDash(values []string) string {
	if len(values) == 0 {
		return "-"
	}
	return strings.Join(values, ", ")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
