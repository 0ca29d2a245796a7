package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"property-insights/models"
	"property-insights/services"
	"property-insights/storage"
)

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newRankCommand(a *app) *cobra.Command {
	var (
		profileID string
		page      int
		limit     int
		csvPath   string
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Rank listings by fit against an investor profile",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if limit <= 0 {
				limit = a.cfg.DefaultPageLimit
			}
			if csvPath == "" {
				csvPath = a.cfg.CSVOutputPath
			}

			profile, err := a.source.Profile(ctx, profileID)
			if err != nil {
				return err
			}
			listings, err := a.source.Listings(ctx)
			if err != nil {
				return err
			}

			result, err := services.NewRanker(a.logger, a.cfg.RankWorkers).Rank(profile, listings, page, limit)
			if err != nil {
				return err
			}

			if csvPath != "" {
				w, err := storage.NewCSVWriter(csvPath)
				if err != nil {
					return err
				}
				if err := exportMatches(w, result); err != nil {
					return err
				}
				a.logger.Info("[rank] Page %d written to %s", result.Page, csvPath)
			}
			if asJSON {
				return writeJSON(a.out, result)
			}
			services.NewReportPrinter(a.out).PrintRanking(result)
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&profileID, "profile", "", "investor profile id (empty selects the first JSON profile)")
	f.IntVar(&page, "page", 1, "page number, 1-based")
	f.IntVar(&limit, "limit", 0, "page size (default from DEFAULT_PAGE_LIMIT)")
	f.StringVar(&csvPath, "csv", "", "also export the page to this CSV file")
	f.BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// exportMatches writes the page and closes the writer.
func exportMatches(w storage.RankingWriter, page *models.RankedPage) error {
	if err := w.WriteMatches(page); err != nil {
		_ = w.Close()
		return err
	}
	return w.Close()
}

func newFiltersCommand(a *app) *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "filters",
		Short: "Derive dynamic filter ranges from the listing corpus",
		RunE: func(cmd *cobra.Command, args []string) error {
			listings, err := a.source.Listings(cmd.Context())
			if err != nil {
				return err
			}
			bundle := services.NewFilterService(a.logger).BuildFilters(listings)
			if asJSON {
				return writeJSON(a.out, bundle)
			}
			services.NewReportPrinter(a.out).PrintFilters(bundle)
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// trendFlags binds the trend filter flags. Numeric bounds are only set when
// the flag was given, so an explicit 0 stays distinct from "no bound".
type trendFlags struct {
	regions   []string
	amenities []string
	types     []string

	roiMin, roiMax     float64
	yieldMin, yieldMax float64
}

func (t *trendFlags) register(cmd *cobra.Command) {
	f := cmd.Flags()
	f.StringSliceVar(&t.regions, "region", nil, "restrict to these regions (repeatable)")
	f.StringSliceVar(&t.amenities, "amenity", nil, "restrict to listings with any of these amenities (repeatable)")
	f.StringSliceVar(&t.types, "type", nil, "amenity columns for the transaction volume matrix (repeatable)")
	f.Float64Var(&t.roiMin, "roi-min", 0, "minimum ROI %")
	f.Float64Var(&t.roiMax, "roi-max", 0, "maximum ROI %")
	f.Float64Var(&t.yieldMin, "yield-min", 0, "minimum rental yield %")
	f.Float64Var(&t.yieldMax, "yield-max", 0, "maximum rental yield %")
}

func (t *trendFlags) filters(cmd *cobra.Command) models.TrendFilters {
	f := cmd.Flags()
	bound := func(name string, v float64) *float64 {
		if !f.Changed(name) {
			return nil
		}
		return models.Float(v)
	}
	out := models.TrendFilters{
		Regions:       t.regions,
		Amenities:     t.amenities,
		PropertyTypes: t.types,
	}
	if r := (models.Range{Min: bound("roi-min", t.roiMin), Max: bound("roi-max", t.roiMax)}); r.Min != nil || r.Max != nil {
		out.ROIRange = &r
	}
	if r := (models.Range{Min: bound("yield-min", t.yieldMin), Max: bound("yield-max", t.yieldMax)}); r.Min != nil || r.Max != nil {
		out.RentalYieldRange = &r
	}
	return out
}

func newTrendsCommand(a *app) *cobra.Command {
	var (
		tf     trendFlags
		asJSON bool
	)

	cmd := &cobra.Command{
		Use:   "trends",
		Short: "Aggregate six-month ROI, rental yield and volume trends",
		RunE: func(cmd *cobra.Command, args []string) error {
			listings, err := a.source.Listings(cmd.Context())
			if err != nil {
				return err
			}
			report, err := services.NewTrendService(a.logger).AggregateTrends(listings, tf.filters(cmd))
			if err != nil {
				return err
			}
			if asJSON {
				return writeJSON(a.out, report)
			}
			services.NewReportPrinter(a.out).PrintTrends(report)
			return nil
		},
	}
	tf.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}

// marketReport is the combined output of the report command.
type marketReport struct {
	Ranking *models.RankedPage   `json:"ranking"`
	Filters *models.FilterBundle `json:"filters"`
	Trends  *models.TrendReport  `json:"trends"`
}

func newReportCommand(a *app) *cobra.Command {
	var (
		profileID string
		tf        trendFlags
		asJSON    bool
	)

	cmd := &cobra.Command{
		Use:   "report",
		Short: "Ranking, filters and trends for one profile in a single run",
		RunE: func(cmd *cobra.Command, args []string) error {
			var (
				profile  *models.InvestorProfile
				listings []*models.Listing
			)

			g, gctx := errgroup.WithContext(cmd.Context())
			g.Go(func() error {
				var err error
				profile, err = a.source.Profile(gctx, profileID)
				return err
			})
			g.Go(func() error {
				var err error
				listings, err = a.source.Listings(gctx)
				return err
			})
			if err := g.Wait(); err != nil {
				return err
			}

			var out marketReport
			var compute errgroup.Group
			compute.Go(func() error {
				var err error
				out.Ranking, err = services.NewRanker(a.logger, a.cfg.RankWorkers).Rank(profile, listings, 1, a.cfg.DefaultPageLimit)
				return err
			})
			compute.Go(func() error {
				out.Filters = services.NewFilterService(a.logger).BuildFilters(listings)
				return nil
			})
			compute.Go(func() error {
				var err error
				out.Trends, err = services.NewTrendService(a.logger).AggregateTrends(listings, tf.filters(cmd))
				return err
			})
			if err := compute.Wait(); err != nil {
				return err
			}

			if asJSON {
				return writeJSON(a.out, out)
			}
			printer := services.NewReportPrinter(a.out)
			printer.PrintRanking(out.Ranking)
			printer.PrintFilters(out.Filters)
			printer.PrintTrends(out.Trends)
			return nil
		},
	}
	cmd.Flags().StringVar(&profileID, "profile", "", "investor profile id")
	tf.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print JSON instead of a table")
	return cmd
}
