package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/lib/pq"

	"property-insights/apperr"
	"property-insights/models"
	"property-insights/utils"
)

// PostgresReader loads a read-only snapshot of onboarding profiles and
// projects from PostgreSQL.
type PostgresReader struct {
	db *sql.DB
}

// NewPostgresReader opens a connection to PostgreSQL, retrying the ping per
// retry, and returns a ready-to-use PostgresReader.
func NewPostgresReader(ctx context.Context, dsn string, retry *utils.RetryConfig) (*PostgresReader, error) {
	db, err := sql.Open("postgres", dsn)
	if err != nil {
		return nil, fmt.Errorf("postgres: open: %w", err)
	}

	if err := retry.Do(ctx, "postgres ping", db.PingContext); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("postgres: %w", err)
	}
	return NewPostgresReaderFromDB(db), nil
}

// NewPostgresReaderFromDB wraps an existing handle.
func NewPostgresReaderFromDB(db *sql.DB) *PostgresReader {
	return &PostgresReader{db: db}
}

const profileQuery = `
	SELECT id, budget_min, budget_max, COALESCE(budget_currency, ''),
	       roi_target, rental_yield_target, COALESCE(risk_appetite, ''),
	       preferred_locations, preferred_property_types
	FROM onboarding
	WHERE id = $1
`

// Profile fetches one onboarding record.
func (pr *PostgresReader) Profile(ctx context.Context, id string) (*models.InvestorProfile, error) {
	var (
		p                                            models.InvestorProfile
		budgetMin, budgetMax, roiTarget, yieldTarget sql.NullFloat64
		currency, risk                               string
	)
	err := pr.db.QueryRowContext(ctx, profileQuery, id).Scan(
		&p.ID, &budgetMin, &budgetMax, &currency,
		&roiTarget, &yieldTarget, &risk,
		pq.Array(&p.PreferredLocations), pq.Array(&p.PreferredPropertyTypes),
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperr.NotFound(fmt.Sprintf("profile %q not found", id)).WithOp("postgres")
	}
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch profile %q: %w", id, err)
	}

	if budgetMin.Valid || budgetMax.Valid {
		p.Budget = &models.Budget{
			Min:      nullFloat(budgetMin),
			Max:      nullFloat(budgetMax),
			Currency: currency,
		}
	}
	p.ROITarget = nullFloat(roiTarget)
	p.RentalYieldTarget = nullFloat(yieldTarget)
	p.RiskAppetite = models.RiskAppetite(risk)
	return &p, nil
}

const listingsQuery = `
	SELECT id, COALESCE(name, ''), price_value, COALESCE(price_currency, ''),
	       roi, rental_yield, price_growth, COALESCE(location, ''),
	       category, amenities, developer_rating, developer_on_time,
	       updated_at, COALESCE(completion_quarter, ''), completion_year
	FROM projects
	ORDER BY id
`

// Listings retrieves every project in id order.
func (pr *PostgresReader) Listings(ctx context.Context) ([]*models.Listing, error) {
	rows, err := pr.db.QueryContext(ctx, listingsQuery)
	if err != nil {
		return nil, fmt.Errorf("postgres: fetch projects: %w", err)
	}
	defer rows.Close()

	listings := []*models.Listing{}
	for rows.Next() {
		var (
			l                                         models.Listing
			price, roi, yield, growth, rating, onTime sql.NullFloat64
			currency, quarter                         string
			updatedAt                                 sql.NullTime
			year                                      sql.NullInt64
		)
		if err := rows.Scan(
			&l.ID, &l.Name, &price, &currency,
			&roi, &yield, &growth, &l.Location,
			pq.Array(&l.Category), pq.Array(&l.Amenities), &rating, &onTime,
			&updatedAt, &quarter, &year,
		); err != nil {
			return nil, fmt.Errorf("postgres: scan project: %w", err)
		}

		if price.Valid {
			l.Price = &models.Price{Value: price.Float64, Currency: currency}
		}
		l.ROI = nullFloat(roi)
		l.RentalYield = nullFloat(yield)
		l.PriceGrowth = nullFloat(growth)
		if rating.Valid || onTime.Valid {
			l.Developer = &models.Developer{
				Rating:              valueOr(rating, 0),
				DeliveryTrackRecord: models.DeliveryTrackRecord{OnTime: valueOr(onTime, 0)},
			}
		}
		if updatedAt.Valid {
			l.UpdatedAt = models.Time(updatedAt.Time.UTC())
		}
		if quarter != "" || year.Valid {
			l.Completion = &models.Completion{Quarter: quarter, Year: int(year.Int64)}
		}
		listings = append(listings, &l)
	}
	return listings, rows.Err()
}

// Close releases the connection pool.
func (pr *PostgresReader) Close() error {
	return pr.db.Close()
}

func nullFloat(v sql.NullFloat64) *float64 {
	if !v.Valid {
		return nil
	}
	return models.Float(v.Float64)
}

func valueOr(v sql.NullFloat64, fallback float64) float64 {
	if !v.Valid {
		return fallback
	}
	return v.Float64
}
