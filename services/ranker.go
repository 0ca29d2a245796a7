package services

import (
	"sort"

	"property-insights/apperr"
	"property-insights/models"
	"property-insights/utils"
)

// Ranker scores a listing collection against a profile, orders it and
// returns one page.
type Ranker struct {
	logger  *utils.Logger
	cleaner *Cleaner
	workers int
}

// NewRanker creates a Ranker that scores on up to workers goroutines.
func NewRanker(logger *utils.Logger, workers int) *Ranker {
	return &Ranker{
		logger:  logger,
		cleaner: NewCleaner(logger),
		workers: workers,
	}
}

// Rank returns page `page` (1-based) of size `limit` of the listings ordered
// by fit score, highest first. Equal scores keep their corpus order.
// A nil profile or nil listing slice is NotFound; an empty slice is not.
func (r *Ranker) Rank(profile *models.InvestorProfile, listings []*models.Listing, page, limit int) (*models.RankedPage, error) {
	const op = "rank"
	if profile == nil {
		return nil, apperr.NotFound("investor profile not found").WithOp(op)
	}
	if listings == nil {
		return nil, apperr.NotFound("listing collection not found").WithOp(op)
	}
	if err := validateStruct(op, pageRequest{Page: page, Limit: limit}); err != nil {
		return nil, err
	}
	cleaned := r.cleaner.CleanProfile(profile)
	if err := validateStruct(op, cleaned); err != nil {
		return nil, err
	}
	if err := validateBudget(op, cleaned.Budget); err != nil {
		return nil, err
	}

	matches := r.scoreAll(cleaned, r.cleaner.CleanListings(listings))
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})

	total := len(matches)
	result := &models.RankedPage{
		Total:      total,
		Page:       page,
		Limit:      limit,
		TotalPages: (total + limit - 1) / limit,
		Data:       []*models.MatchResult{},
	}

	// page <= TotalPages keeps (page-1)*limit below total, so it cannot overflow.
	if page <= result.TotalPages {
		start := (page - 1) * limit
		end := start + limit
		if end > total {
			end = total
		}
		result.Data = matches[start:end]
	}

	r.logger.Debug("[ranker] Scored %d listings for profile %q, page %d/%d returns %d",
		total, profile.ID, page, result.TotalPages, len(result.Data))
	return result, nil
}

// scoreAll scores every listing on the worker pool. Each job writes only its
// own slot, so the output keeps corpus order.
func (r *Ranker) scoreAll(profile *models.InvestorProfile, listings []*models.Listing) []*models.MatchResult {
	matches := make([]*models.MatchResult, len(listings))
	pool := utils.NewWorkerPool(r.workers)
	for i, l := range listings {
		i, l := i, l
		pool.Submit(func() {
			score, breakdown := Score(profile, l)
			matches[i] = &models.MatchResult{Project: l, Score: score, Breakdown: breakdown}
		})
	}
	pool.Wait()
	return matches
}
