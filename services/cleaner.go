package services

import (
	"strings"
	"unicode"

	"property-insights/models"
	"property-insights/utils"
)

// Developer defaults substituted when a listing carries no developer summary.
const (
	DefaultDeveloperRating = 4.0
	DefaultDeveloperOnTime = 90.0
)

// Cleaner prepares snapshot records for scoring and aggregation. It is the
// single place where defaults are substituted; formulas downstream never
// guess at missing values.
type Cleaner struct {
	logger *utils.Logger
}

// NewCleaner creates a Cleaner with the given logger.
func NewCleaner(logger *utils.Logger) *Cleaner {
	return &Cleaner{logger: logger}
}

// CleanListings returns normalised copies of the listings. Nil entries are
// dropped. The input slice and its records are not modified.
func (c *Cleaner) CleanListings(raw []*models.Listing) []*models.Listing {
	result := make([]*models.Listing, 0, len(raw))
	for _, l := range raw {
		if l == nil {
			continue
		}
		result = append(result, c.CleanListing(l))
	}
	if dropped := len(raw) - len(result); dropped > 0 {
		c.logger.Debug("[cleaner] Dropped %d nil listings", dropped)
	}
	return result
}

// CleanListing returns a normalised copy of a single listing.
func (c *Cleaner) CleanListing(l *models.Listing) *models.Listing {
	out := *l
	out.Location = normaliseText(l.Location)
	out.Category = normaliseTags(l.Category)
	out.Amenities = normaliseTags(l.Amenities)

	if l.Developer == nil {
		out.Developer = &models.Developer{
			Rating:              DefaultDeveloperRating,
			DeliveryTrackRecord: models.DeliveryTrackRecord{OnTime: DefaultDeveloperOnTime},
		}
	} else {
		dev := *l.Developer
		out.Developer = &dev
	}
	return &out
}

// CleanProfile returns a normalised copy of the profile.
func (c *Cleaner) CleanProfile(p *models.InvestorProfile) *models.InvestorProfile {
	out := *p
	out.RiskAppetite = models.RiskAppetite(strings.ToLower(normaliseText(string(p.RiskAppetite))))
	out.PreferredLocations = normaliseTags(p.PreferredLocations)
	out.PreferredPropertyTypes = normaliseTags(p.PreferredPropertyTypes)
	return &out
}

// normaliseText strips leading/trailing whitespace and collapses internal whitespace.
func normaliseText(s string) string {
	s = strings.TrimSpace(s)
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return unicode.IsSpace(r)
	})
	return strings.Join(fields, " ")
}

// normaliseTags normalises each tag, dropping empties and duplicates while
// keeping first-seen order.
func normaliseTags(tags []string) []string {
	if tags == nil {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = normaliseText(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
