package fleetcheck

import "sort"

// DefaultAlertLimit bounds the number of records in FleetStats.RecentAlerts.
const DefaultAlertLimit = 5

// FleetStats contains statistics aggregated over a set of inspection records.
type FleetStats struct {
	Total    int `json:"total"`
	OKCount  int `json:"okCount"`
	NOKCount int `json:"nokCount"`

	// CategoryIssueCounts counts NOK results per category across all records.
	CategoryIssueCounts map[string]int `json:"categoryIssueCounts"`

	// RecentAlerts holds NOK records in input order, at most the alert limit.
	RecentAlerts []*InspectionRecord `json:"recentAlerts"`
}

// CategoryCount is one bar of the issues-by-category chart.
type CategoryCount struct {
	Category string `json:"category"`
	Issues   int    `json:"issues"`
}

// Categories returns CategoryIssueCounts ordered by issue count, highest
// first, then by category name.
func (s *FleetStats) Categories() []CategoryCount {
	out := make([]CategoryCount, 0, len(s.CategoryIssueCounts))
	for c, n := range s.CategoryIssueCounts {
		out = append(out, CategoryCount{Category: c, Issues: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Issues != out[j].Issues {
			return out[i].Issues > out[j].Issues
		}
		return out[i].Category < out[j].Category
	})
	return out
}

// PassRate returns the fraction of records without anomalies, or 0 if there
// are no records.
func (s *FleetStats) PassRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.OKCount) / float64(s.Total)
}

// AggregateOption configures Aggregate.
type AggregateOption func(*aggregateOptions)

type aggregateOptions struct {
	alertLimit int
	catalog    *Catalog
}

// WithAlertLimit sets the maximum length of RecentAlerts. Values <= 0 keep
// DefaultAlertLimit.
func WithAlertLimit(n int) AggregateOption {
	return func(o *aggregateOptions) {
		if n > 0 {
			o.alertLimit = n
		}
	}
}

// WithCatalog excludes from category counts any result whose item id is not
// in the catalog for the record's vehicle type. Classification is unaffected.
func WithCatalog(c *Catalog) AggregateOption {
	return func(o *aggregateOptions) {
		o.catalog = c
	}
}

// Aggregate computes fleet statistics over records in a single pass. Callers
// supply records already ordered, typically newest first; Aggregate does not
// sort. Nil records are skipped. Aggregate never fails and keeps no state
// between calls.
func Aggregate(records []*InspectionRecord, opts ...AggregateOption) *FleetStats {
	o := aggregateOptions{alertLimit: DefaultAlertLimit}
	for _, opt := range opts {
		opt(&o)
	}

	stats := &FleetStats{
		CategoryIssueCounts: make(map[string]int),
		RecentAlerts:        make([]*InspectionRecord, 0, min(o.alertLimit, len(records))),
	}

	for _, r := range records {
		if r == nil {
			continue
		}
		stats.Total++

		if Classify(r) == StatusOK {
			stats.OKCount++
			continue
		}
		stats.NOKCount++
		if len(stats.RecentAlerts) < o.alertLimit {
			stats.RecentAlerts = append(stats.RecentAlerts, r)
		}
		countIssues(stats.CategoryIssueCounts, r, o.catalog)
	}

	return stats
}

// countIssues adds r's NOK results to counts. A repeated item id within r is
// counted once; with a catalog, items unknown to the vehicle type's checklist
// are skipped.
func countIssues(counts map[string]int, r *InspectionRecord, catalog *Catalog) {
	var seen map[string]bool
	for _, res := range r.Results {
		if res.Status != StatusNOK {
			continue
		}
		if res.ItemID != "" {
			if seen[res.ItemID] {
				continue
			}
			if seen == nil {
				seen = make(map[string]bool, len(r.Results))
			}
			seen[res.ItemID] = true
		}
		if catalog != nil {
			if _, ok := catalog.Item(r.Vehicle.Type, res.ItemID); !ok {
				continue
			}
		}
		counts[NormalizeCategory(res.Category)]++
	}
}
