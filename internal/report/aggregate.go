package report

import (
	"sort"

	"BursaDaily/internal/model"
)

// Aggregate filters the concatenated per-stock records to the cutoff date
// and fixes the delivery order: ascending by report date, then stock name.
// Per-stock history contains older rows, so the cutoff is re-applied here.
func Aggregate(records []model.ReportRecord, run model.RunContext) []model.ReportRecord {
	fresh := make([]model.ReportRecord, 0, len(records))
	for _, r := range records {
		if !r.ReportDate.Before(run.CutoffDate) {
			fresh = append(fresh, r)
		}
	}
	sort.SliceStable(fresh, func(i, j int) bool {
		if !fresh[i].ReportDate.Equal(fresh[j].ReportDate) {
			return fresh[i].ReportDate.Before(fresh[j].ReportDate)
		}
		return fresh[i].StockName < fresh[j].StockName
	})
	return fresh
}
