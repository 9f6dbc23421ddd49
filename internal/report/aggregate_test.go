package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"BursaDaily/internal/model"
)

func day(d int) time.Time {
	return time.Date(2026, 3, d, 0, 0, 0, 0, time.UTC)
}

func TestAggregate_FiltersAndOrders(t *testing.T) {
	records := []model.ReportRecord{
		{StockName: "BBB Bhd", ReportDate: day(16)},
		{StockName: "CCC Bhd", ReportDate: day(15)},
		{StockName: "AAA Bhd", ReportDate: day(16)},
		{StockName: "OLD Bhd", ReportDate: day(10)}, // stale history row
		{StockName: "AAA Bhd", ReportDate: day(15)},
	}
	run := model.RunContext{CutoffDate: day(15), FeedPageSize: 50}

	got := Aggregate(records, run)

	want := []string{"AAA Bhd", "CCC Bhd", "AAA Bhd", "BBB Bhd"}
	names := make([]string, len(got))
	for i, r := range got {
		names[i] = r.StockName
	}
	assert.Equal(t, want, names, "date ascending, then stock name")

	for i := 1; i < len(got); i++ {
		prev, cur := got[i-1], got[i]
		assert.False(t, cur.ReportDate.Before(prev.ReportDate))
		if cur.ReportDate.Equal(prev.ReportDate) {
			assert.LessOrEqual(t, prev.StockName, cur.StockName)
		}
	}
}

func TestAggregate_Empty(t *testing.T) {
	run := model.RunContext{CutoffDate: day(15)}
	assert.Empty(t, Aggregate(nil, run))
}
