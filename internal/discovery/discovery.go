// Package discovery decides which stocks must be re-scanned, based on the
// site's "latest reports" feed.
package discovery

import (
	"fmt"
	"log"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"BursaDaily/internal/model"
	"BursaDaily/internal/scrape"
	"BursaDaily/internal/universe"
)

// DateFormat is the day/month/year layout used by every table on the site.
const DateFormat = "02/01/2006"

// Engine fetches and interprets the latest-reports feed.
type Engine struct {
	Client  *scrape.Client
	FeedURL string
}

// FeedRow is one row of the latest-reports feed.
type FeedRow struct {
	StockName string
	Date      time.Time
}

// Latest fetches the feed and returns the rows published on or after the
// cutoff date. An unreachable or unparseable feed is fatal to the run.
func (e *Engine) Latest(run model.RunContext) ([]FeedRow, error) {
	doc, err := e.Client.Document(e.FeedURL)
	if err != nil {
		return nil, fmt.Errorf("latest feed: %w", err)
	}
	table := doc.Find("table.nc").First()
	if table.Length() == 0 {
		return nil, fmt.Errorf("latest feed: report table not found")
	}

	dateCol, stockCol := -1, -1
	table.Find("th").Each(func(i int, th *goquery.Selection) {
		switch strings.TrimSpace(th.Text()) {
		case "Date":
			dateCol = i
		case "Stock Name":
			stockCol = i
		}
	})
	if dateCol < 0 || stockCol < 0 {
		return nil, fmt.Errorf("latest feed: missing Date or Stock Name column")
	}

	var rows []FeedRow
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() <= dateCol || cells.Length() <= stockCol {
			return
		}
		dateText := strings.TrimSpace(cells.Eq(dateCol).Text())
		date, err := time.ParseInLocation(DateFormat, dateText, run.CutoffDate.Location())
		if err != nil {
			log.Printf("[WARN] latest feed: skipping row with bad date %q: %v", dateText, err)
			return
		}
		if date.Before(run.CutoffDate) {
			return
		}
		rows = append(rows, FeedRow{
			StockName: strings.TrimSpace(cells.Eq(stockCol).Text()),
			Date:      date,
		})
	})
	return rows, nil
}

// ScanSet turns the filtered feed rows into the sorted set of stocks to
// re-scan. When the row count hits the feed's page size the result may be
// truncated, and same-date reports for alphabetically later stocks may be
// hidden: every universe name sorting after the last visible row is added.
func ScanSet(rows []FeedRow, run model.RunContext, u *universe.Universe) []string {
	seen := make(map[string]bool, len(rows))
	var stocks []string
	for _, r := range rows {
		if !seen[r.StockName] {
			seen[r.StockName] = true
			stocks = append(stocks, r.StockName)
		}
	}

	if len(rows) == run.FeedPageSize && len(rows) > 0 {
		last := rows[len(rows)-1].StockName
		for _, name := range u.NamesAfter(last) {
			if !seen[name] {
				seen[name] = true
				stocks = append(stocks, name)
			}
		}
	}

	sort.Strings(stocks)
	return stocks
}
