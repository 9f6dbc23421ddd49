// Package report fetches, parses and orders per-stock price-target tables.
package report

import (
	"fmt"
	"log"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"

	"BursaDaily/internal/discovery"
	"BursaDaily/internal/model"
	"BursaDaily/internal/scrape"
)

// detailLinkColumn is the table column whose anchor carries the report's
// detail-page link.
const detailLinkColumn = 6

// Fetcher retrieves one stock's report-history table.
type Fetcher struct {
	Client         *scrape.Client
	StockReportURL string // stock name is appended as the query value
}

// FetchByStock fetches and parses the report table for one stock. A missing
// table or a provider "no coverage" warning yields no records, not an error.
// Rows with malformed dates are skipped.
func (f *Fetcher) FetchByStock(stock string, loc *time.Location) ([]model.ReportRecord, error) {
	doc, err := f.Client.Document(f.StockReportURL + url.QueryEscape(stock))
	if err != nil {
		return nil, fmt.Errorf("report table for %s: %w", stock, err)
	}
	table := doc.Find("table.nc").First()
	if table.Length() == 0 {
		return nil, nil
	}
	if table.Find("span.warn").Length() > 0 {
		return nil, nil
	}

	cols := map[string]int{}
	table.Find("th").Each(func(i int, th *goquery.Selection) {
		cols[strings.TrimSpace(th.Text())] = i
	})
	for _, required := range []string{"Date", "Target Price", "Price Call", "Upside/Downside", "Source"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("report table for %s: missing %s column", stock, required)
		}
	}

	var records []model.ReportRecord
	table.Find("tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() <= detailLinkColumn {
			return
		}
		cell := func(name string) string {
			return strings.TrimSpace(cells.Eq(cols[name]).Text())
		}

		dateText := cell("Date")
		date, err := time.ParseInLocation(discovery.DateFormat, dateText, loc)
		if err != nil {
			log.Printf("[WARN] %s: skipping row with bad date %q: %v", stock, dateText, err)
			return
		}
		link, _ := cells.Eq(detailLinkColumn).Find("a").First().Attr("href")

		records = append(records, model.ReportRecord{
			StockName:      stock,
			ReportDate:     date,
			Source:         cell("Source"),
			TargetPrice:    cell("Target Price"),
			PriceCall:      cell("Price Call"),
			UpsideDownside: cell("Upside/Downside"),
			DetailLink:     link,
		})
	})
	return records, nil
}
