// Package universe builds the canonical list of known stocks with their
// compliance flags from two independently sourced catalogs.
package universe

import (
	"fmt"
	"sort"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"BursaDaily/internal/model"
	"BursaDaily/internal/scrape"
)

// nonShariahToken is the suffix the sector catalog appends to names of
// non-compliant stocks.
const nonShariahToken = "[NS]"

// Resolver fetches and merges the stock catalogs.
type Resolver struct {
	Client     *scrape.Client
	CatalogURL string // primary JSON catalog
	SectorURL  string // secondary sector HTML catalog
}

// Universe is the merged, sorted stock list. Immutable once built.
type Universe struct {
	entries []model.StockEntry
	flags   map[string]model.ComplianceFlag
}

// Resolve fetches both catalogs and merges them. Any fetch failure is fatal
// to the run: the universe is required for scope expansion and the
// compliance merge.
func (r *Resolver) Resolve() (*Universe, error) {
	entries, err := r.primary()
	if err != nil {
		return nil, fmt.Errorf("primary catalog: %w", err)
	}
	sector, err := r.sector()
	if err != nil {
		return nil, fmt.Errorf("sector catalog: %w", err)
	}
	return New(append(entries, sector...)), nil
}

// New builds a universe from catalog entries, deduplicating by name (first
// occurrence wins) and sorting lexicographically.
func New(entries []model.StockEntry) *Universe {
	u := &Universe{flags: make(map[string]model.ComplianceFlag, len(entries))}
	for _, e := range entries {
		if _, seen := u.flags[e.Name]; seen {
			continue
		}
		u.flags[e.Name] = e.Flag
		u.entries = append(u.entries, e)
	}
	sort.Slice(u.entries, func(i, j int) bool { return u.entries[i].Name < u.entries[j].Name })
	return u
}

// primary reads the JSON heatmap catalog, where the flag is already encoded
// per stock.
func (r *Resolver) primary() ([]model.StockEntry, error) {
	var catalog struct {
		Children []struct {
			Name string `json:"name"`
			Data struct {
				Shariah string `json:"shariah"`
			} `json:"data"`
		} `json:"children"`
	}
	if err := r.Client.JSON(r.CatalogURL, &catalog); err != nil {
		return nil, err
	}
	entries := make([]model.StockEntry, 0, len(catalog.Children))
	for _, c := range catalog.Children {
		name := strings.TrimSpace(c.Name)
		if name == "" {
			continue
		}
		entries = append(entries, model.StockEntry{Name: name, Flag: parseFlag(c.Data.Shariah)})
	}
	return entries, nil
}

// sector reads the HTML sector table, where the flag is a trailing token on
// the name string: no token means compliant, "[NS]" means non-compliant.
func (r *Resolver) sector() ([]model.StockEntry, error) {
	doc, err := r.Client.Document(r.SectorURL)
	if err != nil {
		return nil, err
	}
	table := doc.Find("table#myTable")
	if table.Length() == 0 {
		return nil, fmt.Errorf("sector table not found")
	}

	stockCol := -1
	table.Find("th").EachWithBreak(func(i int, th *goquery.Selection) bool {
		if strings.TrimSpace(th.Text()) == "Stock" {
			stockCol = i
			return false
		}
		return true
	})
	if stockCol < 0 {
		return nil, fmt.Errorf("sector table has no Stock column")
	}

	var entries []model.StockEntry
	table.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cells := tr.Find("td")
		if cells.Length() <= stockCol {
			return
		}
		fields := strings.Fields(cells.Eq(stockCol).Text())
		if len(fields) == 0 {
			return
		}
		flag := model.Compliant
		if fields[len(fields)-1] == nonShariahToken {
			flag = model.NonCompliant
			fields = fields[:len(fields)-1]
		}
		name := strings.Join(fields, " ")
		if name == "" {
			return
		}
		entries = append(entries, model.StockEntry{Name: name, Flag: flag})
	})
	return entries, nil
}

func parseFlag(s string) model.ComplianceFlag {
	switch strings.TrimSpace(s) {
	case "Yes":
		return model.Compliant
	case "No":
		return model.NonCompliant
	default:
		return model.ComplianceUnknown
	}
}

// Names returns all stock names in lexicographic order.
func (u *Universe) Names() []string {
	names := make([]string, len(u.entries))
	for i, e := range u.entries {
		names[i] = e.Name
	}
	return names
}

// NamesAfter returns the names that sort strictly after the given name.
func (u *Universe) NamesAfter(name string) []string {
	i := sort.Search(len(u.entries), func(i int) bool { return u.entries[i].Name > name })
	names := make([]string, 0, len(u.entries)-i)
	for _, e := range u.entries[i:] {
		names = append(names, e.Name)
	}
	return names
}

// Flag returns the compliance flag for a stock, or Unknown when the stock
// is not catalogued.
func (u *Universe) Flag(name string) model.ComplianceFlag {
	return u.flags[name]
}

// Len reports the number of catalogued stocks.
func (u *Universe) Len() int { return len(u.entries) }
