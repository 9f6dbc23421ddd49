// Package enrich resolves each report's display title and document link by
// following the two-hop chain from its detail page.
package enrich

import (
	"log"

	"BursaDaily/internal/model"
	"BursaDaily/internal/scrape"
)

// Enricher fills in Title, DocumentPostLink and DocumentFileLink on a
// record. Enrichment is best effort: a missing element at any hop leaves
// that field and its dependents empty, and one record's failure never
// affects another.
type Enricher struct {
	Client  *scrape.Client
	BaseURL string // site base for the relative detail/post links
}

// Enrich resolves the detail chain for one record in place.
func (e *Enricher) Enrich(rec *model.ReportRecord) {
	doc, err := e.Client.Document(e.BaseURL + rec.DetailLink)
	if err != nil {
		log.Printf("[WARN] enrich %s: detail page: %v", rec.StockName, err)
		return
	}

	if h2 := doc.Find("h2").First(); h2.Length() > 0 {
		rec.Title = h2.Text()
	}

	content := doc.Find("div.doccontent")
	if content.Length() == 0 {
		return
	}
	paragraphs := content.Find("p")
	if paragraphs.Length() == 0 {
		return
	}
	post, ok := paragraphs.Last().Find("a[href]").First().Attr("href")
	if !ok || post == "" {
		return
	}
	rec.DocumentPostLink = post
	rec.DocumentFileLink = e.documentFile(rec)
}

// documentFile performs the second hop: the post page exposes the document
// through an embedded object's data attribute.
func (e *Enricher) documentFile(rec *model.ReportRecord) string {
	doc, err := e.Client.Document(e.BaseURL + rec.DocumentPostLink)
	if err != nil {
		log.Printf("[WARN] enrich %s: post page: %v", rec.StockName, err)
		return ""
	}
	data, _ := doc.Find("object").First().Attr("data")
	return data
}
