package pipeline

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"BursaDaily/internal/discovery"
	"BursaDaily/internal/enrich"
	"BursaDaily/internal/model"
	"BursaDaily/internal/notify"
	"BursaDaily/internal/recorder"
	"BursaDaily/internal/report"
	"BursaDaily/internal/scrape"
	"BursaDaily/internal/universe"
)

type fakeSender struct {
	texts  []string
	photos []string
	logs   []string
}

func (f *fakeSender) SendText(_, text string) error { f.texts = append(f.texts, text); return nil }
func (f *fakeSender) SendPhoto(_ string, _ []byte, caption string) error {
	f.photos = append(f.photos, caption)
	return nil
}
func (f *fakeSender) SendLog(_, text string) error { f.logs = append(f.logs, text); return nil }

type fakeRenderer struct{}

func (fakeRenderer) FirstPage(_ []byte) ([]byte, error) { return nil, errors.New("not rendered") }

type captureRecorder struct {
	runs    []recorder.RunSummary
	reports []model.ReportRecord
}

func (c *captureRecorder) RecordRun(sum *recorder.RunSummary) error {
	c.runs = append(c.runs, *sum)
	return nil
}
func (c *captureRecorder) RecordReport(rec *model.ReportRecord) error {
	c.reports = append(c.reports, *rec)
	return nil
}
func (c *captureRecorder) Close() error { return nil }

// testSite serves a minimal version of every source the pipeline reads.
type testSite struct {
	srv          *httptest.Server
	today        string
	catalogCalls atomic.Int64
}

func newTestSite(t *testing.T, today string, feedStocks []string) *testSite {
	t.Helper()
	site := &testSite{today: today}
	mux := http.NewServeMux()

	mux.HandleFunc("/feed", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<table class="nc"><tr><th>Date</th><th>Stock Name</th></tr>`)
		for _, s := range feedStocks {
			fmt.Fprintf(w, `<tr><td>%s</td><td>%s</td></tr>`, today, s)
		}
		fmt.Fprint(w, `</table>`)
	})
	mux.HandleFunc("/catalog.json", func(w http.ResponseWriter, _ *http.Request) {
		site.catalogCalls.Add(1)
		fmt.Fprint(w, `{"children":[
			{"name":"A","data":{"shariah":"Yes"}},
			{"name":"B","data":{"shariah":"No"}},
			{"name":"C","data":{"shariah":"Yes"}}
		]}`)
	})
	mux.HandleFunc("/sector", func(w http.ResponseWriter, _ *http.Request) {
		fmt.Fprint(w, `<table id="myTable"><thead><tr><th>Stock</th></tr></thead><tbody></tbody></table>`)
	})
	mux.HandleFunc("/stock", func(w http.ResponseWriter, r *http.Request) {
		stock := r.URL.Query().Get("q")
		fmt.Fprintf(w, `<table class="nc">
<tr><th>Date</th><th>Open Price</th><th>Target Price</th><th>Price Call</th><th>Upside/Downside</th><th>Source</th><th>News</th></tr>
<tr><td>%s</td><td>1.00</td><td>2.00</td><td>BUY</td><td>+1.00</td><td>KENANGA</td><td><a href="/detail/%s">r</a></td></tr>
</table>`, today, stock)
	})
	mux.HandleFunc("/detail/", func(w http.ResponseWriter, _ *http.Request) {
		// Heading only: no content body, so no document link resolves.
		fmt.Fprint(w, `<html><body><h2>Research Note</h2></body></html>`)
	})

	site.srv = httptest.NewServer(mux)
	t.Cleanup(site.srv.Close)
	return site
}

func newTestPipeline(site *testSite, sender notify.Sender, rec recorder.Recorder) *Pipeline {
	client := scrape.NewClient("")
	return &Pipeline{
		Universe: &universe.Resolver{
			Client:     client,
			CatalogURL: site.srv.URL + "/catalog.json",
			SectorURL:  site.srv.URL + "/sector",
		},
		Discovery: &discovery.Engine{Client: client, FeedURL: site.srv.URL + "/feed"},
		Reports:   &report.Fetcher{Client: client, StockReportURL: site.srv.URL + "/stock?q="},
		Enricher:  &enrich.Enricher{Client: client, BaseURL: site.srv.URL},
		Formatter: notify.NewFormatter(site.srv.URL),
		Deliverer: notify.NewDeliverer(sender, fakeRenderer{}, client, "chat", "logchat", 0),
		Recorder:  rec,
		Location:     time.UTC,
		FeedPageSize: 50,
	}
}

func TestRun_EndToEnd(t *testing.T) {
	today := time.Now().UTC().Format(discovery.DateFormat)
	site := newTestSite(t, today, []string{"C", "A", "B"})
	sender := &fakeSender{}
	capture := &captureRecorder{}

	p := newTestPipeline(site, sender, capture)
	require.NoError(t, p.Run(context.Background()))

	// Three records, delivered as text in stock-name order.
	require.Len(t, sender.texts, 3)
	assert.Contains(t, sender.texts[0], "*A ")
	assert.Contains(t, sender.texts[1], "*B ")
	assert.Contains(t, sender.texts[2], "*C ")
	assert.Empty(t, sender.photos, "no document link means no photo attempts")
	assert.Equal(t, []string{notify.MsgCompleted}, sender.logs)

	require.Len(t, capture.runs, 1)
	assert.Equal(t, recorder.OutcomeCompleted, capture.runs[0].Outcome)
	assert.Equal(t, 3, capture.runs[0].Total)
	assert.Equal(t, 3, capture.runs[0].Sent)
	require.Len(t, capture.reports, 3)
	for _, rec := range capture.reports {
		assert.Equal(t, model.StatusSent, rec.Status)
	}

	// B is flagged non-compliant in the catalog.
	assert.Contains(t, sender.texts[1], `\[NS\]`)
	assert.NotContains(t, sender.texts[0], `\[NS\]`)
}

func TestRun_NoNewReportsShortCircuits(t *testing.T) {
	// Everything in the feed predates the cutoff.
	site := newTestSite(t, "01/01/2020", []string{"A", "B"})
	sender := &fakeSender{}
	capture := &captureRecorder{}

	p := newTestPipeline(site, sender, capture)
	require.NoError(t, p.Run(context.Background()))

	assert.Equal(t, []string{notify.MsgNoReports}, sender.logs)
	assert.Empty(t, sender.texts)
	assert.Equal(t, int64(0), site.catalogCalls.Load(), "universe must not be fetched on a no-op run")
	require.Len(t, capture.runs, 1)
	assert.Equal(t, recorder.OutcomeNoReports, capture.runs[0].Outcome)
}
