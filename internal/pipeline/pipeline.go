// Package pipeline runs one discovery-enrichment-delivery pass.
package pipeline

import (
	"context"
	"fmt"
	"log"
	"time"

	"BursaDaily/internal/discovery"
	"BursaDaily/internal/enrich"
	"BursaDaily/internal/model"
	"BursaDaily/internal/notify"
	"BursaDaily/internal/recorder"
	"BursaDaily/internal/report"
	"BursaDaily/internal/universe"
)

// Pipeline wires the run components together. Each run re-derives "new
// since the cutoff" from live data; nothing persists between runs.
type Pipeline struct {
	Universe     *universe.Resolver
	Discovery    *discovery.Engine
	Reports      *report.Fetcher
	Enricher     *enrich.Enricher
	Formatter    *notify.Formatter
	Deliverer    *notify.Deliverer
	Recorder     recorder.Recorder
	Location     *time.Location
	FeedPageSize int
}

// Run executes one full pass: discovery, per-stock fetches, aggregation,
// enrichment, compliance merge, formatting, delivery, and the run summary.
func (p *Pipeline) Run(ctx context.Context) error {
	now := time.Now().In(p.Location)
	run := model.RunContext{
		CutoffDate:   time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, p.Location),
		FeedPageSize: p.FeedPageSize,
	}
	log.Printf("[INFO] run started, cutoff %s", run.CutoffDate.Format(discovery.DateFormat))

	rows, err := p.Discovery.Latest(run)
	if err != nil {
		return err
	}
	if len(rows) == 0 {
		log.Println("[INFO] no new reports")
		if err := p.Deliverer.NoReports(); err != nil {
			return err
		}
		return p.record(recorder.OutcomeNoReports, nil)
	}

	uni, err := p.Universe.Resolve()
	if err != nil {
		return err
	}
	log.Printf("[INFO] universe resolved: %d stocks", uni.Len())

	scan := discovery.ScanSet(rows, run, uni)
	log.Printf("[INFO] scanning %d stocks (%d feed rows)", len(scan), len(rows))

	var records []model.ReportRecord
	for _, stock := range scan {
		batch, err := p.Reports.FetchByStock(stock, p.Location)
		if err != nil {
			return err
		}
		records = append(records, batch...)
	}
	records = report.Aggregate(records, run)
	log.Printf("[INFO] %d new reports after cutoff filter", len(records))

	for i := range records {
		p.Enricher.Enrich(&records[i])
		records[i].Flag = uni.Flag(records[i].StockName)
		p.Formatter.Format(&records[i])
	}

	deliverErr := p.Deliverer.Run(ctx, records)

	outcome := recorder.OutcomeCompleted
	for _, rec := range records {
		if rec.Status != model.StatusSent {
			outcome = recorder.OutcomeIncomplete
			break
		}
	}
	if err := p.record(outcome, records); err != nil {
		log.Printf("[ERROR] record run: %v", err)
	}
	if deliverErr != nil {
		return fmt.Errorf("delivery: %w", deliverErr)
	}
	return nil
}

func (p *Pipeline) record(outcome string, records []model.ReportRecord) error {
	sent := 0
	for i := range records {
		if records[i].Status == model.StatusSent {
			sent++
		}
		if err := p.Recorder.RecordReport(&records[i]); err != nil {
			return err
		}
	}
	return p.Recorder.RecordRun(&recorder.RunSummary{
		Outcome: outcome,
		Total:   len(records),
		Sent:    sent,
	})
}
