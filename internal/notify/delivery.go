package notify

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"BursaDaily/internal/model"
	"BursaDaily/internal/render"
	"BursaDaily/internal/scrape"
)

// Log-channel messages.
const (
	MsgNoReports  = "No latest report is available."
	MsgIncomplete = "Not all reports are submitted."
	MsgCompleted  = "Task is completed."
)

// Deliverer sends each record's notification once, in aggregator order,
// preferring the photo form when a document is available.
type Deliverer struct {
	Sender    Sender
	Renderer  render.Renderer
	Fetch     *scrape.Client
	ChatID    string
	LogChatID string
	Limiter   *rate.Limiter
}

// NewDeliverer creates a deliverer that paces sends at one per interval.
func NewDeliverer(sender Sender, renderer render.Renderer, fetch *scrape.Client, chatID, logChatID string, interval time.Duration) *Deliverer {
	return &Deliverer{
		Sender:    sender,
		Renderer:  renderer,
		Fetch:     fetch,
		ChatID:    chatID,
		LogChatID: logChatID,
		Limiter:   rate.NewLimiter(rate.Every(interval), 1),
	}
}

// Run delivers all records in order, then sends the run summary to the log
// chat. Photo-branch failures of any kind fall back to the text branch for
// that record only. A text-send failure aborts the remaining loop and the
// summary; matching the source system, it is deliberately not recovered.
func (d *Deliverer) Run(ctx context.Context, records []model.ReportRecord) error {
	for i := range records {
		rec := &records[i]
		if rec.DocumentFileLink != "" {
			if err := d.sendPhoto(ctx, rec); err != nil {
				log.Printf("[WARN] photo delivery for %s: %v, falling back to text", rec.StockName, err)
			}
		}
		if rec.Status == model.StatusSent {
			continue
		}
		if err := d.Limiter.Wait(ctx); err != nil {
			return err
		}
		if err := d.Sender.SendText(d.ChatID, rec.Text); err != nil {
			return fmt.Errorf("send text for %s: %w", rec.StockName, err)
		}
		rec.Status = model.StatusSent
	}
	return d.summary(records)
}

// sendPhoto fetches the document, checks that it really is a PDF, renders
// the first page and sends the photo with the caption.
func (d *Deliverer) sendPhoto(ctx context.Context, rec *model.ReportRecord) error {
	resp, err := d.Fetch.Get(DocumentURL(rec.DocumentFileLink))
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("document fetch: status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "application/pdf") {
		return fmt.Errorf("unexpected content type %q", ct)
	}
	doc, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read document: %w", err)
	}

	photo, err := d.Renderer.FirstPage(doc)
	if err != nil {
		return err
	}

	if err := d.Limiter.Wait(ctx); err != nil {
		return err
	}
	if err := d.Sender.SendPhoto(d.ChatID, photo, rec.Caption); err != nil {
		return err
	}
	rec.Status = model.StatusSent
	return nil
}

// NoReports tells the log chat that the run found nothing new.
func (d *Deliverer) NoReports() error {
	return d.Sender.SendLog(d.LogChatID, MsgNoReports)
}

func (d *Deliverer) summary(records []model.ReportRecord) error {
	for _, rec := range records {
		if rec.Status != model.StatusSent {
			return d.Sender.SendLog(d.LogChatID, MsgIncomplete)
		}
	}
	return d.Sender.SendLog(d.LogChatID, MsgCompleted)
}
