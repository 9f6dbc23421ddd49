package model

import "time"

// DeliveryStatus marks whether a report's notification went out this run.
type DeliveryStatus string

const (
	StatusUnsent DeliveryStatus = ""
	StatusSent   DeliveryStatus = "Sent"
)

// ReportRecord is one discovered research report. It is created by the
// per-stock fetcher with the raw table fields and progressively filled in
// by the enricher, the compliance merge, and the formatter. Unresolved
// link/title fields stay "" rather than erroring.
type ReportRecord struct {
	StockName      string
	ReportDate     time.Time
	Source         string // broker source code
	TargetPrice    string
	PriceCall      string
	UpsideDownside string
	DetailLink     string // site-relative, always present

	// Resolved by the detail enricher, best effort.
	Title            string
	DocumentPostLink string
	DocumentFileLink string // protocol-relative document URL

	Flag ComplianceFlag

	// Rendered notification bodies.
	Caption string // photo caption, MarkdownV2
	Text    string // plain-text fallback, MarkdownV2

	Status DeliveryStatus
}

// RunContext fixes the date boundary and the feed truncation threshold
// for a single run.
type RunContext struct {
	CutoffDate   time.Time
	FeedPageSize int
}
