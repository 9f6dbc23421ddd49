package notify

import (
	"fmt"
	"net/url"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"BursaDaily/internal/model"
)

// brokerHouse maps a report's broker source code to its display name.
// Unmapped codes fall back to the raw code.
var brokerHouse = map[string]string{
	"BIMB":              "BIMB Securities Research",
	"PUBLIC BANK":       "PublicInvest Research",
	"MIDF":              "MIDF Research",
	"KENANGA":           "Kenanga Research",
	"HLG":               "Hong Leong Investment Bank Research",
	"AmInvest":          "AmInvest Research",
	"AffinHwang":        "Affin Hwang Research",
	"JF APEX":           "JF Apex Securities Research",
	"MalaccaSecurities": "Mplus Research",
	"RHB-OSK":           "RHB Securities Research",
	"ALLIANCE":          "Alliance Research",
	"MERCURY":           "Mercury Research",
	"TA":                "TA Research",
	"Rakuten":           "Rakuten Research",
	"MACQUARIE GROUP":   "Macquarie Research",
	"CIMB":              "CIMB Research",
	"CREDIT SUISSE":     "Credit Suisse",
	"UBS":               "UBS Research",
	"CITI GROUP":        "Citi Research",
	"UOBKayHian":        "UOB Kay Hian",
}

// Formatter renders the two notification bodies for a record.
type Formatter struct {
	DetailBaseURL string
	BrokerNames   map[string]string
}

// NewFormatter creates a formatter with the standard broker table.
func NewFormatter(detailBaseURL string) *Formatter {
	return &Formatter{DetailBaseURL: detailBaseURL, BrokerNames: brokerHouse}
}

// Format sets Caption (photo form, with the title hyperlinked to the
// document) and Text (plain fallback) on the record. Every interpolated
// value is MarkdownV2-escaped.
func (f *Formatter) Format(rec *model.ReportRecord) {
	name := EscapeMarkdownV2(rec.StockName)
	marker := EscapeMarkdownV2(rec.Flag.Marker())
	tp := EscapeMarkdownV2(rec.TargetPrice)
	call := EscapeMarkdownV2(cases.Title(language.Und).String(rec.PriceCall))
	title := EscapeMarkdownV2(rec.Title)
	date := EscapeMarkdownV2(rec.ReportDate.Format("(02/01/2006)"))
	link := EscapeMarkdownV2(f.DetailBaseURL + rec.DetailLink)
	pdf := EscapeMarkdownV2(DocumentURL(rec.DocumentFileLink))

	broker := rec.Source
	if display, ok := f.BrokerNames[rec.Source]; ok {
		broker = display
	}
	broker = EscapeMarkdownV2(broker)

	rec.Caption = fmt.Sprintf("*%s %s*\\(%s\\); Target: RM%s\n[%s](%s) by %s %s\n\n%s",
		name, marker, call, tp, title, pdf, broker, date, link)
	rec.Text = fmt.Sprintf("*%s %s*\\(%s\\); Target: RM%s\nResearch report by %s %s\n\n%s",
		name, marker, call, tp, broker, date, link)
}

// DocumentURL turns the protocol-relative document link from the embedded
// object into an absolute, path-escaped URL. Empty in, empty out.
func DocumentURL(fileLink string) string {
	if fileLink == "" {
		return ""
	}
	parts := strings.Split(fileLink, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return "https:" + strings.Join(parts, "/")
}
