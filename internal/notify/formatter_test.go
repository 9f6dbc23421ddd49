package notify

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"BursaDaily/internal/model"
)

func sampleRecord() model.ReportRecord {
	return model.ReportRecord{
		StockName:        "TENAGA",
		ReportDate:       time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC),
		Source:           "KENANGA",
		TargetPrice:      "12.50",
		PriceCall:        "BUY",
		UpsideDownside:   "+0.40 (36.36%)",
		DetailLink:       "/pt/123",
		Title:            "TENAGA - Powering Ahead",
		DocumentFileLink: "//cdn.example.com/report.pdf",
		Flag:             model.NonCompliant,
	}
}

func TestFormat_Caption(t *testing.T) {
	f := NewFormatter("https://klse.i3investor.com")
	rec := sampleRecord()
	f.Format(&rec)

	want := "*TENAGA \\[NS\\] *\\(Buy\\); Target: RM12\\.50\n" +
		"[TENAGA \\- Powering Ahead](https://cdn\\.example\\.com/report\\.pdf) by Kenanga Research \\(15/03/2026\\)\n" +
		"\nhttps://klse\\.i3investor\\.com/pt/123"
	assert.Equal(t, want, rec.Caption)
}

func TestFormat_Text(t *testing.T) {
	f := NewFormatter("https://klse.i3investor.com")
	rec := sampleRecord()
	f.Format(&rec)

	want := "*TENAGA \\[NS\\] *\\(Buy\\); Target: RM12\\.50\n" +
		"Research report by Kenanga Research \\(15/03/2026\\)\n" +
		"\nhttps://klse\\.i3investor\\.com/pt/123"
	assert.Equal(t, want, rec.Text)
	assert.NotContains(t, rec.Text, "cdn.example.com", "text form carries no document link")
}

func TestFormat_UnknownComplianceRendersEmptyMarker(t *testing.T) {
	f := NewFormatter("https://klse.i3investor.com")
	rec := sampleRecord()
	rec.Flag = model.ComplianceUnknown
	f.Format(&rec)

	assert.NotContains(t, rec.Caption, "NS")
	assert.NotContains(t, rec.Caption, "Unknown")
}

func TestFormat_UnmappedBrokerFallsBack(t *testing.T) {
	f := NewFormatter("https://klse.i3investor.com")
	rec := sampleRecord()
	rec.Source = "NEWBROKER"
	f.Format(&rec)

	assert.Contains(t, rec.Text, "by NEWBROKER ")
}

func TestFormat_MultiWordPriceCall(t *testing.T) {
	f := NewFormatter("https://klse.i3investor.com")
	rec := sampleRecord()
	rec.PriceCall = "TRADING BUY"
	f.Format(&rec)

	assert.Contains(t, rec.Caption, "\\(Trading Buy\\)")
}

func TestDocumentURL(t *testing.T) {
	assert.Equal(t, "", DocumentURL(""))
	assert.Equal(t, "https://cdn.example.com/report.pdf", DocumentURL("//cdn.example.com/report.pdf"))
	assert.Equal(t, "https://cdn.example.com/files/report%2099.pdf", DocumentURL("//cdn.example.com/files/report 99.pdf"))
}
