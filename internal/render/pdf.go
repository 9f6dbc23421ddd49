// Package render turns a downloaded research document into a preview image
// for the photo notification.
package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
)

// Renderer produces a first-page preview image from raw document bytes.
// Implementations must treat unrenderable input as an error; the delivery
// pipeline falls back to a text notification in that case.
type Renderer interface {
	FirstPage(doc []byte) ([]byte, error)
}

// PDFRenderer extracts a first-page preview from a PDF using pdfcpu.
type PDFRenderer struct{}

// FirstPage validates the document and returns the largest image embedded
// on its first page. Research-report PDFs carry their rendered page as a
// full-page image, so this stands in for a rasterizer.
func (PDFRenderer) FirstPage(doc []byte) ([]byte, error) {
	conf := pdfmodel.NewDefaultConfiguration()
	conf.ValidationMode = pdfmodel.ValidationRelaxed

	ctx, err := api.ReadContext(bytes.NewReader(doc), conf)
	if err != nil {
		return nil, fmt.Errorf("read pdf: %w", err)
	}
	if ctx.PageCount < 1 {
		return nil, fmt.Errorf("pdf has no pages")
	}

	images, err := api.ExtractImagesRaw(bytes.NewReader(doc), []string{"1"}, conf)
	if err != nil {
		return nil, fmt.Errorf("extract first page images: %w", err)
	}

	var largest []byte
	for _, pageImages := range images {
		for _, img := range pageImages {
			data, err := io.ReadAll(img)
			if err != nil {
				continue
			}
			if len(data) > len(largest) {
				largest = data
			}
		}
	}
	if len(largest) == 0 {
		return nil, fmt.Errorf("no renderable image on first page")
	}
	return largest, nil
}
