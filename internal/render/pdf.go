package render

import (
	"bytes"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
	"github.com/phpdave11/gofpdf/contrib/gofpdi"

	"notestand/internal/access"
)

// pdfRenderer handles paginated documents. Pages are imported from the
// source PDF into a fresh document, which is what makes preview truncation
// real: pages beyond the first are physically absent from the output bytes,
// not hidden behind viewer state.
type pdfRenderer struct{}

func (r *pdfRenderer) Supports(contentType string) bool {
	return contentType == "application/pdf"
}

// Render rebuilds the document page by page, stamping the watermark grid on
// every retained page. gofpdi reports parse failures by panicking, so the
// whole pass runs under a recover that maps any failure to ErrMalformed.
func (r *pdfRenderer) Render(in []byte, m Mark, level access.Level) (out []byte, err error) {
	defer func() {
		if p := recover(); p != nil {
			out = nil
			err = ErrMalformed
		}
	}()

	if len(in) == 0 {
		return nil, ErrMalformed
	}

	var rs io.ReadSeeker = bytes.NewReader(in)

	pdf := gofpdf.New("P", "pt", "A4", "")
	imp := gofpdi.NewImporter()

	// Importing the first page parses the whole file; afterwards the page
	// inventory is known.
	tpl := imp.ImportPageFromStream(pdf, &rs, 1, "/MediaBox")
	sizes := imp.GetPageSizes()
	total := len(sizes)
	if total == 0 {
		return nil, ErrMalformed
	}

	retained := total
	if level == access.PreviewOnly && total > 1 {
		retained = 1
	}

	for page := 1; page <= retained; page++ {
		if page > 1 {
			tpl = imp.ImportPageFromStream(pdf, &rs, page, "/MediaBox")
		}

		w, h, ok := pageDims(sizes, page)
		if !ok {
			return nil, ErrMalformed
		}

		orientation := "P"
		if w > h {
			orientation = "L"
		}
		pdf.AddPageFormat(orientation, gofpdf.SizeType{Wd: w, Ht: h})
		imp.UseImportedTemplate(pdf, tpl, 0, 0, w, h)

		stampPage(pdf, stampGrid(w, h, m))
	}

	// An output-stage failure is an encoder problem, not input
	// malformation; surface the underlying error so the two are
	// distinguishable in logs. Still no partial output.
	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write rendered pdf: %w", err)
	}
	return buf.Bytes(), nil
}

// pageDims extracts the media box dimensions for a page from the importer's
// page inventory.
func pageDims(sizes map[int]map[string]map[string]float64, page int) (w, h float64, ok bool) {
	box, ok := sizes[page]["/MediaBox"]
	if !ok {
		return 0, 0, false
	}
	w, h = box["w"], box["h"]
	if w <= 0 || h <= 0 {
		return 0, 0, false
	}
	return w, h, true
}

// stampPage draws every watermark layer onto the current page.
func stampPage(pdf *gofpdf.Fpdf, stamps []stamp) {
	pdf.SetTextColor(110, 110, 110)
	for _, s := range stamps {
		pdf.SetFont("Helvetica", "", s.Size)
		pdf.SetAlpha(s.Alpha, "Normal")
		pdf.TransformBegin()
		pdf.TransformRotate(s.Angle, s.X, s.Y)
		pdf.Text(s.X, s.Y, s.Text)
		pdf.TransformEnd()
	}
	pdf.SetAlpha(1, "Normal")
}
