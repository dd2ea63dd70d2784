package formatter

import (
	"bytes"
	"os"
	"strings"

	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/render"
	"github.com/jung-kurt/gofpdf"
)

const (
	pdfContentType   = "application/pdf"
	pdfFileExtension = ".pdf"

	// pdfFontName is the internal name used by gofpdf
	// for the UTF-8 capable font.
	pdfFontName = "DejaVuSans"

	// Font next to the binary, then in the source tree for `go run`.
	pdfFontRuntimePath = "ttf/DejaVuSans.ttf"
	pdfFontSourcePath  = "internal/pkg/formatter/ttf/DejaVuSans.ttf"

	pdfCodeFont = "Courier"
)

type PDFFormatter struct{}

func NewPDFFormatter() *PDFFormatter {
	return &PDFFormatter{}
}

// resolveFontPath tries to find the DejaVuSans font in
// runtime layout (next to the binary) or source layout.
func resolveFontPath() string {
	if _, err := os.Stat(pdfFontRuntimePath); err == nil {
		return pdfFontRuntimePath
	}
	if _, err := os.Stat(pdfFontSourcePath); err == nil {
		return pdfFontSourcePath
	}
	return ""
}

func (mf *PDFFormatter) Format(turns []entity.ChatTurn) ([]byte, error) {
	if len(turns) == 0 {
		return nil, entity.ErrNothingToExport
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	// Core fonts only cover cp1252; translate when the UTF-8 font is missing.
	fontName := "Arial"
	tr := func(s string) string { return s }
	if fontPath := resolveFontPath(); fontPath != "" {
		pdf.AddUTF8Font(pdfFontName, "", fontPath)
		pdf.AddUTF8Font(pdfFontName, "B", fontPath)
		fontName = pdfFontName
	} else {
		tr = pdf.UnicodeTranslatorFromDescriptor("")
	}

	pdf.SetFont(fontName, "B", 20)
	pdf.Cell(0, 10, baseTitle)
	pdf.Ln(14)

	for _, turn := range turns {
		pdf.SetFont(fontName, "B", 12)
		pdf.Cell(0, 8, roleLabel(turn.Role)+":")
		pdf.Ln(8)

		for _, seg := range render.Segments(turn.Content) {
			text := strings.Trim(seg.Text, "\n")
			if text == "" {
				continue
			}

			if seg.Kind == render.KindCode {
				pdf.SetFont(pdfCodeFont, "", 10)
				pdf.SetFillColor(240, 240, 240)
				_, lineHeight := pdf.GetFontSize()
				pdf.MultiCell(0, lineHeight*1.4, tr(text), "", "", true)
				continue
			}

			pdf.SetFont(fontName, "", 12)
			_, lineHeight := pdf.GetFontSize()
			pdf.MultiCell(0, lineHeight*1.5, tr(text), "", "", false)
		}
		pdf.Ln(4)
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *PDFFormatter) ContentType() string {
	return pdfContentType
}

func (mf *PDFFormatter) FileExtension() string {
	return pdfFileExtension
}
