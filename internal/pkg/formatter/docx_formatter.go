package formatter

import (
	"bytes"

	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/render"
	"github.com/unidoc/unioffice/document"
)

const (
	docxContentType   = "application/vnd.openxmlformats-officedocument.wordprocessingml.document"
	docxFileExtension = ".docx"
	docxCodeFont      = "Courier New"
)

type DOCXFormatter struct{}

func NewDOCXFormatter() *DOCXFormatter {
	return &DOCXFormatter{}
}

func (mf *DOCXFormatter) Format(turns []entity.ChatTurn) ([]byte, error) {
	if len(turns) == 0 {
		return nil, entity.ErrNothingToExport
	}

	doc := document.New()
	defer doc.Close()

	titlePar := doc.AddParagraph()
	titlePar.SetStyle("Heading1")
	titleRun := titlePar.AddRun()
	titleRun.AddText(baseTitle)

	for _, turn := range turns {
		doc.AddParagraph()

		rolePar := doc.AddParagraph()
		roleRun := rolePar.AddRun()
		roleRun.Properties().SetBold(true)
		roleRun.AddText(roleLabel(turn.Role) + ":")

		for _, seg := range render.Segments(turn.Content) {
			if seg.Text == "" {
				continue
			}

			par := doc.AddParagraph()
			run := par.AddRun()
			if seg.Kind == render.KindCode {
				run.Properties().SetFontFamily(docxCodeFont)
			}

			// one break per line keeps code layout intact
			for i, line := range render.Lines(seg.Text) {
				if i > 0 {
					run.AddBreak()
				}
				run.AddText(line)
			}
		}
	}

	var buf bytes.Buffer
	if err := doc.Save(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (mf *DOCXFormatter) ContentType() string {
	return docxContentType
}

func (mf *DOCXFormatter) FileExtension() string {
	return docxFileExtension
}
