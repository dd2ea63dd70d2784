package formatter

import (
	"fmt"

	"github.com/futig/genie-client/internal/entity"
)

const baseTitle = "Genie conversation"

// Formatter encodes a conversation transcript
type Formatter interface {
	Format(turns []entity.ChatTurn) ([]byte, error)
	ContentType() string
	FileExtension() string
}

type Factory struct{}

func NewFactory() *Factory {
	return &Factory{}
}

func (f *Factory) Create(format entity.ExportFormat) (Formatter, error) {
	switch format {
	case entity.FormatMarkdown:
		return NewMarkdownFormatter(), nil
	case entity.FormatDOCX:
		return NewDOCXFormatter(), nil
	case entity.FormatPDF:
		return NewPDFFormatter(), nil
	default:
		return nil, fmt.Errorf("%w: %s", entity.ErrUnsupportedFormat, format)
	}
}

// roleLabel is the speaker heading used by every format
func roleLabel(role entity.Role) string {
	if role == entity.RoleUser {
		return "You"
	}
	return "Genie"
}
