package formatter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/futig/genie-client/internal/entity"
)

const (
	markdownContentType   = "text/markdown; charset=utf-8"
	markdownFileExtension = ".md"
)

type MarkdownFormatter struct{}

func NewMarkdownFormatter() *MarkdownFormatter {
	return &MarkdownFormatter{}
}

// Format writes turns as Markdown. Message bodies are already Markdown,
// so code fences pass through untouched.
func (mf *MarkdownFormatter) Format(turns []entity.ChatTurn) ([]byte, error) {
	if len(turns) == 0 {
		return nil, entity.ErrNothingToExport
	}

	var buf bytes.Buffer
	fmt.Fprintf(&buf, "# %s\n", baseTitle)
	for _, turn := range turns {
		fmt.Fprintf(&buf, "\n**%s:**\n\n%s\n", roleLabel(turn.Role), strings.TrimRight(turn.Content, "\n"))
	}
	return buf.Bytes(), nil
}

func (mf *MarkdownFormatter) ContentType() string {
	return markdownContentType
}

func (mf *MarkdownFormatter) FileExtension() string {
	return markdownFileExtension
}
