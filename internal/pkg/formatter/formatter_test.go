package formatter

import (
	"bytes"
	"testing"

	"github.com/futig/genie-client/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var transcript = []entity.ChatTurn{
	{Role: entity.RoleUser, Content: "How do I print in Python?"},
	{Role: entity.RoleAssistant, Content: "Use print:\n```py\nprint(1)\n```\nThat's it."},
}

func TestFactoryCreate(t *testing.T) {
	f := NewFactory()

	tests := []struct {
		format      entity.ExportFormat
		extension   string
		contentType string
	}{
		{entity.FormatMarkdown, ".md", "text/markdown; charset=utf-8"},
		{entity.FormatPDF, ".pdf", "application/pdf"},
		{entity.FormatDOCX, ".docx", "application/vnd.openxmlformats-officedocument.wordprocessingml.document"},
	}

	for _, tt := range tests {
		t.Run(string(tt.format), func(t *testing.T) {
			formatter, err := f.Create(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.extension, formatter.FileExtension())
			assert.Equal(t, tt.contentType, formatter.ContentType())
		})
	}

	_, err := f.Create("rtf")
	assert.ErrorIs(t, err, entity.ErrUnsupportedFormat)
}

func TestMarkdownFormatter(t *testing.T) {
	out, err := NewMarkdownFormatter().Format(transcript)
	require.NoError(t, err)

	want := "# Genie conversation\n" +
		"\n**You:**\n\nHow do I print in Python?\n" +
		"\n**Genie:**\n\nUse print:\n```py\nprint(1)\n```\nThat's it.\n"
	assert.Equal(t, want, string(out))
}

func TestPDFFormatter(t *testing.T) {
	out, err := NewPDFFormatter().Format(transcript)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))
}

func TestFormattersRejectEmptyTranscript(t *testing.T) {
	for _, f := range []Formatter{NewMarkdownFormatter(), NewPDFFormatter(), NewDOCXFormatter()} {
		_, err := f.Format(nil)
		assert.ErrorIs(t, err, entity.ErrNothingToExport)
	}
}
