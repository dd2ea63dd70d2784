package validator

import (
	"mime/multipart"
	"testing"

	"github.com/futig/genie-client/internal/entity"
	"github.com/stretchr/testify/assert"
)

func TestIsSupported(t *testing.T) {
	for _, name := range []string{"a.pdf", "B.XLSX", "c.xls", "d.csv"} {
		assert.True(t, IsSupported(name), name)
	}
	for _, name := range []string{"notes.txt", "archive.pdf.zip", "noext", ""} {
		assert.False(t, IsSupported(name), name)
	}
}

func TestValidateUpload(t *testing.T) {
	v := NewFileValidator(100)

	assert.NoError(t, v.ValidateUpload(&multipart.FileHeader{Filename: "report.pdf", Size: 10}))
	assert.ErrorIs(t, v.ValidateUpload(nil), entity.ErrMissingField)
	assert.ErrorIs(t, v.ValidateUpload(&multipart.FileHeader{Filename: "notes.txt", Size: 10}), entity.ErrUnsupportedFileType)
	assert.ErrorIs(t, v.ValidateUpload(&multipart.FileHeader{Filename: "big.csv", Size: 101}), entity.ErrInvalidParameter)
}

func TestValidateDocumentName(t *testing.T) {
	v := NewFileValidator(0)

	assert.NoError(t, v.ValidateDocumentName("report.pdf"))
	assert.ErrorIs(t, v.ValidateDocumentName(" "), entity.ErrNoDocument)
	assert.ErrorIs(t, v.ValidateDocumentName("../etc/passwd"), entity.ErrInvalidParameter)
	assert.ErrorIs(t, v.ValidateDocumentName(`..\secret.pdf`), entity.ErrInvalidParameter)
	assert.ErrorIs(t, v.ValidateDocumentName(".."), entity.ErrInvalidParameter)
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "Q3_report_final.pdf", SanitizeFilename("Q3 report (final).pdf"))
	assert.Equal(t, "passwd", SanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "evil.csv", SanitizeFilename(`C:\tmp\evil.csv`))
}
