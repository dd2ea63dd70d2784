package validator

import (
	"fmt"
	"mime/multipart"
	"path/filepath"
	"strings"

	"github.com/futig/genie-client/internal/entity"
)

// AllowedExtensions are the document types the backend ingests
var AllowedExtensions = func() map[string]bool {
	m := make(map[string]bool, len(entity.SupportedExtensions))
	for _, ext := range entity.SupportedExtensions {
		m[ext] = true
	}
	return m
}()

// Validator validates document uploads and references
type Validator struct {
	maxFileSize int64
}

func NewFileValidator(maxFileSize int64) *Validator {
	return &Validator{maxFileSize: maxFileSize}
}

// IsSupported reports whether name has an allowed extension, ignoring case
func IsSupported(name string) bool {
	return AllowedExtensions[strings.ToLower(filepath.Ext(name))]
}

// ValidateUpload validates a single uploaded document
func (v *Validator) ValidateUpload(fh *multipart.FileHeader) error {
	if fh == nil || fh.Filename == "" {
		return fmt.Errorf("%w: file", entity.ErrMissingField)
	}

	if !IsSupported(fh.Filename) {
		return fmt.Errorf("%w: %s (allowed: %s)", entity.ErrUnsupportedFileType,
			filepath.Ext(fh.Filename), strings.Join(entity.SupportedExtensions, ", "))
	}

	if v.maxFileSize > 0 && fh.Size > v.maxFileSize {
		return fmt.Errorf("%w: file '%s' is %d bytes (max %d)", entity.ErrInvalidParameter, fh.Filename, fh.Size, v.maxFileSize)
	}

	return nil
}

// ValidateDocumentName checks a name sent for deletion. Only bare file names are accepted.
func (v *Validator) ValidateDocumentName(name string) error {
	if strings.TrimSpace(name) == "" {
		return entity.ErrNoDocument
	}
	if name != filepath.Base(name) || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
		return fmt.Errorf("%w: document name %q", entity.ErrInvalidParameter, name)
	}
	return nil
}

// SanitizeFilename sanitizes a filename for safe storage
func SanitizeFilename(filename string) string {
	filename = filepath.Base(strings.ReplaceAll(filename, `\`, "/"))
	replacer := strings.NewReplacer(
		" ", "_",
		"(", "",
		")", "",
		"[", "",
		"]", "",
		"{", "",
		"}", "",
	)
	return replacer.Replace(filename)
}
