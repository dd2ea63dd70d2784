package entity

import "errors"

// Domain errors
var (
	// Chat errors
	ErrEmptyMessage = errors.New("message is empty")

	// Document errors
	ErrNoFile              = errors.New("no file selected")
	ErrUnsupportedFileType = errors.New("unsupported file type")
	ErrNoDocument          = errors.New("no document specified")
	ErrDocumentNotFound    = errors.New("document not found")

	// Export errors
	ErrUnsupportedFormat = errors.New("unsupported export format")
	ErrNothingToExport   = errors.New("conversation is empty")

	// Validation errors
	ErrMissingField     = errors.New("required field is missing")
	ErrInvalidParameter = errors.New("invalid parameter")
)
