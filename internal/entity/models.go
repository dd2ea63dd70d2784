package entity

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
)

// Role identifies who authored a chat turn
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// ChatTurn is one immutable entry of the conversation
type ChatTurn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// DocumentRef names a document known to the backend
type DocumentRef struct {
	Name string `json:"name"`
}

// DocumentRefs converts the backend's name list into references, preserving order
func DocumentRefs(names []string) []DocumentRef {
	refs := make([]DocumentRef, 0, len(names))
	for _, name := range names {
		refs = append(refs, DocumentRef{Name: name})
	}
	return refs
}

// UploadFile is a file chosen for upload. Open is called once, when the request body is written.
type UploadFile struct {
	Name string
	Open func() (io.ReadCloser, error)
}

// FileFromPath prepares the file at path for upload under its base name
func FileFromPath(path string) UploadFile {
	return UploadFile{
		Name: filepath.Base(path),
		Open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}
}

// FileFromBytes prepares in-memory content for upload
func FileFromBytes(name string, data []byte) UploadFile {
	return UploadFile{
		Name: name,
		Open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// ExportFormat selects the transcript export encoding
type ExportFormat string

const (
	FormatMarkdown ExportFormat = "md"
	FormatPDF      ExportFormat = "pdf"
	FormatDOCX     ExportFormat = "docx"
)

// SupportedExtensions are the document types the backend ingests
var SupportedExtensions = []string{".pdf", ".xlsx", ".xls", ".csv"}
