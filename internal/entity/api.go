package entity

// InitResponse is returned by GET /api/init
type InitResponse struct {
	Documents []string `json:"documents"`
	ThreadID  string   `json:"threadId,omitempty"`
}

// ChatRequest is the body of POST /api/chat
type ChatRequest struct {
	Message string `json:"message"`
}

// ChatResponse is returned by POST /api/chat
type ChatResponse struct {
	Response string `json:"response"`
	ThreadID string `json:"thread_id,omitempty"`
	Success  *bool  `json:"success,omitempty"`
}

// DocumentsResponse is returned by GET /api/documents
type DocumentsResponse struct {
	Documents []string `json:"documents"`
}

// DeleteDocumentRequest is the body of POST /api/documents/delete
type DeleteDocumentRequest struct {
	Document string `json:"document"`
}

// OperationResult is the success/message envelope used by upload, delete, clear and reset
type OperationResult struct {
	Success bool   `json:"success"`
	Message string `json:"message,omitempty"`
}

// ErrorResponse is returned by the stub backend for malformed requests
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
