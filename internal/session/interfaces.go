package session

import (
	"context"

	"github.com/futig/genie-client/internal/entity"
)

// Backend is the Genie HTTP API as seen by the controller
type Backend interface {
	Init(ctx context.Context) (*entity.InitResponse, error)
	Chat(ctx context.Context, message string) (*entity.ChatResponse, error)
	ClearChat(ctx context.Context) error
	Upload(ctx context.Context, file entity.UploadFile) (*entity.OperationResult, error)
	ListDocuments(ctx context.Context) ([]string, error)
	DeleteDocument(ctx context.Context, name string) (*entity.OperationResult, error)
	Reset(ctx context.Context) (*entity.OperationResult, error)
}

// Prompter asks the user blocking questions on behalf of the controller.
// Implementations must return false from Confirm when ctx is done.
type Prompter interface {
	Confirm(ctx context.Context, question string) bool
	Alert(ctx context.Context, message string)
}
