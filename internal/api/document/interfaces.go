package document

import (
	"context"
	"io"

	"github.com/futig/genie-client/internal/entity"
)

type AssistantUsecase interface {
	Upload(ctx context.Context, filename string, content io.Reader) (*entity.OperationResult, error)
	ListDocuments(ctx context.Context) ([]string, error)
	DeleteDocument(ctx context.Context, name string) (*entity.OperationResult, error)
}
