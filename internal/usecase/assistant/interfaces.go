package assistant

import (
	"context"
	"io"

	"github.com/futig/genie-client/internal/entity"
)

type DocumentRepository interface {
	List(ctx context.Context) ([]string, error)
	Save(ctx context.Context, name string, content io.Reader) error
	Delete(ctx context.Context, name string) error
}

type HistoryRepository interface {
	Append(ctx context.Context, threadID string, turns ...entity.ChatTurn)
	Get(ctx context.Context, threadID string) []entity.ChatTurn
	Clear(ctx context.Context, threadID string)
}
