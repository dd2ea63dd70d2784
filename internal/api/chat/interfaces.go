package chat

import (
	"context"

	"github.com/futig/genie-client/internal/entity"
)

type AssistantUsecase interface {
	Init(ctx context.Context) (*entity.InitResponse, error)
	Chat(ctx context.Context, message string) (*entity.ChatResponse, error)
	ClearChat(ctx context.Context) (*entity.OperationResult, error)
	Reset(ctx context.Context) (*entity.OperationResult, error)
}
