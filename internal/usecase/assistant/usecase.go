package assistant

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/pkg/validator"
	"github.com/google/uuid"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Messages returned in the success/message envelope
const (
	MsgNoFilePart      = "No file part"
	MsgNoSelectedFile  = "No selected file"
	MsgUnsupportedType = "Unsupported file type. Please upload PDF, Excel, or CSV files."
	MsgNoDocument      = "No document specified"
	MsgNotFound        = "Document not found"
	MsgHistoryCleared  = "Chat history cleared"
	MsgResetDone       = "System reset successfully"

	emptyKnowledgeBaseReply = "I don't have any documents in my knowledge base yet, but I can still try to answer your question based on my general knowledge. What would you like to know?"
)

// AssistantUsecase answers chat requests from canned rules and keeps the
// document store. It runs no retrieval and no language model.
type AssistantUsecase struct {
	documents DocumentRepository
	history   HistoryRepository
	logger    *zap.Logger

	mu           sync.RWMutex
	threadID     string
	indexVersion int
}

func NewUsecase(
	documents DocumentRepository,
	history HistoryRepository,
	logger *zap.Logger,
) *AssistantUsecase {
	return &AssistantUsecase{
		documents: documents,
		history:   history,
		logger:    logger,
		threadID:  uuid.New().String(),
	}
}

// Init returns the document list and the current thread
func (uc *AssistantUsecase) Init(ctx context.Context) (*entity.InitResponse, error) {
	docs, err := uc.documents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	return &entity.InitResponse{
		Documents: docs,
		ThreadID:  uc.currentThread(),
	}, nil
}

// Chat answers message. A trailing " timeout=N" suffix is parsed off and
// reported back instead of being treated as part of the question.
func (uc *AssistantUsecase) Chat(ctx context.Context, message string) (*entity.ChatResponse, error) {
	threadID := uc.currentThread()
	query, timeout, hasTimeout := entity.SplitTimeoutSuffix(message)

	ctxzap.Info(ctx, "processing query",
		zap.String("thread_id", threadID),
		zap.Int("query_length", len(query)),
		zap.Int("timeout_seconds", timeout),
	)

	docs, err := uc.documents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}

	previous := len(uc.history.Get(ctx, threadID))
	answer := uc.answer(query, docs, previous, timeout, hasTimeout)

	uc.history.Append(ctx, threadID,
		entity.ChatTurn{Role: entity.RoleUser, Content: query},
		entity.ChatTurn{Role: entity.RoleAssistant, Content: answer},
	)

	ok := true
	return &entity.ChatResponse{
		Response: answer,
		ThreadID: threadID,
		Success:  &ok,
	}, nil
}

func (uc *AssistantUsecase) answer(query string, docs []string, previous, timeout int, hasTimeout bool) string {
	if len(docs) == 0 {
		return emptyKnowledgeBaseReply
	}

	lower := strings.ToLower(query)
	if strings.Contains(lower, "any document") || strings.Contains(lower, "have document") {
		return fmt.Sprintf("I have %d document(s) in my knowledge base: %s.", len(docs), strings.Join(docs, ", "))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "This development backend has %d document(s) indexed but does not run a language model.\n\n", len(docs))
	fmt.Fprintf(&b, "Your question was:\n```text\n%s\n```\n", query)
	if hasTimeout {
		fmt.Fprintf(&b, "\nTime budget: %d seconds.", timeout)
	} else {
		b.WriteString("\nTime budget: unlimited.")
	}
	if previous > 0 {
		fmt.Fprintf(&b, " Earlier messages in this conversation: %d.", previous)
	}
	return b.String()
}

// ClearChat drops the current thread and starts a new one
func (uc *AssistantUsecase) ClearChat(ctx context.Context) (*entity.OperationResult, error) {
	uc.mu.Lock()
	old := uc.threadID
	uc.threadID = uuid.New().String()
	uc.mu.Unlock()

	uc.history.Clear(ctx, old)
	ctxzap.Info(ctx, "chat history cleared", zap.String("thread_id", old))

	return &entity.OperationResult{Success: true, Message: MsgHistoryCleared}, nil
}

// Upload stores a document. Logical rejections come back as Success=false.
func (uc *AssistantUsecase) Upload(ctx context.Context, filename string, content io.Reader) (*entity.OperationResult, error) {
	if filename == "" {
		return &entity.OperationResult{Success: false, Message: MsgNoSelectedFile}, nil
	}
	if !validator.IsSupported(filename) {
		ctxzap.Warn(ctx, "rejected unsupported document", zap.String("file_name", filename))
		return &entity.OperationResult{Success: false, Message: MsgUnsupportedType}, nil
	}

	name := validator.SanitizeFilename(filename)
	if err := uc.documents.Save(ctx, name, content); err != nil {
		return nil, fmt.Errorf("save document: %w", err)
	}

	uc.reindex(ctx)
	ctxzap.Info(ctx, "document stored", zap.String("document", name))

	return &entity.OperationResult{Success: true, Message: fmt.Sprintf("Successfully uploaded %s", name)}, nil
}

func (uc *AssistantUsecase) ListDocuments(ctx context.Context) ([]string, error) {
	docs, err := uc.documents.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return docs, nil
}

// DeleteDocument removes a stored document by its bare name
func (uc *AssistantUsecase) DeleteDocument(ctx context.Context, name string) (*entity.OperationResult, error) {
	if strings.TrimSpace(name) == "" {
		return &entity.OperationResult{Success: false, Message: MsgNoDocument}, nil
	}

	err := uc.documents.Delete(ctx, name)
	if errors.Is(err, entity.ErrDocumentNotFound) {
		return &entity.OperationResult{Success: false, Message: MsgNotFound}, nil
	}
	if err != nil {
		return &entity.OperationResult{Success: false, Message: err.Error()}, nil
	}

	uc.reindex(ctx)
	ctxzap.Info(ctx, "document deleted", zap.String("document", name))

	return &entity.OperationResult{Success: true, Message: fmt.Sprintf("Successfully deleted %s", name)}, nil
}

// Reset rebuilds the (simulated) index from the stored documents
func (uc *AssistantUsecase) Reset(ctx context.Context) (*entity.OperationResult, error) {
	if _, err := uc.documents.List(ctx); err != nil {
		return &entity.OperationResult{Success: false, Message: err.Error()}, nil
	}

	uc.reindex(ctx)
	return &entity.OperationResult{Success: true, Message: MsgResetDone}, nil
}

func (uc *AssistantUsecase) reindex(ctx context.Context) {
	uc.mu.Lock()
	uc.indexVersion++
	version := uc.indexVersion
	uc.mu.Unlock()

	ctxzap.Debug(ctx, "index rebuilt", zap.Int("index_version", version))
}

func (uc *AssistantUsecase) currentThread() string {
	uc.mu.RLock()
	defer uc.mu.RUnlock()

	return uc.threadID
}
