package backend

import (
	"context"
	"fmt"
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/pkg/validator"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// MockConnector is an in-memory backend used when ENABLE_MOCKS is set
type MockConnector struct {
	mu        sync.Mutex
	documents []string
	history   []entity.ChatTurn
	logger    *zap.Logger
}

func NewMockConnector(logger *zap.Logger, documents ...string) *MockConnector {
	return &MockConnector{
		documents: slices.Clone(documents),
		logger:    logger,
	}
}

func (m *MockConnector) Init(ctx context.Context) (*entity.InitResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctxzap.Info(ctx, "[MOCK] init", zap.Int("document_count", len(m.documents)))
	return &entity.InitResponse{
		Documents: slices.Clone(m.documents),
		ThreadID:  "mock-thread",
	}, nil
}

func (m *MockConnector) Chat(ctx context.Context, message string) (*entity.ChatResponse, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	query, timeout, _ := entity.SplitTimeoutSuffix(message)
	ctxzap.Info(ctx, "[MOCK] chat",
		zap.Int("length", len(query)),
		zap.Int("timeout_seconds", timeout),
	)

	var answer string
	if len(m.documents) == 0 {
		answer = fmt.Sprintf("[mock] No documents loaded yet. You asked: %q", query)
	} else {
		answer = fmt.Sprintf("[mock] Searched %d document(s) (%s) for: %q\n\n```text\n%s\n```",
			len(m.documents), strings.Join(m.documents, ", "), query, query)
	}

	m.history = append(m.history,
		entity.ChatTurn{Role: entity.RoleUser, Content: query},
		entity.ChatTurn{Role: entity.RoleAssistant, Content: answer},
	)

	ok := true
	return &entity.ChatResponse{Response: answer, ThreadID: "mock-thread", Success: &ok}, nil
}

func (m *MockConnector) ClearChat(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctxzap.Info(ctx, "[MOCK] clearing chat", zap.Int("turns", len(m.history)))
	m.history = nil
	return nil
}

const mockUnsupportedType = "[mock] Unsupported file type. Please upload PDF, Excel, or CSV files."

func (m *MockConnector) Upload(ctx context.Context, file entity.UploadFile) (*entity.OperationResult, error) {
	if file.Name == "" || file.Open == nil {
		return nil, entity.ErrNoFile
	}
	if !validator.IsSupported(file.Name) {
		ctxzap.Warn(ctx, "[MOCK] rejecting document", zap.String("file_name", file.Name))
		return &entity.OperationResult{Success: false, Message: mockUnsupportedType}, nil
	}

	src, err := file.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file.Name, err)
	}
	defer src.Close()

	size, err := io.Copy(io.Discard, src)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file.Name, err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	ctxzap.Info(ctx, "[MOCK] uploading document",
		zap.String("file_name", file.Name),
		zap.Int64("size", size),
	)

	if !slices.Contains(m.documents, file.Name) {
		m.documents = append(m.documents, file.Name)
	}
	return &entity.OperationResult{Success: true, Message: "File uploaded successfully"}, nil
}

func (m *MockConnector) ListDocuments(ctx context.Context) ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	return slices.Clone(m.documents), nil
}

func (m *MockConnector) DeleteDocument(ctx context.Context, name string) (*entity.OperationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctxzap.Info(ctx, "[MOCK] deleting document", zap.String("document", name))

	idx := slices.Index(m.documents, name)
	if idx < 0 {
		return &entity.OperationResult{Success: false, Message: entity.ErrDocumentNotFound.Error()}, nil
	}
	m.documents = slices.Delete(m.documents, idx, idx+1)
	return &entity.OperationResult{Success: true, Message: "Document deleted successfully"}, nil
}

func (m *MockConnector) Reset(ctx context.Context) (*entity.OperationResult, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	ctxzap.Info(ctx, "[MOCK] reset")
	m.history = nil
	return &entity.OperationResult{Success: true, Message: "Index rebuilt"}, nil
}
