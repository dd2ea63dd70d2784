package chat

import (
	"encoding/json"
	"net/http"

	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/pkg/logger"
	"github.com/futig/genie-client/internal/pkg/response"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase AssistantUsecase
}

func NewHandler(usecase AssistantUsecase) *Handler {
	return &Handler{
		usecase: usecase,
	}
}

// Init handles GET /api/init
func (h *Handler) Init(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Init")

	resp, err := h.usecase.Init(ctx)
	if err != nil {
		response.Error(ctx, w, http.StatusInternalServerError, "failed to initialize", err)
		return
	}

	ctxzap.Info(ctx, "session initialized", zap.Int("document_count", len(resp.Documents)))
	response.Success(w, resp)
}

// Chat handles POST /api/chat
func (h *Handler) Chat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Chat")

	var req entity.ChatRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	resp, err := h.usecase.Chat(ctx, req.Message)
	if err != nil {
		response.Error(ctx, w, http.StatusInternalServerError, "failed to process query", err)
		return
	}

	response.Success(w, resp)
}

// ClearChat handles POST /api/chat/clear
func (h *Handler) ClearChat(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ClearChat")

	res, err := h.usecase.ClearChat(ctx)
	if err != nil {
		response.Error(ctx, w, http.StatusInternalServerError, "failed to clear chat", err)
		return
	}

	response.Success(w, res)
}

// Reset handles POST /api/reset
func (h *Handler) Reset(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Reset")

	res, err := h.usecase.Reset(ctx)
	if err != nil {
		response.Error(ctx, w, http.StatusInternalServerError, "failed to reset", err)
		return
	}

	ctxzap.Info(ctx, "reset finished", zap.Bool("success", res.Success))
	response.Success(w, res)
}
