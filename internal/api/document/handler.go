package document

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/futig/genie-client/internal/config"
	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/pkg/logger"
	"github.com/futig/genie-client/internal/pkg/response"
	"github.com/futig/genie-client/internal/pkg/validator"
	"github.com/futig/genie-client/internal/usecase/assistant"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

type Handler struct {
	usecase   AssistantUsecase
	cfg       config.StubConfig
	validator *validator.Validator
}

func NewHandler(
	usecase AssistantUsecase,
	cfg config.StubConfig,
	validator *validator.Validator,
) *Handler {
	return &Handler{
		usecase:   usecase,
		cfg:       cfg,
		validator: validator,
	}
}

// Upload handles POST /api/upload
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "Upload")

	r.Body = http.MaxBytesReader(w, r.Body, h.cfg.MaxUploadSize)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			response.Error(ctx, w, http.StatusRequestEntityTooLarge, "file too large", err)
			return
		}
		response.Error(ctx, w, http.StatusBadRequest, "invalid form data", err)
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		ctxzap.Warn(ctx, "no file part in upload")
		response.Result(w, false, assistant.MsgNoFilePart)
		return
	}
	fh := files[0]

	if err := h.validator.ValidateUpload(fh); err != nil {
		ctxzap.Warn(ctx, "upload rejected", zap.String("file_name", fh.Filename), zap.Error(err))
		switch {
		case errors.Is(err, entity.ErrMissingField):
			response.Result(w, false, assistant.MsgNoSelectedFile)
		case errors.Is(err, entity.ErrUnsupportedFileType):
			response.Result(w, false, assistant.MsgUnsupportedType)
		default:
			response.Result(w, false, err.Error())
		}
		return
	}

	file, err := fh.Open()
	if err != nil {
		response.Error(ctx, w, http.StatusInternalServerError, "failed to read upload", err)
		return
	}
	defer file.Close()

	ctxzap.Info(ctx, "uploading document",
		zap.String("file_name", fh.Filename),
		zap.Int64("size", fh.Size),
	)

	res, err := h.usecase.Upload(ctx, fh.Filename, file)
	if err != nil {
		response.Error(ctx, w, http.StatusInternalServerError, "failed to store document", err)
		return
	}

	response.Success(w, res)
}

// ListDocuments handles GET /api/documents
func (h *Handler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "ListDocuments")

	docs, err := h.usecase.ListDocuments(ctx)
	if err != nil {
		response.Error(ctx, w, http.StatusInternalServerError, "failed to list documents", err)
		return
	}

	ctxzap.Debug(ctx, "documents listed", zap.Int("count", len(docs)))
	response.Success(w, &entity.DocumentsResponse{Documents: docs})
}

// DeleteDocument handles POST /api/documents/delete
func (h *Handler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	ctx := logger.WithAction(r.Context(), "DeleteDocument")

	var req entity.DeleteDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.Error(ctx, w, http.StatusBadRequest, "invalid request body", err)
		return
	}

	if err := h.validator.ValidateDocumentName(req.Document); err != nil {
		ctxzap.Warn(ctx, "delete rejected", zap.String("document", req.Document), zap.Error(err))
		if errors.Is(err, entity.ErrNoDocument) {
			response.Result(w, false, assistant.MsgNoDocument)
			return
		}
		response.Result(w, false, assistant.MsgNotFound)
		return
	}

	res, err := h.usecase.DeleteDocument(ctx, req.Document)
	if err != nil {
		response.Error(ctx, w, http.StatusInternalServerError, "failed to delete document", err)
		return
	}

	response.Success(w, res)
}
