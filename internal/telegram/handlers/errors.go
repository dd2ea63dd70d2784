package handlers

import (
	"context"
	"errors"
	"net"

	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/telegram/render"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

var (
	errFileTooLarge = errors.New("file too large")
	errDownload     = errors.New("download failed")
)

// ErrorSeverity represents the severity level of an error
type ErrorSeverity int

const (
	SeverityWarning ErrorSeverity = iota
	SeverityError
	SeverityCritical
)

// String returns string representation of error severity
func (s ErrorSeverity) String() string {
	switch s {
	case SeverityWarning:
		return "warning"
	case SeverityError:
		return "error"
	case SeverityCritical:
		return "critical"
	default:
		return "unknown"
	}
}

// HandlerError represents a structured error with user message and logging info
type HandlerError struct {
	Err         error
	UserMessage string
	LogMessage  string
	Severity    ErrorSeverity
}

// classifyHandlerError analyzes an error and returns a HandlerError with appropriate severity and messages
func classifyHandlerError(err error) *HandlerError {
	if err == nil {
		return &HandlerError{
			Err:         nil,
			UserMessage: render.ErrGeneric,
			LogMessage:  "unknown error",
			Severity:    SeverityWarning,
		}
	}

	// Check for domain errors (non-critical)
	switch {
	case errors.Is(err, entity.ErrNothingToExport):
		return &HandlerError{
			Err:         err,
			UserMessage: render.MsgNothingToExport,
			LogMessage:  "nothing to export",
			Severity:    SeverityWarning,
		}
	case errors.Is(err, entity.ErrUnsupportedFormat):
		return &HandlerError{
			Err:         err,
			UserMessage: render.ErrUnsupportedFmt,
			LogMessage:  "unsupported export format",
			Severity:    SeverityWarning,
		}
	case errors.Is(err, entity.ErrUnsupportedFileType):
		return &HandlerError{
			Err:         err,
			UserMessage: render.MsgUnsupportedFile,
			LogMessage:  "unsupported file type",
			Severity:    SeverityWarning,
		}
	case errors.Is(err, errDownload):
		return &HandlerError{
			Err:         err,
			UserMessage: render.ErrDownloadFailed,
			LogMessage:  "failed to download telegram file",
			Severity:    SeverityError,
		}
	}

	// Check for timeout errors
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return &HandlerError{
			Err:         err,
			UserMessage: render.ErrTimeout,
			LogMessage:  "operation timed out",
			Severity:    SeverityError,
		}
	}

	// Check for network errors
	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return &HandlerError{
				Err:         err,
				UserMessage: render.ErrTimeout,
				LogMessage:  "network timeout",
				Severity:    SeverityError,
			}
		}
		return &HandlerError{
			Err:         err,
			UserMessage: render.ErrNetworkIssue,
			LogMessage:  "network error",
			Severity:    SeverityError,
		}
	}

	// Default to generic error
	return &HandlerError{
		Err:         err,
		UserMessage: render.ErrGeneric,
		LogMessage:  "handler error",
		Severity:    SeverityCritical,
	}
}

// HandleError provides centralized error handling for all handlers
// It logs the error with appropriate severity and sends a user-friendly message
func (h *BaseHandler) HandleError(ctx context.Context, chatID int64, err error) {
	if err == nil {
		return
	}

	handlerErr := classifyHandlerError(err)

	// Log with appropriate severity level
	switch handlerErr.Severity {
	case SeverityCritical, SeverityError:
		ctxzap.Error(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
			zap.Stringer("severity", handlerErr.Severity),
		)
	case SeverityWarning:
		ctxzap.Warn(ctx, handlerErr.LogMessage,
			zap.Error(handlerErr.Err),
			zap.Int64("chat_id", chatID),
		)
	}

	h.sendMessage(ctx, chatID, handlerErr.UserMessage, nil)
}
