package session

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/pkg/logger"
	"github.com/grpc-ecosystem/go-grpc-middleware/logging/zap/ctxzap"
	"go.uber.org/zap"
)

// Texts shown to the user
const (
	FallbackReply       = "Sorry, there was an error processing your request."
	UploadFailedAlert   = "Error uploading file"
	DeleteFailedAlert   = "Error deleting document"
	ResetFailedAlert    = "Error resetting knowledge base"
	uploadedReplyFormat = `I've processed your document "%s". You can now ask questions about it.`
	deletedReplyFormat  = `Document "%s" has been deleted.`
	confirmDeleteFormat = "Are you sure you want to delete %s?"
)

// Options are the construction-time defaults of a session
type Options struct {
	// ResponseTimeout in seconds, 0 = no limit
	ResponseTimeout int
}

// DefaultOptions returns the defaults used by the interactive clients
func DefaultOptions() Options {
	return Options{ResponseTimeout: DefaultResponseTimeout}
}

// Controller owns the state of one chat session and is its only writer.
// Operations block on the backend; front-ends call them off their render loop
// and re-render from Snapshot whenever Changes fires.
type Controller struct {
	backend  Backend
	prompter Prompter
	logger   *zap.Logger

	mu    sync.Mutex
	state state

	// chatMu orders Send against ClearConversation so a clear never lands
	// between a user turn and its reply
	chatMu sync.Mutex

	// onClear is guarded by mu
	onClear ClearHook

	changes chan struct{}
}

// ClearHook receives the turns removed by a successful clear. It runs before
// any later send can append to the history.
type ClearHook func(removed []entity.ChatTurn)

// NewController creates a session in the Chat view with an empty history
func NewController(backend Backend, prompter Prompter, opts Options, logger *zap.Logger) *Controller {
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Controller{
		backend:  backend,
		prompter: prompter,
		logger:   logger,
		state: state{
			activeView:      ViewChat,
			responseTimeout: ClampTimeout(opts.ResponseTimeout),
		},
		changes: make(chan struct{}, 1),
	}
}

// OnClear registers fn to run on every successful ClearConversation
func (c *Controller) OnClear(fn ClearHook) {
	c.mu.Lock()
	c.onClear = fn
	c.mu.Unlock()
}

// Changes fires after every state change. Notifications are coalesced.
func (c *Controller) Changes() <-chan struct{} {
	return c.changes
}

// Snapshot returns a copy of the current state
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.state.snapshot()
}

// Initialize loads the document list and thread id. Failure leaves the state empty.
func (c *Controller) Initialize(ctx context.Context) Outcome {
	ctx = c.bind(ctx, "initialize")

	resp, err := c.backend.Init(ctx)
	if err != nil {
		ctxzap.Error(ctx, "failed to initialize session", zap.Error(err))
		return OutcomeFailed
	}

	c.update(func(s *state) {
		s.documents = entity.DocumentRefs(resp.Documents)
		s.threadID = resp.ThreadID
	})

	ctxzap.Info(ctx, "session initialized",
		zap.Int("document_count", len(resp.Documents)),
		zap.String("thread_id", resp.ThreadID),
	)
	return OutcomeDone
}

// SetDraft replaces the message being composed
func (c *Controller) SetDraft(text string) {
	c.update(func(s *state) {
		s.draft = text
	})
}

// Send submits the current draft
func (c *Controller) Send(ctx context.Context) Outcome {
	return c.send(ctx, nil)
}

// Submit replaces the draft with text and sends it in one step
func (c *Controller) Submit(ctx context.Context, text string) Outcome {
	return c.send(ctx, &text)
}

func (c *Controller) send(ctx context.Context, text *string) Outcome {
	ctx = c.bind(ctx, "send_message")

	c.mu.Lock()
	message := c.state.draft
	if text != nil {
		message = *text
	}
	if strings.TrimSpace(message) == "" || c.state.busy {
		c.mu.Unlock()
		return OutcomeSkipped
	}
	c.state.busy = true
	c.state.draft = ""
	timeout := c.state.responseTimeout
	c.mu.Unlock()
	c.notify()

	// busy drops before chatMu is released so a waiting clear runs idle
	c.chatMu.Lock()
	defer func() {
		c.setBusy(false)
		c.chatMu.Unlock()
	}()

	c.appendTurn(entity.RoleUser, message)

	payload := entity.WithTimeoutSuffix(message, timeout)
	ctxzap.Debug(ctx, "sending message",
		zap.Int("length", len(message)),
		zap.Int("timeout_seconds", timeout),
	)

	resp, err := c.backend.Chat(ctx, payload)
	if err != nil {
		ctxzap.Error(ctx, "failed to send message", zap.Error(err))
		c.appendTurn(entity.RoleAssistant, FallbackReply)
		return OutcomeFailed
	}

	c.appendTurn(entity.RoleAssistant, resp.Response)
	return OutcomeDone
}

// ClearConversation empties the history once the backend confirms the clear
func (c *Controller) ClearConversation(ctx context.Context) Outcome {
	ctx = c.bind(ctx, "clear_conversation")

	c.chatMu.Lock()
	defer c.chatMu.Unlock()

	if err := c.backend.ClearChat(ctx); err != nil {
		ctxzap.Error(ctx, "failed to clear conversation", zap.Error(err))
		return OutcomeFailed
	}

	var (
		removed []entity.ChatTurn
		hook    ClearHook
	)
	c.update(func(s *state) {
		removed = s.history
		s.history = nil
		hook = c.onClear
	})
	if hook != nil {
		hook(removed)
	}

	ctxzap.Info(ctx, "conversation cleared", zap.Int("removed_turns", len(removed)))
	return OutcomeDone
}

// Upload sends file to the backend, refreshes the document list and
// switches to the Chat view with a confirmation turn
func (c *Controller) Upload(ctx context.Context, file entity.UploadFile) Outcome {
	ctx = c.bind(ctx, "upload_document")

	if file.Name == "" || file.Open == nil {
		return OutcomeSkipped
	}
	if !c.tryBusy() {
		return OutcomeSkipped
	}
	defer c.setBusy(false)

	ctx = logger.AddFields(ctx, zap.String("file_name", file.Name))

	res, err := c.backend.Upload(ctx, file)
	if err != nil {
		ctxzap.Error(ctx, "failed to upload document", zap.Error(err))
		c.prompter.Alert(ctx, UploadFailedAlert)
		return OutcomeFailed
	}
	if !res.Success {
		ctxzap.Warn(ctx, "backend rejected document", zap.String("message", res.Message))
		c.prompter.Alert(ctx, alertText(res.Message, UploadFailedAlert))
		return OutcomeFailed
	}

	docs, err := c.backend.ListDocuments(ctx)
	if err != nil {
		ctxzap.Error(ctx, "failed to refresh documents after upload", zap.Error(err))
		c.prompter.Alert(ctx, UploadFailedAlert)
		return OutcomeFailed
	}

	c.update(func(s *state) {
		s.documents = entity.DocumentRefs(docs)
		s.activeView = ViewChat
		s.history = append(s.history, entity.ChatTurn{
			Role:    entity.RoleAssistant,
			Content: fmt.Sprintf(uploadedReplyFormat, file.Name),
		})
	})

	ctxzap.Info(ctx, "document uploaded", zap.Int("document_count", len(docs)))
	return OutcomeDone
}

// DeleteDocument removes name from the backend after the user confirms
func (c *Controller) DeleteDocument(ctx context.Context, name string) Outcome {
	ctx = c.bind(ctx, "delete_document")

	if name == "" {
		return OutcomeSkipped
	}
	if !c.prompter.Confirm(ctx, fmt.Sprintf(confirmDeleteFormat, name)) {
		return OutcomeSkipped
	}

	ctx = logger.AddFields(ctx, zap.String("document", name))

	res, err := c.backend.DeleteDocument(ctx, name)
	if err != nil {
		ctxzap.Error(ctx, "failed to delete document", zap.Error(err))
		c.prompter.Alert(ctx, DeleteFailedAlert)
		return OutcomeFailed
	}
	if !res.Success {
		ctxzap.Warn(ctx, "backend refused delete", zap.String("message", res.Message))
		c.prompter.Alert(ctx, alertText(res.Message, DeleteFailedAlert))
		return OutcomeFailed
	}

	docs, err := c.backend.ListDocuments(ctx)
	if err != nil {
		ctxzap.Error(ctx, "failed to refresh documents after delete", zap.Error(err))
		c.prompter.Alert(ctx, DeleteFailedAlert)
		return OutcomeFailed
	}

	c.update(func(s *state) {
		s.documents = entity.DocumentRefs(docs)
		s.history = append(s.history, entity.ChatTurn{
			Role:    entity.RoleAssistant,
			Content: fmt.Sprintf(deletedReplyFormat, name),
		})
	})

	ctxzap.Info(ctx, "document deleted", zap.Int("document_count", len(docs)))
	return OutcomeDone
}

// ResetBackend asks the backend to rebuild its index from the stored documents
func (c *Controller) ResetBackend(ctx context.Context) Outcome {
	ctx = c.bind(ctx, "reset_backend")

	res, err := c.backend.Reset(ctx)
	if err != nil {
		ctxzap.Error(ctx, "failed to reset backend", zap.Error(err))
		c.prompter.Alert(ctx, ResetFailedAlert)
		return OutcomeFailed
	}
	if !res.Success {
		c.prompter.Alert(ctx, alertText(res.Message, ResetFailedAlert))
		return OutcomeFailed
	}

	ctxzap.Info(ctx, "backend reset")
	return OutcomeDone
}

// RefreshDocuments replaces the document list with the backend's
func (c *Controller) RefreshDocuments(ctx context.Context) Outcome {
	ctx = c.bind(ctx, "refresh_documents")

	docs, err := c.backend.ListDocuments(ctx)
	if err != nil {
		ctxzap.Error(ctx, "failed to list documents", zap.Error(err))
		return OutcomeFailed
	}

	c.update(func(s *state) {
		s.documents = entity.DocumentRefs(docs)
	})
	return OutcomeDone
}

func (c *Controller) SetView(v View) {
	if v != ViewChat && v != ViewDocuments {
		return
	}
	c.update(func(s *state) {
		s.activeView = v
	})
}

func (c *Controller) ToggleSettings() {
	c.update(func(s *state) {
		s.settingsOpen = !s.settingsOpen
	})
}

// SetResponseTimeout stores the clamped value and returns it
func (c *Controller) SetResponseTimeout(seconds int) int {
	clamped := ClampTimeout(seconds)
	c.update(func(s *state) {
		s.responseTimeout = clamped
	})
	return clamped
}

func (c *Controller) tryBusy() bool {
	c.mu.Lock()
	if c.state.busy {
		c.mu.Unlock()
		return false
	}
	c.state.busy = true
	c.mu.Unlock()

	c.notify()
	return true
}

func (c *Controller) setBusy(busy bool) {
	c.update(func(s *state) {
		s.busy = busy
	})
}

func (c *Controller) appendTurn(role entity.Role, content string) {
	c.update(func(s *state) {
		s.history = append(s.history, entity.ChatTurn{Role: role, Content: content})
	})
}

func (c *Controller) update(fn func(s *state)) {
	c.mu.Lock()
	fn(&c.state)
	c.mu.Unlock()

	c.notify()
}

func (c *Controller) notify() {
	select {
	case c.changes <- struct{}{}:
	default:
	}
}

func (c *Controller) bind(ctx context.Context, action string) context.Context {
	return logger.WithAction(logger.Bind(ctx, c.logger), action)
}

func alertText(message, fallback string) string {
	if strings.TrimSpace(message) == "" {
		return fallback
	}
	return message
}
