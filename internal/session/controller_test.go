package session

import (
	"context"
	"errors"
	"slices"
	"sync"
	"testing"
	"time"

	"github.com/futig/genie-client/internal/entity"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

var errNetwork = errors.New("connection refused")

type fakeBackend struct {
	mu sync.Mutex

	documents []string
	chatReply string
	chatErr   error
	clearErr  error
	uploadRes *entity.OperationResult
	uploadErr error
	deleteRes *entity.OperationResult
	deleteErr error
	listErr   error
	initErr   error
	resetRes  *entity.OperationResult

	// chatGate, when set, blocks Chat until it is closed
	chatGate chan struct{}
	// onClearChat, when set, runs as ClearChat is called
	onClearChat func()

	calls    []string
	messages []string
	deleted  []string
}

func (f *fakeBackend) record(call string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, call)
}

func (f *fakeBackend) called(call string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return slices.Contains(f.calls, call)
}

func (f *fakeBackend) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func (f *fakeBackend) Init(ctx context.Context) (*entity.InitResponse, error) {
	f.record("init")
	if f.initErr != nil {
		return nil, f.initErr
	}
	return &entity.InitResponse{Documents: f.documents, ThreadID: "thread-1"}, nil
}

func (f *fakeBackend) Chat(ctx context.Context, message string) (*entity.ChatResponse, error) {
	f.record("chat")
	f.mu.Lock()
	f.messages = append(f.messages, message)
	gate := f.chatGate
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if f.chatErr != nil {
		return nil, f.chatErr
	}
	return &entity.ChatResponse{Response: f.chatReply}, nil
}

func (f *fakeBackend) ClearChat(ctx context.Context) error {
	f.record("clear")
	if f.onClearChat != nil {
		f.onClearChat()
	}
	return f.clearErr
}

func (f *fakeBackend) Upload(ctx context.Context, file entity.UploadFile) (*entity.OperationResult, error) {
	f.record("upload")
	if f.uploadErr != nil {
		return nil, f.uploadErr
	}
	if f.uploadRes.Success {
		f.documents = append(f.documents, file.Name)
	}
	return f.uploadRes, nil
}

func (f *fakeBackend) ListDocuments(ctx context.Context) ([]string, error) {
	f.record("list")
	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]string(nil), f.documents...), nil
}

func (f *fakeBackend) DeleteDocument(ctx context.Context, name string) (*entity.OperationResult, error) {
	f.record("delete")
	f.deleted = append(f.deleted, name)
	if f.deleteErr != nil {
		return nil, f.deleteErr
	}
	if f.deleteRes.Success {
		kept := f.documents[:0]
		for _, d := range f.documents {
			if d != name {
				kept = append(kept, d)
			}
		}
		f.documents = kept
	}
	return f.deleteRes, nil
}

func (f *fakeBackend) Reset(ctx context.Context) (*entity.OperationResult, error) {
	f.record("reset")
	return f.resetRes, nil
}

type fakePrompter struct {
	answer    bool
	questions []string
	alerts    []string
}

func (p *fakePrompter) Confirm(ctx context.Context, question string) bool {
	p.questions = append(p.questions, question)
	return p.answer
}

func (p *fakePrompter) Alert(ctx context.Context, message string) {
	p.alerts = append(p.alerts, message)
}

func newTestController(b *fakeBackend, p *fakePrompter, timeout int) *Controller {
	return NewController(b, p, Options{ResponseTimeout: timeout}, zap.NewNop())
}

func TestNewControllerDefaults(t *testing.T) {
	c := newTestController(&fakeBackend{}, &fakePrompter{}, DefaultResponseTimeout)
	snap := c.Snapshot()

	assert.Equal(t, ViewChat, snap.ActiveView)
	assert.Empty(t, snap.Draft)
	assert.False(t, snap.Busy)
	assert.False(t, snap.SettingsOpen)
	assert.Equal(t, 30, snap.ResponseTimeout)
	assert.Empty(t, snap.History)
	assert.Empty(t, snap.Documents)
}

func TestInitialize(t *testing.T) {
	b := &fakeBackend{documents: []string{"a.pdf", "b.csv"}}
	c := newTestController(b, &fakePrompter{}, 30)

	assert.Equal(t, OutcomeDone, c.Initialize(context.Background()))

	snap := c.Snapshot()
	assert.Equal(t, "thread-1", snap.ThreadID)
	assert.Equal(t, []entity.DocumentRef{{Name: "a.pdf"}, {Name: "b.csv"}}, snap.Documents)
}

func TestInitializeFailureLeavesEmptyState(t *testing.T) {
	b := &fakeBackend{initErr: errNetwork}
	c := newTestController(b, &fakePrompter{}, 30)

	assert.Equal(t, OutcomeFailed, c.Initialize(context.Background()))

	snap := c.Snapshot()
	assert.Empty(t, snap.ThreadID)
	assert.Empty(t, snap.Documents)
	assert.Equal(t, ViewChat, snap.ActiveView)
}

func TestSendEmptyDraftIsNoop(t *testing.T) {
	for _, draft := range []string{"", "   ", "\n\t "} {
		b := &fakeBackend{}
		c := newTestController(b, &fakePrompter{}, 30)

		c.SetDraft(draft)
		assert.Equal(t, OutcomeSkipped, c.Send(context.Background()))
		assert.Empty(t, c.Snapshot().History)
		assert.Zero(t, b.callCount())
	}
}

func TestSendSuccess(t *testing.T) {
	b := &fakeBackend{chatReply: "X is Y"}
	c := newTestController(b, &fakePrompter{}, 30)

	c.SetDraft("What is X?")
	assert.Equal(t, OutcomeDone, c.Send(context.Background()))

	snap := c.Snapshot()
	require.Len(t, snap.History, 2)
	assert.Equal(t, entity.ChatTurn{Role: entity.RoleUser, Content: "What is X?"}, snap.History[0])
	assert.Equal(t, entity.ChatTurn{Role: entity.RoleAssistant, Content: "X is Y"}, snap.History[1])
	assert.False(t, snap.Busy)
	assert.Empty(t, snap.Draft)
	assert.Equal(t, []string{"What is X? timeout=30"}, b.messages)
}

func TestSendFailureAppendsFallback(t *testing.T) {
	b := &fakeBackend{chatErr: errNetwork}
	c := newTestController(b, &fakePrompter{}, 30)

	assert.Equal(t, OutcomeFailed, c.Submit(context.Background(), "hello"))

	snap := c.Snapshot()
	require.Len(t, snap.History, 2)
	assert.Equal(t, entity.ChatTurn{Role: entity.RoleUser, Content: "hello"}, snap.History[0])
	assert.Equal(t, entity.ChatTurn{Role: entity.RoleAssistant, Content: FallbackReply}, snap.History[1])
	assert.False(t, snap.Busy)
}

func TestSendTimeoutSuffix(t *testing.T) {
	tests := []struct {
		name    string
		timeout int
		want    string
	}{
		{name: "limited", timeout: 30, want: "hello timeout=30"},
		{name: "unlimited", timeout: 0, want: "hello"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{chatReply: "hi"}
			c := newTestController(b, &fakePrompter{}, tt.timeout)

			c.Submit(context.Background(), "hello")
			assert.Equal(t, []string{tt.want}, b.messages)
		})
	}
}

func TestSendWhileBusyIsSkipped(t *testing.T) {
	gate := make(chan struct{})
	b := &fakeBackend{chatReply: "first", chatGate: gate}
	c := newTestController(b, &fakePrompter{}, 0)

	done := make(chan Outcome)
	go func() {
		done <- c.Submit(context.Background(), "one")
	}()

	require.Eventually(t, func() bool {
		return c.Snapshot().Busy && len(c.Snapshot().History) == 1
	}, time.Second, 5*time.Millisecond)

	// the draft stays editable while busy, but sending is blocked
	c.SetDraft("two")
	assert.Equal(t, OutcomeSkipped, c.Send(context.Background()))
	assert.Equal(t, "two", c.Snapshot().Draft)

	close(gate)
	assert.Equal(t, OutcomeDone, <-done)

	snap := c.Snapshot()
	assert.False(t, snap.Busy)
	assert.Len(t, snap.History, 2)
	assert.Equal(t, []string{"one"}, b.messages)
}

// startGatedSend submits text and returns once the send holds the busy flag
func startGatedSend(t *testing.T, c *Controller, text string) <-chan Outcome {
	t.Helper()

	done := make(chan Outcome, 1)
	go func() {
		done <- c.Submit(context.Background(), text)
	}()
	require.Eventually(t, func() bool {
		snap := c.Snapshot()
		return snap.Busy && len(snap.History) == 1
	}, time.Second, 5*time.Millisecond)

	return done
}

func TestUploadWhileSendingIsSkipped(t *testing.T) {
	gate := make(chan struct{})
	b := &fakeBackend{
		chatReply: "answer",
		chatGate:  gate,
		uploadRes: &entity.OperationResult{Success: true},
	}
	p := &fakePrompter{}
	c := newTestController(b, p, 0)

	sent := startGatedSend(t, c, "question")

	outcome := c.Upload(context.Background(), entity.FileFromBytes("report.pdf", []byte("%PDF")))
	assert.Equal(t, OutcomeSkipped, outcome)
	assert.False(t, b.called("upload"))
	assert.Empty(t, p.alerts)
	assert.True(t, c.Snapshot().Busy)

	close(gate)
	assert.Equal(t, OutcomeDone, <-sent)
	assert.False(t, c.Snapshot().Busy)
}

func TestDeleteWhileSendingRuns(t *testing.T) {
	gate := make(chan struct{})
	b := &fakeBackend{
		chatReply: "answer",
		chatGate:  gate,
		documents: []string{"a.pdf"},
		deleteRes: &entity.OperationResult{Success: true},
	}
	c := newTestController(b, &fakePrompter{answer: true}, 0)

	sent := startGatedSend(t, c, "question")

	assert.Equal(t, OutcomeDone, c.DeleteDocument(context.Background(), "a.pdf"))
	assert.True(t, b.called("delete"))

	snap := c.Snapshot()
	assert.True(t, snap.Busy)
	assert.Empty(t, snap.Documents)

	close(gate)
	assert.Equal(t, OutcomeDone, <-sent)
	assert.False(t, c.Snapshot().Busy)
}

func TestClearLeavesBusyFlagAlone(t *testing.T) {
	tests := []struct {
		name     string
		clearErr error
		want     Outcome
	}{
		{"success", nil, OutcomeDone},
		{"failure", errNetwork, OutcomeFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{clearErr: tt.clearErr}
			c := newTestController(b, &fakePrompter{}, 0)

			var busyDuringClear bool
			b.onClearChat = func() {
				busyDuringClear = c.Snapshot().Busy
			}

			assert.Equal(t, tt.want, c.ClearConversation(context.Background()))
			assert.False(t, busyDuringClear)
			assert.False(t, c.Snapshot().Busy)
		})
	}
}

func TestClearDuringSendKeepsBusyUntilSendSettles(t *testing.T) {
	for _, clearErr := range []error{nil, errNetwork} {
		gate := make(chan struct{})
		b := &fakeBackend{chatReply: "answer", chatGate: gate, clearErr: clearErr}
		c := newTestController(b, &fakePrompter{}, 0)

		var busyDuringClear bool
		b.onClearChat = func() {
			busyDuringClear = c.Snapshot().Busy
		}

		sent := startGatedSend(t, c, "question")
		cleared := make(chan Outcome, 1)
		go func() {
			cleared <- c.ClearConversation(context.Background())
		}()

		assert.True(t, c.Snapshot().Busy)
		close(gate)
		assert.Equal(t, OutcomeDone, <-sent)
		<-cleared

		// the send settled first, so the clear ran idle and did not set busy
		assert.False(t, busyDuringClear)
		assert.False(t, c.Snapshot().Busy)
	}
}

func TestClearRunsHookWithRemovedTurns(t *testing.T) {
	b := &fakeBackend{chatReply: "hi"}
	c := newTestController(b, &fakePrompter{}, 0)
	require.Equal(t, OutcomeDone, c.Submit(context.Background(), "hello"))

	var removed []entity.ChatTurn
	c.OnClear(func(turns []entity.ChatTurn) {
		removed = turns
	})

	require.Equal(t, OutcomeDone, c.ClearConversation(context.Background()))
	assert.Equal(t, []entity.ChatTurn{
		{Role: entity.RoleUser, Content: "hello"},
		{Role: entity.RoleAssistant, Content: "hi"},
	}, removed)

	b.clearErr = errNetwork
	removed = nil
	require.Equal(t, OutcomeDone, c.Submit(context.Background(), "again"))
	require.Equal(t, OutcomeFailed, c.ClearConversation(context.Background()))
	assert.Nil(t, removed)
}

func TestClearWaitsForPendingSend(t *testing.T) {
	gate := make(chan struct{})
	b := &fakeBackend{chatReply: "answer", chatGate: gate}
	c := newTestController(b, &fakePrompter{}, 0)

	sent := make(chan Outcome)
	go func() {
		sent <- c.Submit(context.Background(), "question")
	}()
	require.Eventually(t, func() bool {
		return len(c.Snapshot().History) == 1
	}, time.Second, 5*time.Millisecond)

	cleared := make(chan Outcome)
	go func() {
		cleared <- c.ClearConversation(context.Background())
	}()

	close(gate)
	assert.Equal(t, OutcomeDone, <-sent)
	assert.Equal(t, OutcomeDone, <-cleared)
	assert.Empty(t, c.Snapshot().History)
}

func TestClearConversation(t *testing.T) {
	b := &fakeBackend{chatReply: "hi"}
	c := newTestController(b, &fakePrompter{}, 0)
	c.Submit(context.Background(), "hello")

	assert.Equal(t, OutcomeDone, c.ClearConversation(context.Background()))
	assert.Empty(t, c.Snapshot().History)
}

func TestClearConversationFailureKeepsHistory(t *testing.T) {
	b := &fakeBackend{chatReply: "hi", clearErr: errNetwork}
	c := newTestController(b, &fakePrompter{}, 0)
	c.Submit(context.Background(), "hello")

	assert.Equal(t, OutcomeFailed, c.ClearConversation(context.Background()))
	assert.Len(t, c.Snapshot().History, 2)
}

func TestUploadSuccess(t *testing.T) {
	b := &fakeBackend{
		documents: []string{"old.pdf"},
		uploadRes: &entity.OperationResult{Success: true},
	}
	p := &fakePrompter{}
	c := newTestController(b, p, 30)
	c.SetView(ViewDocuments)

	outcome := c.Upload(context.Background(), entity.FileFromBytes("report.pdf", []byte("%PDF")))
	assert.Equal(t, OutcomeDone, outcome)

	snap := c.Snapshot()
	assert.Equal(t, ViewChat, snap.ActiveView)
	assert.Equal(t, []entity.DocumentRef{{Name: "old.pdf"}, {Name: "report.pdf"}}, snap.Documents)
	require.Len(t, snap.History, 1)
	assert.Equal(t, entity.RoleAssistant, snap.History[0].Role)
	assert.Equal(t, `I've processed your document "report.pdf". You can now ask questions about it.`, snap.History[0].Content)
	assert.False(t, snap.Busy)
	assert.Empty(t, p.alerts)
}

func TestUploadRejectedAlertsBackendMessage(t *testing.T) {
	b := &fakeBackend{uploadRes: &entity.OperationResult{Success: false, Message: "Unsupported file type"}}
	p := &fakePrompter{}
	c := newTestController(b, p, 30)
	c.SetView(ViewDocuments)

	assert.Equal(t, OutcomeFailed, c.Upload(context.Background(), entity.FileFromBytes("x.txt", nil)))

	snap := c.Snapshot()
	assert.Equal(t, []string{"Unsupported file type"}, p.alerts)
	assert.Equal(t, ViewDocuments, snap.ActiveView)
	assert.Empty(t, snap.History)
	assert.False(t, snap.Busy)
}

func TestUploadTransportFailureAlertsGeneric(t *testing.T) {
	b := &fakeBackend{uploadErr: errNetwork}
	p := &fakePrompter{}
	c := newTestController(b, p, 30)

	assert.Equal(t, OutcomeFailed, c.Upload(context.Background(), entity.FileFromBytes("a.csv", nil)))
	assert.Equal(t, []string{UploadFailedAlert}, p.alerts)
	assert.False(t, c.Snapshot().Busy)
}

func TestUploadRefreshFailureAlertsGeneric(t *testing.T) {
	b := &fakeBackend{
		uploadRes: &entity.OperationResult{Success: true},
		listErr:   errNetwork,
	}
	p := &fakePrompter{}
	c := newTestController(b, p, 30)

	assert.Equal(t, OutcomeFailed, c.Upload(context.Background(), entity.FileFromBytes("a.csv", nil)))
	assert.Equal(t, []string{UploadFailedAlert}, p.alerts)
	assert.Empty(t, c.Snapshot().History)
}

func TestUploadWithoutFileIsNoop(t *testing.T) {
	b := &fakeBackend{}
	c := newTestController(b, &fakePrompter{}, 30)

	assert.Equal(t, OutcomeSkipped, c.Upload(context.Background(), entity.UploadFile{}))
	assert.Zero(t, b.callCount())
}

func TestDeleteDeclinedChangesNothing(t *testing.T) {
	b := &fakeBackend{documents: []string{"a.pdf"}}
	p := &fakePrompter{answer: false}
	c := newTestController(b, p, 30)
	c.Initialize(context.Background())
	before := c.Snapshot()
	calls := b.callCount()

	assert.Equal(t, OutcomeSkipped, c.DeleteDocument(context.Background(), "a.pdf"))

	assert.Equal(t, []string{"Are you sure you want to delete a.pdf?"}, p.questions)
	assert.Equal(t, before, c.Snapshot())
	assert.Equal(t, calls, b.callCount())
}

func TestDeleteConfirmed(t *testing.T) {
	b := &fakeBackend{
		documents: []string{"a.pdf", "b.csv"},
		deleteRes: &entity.OperationResult{Success: true},
	}
	p := &fakePrompter{answer: true}
	c := newTestController(b, p, 30)
	c.Initialize(context.Background())

	assert.Equal(t, OutcomeDone, c.DeleteDocument(context.Background(), "a.pdf"))

	snap := c.Snapshot()
	assert.Equal(t, []string{"a.pdf"}, b.deleted)
	assert.Equal(t, []entity.DocumentRef{{Name: "b.csv"}}, snap.Documents)
	require.Len(t, snap.History, 1)
	assert.Equal(t, `Document "a.pdf" has been deleted.`, snap.History[0].Content)
}

func TestDeleteFailures(t *testing.T) {
	tests := []struct {
		name      string
		res       *entity.OperationResult
		err       error
		wantAlert string
	}{
		{
			name:      "backend refused",
			res:       &entity.OperationResult{Success: false, Message: "Document not found"},
			wantAlert: "Document not found",
		},
		{
			name:      "transport failure",
			err:       errNetwork,
			wantAlert: DeleteFailedAlert,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{documents: []string{"a.pdf"}, deleteRes: tt.res, deleteErr: tt.err}
			p := &fakePrompter{answer: true}
			c := newTestController(b, p, 30)
			c.Initialize(context.Background())

			assert.Equal(t, OutcomeFailed, c.DeleteDocument(context.Background(), "a.pdf"))
			assert.Equal(t, []string{tt.wantAlert}, p.alerts)
			assert.Empty(t, c.Snapshot().History)
			assert.Equal(t, []entity.DocumentRef{{Name: "a.pdf"}}, c.Snapshot().Documents)
		})
	}
}

func TestResetBackend(t *testing.T) {
	b := &fakeBackend{resetRes: &entity.OperationResult{Success: false, Message: "index locked"}}
	p := &fakePrompter{}
	c := newTestController(b, p, 30)

	assert.Equal(t, OutcomeFailed, c.ResetBackend(context.Background()))
	assert.Equal(t, []string{"index locked"}, p.alerts)

	b.resetRes = &entity.OperationResult{Success: true}
	assert.Equal(t, OutcomeDone, c.ResetBackend(context.Background()))
}

func TestRefreshDocuments(t *testing.T) {
	b := &fakeBackend{documents: []string{"z.xlsx"}}
	c := newTestController(b, &fakePrompter{}, 30)

	assert.Equal(t, OutcomeDone, c.RefreshDocuments(context.Background()))
	assert.Equal(t, []entity.DocumentRef{{Name: "z.xlsx"}}, c.Snapshot().Documents)

	b.listErr = errNetwork
	assert.Equal(t, OutcomeFailed, c.RefreshDocuments(context.Background()))
	assert.Equal(t, []entity.DocumentRef{{Name: "z.xlsx"}}, c.Snapshot().Documents)
}

func TestViewAndSettings(t *testing.T) {
	c := newTestController(&fakeBackend{}, &fakePrompter{}, 30)

	c.SetView(ViewDocuments)
	assert.Equal(t, ViewDocuments, c.Snapshot().ActiveView)
	c.SetView("bogus")
	assert.Equal(t, ViewDocuments, c.Snapshot().ActiveView)

	c.ToggleSettings()
	assert.True(t, c.Snapshot().SettingsOpen)
	c.ToggleSettings()
	assert.False(t, c.Snapshot().SettingsOpen)

	assert.Equal(t, 65, c.SetResponseTimeout(63))
	assert.Equal(t, 65, c.Snapshot().ResponseTimeout)
}

func TestChangesNotifies(t *testing.T) {
	c := newTestController(&fakeBackend{}, &fakePrompter{}, 30)

	c.SetDraft("a")
	c.SetDraft("b")

	select {
	case <-c.Changes():
	default:
		t.Fatal("expected a change notification")
	}

	select {
	case <-c.Changes():
		t.Fatal("notifications should be coalesced")
	default:
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	b := &fakeBackend{chatReply: "hi"}
	c := newTestController(b, &fakePrompter{}, 0)
	c.Submit(context.Background(), "hello")

	snap := c.Snapshot()
	snap.History[0].Content = "mutated"

	assert.Equal(t, "hello", c.Snapshot().History[0].Content)
}
