package tui

import (
	"context"
	"sync"

	tea "github.com/charmbracelet/bubbletea"
)

// programSender is the part of *tea.Program the bridge posts to
type programSender interface {
	Send(msg tea.Msg)
}

// Bridge is the session.Prompter of the terminal UI. It shows a modal dialog
// in the running program and blocks the calling operation until the user answers.
type Bridge struct {
	mu      sync.Mutex
	program programSender

	done      chan struct{}
	closeOnce sync.Once
}

func NewBridge() *Bridge {
	return &Bridge{done: make(chan struct{})}
}

// Attach connects the bridge to the program that renders its dialogs
func (b *Bridge) Attach(p programSender) {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.program = p
}

// Close releases every pending and future prompt. Confirm answers no afterwards.
func (b *Bridge) Close() {
	b.closeOnce.Do(func() {
		close(b.done)
	})
}

func (b *Bridge) Confirm(ctx context.Context, question string) bool {
	reply := make(chan bool, 1)
	if !b.post(confirmRequestMsg{question: question, reply: reply}) {
		return false
	}

	select {
	case answer := <-reply:
		return answer
	case <-ctx.Done():
		return false
	case <-b.done:
		return false
	}
}

// Alert returns once the user dismisses the dialog
func (b *Bridge) Alert(ctx context.Context, message string) {
	ack := make(chan struct{}, 1)
	if !b.post(alertRequestMsg{message: message, ack: ack}) {
		return
	}

	select {
	case <-ack:
	case <-ctx.Done():
	case <-b.done:
	}
}

func (b *Bridge) post(msg tea.Msg) bool {
	select {
	case <-b.done:
		return false
	default:
	}

	b.mu.Lock()
	p := b.program
	b.mu.Unlock()

	if p == nil {
		return false
	}
	p.Send(msg)
	return true
}
