package state

import (
	"strconv"
	"sync"
	"time"

	"github.com/futig/genie-client/internal/entity"
	"github.com/futig/genie-client/internal/session"
	"github.com/patrickmn/go-cache"
)

const cleanupInterval = 10 * time.Minute

// Chat is the bot's view of one Telegram chat
type Chat struct {
	ID         int64
	Controller *session.Controller
	// Prompter is the one Controller asks through
	Prompter session.Prompter

	mu        sync.Mutex
	delivered int
	// carried holds replies a clear removed before they were delivered
	carried []entity.ChatTurn
}

// Pending returns the assistant turns appended since the previous call,
// led by any reply a clear removed before it was delivered.
func (c *Chat) Pending() []entity.ChatTurn {
	c.mu.Lock()
	defer c.mu.Unlock()

	history := c.Controller.Snapshot().History
	if len(history) < c.delivered {
		c.delivered = 0
	}

	pending := c.carried
	c.carried = nil
	for _, turn := range history[c.delivered:] {
		if turn.Role == entity.RoleAssistant {
			pending = append(pending, turn)
		}
	}
	c.delivered = len(history)

	return pending
}

// MarkDelivered treats the whole current history as already shown
func (c *Chat) MarkDelivered() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.delivered = len(c.Controller.Snapshot().History)
}

// settle runs inside ClearConversation. Undelivered replies among removed
// are kept for the next Pending and tracking restarts on the empty history.
func (c *Chat) settle(removed []entity.ChatTurn) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.delivered < len(removed) {
		for _, turn := range removed[c.delivered:] {
			if turn.Role == entity.RoleAssistant {
				c.carried = append(c.carried, turn)
			}
		}
	}
	c.delivered = 0
}

// ChatFactory builds the session controller of a new chat and the prompter it uses
type ChatFactory func(chatID int64) (*session.Controller, session.Prompter)

// Registry keeps one session per chat. Idle chats expire after the TTL.
type Registry struct {
	chats   *cache.Cache
	mu      sync.Mutex
	factory ChatFactory
}

// NewRegistry creates a registry whose entries live ttl past their last use
func NewRegistry(ttl time.Duration, factory ChatFactory) *Registry {
	return &Registry{
		chats:   cache.New(ttl, cleanupInterval),
		factory: factory,
	}
}

// Get returns the chat if it is still live and extends its lifetime
func (r *Registry) Get(chatID int64) (*Chat, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.touch(chatID)
}

// GetOrCreate returns the chat, creating it when missing. created reports
// whether the caller must initialize the new session.
func (r *Registry) GetOrCreate(chatID int64) (chat *Chat, created bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if chat, ok := r.touch(chatID); ok {
		return chat, false
	}

	controller, prompter := r.factory(chatID)
	chat = &Chat{
		ID:         chatID,
		Controller: controller,
		Prompter:   prompter,
	}
	controller.OnClear(chat.settle)
	r.chats.SetDefault(key(chatID), chat)

	return chat, true
}

// Delete forgets the chat
func (r *Registry) Delete(chatID int64) {
	r.chats.Delete(key(chatID))
}

// Len returns the number of live chats
func (r *Registry) Len() int {
	return r.chats.ItemCount()
}

func (r *Registry) touch(chatID int64) (*Chat, bool) {
	k := key(chatID)

	x, found := r.chats.Get(k)
	if !found {
		return nil, false
	}

	chat := x.(*Chat)
	r.chats.SetDefault(k, chat)
	return chat, true
}

func key(chatID int64) string {
	return strconv.FormatInt(chatID, 10)
}
