package state

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
)

// ErrUnknownConfirmation is returned for expired, answered or foreign tokens
var ErrUnknownConfirmation = errors.New("confirmation expired or unknown")

type pendingConfirmation struct {
	chatID int64
	answer chan bool
}

// Confirmations pairs yes/no questions sent to a chat with the button press
// that answers them
type Confirmations struct {
	items *cache.Cache
}

// NewConfirmations creates a store whose questions expire after ttl
func NewConfirmations(ttl time.Duration) *Confirmations {
	return &Confirmations{
		items: cache.New(ttl, cleanupInterval),
	}
}

// Open registers a question for chatID and returns its token and the channel
// that receives the answer
func (c *Confirmations) Open(chatID int64) (string, <-chan bool) {
	token := uuid.NewString()
	answer := make(chan bool, 1)

	c.items.SetDefault(token, &pendingConfirmation{
		chatID: chatID,
		answer: answer,
	})

	return token, answer
}

// Resolve delivers the answer to the question identified by token. Only the
// chat the question was sent to may answer it, and only once.
func (c *Confirmations) Resolve(chatID int64, token string, yes bool) error {
	x, found := c.items.Get(token)
	if !found {
		return ErrUnknownConfirmation
	}

	pending := x.(*pendingConfirmation)
	if pending.chatID != chatID {
		return ErrUnknownConfirmation
	}
	c.items.Delete(token)

	select {
	case pending.answer <- yes:
		return nil
	default:
		return ErrUnknownConfirmation
	}
}

// Cancel drops an unanswered question
func (c *Confirmations) Cancel(token string) {
	c.items.Delete(token)
}
