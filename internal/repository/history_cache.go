package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/futig/genie-client/internal/entity"
	"github.com/patrickmn/go-cache"
)

// HistoryRepository keeps the conversation turns of each thread
type HistoryRepository interface {
	Append(ctx context.Context, threadID string, turns ...entity.ChatTurn)
	Get(ctx context.Context, threadID string) []entity.ChatTurn
	Clear(ctx context.Context, threadID string)
}

var _ HistoryRepository = &HistoryCache{}

// HistoryCache holds threads in memory; idle threads expire after ttl
type HistoryCache struct {
	mu    sync.Mutex
	cache *cache.Cache
	ttl   time.Duration
}

func NewHistoryCache(ttl time.Duration) *HistoryCache {
	return &HistoryCache{
		cache: cache.New(ttl, 2*ttl),
		ttl:   ttl,
	}
}

func (r *HistoryCache) Append(ctx context.Context, threadID string, turns ...entity.ChatTurn) {
	r.mu.Lock()
	defer r.mu.Unlock()

	var history []entity.ChatTurn
	if v, ok := r.cache.Get(threadID); ok {
		history = v.([]entity.ChatTurn)
	}

	// copy so readers holding the old slice never see the append
	history = append(slices.Clip(history), turns...)
	r.cache.Set(threadID, history, r.ttl)
}

func (r *HistoryCache) Get(ctx context.Context, threadID string) []entity.ChatTurn {
	r.mu.Lock()
	defer r.mu.Unlock()

	if v, ok := r.cache.Get(threadID); ok {
		return slices.Clone(v.([]entity.ChatTurn))
	}
	return nil
}

func (r *HistoryCache) Clear(ctx context.Context, threadID string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.cache.Delete(threadID)
}
