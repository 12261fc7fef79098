package cache

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/suchimauz/clinic-slots-engine/internal/config"
	"github.com/suchimauz/clinic-slots-engine/internal/core/domain"
	"github.com/suchimauz/clinic-slots-engine/internal/core/ports/out"
)

// Ключ кэша - врач и календарный день
func dayKey(doctorID uuid.UUID, date time.Time) string {
	return doctorID.String() + "|" + date.Format("2006-01-02")
}

type LRUCacheAdapter struct {
	cache  *lru.Cache[string, []domain.Slot]
	mu     sync.RWMutex
	logger out.LoggerPort
}

func NewLRUCacheAdapter(cfg *config.Config, logger out.LoggerPort) (*LRUCacheAdapter, error) {
	cache, err := lru.New[string, []domain.Slot](cfg.Cache.Size)
	if err != nil {
		logger.Error("cache.init.failed", out.LogFields{
			"error": err.Error(),
			"size":  cfg.Cache.Size,
		})
		return nil, err
	}

	return &LRUCacheAdapter{
		cache:  cache,
		logger: logger.WithModule("CacheAdapter"),
	}, nil
}

func (c *LRUCacheAdapter) GetDaySlots(ctx context.Context, doctorID uuid.UUID, date time.Time) ([]domain.Slot, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()

	slots, exists := c.cache.Get(dayKey(doctorID, date))
	if !exists {
		return nil, false
	}

	c.logger.Debug("cache.get.hit", out.LogFields{
		"doctorId":   doctorID,
		"date":       date.Format("2006-01-02"),
		"slotsCount": len(slots),
	})
	return slots, true
}

func (c *LRUCacheAdapter) StoreDaySlots(ctx context.Context, doctorID uuid.UUID, date time.Time, slots []domain.Slot) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.logger.Debug("cache.store", out.LogFields{
		"doctorId":   doctorID,
		"date":       date.Format("2006-01-02"),
		"slotsCount": len(slots),
	})

	c.cache.Add(dayKey(doctorID, date), slots)
}

func (c *LRUCacheAdapter) InvalidateDay(ctx context.Context, doctorID uuid.UUID, date time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache.Remove(dayKey(doctorID, date))
}

func (c *LRUCacheAdapter) InvalidateDoctor(ctx context.Context, doctorID uuid.UUID) {
	c.mu.Lock()
	defer c.mu.Unlock()

	prefix := doctorID.String() + "|"
	for _, key := range c.cache.Keys() {
		if strings.HasPrefix(key, prefix) {
			c.cache.Remove(key)
		}
	}
}
