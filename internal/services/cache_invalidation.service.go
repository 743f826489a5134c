package services

import (
	"context"
	"time"

	"peoplefinder/internal/database"
	"peoplefinder/internal/events"
	"peoplefinder/internal/logger"

	"github.com/google/uuid"
)

// CacheInvalidationService drops cached search results ahead of their TTL,
// for when the upstream index has been reloaded and five minutes of
// staleness is too long. Connected clients hear about it over the bus.
type CacheInvalidationService struct {
	db       database.DB
	eventBus *events.EventBus
	log      logger.Logger
}

func NewCacheInvalidationService(
	db database.DB,
	eventBus *events.EventBus,
) *CacheInvalidationService {
	return &CacheInvalidationService{
		db:       db,
		eventBus: eventBus,
		log:      logger.New("CacheInvalidationService"),
	}
}

// FlushSearchCache empties the search-result cache database.
func (s *CacheInvalidationService) FlushSearchCache(ctx context.Context) error {
	log := s.log.Function("FlushSearchCache")

	cache := s.db.Cache.Search
	if cache == nil {
		return log.ErrMsg("search cache is not configured")
	}

	if err := cache.Do(ctx, cache.B().Flushdb().Build()).Error(); err != nil {
		return log.Err("failed to flush search cache", err)
	}

	log.Info("Flushed search cache")
	s.publishInvalidation("search-cache")

	return nil
}

// FlushAll empties every cache database.
func (s *CacheInvalidationService) FlushAll() error {
	if err := s.db.FlushAllCaches(); err != nil {
		return err
	}

	s.publishInvalidation("all-caches")
	return nil
}

func (s *CacheInvalidationService) publishInvalidation(scope string) {
	log := s.log.Function("publishInvalidation")

	if s.eventBus == nil {
		return
	}

	event := events.Event{
		ID:        uuid.New().String(),
		Type:      "search",
		Channel:   events.ChannelSearch,
		Action:    "cache-invalidated",
		Data:      map[string]any{"scope": scope},
		Timestamp: time.Now(),
	}

	if err := s.eventBus.Publish(events.ChannelSearch, event); err != nil {
		log.Er("failed to publish invalidation event", err, "scope", scope)
	}
}
