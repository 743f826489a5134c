package searchController

import (
	"context"
	"time"

	"peoplefinder/internal/database"
	"peoplefinder/internal/events"
	"peoplefinder/internal/logger"
	. "peoplefinder/internal/models"
	"peoplefinder/internal/searchstate"
	"peoplefinder/internal/upstream"

	"github.com/google/uuid"
	"golang.org/x/sync/singleflight"
)

const (
	SEARCH_CACHE_EXPIRY = 5 * time.Minute

	statesCacheKey = "states"
	statsCacheKey  = "stats"
)

// SearchController is the result fetcher. Every fetch is addressed by its
// key, the canonical query string of the state it was issued for: cache
// reads, cache writes, and in-flight deduplication all go through that key,
// so a response can never surface under a key it was not requested with.
type SearchController struct {
	upstream *upstream.Client
	cache    database.CacheClient
	eventBus *events.EventBus
	log      logger.Logger
	group    singleflight.Group
}

func New(
	eventBus *events.EventBus,
	upstreamClient *upstream.Client,
	cache database.CacheClient,
) *SearchController {
	return &SearchController{
		upstream: upstreamClient,
		cache:    cache,
		eventBus: eventBus,
		log:      logger.New("SearchController"),
	}
}

// Fetch resolves one search state. An inactive state disables fetching
// entirely. Within the staleness window an identical key is served from
// cache; concurrent identical keys collapse to a single upstream call.
func (sc *SearchController) Fetch(ctx context.Context, bearer string, state SearchState) (*SearchPayload, error) {
	log := sc.log.Function("Fetch")

	if !state.Active() {
		return &SearchPayload{Active: false}, nil
	}

	key := searchstate.Encode(state)

	var cached SearchResponse
	if found := sc.getCache(ctx, key, &cached); found {
		sc.publishSearchEvent(key, cached.Total, true)
		return &SearchPayload{Active: true, Key: key, Cached: true, Response: &cached}, nil
	}

	value, err, _ := sc.group.Do(key, func() (any, error) {
		response, err := sc.upstream.SearchPeople(ctx, bearer, searchstate.WireQuery(state.Filters), state.Page)
		if err != nil {
			return nil, err
		}

		if err := sc.setCache(ctx, key, response); err != nil {
			log.Warn("failed to cache search response", "key", key, "error", err)
		}

		return response, nil
	})
	if err != nil {
		log.Er("search failed", err, "key", key)
		return nil, err
	}

	response := value.(*SearchResponse)
	sc.publishSearchEvent(key, response.Total, false)

	return &SearchPayload{Active: true, Key: key, Response: response}, nil
}

func (sc *SearchController) States(ctx context.Context, bearer string) ([]string, error) {
	log := sc.log.Function("States")

	var states []string
	if found := sc.getCache(ctx, statesCacheKey, &states); found {
		return states, nil
	}

	states, err := sc.upstream.GetStates(ctx, bearer)
	if err != nil {
		return nil, err
	}

	if err := sc.setCache(ctx, statesCacheKey, states); err != nil {
		log.Warn("failed to cache states", "error", err)
	}

	return states, nil
}

func (sc *SearchController) Stats(ctx context.Context, bearer string) (*DatabaseStats, error) {
	log := sc.log.Function("Stats")

	var stats DatabaseStats
	if found := sc.getCache(ctx, statsCacheKey, &stats); found {
		return &stats, nil
	}

	fresh, err := sc.upstream.GetStats(ctx, bearer)
	if err != nil {
		return nil, err
	}

	if err := sc.setCache(ctx, statsCacheKey, fresh); err != nil {
		log.Warn("failed to cache stats", "error", err)
	}

	return fresh, nil
}

func (sc *SearchController) PersonByID(ctx context.Context, bearer, id string) (*Person, error) {
	log := sc.log.Function("PersonByID")

	key := "person:" + id

	var person Person
	if found := sc.getCache(ctx, key, &person); found {
		return &person, nil
	}

	fresh, err := sc.upstream.GetPersonByID(ctx, bearer, id)
	if err != nil {
		return nil, err
	}

	if err := sc.setCache(ctx, key, fresh); err != nil {
		log.Warn("failed to cache person", "personID", id, "error", err)
	}

	return fresh, nil
}

func (sc *SearchController) getCache(ctx context.Context, key string, dest any) bool {
	if sc.cache == nil {
		return false
	}

	found, err := database.NewCacheBuilder(sc.cache, key).
		WithContext(ctx).
		Get(dest)
	if err != nil {
		sc.log.Function("getCache").Warn("cache read failed", "key", key, "error", err)
		return false
	}

	return found
}

func (sc *SearchController) setCache(ctx context.Context, key string, value any) error {
	if sc.cache == nil {
		return nil
	}

	return database.NewCacheBuilder(sc.cache, key).
		WithContext(ctx).
		WithStruct(value).
		WithExpiry(SEARCH_CACHE_EXPIRY).
		Set()
}

func (sc *SearchController) publishSearchEvent(key string, total int, cached bool) {
	log := sc.log.Function("publishSearchEvent")

	if sc.eventBus == nil {
		return
	}

	event := events.Event{
		ID:        uuid.New().String(),
		Type:      "search",
		Channel:   events.ChannelSearch,
		Action:    "completed",
		Data:      map[string]any{"key": key, "total": total, "cached": cached},
		Timestamp: time.Now(),
	}

	if err := sc.eventBus.Publish(events.ChannelSearch, event); err != nil {
		log.Er("failed to publish search event", err, "key", key)
	}
}
