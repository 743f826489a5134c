package repositories

import (
	"context"
	"errors"
	"time"

	"peoplefinder/internal/database"
	"peoplefinder/internal/logger"
	. "peoplefinder/internal/models"
	"peoplefinder/internal/services"

	"gorm.io/gorm"
)

const SESSION_CACHE_EXPIRY = 12 * time.Hour

// SessionRepository is the durable session store. A session is only ever
// written as a complete token+user pair; a row whose user record no longer
// parses is discarded on read and the caller proceeds logged out.
type SessionRepository interface {
	Restore(ctx context.Context) (*Session, error)
	Save(ctx context.Context, session *Session) error
	GetByID(ctx context.Context, id string) (*Session, error)
	Clear(ctx context.Context, id string) error
	ClearAll(ctx context.Context) error
}

type sessionRepository struct {
	db                 database.DB
	transactionService *services.TransactionService
	log                logger.Logger
}

func NewSessionRepository(db database.DB, transactionService *services.TransactionService) SessionRepository {
	return &sessionRepository{
		db:                 db,
		transactionService: transactionService,
		log:                logger.New("sessionRepository"),
	}
}

func (r *sessionRepository) getDB(ctx context.Context) *gorm.DB {
	if tx, ok := services.GetTransaction(ctx); ok {
		return tx
	}
	return r.db.SQLWithContext(ctx)
}

// Restore loads the most recently saved session. Corrupt persisted data is
// cleared and reported as logged-out, never as an error.
func (r *sessionRepository) Restore(ctx context.Context) (*Session, error) {
	log := r.log.Function("Restore")

	var session Session
	err := r.getDB(ctx).Order("created_at DESC").First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to restore session", err)
	}

	if _, err := session.User(); err != nil {
		log.Warn("discarding corrupt persisted session", "sessionID", session.ID, "error", err)
		if clearErr := r.Clear(ctx, session.ID); clearErr != nil {
			log.Warn("failed to clear corrupt session", "sessionID", session.ID, "error", clearErr)
		}
		return nil, nil
	}

	return &session, nil
}

// Save writes the token and user record as one transaction.
func (r *sessionRepository) Save(ctx context.Context, session *Session) error {
	log := r.log.Function("Save")

	if session.Token == "" || session.UserJSON == "" {
		return log.Error("refusing to save partial session",
			"hasToken", session.Token != "", "hasUser", session.UserJSON != "")
	}

	err := r.transactionService.Execute(ctx, func(txCtx context.Context) error {
		if err := r.getDB(txCtx).Create(session).Error; err != nil {
			return log.Err("failed to create session", err, "sessionID", session.ID)
		}
		return nil
	})
	if err != nil {
		return err
	}

	if err := r.addSessionToCache(ctx, session); err != nil {
		log.Warn("failed to add session to cache", "sessionID", session.ID, "error", err)
	}

	return nil
}

func (r *sessionRepository) GetByID(ctx context.Context, id string) (*Session, error) {
	log := r.log.Function("GetByID")

	var session Session
	if err := r.getCacheByID(ctx, id, &session); err == nil {
		return &session, nil
	}

	if err := r.getDB(ctx).First(&session, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, log.Err("failed to get session", err, "sessionID", id)
	}

	if _, err := session.User(); err != nil {
		log.Warn("discarding corrupt persisted session", "sessionID", id, "error", err)
		if clearErr := r.Clear(ctx, id); clearErr != nil {
			log.Warn("failed to clear corrupt session", "sessionID", id, "error", clearErr)
		}
		return nil, nil
	}

	if err := r.addSessionToCache(ctx, &session); err != nil {
		log.Warn("failed to add session to cache", "sessionID", id, "error", err)
	}

	return &session, nil
}

// Clear removes one session; clearing a session that is already gone is not
// an error.
func (r *sessionRepository) Clear(ctx context.Context, id string) error {
	log := r.log.Function("Clear")

	if err := r.getDB(ctx).Delete(&Session{}, "id = ?", id).Error; err != nil {
		return log.Err("failed to delete session", err, "sessionID", id)
	}

	if err := r.removeSessionFromCache(ctx, id); err != nil {
		log.Warn("failed to remove session from cache", "sessionID", id, "error", err)
	}

	return nil
}

// ClearAll tears down every session: the rows and the whole session cache
// database. A cached session that survived the bulk delete would still
// authenticate until its TTL ran out, so the flush failing is an error, not
// a warning.
func (r *sessionRepository) ClearAll(ctx context.Context) error {
	log := r.log.Function("ClearAll")

	if err := r.getDB(ctx).Where("1 = 1").Delete(&Session{}).Error; err != nil {
		return log.Err("failed to delete sessions", err)
	}

	if err := r.flushSessionCache(ctx); err != nil {
		return log.Err("failed to flush session cache", err)
	}

	return nil
}

func (r *sessionRepository) getCacheByID(ctx context.Context, id string, session *Session) error {
	if r.db.Cache.Session == nil {
		return r.log.Function("getCacheByID").Error("session cache is not configured")
	}

	found, err := database.NewCacheBuilder(r.db.Cache.Session, sessionCacheKey(id)).
		WithContext(ctx).
		Get(session)
	if err != nil {
		return r.log.Function("getCacheByID").
			Err("failed to get session from cache", err, "sessionID", id)
	}

	if !found {
		return r.log.Function("getCacheByID").
			Error("session not found in cache", "sessionID", id)
	}

	return nil
}

func (r *sessionRepository) addSessionToCache(ctx context.Context, session *Session) error {
	if r.db.Cache.Session == nil {
		return nil
	}

	return database.NewCacheBuilder(r.db.Cache.Session, sessionCacheKey(session.ID)).
		WithContext(ctx).
		WithStruct(session).
		WithExpiry(SESSION_CACHE_EXPIRY).
		Set()
}

func (r *sessionRepository) flushSessionCache(ctx context.Context) error {
	cache := r.db.Cache.Session
	if cache == nil {
		return nil
	}

	return cache.Do(ctx, cache.B().Flushdb().Build()).Error()
}

func (r *sessionRepository) removeSessionFromCache(ctx context.Context, id string) error {
	if r.db.Cache.Session == nil {
		return nil
	}

	return database.NewCacheBuilder(r.db.Cache.Session, sessionCacheKey(id)).
		WithContext(ctx).
		Delete()
}

func sessionCacheKey(id string) string {
	return "session:" + id
}
