package repositories

import (
	"context"
	"testing"

	"peoplefinder/internal/database"
	. "peoplefinder/internal/models"
	"peoplefinder/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func setupSessionRepository(t *testing.T) (SessionRepository, *gorm.DB) {
	t.Helper()

	gormDB, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, gormDB.AutoMigrate(&Session{}))

	// No cache clients; the repository degrades to database-only.
	db := database.DB{SQL: gormDB}
	return NewSessionRepository(db, services.NewTransactionService(db)), gormDB
}

func mustSession(t *testing.T, token string, user User) *Session {
	t.Helper()
	session, err := NewSession(token, user)
	require.NoError(t, err)
	return session
}

func TestSessionRepository_SaveAndGetByID(t *testing.T) {
	repo, _ := setupSessionRepository(t)
	ctx := context.Background()

	session := mustSession(t, "token-abc", User{ID: "u-1", Username: "deadpool", Role: RoleAdmin})
	require.NoError(t, repo.Save(ctx, session))
	require.NotEmpty(t, session.ID)

	loaded, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, "token-abc", loaded.Token)

	user, err := loaded.User()
	require.NoError(t, err)
	assert.Equal(t, "deadpool", user.Username)
}

func TestSessionRepository_SaveRefusesPartialPair(t *testing.T) {
	repo, _ := setupSessionRepository(t)
	ctx := context.Background()

	tests := []struct {
		name    string
		session *Session
	}{
		{"missing token", &Session{UserJSON: `{"id":"u-1"}`}},
		{"missing user", &Session{Token: "token-abc"}},
		{"missing both", &Session{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Error(t, repo.Save(ctx, tt.session))
		})
	}
}

func TestSessionRepository_GetByID_NotFound(t *testing.T) {
	repo, _ := setupSessionRepository(t)

	loaded, err := repo.GetByID(context.Background(), "no-such-id")
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessionRepository_GetByID_DiscardsCorruptRow(t *testing.T) {
	repo, gormDB := setupSessionRepository(t)
	ctx := context.Background()

	corrupt := &Session{Token: "token-abc", UserJSON: `{"id":"u-1","userna`}
	require.NoError(t, gormDB.Create(corrupt).Error)

	loaded, err := repo.GetByID(ctx, corrupt.ID)
	require.NoError(t, err, "a corrupt pair reads as logged out, never an error")
	assert.Nil(t, loaded)

	// The corrupt row is gone
	var count int64
	require.NoError(t, gormDB.Model(&Session{}).Where("id = ?", corrupt.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestSessionRepository_Restore(t *testing.T) {
	repo, _ := setupSessionRepository(t)
	ctx := context.Background()

	// Nothing persisted yet
	loaded, err := repo.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)

	session := mustSession(t, "token-abc", User{ID: "u-1", Username: "deadpool", Role: RoleAdmin})
	require.NoError(t, repo.Save(ctx, session))

	loaded, err = repo.Restore(ctx)
	require.NoError(t, err)
	require.NotNil(t, loaded)
	assert.Equal(t, session.ID, loaded.ID)
}

func TestSessionRepository_Restore_DiscardsCorruptRow(t *testing.T) {
	repo, gormDB := setupSessionRepository(t)
	ctx := context.Background()

	corrupt := &Session{Token: "token-abc", UserJSON: `not json`}
	require.NoError(t, gormDB.Create(corrupt).Error)

	loaded, err := repo.Restore(ctx)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessionRepository_ClearIsIdempotent(t *testing.T) {
	repo, _ := setupSessionRepository(t)
	ctx := context.Background()

	session := mustSession(t, "token-abc", User{ID: "u-1", Username: "deadpool", Role: RoleAdmin})
	require.NoError(t, repo.Save(ctx, session))

	require.NoError(t, repo.Clear(ctx, session.ID))
	require.NoError(t, repo.Clear(ctx, session.ID), "clearing an absent session is not an error")

	loaded, err := repo.GetByID(ctx, session.ID)
	require.NoError(t, err)
	assert.Nil(t, loaded)
}

func TestSessionRepository_ClearAll(t *testing.T) {
	repo, gormDB := setupSessionRepository(t)
	ctx := context.Background()

	var saved []*Session
	for _, token := range []string{"t1", "t2", "t3"} {
		session := mustSession(t, token, User{ID: "u-" + token, Username: token, Role: RoleTemporary})
		require.NoError(t, repo.Save(ctx, session))
		saved = append(saved, session)
	}

	require.NoError(t, repo.ClearAll(ctx))

	var count int64
	require.NoError(t, gormDB.Model(&Session{}).Count(&count).Error)
	assert.Zero(t, count)

	// None of the revoked sessions resolve afterwards
	for _, session := range saved {
		loaded, err := repo.GetByID(ctx, session.ID)
		require.NoError(t, err)
		assert.Nil(t, loaded)
	}
}
