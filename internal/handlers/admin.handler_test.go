package handlers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"peoplefinder/config"
	"peoplefinder/internal/handlers/middleware"
	"peoplefinder/internal/logger"
	. "peoplefinder/internal/models"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type adminFixture struct {
	app  *fiber.App
	repo *fakeSessionRepository
}

func setupAdminFixture(t *testing.T) *adminFixture {
	t.Helper()

	cfg := config.Config{SessionCookieName: "pf_session"}
	repo := newFakeSessionRepository()

	mw := middleware.New(cfg, repo)
	mw.SetReady()

	fiberApp := fiber.New()
	handler := &AdminHandler{
		sessions: repo,
		Handler: Handler{
			log:        logger.New("handlers").File("admin_handler"),
			router:     fiberApp.Group("/api"),
			middleware: mw,
		},
	}
	handler.Register()

	return &adminFixture{app: fiberApp, repo: repo}
}

func TestRevokeSessions_AdminOnly(t *testing.T) {
	fixture := setupAdminFixture(t)

	temporary, err := NewSession("token-tmp", User{ID: "u-2", Username: "guest", Role: RoleTemporary})
	require.NoError(t, err)
	require.NoError(t, fixture.repo.Save(context.Background(), temporary))

	request := httptest.NewRequest(http.MethodPost, "/api/admin/sessions/revoke", nil)
	request.AddCookie(&http.Cookie{Name: "pf_session", Value: temporary.ID})

	response, err := fixture.app.Test(request)
	require.NoError(t, err)
	assert.Equal(t, http.StatusForbidden, response.StatusCode)
	assert.Len(t, fixture.repo.sessions, 1, "a bounced caller revokes nothing")
}

func TestRevokeSessions_ClearsEverySession(t *testing.T) {
	fixture := setupAdminFixture(t)

	admin, err := NewSession("token-admin", User{ID: "u-1", Username: "deadpool", Role: RoleAdmin})
	require.NoError(t, err)
	require.NoError(t, fixture.repo.Save(context.Background(), admin))

	guest, err := NewSession("token-guest", User{ID: "u-2", Username: "guest", Role: RoleTemporary})
	require.NoError(t, err)
	require.NoError(t, fixture.repo.Save(context.Background(), guest))

	request := httptest.NewRequest(http.MethodPost, "/api/admin/sessions/revoke", nil)
	request.AddCookie(&http.Cookie{Name: "pf_session", Value: admin.ID})

	response, err := fixture.app.Test(request)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, response.StatusCode)
	assert.Empty(t, fixture.repo.sessions, "the caller's own session goes too")

	// The revoked guest cookie no longer authenticates
	request = httptest.NewRequest(http.MethodPost, "/api/admin/sessions/revoke", nil)
	request.AddCookie(&http.Cookie{Name: "pf_session", Value: guest.ID})

	response, err = fixture.app.Test(request)
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, response.StatusCode)
}