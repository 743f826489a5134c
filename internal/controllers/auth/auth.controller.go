package authController

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"peoplefinder/config"
	"peoplefinder/internal/events"
	"peoplefinder/internal/logger"
	. "peoplefinder/internal/models"
	"peoplefinder/internal/repositories"
	"peoplefinder/internal/upstream"

	"github.com/google/uuid"
)

const defaultTemporaryHours = 24

type AuthController struct {
	sessionRepo repositories.SessionRepository
	upstream    *upstream.Client
	eventBus    *events.EventBus
	Config      config.Config
	log         logger.Logger
}

func New(
	eventBus *events.EventBus,
	sessionRepo repositories.SessionRepository,
	upstreamClient *upstream.Client,
	config config.Config,
) *AuthController {
	return &AuthController{
		sessionRepo: sessionRepo,
		upstream:    upstreamClient,
		eventBus:    eventBus,
		Config:      config,
		log:         logger.New("AuthController"),
	}
}

// Login exchanges credentials for a session. The upstream error is returned
// as-is so the handler can surface the server's own message.
func (c *AuthController) Login(ctx context.Context, username, password string) (*Session, User, error) {
	log := c.log.Function("Login")

	result, err := c.upstream.Login(ctx, username, password)
	if err != nil {
		log.Er("login rejected", err, "username", username)
		return nil, User{}, err
	}

	session, err := c.saveSession(ctx, result)
	if err != nil {
		return nil, User{}, err
	}

	c.publishAuthEvent("login", result.User)
	return session, result.User, nil
}

// RedeemTemporaryToken exchanges a one-time token for a full session. The
// token can only be redeemed once; a second attempt comes back from the
// upstream service as an error and no session is written.
func (c *AuthController) RedeemTemporaryToken(ctx context.Context, token string) (*Session, User, error) {
	log := c.log.Function("RedeemTemporaryToken")

	result, err := c.upstream.TemporaryLogin(ctx, token)
	if err != nil {
		log.Er("temporary token rejected", err)
		return nil, User{}, err
	}

	session, err := c.saveSession(ctx, result)
	if err != nil {
		return nil, User{}, err
	}

	c.publishAuthEvent("temporary-login", result.User)
	return session, result.User, nil
}

// Logout tears the session down. Clearing is idempotent, so logging out an
// already-cleared session succeeds.
func (c *AuthController) Logout(ctx context.Context, sessionID string, user User) error {
	if err := c.sessionRepo.Clear(ctx, sessionID); err != nil {
		return err
	}

	c.publishAuthEvent("logout", user)
	return nil
}

// GenerateTemporaryLink mints a one-time token for username and returns it
// with the shareable login URL built against this service's public address.
func (c *AuthController) GenerateTemporaryLink(ctx context.Context, bearer, username string, expiresInHours int) (string, string, error) {
	log := c.log.Function("GenerateTemporaryLink")

	username = strings.TrimSpace(username)
	if username == "" {
		return "", "", log.ErrMsg("username is required")
	}
	if expiresInHours <= 0 {
		expiresInHours = defaultTemporaryHours
	}

	token, err := c.upstream.GenerateTemporary(ctx, bearer, username, expiresInHours)
	if err != nil {
		log.Er("failed to generate temporary token", err, "username", username)
		return "", "", err
	}

	loginURL := fmt.Sprintf("%s/%s/temporary-login?token=%s",
		strings.TrimRight(c.Config.PublicURL, "/"),
		url.PathEscape(username),
		url.QueryEscape(token),
	)

	log.Info("Generated temporary access link", "username", username, "expiresInHours", expiresInHours)
	return token, loginURL, nil
}

func (c *AuthController) saveSession(ctx context.Context, result *AuthResult) (*Session, error) {
	log := c.log.Function("saveSession")

	session, err := NewSession(result.AccessToken, result.User)
	if err != nil {
		return nil, log.Err("failed to build session", err, "userID", result.User.ID)
	}

	if err := c.sessionRepo.Save(ctx, session); err != nil {
		return nil, err
	}

	return session, nil
}

func (c *AuthController) publishAuthEvent(action string, user User) {
	log := c.log.Function("publishAuthEvent")

	if c.eventBus == nil {
		return
	}

	event := events.Event{
		ID:        uuid.New().String(),
		Type:      "auth",
		Channel:   events.ChannelAuth,
		Action:    action,
		UserID:    user.ID,
		Data:      map[string]any{"username": user.Username, "role": user.Role},
		Timestamp: time.Now(),
	}

	if err := c.eventBus.Publish(events.ChannelAuth, event); err != nil {
		log.Er("failed to publish auth event", err, "action", action)
	}
}
