// Package session orchestrates one chat exchange end to end: local rate
// limit admission, history loading and truncation, request building,
// token lifecycle with transparent refresh-and-retry, dispatch, and
// persistence of both sides of the exchange.
package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/squad-ai/squadctl/internal/api"
	"github.com/squad-ai/squadctl/internal/auth"
	"github.com/squad-ai/squadctl/internal/chat"
	"github.com/squad-ai/squadctl/internal/ratelimit"
	"github.com/squad-ai/squadctl/internal/store"
)

// Options wires a Client together. API may be nil in direct mode, where
// no token refresh endpoint exists.
type Options struct {
	Mode         Mode
	Limiter      *ratelimit.FixedWindow
	Credentials  auth.Store
	API          *api.Client
	Dispatcher   Dispatcher
	Messages     store.MessageStore
	Builder      *Builder
	HistoryLimit int
	TokenBudget  int
	Now          func() time.Time
	Logger       *slog.Logger
}

// Client is the session orchestrator. Safe for concurrent use: the
// credential store is internally locked and concurrent token refreshes
// are coalesced into a single flight.
type Client struct {
	mode         Mode
	limiter      *ratelimit.FixedWindow
	creds        auth.Store
	api          *api.Client
	dispatcher   Dispatcher
	messages     store.MessageStore
	builder      *Builder
	historyLimit int
	tokenBudget  int
	now          func() time.Time
	refresh      singleflight.Group
	log          *slog.Logger
}

func NewClient(opts Options) *Client {
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Client{
		mode:         opts.Mode,
		limiter:      opts.Limiter,
		creds:        opts.Credentials,
		api:          opts.API,
		dispatcher:   opts.Dispatcher,
		messages:     opts.Messages,
		builder:      opts.Builder,
		historyLimit: opts.HistoryLimit,
		tokenBudget:  opts.TokenBudget,
		now:          now,
		log:          log,
	}
}

// Send runs one full exchange. Exactly one of aiID and squadID must be
// set. A rate-limit rejection or invalid request leaves local state
// untouched; once the request is accepted the user turn is stored, and
// the assistant turn is appended only on success.
func (c *Client) Send(ctx context.Context, conversationID, aiID, squadID, message string) (*Reply, error) {
	if !c.limiter.TryAcquire() {
		return nil, &RateLimitError{Server: false}
	}

	history, err := c.messages.LoadRecent(ctx, conversationID, c.historyLimit)
	if err != nil {
		// A broken local store should not block the send itself.
		c.log.Warn("load history failed, sending without context",
			"conversation", conversationID, "error", err)
		history = nil
	}
	history = chat.Truncate(history, c.historyLimit, c.tokenBudget)

	req, err := c.builder.Build(conversationID, aiID, squadID, message, history)
	if err != nil {
		return nil, err
	}

	// The user turn is recorded as soon as the request is valid: it was
	// genuinely authored even if auth or dispatch fails, and no fake
	// assistant turn is ever appended to paper over a failure.
	userTurn := chat.NewTurn(chat.RoleUser, req.Message)
	if err := c.messages.Append(ctx, conversationID, userTurn); err != nil {
		c.log.Warn("persist user turn failed", "conversation", conversationID, "error", err)
	}

	token, err := c.authToken(ctx)
	if err != nil {
		return nil, err
	}

	reply, err := c.dispatcher.Dispatch(ctx, token, req)
	if err != nil && c.isAuthStatus(err) && c.mode == ModeBackend {
		// One transparent refresh-and-retry. A second rejection means the
		// session is truly dead.
		token, rerr := c.refreshTokens(ctx)
		if rerr != nil {
			return nil, rerr
		}
		c.log.Debug("access token refreshed, retrying", "conversation", conversationID)
		reply, err = c.dispatcher.Dispatch(ctx, token, req)
	}
	if err != nil {
		return nil, c.classify(err)
	}

	assistantTurn := chat.NewTurn(chat.RoleAssistant, reply.Content)
	if err := c.messages.Append(ctx, conversationID, assistantTurn); err != nil {
		// The exchange succeeded; losing the local copy is not a send failure.
		c.log.Warn("persist assistant turn failed", "conversation", conversationID, "error", err)
	}
	return reply, nil
}

// History returns the stored conversation, oldest first.
func (c *Client) History(ctx context.Context, conversationID string) ([]chat.Turn, error) {
	return c.messages.LoadRecent(ctx, conversationID, c.historyLimit)
}

// ClearConversation wipes the stored turns for one conversation.
func (c *Client) ClearConversation(ctx context.Context, conversationID string) error {
	return c.messages.Clear(ctx, conversationID)
}

// ── Token lifecycle ──────────────────────────────────────────────────────────

// authToken returns a usable access token for backend mode, refreshing
// expired access tokens when the refresh token is still valid. Direct
// mode carries no bearer token.
func (c *Client) authToken(ctx context.Context) (string, error) {
	if c.mode != ModeBackend {
		return "", nil
	}
	access := c.creds.AccessToken()
	refreshTok := c.creds.RefreshToken()
	if access == "" || refreshTok == "" {
		return "", ErrUnauthenticated
	}
	if !auth.IsExpired(access, c.now) {
		return access, nil
	}
	if auth.IsExpired(refreshTok, c.now) {
		return "", ErrUnauthenticated
	}
	return c.refreshTokens(ctx)
}

// refreshTokens exchanges the refresh token for a fresh pair. Concurrent
// callers share a single network round trip.
func (c *Client) refreshTokens(ctx context.Context) (string, error) {
	v, err, _ := c.refresh.Do("refresh", func() (any, error) {
		refreshTok := c.creds.RefreshToken()
		if refreshTok == "" {
			return nil, ErrUnauthenticated
		}
		info, err := c.api.Refresh(ctx, refreshTok)
		if err != nil {
			var serr *api.StatusError
			if errors.As(err, &serr) {
				c.log.Info("token refresh rejected", "status", serr.Code)
				return nil, ErrUnauthenticated
			}
			return nil, &TransportError{Err: err}
		}
		// The server may rotate the refresh token or keep the old one.
		newRefresh := info.RefreshToken
		if newRefresh == "" {
			newRefresh = refreshTok
		}
		if err := c.creds.SaveTokens(info.AccessToken, newRefresh); err != nil {
			return nil, fmt.Errorf("save refreshed tokens: %w", err)
		}
		return info.AccessToken, nil
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// ── Error classification ─────────────────────────────────────────────────────

func (c *Client) isAuthStatus(err error) bool {
	var serr *api.StatusError
	return errors.As(err, &serr) && (serr.Code == 401 || serr.Code == 403)
}

// classify maps dispatch failures onto the session error taxonomy.
func (c *Client) classify(err error) error {
	var serr *api.StatusError
	if errors.As(err, &serr) {
		switch {
		case serr.Code == 401 || serr.Code == 403:
			return ErrUnauthenticated
		case serr.Code == 429:
			return &RateLimitError{Server: true}
		case serr.Code >= 500:
			return &ServerError{Code: serr.Code}
		default:
			if msg := serr.Message(); msg != "" {
				return fmt.Errorf("%w: %s", ErrInvalidRequest, msg)
			}
			return fmt.Errorf("%w: rejected with status %d", ErrInvalidRequest, serr.Code)
		}
	}
	var derr *api.DecodeError
	if errors.As(err, &derr) {
		return &DecodeError{Err: derr.Err}
	}
	return &TransportError{Err: err}
}
