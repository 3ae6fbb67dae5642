package handler

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"

	"github.com/edvin/agencysites/internal/api/middleware"
	"github.com/edvin/agencysites/internal/core"
	"github.com/edvin/agencysites/internal/metrics"
	"github.com/edvin/agencysites/internal/model"
)

// ChangeFeed delivers tenant change notifications.
type ChangeFeed interface {
	Subscribe(tenantID string, onChange func(core.Change)) (cancel func())
}

// TenantReader reads a tenant straight from the store.
type TenantReader interface {
	GetByID(ctx context.Context, id string) (*model.Tenant, error)
}

const liveWriteTimeout = 10 * time.Second

// Live pushes a tenant's composed content to editor clients over a
// websocket, once on connect and again after every stored change. Access is
// decided again on every change; a tenant that loses it is disconnected.
type Live struct {
	feed    ChangeFeed
	tenants TenantReader
	checker middleware.AccessChecker
	media   MediaResolver
	origins []string
	clock   clock
}

// NewLive builds the live handler. allowedOrigins are the CORS origins; their
// hosts are accepted as websocket origins.
func NewLive(feed ChangeFeed, tenants TenantReader, checker middleware.AccessChecker, media MediaResolver, allowedOrigins []string) *Live {
	if media == nil {
		media = nopMedia{}
	}
	var patterns []string
	for _, o := range allowedOrigins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
		}
	}
	return &Live{feed: feed, tenants: tenants, checker: checker, media: media, origins: patterns}
}

// Connect godoc
//
//	@Summary		Subscribe to live content
//	@Description	Upgrades to a websocket that receives the composed site on connect and after every stored change. Closes with status 1008 when the tenant loses access.
//	@Tags			Content
//	@Security		BearerAuth
//	@Param			slug path string true "Tenant slug"
//	@Success		101 {object} handler.SiteContent
//	@Failure		401 {object} response.ErrorResponse
//	@Failure		402 {object} model.AccessDecision
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/api/v1/tenants/{slug}/live [get]
func (h *Live) Connect(w http.ResponseWriter, r *http.Request) {
	t := middleware.GetTenant(r.Context())
	logger := zerolog.Ctx(r.Context()).With().Str("tenant_id", t.ID).Logger()

	// The server's read and write timeouts would otherwise outlive the hijack.
	rc := http.NewResponseController(w)
	_ = rc.SetReadDeadline(time.Time{})
	_ = rc.SetWriteDeadline(time.Time{})

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{OriginPatterns: h.origins})
	if err != nil {
		return // Accept already wrote the HTTP error
	}
	defer conn.CloseNow()

	metrics.LiveSubscribers.Inc()
	defer metrics.LiveSubscribers.Dec()

	changed := make(chan struct{}, 1)
	cancel := h.feed.Subscribe(t.ID, func(core.Change) {
		select {
		case changed <- struct{}{}:
		default:
		}
	})
	defer cancel()

	// Clients never send; CloseRead handles their close frame.
	ctx := conn.CloseRead(r.Context())

	if err := h.push(ctx, conn, t); err != nil {
		logger.Debug().Err(err).Msg("live push failed")
		return
	}

	for {
		select {
		case <-ctx.Done():
			conn.Close(websocket.StatusNormalClosure, "")
			return
		case <-changed:
			fresh, err := h.tenants.GetByID(ctx, t.ID)
			if err != nil {
				logger.Warn().Err(err).Msg("reload tenant after change")
				continue
			}
			d := middleware.Decide(middleware.WithTenant(ctx, fresh), h.checker, h.clock.now())
			if !d.HasAccess {
				logger.Info().Str("reason", d.Reason).Msg("live access revoked")
				conn.Close(websocket.StatusPolicyViolation, d.Reason)
				return
			}
			if err := h.push(ctx, conn, fresh); err != nil {
				logger.Debug().Err(err).Msg("live push failed")
				return
			}
		}
	}
}

func (h *Live) push(ctx context.Context, conn *websocket.Conn, t *model.Tenant) error {
	rd := newRender(ctx, t, false, h.media, h.clock.now())
	ctx, cancel := context.WithTimeout(ctx, liveWriteTimeout)
	defer cancel()
	return wsjson.Write(ctx, conn, siteContent(rd))
}

// WithClock pins the render time of pushed content.
func (h *Live) WithClock(now func() time.Time) *Live {
	h.clock = now
	return h
}
