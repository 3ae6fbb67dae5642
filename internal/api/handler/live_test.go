package handler

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	mw "github.com/edvin/agencysites/internal/api/middleware"
	"github.com/edvin/agencysites/internal/core"
	"github.com/edvin/agencysites/internal/entitlement"
	"github.com/edvin/agencysites/internal/model"
)

func TestLiveConnect_PushesOnChange(t *testing.T) {
	tenant := agencyTenant()
	updated := agencyTenant()
	updated.Branding.Template = model.TemplateSkyline
	store := &fakeContentStore{byID: map[string]*model.Tenant{tenant.ID: updated}}
	watcher := core.NewWatcher(zerolog.Nop())

	h := NewLive(watcher, store, entitlement.New(), nil, nil).WithClock(fixedClock)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h.Connect(w, r.WithContext(mw.WithTenant(r.Context(), tenant)))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	var first SiteContent
	require.NoError(t, wsjson.Read(ctx, conn, &first))
	assert.Equal(t, model.TemplateHeritage, first.Template)
	assert.Equal(t, "casa", first.Slug)
	require.Eventually(t, func() bool { return watcher.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	// Changes to other tenants are not pushed.
	watcher.Notify(core.Change{TenantID: "t-other", Slug: "other"})
	watcher.Notify(core.Change{TenantID: tenant.ID, Slug: tenant.Slug})

	var second SiteContent
	require.NoError(t, wsjson.Read(ctx, conn, &second))
	assert.Equal(t, model.TemplateSkyline, second.Template)

	conn.Close(websocket.StatusNormalClosure, "")
	assert.Eventually(t, func() bool { return watcher.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}

func TestLiveConnect_ClosesWhenAccessIsLost(t *testing.T) {
	tenant := agencyTenant()
	canceled := agencyTenant()
	canceled.Subscription = &model.Subscription{Status: model.SubscriptionCanceled}
	store := &fakeContentStore{byID: map[string]*model.Tenant{tenant.ID: canceled}}
	watcher := core.NewWatcher(zerolog.Nop())

	h := NewLive(watcher, store, entitlement.New(), nil, nil).WithClock(fixedClock)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := mw.WithIdentity(mw.WithTenant(r.Context(), tenant), &model.Identity{UserID: tenant.OwnerID})
		h.Connect(w, r.WithContext(ctx))
	}))
	defer srv.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	conn, _, err := websocket.Dial(ctx, "ws"+strings.TrimPrefix(srv.URL, "http"), nil)
	require.NoError(t, err)
	defer conn.CloseNow()

	var first SiteContent
	require.NoError(t, wsjson.Read(ctx, conn, &first))
	require.Eventually(t, func() bool { return watcher.Subscribers() == 1 }, time.Second, 10*time.Millisecond)

	watcher.Notify(core.Change{TenantID: tenant.ID, Slug: tenant.Slug})

	var next SiteContent
	err = wsjson.Read(ctx, conn, &next)
	require.Error(t, err)
	assert.Equal(t, websocket.StatusPolicyViolation, websocket.CloseStatus(err))
	assert.Eventually(t, func() bool { return watcher.Subscribers() == 0 }, time.Second, 10*time.Millisecond)
}

func TestLiveConnect_RejectsPlainHTTP(t *testing.T) {
	h := NewLive(core.NewWatcher(zerolog.Nop()), &fakeContentStore{}, entitlement.New(), nil, []string{"https://admin.example"})
	rec := httptest.NewRecorder()

	h.Connect(rec, withTenant(newRequest(http.MethodGet, "/live", nil), agencyTenant()))

	assert.NotEqual(t, http.StatusSwitchingProtocols, rec.Code)
	assert.Equal(t, []string{"admin.example"}, h.origins)
}
