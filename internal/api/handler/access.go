package handler

import (
	"net/http"
	"time"

	"github.com/edvin/agencysites/internal/api/middleware"
	"github.com/edvin/agencysites/internal/api/response"
)

// Access reports the caller's entitlement decision for a tenant. It sits
// outside the entitlement gate so a locked-out agency can see why.
type Access struct {
	checker middleware.AccessChecker
	clock   clock
}

func NewAccess(checker middleware.AccessChecker) *Access {
	return &Access{checker: checker}
}

// WithClock pins the evaluation time.
func (h *Access) WithClock(now func() time.Time) *Access {
	h.clock = now
	return h
}

// Get godoc
//
//	@Summary		Get access decision
//	@Description	Reports the caller entitlement decision for the tenant. Reachable even when access is denied.
//	@Tags			Access
//	@Security		BearerAuth
//	@Param			slug path string true "Tenant slug"
//	@Success		200 {object} model.AccessDecision
//	@Failure		401 {object} response.ErrorResponse
//	@Failure		403 {object} response.ErrorResponse
//	@Failure		404 {object} response.ErrorResponse
//	@Router			/api/v1/tenants/{slug}/access [get]
func (h *Access) Get(w http.ResponseWriter, r *http.Request) {
	response.WriteJSON(w, http.StatusOK, middleware.Decide(r.Context(), h.checker, h.clock.now()))
}
