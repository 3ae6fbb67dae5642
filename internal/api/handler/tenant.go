package handler

import (
	"context"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/edvin/agencysites/internal/api/middleware"
	"github.com/edvin/agencysites/internal/api/request"
	"github.com/edvin/agencysites/internal/api/response"
	"github.com/edvin/agencysites/internal/core"
	"github.com/edvin/agencysites/internal/model"
)

// TenantCreator signs up new agencies.
type TenantCreator interface {
	Create(ctx context.Context, params core.CreateTenantParams) (*model.Tenant, error)
}

type Tenant struct {
	svc TenantCreator
}

func NewTenant(svc TenantCreator) *Tenant {
	return &Tenant{svc: svc}
}

// Create godoc
//
//	@Summary		Sign up a tenant
//	@Description	Creates a tenant owned by the caller and starts its trial.
//	@Tags			Tenants
//	@Security		BearerAuth
//	@Param			body body request.SignupTenant true "Tenant details"
//	@Success		201 {object} model.Tenant
//	@Failure		400 {object} response.ErrorResponse
//	@Failure		401 {object} response.ErrorResponse
//	@Failure		409 {object} response.ErrorResponse
//	@Failure		500 {object} response.ErrorResponse
//	@Router			/api/v1/tenants [post]
func (h *Tenant) Create(w http.ResponseWriter, r *http.Request) {
	var req request.SignupTenant
	if err := request.Decode(r, &req); err != nil {
		response.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	id := middleware.GetIdentity(r.Context())
	if id == nil {
		response.WriteError(w, http.StatusUnauthorized, "unauthorized")
		return
	}

	t, err := h.svc.Create(r.Context(), core.CreateTenantParams{
		Name:     req.Name,
		Slug:     req.Slug,
		OwnerID:  id.UserID,
		Template: req.Template,
		Contact:  req.Contact,
	})
	if err != nil {
		response.WriteServiceError(w, err)
		return
	}

	zerolog.Ctx(r.Context()).Info().Str("tenant_id", t.ID).Str("slug", t.Slug).Str("owner_id", t.OwnerID).Msg("tenant signed up")
	response.WriteJSON(w, http.StatusCreated, t)
}
