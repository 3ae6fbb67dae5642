package model

// Identity is the authenticated caller behind an admin request.
// EmailVerified is set only when the identity provider vouches for Email.
type Identity struct {
	UserID        string   `json:"user_id"`
	Email         string   `json:"email"`
	EmailVerified bool     `json:"email_verified"`
	TenantIDs     []string `json:"tenant_ids"`
}

// CanEdit reports whether the identity was granted the tenant.
func (i *Identity) CanEdit(tenantID string) bool {
	if i == nil {
		return false
	}
	for _, id := range i.TenantIDs {
		if id == tenantID {
			return true
		}
	}
	return false
}
