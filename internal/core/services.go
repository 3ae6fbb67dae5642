package core

// Services bundles the store-facing services used by the API.
type Services struct {
	Tenant   *TenantService
	Property *PropertyService
	Auth     *AuthService
}

func NewServices(db DB, jwtSecret, jwtIssuer string) *Services {
	return &Services{
		Tenant:   NewTenantService(db),
		Property: NewPropertyService(db),
		Auth:     NewAuthService(jwtSecret, jwtIssuer),
	}
}
