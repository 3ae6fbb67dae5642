// Package api serves tenants' public sites and the admin API agencies use
// to edit them.
//
//	@title						Agency Sites API
//	@version					1.0
//	@description				Public agency sites and the admin API for editing them
//	@BasePath					/
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package api
