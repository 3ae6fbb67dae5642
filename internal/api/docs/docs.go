// Package docs registers the OpenAPI document generated from the handler
// annotations. Regenerate swagger.json after changing a handler:
//
//	swag init -g doc.go -d internal/api,internal/api/handler -o internal/api/docs --outputTypes json
package docs

import (
	_ "embed"

	"github.com/swaggo/swag"
)

//go:embed swagger.json
var swaggerJSON string

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	BasePath:         "/",
	Title:            "Agency Sites API",
	Description:      "Public agency sites and the admin API for editing them",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  swaggerJSON,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
