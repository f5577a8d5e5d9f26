// Package api holds the OpenAPI document of the registry HTTP surface.
package api

import _ "embed"

// OpenAPISpec is the registry OpenAPI 3 document. handlers validates requests against it.
//
//go:embed registry.openapi.yaml
var OpenAPISpec []byte
