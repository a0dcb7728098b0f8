// Package api embeds the daemon's OpenAPI document so the HTTP layer can
// serve it without touching the filesystem at runtime.
package api

import "embed"

//go:embed openapi.yml
var fs embed.FS

// OpenAPISpec returns the raw contents of openapi.yml.
func OpenAPISpec() ([]byte, error) {
	return fs.ReadFile("openapi.yml")
}
