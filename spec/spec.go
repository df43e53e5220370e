// Package spec embeds the OpenAPI specification for the activity ledger API.
// It is imported by the HTTP server to serve the document at /openapi.yaml.
package spec

import _ "embed"

// OpenAPI contains the raw bytes of openapi.yaml, embedded at compile time.
// Served from the binary, so the document always matches the running code.
//
//go:embed openapi.yaml
var OpenAPI []byte
