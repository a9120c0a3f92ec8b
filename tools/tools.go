//go:build tools

package tools

// This file tracks tool dependencies for reproducible builds.
// goose applies internal/adapters/postgres/migrations by hand; oapi-codegen
// generates clients from api/openapi.yaml.

import (
	_ "github.com/oapi-codegen/oapi-codegen/v2/cmd/oapi-codegen"
	_ "github.com/pressly/goose/v3/cmd/goose"
)
