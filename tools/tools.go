//go:build tools

// Package tools documents development tool dependencies.
// They are run with `go run` or installed with `go install` and are not
// tracked in go.mod.
package tools

// Development tools:
//
// Air - live reload for the console (pair with DEV=true so templates are read from disk)
//   Install: go install github.com/air-verse/air@v1.63.0
//   Run:     air --build.cmd "go build -o ./tmp/salon-admin ./cmd/salon-admin" --build.bin ./tmp/salon-admin
//
// mockgen - regenerates internal/mocks
//   Run: go generate ./internal/mocks
//
// Fixture backend for local development:
//   Run: go run ./cmd/salon-devapi        (listens on DEVAPI_ADDR, default :4000)
//        go run ./cmd/salon-devapi accounts
