// Package pkg provides the core libraries for depscout dependency auditing.
//
// # Overview
//
// Depscout extracts package references from dependency manifests and checks
// them against the npm registry. The pkg directory is organized as:
//
//  1. [manifest] - Canonical record types and the nine ecosystem parsers
//  2. [scanner] - Directory walking and manifest detection
//  3. [verify] - Concurrent, rate-limited registry verification
//  4. [risk] - Lexical suspicion scoring for package names
//  5. [report] - Summary statistics and JSON/CSV serialization
//
// # Architecture
//
// The typical data flow through depscout:
//
//	Directory tree
//	         ↓
//	    [scanner] (detect + parse manifests)
//	         ↓
//	    [manifest] records
//	         ↓
//	    [verify] (npm lookups via [integrations/npm], scored by [risk])
//	         ↓
//	    [report] JSON/CSV output
//
// # Quick Start
//
// Scan a tree and verify the npm names it references:
//
//	import (
//	    "context"
//	    "github.com/depscout/depscout/pkg/scanner"
//	    "github.com/depscout/depscout/pkg/integrations/npm"
//	    "github.com/depscout/depscout/pkg/verify"
//	)
//
//	// 1. Extract records
//	records, _, _ := scanner.New().Scan(context.Background(), "./repo")
//
//	// 2. Verify against the registry
//	client := npm.NewClient("", nil, integrations.Options{})
//	verifier := verify.New(client, verify.Options{Concurrency: 10})
//	verified, stats, _ := verifier.Verify(context.Background(), records)
//
// # Infrastructure
//
// [cache] - File-based HTTP response cache with TTL expiry, plus a null
// implementation for cache-free runs.
//
// [integrations] - Shared registry-client plumbing: response caching,
// retry classification, and the not-found/network error taxonomy.
// [integrations/npm] is the registry client the verifier uses.
//
// [httputil] - Exponential-backoff retry helper that only retries errors
// explicitly marked transient.
//
// [config] - TOML configuration (.depscout.toml) with flag overrides.
//
// [errors] - Structured error codes shared across the module.
//
// [manifest]: https://pkg.go.dev/github.com/depscout/depscout/pkg/manifest
// [scanner]: https://pkg.go.dev/github.com/depscout/depscout/pkg/scanner
// [verify]: https://pkg.go.dev/github.com/depscout/depscout/pkg/verify
// [risk]: https://pkg.go.dev/github.com/depscout/depscout/pkg/risk
// [report]: https://pkg.go.dev/github.com/depscout/depscout/pkg/report
// [cache]: https://pkg.go.dev/github.com/depscout/depscout/pkg/cache
// [integrations]: https://pkg.go.dev/github.com/depscout/depscout/pkg/integrations
// [integrations/npm]: https://pkg.go.dev/github.com/depscout/depscout/pkg/integrations/npm
// [httputil]: https://pkg.go.dev/github.com/depscout/depscout/pkg/httputil
// [config]: https://pkg.go.dev/github.com/depscout/depscout/pkg/config
// [errors]: https://pkg.go.dev/github.com/depscout/depscout/pkg/errors
package pkg
