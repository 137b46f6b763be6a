// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Rate Limiting: Burst capacities and IP tracking TTLs.
  - Sessions: cookie names and persisted storage keys.
  - Surfaces: the fixed paths the route guard redirects to.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "riddlerush-admin"
	AppVersion = "0.1.0-dev"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 15 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second
)

// # Rate Limiting

const (
	// DefaultRateLimitRPS is the requests per second allowed per IP.
	DefaultRateLimitRPS = 100.0

	// DefaultRateLimitBurst is the maximum burst allowed for the rate limiter.
	DefaultRateLimitBurst = 150

	// LoginRateLimitRPS throttles login attempts per IP.
	LoginRateLimitRPS = 0.5

	// LoginRateLimitBurst allows a few quick retries after a typo'd widget flow.
	LoginRateLimitBurst = 5

	// RateLimitCleanupInterval is how often old IP entries are removed from memory.
	RateLimitCleanupInterval = 1 * time.Minute

	// RateLimitClientTTL is how long a client must be idle before its entry is deleted.
	RateLimitClientTTL = 3 * time.Minute
)

// # Sessions

const (
	// BrowserCookieName carries the signed browser identifier.
	BrowserCookieName = "rr_sid"

	// BrowserTokenIssuer is the 'iss' claim of browser identifier tokens.
	BrowserTokenIssuer = "riddlerush-admin"

	// StorageKeyUser holds the serialized user record of a browser session.
	StorageKeyUser = "telegram_user"

	// StorageKeyToken holds the opaque bearer token of a browser session.
	StorageKeyToken = "auth_token"

	// StorageKeyFlash holds the pending notifications of a browser.
	StorageKeyFlash = "flash"

	// FlashTTL bounds how long an undelivered notification is kept.
	FlashTTL = 10 * time.Minute

	// FlashQueueLimit caps the pending notifications per browser.
	FlashQueueLimit = 20

	// StorageKeyFallback holds the whole fallback store snapshot.
	StorageKeyFallback = "riddlerush-storage"

	// RegistrySweepInterval is how often idle browser sessions are evicted.
	RegistrySweepInterval = 1 * time.Minute

	// StoragePurgeInterval is how often expired PostgreSQL entries are deleted.
	StoragePurgeInterval = 10 * time.Minute
)

// # Surfaces

const (
	PathLogin = "/login"
	PathHome  = "/"
)

// # HTTP Headers

const (
	HeaderXRequestID    = "X-Request-ID"
	HeaderXRealIP       = "X-Real-IP"
	HeaderXForwardedFor = "X-Forwarded-For"
	HeaderRetryAfter    = "Retry-After"
	HeaderLocation      = "Location"
)

// # JSON Field Identifiers

const (
	FieldData    = "data"
	FieldError   = "error"
	FieldCode    = "code"
	FieldDetails = "details"
	FieldMessage = "message"
	FieldStatus  = "status"
	FieldChecks  = "checks"
)

// # Storage Prefixes (Key Taxonomy)

const (
	PrefixBrowser = "browser:"
	PrefixCache   = "cache:"
)

// # Leaderboard

const (
	// LeaderboardLimit is the number of entries requested from the backend.
	LeaderboardLimit = 10
)
