package config

import "time"

const (
	DefaultMongoURI          = "mongodb://localhost:27017"
	DefaultMongoDatabaseName = "staybook"
	DefaultMongoConnTimeout  = 10 * time.Second

	DefaultPort      = "8080"
	DefaultLogLevel  = "info"
	DefaultLogFormat = "json"

	DefaultRateLimitRequests = 60
	DefaultRateLimitWindow   = 1 * time.Minute

	DefaultRequestTimeout = 30 * time.Second
	DefaultIdempotencyTTL = 24 * time.Hour
	DefaultMaxRequestSize = 1 * 1024 * 1024 // 1MB

	DefaultReadTimeout     = 15 * time.Second
	DefaultWriteTimeout    = 15 * time.Second
	DefaultIdleTimeout     = 60 * time.Second
	DefaultShutdownTimeout = 30 * time.Second

	DefaultPaginationLimit = 100

	DefaultCalendarDomain         = "staybook.local"
	DefaultCalendarOrganizerEmail = "noreply@staybook.local"

	DefaultSyncFetchTimeout      = 30 * time.Second
	DefaultSyncUserAgent         = "Staybook-Calendar-Sync/1.0"
	DefaultSyncSchedule          = "@every 1h"
	DefaultSyncRecurrenceHorizon = 365 * 24 * time.Hour
	DefaultCleanupDays           = 30

	DefaultBookingLockTTL = 10 * time.Second
)
