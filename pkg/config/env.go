package config

const (
	EnvMongoURI          = "MONGO_URI"
	EnvMongoDatabaseName = "MONGO_DATABASE_NAME"
	EnvMongoConnTimeout  = "MONGO_CONN_TIMEOUT"

	EnvPort      = "PORT"
	EnvLogLevel  = "LOG_LEVEL"
	EnvLogFormat = "LOG_FORMAT"

	EnvRateLimitRequests = "RATE_LIMIT_REQUESTS"
	EnvRateLimitWindow   = "RATE_LIMIT_WINDOW"

	EnvRequestTimeout = "REQUEST_TIMEOUT"
	EnvIdempotencyTTL = "IDEMPOTENCY_TTL"
	EnvMaxRequestSize = "MAX_REQUEST_SIZE"

	EnvReadTimeout     = "READ_TIMEOUT"
	EnvWriteTimeout    = "WRITE_TIMEOUT"
	EnvIdleTimeout     = "IDLE_TIMEOUT"
	EnvShutdownTimeout = "SHUTDOWN_TIMEOUT"

	EnvCalendarDomain         = "CALENDAR_DOMAIN"
	EnvCalendarOrganizerEmail = "CALENDAR_ORGANIZER_EMAIL"
	EnvFeedTokenKey           = "FEED_TOKEN_KEY"

	EnvSyncFetchTimeout      = "SYNC_FETCH_TIMEOUT"
	EnvSyncUserAgent         = "SYNC_USER_AGENT"
	EnvSyncSchedule          = "SYNC_SCHEDULE"
	EnvSyncRecurrenceHorizon = "SYNC_RECURRENCE_HORIZON"
	EnvCleanupDays           = "CLEANUP_DAYS"

	EnvBookingLockTTL = "BOOKING_LOCK_TTL"
)
