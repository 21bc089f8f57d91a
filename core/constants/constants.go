package constants

import "time"

// Database pool tuning.
const (
	DatabaseMaxOpenConns    = 25
	DatabaseMaxIdleConns    = 5
	DatabaseConnMaxLifetime = 30 // minutes
	DatabaseSSLMode         = "disable"
)

// Redis key prefixes.
const (
	RedisKeyOAuthState       = "oauth:state:"
	RedisKeyTokenBlacklist   = "auth:blacklist:"
	RedisChannelMeetingsPref = "meetings:changed:"
)

const (
	OAuthStateTTL     = 10 * time.Minute
	TokenBlacklistTTL = 24 * time.Hour
)

// Scheduling defaults. The slot query window is capped so a single listing
// request cannot expand into an unbounded number of candidate slots.
const (
	DefaultTimeGapMinutes   = 30
	DefaultEventDuration    = 30
	MaxSlotRangeDays        = 60
	DefaultMinNoticeMinutes = 0

	DefaultDayStart = "09:00"
	DefaultDayEnd   = "17:00"
)

const BcryptCost = 12

// Asynq task type names.
const (
	TaskCalendarSync        = "calendar:sync"
	TaskNotificationDeliver = "notification:deliver"
)
