// trustcall-directory-service/internal/logger/events.go
package logger

// Standard event ids for the directory service.
const (
	EventSystemStartup      = "SYSTEM_STARTUP"
	EventSystemShutdown     = "SYSTEM_SHUTDOWN"
	EventGrpcRequest        = "GRPC_REQUEST_RECEIVED"
	EventIdentityRegistered = "IDENTITY_REGISTERED"
	EventContactAdded       = "CONTACT_ADDED"
	EventContactConflict    = "CONTACT_CONFLICT"
	EventSpamReported       = "SPAM_REPORTED"
	EventSpamDuplicate      = "SPAM_REPORT_DUPLICATE"
	EventScoreComputed      = "SCORE_COMPUTED"
	EventScoreWarmed        = "SCORE_WARMED"
	EventSearchByName       = "SEARCH_BY_NAME"
	EventSearchByPhone      = "SEARCH_BY_PHONE"
	EventPersonDetail       = "PERSON_DETAIL"
	EventEmailRevealed      = "EMAIL_REVEALED"
	EventCacheInvalidated   = "CACHE_INVALIDATED"
	EventPublishFailed      = "EVENT_PUBLISH_FAILED"
	EventStoreError         = "STORE_ERROR"
	EventRateLimited        = "RATE_LIMITED"
	EventRateLimiterError   = "RATE_LIMITER_ERROR"
)
