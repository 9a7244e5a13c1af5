package server

import (
	"context"
	"math"
	"strconv"

	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/trustcall/trustcall-directory-service/internal/logger"
	"github.com/trustcall/trustcall-directory-service/internal/ratelimit"
)

// MetadataRetryAfter carries the number of seconds a throttled caller should wait.
const MetadataRetryAfter = "retry-after"

// ThrottledMethods are the per-requester limited calls: the spam write and the lookups.
var ThrottledMethods = []string{
	MethodReportSpam,
	MethodSearchByName,
	MethodSearchByPhone,
	MethodPersonDetail,
}

// RateLimitInterceptor rejects throttled calls with ResourceExhausted once the requester
// exhausted its window. It must run after UnaryInterceptor, which resolves the requester.
// Calls without a requester pass through and fail authentication in the handler.
// A limiter backend failure admits the call.
func RateLimitInterceptor(limiter ratelimit.Limiter, log zerolog.Logger) grpc.UnaryServerInterceptor {
	throttled := make(map[string]struct{}, len(ThrottledMethods))
	for _, m := range ThrottledMethods {
		throttled[FullMethod(m)] = struct{}{}
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		if _, ok := throttled[info.FullMethod]; !ok {
			return handler(ctx, req)
		}
		requester, err := requesterFrom(ctx)
		if err != nil {
			return handler(ctx, req)
		}

		res, err := limiter.Allow(ctx, "requester:"+requester.String())
		if err != nil {
			logger.ContextLogger(ctx, log).Error().
				Str("event", logger.EventRateLimiterError).
				Err(err).
				Str("method", info.FullMethod).
				Msg("Rate limiter unavailable, admitting call")
			return handler(ctx, req)
		}
		if !res.Allowed {
			seconds := int64(math.Ceil(res.RetryIn.Seconds()))
			if seconds < 1 {
				seconds = 1
			}
			_ = grpc.SetHeader(ctx, metadata.Pairs(MetadataRetryAfter, strconv.FormatInt(seconds, 10)))
			logger.ContextLogger(ctx, log).Warn().
				Str("event", logger.EventRateLimited).
				Dict("attributes", zerolog.Dict().
					Str("requester_id", requester.String()).
					Str("method", info.FullMethod).
					Int64("retry_after_s", seconds)).
				Msg("Requester throttled")
			return nil, status.Errorf(codes.ResourceExhausted, "rate limit exceeded, retry in %ds", seconds)
		}
		return handler(ctx, req)
	}
}
