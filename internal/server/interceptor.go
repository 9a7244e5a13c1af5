package server

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/trustcall/trustcall-directory-service/internal/logger"
)

// Metadata keys. The requester id is set by the authentication layer in front of the service.
const (
	MetadataTraceID     = "x-trace-id"
	MetadataRequesterID = "x-requester-id"
)

type requesterKey struct{}

// UnaryInterceptor attaches the trace id and requester to the context, logs the call and
// converts returned errors to gRPC status codes.
func UnaryInterceptor(log zerolog.Logger) grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		start := time.Now()
		md, _ := metadata.FromIncomingContext(ctx)

		traceID := firstValue(md, MetadataTraceID)
		if traceID == "" {
			traceID = uuid.NewString()
		}
		ctx = logger.WithTraceID(ctx, traceID)
		_ = grpc.SetHeader(ctx, metadata.Pairs(MetadataTraceID, traceID))
		l := *logger.ContextLogger(ctx, log)

		if raw := firstValue(md, MetadataRequesterID); raw != "" {
			id, err := uuid.Parse(raw)
			if err != nil {
				l.Warn().Str("method", info.FullMethod).Msg("Malformed requester id")
				return nil, status.Error(codes.Unauthenticated, "malformed "+MetadataRequesterID)
			}
			ctx = context.WithValue(ctx, requesterKey{}, id)
		}

		l.Debug().
			Str("event", logger.EventGrpcRequest).
			Str("method", info.FullMethod).
			Msg("gRPC request received")

		resp, err := handler(ctx, req)
		if err != nil {
			st := toStatus(err)
			code := status.Code(st)
			ev := l.Warn()
			switch code {
			case codes.Internal, codes.Unavailable, codes.Unknown:
				ev = l.Error()
			}
			ev.Err(err).
				Str("method", info.FullMethod).
				Str("code", code.String()).
				Dur("duration", time.Since(start)).
				Msg("gRPC request failed")
			return nil, st
		}
		return resp, nil
	}
}

// requesterFrom returns the authenticated requester of the call.
func requesterFrom(ctx context.Context) (uuid.UUID, error) {
	id, ok := ctx.Value(requesterKey{}).(uuid.UUID)
	if !ok || id == uuid.Nil {
		return uuid.Nil, status.Error(codes.Unauthenticated, MetadataRequesterID+" is required")
	}
	return id, nil
}

func firstValue(md metadata.MD, key string) string {
	if values := md.Get(key); len(values) > 0 {
		return values[0]
	}
	return ""
}
