package server

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/trustcall/trustcall-directory-service/internal/cache"
	"github.com/trustcall/trustcall-directory-service/internal/domain"
	"github.com/trustcall/trustcall-directory-service/internal/repository"
)

// toStatus translates service errors into gRPC status errors. Errors that already carry a
// status pass through unchanged.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return status.Error(codes.InvalidArgument, verr.Error())
	case errors.Is(err, domain.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, domain.ErrDuplicateReport), errors.Is(err, domain.ErrDuplicateContact):
		return status.Error(codes.AlreadyExists, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request cancelled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "request deadline exceeded")
	case errors.Is(err, cache.ErrUnavailable):
		return status.Error(codes.Unavailable, "cache unavailable")
	case errors.Is(err, repository.ErrDatabase):
		return status.Error(codes.Internal, "database error")
	}
	return status.Error(codes.Internal, "internal error")
}
