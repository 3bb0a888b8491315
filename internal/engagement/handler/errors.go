package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"onboardflow/internal/platform/errkind"
	"onboardflow/internal/platform/latest"
)

// toStatus maps a service error to a gRPC status. Errors that already carry a status pass through.
// Unclassified errors become Internal without leaking their message.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	switch errkind.KindOf(err) {
	case errkind.State:
		return status.Error(codes.FailedPrecondition, err.Error())
	case errkind.Data, errkind.Moderation:
		return status.Error(codes.InvalidArgument, err.Error())
	case errkind.NotFound:
		return status.Error(codes.NotFound, err.Error())
	case errkind.Conflict:
		return status.Error(codes.AlreadyExists, err.Error())
	}
	switch {
	case errors.Is(err, latest.ErrStale):
		return status.Error(codes.Aborted, "superseded by a newer request")
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, "request canceled")
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, "deadline exceeded")
	}
	return status.Error(codes.Internal, "internal error")
}
