package storegrpc

import (
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"convex.dev/convex/store"
)

func mapRPC(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	switch st.Code() {
	case codes.NotFound:
		return store.ErrNotFound
	case codes.InvalidArgument:
		return store.ErrInvalidKey
	case codes.DataLoss:
		return store.ErrImmutable
	default:
		switch st.Message() {
		case store.ErrNotFound.Error():
			return store.ErrNotFound
		case store.ErrInvalidKey.Error():
			return store.ErrInvalidKey
		case store.ErrImmutable.Error():
			return store.ErrImmutable
		default:
			return err
		}
	}
}

func mapErr(err error) error {
	if err == nil {
		return nil
	}
	switch err {
	case store.ErrNotFound:
		return status.Error(codes.NotFound, err.Error())
	case store.ErrInvalidKey:
		return status.Error(codes.InvalidArgument, err.Error())
	case store.ErrImmutable:
		return status.Error(codes.DataLoss, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
