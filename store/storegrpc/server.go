package storegrpc

import (
	"context"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"convex.dev/convex/store"
)

// Server exposes a store.Store over the Store gRPC service.
//
// Logger defaults to the global zerolog logger if left unset. RPC failures
// are logged at warn -- the per-call path itself isn't, since a cell-sized
// payload can arrive many times a second and structured logging on every
// call would drown the signal a human actually wants to see.
type Server struct {
	UnimplementedStoreServer
	Store  store.Store
	Logger *zerolog.Logger
}

func (s *Server) logger() *zerolog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return &log.Logger
}

func (s *Server) Put(ctx context.Context, in *wrapperspb.BytesValue) (*wrapperspb.StringValue, error) {
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing store")
	}
	key, err := s.Store.Put(ctx, in.GetValue())
	if err != nil {
		s.logger().Warn().Err(err).Int("bytes", len(in.GetValue())).Msg("storegrpc: put failed")
		return nil, mapErr(err)
	}
	return wrapperspb.String(key.String()), nil
}

func (s *Server) Get(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BytesValue, error) {
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing store")
	}
	key, err := store.ParseKey(in.GetValue())
	if err != nil || !key.Defined() {
		return nil, status.Error(codes.InvalidArgument, store.ErrInvalidKey.Error())
	}
	b, err := s.Store.Get(ctx, key)
	if err != nil {
		if !store.IsNotFound(err) {
			s.logger().Warn().Err(err).Str("key", key.String()).Msg("storegrpc: get failed")
		}
		return nil, mapErr(err)
	}
	return wrapperspb.Bytes(b), nil
}

func (s *Server) Has(ctx context.Context, in *wrapperspb.StringValue) (*wrapperspb.BoolValue, error) {
	if s == nil || s.Store == nil {
		return nil, status.Error(codes.FailedPrecondition, "missing store")
	}
	key, err := store.ParseKey(in.GetValue())
	if err != nil || !key.Defined() {
		return nil, status.Error(codes.InvalidArgument, store.ErrInvalidKey.Error())
	}
	return wrapperspb.Bool(s.Store.Has(ctx, key)), nil
}
