package interceptor

import (
	"context"
	"time"

	"sejour-pms/internal/logger"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

// LoggingInterceptor logs every RPC with its status code and duration and
// gives handlers a request-scoped logger.
type LoggingInterceptor struct{}

func NewLoggingInterceptor() *LoggingInterceptor {
	return &LoggingInterceptor{}
}

// requestID takes the caller's x-request-id or makes one up.
func requestID(ctx context.Context) string {
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		if ids := md.Get("x-request-id"); len(ids) > 0 && ids[0] != "" {
			return ids[0]
		}
	}
	return uuid.NewString()
}

func (i *LoggingInterceptor) Unary() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		start := time.Now()
		l := logger.Get().With("request_id", requestID(ctx), "rpc", info.FullMethod)

		resp, err := handler(logger.WithContext(ctx, l), req)

		code := status.Code(err)
		if err != nil {
			l.Warn("RPC failed", "code", code.String(), "duration_ms", time.Since(start).Milliseconds(), "error", err)
		} else {
			l.Debug("RPC handled", "code", code.String(), "duration_ms", time.Since(start).Milliseconds())
		}
		return resp, err
	}
}

// wrappedStream carries the scoped logger into streaming handlers.
type wrappedStream struct {
	grpc.ServerStream
	ctx context.Context
}

func (w *wrappedStream) Context() context.Context {
	return w.ctx
}

func (i *LoggingInterceptor) Stream() grpc.StreamServerInterceptor {
	return func(srv interface{}, ss grpc.ServerStream, info *grpc.StreamServerInfo, handler grpc.StreamHandler) error {
		start := time.Now()
		l := logger.Get().With("request_id", requestID(ss.Context()), "rpc", info.FullMethod)

		err := handler(srv, &wrappedStream{ServerStream: ss, ctx: logger.WithContext(ss.Context(), l)})

		l.Debug("Stream closed", "code", status.Code(err).String(), "duration_ms", time.Since(start).Milliseconds())
		return err
	}
}
