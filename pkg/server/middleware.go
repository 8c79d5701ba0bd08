package server

import (
	"context"
	"fmt"
	"time"

	"github.com/vitalvas/radkit/pkg/log"
	"github.com/vitalvas/radkit/pkg/packet"
)

// LoggingMiddleware provides request/response logging
func LoggingMiddleware(logger log.Logger) Middleware {
	logger = log.OrDiscard(logger)

	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, r *Request) (*packet.Packet, error) {
			start := time.Now()
			reqLogger := logger.WithFields(map[string]any{
				"client": r.Client.String(),
				"code":   r.Packet.Code().String(),
				"id":     r.Packet.Identifier(),
			})

			reqLogger.Debug("processing request")

			resp, err := next.ServeRADIUS(ctx, r)

			duration := time.Since(start)

			switch {
			case err != nil:
				reqLogger.Errorf("request failed after %v: %v", duration, err)
			case resp != nil:
				reqLogger.Debugf("request completed after %v: response_code=%s", duration, resp.Code())
			default:
				reqLogger.Debugf("request completed after %v: no response", duration)
			}

			return resp, err
		})
	}
}

// RecoveryMiddleware turns a handler panic into an error so the request is dropped.
func RecoveryMiddleware(logger log.Logger) Middleware {
	logger = log.OrDiscard(logger)

	return func(next Handler) Handler {
		return HandlerFunc(func(ctx context.Context, r *Request) (resp *packet.Packet, err error) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Errorf("Panic recovered in %s id %d from %s: %v",
						r.Packet.Code(), r.Packet.Identifier(), r.Client, rec)
					resp = nil
					err = fmt.Errorf("panic recovered: %v", rec)
				}
			}()

			return next.ServeRADIUS(ctx, r)
		})
	}
}
