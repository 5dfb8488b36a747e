package middleware

import (
	"net/http"
	"time"

	"github.com/farmerp/backend/internal/domain/shared"
	"github.com/farmerp/backend/internal/interfaces/http/dto"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// IdempotencyKeyHeader is the client-chosen key of a retryable POST
const IdempotencyKeyHeader = "Idempotency-Key"

const maxIdempotencyKeyLength = 128

// Idempotency rejects a POST whose Idempotency-Key was already used on the
// same route within ttl. Requests without the header pass through.
//
// A key is released again when the request fails (status >= 400), since a
// failed write rolled back its transaction and may be retried. When the
// store cannot be reached the request is refused with 503 rather than risk
// applying a stock adjustment twice.
func Idempotency(store shared.IdempotencyStore, ttl time.Duration, logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}
	return func(c *gin.Context) {
		key := c.GetHeader(IdempotencyKeyHeader)
		if c.Request.Method != http.MethodPost || key == "" {
			c.Next()
			return
		}
		if len(key) > maxIdempotencyKeyLength {
			abortWithCode(c, dto.ErrCodeBadRequest, "Idempotency-Key is too long")
			return
		}

		scoped := c.Request.Method + " " + c.FullPath() + " " + key
		ctx := c.Request.Context()
		reserved, err := store.Reserve(ctx, scoped, ttl)
		if err != nil {
			logger.Error("Idempotency store unavailable",
				zap.String("request_id", GetRequestID(c)),
				zap.Error(err),
			)
			abortWithCode(c, dto.ErrCodeUnavailable, "Request could not be deduplicated, retry later")
			return
		}
		if !reserved {
			abortWithCode(c, dto.ErrCodeDuplicateRequest, "A request with this Idempotency-Key was already received")
			return
		}

		c.Next()

		if c.Writer.Status() >= http.StatusBadRequest {
			if err := store.Release(ctx, scoped); err != nil {
				logger.Warn("Failed to release idempotency key",
					zap.String("request_id", GetRequestID(c)),
					zap.Error(err),
				)
			}
		}
	}
}

func abortWithCode(c *gin.Context, code, message string) {
	c.Set(ErrorCodeKey, code)
	c.AbortWithStatusJSON(dto.GetHTTPStatus(code), dto.NewErrorResponseWithRequestID(code, message, GetRequestID(c)))
}
