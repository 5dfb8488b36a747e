package reconciliation

import (
	"errors"

	"github.com/farmerp/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// LogRejected logs a failed write once.
// Domain rejections are expected outcomes and log at Warn; anything else is
// an infrastructure failure and logs at Error.
func LogRejected(logger *zap.Logger, msg string, err error, fields ...zap.Field) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		logger.Warn(msg, append(fields, zap.String("code", domainErr.Code), zap.Error(err))...)
		return
	}
	logger.Error(msg, append(fields, zap.Error(err))...)
}
