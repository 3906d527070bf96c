package service

import (
	"context"
	"errors"

	"github.com/orda-service/internal/logger"
	"github.com/orda-service/internal/repo"
	"go.uber.org/zap"
)

// logStoreError records unexpected store failures. Missing documents are a
// normal client outcome and are reported by the HTTP layer instead.
func logStoreError(ctx context.Context, msg string, err error, fields ...zap.Field) {
	if errors.Is(err, repo.ErrNotFound) {
		return
	}
	logger.FromContext(ctx).Error(msg, append(fields, zap.Error(err))...)
}
