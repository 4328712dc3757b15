// internal/app/bootstrap/db.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/threadhub/internal/app/system/indexes"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// EnsureSchema reconciles the MongoDB indexes the app depends on.
//
// Runs after ConnectDB and before the HTTP handler is built, so the
// unique auth_id constraint and the thread query indexes exist before
// any request can touch the collections.
func EnsureSchema(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	if err := indexes.EnsureAll(ctx, deps.MongoDatabase); err != nil {
		logger.Error("index reconciliation failed", zap.Error(err))
		return err
	}
	return nil
}
