// internal/app/bootstrap/startup.go
package bootstrap

import (
	"context"

	"github.com/dalemusser/threadhub/internal/app/system/timeouts"
	"github.com/dalemusser/waffle/config"
	"go.uber.org/zap"
)

// Startup runs one-time application initialization after DB connections and
// schema setup are complete, but before the HTTP handler is built.
//
// ThreadHub applies any configured timeout overrides here so every handler
// built afterward sees the final values.
func Startup(ctx context.Context, coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) error {
	timeouts.Configure(timeouts.Config{
		Ping:   appCfg.DBTimeoutPing,
		Short:  appCfg.DBTimeoutShort,
		Medium: appCfg.DBTimeoutMedium,
		Long:   appCfg.DBTimeoutLong,
	})
	return nil
}
