// internal/app/bootstrap/routes.go
package bootstrap

import (
	"net/http"
	"time"

	activityfeature "github.com/dalemusser/threadhub/internal/app/features/activity"
	healthfeature "github.com/dalemusser/threadhub/internal/app/features/health"
	threadsfeature "github.com/dalemusser/threadhub/internal/app/features/threads"
	usersfeature "github.com/dalemusser/threadhub/internal/app/features/users"
	activitysvc "github.com/dalemusser/threadhub/internal/app/service/activity"
	"github.com/dalemusser/threadhub/internal/app/service/threadtree"
	userstore "github.com/dalemusser/threadhub/internal/app/store/users"
	"github.com/dalemusser/threadhub/internal/app/system/ratelimit"
	"github.com/dalemusser/waffle/config"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// BuildHandler constructs the root HTTP handler (router) for this WAFFLE app.
//
// WAFFLE calls this after configuration, DB connections, schema setup, and
// any Startup hooks have completed. At this point you have access to:
//   - coreCfg: WAFFLE core configuration (ports, env, timeouts, etc.)
//   - appCfg: app-specific configuration defined in AppConfig
//   - deps: any DB or backend clients bundled in DBDeps
//   - logger: the fully configured zap.Logger for this app
//
// ThreadHub builds the thread-tree and activity services over the shared
// database handle and mounts the JSON API feature routers under /api,
// plus the health endpoint for load balancers and orchestrators.
func BuildHandler(coreCfg *config.CoreConfig, appCfg AppConfig, deps DBDeps, logger *zap.Logger) (http.Handler, error) {
	db := deps.MongoDatabase

	tree := threadtree.New(db, logger)
	activity := activitysvc.New(db, logger)
	users := userstore.New(db)

	r := chi.NewRouter()

	// Health check endpoint for load balancers and orchestrators
	healthHandler := healthfeature.NewHandler(deps.MongoClient, logger)
	r.Mount("/health", healthfeature.Routes(healthHandler))

	r.Route("/api", func(api chi.Router) {
		// Throttle mutations per client IP; reads are unmetered.
		api.Use(ratelimit.WriteLimit(ratelimit.New(60, time.Minute)))

		threadsHandler := threadsfeature.NewHandler(db, tree, logger)
		api.Mount("/threads", threadsfeature.Routes(threadsHandler))

		usersHandler := usersfeature.NewHandler(db, users, logger)
		api.Mount("/users", usersfeature.Routes(usersHandler))

		activityHandler := activityfeature.NewHandler(activity, logger)
		api.Mount("/activity", activityfeature.Routes(activityHandler))
	})

	return r, nil
}
