package bootstrap

import (
	"context"
	"testing"
	"time"

	"github.com/dalemusser/threadhub/internal/app/system/timeouts"
	"github.com/dalemusser/threadhub/internal/testutil"
	"go.uber.org/zap"
)

func testLogger() *zap.Logger {
	return zap.NewNop()
}

func TestStartup_AppliesTimeoutOverrides(t *testing.T) {
	t.Cleanup(timeouts.Reset)

	appCfg := AppConfig{
		DBTimeoutPing: 1 * time.Second,
		DBTimeoutLong: 45 * time.Second,
	}

	err := Startup(context.Background(), nil, appCfg, DBDeps{}, testLogger())
	if err != nil {
		t.Fatalf("Startup failed: %v", err)
	}

	if got := timeouts.Ping(); got != 1*time.Second {
		t.Errorf("ping timeout: got %v, want 1s", got)
	}
	if got := timeouts.Long(); got != 45*time.Second {
		t.Errorf("long timeout: got %v, want 45s", got)
	}
	// Unset values keep their defaults.
	if got := timeouts.Short(); got != timeouts.DefaultShort {
		t.Errorf("short timeout: got %v, want default %v", got, timeouts.DefaultShort)
	}
}

func TestValidateConfig_RejectsBadPoolSizes(t *testing.T) {
	appCfg := AppConfig{
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "threadhub",
		MongoMaxPoolSize: 5,
		MongoMinPoolSize: 10,
	}

	if err := ValidateConfig(nil, appCfg, testLogger()); err == nil {
		t.Fatal("expected error for min pool size > max pool size")
	}
}

func TestValidateConfig_RejectsEmptyDatabase(t *testing.T) {
	appCfg := AppConfig{
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "",
		MongoMaxPoolSize: 100,
		MongoMinPoolSize: 10,
	}

	if err := ValidateConfig(nil, appCfg, testLogger()); err == nil {
		t.Fatal("expected error for empty database name")
	}
}

func TestValidateConfig_AcceptsDefaults(t *testing.T) {
	appCfg := AppConfig{
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "threadhub",
		MongoMaxPoolSize: 100,
		MongoMinPoolSize: 10,
	}

	if err := ValidateConfig(nil, appCfg, testLogger()); err != nil {
		t.Fatalf("ValidateConfig failed: %v", err)
	}
}

func TestEnsureSchema_CreatesIndexes(t *testing.T) {
	db := testutil.SetupTestDB(t)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	deps := DBDeps{MongoDatabase: db, MongoClient: db.Client()}

	if err := EnsureSchema(ctx, nil, AppConfig{}, deps, testLogger()); err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	// The unique auth_id index must exist on users.
	cur, err := db.Collection("users").Indexes().List(ctx)
	if err != nil {
		t.Fatalf("failed to list user indexes: %v", err)
	}
	var found bool
	var specs []struct {
		Name   string `bson:"name"`
		Unique bool   `bson:"unique"`
	}
	if err := cur.All(ctx, &specs); err != nil {
		t.Fatalf("failed to decode indexes: %v", err)
	}
	for _, spec := range specs {
		if spec.Name == "uniq_users_auth_id" && spec.Unique {
			found = true
		}
	}
	if !found {
		t.Error("expected unique index uniq_users_auth_id on users collection")
	}
}
