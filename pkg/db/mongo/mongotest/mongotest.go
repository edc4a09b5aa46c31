// Package mongotest connects integration tests to a real MongoDB.
//
// Tests are skipped unless DIALOOM_TEST_MONGO_URI is set. Transactions need
// a replica set, e.g. mongodb://localhost:27017/?replicaSet=rs0.
package mongotest

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"dialoom/pkg/client"
	"dialoom/pkg/config"
	mongodb "dialoom/pkg/db/mongo"
	"dialoom/pkg/logger"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	EnvMongoURI       = "DIALOOM_TEST_MONGO_URI"
	ConnectionTimeout = 10 * time.Second
)

type Helper struct {
	Client   *mongo.Client
	Database *mongo.Database
	Config   *config.Config
}

// New connects to a throwaway database that is dropped when the test ends.
func New(t *testing.T) *Helper {
	t.Helper()

	uri := os.Getenv(EnvMongoURI)
	if uri == "" {
		t.Skipf("%s not set, skipping MongoDB integration test", EnvMongoURI)
	}

	ctx, cancel := context.WithTimeout(context.Background(), ConnectionTimeout)
	defer cancel()

	mc, err := mongo.Connect(ctx, options.Client().ApplyURI(uri).SetRegistry(mongodb.NewRegistry()))
	if err != nil {
		t.Fatalf("failed to connect to MongoDB: %v", err)
	}
	if err := mc.Ping(ctx, nil); err != nil {
		t.Fatalf("failed to ping MongoDB: %v", err)
	}

	dbName := fmt.Sprintf("dialoom_test_%s", uuid.NewString()[:8])
	c := client.NewClient()
	c.Mongo = mc

	h := &Helper{
		Client:   mc,
		Database: mc.Database(dbName),
		Config: &config.Config{
			MongoDatabaseName: dbName,
			ReadTimeout:       5 * time.Second,
			WriteTimeout:      5 * time.Second,
			BookingLockTTL:    time.Minute,
			DefaultTimeZone:   config.DefaultDefaultTimeZone,
			Log:               logger.NewNop(),
			Client:            c,
		},
	}

	t.Cleanup(func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := h.Database.Drop(ctx); err != nil {
			t.Logf("warning: failed to drop %s: %v", dbName, err)
		}
		if err := mc.Disconnect(ctx); err != nil {
			t.Logf("warning: failed to disconnect from MongoDB: %v", err)
		}
	})

	return h
}

// Insert writes documents straight into a collection, bypassing repositories.
func (h *Helper) Insert(t *testing.T, collection string, docs ...any) {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := h.Database.Collection(collection).InsertMany(ctx, docs); err != nil {
		t.Fatalf("failed to seed %s: %v", collection, err)
	}
}

func (h *Helper) CountDocuments(t *testing.T, collection string) int64 {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	count, err := h.Database.Collection(collection).CountDocuments(ctx, bson.M{})
	if err != nil {
		t.Fatalf("failed to count documents in %s: %v", collection, err)
	}
	return count
}
