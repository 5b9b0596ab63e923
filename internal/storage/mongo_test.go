package storage

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestConnectUnreachableIsDegraded(t *testing.T) {
	ctx := context.Background()

	c := Connect(ctx, MongoConfig{
		URI:                    "mongodb://127.0.0.1:1",
		Database:               "userdocs_test",
		ConnectTimeout:         200 * time.Millisecond,
		ServerSelectionTimeout: 200 * time.Millisecond,
	}, zap.NewNop())

	require.NotNil(t, c)
	assert.False(t, c.Available())
	assert.Nil(t, c.Collection("users"))
	assert.ErrorIs(t, c.HealthCheck(ctx), ErrNotConnected)
	assert.NoError(t, c.Close(ctx))
}

func TestConnectInvalidURIIsDegraded(t *testing.T) {
	c := Connect(context.Background(), MongoConfig{URI: "not-a-mongo-uri"}, zap.NewNop())

	assert.False(t, c.Available())
	assert.Equal(t, "mongodb", c.Name())
	assert.True(t, c.IsCritical())
}

func TestConnectReachable(t *testing.T) {
	uri := os.Getenv("MONGO_DB_URL")
	if uri == "" {
		t.Skip("MONGO_DB_URL not set, skipping integration test")
	}
	ctx := context.Background()

	c := Connect(ctx, MongoConfig{
		URI:                    uri,
		Database:               "userdocs_test",
		ConnectTimeout:         2 * time.Second,
		ServerSelectionTimeout: 2 * time.Second,
	}, zap.NewNop())
	t.Cleanup(func() { _ = c.Close(ctx) })

	if !c.Available() {
		t.Skipf("MongoDB not reachable at %s, skipping integration test", uri)
	}
	assert.NotNil(t, c.Collection("users"))
	assert.NoError(t, c.HealthCheck(ctx))
}
