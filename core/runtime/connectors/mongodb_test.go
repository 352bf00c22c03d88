package connectors

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"

	apperrors "github.com/cosmosgate/cosmosgate/core/shared/errors"
)

func TestMongoDBConnector_Query_InvalidJSON(t *testing.T) {
	// Statement parsing happens before the client is touched, so an empty
	// connector is enough here.
	conn := &MongoDBConnector{}
	target := Target{Database: "invoices", Container: "items"}

	_, err := conn.Query(context.Background(), target, "not json")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrCodeInvalidInput, appErr.Code)
}

func TestMongoDBConnector_Query_EmptyCommand(t *testing.T) {
	conn := &MongoDBConnector{}
	target := Target{Database: "invoices", Container: "items"}

	_, err := conn.Query(context.Background(), target, "{}")
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, apperrors.ErrCodeInvalidInput, appErr.Code)
}

func TestMongoDBConnector_Query_NonObjectCommand(t *testing.T) {
	conn := &MongoDBConnector{}
	target := Target{Database: "invoices", Container: "items"}

	_, err := conn.Query(context.Background(), target, `["find", "c"]`)
	require.Error(t, err)
}

func TestCommandToBsonD_PreservesKeyOrder(t *testing.T) {
	// RunCommand requires the command name to be the first key.
	raw := `{"find": "c", "filter": {"NIP": "9999999999"}, "limit": 1, "singleBatch": true}`

	cmd, err := commandToBsonD([]byte(raw))
	require.NoError(t, err)
	require.Len(t, cmd, 4)

	assert.Equal(t, "find", cmd[0].Key)
	assert.Equal(t, "c", cmd[0].Value)
	assert.Equal(t, "filter", cmd[1].Key)
	assert.Equal(t, "limit", cmd[2].Key)
	assert.Equal(t, "singleBatch", cmd[3].Key)

	filter, ok := cmd[1].Value.(bson.M)
	require.True(t, ok)
	assert.Equal(t, "9999999999", filter["NIP"])
}

func TestCommandToBsonD_ObjectIDConversion(t *testing.T) {
	raw := `{"find": "c", "filter": {"_id": {"$oid": "65b3f0c2a1b2c3d4e5f60718"}}}`

	cmd, err := commandToBsonD([]byte(raw))
	require.NoError(t, err)

	filter, ok := cmd[1].Value.(bson.M)
	require.True(t, ok)

	oid, ok := filter["_id"].(bson.ObjectID)
	require.True(t, ok)
	assert.Equal(t, "65b3f0c2a1b2c3d4e5f60718", oid.Hex())
}

func TestBsonValueToAny_Conversions(t *testing.T) {
	oid, err := bson.ObjectIDFromHex("65b3f0c2a1b2c3d4e5f60718")
	require.NoError(t, err)

	now := time.Date(2026, 8, 23, 12, 0, 0, 0, time.UTC)

	doc := bson.M{
		"id":      "42",
		"oid":     oid,
		"when":    bson.DateTime(now.UnixMilli()),
		"nested":  bson.D{{Key: "a", Value: int32(1)}},
		"listing": bson.A{bson.M{"b": "c"}, "plain"},
	}

	out := bsonMToMap(doc)

	assert.Equal(t, "42", out["id"])
	assert.Equal(t, "65b3f0c2a1b2c3d4e5f60718", out["oid"])
	assert.Equal(t, now, out["when"].(time.Time).UTC())
	assert.Equal(t, map[string]any{"a": int32(1)}, out["nested"])
	assert.Equal(t, []any{map[string]any{"b": "c"}, "plain"}, out["listing"])
}

func TestObjectIDFromMap(t *testing.T) {
	oid, ok := objectIDFromMap(map[string]any{"$oid": "65b3f0c2a1b2c3d4e5f60718"})
	assert.True(t, ok)
	assert.Equal(t, "65b3f0c2a1b2c3d4e5f60718", oid.Hex())

	_, ok = objectIDFromMap(map[string]any{"$oid": "not-hex"})
	assert.False(t, ok)

	_, ok = objectIDFromMap(map[string]any{"$oid": "65b3f0c2a1b2c3d4e5f60718", "extra": 1})
	assert.False(t, ok)

	_, ok = objectIDFromMap(map[string]any{"other": "value"})
	assert.False(t, ok)
}

func TestNewMongoDBConnector_Integration(t *testing.T) {
	uri := os.Getenv("MONGODB_URI")
	if uri == "" {
		t.Skip("MONGODB_URI not set, skipping MongoDB connector integration test")
	}

	conn, err := NewMongoDBConnector(uri)
	require.NoError(t, err)
	defer conn.Close(context.Background())

	target := Target{Database: "test", Container: "cosmosgate_ping"}
	results, err := conn.Query(context.Background(), target, `{"find": "c", "filter": {}, "limit": 1, "singleBatch": true}`)
	require.NoError(t, err)
	assert.NotNil(t, results)
}
