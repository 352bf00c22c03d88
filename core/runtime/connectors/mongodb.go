package connectors

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"
	mongoOptions "go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.mongodb.org/mongo-driver/v2/mongo/readpref"

	"github.com/cosmosgate/cosmosgate/core/logger"
	apperrors "github.com/cosmosgate/cosmosgate/core/shared/errors"
)

// MongoDBConnector implements the Connector interface over the MongoDB
// wire protocol, for store accounts provisioned with the Mongo API.
type MongoDBConnector struct {
	client *mongo.Client
}

// NewMongoDBConnector creates a MongoDB connector and verifies the
// connection with a ping.
func NewMongoDBConnector(connectionString string) (*MongoDBConnector, error) {
	log := logger.New("connector:mongodb")
	log.Debug("Opening MongoDB connection")

	opts := mongoOptions.Client().ApplyURI(connectionString)
	client, err := mongo.Connect(opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	log.Debug("MongoDB connection opened successfully")
	return &MongoDBConnector{client: client}, nil
}

// cursorCommands return their documents through a cursor instead of a
// single reply document.
var cursorCommands = map[string]bool{
	"find":      true,
	"aggregate": true,
}

// Query runs the query text as a database command against the resolved
// target. The query must be a JSON object whose first key is the command
// name; when the command value names a collection, it is overridden with
// the target container so request/config overrides stay authoritative.
//
// Example queries:
//
//	{ "find": "c", "filter": { "NIP": "9999999999" } }
//	{ "aggregate": "c", "pipeline": [{ "$match": { "total": { "$gt": 50 } } }], "cursor": {} }
//	{ "count": "c", "query": {} }
func (m *MongoDBConnector) Query(ctx context.Context, target Target, query string) ([]map[string]any, error) {
	cmd, err := commandToBsonD([]byte(query))
	if err != nil {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "query must be a JSON command object", err)
	}
	if len(cmd) == 0 {
		return nil, apperrors.New(apperrors.ErrCodeInvalidInput, "query command is empty", nil)
	}

	// The first key is the command name; a string value names the
	// collection, which the resolved target overrides.
	if _, ok := cmd[0].Value.(string); ok {
		cmd[0].Value = target.Container
	}

	db := m.client.Database(target.Database)

	if cursorCommands[cmd[0].Key] {
		cursor, err := db.RunCommandCursor(ctx, cmd)
		if err != nil {
			return nil, mapMongoError(err)
		}
		defer cursor.Close(ctx)

		results := make([]map[string]any, 0)
		for cursor.Next(ctx) {
			var doc bson.M
			if err := cursor.Decode(&doc); err != nil {
				return nil, apperrors.New(apperrors.ErrCodeInternalError, "failed to decode document returned by the store", err)
			}
			results = append(results, bsonMToMap(doc))
		}
		if err := cursor.Err(); err != nil {
			return nil, mapMongoError(err)
		}
		return results, nil
	}

	var result bson.M
	if err := db.RunCommand(ctx, cmd).Decode(&result); err != nil {
		return nil, mapMongoError(err)
	}

	// Strip wire-protocol metadata so only the command's payload remains.
	clean := make(map[string]any)
	for k, v := range result {
		switch k {
		case "ok", "operationTime", "$clusterTime", "$db":
		default:
			clean[k] = bsonValueToAny(v)
		}
	}
	return []map[string]any{clean}, nil
}

// Ping verifies the server is reachable.
func (m *MongoDBConnector) Ping(ctx context.Context, target Target) error {
	if err := m.client.Ping(ctx, readpref.Primary()); err != nil {
		return apperrors.New(apperrors.ErrCodeConnectionFailed, "failed to reach the store", err)
	}
	return nil
}

// Close disconnects the client.
func (m *MongoDBConnector) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	log := logger.New("connector:mongodb")
	log.Debug("Closing MongoDB connection")
	return m.client.Disconnect(ctx)
}

// commandToBsonD parses command JSON into bson.D preserving key order.
// RunCommand requires the command name to be the first key.
func commandToBsonD(raw []byte) (bson.D, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	t, err := dec.Token()
	if err != nil {
		return nil, err
	}
	if delim, ok := t.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("command must be a JSON object")
	}

	var d bson.D
	for dec.More() {
		t, err := dec.Token()
		if err != nil {
			return nil, err
		}
		key := t.(string)

		var val any
		if err := dec.Decode(&val); err != nil {
			return nil, err
		}
		d = append(d, bson.E{Key: key, Value: toBSONValue(val)})
	}
	return d, nil
}

// toBSON converts map[string]any to bson.M (handles nested maps and slices)
func toBSON(m map[string]any) bson.M {
	if m == nil {
		return nil
	}
	out := make(bson.M, len(m))
	for k, v := range m {
		out[k] = toBSONValue(v)
	}
	return out
}

func toBSONValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		if oid, ok := objectIDFromMap(val); ok {
			return oid
		}
		return toBSON(val)
	case []any:
		arr := make(bson.A, len(val))
		for i, item := range val {
			arr[i] = toBSONValue(item)
		}
		return arr
	default:
		return v
	}
}

func bsonMToMap(doc bson.M) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for k, v := range doc {
		out[k] = bsonValueToAny(v)
	}
	return out
}

func bsonValueToAny(v any) any {
	switch val := v.(type) {
	case bson.M:
		return bsonMToMap(val)
	case bson.D:
		return bsonDToMap(val)
	case bson.A:
		arr := make([]any, len(val))
		for i, item := range val {
			arr[i] = bsonValueToAny(item)
		}
		return arr
	case bson.ObjectID:
		return val.Hex()
	case bson.DateTime:
		return val.Time()
	case bson.Decimal128:
		return val.String()
	default:
		return v
	}
}

func bsonDToMap(doc bson.D) map[string]any {
	if doc == nil {
		return nil
	}
	out := make(map[string]any, len(doc))
	for _, elem := range doc {
		out[elem.Key] = bsonValueToAny(elem.Value)
	}
	return out
}

func objectIDFromMap(m map[string]any) (bson.ObjectID, bool) {
	if len(m) != 1 {
		return bson.ObjectID{}, false
	}
	raw, ok := m["$oid"]
	if !ok {
		return bson.ObjectID{}, false
	}
	s, ok := raw.(string)
	if !ok {
		return bson.ObjectID{}, false
	}
	oid, err := bson.ObjectIDFromHex(s)
	if err != nil {
		return bson.ObjectID{}, false
	}
	return oid, true
}

// mapMongoError converts driver failures into the application error taxonomy.
func mapMongoError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || mongo.IsTimeout(err) {
		return apperrors.New(apperrors.ErrCodeTimeout, "request to the store timed out", err)
	}
	var cmdErr mongo.CommandError
	if errors.As(err, &cmdErr) {
		return apperrors.New(apperrors.ErrCodeQueryFailed, "the store rejected the query; check details", err).
			WithDetails(cmdErr.Name)
	}
	if errors.Is(err, mongo.ErrClientDisconnected) {
		return apperrors.New(apperrors.ErrCodeConnectionFailed, "failed to reach the store", err)
	}
	return apperrors.New(apperrors.ErrCodeQueryFailed, "the store rejected the query; check details", err)
}
