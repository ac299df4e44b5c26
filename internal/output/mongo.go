// internal/output/mongo.go
package output

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/stayscout/stayscout/pkg/types"
)

// MongoSink exports stored leads into a MongoDB collection as documents,
// replace-upserted on (name, website).
type MongoSink struct {
	client     *mongo.Client
	collection *mongo.Collection
}

// NewMongoSink connects to MongoDB with the given URI.
func NewMongoSink(ctx context.Context, uri, database, collection string) (*MongoSink, error) {
	if uri == "" {
		return nil, fmt.Errorf("MongoDB connection string is required")
	}
	if database == "" {
		database = "stayscout"
	}
	if collection == "" {
		collection = "leads"
	}

	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	coll := client.Database(database).Collection(collection)

	indexCtx, cancelIdx := context.WithTimeout(ctx, 10*time.Second)
	defer cancelIdx()
	_, err = coll.Indexes().CreateOne(indexCtx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name", Value: 1}, {Key: "website", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("hotel_key"),
	})
	if err != nil {
		client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to create index: %w", err)
	}

	return &MongoSink{client: client, collection: coll}, nil
}

// Export upserts the batch in one bulk write.
func (s *MongoSink) Export(ctx context.Context, results []types.DetectionResult) error {
	if len(results) == 0 {
		return nil
	}

	models := make([]mongo.WriteModel, 0, len(results))
	now := time.Now().UTC()
	for i := range results {
		r := results[i]
		r.Name, r.Website = r.Key()
		doc := resultDocument(&r, now)
		models = append(models, mongo.NewReplaceOneModel().
			SetFilter(bson.D{{Key: "name", Value: r.Name}, {Key: "website", Value: r.Website}}).
			SetReplacement(doc).
			SetUpsert(true))
	}

	_, err := s.collection.BulkWrite(ctx, models, options.BulkWrite().SetOrdered(false))
	if err != nil {
		return fmt.Errorf("failed to bulk write results: %w", err)
	}
	return nil
}

// Close disconnects the client.
func (s *MongoSink) Close() error {
	if s.client == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	err := s.client.Disconnect(ctx)
	s.client = nil
	return err
}

func resultDocument(r *types.DetectionResult, now time.Time) bson.D {
	headers, row := r.Fields()
	doc := make(bson.D, 0, len(headers)+1)
	for i, col := range headers {
		doc = append(doc, bson.E{Key: col, Value: row[i]})
	}
	doc = append(doc, bson.E{Key: "updated_at", Value: now})
	return doc
}
