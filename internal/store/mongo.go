package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"calweb/internal/config"
	appLog "calweb/internal/log"
	"calweb/internal/model"
)

// MongoStore implements Store on a MongoDB collection.
type MongoStore struct {
	client *mongo.Client
	coll   *mongo.Collection
}

// NewMongoStore connects to MongoDB per cfg, verifies the connection, and
// ensures the collection indexes exist.
func NewMongoStore(ctx context.Context, cfg config.MongoConfig) (*MongoStore, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		return nil, fmt.Errorf("mongo connect: %w", err)
	}

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return nil, fmt.Errorf("mongo ping: %w", err)
	}

	s := &MongoStore{
		client: client,
		coll:   client.Database(cfg.Database).Collection(cfg.Collection),
	}
	if err := s.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		return nil, err
	}

	appLog.Info("mongo store ready", "database", cfg.Database, "collection", cfg.Collection)
	return s, nil
}

// Close disconnects the underlying client.
func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}

func (s *MongoStore) ensureIndexes(ctx context.Context) error {
	_, err := s.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "start_time", Value: 1}}},
		{Keys: bson.D{{Key: "deleted_at", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("mongo ensure indexes: %w", err)
	}
	return nil
}

// notDeleted is the filter fragment excluding soft-deleted documents.
func notDeleted() bson.M {
	return bson.M{"deleted_at": bson.M{"$exists": false}}
}

func (s *MongoStore) Create(ctx context.Context, ev *model.Event) (*model.Event, error) {
	now := time.Now().UTC()
	out := *ev
	out.ID = primitive.NewObjectID()
	out.CreatedAt = now
	out.UpdatedAt = now
	out.DeletedAt = nil

	if _, err := s.coll.InsertOne(ctx, &out); err != nil {
		return nil, fmt.Errorf("mongo insert: %w", err)
	}
	return &out, nil
}

func (s *MongoStore) Get(ctx context.Context, id string) (*model.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	filter := notDeleted()
	filter["_id"] = oid

	var ev model.Event
	if err := s.coll.FindOne(ctx, filter).Decode(&ev); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("mongo find: %w", err)
	}
	return &ev, nil
}

func (s *MongoStore) Update(ctx context.Context, id string, ev *model.Event) (*model.Event, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, ErrNotFound
	}

	filter := notDeleted()
	filter["_id"] = oid

	update := bson.M{"$set": bson.M{
		"title":       ev.Title,
		"description": ev.Description,
		"location":    ev.Location,
		"start_time":  ev.StartTime,
		"end_time":    ev.EndTime,
		"all_day":     ev.AllDay,
		"color":       ev.Color,
		"recurring":   ev.Recurring,
		"updated_at":  time.Now().UTC(),
	}}

	res, err := s.coll.UpdateOne(ctx, filter, update)
	if err != nil {
		return nil, fmt.Errorf("mongo update: %w", err)
	}
	if res.MatchedCount == 0 {
		return nil, ErrNotFound
	}
	return s.Get(ctx, id)
}

func (s *MongoStore) Delete(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return ErrNotFound
	}

	filter := notDeleted()
	filter["_id"] = oid

	res, err := s.coll.UpdateOne(ctx, filter, bson.M{
		"$set": bson.M{"deleted_at": time.Now().UTC()},
	})
	if err != nil {
		return fmt.Errorf("mongo delete: %w", err)
	}
	if res.MatchedCount == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *MongoStore) List(ctx context.Context, from, to time.Time) ([]model.Event, error) {
	filter := notDeleted()
	// Overlap with [from, to): an event overlaps when it starts before the
	// window ends and ends after the window starts.
	filter["start_time"] = bson.M{"$lt": to}
	filter["end_time"] = bson.M{"$gt": from}

	opts := options.Find().SetSort(bson.D{{Key: "start_time", Value: 1}})
	cur, err := s.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("mongo list: %w", err)
	}
	defer cur.Close(ctx)

	events := make([]model.Event, 0)
	if err := cur.All(ctx, &events); err != nil {
		return nil, fmt.Errorf("mongo list decode: %w", err)
	}
	return events, nil
}

func (s *MongoStore) PurgeDeleted(ctx context.Context, olderThan time.Time) (int64, error) {
	res, err := s.coll.DeleteMany(ctx, bson.M{
		"deleted_at": bson.M{"$lt": olderThan},
	})
	if err != nil {
		return 0, fmt.Errorf("mongo purge: %w", err)
	}
	return res.DeletedCount, nil
}
