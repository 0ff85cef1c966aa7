package db

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

	"noticeflow/internal/config"
	"noticeflow/internal/core"
	"noticeflow/internal/models"
)

// MongoStore implements core.DocumentStore on a single process-wide Mongo
// client. The collection is append-only: records are inserted and read,
// never updated or deleted.
type MongoStore struct {
	client *mongo.Client
	col    *mongo.Collection
}

func NewMongoStore(ctx context.Context, cfg *config.Config) (*MongoStore, error) {
	if cfg == nil {
		return nil, fmt.Errorf("store configuration is nil")
	}
	if cfg.MongoURI == "" {
		return nil, fmt.Errorf("MONGO_URI is empty")
	}

	connectCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().
		ApplyURI(cfg.MongoURI).
		SetMaxPoolSize(20).
		SetMaxConnIdleTime(10*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("connect mongo: %w", err)
	}
	if err := client.Ping(connectCtx, readpref.Primary()); err != nil {
		_ = client.Disconnect(connectCtx)
		return nil, fmt.Errorf("ping mongo: %w", err)
	}

	col := client.Database(cfg.DBName).Collection(cfg.CollectionName)
	return &MongoStore{client: client, col: col}, nil
}

var _ core.DocumentStore = (*MongoStore)(nil)

// InsertDocument assigns CreatedAt and persists doc, returning the
// generated ObjectID hex.
func (s *MongoStore) InsertDocument(ctx context.Context, doc *models.Document) (string, error) {
	if doc == nil {
		return "", core.NewFailure(core.KindStorageFailed, "nil document", nil)
	}
	doc.CreatedAt = time.Now().UTC()

	res, err := s.col.InsertOne(ctx, doc)
	if err != nil {
		return "", core.NewFailure(core.KindStorageFailed, "insert document", err)
	}
	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", core.NewFailure(core.KindStorageFailed, "unexpected inserted id type", nil)
	}
	doc.ID = oid
	return oid.Hex(), nil
}

func (s *MongoStore) GetDocumentByID(ctx context.Context, id string) (*models.Document, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, core.NewFailure(core.KindInvalidID, fmt.Sprintf("malformed document id %q", id), err)
	}

	var doc models.Document
	err = s.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, core.NewFailure(core.KindDocumentNotFound, fmt.Sprintf("no document with id %s", id), err)
	}
	if err != nil {
		return nil, core.NewFailure(core.KindStorageFailed, "fetch document", err)
	}
	return &doc, nil
}

// ListDocuments returns one page of records, most recent first, plus the
// total collection count.
func (s *MongoStore) ListDocuments(ctx context.Context, skip, limit int64) ([]models.Document, int64, error) {
	total, err := s.col.CountDocuments(ctx, bson.M{})
	if err != nil {
		return nil, 0, core.NewFailure(core.KindStorageFailed, "count documents", err)
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "created_at", Value: -1}}).
		SetSkip(skip).
		SetLimit(limit)
	cursor, err := s.col.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, 0, core.NewFailure(core.KindStorageFailed, "scan documents", err)
	}
	defer cursor.Close(ctx)

	docs := []models.Document{}
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, core.NewFailure(core.KindStorageFailed, "decode documents", err)
	}
	return docs, total, nil
}

func (s *MongoStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx, readpref.Primary())
}

func (s *MongoStore) Close(ctx context.Context) error {
	return s.client.Disconnect(ctx)
}
