package collection

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/raushankrgupta/stylis/models"
)

type collectionDocument struct {
	ID        string               `bson:"_id"`
	Outfits   []models.SavedOutfit `bson:"outfits"`
	UpdatedAt time.Time            `bson:"updated_at"`
}

// MongoBackend keeps the collection as a single document keyed by name.
type MongoBackend struct {
	coll *mongo.Collection
	key  string
}

func NewMongoBackend(coll *mongo.Collection, key string) *MongoBackend {
	return &MongoBackend{coll: coll, key: key}
}

func (b *MongoBackend) Name() string { return "mongo" }

func (b *MongoBackend) Load(ctx context.Context) ([]models.SavedOutfit, error) {
	var doc collectionDocument
	err := b.coll.FindOne(ctx, bson.M{"_id": b.key}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return []models.SavedOutfit{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load collection document: %w", err)
	}
	if doc.Outfits == nil {
		return []models.SavedOutfit{}, nil
	}
	return doc.Outfits, nil
}

func (b *MongoBackend) Replace(ctx context.Context, outfits []models.SavedOutfit) error {
	if outfits == nil {
		outfits = []models.SavedOutfit{}
	}

	doc := collectionDocument{ID: b.key, Outfits: outfits, UpdatedAt: time.Now()}
	opts := options.Replace().SetUpsert(true)
	if _, err := b.coll.ReplaceOne(ctx, bson.M{"_id": b.key}, doc, opts); err != nil {
		return fmt.Errorf("failed to replace collection document: %w", err)
	}
	return nil
}
