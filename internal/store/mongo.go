package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const mongoCollection = "documents"

type mongoDocument struct {
	Kind      string    `bson:"_id"`
	Body      string    `bson:"body"`
	Version   int64     `bson:"version"`
	UpdatedAt time.Time `bson:"updatedAt"`
}

// MongoBackend stores one mongo document per kind. Mutate is a
// compare-and-swap on the version field, retried when another writer wins.
type MongoBackend struct {
	coll       *mongo.Collection
	maxRetries int
}

func NewMongoBackend(db *mongo.Database) *MongoBackend {
	return &MongoBackend{coll: db.Collection(mongoCollection), maxRetries: defaultMaxRetries}
}

func (b *MongoBackend) find(ctx context.Context, kind Kind) (*mongoDocument, error) {
	var doc mongoDocument
	err := b.coll.FindOne(ctx, bson.M{"_id": string(kind)}).Decode(&doc)
	if errors.Is(err, mongo.ErrNoDocuments) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading document: %w", err)
	}
	return &doc, nil
}

func (b *MongoBackend) Read(ctx context.Context, kind Kind) ([]byte, error) {
	doc, err := b.find(ctx, kind)
	if err != nil || doc == nil {
		return nil, err
	}
	return []byte(doc.Body), nil
}

func (b *MongoBackend) Write(ctx context.Context, kind Kind, data []byte) error {
	_, err := b.coll.UpdateOne(ctx,
		bson.M{"_id": string(kind)},
		bson.M{
			"$set": bson.M{"body": string(data), "updatedAt": time.Now().UTC()},
			"$inc": bson.M{"version": int64(1)},
		},
		options.Update().SetUpsert(true),
	)
	if err != nil {
		return fmt.Errorf("writing document: %w", err)
	}
	return nil
}

func (b *MongoBackend) Mutate(ctx context.Context, kind Kind, fn func(current []byte) ([]byte, error)) error {
	for i := 0; i < b.maxRetries; i++ {
		doc, err := b.find(ctx, kind)
		if err != nil {
			return err
		}

		var current []byte
		if doc != nil {
			current = []byte(doc.Body)
		}
		next, err := fn(current)
		if err != nil {
			return err
		}
		if next == nil {
			return nil
		}

		now := time.Now().UTC()
		if doc == nil {
			_, err := b.coll.InsertOne(ctx, mongoDocument{
				Kind:      string(kind),
				Body:      string(next),
				Version:   1,
				UpdatedAt: now,
			})
			if mongo.IsDuplicateKeyError(err) {
				continue
			}
			if err != nil {
				return fmt.Errorf("inserting document: %w", err)
			}
			return nil
		}

		res, err := b.coll.UpdateOne(ctx,
			bson.M{"_id": string(kind), "version": doc.Version},
			bson.M{
				"$set": bson.M{"body": string(next), "updatedAt": now},
				"$inc": bson.M{"version": int64(1)},
			},
		)
		if err != nil {
			return fmt.Errorf("updating document: %w", err)
		}
		if res.MatchedCount == 0 {
			continue
		}
		return nil
	}
	return ErrConflict
}

func (b *MongoBackend) Health(ctx context.Context) error {
	return b.coll.Database().Client().Ping(ctx, nil)
}
