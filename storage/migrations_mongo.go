package storage

import (
	"context"
	"fmt"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// SessionsCollection holds login sessions when Mongo backs them.
const SessionsCollection = "ledgerdash_sessions"

type mongoMigrationOp struct {
	Collection string
	Index      mongo.IndexModel
}

var mongoMigrations = map[int][]mongoMigrationOp{
	1: {
		{"ledgerdash_schema_version", mongo.IndexModel{
			Keys:    bson.D{{Key: "num", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		{SessionsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetName("idx_sessions_user_id"),
		}},
		// Mongo drops expired sessions on its own; reads still check expiry.
		{SessionsCollection, mongo.IndexModel{
			Keys:    bson.D{{Key: "expires_at", Value: 1}},
			Options: options.Index().SetName("idx_sessions_ttl").SetExpireAfterSeconds(0),
		}},
	},
}

func (d *MongoDriver) migrateMongo(ctx context.Context) error {
	db := d.db()
	current, err := d.getSchemaVersion(ctx)
	if err != nil {
		return err
	}

	for v := current + 1; v <= schemaVersion; v++ {
		for _, op := range mongoMigrations[v] {
			if _, err := db.Collection(op.Collection).Indexes().CreateOne(ctx, op.Index); err != nil {
				return fmt.Errorf("mongo migration %d failed on %s: %w", v, op.Collection, err)
			}
		}
		_, err := db.Collection("ledgerdash_schema_version").UpdateOne(
			ctx,
			bson.M{"_id": "schema"},
			bson.M{"$set": bson.M{"num": v}},
			options.Update().SetUpsert(true),
		)
		if err != nil {
			return err
		}
	}
	return nil
}

func (d *MongoDriver) getSchemaVersion(ctx context.Context) (int, error) {
	var doc struct {
		Num int `bson:"num"`
	}
	err := d.db().Collection("ledgerdash_schema_version").FindOne(ctx, bson.M{"_id": "schema"}).Decode(&doc)
	if err == mongo.ErrNoDocuments {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return doc.Num, nil
}
