package storage

import (
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoAdapter carries a Mongo database. It is not a Store: the SQL shim
// cannot run against it, but session storage can.
type MongoAdapter struct {
	DB *mongo.Database
}

func (a *MongoAdapter) Dialect() Dialect { return MongoDB }

func isMongoDB(conn any) bool {
	_, ok := conn.(*mongo.Database)
	return ok
}

func newMongoAdapter(conn any) (Adapter, error) {
	db := conn.(*mongo.Database)
	return &MongoAdapter{DB: db}, nil
}
