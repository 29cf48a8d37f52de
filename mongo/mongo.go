// Package mongo provides a MongoDB-based implementation of the wikidoc
// document store, for deployments sharing a database with the wider
// quiz-game system.
package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// DefaultDatabase is the database name used when the connection URI does
// not name one.
const DefaultDatabase = "quiz_game_db"

// collectionDocuments is the collection holding Wikipedia documents.
const collectionDocuments = "wikipedia_docs"

// connectTimeout bounds connection establishment and teardown.
const connectTimeout = 10 * time.Second

// DB represents a MongoDB database connection.
type DB struct {
	client   *mongo.Client
	database *mongo.Database
	uri      string
	dbName   string
}

// NewDB creates a new DB instance for the given connection URI. A database
// name in the URI path overrides DefaultDatabase.
func NewDB(uri string) *DB {
	return &DB{uri: uri}
}

// Open connects to MongoDB, verifies the connection, and ensures the
// unique key index exists. The client is released on every failure path.
func (db *DB) Open() error {
	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	clientOptions := options.Client().
		ApplyURI(db.uri).
		SetServerSelectionTimeout(5 * time.Second).
		SetConnectTimeout(connectTimeout)

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return fmt.Errorf("failed to connect to MongoDB: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(ctx)
		return fmt.Errorf("failed to ping MongoDB: %w", err)
	}

	dbName := extractDBName(db.uri)
	if dbName == "" {
		dbName = DefaultDatabase
	}

	db.client = client
	db.database = client.Database(dbName)
	db.dbName = dbName

	if err := db.ensureIndexes(ctx); err != nil {
		_ = client.Disconnect(ctx)
		db.client = nil
		db.database = nil
		return fmt.Errorf("failed to ensure indexes: %w", err)
	}

	return nil
}

// Close disconnects from MongoDB.
func (db *DB) Close() error {
	if db.client == nil {
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), connectTimeout)
	defer cancel()

	err := db.client.Disconnect(ctx)
	db.client = nil
	db.database = nil
	return err
}

// Collection returns the named collection.
func (db *DB) Collection(name string) *mongo.Collection {
	return db.database.Collection(name)
}

// ensureIndexes creates the unique index on the document key so the store
// rejects duplicate keys even if a caller skips the existence check.
func (db *DB) ensureIndexes(ctx context.Context) error {
	_, err := db.Collection(collectionDocuments).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "key", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	return err
}

// extractDBName extracts the database name from a MongoDB URI, e.g.
// mongodb://localhost:27017/quiz_game_db?authSource=admin -> quiz_game_db.
func extractDBName(uri string) string {
	rest := uri
	if i := strings.Index(rest, "://"); i >= 0 {
		rest = rest[i+3:]
	}

	slash := strings.Index(rest, "/")
	if slash < 0 {
		return ""
	}

	name := rest[slash+1:]
	if q := strings.Index(name, "?"); q >= 0 {
		name = name[:q]
	}
	return name
}
