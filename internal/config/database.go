package config

import (
	"context"
	"os"
	"sync/atomic"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type MongoDBConfig struct {
	URI      string
	Database string
}

func NewMongoDBConfig() *MongoDBConfig {
	db := os.Getenv("MONGO_DB")
	if db == "" {
		db = "nexnote"
	}
	return &MongoDBConfig{URI: os.Getenv("MONGO_URI"), Database: db}
}

// MongoDBClient wraps the driver client with an explicit reachability state.
// An unreachable store at startup is not fatal: the server keeps running and
// data operations fail until the store comes back.
type MongoDBClient struct {
	Client    *mongo.Client
	Database  *mongo.Database
	log       *zap.Logger
	connected atomic.Bool
}

func NewMongoDBClient(lc fx.Lifecycle, config *MongoDBConfig, log *zap.Logger) (*MongoDBClient, *mongo.Database, error) {
	clientOptions := options.Client().ApplyURI(config.URI).SetServerSelectionTimeout(10 * time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, clientOptions)
	if err != nil {
		return nil, nil, err
	}

	c := &MongoDBClient{Client: client, Database: client.Database(config.Database), log: log}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Warn("MongoDB unreachable, starting in degraded mode; data operations will fail",
			zap.Error(err))
	} else {
		c.connected.Store(true)
		log.Info("Connected to MongoDB", zap.String("database", config.Database))
	}

	lc.Append(fx.Hook{
		OnStop: func(stopCtx context.Context) error {
			log.Info("Closing MongoDB connection ...")
			return client.Disconnect(stopCtx)
		},
	})
	return c, c.Database, nil
}

// Ready reports whether the store is reachable. After a failed startup ping it
// re-probes with a short timeout, so a recovered store is picked up again.
func (c *MongoDBClient) Ready(ctx context.Context) error {
	if c.connected.Load() {
		return nil
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Client.Ping(pingCtx, readpref.Primary()); err != nil {
		return err
	}
	c.connected.Store(true)
	c.log.Info("MongoDB connection recovered")
	return nil
}

// EnsureIndexes creates the unique email index on users. Index creation is
// best effort: a degraded store only logs a warning.
func EnsureIndexes(db *mongo.Database, log *zap.Logger) {
	indexModel := mongo.IndexModel{
		Keys:    bson.M{"email": 1},
		Options: options.Index().SetUnique(true),
	}

	ctx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if _, err := db.Collection("users").Indexes().CreateOne(ctx, indexModel); err != nil {
		log.Warn("Failed to create unique index on user email", zap.Error(err))
		return
	}
	log.Info("Unique index on user email ensured")
}
