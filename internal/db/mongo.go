package db

import (
	"context"
	"log"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"quiz-engine-service/internal/config"
)

var Client *mongo.Client

// InitMongo connects and pings; the service cannot run without its store.
func InitMongo(cfg config.MongoDBConfig) {
	ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.URI))
	if err != nil {
		log.Fatalf("mongo connect: %v", err)
	}
	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		log.Fatalf("mongo ping: %v", err)
	}
	Client = client
}

func Disconnect(ctx context.Context) {
	if Client != nil {
		if err := Client.Disconnect(ctx); err != nil {
			log.Printf("mongo disconnect: %v", err)
		}
	}
}
