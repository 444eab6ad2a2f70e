package database

import (
	"context"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// AppConfig is everything the process reads from the environment, loaded
// once in main and passed down. Nothing else in the codebase touches
// os.Getenv.
type AppConfig struct {
	Port               string
	MongoURI           string
	DatabaseName       string
	SecretKey          string
	AmqpURL            string
	Environment        string
	AttentionThreshold time.Duration
}

// LoadEnv loads environment variables from the .env file, if present.
func LoadEnv() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment")
	}
}

func LoadConfig() *AppConfig {
	cfg := &AppConfig{
		Port:               os.Getenv("PORT"),
		MongoURI:           os.Getenv("DB"),
		DatabaseName:       os.Getenv("DB_NAME"),
		SecretKey:          os.Getenv("SECRET_KEY"),
		AmqpURL:            os.Getenv("AMQP_URL"),
		Environment:        os.Getenv("APP_ENV"),
		AttentionThreshold: 30 * time.Minute,
	}
	if cfg.Port == "" {
		cfg.Port = "8000"
	}
	if cfg.DatabaseName == "" {
		cfg.DatabaseName = "Restro"
	}
	if mins, err := strconv.Atoi(os.Getenv("ATTENTION_THRESHOLD_MINUTES")); err == nil && mins > 0 {
		cfg.AttentionThreshold = time.Duration(mins) * time.Minute
	}
	return cfg
}

func (c *AppConfig) IsDevelopment() bool {
	return c.Environment == "development"
}

// Connect dials MongoDB and verifies the connection with a ping. The
// returned client is injected into repositories; there is no package-level
// client singleton.
func Connect(ctx context.Context, uri string) (*mongo.Client, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		return nil, err
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		return nil, err
	}
	return client, nil
}

func OpenCollection(client *mongo.Client, databaseName, collectionName string) *mongo.Collection {
	return client.Database(databaseName).Collection(collectionName)
}
