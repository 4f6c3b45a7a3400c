package config

import (
	"context"
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

type Config struct {
	Port         int
	MongoURI     string
	MongoDB      string
	JWTSecret    string
	KafkaBrokers []string
	KafkaTopic   string
}

func Load() Config {
	return Config{
		Port:         getEnvInt("PORT", 8080),
		MongoURI:     getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:      getEnv("MONGO_DB", "shop"),
		JWTSecret:    getEnv("JWT_SECRET", "secret"),
		KafkaBrokers: strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ","),
		KafkaTopic:   getEnv("KAFKA_TOPIC", "order-topic"),
	}
}

// ConnectMongo dials the database and retries until it answers a ping, the
// same way the services come up before their backing stores in compose.
func ConnectMongo(uri, dbName string) (*mongo.Database, error) {
	var lastErr error
	for i := 0; i < 10; i++ {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
		if err == nil {
			err = client.Ping(ctx, readpref.Primary())
			if err == nil {
				cancel()
				log.Printf("connected to mongo db %s", dbName)
				return client.Database(dbName), nil
			}
		}
		cancel()
		lastErr = err
		log.Printf("retry %d: failed to connect to mongo at %s: %v", i+1, uri, err)
		time.Sleep(3 * time.Second)
	}
	return nil, fmt.Errorf("failed to connect to mongo at %s after retries: %v", uri, lastErr)
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}

	return n
}
